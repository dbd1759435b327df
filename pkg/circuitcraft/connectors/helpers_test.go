package connectors

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
)

var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC)

const fixedStamp = "2024-01-02T03:04:05.006Z"

func fixedClock() time.Time { return fixedNow }

// execCtx returns a handler context with a discarding logger.
func execCtx() circuitcraft.Context {
	return circuitcraft.NewContext(context.Background(),
		circuitcraft.WithContextLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

// execCtxWith wraps ctx as a handler context.
func execCtxWith(ctx context.Context, opts ...circuitcraft.ContextOption) circuitcraft.Context {
	opts = append([]circuitcraft.ContextOption{
		circuitcraft.WithContextLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	return circuitcraft.NewContext(ctx, opts...)
}

func nodeOf(typ string, cfg map[string]any) circuitcraft.Node {
	return circuitcraft.Node{ID: "n1", Type: typ, Config: cfg}
}

func testOptions() options {
	o := defaultOptions()
	o.now = fixedClock
	return o
}
