package connectors

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/expr"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/validation"
)

const (
	delayErrorPrefix = "Delay error"

	// DefaultDelay applies when config.delay is missing or unparseable.
	DefaultDelay = 1000
	// MaxDelay is the longest wait a delay node accepts, in milliseconds.
	MaxDelay = 300000
)

// DelayConfig is the validated configuration of a delay node.
type DelayConfig struct {
	Delay int `json:"delay" validate:"gte=0,lte=300000"`
}

// Delay waits config.delay milliseconds and then passes its input on.
// The wait ends early when the run is cancelled.
type Delay struct {
	opts options
}

// Execute implements circuitcraft.Handler.
func (d *Delay) Execute(ctx circuitcraft.Context, node circuitcraft.Node, input any) (any, error) {
	cfg := DelayConfig{Delay: parseDelay(node.Config["delay"])}
	for _, v := range validation.Violations(cfg) {
		if v.Tag == "gte" {
			return nil, invalid(delayErrorPrefix, "delay", "Delay cannot be negative")
		}
		return nil, invalid(delayErrorPrefix, "delay", "Delay cannot exceed 5 minutes (%dms)", MaxDelay)
	}

	if cfg.Delay > 0 {
		timer := time.NewTimer(time.Duration(cfg.Delay) * time.Millisecond)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, fail(delayErrorPrefix, ctx.Err())
		case <-timer.C:
		}
	}

	return map[string]any{
		"data":          input,
		"delayExecuted": cfg.Delay,
		"executedAt":    d.opts.timestamp(),
		"message":       fmt.Sprintf("Delayed execution by %dms", cfg.Delay),
	}, nil
}

// parseDelay reads a millisecond count. Numbers are truncated; strings
// use their leading integer ("1500ms" is 1500).
func parseDelay(v any) int {
	switch val := v.(type) {
	case nil:
		return DefaultDelay
	case string:
		n, ok := leadingInt(strings.TrimSpace(val))
		if !ok {
			return DefaultDelay
		}
		return n
	default:
		f, ok := expr.ToFloat64(val)
		switch {
		case !ok:
			return DefaultDelay
		case f > MaxDelay:
			return MaxDelay + 1
		case f <= -1:
			return -1
		}
		return int(f)
	}
}

func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
