package connectors

import (
	"net/http"
	"time"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
	ccerrors "github.com/randalmurphal/circuitcraft/pkg/circuitcraft/errors"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/expr"
)

// DefaultHTTPTimeout is the request timeout used when a node sets none.
const DefaultHTTPTimeout = 30 * time.Second

// isoMillis renders timestamps the way browsers print Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Option configures the built-in handlers.
type Option func(*options)

type options struct {
	client      *http.Client
	now         func() time.Time
	evaluator   *expr.Evaluator
	retry       ccerrors.RetryConfig
	httpTimeout time.Duration
}

func defaultOptions() options {
	return options{
		client:      http.DefaultClient,
		now:         time.Now,
		retry:       ccerrors.DefaultRetry,
		httpTimeout: DefaultHTTPTimeout,
	}
}

// WithHTTPClient sets the client used by http-request nodes.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.client = c
		}
	}
}

// WithClock sets the time source for timestamps in handler outputs.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithEvaluator sets the expression evaluator shared by if-condition and
// transform nodes. By default each call gets an evaluator that logs through
// the node's logger.
func WithEvaluator(e *expr.Evaluator) Option {
	return func(o *options) {
		o.evaluator = e
	}
}

// WithRetryPolicy sets the backoff used when an http-request node opts in
// to retries. MaxAttempts is always taken from the node's config.
func WithRetryPolicy(cfg ccerrors.RetryConfig) Option {
	return func(o *options) {
		o.retry = cfg
	}
}

// WithDefaultHTTPTimeout sets the request timeout for http-request nodes
// that do not configure one.
func WithDefaultHTTPTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.httpTimeout = d
		}
	}
}

func (o options) evaluatorFor(ctx circuitcraft.Context) *expr.Evaluator {
	if o.evaluator != nil {
		return o.evaluator
	}
	return expr.New(expr.WithLogger(ctx.Logger()))
}

func (o options) timestamp() string {
	return o.now().UTC().Format(isoMillis)
}

// NewRegistry returns a registry with every built-in handler registered.
// Unknown types fall back to circuitcraft.PassThrough.
func NewRegistry(opts ...Option) *circuitcraft.Registry {
	return Register(circuitcraft.NewRegistry(), opts...)
}

// Register adds the built-in handlers to reg, replacing any handler
// already registered for the same types.
func Register(reg *circuitcraft.Registry, opts ...Option) *circuitcraft.Registry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	trigger := &Trigger{}
	return reg.
		Register(circuitcraft.TypeHTTPRequest, &HTTPRequest{opts: o}).
		Register(circuitcraft.TypeDisplayData, &Display{opts: o}).
		Register(circuitcraft.TypeFilter, &Filter{}).
		Register(circuitcraft.TypeTransform, &Transform{opts: o}).
		Register(circuitcraft.TypeIfCondition, &IfCondition{opts: o}).
		Register(circuitcraft.TypeDelay, &Delay{opts: o}).
		Register(circuitcraft.TypeWebhook, trigger).
		Register(circuitcraft.TypeWebhookTrigger, trigger).
		Register(circuitcraft.TypeManualTrigger, trigger)
}
