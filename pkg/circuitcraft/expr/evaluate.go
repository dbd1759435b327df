package expr

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	ccerrors "github.com/randalmurphal/circuitcraft/pkg/circuitcraft/errors"
)

// Evaluator evaluates conditions and computed values against a node's input.
type Evaluator struct {
	logger *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger that receives warnings for rejected expressions.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Evaluator) log() *slog.Logger {
	if e.logger == nil {
		return slog.Default()
	}
	return e.logger
}

// Check evaluates condition against data. An empty condition is true.
// Expressions outside the grammar return an *errors.EvaluationError.
func (e *Evaluator) Check(data any, condition string) (bool, error) {
	if strings.TrimSpace(condition) == "" {
		return true, nil
	}

	x, err := ParseCondition(condition)
	if err != nil {
		return false, evaluationError(condition, err)
	}
	result, err := x.Eval(data)
	if err != nil {
		return false, evaluationError(condition, err)
	}
	if b, ok := result.Interface().(bool); ok && result.IsPresent() {
		return b, nil
	}
	return false, &ccerrors.EvaluationError{
		Expression: condition,
		Message:    fmt.Sprintf("condition resolved to %s, not a boolean", result),
	}
}

// Condition is the tolerant form of Check: evaluation errors are logged
// and the condition is false.
func (e *Evaluator) Condition(data any, condition string) bool {
	ok, err := e.Check(data, condition)
	if err != nil {
		e.log().Warn("condition evaluation failed, defaulting to false",
			slog.String("condition", condition),
			slog.String("error", err.Error()),
		)
		return false
	}
	return ok
}

// Compute evaluates expression with the value grammar. A missing path
// yields nil.
func (e *Evaluator) Compute(data any, expression string) (any, error) {
	x, err := ParseValue(expression)
	if err != nil {
		return nil, evaluationError(expression, err)
	}
	result, err := x.Eval(data)
	if err != nil {
		return nil, evaluationError(expression, err)
	}
	return result.Interface(), nil
}

// Value is the tolerant form of Compute: on failure the raw expression
// text is returned.
func (e *Evaluator) Value(data any, expression string) any {
	v, err := e.Compute(data, expression)
	if err != nil {
		e.log().Warn("computed value evaluation failed, using literal",
			slog.String("expression", expression),
			slog.String("error", err.Error()),
		)
		return expression
	}
	return v
}

var defaultEvaluator = New()

// EvaluateCondition evaluates condition with the default evaluator.
func EvaluateCondition(data any, condition string) bool {
	return defaultEvaluator.Condition(data, condition)
}

// EvaluateValue evaluates a computed expression with the default evaluator.
func EvaluateValue(data any, expression string) any {
	return defaultEvaluator.Value(data, expression)
}

func evaluationError(expression string, err error) error {
	var evalErr *ccerrors.EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}
	return &ccerrors.EvaluationError{Expression: expression, Message: err.Error()}
}

// Eval interprets the expression against data.
func (x *Expression) Eval(data any) (Value, error) {
	return eval(x.root, data)
}

func eval(n *node, data any) (Value, error) {
	switch n.kind {
	case nodeLiteral:
		return n.value, nil

	case nodeRef:
		v, ok := ResolveField(data, n.path)
		if !ok {
			return Absent(), nil
		}
		return Present(v), nil

	case nodeCompare:
		left, err := eval(n.left, data)
		if err != nil {
			return Value{}, err
		}
		right, err := eval(n.right, data)
		if err != nil {
			return Value{}, err
		}
		return Present(compare(n.op, left, right)), nil

	case nodeArith:
		left, err := eval(n.left, data)
		if err != nil {
			return Value{}, err
		}
		right, err := eval(n.right, data)
		if err != nil {
			return Value{}, err
		}
		return arithmetic(n.op, left, right)

	case nodeNegate:
		operand, err := eval(n.right, data)
		if err != nil {
			return Value{}, err
		}
		f, ok := operand.Number()
		if !ok {
			return Value{}, fmt.Errorf("cannot negate %s", operand)
		}
		return Present(-f), nil

	default:
		return Value{}, fmt.Errorf("unknown expression node %d", n.kind)
	}
}

func compare(op string, left, right Value) bool {
	switch op {
	case "==", "===":
		return left.String() == right.String()
	}

	l, lok := left.Number()
	r, rok := right.Number()
	if !lok || !rok {
		return false
	}
	switch op {
	case ">":
		return l > r
	case "<":
		return l < r
	case ">=":
		return l >= r
	case "<=":
		return l <= r
	default:
		return false
	}
}

func arithmetic(op string, left, right Value) (Value, error) {
	if op == "+" && (isString(left) || isString(right)) {
		return Present(left.String() + right.String()), nil
	}

	l, lok := left.Number()
	r, rok := right.Number()
	if !lok || !rok {
		return Value{}, fmt.Errorf("operator %q needs numbers, got %s and %s", op, left, right)
	}
	switch op {
	case "+":
		return Present(l + r), nil
	case "-":
		return Present(l - r), nil
	case "*":
		return Present(l * r), nil
	case "/":
		if r == 0 {
			return Value{}, fmt.Errorf("division by zero")
		}
		return Present(l / r), nil
	default:
		return Value{}, fmt.Errorf("unsupported operator %q", op)
	}
}

func isString(v Value) bool {
	_, ok := v.Interface().(string)
	return ok && v.IsPresent()
}
