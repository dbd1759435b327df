package expr

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	ccerrors "github.com/randalmurphal/circuitcraft/pkg/circuitcraft/errors"
)

func TestCheck_Comparisons(t *testing.T) {
	person := map[string]any{
		"name":   "Ana",
		"age":    float64(30),
		"active": true,
		"tags":   []any{"a", "b"},
		"profile": map[string]any{
			"role":   "Developer",
			"salary": float64(5000),
		},
		"score": "42.5",
		"empty": nil,
	}

	tests := []struct {
		name string
		expr string
		data any
		want bool
	}{
		{"greater than true", "data.age > 18", person, true},
		{"greater than false", "data.age > 40", person, false},
		{"greater or equal at boundary", "data.age >= 30", person, true},
		{"less than", "data.age < 31", person, true},
		{"less or equal", "data.age <= 29", person, false},
		{"nested path", "data.profile.salary > 4999.5", person, true},
		{"numeric string field", "data.score > 40", person, true},
		{"non-numeric side is false", "data.name > 1", person, false},
		{"missing path in ordering is false", "data.missing < 1", person, false},
		{"string equality double quotes", `data.name == "Ana"`, person, true},
		{"string equality single quotes", "data.name == 'Ana'", person, true},
		{"strict equality", "data.name === 'Ana'", person, true},
		{"string inequality", "data.name == 'Bob'", person, false},
		{"bare identifier is a string", "data.profile.role == Developer", person, true},
		{"number equality compares string forms", "data.age == 30", person, true},
		{"number equality with decimals", "data.age == 30.0", person, true},
		{"number against quoted number", "data.age == '30'", person, true},
		{"boolean equality", "data.active == true", person, true},
		{"null equality", "data.empty == null", person, true},
		{"missing path is undefined", "data.missing == undefined", person, true},
		{"missing path is not null", "data.missing == null", person, false},
		{"array index path", "data.tags.1 == 'b'", person, true},
		{"whole input", "data == 'hello'", "hello", true},
		{"whole numeric input", "data > 5", float64(7), true},
		{"negative literal", "data.age > -1", person, true},
		{"literal on the left", "18 < data.age", person, true},
		{"literal true", "true", nil, true},
		{"literal false", "false", nil, false},
		{"boolean reference", "data.active", person, true},
		{"path through scalar", "data.name.first == undefined", person, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Check(tt.data, tt.expr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Check(%v, %q) = %v, want %v", tt.data, tt.expr, got, tt.want)
			}
		})
	}
}

func TestCheck_EmptyConditionIsTrue(t *testing.T) {
	for _, cond := range []string{"", "   ", "\t"} {
		got, err := New().Check(nil, cond)
		if err != nil || !got {
			t.Errorf("Check(nil, %q) = %v, %v; want true, nil", cond, got, err)
		}
	}
}

func TestCheck_RejectsOutsideGrammar(t *testing.T) {
	data := map[string]any{"age": float64(30), "name": "Ana"}

	tests := []struct {
		name string
		expr string
	}{
		{"not equal", "data.age != 18"},
		{"strict not equal", "data.age !== 18"},
		{"logical and", "data.age > 18 && data.age < 65"},
		{"logical or", "data.age > 18 || true"},
		{"negation", "!data.active"},
		{"function call", "alert(1)"},
		{"parentheses", "(data.age > 18)"},
		{"indexing", "data['age'] > 18"},
		{"arithmetic in condition", "data.age + 1 > 18"},
		{"assignment", "data.age = 1"},
		{"ternary", "data.age ? 1 : 2"},
		{"chained comparison", "1 < data.age < 50"},
		{"unterminated string", "data.name == 'Ana"},
		{"dangling operator", "data.age >"},
		{"non-boolean lone operand", "data.age"},
		{"lone string", "'yes'"},
		{"malformed path", "data..age > 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Check(data, tt.expr)
			if err == nil {
				t.Fatalf("Check(%q) = %v, expected error", tt.expr, got)
			}
			var evalErr *ccerrors.EvaluationError
			if !errors.As(err, &evalErr) {
				t.Fatalf("expected EvaluationError, got %T", err)
			}
			if evalErr.Expression != tt.expr {
				t.Errorf("Expression = %q, want %q", evalErr.Expression, tt.expr)
			}
			if got {
				t.Error("rejected expression must evaluate to false")
			}
		})
	}
}

func TestCondition_LogsAndDefaultsToFalse(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := New(WithLogger(logger))
	if e.Condition(map[string]any{"age": 30}, "data.age != 18") {
		t.Error("expected false for rejected condition")
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "data.age != 18") {
		t.Errorf("expected condition in log, got %q", buf.String())
	}
}

func TestEvaluateCondition_Package(t *testing.T) {
	data := map[string]any{"age": 30}
	if !EvaluateCondition(data, "data.age > 18") {
		t.Error("expected data.age > 18 to be true")
	}
	if EvaluateCondition(data, "data.age > 40") {
		t.Error("expected data.age > 40 to be false")
	}
	if !EvaluateCondition(data, "") {
		t.Error("expected empty condition to be true")
	}
}

func TestCompute(t *testing.T) {
	order := map[string]any{
		"price":    float64(10),
		"quantity": float64(3),
		"name":     "widget",
		"code":     "7",
	}

	tests := []struct {
		name string
		expr string
		want any
	}{
		{"multiplication", "data.price * data.quantity", float64(30)},
		{"precedence", "data.price + data.quantity * 2", float64(16)},
		{"division", "data.price / 4", 2.5},
		{"subtraction", "data.price - 12", float64(-2)},
		{"unary minus", "-data.price", float64(-10)},
		{"string concatenation", "data.name + '-' + data.price", "widget-10"},
		{"numeric string coerces for multiplication", "data.code * 2", float64(14)},
		{"string literal", "'fixed'", "fixed"},
		{"number literal", "42", float64(42)},
		{"reference", "data.name", "widget"},
		{"missing reference", "data.missing", nil},
		{"comparison yields boolean", "data.price > 5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Compute(order, tt.expr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Compute(%q) = %#v, want %#v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestValue_FallsBackToRawText(t *testing.T) {
	data := map[string]any{"price": float64(10), "name": "widget"}

	tests := []struct {
		name string
		expr string
	}{
		{"plain text", "hello world"},
		{"function call", "Math.max(1, 2)"},
		{"division by zero", "data.price / 0"},
		{"non-numeric arithmetic", "data.name * 2"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateValue(data, tt.expr)
			if got != tt.expr {
				t.Errorf("EvaluateValue(%q) = %#v, want raw text", tt.expr, got)
			}
		})
	}
}

func TestExpression(t *testing.T) {
	x, err := ParseCondition("data.age >= 18")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if x.String() != "data.age >= 18" {
		t.Errorf("String() = %q", x.String())
	}

	for _, age := range []float64{10, 18, 60} {
		v, err := x.Eval(map[string]any{"age": age})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got, want := v.Interface(), age >= 18; got != want {
			t.Errorf("age %v: got %v, want %v", age, got, want)
		}
	}

	y, err := ParseValue("data.a * 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := y.Eval(map[string]any{"a": float64(4)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := v.Interface(); got != float64(8) {
		t.Errorf("got %#v, want 8", got)
	}
}
