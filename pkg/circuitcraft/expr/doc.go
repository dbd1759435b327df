/*
Package expr evaluates the restricted expressions used by if-condition
nodes and computed transform mappings.

# Overview

Expressions are tokenized and parsed into a small tagged syntax tree which
is then interpreted against a single input value. Nothing outside the
grammar below is ever executed: there are no function calls, no logical
operators and no access to anything but the node's input.

# Condition Syntax

	<condition> := <operand>
	             | <operand> <cmp> <operand>

	<cmp>     := '==' | '===' | '>' | '<' | '>=' | '<='
	<operand> := 'string' | "string" | number | -number
	           | true | false | null | undefined
	           | data | data.<path> | identifier

A lone operand is accepted only when it is, or resolves to, a boolean.
Bare identifiers other than data are treated as string literals, so
status == active compares against the string "active".

# Value Syntax

Computed mappings additionally allow arithmetic:

	<value> := <term> (('+' | '-') <term>)*
	<term>  := <unary> (('*' | '/') <unary>)*
	<unary> := '-' <unary> | <operand>

'+' concatenates when either side is a string. In value mode bare
identifiers are rejected, so a computed mapping that is really plain text
falls back to that text.

# Semantics

Equality compares the string forms of both sides: numbers render in their
shortest decimal form, null renders as "null", a missing path renders as
"undefined", and objects render as JSON. Ordering comparisons parse both
sides as floating point numbers and are false when either side is not a
number.

Paths walk nested objects and arrays:

	v, ok := expr.ResolveField(map[string]any{"a": map[string]any{"b": 5}}, "a.b") // 5, true
	_, ok = expr.ResolveField(map[string]any{"a": map[string]any{"b": 5}}, "a.c")  // nil, false

# Error Handling

Check and Compute report *errors.EvaluationError for expressions outside
the grammar. Condition and Value are the tolerant forms used by the
connectors: they log a warning and degrade to false or to the raw text.

	e := expr.New(expr.WithLogger(logger))
	e.Condition(map[string]any{"age": 30}, "data.age > 18") // true
	e.Condition(map[string]any{"age": 30}, "data.age != 18") // false, warning logged
*/
package expr
