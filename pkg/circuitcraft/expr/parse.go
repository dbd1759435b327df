package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// nodeKind tags the variants of the syntax tree.
type nodeKind int

const (
	nodeLiteral nodeKind = iota
	nodeRef
	nodeCompare
	nodeArith
	nodeNegate
)

// node is one vertex of a parsed expression.
type node struct {
	kind  nodeKind
	value Value  // nodeLiteral
	path  string // nodeRef; empty means the whole input
	op    string // nodeCompare, nodeArith
	left  *node
	right *node // also the operand of nodeNegate
}

// Expression is a parsed expression ready to be evaluated repeatedly.
type Expression struct {
	src  string
	root *node
}

// String returns the source text of the expression.
func (x *Expression) String() string { return x.src }

type mode int

const (
	modeCondition mode = iota
	modeValue
)

// ParseCondition parses src with the condition grammar.
func ParseCondition(src string) (*Expression, error) {
	return parse(src, modeCondition)
}

// ParseValue parses src with the value grammar, which adds arithmetic.
func ParseValue(src string) (*Expression, error) {
	return parse(src, modeValue)
}

func parse(src string, m mode) (*Expression, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens, mode: m}
	root, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.unexpected(t)
	}
	return &Expression{src: src, root: root}, nil
}

type parser struct {
	tokens []token
	pos    int
	mode   mode
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(ops ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

func (p *parser) unexpected(t token) error {
	switch {
	case t.kind == tokEOF:
		return fmt.Errorf("unexpected end of expression")
	case t.kind == tokOp:
		return fmt.Errorf("unsupported operator %q at offset %d", t.text, t.pos)
	default:
		return fmt.Errorf("unexpected %q at offset %d", t.text, t.pos)
	}
}

func (p *parser) parseComparison() (*node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if !p.isOp("==", "===", ">", "<", ">=", "<=") {
		return left, nil
	}
	op := p.next().text
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.isOp("==", "===", ">", "<", ">=", "<=") {
		return nil, fmt.Errorf("chained comparison at offset %d", p.peek().pos)
	}
	return &node{kind: nodeCompare, op: op, left: left, right: right}, nil
}

func (p *parser) parseAdditive() (*node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.isOp("+", "-") {
		if p.mode != modeValue {
			return nil, p.unexpected(p.peek())
		}
		op := p.next().text
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &node{kind: nodeArith, op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (*node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*", "/") {
		if p.mode != modeValue {
			return nil, p.unexpected(p.peek())
		}
		op := p.next().text
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &node{kind: nodeArith, op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (*node, error) {
	if !p.isOp("-") {
		return p.parseOperand()
	}
	minus := p.next()

	// A negative number literal is valid in both grammars.
	if t := p.peek(); t.kind == tokNumber {
		p.next()
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q at offset %d", t.text, t.pos)
		}
		return &node{kind: nodeLiteral, value: Present(-f)}, nil
	}
	if p.mode != modeValue {
		return nil, p.unexpected(minus)
	}
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeNegate, right: operand}, nil
}

func (p *parser) parseOperand() (*node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q at offset %d", t.text, t.pos)
		}
		return &node{kind: nodeLiteral, value: Present(f)}, nil

	case tokString:
		return &node{kind: nodeLiteral, value: Present(t.text)}, nil

	case tokIdent:
		return p.identifier(t)

	default:
		return nil, p.unexpected(t)
	}
}

func (p *parser) identifier(t token) (*node, error) {
	switch t.text {
	case "true":
		return &node{kind: nodeLiteral, value: Present(true)}, nil
	case "false":
		return &node{kind: nodeLiteral, value: Present(false)}, nil
	case "null":
		return &node{kind: nodeLiteral, value: Present(nil)}, nil
	case "undefined":
		return &node{kind: nodeLiteral, value: Absent()}, nil
	case "data":
		return &node{kind: nodeRef}, nil
	}

	if path, ok := strings.CutPrefix(t.text, "data."); ok {
		if path == "" || strings.HasPrefix(path, ".") || strings.HasSuffix(path, ".") || strings.Contains(path, "..") {
			return nil, fmt.Errorf("malformed path %q at offset %d", t.text, t.pos)
		}
		return &node{kind: nodeRef, path: path}, nil
	}

	if p.mode == modeValue {
		return nil, fmt.Errorf("unknown identifier %q at offset %d", t.text, t.pos)
	}
	return &node{kind: nodeLiteral, value: Present(t.text)}, nil
}
