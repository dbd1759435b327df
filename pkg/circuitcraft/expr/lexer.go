package expr

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// operators lists every operator the lexer recognizes, longest first.
// Only some of them are valid in the grammar; the rest are recognized so
// the parser can reject them with a precise message.
var operators = []string{
	"===", "!==",
	"==", "!=", ">=", "<=", "&&", "||",
	">", "<", "+", "-", "*", "/", "!", "(", ")", "[", "]", "%", "?", ":", ",", "=",
}

func tokenize(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		c, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(c):
			i += size

		case c == '\'' || c == '"':
			s, n, err := lexString(src[i:])
			if err != nil {
				return nil, fmt.Errorf("at offset %d: %w", i, err)
			}
			tokens = append(tokens, token{kind: tokString, text: s, pos: i})
			i += n

		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(rune(src[i+1]))):
			start := i
			for i < len(src) && (isDigit(rune(src[i])) || src[i] == '.') {
				i++
			}
			if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
				i++
				if i < len(src) && (src[i] == '+' || src[i] == '-') {
					i++
				}
				for i < len(src) && isDigit(rune(src[i])) {
					i++
				}
			}
			tokens = append(tokens, token{kind: tokNumber, text: src[start:i], pos: start})

		case isIdentStart(c):
			start := i
			for i < len(src) {
				r, size := utf8.DecodeRuneInString(src[i:])
				if !isIdentPart(r) && r != '.' {
					break
				}
				i += size
			}
			tokens = append(tokens, token{kind: tokIdent, text: src[start:i], pos: start})

		default:
			op := matchOperator(src[i:])
			if op == "" {
				return nil, fmt.Errorf("unexpected character %q at offset %d", c, i)
			}
			tokens = append(tokens, token{kind: tokOp, text: op, pos: i})
			i += len(op)
		}
	}
	return append(tokens, token{kind: tokEOF, pos: len(src)}), nil
}

func lexString(src string) (string, int, error) {
	quote := src[0]
	var b strings.Builder
	for i := 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			if i+1 < len(src) {
				i++
				b.WriteByte(src[i])
			}
		case quote:
			return b.String(), i + 1, nil
		default:
			b.WriteByte(src[i])
		}
	}
	return "", 0, fmt.Errorf("unterminated string")
}

func matchOperator(src string) string {
	for _, op := range operators {
		if strings.HasPrefix(src, op) {
			return op
		}
	}
	return ""
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isIdentStart(c rune) bool {
	return c == '_' || c == '$' || unicode.IsLetter(c)
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || unicode.IsDigit(c)
}
