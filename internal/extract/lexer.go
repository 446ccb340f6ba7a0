package extract

import (
	"bytes"
	"strconv"

	"github.com/jackzampolin/pdfa11y/internal/pdfdoc"
)

// Content stream operands. Strings hold raw bytes after escape or hex
// decoding; names drop the leading slash.
type (
	opName   string
	opString []byte
	opArray  []any
	opDict   map[string]any
	opBool   bool
	opNull   struct{}
)

// lexer splits a content stream into operands and operators.
type lexer struct {
	data []byte
	pos  int
}

func isWhite(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if isWhite(c) {
			l.pos++
			continue
		}
		if c == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		return
	}
}

// next returns the next object or operator. An operator comes back as a
// string; ok is false at end of input.
func (l *lexer) next() (obj any, operator string, ok bool) {
	l.skipSpace()
	if l.pos >= len(l.data) {
		return nil, "", false
	}
	c := l.data[l.pos]
	switch {
	case c == '/':
		return opName(l.readName()), "", true
	case c == '(':
		return opString(l.readLiteral()), "", true
	case c == '<' && l.peek(1) == '<':
		l.pos += 2
		return l.readDict(), "", true
	case c == '<':
		return opString(l.readHex()), "", true
	case c == '[':
		l.pos++
		return l.readArray(), "", true
	case c == ']' || c == '>' || c == ')' || c == '{' || c == '}':
		// Stray delimiter; skip it.
		l.pos++
		return l.next()
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		if v, ok := l.readNumber(); ok {
			return v, "", true
		}
	}
	word := l.readRegular()
	switch word {
	case "true":
		return opBool(true), "", true
	case "false":
		return opBool(false), "", true
	case "null":
		return opNull{}, "", true
	}
	return nil, word, true
}

func (l *lexer) peek(n int) byte {
	if l.pos+n < len(l.data) {
		return l.data[l.pos+n]
	}
	return 0
}

func (l *lexer) readRegular() string {
	start := l.pos
	for l.pos < len(l.data) && !isWhite(l.data[l.pos]) && !isDelim(l.data[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

func (l *lexer) readName() string {
	l.pos++
	raw := l.readRegular()
	if raw == "/" {
		return ""
	}
	if bytes.IndexByte([]byte(raw), '#') < 0 {
		return raw
	}
	var out []byte
	for i := 0; i < len(raw); i++ {
		if raw[i] == '#' && i+2 < len(raw) {
			if v, err := strconv.ParseUint(raw[i+1:i+3], 16, 8); err == nil {
				out = append(out, byte(v))
				i += 2
				continue
			}
		}
		out = append(out, raw[i])
	}
	return string(out)
}

func (l *lexer) readNumber() (float64, bool) {
	start := l.pos
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9') {
			l.pos++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(string(l.data[start:l.pos]), 64)
	if err != nil {
		// Malformed numbers such as "--5" read as zero.
		if l.pos > start {
			return 0, true
		}
		return 0, false
	}
	return v, true
}

// readLiteral reads a balanced (...) string and resolves its escapes.
func (l *lexer) readLiteral() []byte {
	l.pos++
	start, depth := l.pos, 1
	for l.pos < len(l.data) {
		switch l.data[l.pos] {
		case '\\':
			l.pos++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				raw := string(l.data[start:l.pos])
				l.pos++
				return pdfdoc.UnescapeLiteral(raw)
			}
		}
		l.pos++
	}
	return pdfdoc.UnescapeLiteral(string(l.data[start:]))
}

func (l *lexer) readHex() []byte {
	l.pos++
	start := l.pos
	for l.pos < len(l.data) && l.data[l.pos] != '>' {
		l.pos++
	}
	raw := string(l.data[start:l.pos])
	if l.pos < len(l.data) {
		l.pos++
	}
	return pdfdoc.DecodeHex(raw)
}

func (l *lexer) readArray() opArray {
	var arr opArray
	for {
		l.skipSpace()
		if l.pos >= len(l.data) {
			return arr
		}
		if l.data[l.pos] == ']' {
			l.pos++
			return arr
		}
		obj, op, ok := l.next()
		if !ok {
			return arr
		}
		if op != "" {
			// Operators do not belong in arrays; keep going.
			continue
		}
		arr = append(arr, obj)
	}
}

func (l *lexer) readDict() opDict {
	d := opDict{}
	for {
		l.skipSpace()
		if l.pos >= len(l.data) {
			return d
		}
		if l.data[l.pos] == '>' && l.peek(1) == '>' {
			l.pos += 2
			return d
		}
		key, _, ok := l.next()
		if !ok {
			return d
		}
		name, isName := key.(opName)
		if !isName {
			continue
		}
		val, _, ok := l.next()
		if !ok {
			return d
		}
		d[string(name)] = val
	}
}

// skipInlineImage moves past the binary data of an inline image. The
// lexer is positioned just after the ID operator.
func (l *lexer) skipInlineImage() {
	if l.pos < len(l.data) && isWhite(l.data[l.pos]) {
		l.pos++
	}
	for i := l.pos; i+1 < len(l.data); i++ {
		if l.data[i] != 'E' || l.data[i+1] != 'I' {
			continue
		}
		before := i == 0 || isWhite(l.data[i-1])
		after := i+2 >= len(l.data) || isWhite(l.data[i+2])
		if before && after {
			l.pos = i + 2
			return
		}
	}
	l.pos = len(l.data)
}

func number(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}
