package pdfdoc

import (
	"bytes"
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
)

var (
	utf16BOM = []byte{0xFE, 0xFF}
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
)

// UnescapeLiteral resolves the backslash escapes of a literal string body.
func UnescapeLiteral(raw string) []byte {
	var out bytes.Buffer
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			out.WriteByte(c)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			out.WriteByte('\n')
		case 'r':
			out.WriteByte('\r')
		case 't':
			out.WriteByte('\t')
		case 'b':
			out.WriteByte('\b')
		case 'f':
			out.WriteByte('\f')
		case '\r':
			// Line continuation.
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
		case '\n':
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				out.WriteByte(byte(val))
			} else {
				out.WriteByte(raw[i])
			}
		}
	}
	return out.Bytes()
}

// DecodeHex decodes a hex string body, ignoring whitespace. An odd final
// digit is padded with zero.
func DecodeHex(raw string) []byte {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if len(clean)%2 == 1 {
		clean += "0"
	}
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil
	}
	return b
}

// TextString interprets the bytes of a PDF text string: UTF-16BE with a
// BOM, UTF-8 with a BOM, or a single-byte encoding otherwise.
func TextString(b []byte) string {
	switch {
	case bytes.HasPrefix(b, utf16BOM):
		s, err := xunicode.UTF16(xunicode.BigEndian, xunicode.ExpectBOM).NewDecoder().Bytes(b)
		if err != nil {
			return ""
		}
		return string(s)
	case bytes.HasPrefix(b, utf8BOM):
		return string(b[len(utf8BOM):])
	case utf8.Valid(b) && !hasHighBytes(b):
		return string(b)
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(s)
}

func hasHighBytes(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return true
		}
	}
	return false
}

// ObjectText returns the text of a string object, or "" for anything else.
func ObjectText(o types.Object) string {
	switch v := o.(type) {
	case types.StringLiteral:
		return TextString(UnescapeLiteral(string(v)))
	case types.HexLiteral:
		return TextString(DecodeHex(string(v)))
	case types.Name:
		return string(v)
	}
	return ""
}

// EncodeText builds a string object for s: an escaped literal when s is
// printable ASCII, a UTF-16BE hex string with BOM otherwise.
func EncodeText(s string) types.Object {
	if isPrintableASCII(s) {
		return types.StringLiteral(EscapeLiteral(s))
	}
	b, err := xunicode.UTF16(xunicode.BigEndian, xunicode.UseBOM).NewEncoder().Bytes([]byte(s))
	if err != nil {
		return types.StringLiteral(EscapeLiteral(s))
	}
	return types.HexLiteral(strings.ToUpper(hex.EncodeToString(b)))
}

// EscapeLiteral escapes the characters that cannot appear raw in a literal.
func EscapeLiteral(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`, "\r", `\r`, "\n", `\n`)
	return r.Replace(s)
}

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}
	return true
}
