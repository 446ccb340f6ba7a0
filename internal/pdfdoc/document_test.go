package pdfdoc

import (
	"errors"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
	"github.com/jackzampolin/pdfa11y/internal/pdftest"
)

func TestOpen_RejectsGarbage(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":     nil,
		"not a pdf": []byte("hello, world"),
		"truncated": pdftest.Doc{}.Bytes()[:40],
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Open(data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, a11y.ErrParse))
			var pe *a11y.ParseError
			assert.True(t, errors.As(err, &pe))
		})
	}
}

func TestOpen_Metadata(t *testing.T) {
	doc, err := Open(pdftest.Doc{
		Title: "  Quarterly Report ",
		Lang:  "en-GB",
		Pages: []pdftest.Page{{}, {}},
	}.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Report", doc.Title())
	assert.Equal(t, "en-GB", doc.Language())
	assert.Equal(t, 2, doc.PageCount())
	assert.NotZero(t, doc.Size())
}

func TestOpen_MissingMetadata(t *testing.T) {
	doc, err := Open(pdftest.Doc{}.Bytes())
	require.NoError(t, err)
	assert.Empty(t, doc.Title())
	assert.Empty(t, doc.Language())
}

func TestWithTitle(t *testing.T) {
	orig, err := Open(pdftest.Doc{}.Bytes())
	require.NoError(t, err)

	fixed, err := orig.WithTitle("2024 Annual Accessibility Report (draft)")
	require.NoError(t, err)
	assert.Equal(t, "2024 Annual Accessibility Report (draft)", fixed.Title())
	assert.Empty(t, orig.Title(), "original handle is not mutated")

	again, err := fixed.WithTitle("2024 Annual Accessibility Report (draft)")
	require.NoError(t, err)
	assert.Equal(t, fixed.Title(), again.Title())
}

func TestWithTitle_Unicode(t *testing.T) {
	orig, err := Open(pdftest.Doc{Title: "old"}.Bytes())
	require.NoError(t, err)
	fixed, err := orig.WithTitle("Rapport d'accessibilité – 2024")
	require.NoError(t, err)
	assert.Equal(t, "Rapport d'accessibilité – 2024", fixed.Title())
}

func TestWithLanguage(t *testing.T) {
	orig, err := Open(pdftest.Doc{Title: "Keep me"}.Bytes())
	require.NoError(t, err)
	fixed, err := orig.WithLanguage("fr-CA")
	require.NoError(t, err)
	assert.Equal(t, "fr-CA", fixed.Language())
	assert.Equal(t, "Keep me", fixed.Title())
	assert.Empty(t, orig.Language())
}

func TestObjectText(t *testing.T) {
	tests := []struct {
		name string
		obj  types.Object
		want string
	}{
		{"literal", types.StringLiteral("Hello"), "Hello"},
		{"escapes", types.StringLiteral(`a\(b\)\\c\n`), "a(b)\\c\n"},
		{"octal", types.StringLiteral(`caf\351`), "café"},
		{"hex ascii", types.HexLiteral("48656C6C6F"), "Hello"},
		{"hex odd", types.HexLiteral("48656C6C6"), "Hell`"},
		{"utf16", types.HexLiteral("FEFF00480069"), "Hi"},
		{"name", types.Name("en"), "en"},
		{"integer", types.Integer(3), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectText(tt.obj))
		})
	}
}

func TestEncodeText_RoundTrip(t *testing.T) {
	for _, s := range []string{"Plain title", "Paren (x) and \\", "Ünïcödé ✓"} {
		assert.Equal(t, s, ObjectText(EncodeText(s)), s)
	}
	_, isLiteral := EncodeText("ascii").(types.StringLiteral)
	assert.True(t, isLiteral)
	_, isHex := EncodeText("ß").(types.HexLiteral)
	assert.True(t, isHex)
}
