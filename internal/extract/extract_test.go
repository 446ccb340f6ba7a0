package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
	"github.com/jackzampolin/pdfa11y/internal/pdftest"
)

func extract(t *testing.T, doc pdftest.Doc) *a11y.Snapshot {
	t.Helper()
	snap, handle, err := New(nil).Extract(doc.Bytes())
	require.NoError(t, err)
	require.NotNil(t, handle)
	return snap
}

func TestExtract_ParseError(t *testing.T) {
	snap, doc, err := New(nil).Extract([]byte("%PDF-1.7\nnot really"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, a11y.ErrParse))
	assert.Nil(t, snap)
	assert.Nil(t, doc)
}

func TestExtract_BareDocument(t *testing.T) {
	snap := extract(t, pdftest.Doc{})
	assert.Empty(t, snap.Title)
	assert.Empty(t, snap.Language)
	assert.False(t, snap.Tagged)
	assert.Nil(t, snap.StructureTree)
	assert.Empty(t, snap.Bookmarks)
	require.Equal(t, 1, snap.PageCount())

	p := snap.Pages[0]
	assert.Equal(t, 0, p.Index)
	assert.Equal(t, 612.0, p.WidthPt)
	assert.Equal(t, 792.0, p.HeightPt)
	assert.True(t, p.TabOrderMatchesStructure)
	assert.Empty(t, p.TextRuns)
	assert.Empty(t, p.Images)
}

func TestExtract_Metadata(t *testing.T) {
	snap := extract(t, pdftest.Doc{
		Title:     "Annual Report",
		Lang:      "en-US",
		Bookmarks: []string{"Intro", "Results"},
		Pages:     []pdftest.Page{{}, {}, {}},
	})
	assert.Equal(t, "Annual Report", snap.Title)
	assert.Equal(t, "en-US", snap.Language)
	assert.Equal(t, 3, snap.PageCount())
	assert.Equal(t, []a11y.Bookmark{{Title: "Intro"}, {Title: "Results"}}, snap.Bookmarks)
}

func TestExtract_TextRunTopLeft(t *testing.T) {
	snap := extract(t, pdftest.Doc{Pages: []pdftest.Page{{
		Content: "BT /F1 12 Tf 72 700 Td (Hello World) Tj ET",
	}}})
	runs := snap.Pages[0].TextRuns
	require.Len(t, runs, 1)
	r := runs[0]
	assert.Equal(t, "Hello World", r.Text)
	assert.Equal(t, a11y.Black, r.Foreground)
	assert.Equal(t, a11y.White, r.Background)
	assert.InDelta(t, 12, r.FontSizePt, 1e-6)
	assert.False(t, r.Bold)
	// y is flipped: the baseline at 700 sits 92pt below the top edge.
	assert.InDelta(t, 72, r.Rect.X0, 1e-6)
	assert.InDelta(t, 792-709.6, r.Rect.Y0, 1e-6)
	assert.InDelta(t, 792-697.6, r.Rect.Y1, 1e-6)
	assert.True(t, r.Rect.Within(612, 792))
}

func TestExtract_BackgroundAndBold(t *testing.T) {
	snap := extract(t, pdftest.Doc{Pages: []pdftest.Page{{
		Fonts:   map[string]string{"F2": "Helvetica-Bold"},
		Content: "0.2 0.2 0.8 rg 50 650 500 100 re f 1 1 1 rg BT /F2 14 Tf 72 700 Td (Banner) Tj ET BT /F1 10 Tf 72 100 Td (Footer) Tj ET",
	}}})
	runs := snap.Pages[0].TextRuns
	require.Len(t, runs, 2)
	assert.Equal(t, a11y.White, runs[0].Foreground)
	assert.Equal(t, a11y.Color{R: 51, G: 51, B: 204}, runs[0].Background)
	assert.True(t, runs[0].Bold)
	// The footer does not overlap the banner.
	assert.Equal(t, a11y.White, runs[1].Background)
}

func TestExtract_RotationAndCrop(t *testing.T) {
	snap := extract(t, pdftest.Doc{Pages: []pdftest.Page{
		{Rotate: 90},
		{CropBox: []float64{50, 50, 550, 750}},
	}})
	require.Len(t, snap.Pages, 2)
	assert.Equal(t, a11y.Dims{Width: 792, Height: 612}, snap.Pages[0].Dims())
	assert.Equal(t, a11y.Dims{Width: 500, Height: 700}, snap.Pages[1].Dims())
}

func TestExtract_Images(t *testing.T) {
	snap := extract(t, pdftest.Doc{Pages: []pdftest.Page{{
		Images: map[string]pdftest.Image{
			"Im1": {Width: 100, Height: 80},
			"Im2": {Width: 8, Height: 8},
		},
		Content: "q 200 0 0 150 100 500 cm /Im1 Do Q " +
			"q 10 0 0 10 20 20 cm /Im2 Do Q " +
			"/Artifact BMC q 50 0 0 50 400 400 cm /Im1 Do Q EMC",
	}}})
	imgs := snap.Pages[0].Images
	require.Len(t, imgs, 3)

	assert.Equal(t, a11y.Rect{X0: 100, Y0: 142, X1: 300, Y1: 292}, imgs[0].Rect)
	assert.False(t, imgs[0].HasAltText)
	assert.False(t, imgs[0].IsDecorative)

	assert.True(t, imgs[1].IsDecorative, "tiny image")
	assert.True(t, imgs[2].IsDecorative, "artifact")
}

func TestExtract_TaggedFigureAndHeading(t *testing.T) {
	snap := extract(t, pdftest.Doc{
		Tagged:  true,
		RoleMap: map[string]string{"Title1": "H1"},
		Struct: []pdftest.Elem{{
			Type: "Document", Page: -1, MCID: -1,
			Kids: []pdftest.Elem{
				{Type: "Title1", Page: 0, MCID: 0},
				{Type: "Figure", Alt: "Revenue chart", Page: 0, MCID: 1},
				{Type: "Figure", Page: 0, MCID: 2},
			},
		}},
		Pages: []pdftest.Page{{
			Images: map[string]pdftest.Image{"Im1": {Width: 100, Height: 80}},
			Content: "/H1 <</MCID 0>> BDC BT /F1 24 Tf 72 720 Td (Overview) Tj ET EMC " +
				"/Figure <</MCID 1>> BDC q 200 0 0 150 100 500 cm /Im1 Do Q EMC " +
				"/Figure <</MCID 2>> BDC q 200 0 0 150 100 200 cm /Im1 Do Q EMC",
		}},
	})
	assert.True(t, snap.Tagged)
	require.NotNil(t, snap.StructureTree)

	var types []string
	snap.StructureTree.Walk(func(n *a11y.StructNode) bool {
		types = append(types, n.Type)
		return true
	})
	assert.Equal(t, []string{"StructTreeRoot", "Document", "H1", "Figure", "Figure"}, types)

	p := snap.Pages[0]
	require.Len(t, p.Headings, 1)
	assert.Equal(t, 1, p.Headings[0].Level)
	assert.InDelta(t, 72, p.Headings[0].Rect.X0, 1e-6)

	require.Len(t, p.Images, 2)
	assert.True(t, p.Images[0].HasAltText)
	assert.False(t, p.Images[1].HasAltText)
}

func TestExtract_LinksAndFields(t *testing.T) {
	snap := extract(t, pdftest.Doc{Pages: []pdftest.Page{{
		Tabs:    "R",
		Content: "BT /F1 12 Tf 72 700 Td (Click here) Tj ET BT /F1 12 Tf 72 600 Td (Annual report 2024) Tj ET",
		Annots: []string{
			"<< /Type /Annot /Subtype /Link /Rect [70 695 135 712] /A << /S /URI /URI (https://example.com/a) >> >>",
			"<< /Type /Annot /Subtype /Link /Rect [70 595 180 612] /A << /S /URI /URI (https://example.com/b) >> >>",
			"<< /Type /Annot /Subtype /Widget /FT /Tx /DA (/Helv 0 Tf 0 g) /Rect [100 100 300 120] >>",
			"<< /Type /Annot /Subtype /Widget /FT /Tx /T (email) /TU (Email address) /DA (/Helv 0 Tf 0 g) /Rect [100 200 300 220] >>",
		},
	}}})
	p := snap.Pages[0]
	assert.False(t, p.TabOrderMatchesStructure)
	assert.Equal(t, "R", p.TabOrder)

	require.Len(t, p.Links, 2)
	assert.Equal(t, "Click here", p.Links[0].Text)
	assert.Equal(t, "https://example.com/a", p.Links[0].URI)
	assert.Equal(t, "Annual report 2024", p.Links[1].Text)
	assert.InDelta(t, 792-712, p.Links[0].Rect.Y0, 1e-6)

	require.Len(t, p.FormFields, 2)
	assert.False(t, p.FormFields[0].HasAccessibleName)
	assert.Equal(t, "Tx", p.FormFields[0].FieldType)
	assert.True(t, p.FormFields[1].HasAccessibleName)
}

func TestExtract_FormFieldNames(t *testing.T) {
	tests := []struct {
		name     string
		page     pdftest.Page
		wantType string
		wantName bool
	}{
		{
			name:     "text field without appearance string",
			page:     pdftest.Page{Annots: []string{"<< /Type /Annot /Subtype /Widget /FT /Tx /Rect [100 100 300 120] >>"}},
			wantType: "Tx",
		},
		{
			name:     "tooltip",
			page:     pdftest.Page{Annots: []string{"<< /Type /Annot /Subtype /Widget /FT /Tx /TU (Surname) /Rect [100 100 300 120] >>"}},
			wantType: "Tx",
			wantName: true,
		},
		{
			name:     "mapping name",
			page:     pdftest.Page{Annots: []string{"<< /Type /Annot /Subtype /Widget /FT /Tx /TM (surname_export) /Rect [100 100 300 120] >>"}},
			wantType: "Tx",
			wantName: true,
		},
		{
			name:     "unnamed checkbox",
			page:     pdftest.Page{Annots: []string{"<< /Type /Annot /Subtype /Widget /FT /Btn /Rect [100 100 120 120] >>"}},
			wantType: "Btn",
		},
		{
			name: "name and type inherited from parent",
			page: pdftest.Page{Fields: []pdftest.Field{{
				Dict: "/FT /Tx /TU (Phone number)",
				Kids: []string{"<< /Type /Annot /Subtype /Widget /Rect [100 100 300 120] >>"},
			}}},
			wantType: "Tx",
			wantName: true,
		},
		{
			name: "unnamed parent",
			page: pdftest.Page{Fields: []pdftest.Field{{
				Dict: "/FT /Tx",
				Kids: []string{"<< /Type /Annot /Subtype /Widget /Rect [100 100 300 120] >>"},
			}}},
			wantType: "Tx",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := extract(t, pdftest.Doc{Pages: []pdftest.Page{tt.page}})
			fields := snap.Pages[0].FormFields
			require.Len(t, fields, 1)
			assert.Equal(t, tt.wantType, fields[0].FieldType)
			assert.Equal(t, tt.wantName, fields[0].HasAccessibleName)
		})
	}
}

func TestExtract_Deterministic(t *testing.T) {
	doc := pdftest.Doc{Pages: []pdftest.Page{{
		Content: "0.6 g BT /F1 12 Tf 72 700 Td (Gray text) Tj ET",
	}}}
	a := extract(t, doc)
	b := extract(t, doc)
	assert.Equal(t, a, b)
}
