package rendering

import (
	"bytes"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/jonathan/resume-layout/internal/fonts"
	"github.com/jonathan/resume-layout/internal/layout"
)

// writePDF draws placed pages with fpdf. Automatic page breaks are off: every
// break was already decided by the layout cursor.
func writePDF(doc *layout.Document, set *layout.PageSet, created time.Time) ([]byte, error) {
	geom := set.Geometry
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: geom.Width, Ht: geom.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(geom.Left, geom.Top, geom.Width-geom.Right)
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(documentTitle(doc), true)
	pdf.SetCreator("resume-layout", true)

	for _, id := range usedFonts(set) {
		data, err := fonts.TTF(id)
		if err != nil {
			return nil, &RenderError{Format: FormatPDF, Message: "failed to load font", Cause: err}
		}
		pdf.AddUTF8FontFromBytes(string(id), "", data)
	}
	if err := pdf.Error(); err != nil {
		return nil, &RenderError{Format: FormatPDF, Message: "failed to embed fonts", Cause: err}
	}

	for _, page := range set.Pages {
		pdf.AddPage()
		for _, op := range page.Ops {
			drawOp(pdf, op)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Format: FormatPDF, Message: "failed to write document", Cause: err}
	}
	return buf.Bytes(), nil
}

// drawOp issues the fpdf calls for one placed operation.
func drawOp(pdf *fpdf.Fpdf, op layout.Op) {
	r, g, b := op.Color.RGB()

	switch op.Kind {
	case layout.OpText:
		pdf.SetFont(string(op.Font), "", op.Size)
		pdf.SetTextColor(r, g, b)
		pdf.Text(op.X, op.Baseline, op.Text)
	case layout.OpRect:
		pdf.SetFillColor(r, g, b)
		pdf.Rect(op.X, op.Y, op.W, op.H, "F")
	case layout.OpCircle:
		pdf.SetFillColor(r, g, b)
		pdf.Circle(op.X, op.Y, op.W, "F")
	case layout.OpLine:
		pdf.SetDrawColor(r, g, b)
		pdf.SetLineWidth(op.Thickness)
		pdf.Line(op.X, op.Y, op.X2, op.Y2)
	case layout.OpLink:
		pdf.LinkString(op.X, op.Y, op.W, op.H, op.URL)
	}
}

// usedFonts lists the faces drawn anywhere in the set, sorted so fonts are
// registered in a stable order.
func usedFonts(set *layout.PageSet) []fonts.FontID {
	seen := make(map[fonts.FontID]bool)
	for _, page := range set.Pages {
		for _, op := range page.Ops {
			if op.Kind == layout.OpText {
				seen[op.Font] = true
			}
		}
	}

	ids := make([]fonts.FontID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
