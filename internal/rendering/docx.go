package rendering

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/style"
)

const (
	nsWordML = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRels   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPkg    = "http://schemas.openxmlformats.org/package/2006/relationships"

	relStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relHyperlink = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`

// WordprocessingML elements. Element names carry the w: prefix literally;
// the namespace is declared once on the document root.

type wDocument struct {
	XMLName xml.Name `xml:"w:document"`
	W       string   `xml:"xmlns:w,attr"`
	R       string   `xml:"xmlns:r,attr"`
	Body    wBody    `xml:"w:body"`
}

type wBody struct {
	Content []any   `xml:",any"`
	SectPr  wSectPr `xml:"w:sectPr"`
}

type wSectPr struct {
	PgSz  wPgSz  `xml:"w:pgSz"`
	PgMar wPgMar `xml:"w:pgMar"`
}

type wPgSz struct {
	W int `xml:"w:w,attr"`
	H int `xml:"w:h,attr"`
}

type wPgMar struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
	Header int `xml:"w:header,attr"`
	Footer int `xml:"w:footer,attr"`
	Gutter int `xml:"w:gutter,attr"`
}

type wP struct {
	XMLName xml.Name `xml:"w:p"`
	PPr     *wPPr    `xml:"w:pPr,omitempty"`
	Content []any    `xml:",any"`
}

type wPPr struct {
	KeepNext *struct{} `xml:"w:keepNext,omitempty"`
	PBdr     *wPBdr    `xml:"w:pBdr,omitempty"`
	Shd      *wShd     `xml:"w:shd,omitempty"`
	Tabs     *wTabs    `xml:"w:tabs,omitempty"`
	Spacing  *wSpacing `xml:"w:spacing,omitempty"`
	Ind      *wInd     `xml:"w:ind,omitempty"`
	Jc       *wVal     `xml:"w:jc,omitempty"`
}

type wPBdr struct {
	Left   *wBorder `xml:"w:left,omitempty"`
	Bottom *wBorder `xml:"w:bottom,omitempty"`
}

type wBorder struct {
	Val   string `xml:"w:val,attr"`
	Sz    int    `xml:"w:sz,attr"`
	Space int    `xml:"w:space,attr"`
	Color string `xml:"w:color,attr"`
}

type wShd struct {
	Val   string `xml:"w:val,attr"`
	Color string `xml:"w:color,attr"`
	Fill  string `xml:"w:fill,attr"`
}

type wTabs struct {
	Tab []wTabStop `xml:"w:tab"`
}

type wTabStop struct {
	Val string `xml:"w:val,attr"`
	Pos int    `xml:"w:pos,attr"`
}

type wSpacing struct {
	Before   int    `xml:"w:before,attr"`
	After    int    `xml:"w:after,attr"`
	Line     int    `xml:"w:line,attr,omitempty"`
	LineRule string `xml:"w:lineRule,attr,omitempty"`
}

type wInd struct {
	Left    int `xml:"w:left,attr"`
	Hanging int `xml:"w:hanging,attr,omitempty"`
}

type wVal struct {
	Val string `xml:"w:val,attr"`
}

type wR struct {
	XMLName xml.Name `xml:"w:r"`
	RPr     *wRPr    `xml:"w:rPr,omitempty"`
	Content []any    `xml:",any"`
}

type wRPr struct {
	RFonts *wRFonts  `xml:"w:rFonts,omitempty"`
	B      *struct{} `xml:"w:b,omitempty"`
	I      *struct{} `xml:"w:i,omitempty"`
	Color  *wVal     `xml:"w:color,omitempty"`
	Sz     *wVal     `xml:"w:sz,omitempty"`
	U      *wVal     `xml:"w:u,omitempty"`
}

type wRFonts struct {
	ASCII string `xml:"w:ascii,attr"`
	HAnsi string `xml:"w:hAnsi,attr"`
}

type wT struct {
	XMLName xml.Name `xml:"w:t"`
	Space   string   `xml:"xml:space,attr"`
	Text    string   `xml:",chardata"`
}

type wTab struct {
	XMLName xml.Name `xml:"w:tab"`
}

type wBr struct {
	XMLName xml.Name `xml:"w:br"`
}

type wHyperlink struct {
	XMLName xml.Name `xml:"w:hyperlink"`
	ID      string   `xml:"r:id,attr"`
	Runs    []wR     `xml:"w:r"`
}

type wTbl struct {
	XMLName xml.Name `xml:"w:tbl"`
	TblPr   wTblPr   `xml:"w:tblPr"`
	Grid    wTblGrid `xml:"w:tblGrid"`
	Rows    []wTr    `xml:"w:tr"`
}

type wTblPr struct {
	W      wWidth `xml:"w:tblW"`
	Layout wType  `xml:"w:tblLayout"`
}

type wWidth struct {
	W    int    `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type wType struct {
	Type string `xml:"w:type,attr"`
}

type wTblGrid struct {
	Cols []wGridCol `xml:"w:gridCol"`
}

type wGridCol struct {
	W int `xml:"w:w,attr"`
}

type wTr struct {
	Cells []wTc `xml:"w:tc"`
}

type wTc struct {
	TcPr       wTcPr `xml:"w:tcPr"`
	Paragraphs []wP  `xml:"w:p"`
}

type wTcPr struct {
	W wWidth `xml:"w:tcW"`
}

type relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Xmlns   string         `xml:"xmlns,attr"`
	Rels    []relationship `xml:"Relationship"`
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// twips converts points to twentieths of a point.
func twips(pt float64) int {
	return int(math.Round(pt * 20))
}

// halfPoints converts a font size to the half-point unit of w:sz.
func halfPoints(size float64) int {
	return int(math.Round(size * 2))
}

// docxWriter builds the body of one document. Spacers become space before
// the next paragraph; Word paginates.
type docxWriter struct {
	profile *style.Profile
	body    []any
	rels    []relationship
	links   map[string]string
	before  float64
}

// writeDOCX encodes the blocks as a WordprocessingML package.
func writeDOCX(doc *layout.Document, created time.Time) ([]byte, error) {
	w := &docxWriter{
		profile: doc.Profile,
		rels:    []relationship{{ID: "rId1", Type: relStyles, Target: "styles.xml"}},
		links:   make(map[string]string),
	}
	for _, block := range doc.Blocks {
		w.block(block)
	}

	p := doc.Profile.Page
	document := wDocument{
		W: nsWordML,
		R: nsRels,
		Body: wBody{
			Content: w.body,
			SectPr: wSectPr{
				PgSz: wPgSz{W: twips(p.Width), H: twips(p.Height)},
				PgMar: wPgMar{
					Top:    twips(p.MarginTop),
					Right:  twips(p.MarginRight),
					Bottom: twips(p.MarginBottom),
					Left:   twips(p.MarginLeft),
					Header: twips(p.MarginTop / 2),
					Footer: twips(p.MarginBottom / 2),
				},
			},
		},
	}

	documentXML, err := marshalPart(document)
	if err != nil {
		return nil, &RenderError{Format: FormatDOCX, Message: "failed to encode document", Cause: err}
	}
	relsXML, err := marshalPart(relationships{Xmlns: nsPkg, Rels: w.rels})
	if err != nil {
		return nil, &RenderError{Format: FormatDOCX, Message: "failed to encode relationships", Cause: err}
	}

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{"docProps/core.xml", corePropertiesXML(documentTitle(doc), created)},
		{"word/document.xml", documentXML},
		{"word/styles.xml", stylesXML(doc.Profile)},
		{"word/_rels/document.xml.rels", relsXML},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: part.name, Method: zip.Deflate, Modified: created})
		if err != nil {
			return nil, &RenderError{Format: FormatDOCX, Message: "failed to add " + part.name, Cause: err}
		}
		if _, err := fw.Write(part.data); err != nil {
			return nil, &RenderError{Format: FormatDOCX, Message: "failed to write " + part.name, Cause: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &RenderError{Format: FormatDOCX, Message: "failed to finish package", Cause: err}
	}

	return buf.Bytes(), nil
}

func marshalPart(v any) ([]byte, error) {
	data, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}

func (w *docxWriter) block(block layout.Block) {
	switch b := block.(type) {
	case *layout.NameBlock:
		w.paragraph(&wPPr{Spacing: w.spacing(b.Run.LineHeight), Jc: justification(b.Align)},
			textRuns(b.Run.Text, b.Run.Style)...)
	case *layout.ContactBlock:
		w.paragraph(&wPPr{Spacing: w.spacing(b.Spans.LineHeight), Jc: justification(b.Align)},
			w.spanRuns(&b.Spans)...)
	case *layout.RuleBlock:
		w.paragraph(&wPPr{
			PBdr:    &wPBdr{Bottom: border(b.Color, b.Thickness)},
			Spacing: w.spacing(b.Height),
		})
	case *layout.FieldGridBlock:
		w.fieldGrid(b)
	case *layout.SectionHeadingBlock:
		w.heading(b)
	case *layout.EntryHeaderBlock:
		w.entryHeader(b)
	case *layout.LineBlock:
		ppr := &wPPr{Spacing: w.spacing(b.Run.LineHeight), Ind: &wInd{Left: twips(b.Run.Indent)}}
		w.rail(ppr, b.Rail)
		w.paragraph(ppr, textRuns(b.Run.Text, b.Run.Style)...)
	case *layout.BulletBlock:
		w.bullet(b)
	case *layout.LinkLineBlock:
		ppr := &wPPr{Spacing: w.spacing(b.Spans.LineHeight), Ind: &wInd{Left: twips(b.Spans.Indent)}}
		w.rail(ppr, b.Rail)
		w.paragraph(ppr, w.spanRuns(&b.Spans)...)
	case *layout.SpacerBlock:
		w.before += b.Height
	}
}

// paragraph appends a paragraph, consuming any pending space.
func (w *docxWriter) paragraph(ppr *wPPr, content ...any) {
	w.body = append(w.body, wP{PPr: ppr, Content: content})
}

// spacing returns exact line spacing plus any space left by spacers.
func (w *docxWriter) spacing(lineHeight float64) *wSpacing {
	s := &wSpacing{Before: twips(w.before), Line: twips(lineHeight), LineRule: "exact"}
	w.before = 0
	return s
}

func (w *docxWriter) rail(ppr *wPPr, rail bool) {
	if !rail {
		return
	}
	if ppr.PBdr == nil {
		ppr.PBdr = &wPBdr{}
	}
	ppr.PBdr.Left = border(w.profile.Colors.Accent, 1)
	ppr.PBdr.Left.Space = 8
}

func (w *docxWriter) heading(b *layout.SectionHeadingBlock) {
	ppr := &wPPr{KeepNext: &struct{}{}, Spacing: w.spacing(b.Height)}
	ppr.Spacing.After = twips(b.Gap)
	if b.Underline {
		ppr.PBdr = &wPBdr{Bottom: border(b.RuleColor, 0.5)}
	}
	if b.Band {
		ppr.Shd = &wShd{Val: "clear", Color: "auto", Fill: b.BandColor.Hex()}
	}
	w.paragraph(ppr, textRuns(b.Title, b.Style)...)
}

// entryHeader puts the dates on a right tab stop at the column edge.
func (w *docxWriter) entryHeader(b *layout.EntryHeaderBlock) {
	ppr := &wPPr{
		KeepNext: &struct{}{},
		Tabs:     &wTabs{Tab: []wTabStop{{Val: "right", Pos: twips(w.profile.ColumnWidth())}}},
		Spacing:  w.spacing(b.Title.LineHeight),
		Ind:      &wInd{Left: twips(b.Title.Indent)},
	}
	w.rail(ppr, b.Rail)

	content := textRuns(b.Title.Text, b.Title.Style)
	switch {
	case b.DatesBelow:
		for _, line := range b.DateLines {
			content = append(content, wR{Content: []any{wBr{}, wTab{}}})
			content = append(content, textRuns(line, b.DateStyle)...)
		}
	case b.Dates != "":
		content = append(content, wR{Content: []any{wTab{}}})
		content = append(content, textRuns(b.Dates, b.DateStyle)...)
	}
	w.paragraph(ppr, content...)
}

// bullet uses a hanging indent so wrapped lines align with the text.
func (w *docxWriter) bullet(b *layout.BulletBlock) {
	ppr := &wPPr{
		Spacing: w.spacing(b.Run.LineHeight),
		Ind:     &wInd{Left: twips(b.Run.Indent), Hanging: twips(b.Run.Indent - b.GlyphIndent)},
	}
	w.rail(ppr, b.Rail)

	var content []any
	if b.Glyph != "" {
		content = append(content, textRuns(b.Glyph, b.GlyphStyle)...)
	}
	content = append(content, wR{Content: []any{wTab{}}})
	content = append(content, textRuns(b.Run.Text, b.Run.Style)...)
	w.paragraph(ppr, content...)
}

// rowSeparatorHeight is the height of the paragraph between field rows; one
// twip, so it only carries the row gap
const rowSeparatorHeight = 0.05

// fieldGrid writes each packed row as a borderless table whose cells keep
// the packed horizontal positions. Rows are separated by a paragraph so Word
// does not merge them into one table.
func (w *docxWriter) fieldGrid(b *layout.FieldGridBlock) {
	avail := w.profile.ColumnWidth()

	for r, row := range b.Rows {
		if r > 0 {
			w.paragraph(&wPPr{Spacing: w.spacing(rowSeparatorHeight)})
		}
		tbl := wTbl{
			TblPr: wTblPr{W: wWidth{W: twips(avail), Type: "dxa"}, Layout: wType{Type: "fixed"}},
		}
		var cells []wTc
		for i, item := range row.Items {
			end := avail
			if i+1 < len(row.Items) {
				end = row.Items[i+1].X
			}
			width := twips(end - item.X)
			tbl.Grid.Cols = append(tbl.Grid.Cols, wGridCol{W: width})

			valueStyle := b.ValueStyle
			if item.URL != "" {
				valueStyle.Color = b.LinkColor
			}
			value := w.maybeLink(item.URL, textRuns(item.Value, valueStyle))

			var paragraphs []wP
			lineSpacing := &wSpacing{Line: twips(b.LineHeight), LineRule: "exact"}
			if item.Stacked {
				paragraphs = append(paragraphs,
					wP{PPr: &wPPr{Spacing: lineSpacing}, Content: textRuns(item.Label, b.LabelStyle)},
					wP{PPr: &wPPr{Spacing: lineSpacing}, Content: value})
			} else {
				content := textRuns(item.Label, b.LabelStyle)
				if item.Label != "" {
					content = append(content, textRuns(" ", b.ValueStyle)...)
				}
				paragraphs = append(paragraphs, wP{PPr: &wPPr{Spacing: lineSpacing}, Content: append(content, value...)})
			}

			cells = append(cells, wTc{
				TcPr:       wTcPr{W: wWidth{W: width, Type: "dxa"}},
				Paragraphs: paragraphs,
			})
		}
		tbl.Rows = []wTr{{Cells: cells}}
		w.body = append(w.body, tbl)
		w.before += b.RowGap
	}
}

// spanRuns writes parts with separators between them; parts with a URL
// become hyperlinks.
func (w *docxWriter) spanRuns(s *layout.Spans) []any {
	var content []any
	for i, part := range s.Parts {
		if i > 0 && s.Separator != "" {
			content = append(content, textRuns(s.Separator, s.Style)...)
		}
		ts := s.Style
		if part.URL != "" {
			ts.Color = s.LinkColor
		}
		content = append(content, w.maybeLink(part.URL, textRuns(part.Text, ts))...)
	}
	return content
}

// maybeLink wraps runs in a hyperlink when url is set.
func (w *docxWriter) maybeLink(url string, runs []any) []any {
	if url == "" {
		return runs
	}
	id, ok := w.links[url]
	if !ok {
		id = fmt.Sprintf("rId%d", len(w.rels)+1)
		w.links[url] = id
		w.rels = append(w.rels, relationship{ID: id, Type: relHyperlink, Target: url, TargetMode: "External"})
	}

	link := wHyperlink{ID: id}
	for _, r := range runs {
		if run, ok := r.(wR); ok {
			link.Runs = append(link.Runs, run)
		}
	}
	return []any{link}
}

// textRuns writes text in one style; explicit newlines become line breaks.
func textRuns(text string, ts layout.TextStyle) []any {
	props := runProps(ts)
	var content []any
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			content = append(content, wBr{})
		}
		content = append(content, wT{Space: "preserve", Text: line})
	}
	return []any{wR{RPr: props, Content: content}}
}

func runProps(ts layout.TextStyle) *wRPr {
	family, bold, italic := face(ts.Font)
	props := &wRPr{
		RFonts: &wRFonts{ASCII: family, HAnsi: family},
		Color:  &wVal{Val: ts.Color.Hex()},
		Sz:     &wVal{Val: fmt.Sprint(halfPoints(ts.Size))},
	}
	if bold {
		props.B = &struct{}{}
	}
	if italic {
		props.I = &struct{}{}
	}
	return props
}

func justification(a style.Alignment) *wVal {
	if a == style.AlignCenter {
		return &wVal{Val: "center"}
	}
	return nil
}

// border is a single line; w:sz is in eighths of a point.
func border(c style.Color, thickness float64) *wBorder {
	sz := int(math.Round(thickness * 8))
	if sz < 2 {
		sz = 2
	}
	return &wBorder{Val: "single", Sz: sz, Space: 1, Color: c.Hex()}
}

// stylesXML sets the document defaults to the body face of the profile.
func stylesXML(p *style.Profile) []byte {
	family, _, _ := face(p.Fonts.Body)
	return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="%s">
<w:docDefaults>
<w:rPrDefault><w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s"/><w:color w:val="%s"/><w:sz w:val="%d"/></w:rPr></w:rPrDefault>
<w:pPrDefault><w:pPr><w:spacing w:before="0" w:after="0"/></w:pPr></w:pPrDefault>
</w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
</w:styles>`, nsWordML, family, family, family, p.Colors.Text.Hex(), halfPoints(p.Sizes.Body)))
}

// corePropertiesXML is the package metadata part.
func corePropertiesXML(title string, created time.Time) []byte {
	var escaped bytes.Buffer
	_ = xml.EscapeText(&escaped, []byte(title))
	stamp := created.UTC().Format(time.RFC3339)
	return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
<dc:title>%s</dc:title>
<dc:creator>resume-layout</dc:creator>
<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>
<dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>
</cp:coreProperties>`, escaped.String(), stamp, stamp))
}
