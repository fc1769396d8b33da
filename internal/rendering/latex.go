package rendering

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/jonathan/resume-layout/internal/fonts"
	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/style"
)

//go:embed templates/resume.tex.tmpl
var defaultTemplate string

// bandPadding matches the padding the page emitter draws around banded
// headings.
const bandPadding = 4.0

// TemplateData is passed to the LaTeX template. Elements are complete LaTeX
// fragments, already escaped; the remaining fields are raw text for templates
// that lay out their own header.
type TemplateData struct {
	Title       string
	Name        string
	Page        style.Page
	BaseSize    int
	BandPadding float64
	Elements    []string
}

// writeLaTeX renders the blocks through the template at templatePath, or the
// built-in template when templatePath is empty.
func writeLaTeX(doc *layout.Document, templatePath string) ([]byte, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return nil, err
	}

	data := buildTemplateData(doc)

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return nil, &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}

	return []byte(result.String()), nil
}

// parseTemplate reads and parses a LaTeX template file
func parseTemplate(templatePath string) (*template.Template, error) {
	content := defaultTemplate
	if templatePath != "" {
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &TemplateError{
					Message: fmt.Sprintf("template file not found: %s", templatePath),
					Cause:   err,
				}
			}
			return nil, &TemplateError{
				Message: fmt.Sprintf("failed to read template file: %s", templatePath),
				Cause:   err,
			}
		}
		content = string(raw)
	}

	tmpl, err := template.New("resume").Funcs(template.FuncMap{
		"escape": EscapeLaTeX,
		"url":    EscapeURL,
	}).Parse(content)
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}

	return tmpl, nil
}

// buildTemplateData converts each block into a LaTeX fragment.
func buildTemplateData(doc *layout.Document) *TemplateData {
	p := doc.Profile
	data := &TemplateData{
		Title:       documentTitle(doc),
		Page:        p.Page,
		BaseSize:    baseSize(p.Sizes.Body),
		BandPadding: bandPadding,
	}

	w := &texWriter{profile: p}
	for _, block := range doc.Blocks {
		if name, ok := block.(*layout.NameBlock); ok && data.Name == "" {
			data.Name = name.Run.Text
		}
		if fragment := w.block(block); fragment != "" {
			data.Elements = append(data.Elements, fragment)
		}
	}

	return data
}

// baseSize picks the nearest size the article class accepts.
func baseSize(body float64) int {
	switch {
	case body < 10.5:
		return 10
	case body < 11.5:
		return 11
	default:
		return 12
	}
}

type texWriter struct {
	profile *style.Profile
}

func (w *texWriter) block(block layout.Block) string {
	switch b := block.(type) {
	case *layout.NameBlock:
		return aligned(b.Align, styled(EscapeLaTeX(b.Run.Text), b.Run.Style, b.Run.LineHeight)) + `\par`
	case *layout.ContactBlock:
		return aligned(b.Align, w.spans(&b.Spans)) + `\par`
	case *layout.RuleBlock:
		return fmt.Sprintf(`{\color[HTML]{%s}\rule{\linewidth}{%spt}}\par`, b.Color.Hex(), pt(b.Thickness))
	case *layout.FieldGridBlock:
		return w.fieldGrid(b)
	case *layout.SectionHeadingBlock:
		return w.heading(b)
	case *layout.EntryHeaderBlock:
		return w.entryHeader(b)
	case *layout.LineBlock:
		return indented(b.Run.Indent, styled(EscapeLaTeX(b.Run.Text), b.Run.Style, b.Run.LineHeight))
	case *layout.BulletBlock:
		glyph := ""
		if b.Glyph != "" {
			glyph = fmt.Sprintf(`\llap{\makebox[%spt][l]{%s}}`,
				pt(b.Run.Indent-b.GlyphIndent), styled(EscapeLaTeX(b.Glyph), b.GlyphStyle, b.Run.LineHeight))
		}
		return indented(b.Run.Indent, glyph+styled(EscapeLaTeX(b.Run.Text), b.Run.Style, b.Run.LineHeight))
	case *layout.LinkLineBlock:
		return indented(b.Spans.Indent, w.spans(&b.Spans))
	case *layout.SpacerBlock:
		return fmt.Sprintf(`\vspace{%spt}`, pt(b.Height))
	}
	return ""
}

// heading asks for room for the heading and a content line before setting
// it, and forbids a break right after it.
func (w *texWriter) heading(b *layout.SectionHeadingBlock) string {
	title := styled(EscapeLaTeX(b.Title), b.Style, b.Height)

	var sb strings.Builder
	fmt.Fprintf(&sb, `\needspace{%spt}`, pt(b.Height+b.Gap+w.profile.Spacing.LineHeight))
	switch {
	case b.Band:
		fmt.Fprintf(&sb, `\colorbox[HTML]{%s}{\parbox{\dimexpr\linewidth-2\fboxsep\relax}{%s}}\par`, b.BandColor.Hex(), title)
	case b.Underline:
		fmt.Fprintf(&sb, `%s\par\vspace{-2pt}{\color[HTML]{%s}\rule{\linewidth}{0.5pt}}\par`, title, b.RuleColor.Hex())
	default:
		sb.WriteString(title + `\par`)
	}
	fmt.Fprintf(&sb, `\nopagebreak\vspace{%spt}\nopagebreak`, pt(b.Gap))
	return sb.String()
}

func (w *texWriter) entryHeader(b *layout.EntryHeaderBlock) string {
	title := styled(EscapeLaTeX(b.Title.Text), b.Title.Style, b.Title.LineHeight)
	if b.Rail {
		title = fmt.Sprintf(`\llap{\textcolor[HTML]{%s}{\textbullet}\hspace{%spt}}`, b.RailColor.Hex(), pt(w.profile.Spacing.TimelineIndent/2)) + title
	}
	if b.Dates != "" {
		dates := styled(EscapeLaTeX(b.Dates), b.DateStyle, b.Title.LineHeight)
		if b.DatesBelow {
			title += `\\\hspace*{\fill}` + dates
		} else {
			title += `\hfill ` + dates
		}
	}
	return indented(b.Title.Indent, title) + `\nopagebreak`
}

// fieldGrid keeps the packed horizontal positions of each row.
func (w *texWriter) fieldGrid(b *layout.FieldGridBlock) string {
	var sb strings.Builder
	for r, row := range b.Rows {
		if r > 0 {
			fmt.Fprintf(&sb, `\vspace{%spt}`, pt(b.RowGap))
		}
		sb.WriteString(`\noindent`)
		end := 0.0
		for _, item := range row.Items {
			if gap := item.X - end; gap > 0 {
				fmt.Fprintf(&sb, `\hspace*{%spt}`, pt(gap))
			}
			end = item.X + item.Width

			valueStyle := b.ValueStyle
			if item.URL != "" {
				valueStyle.Color = b.LinkColor
			}
			label := styled(EscapeLaTeX(item.Label), b.LabelStyle, b.LineHeight)
			value := styled(EscapeLaTeX(strings.Join(item.ValueLines, " ")), valueStyle, b.LineHeight)
			if item.URL != "" {
				value = fmt.Sprintf(`\href{%s}{%s}`, EscapeURL(item.URL), value)
			}

			sep := " "
			if item.Stacked {
				sep = `\\`
			}
			fmt.Fprintf(&sb, `\parbox[t]{%spt}{\raggedright %s%s%s}`, pt(item.Width), label, sep, value)
		}
		sb.WriteString(`\par`)
	}
	return sb.String()
}

// spans writes the parts with their separator; parts with a URL become links.
func (w *texWriter) spans(s *layout.Spans) string {
	parts := make([]string, 0, len(s.Parts))
	for _, part := range s.Parts {
		ts := s.Style
		if part.URL == "" {
			parts = append(parts, styled(EscapeLaTeX(part.Text), ts, s.LineHeight))
			continue
		}
		ts.Color = s.LinkColor
		parts = append(parts, fmt.Sprintf(`\href{%s}{%s}`, EscapeURL(part.URL), styled(EscapeLaTeX(part.Text), ts, s.LineHeight)))
	}
	return strings.Join(parts, styled(EscapeLaTeX(s.Separator), s.Style, s.LineHeight))
}

// styled sets escaped text in the face, size and color of ts.
func styled(text string, ts layout.TextStyle, lineHeight float64) string {
	if text == "" {
		return ""
	}
	switch ts.Font {
	case fonts.Bold, fonts.Medium:
		text = `\textbf{` + text + `}`
	case fonts.Italic:
		text = `\textit{` + text + `}`
	case fonts.BoldItalic:
		text = `\textbf{\textit{` + text + `}}`
	case fonts.Mono:
		text = `\texttt{` + text + `}`
	case fonts.MonoBold:
		text = `\texttt{\textbf{` + text + `}}`
	}
	return fmt.Sprintf(`{\fontsize{%s}{%s}\selectfont\color[HTML]{%s}%s}`,
		pt(ts.Size), pt(lineHeight), ts.Color.Hex(), text)
}

func aligned(a style.Alignment, body string) string {
	if a == style.AlignCenter {
		return `{\centering ` + body + `\par}`
	}
	return body
}

func indented(indent float64, body string) string {
	if indent <= 0 {
		return body + `\par`
	}
	return fmt.Sprintf(`{\leftskip=%spt %s\par}`, pt(indent), body)
}

// pt formats a length without trailing zeros.
func pt(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
