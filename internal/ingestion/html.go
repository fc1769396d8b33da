package ingestion

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockElements end the current line of text.
var blockElements = map[string]bool{
	"address": true, "article": true, "blockquote": true, "dd": true, "div": true,
	"dl": true, "dt": true, "footer": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true, "li": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true, "tr": true,
	"ul": true,
}

// PlainText converts an HTML fragment from a rich-text editor into plain
// text. Block elements and <br> become line breaks; scripts and styles are
// removed.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", &Error{Message: "failed to parse HTML", Cause: err}
	}
	doc.Find("script, style, noscript, template").Remove()

	var sb strings.Builder
	writeText(&sb, doc.Find("body"))
	return CleanText(sb.String()), nil
}

func writeText(sb *strings.Builder, sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		name := goquery.NodeName(node)
		switch {
		case name == "#text":
			sb.WriteString(node.Text())
		case name == "br":
			sb.WriteString("\n")
		case name == "td" || name == "th":
			writeText(sb, node)
			sb.WriteString(" ")
		case blockElements[name]:
			sb.WriteString("\n")
			writeText(sb, node)
			sb.WriteString("\n")
		case strings.HasPrefix(name, "#"):
			// comments and doctype
		default:
			writeText(sb, node)
		}
	})
}

// LooksLikeHTML reports whether s contains markup that PlainText would
// change. Plain text with a stray "<" is left alone.
func LooksLikeHTML(s string) bool {
	if !strings.ContainsAny(s, "<&") {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return false
	}
	return doc.Find("body *").Length() > 0 || (strings.Contains(s, "&") && doc.Find("body").Text() != s)
}

// htmlConverter rewrites record fields, collecting the first error.
type htmlConverter struct {
	err error
}

func (c *htmlConverter) lines(s string) []string {
	if c.err != nil || !LooksLikeHTML(s) {
		return []string{s}
	}
	text, err := PlainText(s)
	if err != nil {
		c.err = err
		return []string{s}
	}
	return Paragraphs(text)
}

func (c *htmlConverter) line(s string) string {
	return strings.Join(c.lines(s), " ")
}

// list converts every entry; an entry holding an HTML list or several
// paragraphs becomes several entries.
func (c *htmlConverter) list(items []string) []string {
	var out []string
	for _, item := range items {
		out = append(out, c.lines(item)...)
	}
	return out
}
