package layout

import (
	"strings"

	"github.com/jonathan/resume-layout/internal/style"
	"github.com/jonathan/resume-layout/internal/types"
)

// titleSeparator joins the two parts of an entry title
const titleSeparator = " – "

// dateSeparator joins a start and an end date
const dateSeparator = " – "

// minTitleShare is the smallest fraction of the column an entry title may be
// squeezed into before its dates move to a line of their own
const minTitleShare = 0.4

// sectionRenderer lays out each section kind.
type sectionRenderer struct {
	b *Builder
}

// entry is the kind-independent shape of an education, experience or
// project item.
type entry struct {
	kind      types.SectionKind
	primary   string
	secondary string
	start     string
	end       string
	location  string
	links     []Span
	bullets   []string
}

func (r *sectionRenderer) VisitEducation(title string, body *types.Education) error {
	b := r.b
	return b.section(types.KindEducation, title, true, func() error {
		entries := make([]entry, 0, len(body.Items))
		for _, item := range body.Items {
			if item.IsEmpty() {
				continue
			}
			entries = append(entries, entry{
				kind:      types.KindEducation,
				primary:   item.Institution,
				secondary: item.Degree,
				start:     item.StartDate,
				end:       item.EndDate,
				location:  item.Location,
				bullets:   item.Highlights,
			})
		}
		return r.entries(entries)
	})
}

func (r *sectionRenderer) VisitExperience(title string, body *types.Experience) error {
	b := r.b
	return b.section(types.KindExperience, title, true, func() error {
		entries := make([]entry, 0, len(body.Items))
		for _, item := range body.Items {
			if item.IsEmpty() {
				continue
			}
			entries = append(entries, entry{
				kind:      types.KindExperience,
				primary:   item.Company,
				secondary: item.Role,
				start:     item.StartDate,
				end:       item.EndDate,
				location:  item.Location,
				bullets:   item.Achievements,
			})
		}
		return r.entries(entries)
	})
}

func (r *sectionRenderer) VisitProjects(title string, body *types.Projects) error {
	b := r.b
	return b.section(types.KindProjects, title, true, func() error {
		entries := make([]entry, 0, len(body.Items))
		for _, item := range body.Items {
			if item.IsEmpty() {
				continue
			}
			var links []Span
			if strings.TrimSpace(item.Link) != "" {
				links = append(links, Span{Text: "Link: " + DisplayURL(item.Link), URL: LinkTarget(item.Link)})
			}
			if strings.TrimSpace(item.Repository) != "" {
				links = append(links, Span{Text: "Repo: " + DisplayURL(item.Repository), URL: LinkTarget(item.Repository)})
			}
			entries = append(entries, entry{
				kind:    types.KindProjects,
				primary: item.Name,
				links:   links,
				bullets: item.Description,
			})
		}
		return r.entries(entries)
	})
}

func (r *sectionRenderer) VisitList(title string, body *types.StringList) error {
	b := r.b
	p := b.profile
	return b.section(body.Of, title, true, func() error {
		ts := b.bodyStyle()
		var items []string
		for _, item := range body.Items {
			if text := b.clean(item, ts.Font); text != "" {
				items = append(items, text)
			}
		}
		if len(items) == 0 {
			return nil
		}

		if p.ListStyleFor(body.Of) == style.ListBulleted {
			for _, item := range items {
				if err := r.bullet(item, 0, false); err != nil {
					return err
				}
			}
			return nil
		}

		sep := b.sanitizer.Clean(p.Lists.Separator, ts.Font)
		run, err := b.run(strings.Join(items, sep), ts, 0, p.Spacing.LineHeight)
		if err != nil {
			return err
		}
		b.add(&LineBlock{Role: RoleList, Run: run})
		return nil
	})
}

func (r *sectionRenderer) VisitCustom(title string, body *types.Custom) error {
	b := r.b
	p := b.profile
	return b.section(types.KindCustom, title, true, func() error {
		ts := b.bodyStyle()
		for _, paragraph := range body.Paragraphs {
			text := b.clean(paragraph, ts.Font)
			if text == "" {
				continue
			}
			if p.CustomBullets {
				if err := r.bullet(text, 0, false); err != nil {
					return err
				}
				continue
			}
			run, err := b.run(text, ts, 0, p.Spacing.LineHeight)
			if err != nil {
				return err
			}
			b.add(&LineBlock{Role: RoleParagraph, Run: run})
		}
		return nil
	})
}

// entries lays out items separated by the inter-item gap. Items that end up
// drawing nothing take no gap.
func (r *sectionRenderer) entries(entries []entry) error {
	b := r.b
	first := true
	for _, e := range entries {
		mark := len(b.blocks)
		if !first {
			b.spacer(b.profile.Spacing.BetweenItems)
		}
		start := len(b.blocks)

		if err := r.entry(e); err != nil {
			return err
		}

		if len(b.blocks) == start {
			b.blocks = b.blocks[:mark]
			continue
		}
		first = false
	}
	return nil
}

// entry lays out the title line, location, links and bullets of one item.
func (r *sectionRenderer) entry(e entry) error {
	b := r.b
	p := b.profile

	rail := p.TimelineFor(e.kind)
	indent := 0.0
	if rail {
		indent = p.Spacing.TimelineIndent
	}

	if err := r.entryHeader(e, indent, rail); err != nil {
		return err
	}

	if location := b.clean(e.location, p.Fonts.Emphasis); location != "" {
		run, err := b.run(location, b.emphasisStyle(), indent, p.Spacing.LineHeight)
		if err != nil {
			return err
		}
		b.add(&LineBlock{Role: RoleLocation, Run: run, Rail: rail})
	}

	if err := r.links(e.links, indent, rail); err != nil {
		return err
	}

	for _, text := range e.bullets {
		if err := r.bullet(text, indent, rail); err != nil {
			return err
		}
	}
	return nil
}

// entryHeader lays out the title with its dates hugging the right margin.
func (r *sectionRenderer) entryHeader(e entry, indent float64, rail bool) error {
	b := r.b
	p := b.profile
	titleStyle := b.strongStyle()
	dateStyle := b.mutedStyle()

	primary := b.clean(e.primary, titleStyle.Font)
	secondary := b.clean(e.secondary, titleStyle.Font)
	dates := strings.Join(types.NonBlank(b.clean(e.start, dateStyle.Font), b.clean(e.end, dateStyle.Font)), dateSeparator)
	title := strings.Join(types.NonBlank(primary, secondary), titleSeparator)
	if title == "" && dates == "" {
		return nil
	}

	column := b.columnWidth() - indent
	dateWidth := b.metrics.WidthOf(dates, dateStyle.Font, dateStyle.Size)
	titleWidth := column
	datesBelow := false
	if dates != "" {
		titleWidth = column - dateWidth - p.Spacing.DateGap
		if titleWidth < column*minTitleShare {
			titleWidth = column
			datesBelow = true
		}
	}

	lines, err := b.wrapper.Wrap(title, titleWidth, titleStyle.Font, titleStyle.Size)
	if err != nil {
		return &LayoutError{Message: "failed to wrap entry title", Cause: err}
	}

	var dateLines []string
	if datesBelow {
		dateLines, err = b.wrapper.Wrap(dates, column, dateStyle.Font, dateStyle.Size)
		if err != nil {
			return &LayoutError{Message: "failed to wrap entry dates", Cause: err}
		}
	}

	b.add(&EntryHeaderBlock{
		Kind: e.kind,
		Title: Run{
			Text:       title,
			Lines:      lines,
			Style:      titleStyle,
			Indent:     indent,
			Width:      titleWidth,
			LineHeight: p.Spacing.LineHeight,
		},
		Dates:      dates,
		DateStyle:  dateStyle,
		DateWidth:  dateWidth,
		DatesBelow: datesBelow,
		DateLines:  dateLines,
		Rail:       rail,
		RailColor:  p.Colors.Accent,
	})
	return nil
}

// links lays out the link line of a project.
func (r *sectionRenderer) links(links []Span, indent float64, rail bool) error {
	b := r.b
	p := b.profile
	ts := b.mutedStyle()

	var parts []Span
	for _, l := range links {
		if text := b.clean(l.Text, ts.Font); text != "" {
			parts = append(parts, Span{Text: text, URL: l.URL})
		}
	}
	if len(parts) == 0 {
		return nil
	}

	sep := b.sanitizer.Clean(p.Header.ContactSeparator, ts.Font)
	lines, err := flowSpans(parts, sep, b.columnWidth()-indent, ts.Font, ts.Size, b.metrics)
	if err != nil {
		return err
	}

	b.add(&LinkLineBlock{
		Spans: Spans{
			Parts:      parts,
			Separator:  sep,
			Lines:      lines,
			Style:      ts,
			LinkColor:  p.Colors.Link,
			Indent:     indent,
			LineHeight: p.Spacing.LineHeight,
		},
		Rail: rail,
	})
	return nil
}

// bullet lays out one bulleted item with its glyph at indent.
func (r *sectionRenderer) bullet(text string, indent float64, rail bool) error {
	b := r.b
	p := b.profile
	ts := b.bodyStyle()

	text = b.clean(text, ts.Font)
	if text == "" {
		return nil
	}

	run, err := b.run(text, ts, indent+p.Spacing.BulletIndent, p.Spacing.BulletLineHeight)
	if err != nil {
		return err
	}

	b.add(&BulletBlock{
		Glyph:       b.clean(p.BulletGlyph, ts.Font),
		GlyphStyle:  TextStyle{Font: ts.Font, Size: ts.Size, Color: p.Colors.Accent},
		GlyphIndent: indent,
		Run:         run,
		Rail:        rail,
	})
	return nil
}
