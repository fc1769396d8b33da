package layout

import (
	"slices"
	"strings"

	"github.com/jonathan/resume-layout/internal/fonts"
	"github.com/jonathan/resume-layout/internal/sanitize"
	"github.com/jonathan/resume-layout/internal/style"
	"github.com/jonathan/resume-layout/internal/types"
	"github.com/jonathan/resume-layout/internal/wrap"
)

// nameLeading is the line height of the name relative to its size
const nameLeading = 1.2

// bandPadding insets heading text inside its band
const bandPadding = 4.0

// KindSummary tags the heading of the summary when the profile gives it one
const KindSummary types.SectionKind = "summary"

// Builder lays out records for one profile. A Builder is cheap to create and
// holds per-call state, so it must not be shared between goroutines.
type Builder struct {
	profile  *style.Profile
	metrics  fonts.Metrics
	wrapper  *wrap.Wrapper
	reporter sanitize.Reporter

	sanitizer *sanitize.Sanitizer
	collector *sanitize.Collector
	blocks    []Block
}

// Option configures a Builder
type Option func(*Builder)

// WithReporter forwards every sanitizer drop to r as it happens.
func WithReporter(r sanitize.Reporter) Option {
	return func(b *Builder) {
		b.reporter = r
	}
}

// NewBuilder creates a Builder measuring with m.
func NewBuilder(p *style.Profile, m fonts.Metrics, opts ...Option) *Builder {
	b := &Builder{
		profile: p,
		metrics: m,
		wrapper: wrap.New(m),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build turns a record into blocks. The only failure on well-formed profiles
// is a record without a name.
func (b *Builder) Build(rec *types.ResumeRecord) (*Document, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	b.blocks = nil
	b.collector = &sanitize.Collector{}
	b.sanitizer = sanitize.New(b.metrics, sanitize.WithReporter(func(d sanitize.Drop) {
		b.collector.Report(d)
		if b.reporter != nil {
			b.reporter(d)
		}
	}))

	if err := b.header(&rec.Basics); err != nil {
		return nil, err
	}
	if err := b.fieldGrid(rec.CustomFields.Visible()); err != nil {
		return nil, err
	}
	if err := b.summary(rec.Basics.Summary); err != nil {
		return nil, err
	}

	r := &sectionRenderer{b: b}
	for _, section := range rec.Sections {
		if err := section.Accept(r); err != nil {
			return nil, err
		}
	}

	return &Document{
		Profile: b.profile,
		Blocks:  b.blocks,
		Drops:   b.collector.Drops,
	}, nil
}

func (b *Builder) add(blocks ...Block) {
	b.blocks = append(b.blocks, blocks...)
}

func (b *Builder) spacer(height float64) {
	if height > 0 {
		b.add(&SpacerBlock{Height: height})
	}
}

// clean trims and sanitizes text for the font it will be set in.
func (b *Builder) clean(text string, id fonts.FontID) string {
	return strings.TrimSpace(b.sanitizer.Clean(strings.TrimSpace(text), id))
}

func (b *Builder) columnWidth() float64 {
	return b.profile.ColumnWidth()
}

// run wraps already cleaned text to the column less indent.
func (b *Builder) run(text string, ts TextStyle, indent, lineHeight float64) (Run, error) {
	width := b.columnWidth() - indent
	lines, err := b.wrapper.Wrap(text, width, ts.Font, ts.Size)
	if err != nil {
		return Run{}, &LayoutError{Message: "failed to wrap text", Cause: err}
	}
	return Run{
		Text:       text,
		Lines:      lines,
		Style:      ts,
		Indent:     indent,
		Width:      width,
		LineHeight: lineHeight,
	}, nil
}

func (b *Builder) bodyStyle() TextStyle {
	p := b.profile
	return TextStyle{Font: p.Fonts.Body, Size: p.Sizes.Body, Color: p.Colors.Text}
}

func (b *Builder) strongStyle() TextStyle {
	p := b.profile
	return TextStyle{Font: p.Fonts.Strong, Size: p.Sizes.Body, Color: p.Colors.Text}
}

func (b *Builder) mutedStyle() TextStyle {
	p := b.profile
	return TextStyle{Font: p.Fonts.Body, Size: p.Sizes.Body, Color: p.Colors.Muted}
}

func (b *Builder) emphasisStyle() TextStyle {
	p := b.profile
	return TextStyle{Font: p.Fonts.Emphasis, Size: p.Sizes.Body, Color: p.Colors.Muted}
}

// header lays out the name, the contact line and the rule beneath them.
func (b *Builder) header(basics *types.Basics) error {
	p := b.profile

	nameStyle := TextStyle{Font: p.Fonts.Name, Size: p.Sizes.Name, Color: p.Colors.Name}
	name, err := b.run(b.clean(basics.Name, nameStyle.Font), nameStyle, 0, p.Sizes.Name*nameLeading)
	if err != nil {
		return err
	}
	b.add(&NameBlock{Run: name, Align: p.Header.Align})

	contact, err := b.contact(basics)
	if err != nil {
		return err
	}
	if contact != nil {
		b.spacer(p.Spacing.AfterName)
		b.add(contact)
	}

	if p.Header.Rule {
		b.spacer(p.Spacing.AfterName)
		b.add(&RuleBlock{Color: p.Colors.Rule, Thickness: 0.75, Height: 1})
	}
	b.spacer(p.Spacing.AfterContact)
	return nil
}

// contact flows the present contact details onto lines. It returns nil when
// there is nothing to show.
func (b *Builder) contact(basics *types.Basics) (*ContactBlock, error) {
	p := b.profile
	ts := b.mutedStyle()

	var parts []Span
	addPart := func(text, url string) {
		if text = b.clean(text, ts.Font); text != "" {
			parts = append(parts, Span{Text: text, URL: url})
		}
	}
	addPart(basics.Email, mailto(basics.Email))
	addPart(basics.Phone, tel(basics.Phone))
	addPart(basics.Location, "")
	addPart(DisplayURL(basics.Link), LinkTarget(basics.Link))

	if len(parts) == 0 {
		return nil, nil
	}

	sep := b.sanitizer.Clean(p.Header.ContactSeparator, ts.Font)
	lines, err := flowSpans(parts, sep, b.columnWidth(), ts.Font, ts.Size, b.metrics)
	if err != nil {
		return nil, err
	}

	return &ContactBlock{
		Spans: Spans{
			Parts:      parts,
			Separator:  sep,
			Lines:      lines,
			Style:      ts,
			LinkColor:  p.Colors.Link,
			LineHeight: p.Spacing.LineHeight,
		},
		Align: p.Header.Align,
	}, nil
}

// fieldGrid packs the visible custom fields under the header.
func (b *Builder) fieldGrid(visible []types.CustomField) error {
	p := b.profile
	labelStyle := b.strongStyle()
	valueStyle := b.bodyStyle()

	fields := make([]Field, 0, len(visible))
	for _, cf := range visible {
		f := Field{ID: cf.ID, IsLink: cf.IsLink}
		if label := b.clean(cf.Title, labelStyle.Font); label != "" {
			f.Label = label + ":"
		}
		if cf.IsLink {
			f.Value = b.clean(DisplayURL(cf.Content), valueStyle.Font)
			f.URL = LinkTarget(cf.Content)
		} else {
			f.Value = b.clean(cf.Content, valueStyle.Font)
		}
		if f.Label == "" && f.Value == "" {
			continue
		}
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		return nil
	}

	rows, err := PackFields(fields, PackOptions{
		Available:  b.columnWidth(),
		ValueMax:   p.Spacing.FieldValueMax,
		ValueMin:   p.Spacing.FieldValueMin,
		MinGap:     p.Spacing.FieldMinGap,
		LabelGap:   p.Spacing.FieldLabelGap,
		LineHeight: p.Spacing.LineHeight,
		LabelFont:  labelStyle.Font,
		ValueFont:  valueStyle.Font,
		Size:       valueStyle.Size,
	}, b.metrics)
	if err != nil {
		return err
	}

	b.add(&FieldGridBlock{
		Rows:       rows,
		LabelStyle: labelStyle,
		ValueStyle: valueStyle,
		LinkColor:  p.Colors.Link,
		LineHeight: p.Spacing.LineHeight,
		RowGap:     p.Spacing.FieldRowGap,
		LabelGap:   p.Spacing.FieldLabelGap,
	})
	b.spacer(p.Spacing.BetweenSections)
	return nil
}

// summary lays out the free-text summary, under its own heading when the
// profile names one.
func (b *Builder) summary(text string) error {
	return b.section(KindSummary, b.profile.SummaryTitle, b.profile.SummaryTitle != "", func() error {
		ts := b.bodyStyle()
		text = b.clean(text, ts.Font)
		if text == "" {
			return nil
		}
		run, err := b.run(text, ts, 0, b.profile.Spacing.LineHeight)
		if err != nil {
			return err
		}
		b.add(&LineBlock{Role: RoleSummary, Run: run})
		return nil
	})
}

// section runs fill and, if it added anything, puts a heading in front of
// the new blocks and a gap after them. A section that adds nothing leaves no
// trace.
func (b *Builder) section(kind types.SectionKind, title string, withHeading bool, fill func() error) error {
	mark := len(b.blocks)
	if err := fill(); err != nil {
		return err
	}
	if len(b.blocks) == mark {
		return nil
	}

	if withHeading {
		b.blocks = slices.Insert(b.blocks, mark, Block(b.heading(kind, title)))
	}
	b.spacer(b.profile.Spacing.BetweenSections)
	return nil
}

func (b *Builder) heading(kind types.SectionKind, title string) *SectionHeadingBlock {
	p := b.profile
	ts := TextStyle{Font: p.Fonts.Heading, Size: p.Sizes.Heading, Color: p.Colors.Heading}

	text := b.clean(title, ts.Font)
	if text == "" {
		text = b.clean(DefaultTitle(kind), ts.Font)
	}

	return &SectionHeadingBlock{
		Kind:         kind,
		Title:        text,
		Style:        ts,
		Band:         p.HeaderBand,
		BandColor:    p.Colors.HeadingBand,
		Height:       p.Spacing.HeaderHeight,
		Gap:          p.Spacing.HeaderGap,
		Underline:    !p.HeaderBand,
		RuleColor:    p.Colors.Rule,
		KeepWithNext: true,
	}
}

// DefaultTitle is the heading used for a section without a title.
func DefaultTitle(kind types.SectionKind) string {
	switch kind {
	case types.KindEducation:
		return "Education"
	case types.KindExperience:
		return "Experience"
	case types.KindSkills:
		return "Skills"
	case types.KindLanguages:
		return "Languages"
	case types.KindCertifications:
		return "Certifications"
	case types.KindProjects:
		return "Projects"
	case KindSummary:
		return "Summary"
	default:
		return ""
	}
}

func mailto(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return "mailto:" + email
}

func tel(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r == '+' || (r >= '0' && r <= '9') {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return ""
	}
	return "tel:" + digits.String()
}
