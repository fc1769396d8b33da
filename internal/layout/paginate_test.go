package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jonathan/resume-layout/internal/fonts"
	"github.com/jonathan/resume-layout/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shortPage shrinks the page so the full record spans several pages.
func shortPage() *style.Profile {
	p := style.Default()
	p.Page.Height = 300
	return p
}

func assertMonotonic(t *testing.T, set *PageSet) {
	t.Helper()
	require.NotEmpty(t, set.Placements)

	prev := set.Placements[0]
	assert.Equal(t, 1, prev.Page)
	for _, pl := range set.Placements[1:] {
		switch {
		case pl.Page == prev.Page:
			assert.GreaterOrEqual(t, pl.Y, prev.Y, "offset rewound on page %d", pl.Page)
		case pl.Page == prev.Page+1:
			assert.Equal(t, set.Geometry.Top, pl.Y, "page %d does not start at the top margin", pl.Page)
		default:
			t.Fatalf("page jumped from %d to %d", prev.Page, pl.Page)
		}
		prev = pl
	}
	assert.Equal(t, prev.Page, set.PageCount())
}

func TestPaginate_JaneDoeScenario(t *testing.T) {
	p := style.Default()
	require.InDelta(t, 495.0, p.ColumnWidth(), 0.001)
	require.Equal(t, 10.0, p.Sizes.Body)

	set := Paginate(build(t, p, janeDoe()), fonts.Default())
	texts := set.Texts()

	var bulletLines int
	var sawHeader, sawDates bool
	for _, tx := range texts {
		switch tx.Text {
		case "Experience":
			sawHeader = true
		case "2019 – Present":
			sawDates = true
		}
		if tx.Font == p.Fonts.Body && tx.Text != "•" && tx.Color == p.Colors.Text {
			bulletLines++
		}
	}
	assert.True(t, sawHeader)
	assert.True(t, sawDates)
	assert.GreaterOrEqual(t, bulletLines, 10)
	assert.Equal(t, 1, set.PageCount())
}

func TestPaginate_ContinuesOnNextPage(t *testing.T) {
	p := style.Default()
	p.Page.Height = 220

	doc := build(t, p, janeDoe())
	set := Paginate(doc, fonts.Default())
	require.Greater(t, set.PageCount(), 1)
	assertMonotonic(t, set)

	var want []string
	for _, b := range blocksOf[*BulletBlock](doc) {
		want = append(want, b.Run.Lines...)
	}
	last := want[len(want)-1]

	var got []string
	var lastPage int
	var lastY float64
	for _, tx := range set.Texts() {
		if tx.Font == p.Fonts.Body && tx.Color == p.Colors.Text {
			got = append(got, tx.Text)
		}
		if tx.Text == last {
			lastPage, lastY = tx.Page, tx.Y
		}
	}
	assert.Equal(t, want, got, "every wrapped line is drawn exactly once")
	assert.Equal(t, set.PageCount(), lastPage)
	assert.GreaterOrEqual(t, lastY, set.Geometry.Top)
	assert.LessOrEqual(t, lastY+p.Spacing.BulletLineHeight, set.Geometry.Bottom)
}

func TestPaginate_LinesFitTheirColumn(t *testing.T) {
	m := fonts.Default()
	for _, name := range style.Names() {
		p := builtin(t, name)
		set := Paginate(build(t, p, fullRecord()), m)
		for _, tx := range set.Texts() {
			assert.LessOrEqual(t, m.WidthOf(tx.Text, tx.Font, tx.Size), tx.Limit+1e-9, "%s: %q", name, tx.Text)
			assert.GreaterOrEqual(t, tx.X, set.Geometry.Left-1e-9, "%s: %q", name, tx.Text)
			assert.LessOrEqual(t, tx.X+tx.W, set.Geometry.Right+1e-9, "%s: %q", name, tx.Text)
		}
	}
}

func TestPaginate_Monotonic(t *testing.T) {
	for _, p := range []*style.Profile{style.Default(), shortPage()} {
		assertMonotonic(t, Paginate(build(t, p, fullRecord()), fonts.Default()))
	}
}

func TestPaginate_LinesStayInsideContentBox(t *testing.T) {
	set := Paginate(build(t, shortPage(), fullRecord()), fonts.Default())
	for _, pl := range set.Placements {
		assert.LessOrEqual(t, pl.Y+pl.Height, set.Geometry.Bottom+1e-9)
	}
}

func TestPaginate_Deterministic(t *testing.T) {
	p := shortPage()
	first := Paginate(build(t, p, fullRecord()), fonts.Default())
	second := Paginate(build(t, p, fullRecord()), fonts.Default())
	assert.Equal(t, first.PageCount(), second.PageCount())
	assert.Empty(t, cmp.Diff(first, second))
}

func TestPaginate_HeadingKeptWithContent(t *testing.T) {
	p := shortPage()
	doc := build(t, p, fullRecord())
	set := Paginate(doc, fonts.Default())

	titles := make(map[string]bool)
	for _, h := range blocksOf[*SectionHeadingBlock](doc) {
		titles[h.Title] = true
	}

	texts := set.Texts()
	for i, tx := range texts {
		if tx.Font != p.Fonts.Heading || tx.Size != p.Sizes.Heading || !titles[tx.Text] {
			continue
		}
		require.Less(t, i+1, len(texts))
		assert.Equal(t, tx.Page, texts[i+1].Page, "heading %q separated from its content", tx.Text)
	}
}

func TestPaginate_BandAndTimelineOps(t *testing.T) {
	modern := Paginate(build(t, builtin(t, "modern"), fullRecord()), fonts.Default())
	var rects int
	for _, page := range modern.Pages {
		for _, op := range page.Ops {
			if op.Kind == OpRect {
				rects++
			}
		}
	}
	assert.Greater(t, rects, 0)

	timeline := Paginate(build(t, builtin(t, "timeline"), fullRecord()), fonts.Default())
	var circles, rails int
	for _, page := range timeline.Pages {
		for _, op := range page.Ops {
			switch op.Kind {
			case OpCircle:
				circles++
			case OpLine:
				if op.X == op.X2 {
					rails++
				}
			}
		}
	}
	// four jobs, one degree, one project
	assert.Equal(t, 6, circles)
	assert.Greater(t, rails, circles)
}

func TestPaginate_LinksAnnotated(t *testing.T) {
	set := Paginate(build(t, style.Default(), fullRecord()), fonts.Default())

	var urls []string
	for _, op := range set.Pages[0].Ops {
		if op.Kind == OpLink {
			urls = append(urls, op.URL)
		}
	}
	assert.Contains(t, urls, "mailto:jane@example.com")
	assert.Contains(t, urls, "https://github.com/janedoe")
}
