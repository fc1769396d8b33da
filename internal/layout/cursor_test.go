package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testGeometry() Geometry {
	return Geometry{Width: 300, Height: 400, Top: 40, Left: 30, Right: 270, Bottom: 350}
}

func TestNewCursor_StartsAtTopOfFirstPage(t *testing.T) {
	c := NewCursor(testGeometry())
	assert.Equal(t, 1, c.Page())
	assert.Equal(t, 40.0, c.Y())
	assert.True(t, c.AtTop())
	assert.Equal(t, 310.0, c.Remaining())
}

func TestCursor_EnsureSpaceNoOpWhenLineFits(t *testing.T) {
	c := NewCursor(testGeometry())
	c.Advance(100)
	assert.False(t, c.EnsureSpace(210))
	assert.Equal(t, 1, c.Page())
	assert.Equal(t, 140.0, c.Y())
}

func TestCursor_EnsureSpaceBreaksAndResets(t *testing.T) {
	c := NewCursor(testGeometry())
	c.Advance(300)
	assert.True(t, c.EnsureSpace(12))
	assert.Equal(t, 2, c.Page())
	assert.Equal(t, 40.0, c.Y())
	assert.True(t, c.AtTop())
}

func TestCursor_OversizedLineOnFreshPageDoesNotLoop(t *testing.T) {
	c := NewCursor(testGeometry())
	assert.False(t, c.EnsureSpace(1000))
	assert.Equal(t, 1, c.Page())

	c.Advance(1000)
	assert.True(t, c.EnsureSpace(1000))
	assert.False(t, c.EnsureSpace(1000))
	assert.Equal(t, 2, c.Page())
}

func TestCursor_NeverRewinds(t *testing.T) {
	c := NewCursor(testGeometry())
	c.Advance(20)
	c.Advance(-15)
	c.Skip(-5)
	assert.Equal(t, 60.0, c.Y())
}

func TestCursor_SkipDroppedAtTopOfPage(t *testing.T) {
	c := NewCursor(testGeometry())
	c.Skip(25)
	assert.Equal(t, 40.0, c.Y())

	c.Advance(10)
	c.Skip(25)
	assert.Equal(t, 75.0, c.Y())
}

func TestCursor_SkipClampedAtBottom(t *testing.T) {
	c := NewCursor(testGeometry())
	c.Advance(300)
	c.Skip(50)
	assert.Equal(t, 350.0, c.Y())
	assert.Equal(t, 1, c.Page())
	assert.Equal(t, 0.0, c.Remaining())

	assert.True(t, c.EnsureSpace(1))
}

func TestGeometry_ColumnWidth(t *testing.T) {
	assert.Equal(t, 240.0, testGeometry().ColumnWidth())
}
