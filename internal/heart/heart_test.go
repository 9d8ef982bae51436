package heart

import (
	"sheetDelta/internal/grid"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallParams() Params {
	p := DefaultParams()
	p.Size = 21
	p.XOffset = 2
	p.YOffset = 1
	p.Intensity = 400
	return p
}

func filledColumns(g *grid.Grid) map[int]bool {
	cols := make(map[int]bool)
	g.Each(func(at grid.Coord, c grid.Cell) {
		if c.Style.Fill.Type == "pattern" {
			cols[at.Col] = true
		}
	})
	return cols
}

func TestDrawOutlineExtent(t *testing.T) {
	p := smallParams()
	p.WithText = false
	g := grid.New("heart")

	require.NoError(t, Draw(g, p))

	cols := filledColumns(g)
	assert.True(t, cols[p.XOffset+1], "leftmost column")
	assert.True(t, cols[p.XOffset+2*10+1], "rightmost column")
	assert.True(t, cols[p.XOffset+10+1], "centre column")
	for col := range cols {
		assert.GreaterOrEqual(t, col, p.XOffset+1)
		assert.LessOrEqual(t, col, p.XOffset+21)
	}
	assert.Equal(t, p.XOffset+21, g.MaxCol())
	assert.Empty(t, g.MergedRanges())

	g.Each(func(at grid.Coord, c grid.Cell) {
		assert.Nil(t, c.Value)
		if c.Style.Fill.Type != "" {
			assert.Equal(t, []string{FillColor}, c.Style.Fill.Color)
		}
	})
}

func TestDrawSizing(t *testing.T) {
	p := smallParams()
	g := grid.New("heart")
	require.NoError(t, Draw(g, p))

	widths := g.ColWidths()
	heights := g.RowHeights()
	assert.Len(t, widths, g.MaxCol())
	assert.Len(t, heights, g.MaxRow())
	assert.Equal(t, p.ColumnWidth, widths[1])
	assert.Equal(t, p.RowHeight, heights[g.MaxRow()])
	assert.Equal(t, p.ZoomScale, g.ZoomScale)
}

func TestDrawWithText(t *testing.T) {
	p := smallParams()
	g := grid.New("heart")
	require.NoError(t, Draw(g, p))

	merges := g.MergedRanges()
	require.Len(t, merges, 1)
	r := merges[0]
	assert.GreaterOrEqual(t, r.Start.Col, p.XOffset+1)
	assert.LessOrEqual(t, r.End.Col, p.XOffset+21)

	anchor := g.Cell(r.Start)
	assert.Equal(t, p.Text, anchor.Value)
	require.NotNil(t, anchor.Style.Font)
	assert.Equal(t, p.FontSize, anchor.Style.Font.Size)
	assert.True(t, anchor.Style.Font.Bold)
	require.NotNil(t, anchor.Style.Alignment)
	assert.True(t, anchor.Style.Alignment.WrapText)
	assert.Equal(t, "top", anchor.Style.Alignment.Vertical)
}

func TestDrawEvenSizeRoundsUp(t *testing.T) {
	even, odd := smallParams(), smallParams()
	even.Size = 20

	a, b := grid.New("a"), grid.New("b")
	require.NoError(t, Draw(a, even))
	require.NoError(t, Draw(b, odd))

	assert.Equal(t, b.MaxRow(), a.MaxRow())
	assert.Equal(t, b.MaxCol(), a.MaxCol())
	assert.Equal(t, b.MergedRanges(), a.MergedRanges())
	a.Each(func(at grid.Coord, c grid.Cell) {
		assert.Equal(t, b.Cell(at).Style.Fill, c.Style.Fill, at.String())
	})
}

func TestDrawRejectsBadParams(t *testing.T) {
	for _, mutate := range []func(*Params){
		func(p *Params) { p.Size = 0 },
		func(p *Params) { p.Intensity = 0 },
		func(p *Params) { p.XOffset = -1 },
	} {
		p := smallParams()
		mutate(&p)
		assert.Error(t, Draw(grid.New("heart"), p))
	}
}
