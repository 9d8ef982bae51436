// Package heart draws a heart outline by filling worksheet cells, with an
// optional message merged into the largest rectangle inside it.
package heart

import (
	"fmt"
	"math"
	"sheetDelta/internal/grid"
	"sheetDelta/internal/logger"
	"sort"

	"github.com/xuri/excelize/v2"
)

// FillColor is the RGB colour of the outline cells.
const FillColor = "FF0000"

// Params controls the drawing. Offsets are the number of empty columns and
// rows left before the heart.
type Params struct {
	Size      int
	XOffset   int
	YOffset   int
	Intensity int

	WithText bool
	Text     string
	FontName string
	FontSize float64

	ColumnWidth float64
	RowHeight   float64
	ZoomScale   float64
}

// DefaultParams returns the parameters of the classic drawing.
func DefaultParams() Params {
	return Params{
		Size:        100,
		XOffset:     100,
		YOffset:     25,
		Intensity:   20000,
		WithText:    true,
		Text:        "Happy Valentine's Day :)",
		FontName:    "Calibri (Body)",
		FontSize:    180,
		ColumnWidth: 7,
		RowHeight:   30,
		ZoomScale:   10,
	}
}

func (p Params) validate() error {
	switch {
	case p.Size < 1:
		return fmt.Errorf("heart size must be positive, got %d", p.Size)
	case p.Intensity < 1:
		return fmt.Errorf("heart intensity must be positive, got %d", p.Intensity)
	case p.XOffset < 0 || p.YOffset < 0:
		return fmt.Errorf("heart offsets must not be negative, got (%d, %d)", p.XOffset, p.YOffset)
	}
	return nil
}

// upperY is the top branch of the curve on [-1, 1].
func upperY(x float64) float64 {
	return -math.Pow(x*x, 1.0/3.0) - math.Pow(math.Max(1-x*x, 0), 0.5)
}

// lowerY is the bottom branch of the curve on [-1, 1].
func lowerY(x float64) float64 {
	return -math.Pow(x*x, 1.0/3.0) + math.Pow(math.Max(1-x*x, 0), 0.5)
}

// point is a 0-based (column, row) cell position.
type point struct {
	col int
	row int
}

// Draw paints the heart onto g. The size is rounded up to an odd number so
// the heart has a centre column.
func Draw(g *grid.Grid, p Params) error {
	if err := p.validate(); err != nil {
		return err
	}

	scale := p.Size
	if scale%2 == 0 {
		scale++
	}
	half := float64(scale / 2)

	type sample struct{ x, y float64 }
	samples := make([]sample, 0, 4*p.Intensity+2)
	maxX, maxY := 0.0, 0.0
	for i := 0; i <= p.Intensity; i++ {
		x := float64(i) / float64(p.Intensity)
		xs := []float64{x}
		if i != 0 {
			xs = append(xs, -x)
		}
		for _, x := range xs {
			for _, y := range []float64{upperY(x), lowerY(x)} {
				s := sample{x * half, y * half}
				maxX = math.Max(maxX, math.Abs(s.x))
				maxY = math.Max(maxY, math.Abs(s.y))
				samples = append(samples, s)
			}
		}
	}

	centerRow := maxY + float64(p.YOffset)
	centerCol := maxX + float64(p.XOffset)

	red := grid.SolidFill(FillColor)
	points := make([]point, 0, len(samples))
	for _, s := range samples {
		pt := point{col: int(s.x + centerCol), row: int(s.y + centerRow)}
		points = append(points, pt)
		at := grid.At(pt.row+1, pt.col+1)
		style := g.Cell(at).Style
		style.Fill = red
		g.SetStyle(at, style)
	}

	if p.WithText {
		if err := placeText(g, p, points, scale, half, centerRow); err != nil {
			return err
		}
	}

	for col := 1; col <= g.MaxCol(); col++ {
		g.SetColWidth(col, p.ColumnWidth)
	}
	for row := 1; row <= g.MaxRow(); row++ {
		g.SetRowHeight(row, p.RowHeight)
	}
	g.ZoomScale = p.ZoomScale

	logger.Info("Drew heart", "sheet", g.Title, "size", scale, "points", len(points), "with_text", p.WithText)
	return nil
}

// placeText merges the widest-times-tallest rectangle hanging below the top
// cusp, bounded by an outline point on the left half and its mirror on the
// right, and writes the text into its anchor.
func placeText(g *grid.Grid, p Params, points []point, scale int, half, centerRow float64) error {
	sorted := append([]point(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].col < sorted[j].col })

	topRow := int(upperY(0)*half + centerRow)

	bestArea := -1
	var best point
	for _, pt := range sorted[:len(sorted)/2] {
		leftSpace := pt.col - p.XOffset
		area := (scale - 2*leftSpace) * (pt.row - topRow)
		if area > bestArea {
			bestArea = area
			best = pt
		}
	}

	rightSpace := best.col - p.XOffset
	start := grid.At(topRow+1, best.col+2)
	end := grid.At(best.row-1, scale+p.XOffset-rightSpace-2)
	if start.Row < 1 || start.Col < 1 || end.Row < 1 || end.Col < 1 {
		return fmt.Errorf("heart of size %d is too small for text", p.Size)
	}

	r := grid.NewMergedRange(start, end)
	if r.Start != r.End {
		if err := g.Merge(r); err != nil {
			return fmt.Errorf("failed to merge heart text area: %w", err)
		}
	}

	anchor := r.Start
	style := g.Cell(anchor).Style
	style.Font = &excelize.Font{Family: p.FontName, Size: p.FontSize, Bold: true, Italic: true}
	style.Alignment = &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true}
	g.SetStyle(anchor, style)
	g.SetValue(anchor, p.Text)
	return nil
}
