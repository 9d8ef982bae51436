package grid

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"
	"github.com/xuri/excelize/v2"
)

// Style is the formatting bundle of a cell.
type Style struct {
	Font         *excelize.Font
	Border       []excelize.Border
	Fill         excelize.Fill
	NumFmt       int
	CustomNumFmt *string
	Protection   *excelize.Protection
	Alignment    *excelize.Alignment
}

// IsZero reports whether the style carries no formatting at all.
func (s Style) IsZero() bool {
	return s.Font == nil && len(s.Border) == 0 && s.Fill.Type == "" &&
		len(s.Fill.Color) == 0 && s.NumFmt == 0 && s.CustomNumFmt == nil &&
		s.Protection == nil && s.Alignment == nil
}

// Clone returns a deep copy so the result shares no pointers with s.
func (s Style) Clone() (Style, error) {
	var out Style
	if err := deepcopy.Copy(&out, &s); err != nil {
		return Style{}, fmt.Errorf("failed to copy style: %w", err)
	}
	return out, nil
}

// StyleFromExcel converts an excelize style definition.
func StyleFromExcel(s *excelize.Style) Style {
	if s == nil {
		return Style{}
	}
	return Style{
		Font:         s.Font,
		Border:       s.Border,
		Fill:         s.Fill,
		NumFmt:       s.NumFmt,
		CustomNumFmt: s.CustomNumFmt,
		Protection:   s.Protection,
		Alignment:    s.Alignment,
	}
}

// Excel converts the style into an excelize definition for NewStyle.
func (s Style) Excel() *excelize.Style {
	return &excelize.Style{
		Font:         s.Font,
		Border:       s.Border,
		Fill:         s.Fill,
		NumFmt:       s.NumFmt,
		CustomNumFmt: s.CustomNumFmt,
		Protection:   s.Protection,
		Alignment:    s.Alignment,
	}
}

// SolidFill returns a solid pattern fill of one RGB colour such as "FF0000".
func SolidFill(rgb string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{rgb}}
}
