package delta

import (
	"sheetDelta/internal/grid"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// table builds a grid titled title from rows of values; nil leaves a cell unset.
func table(title string, rows ...[]any) *grid.Grid {
	g := grid.New(title)
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			g.SetValue(grid.At(r+1, c+1), v)
		}
	}
	return g
}

func TestHeaderKeysJoinRows(t *testing.T) {
	g := table("Sheet1",
		[]any{"Region", "Sales", "Sales", "Cost"},
		[]any{"", "Q1", "Q2", "Q1"},
		[]any{"North", 1, 2, 3},
	)
	keys, err := HeaderKeys(g, Region{StartRow: 0, StartCol: 1, HeaderRows: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Sales_Q1", "Sales_Q2", "Cost_Q1"}, keys)
}

func TestHeaderKeysSegmentRules(t *testing.T) {
	g := table("Sheet1",
		[]any{nil, "X", "X", nil, 2024},
		[]any{"Y", nil, nil, nil, 1.5},
		[]any{0, 0, 0, 0, 0},
	)
	// The third row only extends the grid below the two header rows.
	keys, err := HeaderKeys(g, Region{HeaderRows: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Y", "X_", "X__1", "", "2024_1.5"}, keys)
}

func TestHeaderKeysDeduplicate(t *testing.T) {
	g := table("Sheet1",
		[]any{"A", "A", "A"},
		[]any{1, 2, 3},
	)
	keys, err := HeaderKeys(g, Region{HeaderRows: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "A_1", "A_2"}, keys)
}

func TestHeaderKeysCountersArePerBaseKey(t *testing.T) {
	g := table("Sheet1",
		[]any{"A", "B", "A", "B", "A"},
	)
	keys, err := HeaderKeys(g, Region{HeaderRows: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "A_1", "B_1", "A_2"}, keys)
}

func TestHeaderKeysEmptyKeysRepeat(t *testing.T) {
	g := table("Sheet1",
		[]any{nil, nil, "Q1", nil},
		[]any{nil, nil, nil, "x"},
	)
	keys, err := HeaderKeys(g, Region{HeaderRows: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"", "", "Q1", ""}, keys)
}

func TestHeaderKeysUniqueValuesUnchanged(t *testing.T) {
	g := table("Sheet1",
		[]any{"Jan", "Feb", "Mar"},
		[]any{"Plan", "Plan", "Plan"},
	)
	keys, err := HeaderKeys(g, Region{HeaderRows: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Jan_Plan", "Feb_Plan", "Mar_Plan"}, keys)
}

func TestHeaderKeysResolveMergedCells(t *testing.T) {
	g := table("Sheet1",
		[]any{"Label", "Sales", nil, "Cost"},
		[]any{nil, "Q1", "Q2", "Q1"},
	)
	require.NoError(t, g.Merge(grid.NewMergedRange(grid.At(1, 2), grid.At(1, 3))))

	keys, err := HeaderKeys(g, Region{StartCol: 1, HeaderRows: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Sales_Q1", "Sales_Q2", "Cost_Q1"}, keys)
}

func TestHeaderKeysCollisionAfterSuffixIsBlanked(t *testing.T) {
	g := table("Sheet1",
		[]any{"A", "A", "A_1", "B"},
	)
	keys, err := HeaderKeys(g, Region{HeaderRows: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "", "", "B"}, keys)
}

func TestHeaderRegionOutOfBounds(t *testing.T) {
	g := table("Sheet1",
		[]any{"A", "B"},
		[]any{1, 2},
	)
	tests := []Region{
		{StartRow: 1, HeaderRows: 2},
		{StartCol: 2, HeaderRows: 1},
		{StartRow: -1, HeaderRows: 1},
		{HeaderRows: 0},
	}
	for _, r := range tests {
		_, err := HeaderKeys(g, r)
		assert.ErrorIs(t, err, ErrMalformedHeaderRegion, "region %+v", r)
		_, err = DataColumns(g, r)
		assert.ErrorIs(t, err, ErrMalformedHeaderRegion, "region %+v", r)
	}
}

func TestRegionAt(t *testing.T) {
	r, err := RegionAt("C4", 0)
	require.NoError(t, err)
	assert.Equal(t, Region{StartRow: 3, StartCol: 2, HeaderRows: DefaultHeaderRows}, r)

	_, err = RegionAt("4C", 1)
	assert.Error(t, err)
}

func TestDataColumns(t *testing.T) {
	g := table("Sheet1",
		[]any{"Name", "Q1", "Q2"},
		[]any{"a", 1, 2},
		[]any{"b", 3, nil},
		[]any{"c", nil, nil},
	)
	columns, err := DataColumns(g, Region{StartCol: 1, HeaderRows: 1})
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, DataColumn{grid.At(2, 2), grid.At(3, 2), grid.At(4, 2)}, columns[0])
	assert.Equal(t, DataColumn{grid.At(2, 3), grid.At(3, 3), grid.At(4, 3)}, columns[1])
}

func TestDataColumnsWithoutDataRows(t *testing.T) {
	g := table("Sheet1",
		[]any{"Q1", "Q2"},
	)
	columns, err := DataColumns(g, Region{HeaderRows: 1})
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Empty(t, columns[0])
}
