package tui

import (
	"strings"
	"testing"

	"github.com/DachengChen/smartbi/db"
	"github.com/stretchr/testify/assert"
)

func TestRenderResultEmpty(t *testing.T) {
	assert.Contains(t, RenderResult(nil), "(0 rows)")
	assert.Contains(t, RenderResult(&db.QueryResult{Columns: []string{}, Rows: []map[string]any{}}), "(0 rows)")
}

func TestRenderResult(t *testing.T) {
	out := RenderResult(&db.QueryResult{
		Columns: []string{"region", "revenue"},
		Rows: []map[string]any{
			{"region": "north", "revenue": 120.5},
			{"region": "south", "revenue": nil},
		},
	})

	assert.Contains(t, out, "region")
	assert.Contains(t, out, "revenue")
	assert.Contains(t, out, "north")
	assert.Contains(t, out, "120.5")
	assert.Contains(t, out, "NULL")
	assert.True(t, strings.HasSuffix(out, "(2 rows)"))

	// Header columns follow the result's column order.
	assert.Less(t, strings.Index(out, "region"), strings.Index(out, "revenue"))
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "NULL", FormatCell(nil))
	assert.Equal(t, "42", FormatCell(42))
	assert.Equal(t, "raw", FormatCell([]byte("raw")))
	assert.Equal(t, "a b", FormatCell("a\nb"))

	long := FormatCell(strings.Repeat("x", 100))
	assert.Equal(t, maxCellWidth, len([]rune(long)))
}

func TestRowCount(t *testing.T) {
	assert.Equal(t, "(0 rows)", RowCount(0))
	assert.Equal(t, "(1 row)", RowCount(1))
	assert.Equal(t, "(7 rows)", RowCount(7))
}
