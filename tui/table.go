package tui

import (
	"fmt"
	"strings"

	"github.com/DachengChen/smartbi/db"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const maxCellWidth = 40

// RenderResult draws a query result as a bordered table followed by a
// row count footer.
func RenderResult(res *db.QueryResult) string {
	if res == nil || len(res.Rows) == 0 {
		return StyleDimmed.Render("(0 rows)")
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleTableBorder).
		Headers(res.Columns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return StyleTableHeader
			}
			return StyleTableCell
		})

	for _, r := range res.Rows {
		cells := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			cells[i] = FormatCell(r[col])
		}
		t.Row(cells...)
	}

	return t.Render() + "\n" + StyleDimmed.Render(RowCount(len(res.Rows)))
}

// FormatCell renders a single value on one line, truncated to a readable width.
func FormatCell(v any) string {
	var s string
	switch val := v.(type) {
	case nil:
		s = "NULL"
	case []byte:
		s = string(val)
	default:
		s = fmt.Sprintf("%v", val)
	}
	s = strings.ReplaceAll(s, "\n", " ")
	return TruncateMiddle(s, maxCellWidth)
}

// RowCount formats "(n row[s])".
func RowCount(n int) string {
	if n == 1 {
		return "(1 row)"
	}
	return fmt.Sprintf("(%d rows)", n)
}
