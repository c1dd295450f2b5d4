package client

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// NoRows is rendered in place of a table that holds no rows.
const NoRows = "No rows"

// Table accumulates documents with differing fields into aligned rows.
// Columns are appended in first-seen order and never reordered.
type Table struct {
	columns     []string
	known       map[string]struct{}
	rows        [][]string
	null        string
	border      lipgloss.Border
	headerStyle lipgloss.Style
}

type TableOption func(*Table)

// WithNullPlaceholder sets the text rendered for absent fields.
func WithNullPlaceholder(s string) TableOption {
	return func(t *Table) {
		t.null = s
	}
}

func WithBorder(b lipgloss.Border) TableOption {
	return func(t *Table) {
		t.border = b
	}
}

func WithHeaderStyle(s lipgloss.Style) TableOption {
	return func(t *Table) {
		t.headerStyle = s
	}
}

func NewTable(opts ...TableOption) *Table {
	t := &Table{
		known:       make(map[string]struct{}),
		null:        NullPlaceholder,
		border:      lipgloss.NormalBorder(),
		headerStyle: lipgloss.NewStyle(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Push registers any new fields of doc as columns and appends its row.
func (t *Table) Push(doc Document) {
	for _, name := range doc.names {
		if _, ok := t.known[name]; ok {
			continue
		}
		t.known[name] = struct{}{}
		t.columns = append(t.columns, name)
	}

	row := make([]string, len(t.columns))
	for i, name := range t.columns {
		if v, ok := doc.Get(name); ok {
			row[i] = v.Text()
		} else {
			row[i] = t.null
		}
	}
	t.rows = append(t.rows, row)
}

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Rows returns copies of the rows, each padded to the current column count.
func (t *Table) Rows() [][]string {
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		padded := make([]string, len(t.columns))
		n := copy(padded, row)
		for j := n; j < len(padded); j++ {
			padded[j] = t.null
		}
		rows[i] = padded
	}
	return rows
}

// Render draws the table, or NoRows when nothing was pushed.
func (t *Table) Render() string {
	if len(t.rows) == 0 {
		return NoRows
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	header := cell.Inherit(t.headerStyle)

	return table.New().
		Border(t.border).
		Headers(t.columns...).
		Rows(t.Rows()...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		String()
}
