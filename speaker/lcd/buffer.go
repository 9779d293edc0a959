package lcd

import (
	"strings"
	"sync"
)

// Buffer is an in-memory character display. It behaves like Device: writes
// start at the cursor, are truncated at the last column, and writes to rows
// outside the display are dropped.
//
// Buffer is safe for concurrent use, so one goroutine may draw while
// another reads the cells.
type Buffer struct {
	mu     sync.Mutex
	cols   int
	rows   int
	cells  [][]byte
	col    int
	row    int
	clears int
}

// NewBuffer returns a blank cols x rows display.
func NewBuffer(cols, rows int) *Buffer {
	b := &Buffer{cols: cols, rows: rows, cells: make([][]byte, rows)}
	for i := range b.cells {
		b.cells[i] = make([]byte, cols)
	}
	b.blank()
	return b
}

// Clear blanks every cell and homes the cursor.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blank()
	b.col, b.row = 0, 0
	b.clears++
}

// MoveCursor positions the cursor.
func (b *Buffer) MoveCursor(col, row int) {
	b.mu.Lock()
	b.col, b.row = col, row
	b.mu.Unlock()
}

// WriteString writes s at the cursor.
func (b *Buffer) WriteString(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.row < 0 || b.row >= b.rows || b.col < 0 {
		return
	}
	for i := 0; i < len(s) && b.col < b.cols; i++ {
		b.cells[b.row][b.col] = s[i]
		b.col++
	}
}

// Size returns the display geometry.
func (b *Buffer) Size() (cols, rows int) { return b.cols, b.rows }

// Lines returns every row with trailing blanks removed.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	lines := make([]string, b.rows)
	for i, row := range b.cells {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return lines
}

// Rows returns every row padded to the display width.
func (b *Buffer) Rows() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	rows := make([]string, b.rows)
	for i, row := range b.cells {
		rows[i] = string(row)
	}
	return rows
}

// Clears returns how many times the display has been cleared.
func (b *Buffer) Clears() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clears
}

func (b *Buffer) blank() {
	for _, row := range b.cells {
		for i := range row {
			row[i] = ' '
		}
	}
}
