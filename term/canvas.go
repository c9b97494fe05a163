// Package term renders an arixtree.Scene into a terminal with tcell.
package term

import (
	"math"

	"github.com/arixtree/arixtree"
)

// Cell is one character of the canvas.
type Cell struct {
	Rune  rune
	Color arixtree.Color
	depth float64
}

// Canvas is a depth-buffered character grid. The nearest plot wins each cell.
type Canvas struct {
	w, h  int
	cells []Cell
}

// NewCanvas creates an empty w x h canvas.
func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Size returns the canvas dimensions in cells.
func (c *Canvas) Size() (w, h int) { return c.w, c.h }

// Resize reallocates the grid if the size changed and clears it.
func (c *Canvas) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if w != c.w || h != c.h {
		c.w, c.h = w, h
		c.cells = make([]Cell, w*h)
	}
	c.Clear()
}

// Clear empties every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = Cell{Rune: ' ', depth: math.Inf(1)}
	}
}

// Plot writes r at (x, y) unless the cell already holds something nearer.
// Out-of-bounds plots are ignored. It reports whether the cell was written.
func (c *Canvas) Plot(x, y int, depth float64, r rune, col arixtree.Color) bool {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return false
	}
	cell := &c.cells[y*c.w+x]
	if depth >= cell.depth {
		return false
	}
	*cell = Cell{Rune: r, Color: col, depth: depth}
	return true
}

// At returns the cell at (x, y). Out-of-bounds reads return a blank cell.
func (c *Canvas) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return Cell{Rune: ' '}
	}
	return c.cells[y*c.w+x]
}

// Text writes s left to right starting at (x, y) in front of everything else.
func (c *Canvas) Text(x, y int, s string, col arixtree.Color) {
	for _, r := range s {
		c.Plot(x, y, math.Inf(-1), r, col)
		x++
	}
}
