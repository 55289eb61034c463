package surface

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	Width    = 8
	Height   = 8
	NumCells = Width * Height
)

// ErrRejected marks input that does not address anything on the grid.
// The state is left untouched whenever an error wrapping it is returned.
var ErrRejected = errors.New("rejected input")

// Cell is a validated grid position. Row 0 is the bottom row, as the
// surface numbers its pads.
type Cell struct {
	X, Y int
}

// NewCell validates x and y.
func NewCell(x, y int) (Cell, error) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return Cell{}, errors.Wrapf(ErrRejected, "cell (%d,%d) outside grid", x, y)
	}
	return Cell{X: x, Y: y}, nil
}

// CellFromPad decodes a pad code: row*10 + col + 11.
func CellFromPad(code uint8) (Cell, error) {
	x := int(code%10) - 1
	y := int(code/10) - 1
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return Cell{}, errors.Wrapf(ErrRejected, "pad %d outside grid", code)
	}
	return Cell{X: x, Y: y}, nil
}

// CellFromIndex decodes a linear index y*8 + x.
func CellFromIndex(i int) (Cell, error) {
	if i < 0 || i >= NumCells {
		return Cell{}, errors.Wrapf(ErrRejected, "cell index %d outside grid", i)
	}
	return Cell{X: i % Width, Y: i / Width}, nil
}

// Pad is the surface's note number for the cell.
func (c Cell) Pad() uint8 {
	return uint8(c.Y*10 + c.X + 11)
}

// Index is the cell's slot in per-cell arrays.
func (c Cell) Index() int {
	return c.Y*Width + c.X
}

// HasChord reports whether a chord degree sits on the cell's row.
// There are seven degrees for eight rows, so the top row has none.
func (c Cell) HasChord() bool {
	return c.Y < numDegrees
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}
