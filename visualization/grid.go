package visualization

import (
	"math"
	"strings"

	"github.com/anggasct/crossroads/pkg/layout"
	"github.com/anggasct/crossroads/pkg/signal"
	"github.com/anggasct/crossroads/pkg/sim"
)

// CellClass tells a renderer how to style a cell
type CellClass uint8

const (
	ClassEmpty CellClass = iota
	ClassRoad
	ClassLamp
	ClassAgent
)

// Cell is one character of a rasterized frame
type Cell struct {
	Rune  rune
	Class CellClass
	// Color is set for lamps
	Color signal.Color
	// Kind and Stopped are set for agents
	Kind    layout.Kind
	Stopped bool
}

// Grid is a frame scaled down to a character raster
type Grid struct {
	Cols  int
	Rows  int
	Cells []Cell
}

// At returns the cell at col, row. Out of range positions are empty.
func (g *Grid) At(col, row int) Cell {
	if col < 0 || row < 0 || col >= g.Cols || row >= g.Rows {
		return Cell{Rune: ' '}
	}
	return g.Cells[row*g.Cols+col]
}

func (g *Grid) set(col, row int, cell Cell) {
	if col < 0 || row < 0 || col >= g.Cols || row >= g.Rows {
		return
	}
	g.Cells[row*g.Cols+col] = cell
}

// String renders the grid as lines of text
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.Cols + 1) * g.Rows)
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			sb.WriteRune(g.At(col, row).Rune)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

var glyphs = map[layout.Kind]rune{
	layout.Car:        'C',
	layout.Bus:        'B',
	layout.Bicycle:    'b',
	layout.Pedestrian: 'p',
}

// Rasterizer maps world coordinates onto a character grid. Agents are drawn
// centred on their position.
type Rasterizer struct {
	world layout.World
	// road bands along y (horizontal road) and x (vertical road)
	horizontal layout.Interval
	vertical   layout.Interval
}

// NewRasterizer derives the road bands from the spawn lanes in table
func NewRasterizer(world layout.World, table layout.Table) *Rasterizer {
	r := &Rasterizer{
		world:      world,
		horizontal: layout.Interval{Min: math.Inf(1), Max: math.Inf(-1)},
		vertical:   layout.Interval{Min: math.Inf(1), Max: math.Inf(-1)},
	}
	for _, kind := range layout.Kinds {
		geom, ok := table.Lookup(kind)
		if !ok {
			continue
		}
		pad := geom.Extent() / 2
		for heading, approach := range geom.Approaches {
			if heading.Horizontal() {
				widen(&r.horizontal, approach.Spawn.Y, pad)
			} else {
				widen(&r.vertical, approach.Spawn.X, pad)
			}
		}
	}
	return r
}

func widen(band *layout.Interval, centre, pad float64) {
	band.Min = math.Min(band.Min, centre-pad)
	band.Max = math.Max(band.Max, centre+pad)
}

// Render rasterizes frame onto a cols x rows grid
func (r *Rasterizer) Render(frame sim.Frame, cols, rows int) *Grid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	g := &Grid{Cols: cols, Rows: rows, Cells: make([]Cell, cols*rows)}
	sx := float64(cols) / r.world.Width
	sy := float64(rows) / r.world.Height

	for row := 0; row < rows; row++ {
		y := (float64(row) + 0.5) / sy
		for col := 0; col < cols; col++ {
			x := (float64(col) + 0.5) / sx
			cell := Cell{Rune: ' '}
			inH := y >= r.horizontal.Min && y <= r.horizontal.Max
			inV := x >= r.vertical.Min && x <= r.vertical.Max
			if inH || inV {
				cell = Cell{Rune: '.', Class: ClassRoad}
			}
			g.set(col, row, cell)
		}
	}

	// signal heads sit at the top-left corner of the junction box
	lampRow := int((r.horizontal.Min)*sy) - 1
	hCol := int(r.vertical.Min*sx) - 2
	vCol := hCol + 1
	g.set(hCol, lampRow, Cell{Rune: 'H', Class: ClassLamp, Color: frame.Lamps.Horizontal})
	g.set(vCol, lampRow, Cell{Rune: 'V', Class: ClassLamp, Color: frame.Lamps.Vertical})

	for _, a := range frame.Agents {
		glyph, ok := glyphs[a.Kind]
		if !ok {
			glyph = '?'
		}
		c0 := int(math.Floor((a.X - a.Width/2) * sx))
		c1 := int(math.Floor((a.X + a.Width/2) * sx))
		r0 := int(math.Floor((a.Y - a.Height/2) * sy))
		r1 := int(math.Floor((a.Y + a.Height/2) * sy))
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				g.set(col, row, Cell{Rune: glyph, Class: ClassAgent, Kind: a.Kind, Stopped: a.Stopped})
			}
		}
	}

	return g
}
