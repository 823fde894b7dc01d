package life

import "strings"

// DefaultCellWidth is the rendering hint applied when a cell is created
// without an explicit width. It has no effect on evolution.
const DefaultCellWidth = 10

// Coord identifies a single grid position.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell is a single automaton unit. Cells are plain values: a generation
// step replaces each cell with a freshly computed one rather than mutating
// anything in place.
type Cell struct {
	X     int
	Y     int
	Alive bool
	Width int
}

// CellConfig enumerates the cell construction inputs.
type CellConfig struct {
	X     int
	Y     int
	Alive bool
	Width int
}

// NewCell builds a cell from cfg. A non-positive width falls back to
// DefaultCellWidth. Coordinates are not validated here; the grid decides
// which coordinates exist.
func NewCell(cfg CellConfig) Cell {
	width := cfg.Width
	if width <= 0 {
		width = DefaultCellWidth
	}
	return Cell{X: cfg.X, Y: cfg.Y, Alive: cfg.Alive, Width: width}
}

// Next returns the cell one generation later, given its live neighbor
// count. The rule is total: any non-negative count lands in one of the
// four bands.
func (c Cell) Next(neighbors int) Cell {
	next := c
	switch {
	case neighbors < 2:
		next.Alive = false
	case neighbors == 2:
		// survives or stays dead, unchanged
	case neighbors == 3:
		next.Alive = true
	default:
		next.Alive = false
	}
	return next
}

// Render returns the cell's text glyph.
func (c Cell) Render() string {
	if c.Alive {
		return "█"
	}
	return "."
}

// Grid is a fixed rectangular field of cells covering every coordinate
// with 0 <= x < width and 0 <= y < height. A Grid value is read-only
// after construction; Evolve returns a replacement grid.
type Grid struct {
	width  int
	height int
	cells  map[Coord]Cell
}

// NewGrid builds a width x height grid whose live cells are exactly the
// entries of live that fall inside the rectangle; entries outside it are
// silently ignored. Non-positive dimensions produce a grid with no cells.
func NewGrid(width, height int, live []Coord) Grid {
	g := Grid{width: width, height: height}
	if width <= 0 || height <= 0 {
		g.cells = make(map[Coord]Cell)
		return g
	}
	alive := make(map[Coord]bool, len(live))
	for _, pos := range live {
		alive[pos] = true
	}
	g.cells = make(map[Coord]Cell, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pos := Coord{X: x, Y: y}
			g.cells[pos] = NewCell(CellConfig{X: x, Y: y, Alive: alive[pos]})
		}
	}
	return g
}

// Width returns the grid width.
func (g Grid) Width() int {
	return g.width
}

// Height returns the grid height.
func (g Grid) Height() int {
	return g.height
}

// Size returns the number of cells the grid covers.
func (g Grid) Size() int {
	return len(g.cells)
}

// Cell returns the cell at (x, y), or false when the coordinate is
// outside the rectangle.
func (g Grid) Cell(x, y int) (Cell, bool) {
	c, ok := g.cells[Coord{X: x, Y: y}]
	return c, ok
}

// Alive reports whether the cell at (x, y) is alive. Coordinates outside
// the rectangle are permanently dead; the border never wraps.
func (g Grid) Alive(x, y int) bool {
	c, ok := g.cells[Coord{X: x, Y: y}]
	return ok && c.Alive
}

// NeighborCount counts live cells among the 8 neighbors of (x, y).
func (g Grid) NeighborCount(x, y int) int {
	count := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if g.Alive(x+dx, y+dy) {
				count++
			}
		}
	}
	return count
}

// Evolve computes the next generation and returns it as a new grid of the
// same dimensions. Every output cell is derived from the receiver's state
// only, so all cells update simultaneously.
func (g Grid) Evolve() Grid {
	next := Grid{
		width:  g.width,
		height: g.height,
		cells:  make(map[Coord]Cell, len(g.cells)),
	}
	for pos, cell := range g.cells {
		next.cells[pos] = cell.Next(g.NeighborCount(pos.X, pos.Y))
	}
	return next
}

// Render concatenates cell glyphs in row-major order, one line per row.
func (g Grid) Render() string {
	var b strings.Builder
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			b.WriteString(g.cells[Coord{X: x, Y: y}].Render())
		}
		b.WriteString("\n")
	}
	return b.String()
}

// AliveCells returns the live cells in row-major order.
func (g Grid) AliveCells() []Cell {
	var cells []Cell
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if c := g.cells[Coord{X: x, Y: y}]; c.Alive {
				cells = append(cells, c)
			}
		}
	}
	return cells
}

// CountAlive returns the number of live cells.
func (g Grid) CountAlive() int {
	count := 0
	for _, c := range g.cells {
		if c.Alive {
			count++
		}
	}
	return count
}

// Equals reports whether both grids have the same dimensions and the same
// live cells.
func (g Grid) Equals(other Grid) bool {
	if g.width != other.width || g.height != other.height {
		return false
	}
	if len(g.cells) != len(other.cells) {
		return false
	}
	for pos, cell := range g.cells {
		o, ok := other.cells[pos]
		if !ok || o.Alive != cell.Alive {
			return false
		}
	}
	return true
}
