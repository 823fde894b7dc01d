package life

import "fmt"

// Pattern is a named seed shape.
type Pattern struct {
	Name   string
	Width  int
	Height int
	Cells  [][]bool
}

// Place returns the pattern's live coordinates translated so its top-left
// corner sits at (x, y). The result feeds straight into NewGrid, which
// drops any coordinate that ends up outside the grid.
func (p Pattern) Place(x, y int) []Coord {
	var live []Coord
	for row := 0; row < p.Height; row++ {
		for col := 0; col < p.Width; col++ {
			if p.Cells[row][col] {
				live = append(live, Coord{X: x + col, Y: y + row})
			}
		}
	}
	return live
}

// PatternByName returns the named built-in pattern.
func PatternByName(name string) (Pattern, error) {
	pattern, exists := BuiltinPatterns()[name]
	if !exists {
		return Pattern{}, fmt.Errorf("pattern '%s' not found", name)
	}
	return pattern, nil
}

// BuiltinPatterns returns the library of well-known seed shapes.
func BuiltinPatterns() map[string]Pattern {
	patterns := make(map[string]Pattern)

	patterns["glider"] = Pattern{
		Name:   "glider",
		Width:  3,
		Height: 3,
		Cells: [][]bool{
			{false, true, false},
			{false, false, true},
			{true, true, true},
		},
	}

	patterns["blinker"] = Pattern{
		Name:   "blinker",
		Width:  3,
		Height: 1,
		Cells: [][]bool{
			{true, true, true},
		},
	}

	patterns["block"] = Pattern{
		Name:   "block",
		Width:  2,
		Height: 2,
		Cells: [][]bool{
			{true, true},
			{true, true},
		},
	}

	patterns["beacon"] = Pattern{
		Name:   "beacon",
		Width:  4,
		Height: 4,
		Cells: [][]bool{
			{true, true, false, false},
			{true, true, false, false},
			{false, false, true, true},
			{false, false, true, true},
		},
	}

	patterns["toad"] = Pattern{
		Name:   "toad",
		Width:  4,
		Height: 2,
		Cells: [][]bool{
			{false, true, true, true},
			{true, true, true, false},
		},
	}

	patterns["pulsar"] = Pattern{
		Name:   "pulsar",
		Width:  13,
		Height: 13,
		Cells: [][]bool{
			{false, false, true, true, true, false, false, false, true, true, true, false, false},
			{false, false, false, false, false, false, false, false, false, false, false, false, false},
			{true, false, false, false, false, true, false, true, false, false, false, false, true},
			{true, false, false, false, false, true, false, true, false, false, false, false, true},
			{true, false, false, false, false, true, false, true, false, false, false, false, true},
			{false, false, true, true, true, false, false, false, true, true, true, false, false},
			{false, false, false, false, false, false, false, false, false, false, false, false, false},
			{false, false, true, true, true, false, false, false, true, true, true, false, false},
			{true, false, false, false, false, true, false, true, false, false, false, false, true},
			{true, false, false, false, false, true, false, true, false, false, false, false, true},
			{true, false, false, false, false, true, false, true, false, false, false, false, true},
			{false, false, false, false, false, false, false, false, false, false, false, false, false},
			{false, false, true, true, true, false, false, false, true, true, true, false, false},
		},
	}

	return patterns
}
