package sim

import "math"

// cellKey uniquely identifies a grid cell
type cellKey struct {
	cx, cy int
}

// foodGrid is a hash grid over food for fast proximity queries.
// It is rebuilt once per tick; food never moves so entries stay valid until eaten.
type foodGrid struct {
	cells    map[cellKey][]*Food
	cellSize float64
}

func newFoodGrid(cellSize float64) *foodGrid {
	return &foodGrid{
		cells:    make(map[cellKey][]*Food),
		cellSize: cellSize,
	}
}

// Rebuild clears the grid and inserts every uneaten item
func (g *foodGrid) Rebuild(food []*Food) {
	for k := range g.cells {
		delete(g.cells, k)
	}
	for _, f := range food {
		if f.eaten {
			continue
		}
		k := g.keyFor(f.Pos())
		g.cells[k] = append(g.cells[k], f)
	}
}

func (g *foodGrid) keyFor(p Vec) cellKey {
	return cellKey{
		cx: int(math.Floor(p.X / g.cellSize)),
		cy: int(math.Floor(p.Y / g.cellSize)),
	}
}

// Nearby returns uneaten food whose centre lies within radius of pos
func (g *foodGrid) Nearby(pos Vec, radius float64) []*Food {
	results := []*Food{}
	minCX := int(math.Floor((pos.X - radius) / g.cellSize))
	maxCX := int(math.Floor((pos.X + radius) / g.cellSize))
	minCY := int(math.Floor((pos.Y - radius) / g.cellSize))
	maxCY := int(math.Floor((pos.Y + radius) / g.cellSize))

	r2 := radius * radius
	for cx := minCX; cx <= maxCX; cx++ {
		for cy := minCY; cy <= maxCY; cy++ {
			for _, f := range g.cells[cellKey{cx, cy}] {
				if f.eaten {
					continue
				}
				dx := f.Body.Pos.X - pos.X
				dy := f.Body.Pos.Y - pos.Y
				if dx*dx+dy*dy <= r2 {
					results = append(results, f)
				}
			}
		}
	}
	return results
}
