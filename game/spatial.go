package game

import (
	"math"
	"sort"
)

type cellKey struct {
	X, Y, Z int32
}

// SpatialGrid is a uniform hash grid for broad-phase hostile queries. The
// world around the player is unbounded for hostiles, so cells are keyed by
// coordinate instead of living in a fixed array. Only cells touched since
// the last Clear exist in the map.
type SpatialGrid struct {
	cellSize float64
	cells    map[cellKey][]int
	used     []cellKey
	spare    [][]int
}

// NewSpatialGrid creates an empty grid with the given cell edge
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = DefaultConfig().GridCellSize
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}
}

// Clear drops every cell touched since the last Clear. Cell slices are
// kept for reuse.
func (g *SpatialGrid) Clear() {
	for _, k := range g.used {
		g.spare = append(g.spare, g.cells[k][:0])
		delete(g.cells, k)
	}
	g.used = g.used[:0]
}

func (g *SpatialGrid) insert(k cellKey, idx int) {
	c, ok := g.cells[k]
	if !ok {
		if n := len(g.spare); n > 0 {
			c = g.spare[n-1]
			g.spare = g.spare[:n-1]
		}
		g.used = append(g.used, k)
	}
	g.cells[k] = append(c, idx)
}

func (g *SpatialGrid) coord(v float64) int32 {
	return int32(math.Floor(v / g.cellSize))
}

// InsertSphere adds idx to every cell overlapping the sphere's bounding box
func (g *SpatialGrid) InsertSphere(center Vec3, radius float64, idx int) {
	minX, maxX := g.coord(center.X-radius), g.coord(center.X+radius)
	minY, maxY := g.coord(center.Y-radius), g.coord(center.Y+radius)
	minZ, maxZ := g.coord(center.Z-radius), g.coord(center.Z+radius)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				g.insert(cellKey{x, y, z}, idx)
			}
		}
	}
}

// QueryBuf appends the distinct indices stored in cells overlapping the
// query sphere's bounding box, sorted descending, and returns the extended
// slice.
func (g *SpatialGrid) QueryBuf(center Vec3, radius float64, buf []int) []int {
	start := len(buf)
	minX, maxX := g.coord(center.X-radius), g.coord(center.X+radius)
	minY, maxY := g.coord(center.Y-radius), g.coord(center.Y+radius)
	minZ, maxZ := g.coord(center.Z-radius), g.coord(center.Z+radius)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				buf = append(buf, g.cells[cellKey{x, y, z}]...)
			}
		}
	}
	found := buf[start:]
	sort.Sort(sort.Reverse(sort.IntSlice(found)))
	n := 0
	for i, v := range found {
		if i == 0 || v != found[n-1] {
			found[n] = v
			n++
		}
	}
	return buf[:start+n]
}
