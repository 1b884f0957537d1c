package field

import "math"

// binKey identifies a grid cell of side LinkRadius.
type binKey struct{ X, Y int }

// Bin holds particle indices in one grid cell.
type Bin []int

// forward neighbours, so that each unordered pair of cells is visited once
var halfNeighbourhood = [...]binKey{{1, 0}, {-1, 1}, {0, 1}, {1, 1}}

// buildBins assigns particles to grid bins of side cell.
func buildBins(bins map[binKey]Bin, ps []Particle, cell float64) {
	for k, b := range bins {
		bins[k] = b[:0]
	}
	for i := range ps {
		k := binKey{int(math.Floor(ps[i].X / cell)), int(math.Floor(ps[i].Y / cell))}
		bins[k] = append(bins[k], i)
	}
}

// eachPair calls fn once for every unordered pair (i < j) closer than radius.
func eachPair(bins map[binKey]Bin, ps []Particle, radius float64, fn func(i, j int, dist float64)) {
	visit := func(i, j int) {
		if i > j {
			i, j = j, i
		}
		dx := ps[i].X - ps[j].X
		dy := ps[i].Y - ps[j].Y
		d := math.Sqrt(dx*dx + dy*dy)
		if d < radius {
			fn(i, j, d)
		}
	}

	for k, bin := range bins {
		for a := 0; a < len(bin); a++ {
			for b := a + 1; b < len(bin); b++ {
				visit(bin[a], bin[b])
			}
		}
		for _, off := range halfNeighbourhood {
			nBin, ok := bins[binKey{k.X + off.X, k.Y + off.Y}]
			if !ok {
				continue
			}
			for _, i := range bin {
				for _, j := range nBin {
					visit(i, j)
				}
			}
		}
	}
}
