package systems

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Maze returns a fixed wall layout for a res×res grid as a row-major mask.
//
// The layout is a pure function of res: a border frame plus a set of
// corridors laid out on a 5×5 lattice of res/5 cells, with walls res/25 cells
// thick. Wall coordinates wrap, so the frame straddles the grid edges.
func Maze(res int) []bool {
	mask := make([]bool, res*res)
	if res <= 0 {
		return mask
	}
	set := func(i, j int) {
		mask[modInt(j, res)*res+modInt(i, res)] = true
	}

	half := max(1, res/50)
	u := res / 5
	for t := -half; t < half; t++ {
		// Frame
		for k := 0; k < res; k++ {
			set(t, k)
			set(k, t)
		}
		// Long verticals and the top rail
		for k := u; k < 5*u; k++ {
			set(t+4*u, k)
		}
		for k := u; k < 4*u; k++ {
			set(t+u, k)
			set(k, t+4*u)
		}
		// Inner baffles
		for k := u; k < 2*u; k++ {
			set(k, t+u)
			set(k+2*u, t+u)
			set(k+u, t+2*u)
			set(k+u, t+3*u)
			set(t+3*u, k+2*u)
			set(t+3*u, k+u)
		}
	}
	return mask
}

// FoodPatches returns a row-major mask of cells whose normalized simplex noise
// exceeds threshold. scale is the number of noise periods across the domain.
// The result depends only on its arguments.
func FoodPatches(res int, seed int64, scale, threshold float64) []bool {
	mask := make([]bool, res*res)
	noise := opensimplex.NewNormalized(seed)
	for j := 0; j < res; j++ {
		y := (float64(j) + 0.5) / float64(res) * scale
		for i := 0; i < res; i++ {
			x := (float64(i) + 0.5) / float64(res) * scale
			if noise.Eval2(x, y) > threshold {
				mask[j*res+i] = true
			}
		}
	}
	return mask
}

// Stamp sets value on every cell of f selected by mask.
func (f *ScalarField) Stamp(mask []bool, value float64) int {
	n := 0
	for i, on := range mask {
		if on && i < len(f.Data) {
			f.Data[i] = value
			n++
		}
	}
	return n
}
