package systems

import (
	"math"
	"sync/atomic"
	"unsafe"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/antcolony/config"
)

// FieldID names one of the colony's grids.
type FieldID uint8

const (
	HomeScent FieldID = iota // Laid by searchers, followed by returners
	FoodScent                // Laid by returners, followed by searchers
	Food                     // Food units remaining per cell
	Obstacle                 // Nonzero cells block movement
	NumFields
)

func (id FieldID) String() string {
	switch id {
	case HomeScent:
		return "home_scent"
	case FoodScent:
		return "food_scent"
	case Food:
		return "food"
	case Obstacle:
		return "obstacle"
	default:
		return "unknown"
	}
}

// Cell is an integer grid coordinate. I indexes x, J indexes y.
type Cell struct {
	I, J int
}

// ScalarField is a square toroidal grid of bounded intensities.
//
// Every neighbour access wraps around the grid edges. Single-cell operations
// (At, Deposit, ConsumeOne, Set) are atomic, so kernels running on several
// workers may touch the same field without locks. Bulk operations (Decay, Reset,
// Paint, Blur) must not run concurrently with anything else on the field.
type ScalarField struct {
	Res  int
	Data []float64 // row-major, Data[j*Res+i]

	DecayRate    float64
	DepositValue float64
	MaxValue     float64
	Additive     bool

	// Scratch buffer for blur
	tmp []float64
}

// NewScalarField creates a zeroed field from validated parameters.
func NewScalarField(res int, fc config.FieldConfig) *ScalarField {
	return &ScalarField{
		Res:          res,
		Data:         make([]float64, res*res),
		DecayRate:    fc.DecayRate,
		DepositValue: fc.DepositValue,
		MaxValue:     fc.MaxValue,
		Additive:     fc.Deposit == config.DepositAdditive,
	}
}

// CellOf maps a domain position to its grid cell, wrapping out-of-range values.
func (f *ScalarField) CellOf(x, y float64) Cell {
	res := float64(f.Res)
	return f.Wrap(Cell{I: int(math.Floor(x * res)), J: int(math.Floor(y * res))})
}

// Wrap folds a cell coordinate onto the grid.
func (f *ScalarField) Wrap(c Cell) Cell {
	return Cell{I: modInt(c.I, f.Res), J: modInt(c.J, f.Res)}
}

func (f *ScalarField) index(c Cell) int {
	c = f.Wrap(c)
	return c.J*f.Res + c.I
}

func (f *ScalarField) bits(i int) *uint64 {
	return (*uint64)(unsafe.Pointer(&f.Data[i]))
}

func (f *ScalarField) load(i int) float64 {
	return math.Float64frombits(atomic.LoadUint64(f.bits(i)))
}

func (f *ScalarField) store(i int, v float64) {
	atomic.StoreUint64(f.bits(i), math.Float64bits(v))
}

// At returns the value at a (wrapped) cell.
func (f *ScalarField) At(c Cell) float64 {
	return f.load(f.index(c))
}

// Set stores v at a (wrapped) cell without clamping.
func (f *ScalarField) Set(c Cell, v float64) {
	f.store(f.index(c), v)
}

// Reset zeroes all cells.
func (f *ScalarField) Reset() {
	clear(f.Data)
}

// Decay lowers every cell by DecayRate, flooring at zero.
func (f *ScalarField) Decay() {
	if f.DecayRate == 0 {
		return
	}
	floats.AddConst(-f.DecayRate, f.Data)
	for i, v := range f.Data {
		if v < 0 {
			f.Data[i] = 0
		}
	}
}

// Deposit writes value into a cell.
//
// In saturating mode the cell is set to value (capped at MaxValue) only while it
// is below MaxValue; repeated deposits never accumulate. In additive mode value is
// added with a CAS loop and the sum is capped at MaxValue.
func (f *ScalarField) Deposit(c Cell, value float64) {
	if value <= 0 {
		return
	}
	i := f.index(c)
	p := f.bits(i)
	for {
		oldBits := atomic.LoadUint64(p)
		old := math.Float64frombits(oldBits)
		if old >= f.MaxValue {
			return
		}
		next := value
		if f.Additive {
			next = old + value
		}
		if next > f.MaxValue {
			next = f.MaxValue
		}
		if atomic.CompareAndSwapUint64(p, oldBits, math.Float64bits(next)) {
			return
		}
	}
}

// ConsumeOne takes a single unit from a cell. It reports false, leaving the
// cell untouched, when the cell is already empty.
func (f *ScalarField) ConsumeOne(c Cell) bool {
	p := f.bits(f.index(c))
	for {
		oldBits := atomic.LoadUint64(p)
		old := math.Float64frombits(oldBits)
		if old <= 0 {
			return false
		}
		next := old - 1
		if next < 0 {
			next = 0
		}
		if atomic.CompareAndSwapUint64(p, oldBits, math.Float64bits(next)) {
			return true
		}
	}
}

// Paint sets every cell within Euclidean radius of center to value.
func (f *ScalarField) Paint(center Cell, radius, value float64) {
	f.disc(center, radius, value)
}

// EraseArea zeroes every cell within Euclidean radius of center.
func (f *ScalarField) EraseArea(center Cell, radius float64) {
	f.disc(center, radius, 0)
}

func (f *ScalarField) disc(center Cell, radius, value float64) {
	if radius < 0 {
		return
	}
	r := int(math.Floor(radius))
	r2 := radius * radius
	for dj := -r; dj <= r; dj++ {
		for di := -r; di <= r; di++ {
			if float64(di*di+dj*dj) > r2 {
				continue
			}
			f.store(f.index(Cell{I: center.I + di, J: center.J + dj}), value)
		}
	}
}

// Blur applies a 5-point box filter on the toroidal grid.
func (f *ScalarField) Blur() {
	if f.tmp == nil {
		f.tmp = make([]float64, len(f.Data))
	}
	n := f.Res
	src, dst := f.Data, f.tmp
	for j := 0; j < n; j++ {
		jN := modInt(j-1, n)
		jS := modInt(j+1, n)
		for i := 0; i < n; i++ {
			iW := modInt(i-1, n)
			iE := modInt(i+1, n)
			dst[j*n+i] = (src[j*n+i] + src[jN*n+i] + src[jS*n+i] + src[j*n+iW] + src[j*n+iE]) / 5
		}
	}
	copy(f.Data, dst)
}

// Sum returns the total intensity over the grid.
func (f *ScalarField) Sum() float64 {
	return floats.Sum(f.Data)
}

// Max returns the largest cell value.
func (f *ScalarField) Max() float64 {
	return floats.Max(f.Data)
}

// CountPositive returns how many cells hold a value above zero.
func (f *ScalarField) CountPositive() int {
	n := 0
	for _, v := range f.Data {
		if v > 0 {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of the grid.
func (f *ScalarField) Snapshot() []float64 {
	out := make([]float64, len(f.Data))
	copy(out, f.Data)
	return out
}

// Fields groups the colony's grids by FieldID.
type Fields [NumFields]*ScalarField

// NewFields allocates all grids from config.
func NewFields(cfg *config.Config) Fields {
	res := cfg.World.Resolution
	return Fields{
		HomeScent: NewScalarField(res, cfg.Fields.HomeScent),
		FoodScent: NewScalarField(res, cfg.Fields.FoodScent),
		Food:      NewScalarField(res, cfg.Fields.Food),
		Obstacle:  NewScalarField(res, cfg.Fields.Obstacle),
	}
}

// Reset zeroes every grid.
func (fs Fields) Reset() {
	for _, f := range fs {
		f.Reset()
	}
}

func modInt(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
