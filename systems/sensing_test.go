package systems

import (
	"math"
	"testing"
)

const testCone = math.Pi / 3

func TestAngleDiff(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0.1, 2*math.Pi - 0.1, 0.2},
		{math.Pi, 0, math.Pi},
		{-math.Pi, 0, math.Pi},
		{0, math.Pi / 2, -math.Pi / 2},
	}
	for _, tt := range tests {
		if got := angleDiff(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("angleDiff(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

// fillRows sets every cell whose row offset from center satisfies keep to v.
func fillRows(f *ScalarField, center Cell, keep func(dj int) bool, v float64) {
	for j := 0; j < f.Res; j++ {
		dj := j - center.J
		if keep(dj) {
			for i := 0; i < f.Res; i++ {
				f.Set(Cell{i, j}, v)
			}
		}
	}
}

func TestDetectSectorsLeft(t *testing.T) {
	f := newTestField(64, 0, 1, 1, false)
	center := Cell{32, 32}
	fillRows(f, center, func(dj int) bool { return dj > 0 }, 1)

	r := DetectSectors(f, center, 0, 5, testCone)

	if r[SectorLeft] != 1 || r[SectorForward] != 0 || r[SectorRight] != 0 {
		t.Fatalf("reading = %v, want [1 0 0]", r)
	}
	if got := r.Classify(); got != RespondTurnLeft {
		t.Errorf("Classify = %v, want RespondTurnLeft", got)
	}
	if got := ScentBias(r, 0.25, testCone/2); got != 0.25 {
		t.Errorf("ScentBias = %v, want 0.25", got)
	}
	if got := ScentBias(r, 10, testCone/2); got != testCone/2 {
		t.Errorf("ScentBias not clamped: %v, want %v", got, testCone/2)
	}
}

func TestDetectSectorsRight(t *testing.T) {
	f := newTestField(64, 0, 1, 1, false)
	center := Cell{32, 32}
	fillRows(f, center, func(dj int) bool { return dj < 0 }, 1)

	r := DetectSectors(f, center, 0, 5, testCone)

	if got := r.Classify(); got != RespondTurnRight {
		t.Fatalf("Classify = %v, want RespondTurnRight (reading %v)", got, r)
	}
	if got := ScentBias(r, 0.25, testCone/2); got != -0.25 {
		t.Errorf("ScentBias = %v, want -0.25", got)
	}
}

func TestDetectSectorsFollowsHeading(t *testing.T) {
	f := newTestField(64, 0, 1, 1, false)
	center := Cell{32, 32}
	// Facing -x, the cells below the agent are on its left.
	fillRows(f, center, func(dj int) bool { return dj < 0 }, 1)

	r := DetectSectors(f, center, math.Pi, 5, testCone)

	if got := r.Classify(); got != RespondTurnLeft {
		t.Errorf("Classify = %v, want RespondTurnLeft (reading %v)", got, r)
	}
}

func TestDetectSectorsForwardOnly(t *testing.T) {
	f := newTestField(64, 0, 1, 1, false)
	center := Cell{32, 32}
	for di := 1; di < 5; di++ {
		f.Set(Cell{center.I + di, center.J}, 1)
	}

	r := DetectSectors(f, center, 0, 5, testCone)

	if r[SectorForward] != 1 || r[SectorLeft] != 0 || r[SectorRight] != 0 {
		t.Fatalf("reading = %v, want [0 1 0]", r)
	}
	if got := r.Classify(); got != RespondBlockedFwd {
		t.Errorf("Classify = %v, want RespondBlockedFwd", got)
	}
	if got := ScentBias(r, 1, testCone/2); got != 0 {
		t.Errorf("ScentBias = %v, want 0", got)
	}
}

func TestDetectSectorsEmptySectors(t *testing.T) {
	f := newTestField(16, 0, 1, 1, false)
	for i := range f.Data {
		f.Data[i] = 1
	}

	// Radius 1 only sees offsets at -135, -90 and 180 degrees, none inside the cone.
	r := DetectSectors(f, Cell{8, 8}, 0, 1, testCone)

	for s, v := range r {
		if v != 0 || math.IsNaN(v) {
			t.Errorf("sector %d = %v, want 0", s, v)
		}
	}
	if got := r.Classify(); got != RespondNone {
		t.Errorf("Classify = %v, want RespondNone", got)
	}
}

func TestDetectSectorsWraps(t *testing.T) {
	f := newTestField(32, 0, 1, 1, false)
	// Rows 1..4 are to the left when facing +x.
	for j := 1; j < 5; j++ {
		for i := 0; i < 32; i++ {
			f.Set(Cell{i, j}, 1)
		}
	}

	r := DetectSectors(f, Cell{31, 0}, 0, 4, testCone)
	if got := r.Classify(); got != RespondTurnLeft {
		t.Errorf("Classify at the grid edge = %v, want RespondTurnLeft (reading %v)", got, r)
	}
}

func TestClassifyTie(t *testing.T) {
	r := SectorReading{1, 0, 1}
	if got := r.Classify(); got != RespondNone {
		t.Errorf("Classify(%v) = %v, want RespondNone", r, got)
	}
	if got := ScentBias(r, 1, 1); got != 0 {
		t.Errorf("ScentBias on tie = %v, want 0", got)
	}
}

func TestNearestOccupied(t *testing.T) {
	f := newTestField(64, 0, 2, 2, false)
	center := Cell{10, 10}
	f.Set(Cell{13, 14}, 1) // distance 5
	f.Set(Cell{4, 10}, 1)  // distance 6

	theta, ok := NearestOccupied(f, center, 14, 50)
	if !ok {
		t.Fatal("expected a food cell in range")
	}
	if want := math.Atan2(4, 3); math.Abs(theta-want) > 1e-12 {
		t.Errorf("theta = %v, want %v", theta, want)
	}

	if _, ok := NearestOccupied(f, center, 14, 5); ok {
		t.Error("nearest cell at exactly the limit should not count")
	}
}

func TestNearestOccupiedWraps(t *testing.T) {
	f := newTestField(64, 0, 2, 2, false)
	f.Set(Cell{62, 0}, 1)

	theta, ok := NearestOccupied(f, Cell{0, 0}, 14, 50)
	if !ok {
		t.Fatal("expected wrapped food cell to be found")
	}
	if math.Abs(theta-math.Pi) > 1e-12 {
		t.Errorf("theta = %v, want pi", theta)
	}
}

func TestNearestOccupiedIgnoresCenter(t *testing.T) {
	f := newTestField(16, 0, 2, 2, false)
	f.Set(Cell{8, 8}, 1)
	if _, ok := NearestOccupied(f, Cell{8, 8}, 4, 50); ok {
		t.Error("food under the agent should not produce a steering target")
	}
}

func BenchmarkDetectSectors(b *testing.B) {
	f := newTestField(512, 0, 2, 2, false)
	for i := range f.Data {
		f.Data[i] = float64(i%5) * 0.1
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DetectSectors(f, Cell{i % 512, 100}, float64(i)*0.01, 14, testCone)
	}
}
