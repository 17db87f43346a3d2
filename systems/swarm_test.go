package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/antcolony/components"
)

func TestSwarmRandDeterministic(t *testing.T) {
	a, b := NewSwarm(10, 42), NewSwarm(10, 42)
	c := NewSwarm(10, 43)

	same := true
	for k := 0; k < 100; k++ {
		for i := 0; i < 10; i++ {
			va, vb, vc := a.Rand(i), b.Rand(i), c.Rand(i)
			if va != vb {
				t.Fatalf("agent %d draw %d: %v != %v with equal seeds", i, k, va, vb)
			}
			if va < 0 || va >= 1 {
				t.Fatalf("Rand out of range: %v", va)
			}
			if va != vc {
				same = false
			}
		}
	}
	if same {
		t.Error("different seeds produced identical streams")
	}
}

func TestSwarmStreamsIndependentOfOrder(t *testing.T) {
	a, b := NewSwarm(4, 9), NewSwarm(4, 9)
	// Drawing agent 3 first must not change agent 0's stream.
	b.Rand(3)
	b.Rand(3)
	if a.Rand(0) != b.Rand(0) {
		t.Error("agent streams are coupled")
	}
}

func TestSeedRing(t *testing.T) {
	s := NewSwarm(200, 5)
	s.SeedRing(0.5, 0.5, 0.02, 1)

	for i := 0; i < s.Len(); i++ {
		d := math.Hypot(s.X[i]-0.5, s.Y[i]-0.5)
		if math.Abs(d-0.02) > 1e-12 {
			t.Fatalf("agent %d at distance %v, want 0.02", i, d)
		}
		if s.State[i] != components.Searching {
			t.Errorf("agent %d state = %v, want searching", i, s.State[i])
		}
		if s.Clock[i] != 1 {
			t.Errorf("agent %d clock = %v, want 1", i, s.Clock[i])
		}
	}
}

func TestSeedRingWrapsAtSeam(t *testing.T) {
	s := NewSwarm(200, 5)
	s.SeedRing(0.005, 0.995, 0.02, 1)

	for i := 0; i < s.Len(); i++ {
		if s.X[i] < 0 || s.X[i] >= 1 || s.Y[i] < 0 || s.Y[i] >= 1 {
			t.Fatalf("agent %d at (%v, %v) outside the domain", i, s.X[i], s.Y[i])
		}
		dx, dy := s.X[i]-0.005, s.Y[i]-0.995
		dx -= math.Round(dx)
		dy -= math.Round(dy)
		if d := math.Hypot(dx, dy); math.Abs(d-0.02) > 1e-9 {
			t.Fatalf("agent %d at wrapped distance %v, want 0.02", i, d)
		}
	}
}

func TestSeedDisk(t *testing.T) {
	s := NewSwarm(101, 5)
	s.SeedDisk(0.5, 0.5, 0.2, 1)

	returning := 0
	for i := 0; i < s.Len(); i++ {
		if d := math.Hypot(s.X[i]-0.5, s.Y[i]-0.5); d > 0.2+1e-12 {
			t.Fatalf("agent %d outside the disk: %v", i, d)
		}
		if s.State[i] == components.Returning {
			returning++
			if i >= 50 {
				t.Errorf("agent %d in the second half starts returning", i)
			}
		}
	}
	if returning != 50 {
		t.Errorf("returning = %d, want 50", returning)
	}
}

func TestAgentRoundTrip(t *testing.T) {
	s := NewSwarm(3, 1)
	want := components.Agent{
		Position: components.Position{X: 0.25, Y: 0.75},
		Heading:  components.Heading{Theta: 1.5},
		Forager:  components.Forager{State: components.Returning, Clock: 0.4},
	}
	s.SetAgent(1, want)
	if got := s.Agent(1); got != want {
		t.Errorf("Agent(1) = %+v, want %+v", got, want)
	}
}
