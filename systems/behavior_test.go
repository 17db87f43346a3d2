package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/antcolony/components"
)

func testParams() *Params {
	return &Params{
		Speed:         0.01,
		DetectRadius:  14,
		DetectAngle:   testCone,
		Sensitivity:   0.25,
		MaxTurnRate:   math.Pi * 0.05,
		ObstacleBias:  0.3,
		FoodSearchCap: 50,
		EraseRadius:   2,
		ClockMax:      1,
		ClockDecay:    0.01,
		ClockScaled:   true,
		Foraging:      true,
		Obstacles:     true,
	}
}

func testEnv(res int) *Env {
	return &Env{
		Fields: Fields{
			HomeScent: newTestField(res, 0.0017, 2, 2, false),
			FoodScent: newTestField(res, 0.0017, 2, 2, false),
			Food:      newTestField(res, 0, 2, 2, false),
			Obstacle:  newTestField(res, 0, 1, 1, false),
		},
		NestX:      0.5,
		NestY:      0.5,
		NestRadius: 0.02,
	}
}

func oneAgent(x, y, theta float64, state components.ForageState, clock float64) *Swarm {
	s := NewSwarm(1, 1)
	s.SetAgent(0, components.Agent{
		Position: components.Position{X: x, Y: y},
		Heading:  components.Heading{Theta: theta},
		Forager:  components.Forager{State: state, Clock: clock},
	})
	return s
}

func TestTriggerPickup(t *testing.T) {
	p, env := testParams(), testEnv(100)
	env.NestX, env.NestY = 0.9, 0.9
	env.Fields[Food].Set(Cell{20, 20}, 1)
	s := oneAgent(0.205, 0.205, 0.3, components.Searching, 0.4)

	s.Trigger(0, p, env)

	if s.State[0] != components.Returning {
		t.Fatalf("state = %v, want returning", s.State[0])
	}
	if want := 0.3 + math.Pi; math.Abs(s.Theta[0]-want) > 1e-12 {
		t.Errorf("theta = %v, want %v", s.Theta[0], want)
	}
	if s.Clock[0] != p.ClockMax {
		t.Errorf("clock = %v, want %v", s.Clock[0], p.ClockMax)
	}
	if got := env.Fields[Food].At(Cell{20, 20}); got != 0 {
		t.Errorf("food left = %v, want 0", got)
	}
	if s.Events[0]&EventPickup == 0 {
		t.Error("pickup event not recorded")
	}

	// Nothing more happens on the now empty cell.
	s.Trigger(0, p, env)
	if s.State[0] != components.Returning || s.Events[0] != 0 {
		t.Errorf("second trigger changed state=%v events=%v", s.State[0], s.Events[0])
	}
}

func TestTriggerNoFood(t *testing.T) {
	p, env := testParams(), testEnv(100)
	s := oneAgent(0.205, 0.205, 0.3, components.Searching, 0.4)

	s.Trigger(0, p, env)

	if s.State[0] != components.Searching || s.Theta[0] != 0.3 || s.Clock[0] != 0.4 {
		t.Errorf("agent changed without food: %+v", s.Agent(0))
	}
}

func TestTriggerDelivery(t *testing.T) {
	p, env := testParams(), testEnv(100)
	s := oneAgent(0.51, 0.5, 1.0, components.Returning, 0.2)

	s.Trigger(0, p, env)

	if s.State[0] != components.Searching {
		t.Fatalf("state = %v, want searching", s.State[0])
	}
	if want := 1.0 + math.Pi; math.Abs(s.Theta[0]-want) > 1e-12 {
		t.Errorf("theta = %v, want %v", s.Theta[0], want)
	}
	if s.Clock[0] != p.ClockMax {
		t.Errorf("clock = %v, want %v", s.Clock[0], p.ClockMax)
	}
	if s.Events[0]&EventDelivery == 0 {
		t.Error("delivery event not recorded")
	}
}

func TestTriggerSearcherInNestRefreshesClock(t *testing.T) {
	p, env := testParams(), testEnv(100)
	s := oneAgent(0.5, 0.5, 2, components.Searching, 0.3)

	s.Trigger(0, p, env)

	if s.State[0] != components.Searching || s.Theta[0] != 2 {
		t.Errorf("searcher in nest changed course: %+v", s.Agent(0))
	}
	if s.Clock[0] != p.ClockMax {
		t.Errorf("clock = %v, want %v", s.Clock[0], p.ClockMax)
	}
}

func TestTriggerHomingRing(t *testing.T) {
	p, env := testParams(), testEnv(100)
	// Outer ring is 0.02 + 14/100 around the nest.
	s := oneAgent(0.6, 0.5, 0.7, components.Returning, 0.5)

	s.Trigger(0, p, env)

	if math.Abs(s.Theta[0]-math.Pi) > 1e-12 {
		t.Errorf("theta = %v, want pi (toward the nest)", s.Theta[0])
	}
	if s.State[0] != components.Returning {
		t.Errorf("state = %v, want returning", s.State[0])
	}

	far := oneAgent(0.8, 0.5, 0.7, components.Returning, 0.5)
	far.Trigger(0, p, env)
	if far.Theta[0] != 0.7 {
		t.Errorf("agent outside the ring was redirected: theta %v", far.Theta[0])
	}
}

func TestTriggerDeliveryAcrossSeam(t *testing.T) {
	p, env := testParams(), testEnv(100)
	env.NestX, env.NestY = 0.005, 0.5
	s := oneAgent(0.995, 0.5, 0.2, components.Returning, 0.3)

	s.Trigger(0, p, env)

	if s.State[0] != components.Searching {
		t.Fatalf("state = %v, want searching", s.State[0])
	}
	if s.Events[0]&EventDelivery == 0 {
		t.Error("delivery event not recorded")
	}
}

func TestTriggerHomingAcrossSeam(t *testing.T) {
	p, env := testParams(), testEnv(100)
	env.NestX, env.NestY = 0.02, 0.5
	s := oneAgent(0.95, 0.5, 2.0, components.Returning, 0.3)

	s.Trigger(0, p, env)

	if math.Abs(s.Theta[0]) > 1e-12 {
		t.Errorf("theta = %v, want 0 (toward the nest across the seam)", s.Theta[0])
	}
}

func TestTriggerBounceIgnoresSeam(t *testing.T) {
	p, env := testParams(), testEnv(100)
	p.Bounce = true
	env.NestX, env.NestY = 0.005, 0.5
	s := oneAgent(0.995, 0.5, 0.2, components.Returning, 0.3)

	s.Trigger(0, p, env)

	if s.State[0] != components.Returning || s.Theta[0] != 0.2 {
		t.Errorf("walled agent reached the nest through the seam: state=%v theta=%v", s.State[0], s.Theta[0])
	}
}

func TestTriggerWithoutForaging(t *testing.T) {
	p, env := testParams(), testEnv(100)
	p.Foraging = false
	env.Fields[Food].Set(Cell{50, 50}, 1)
	s := oneAgent(0.505, 0.505, 0.1, components.Returning, 0.5)
	s.Bias[0] = 3

	s.Trigger(0, p, env)

	if s.Bias[0] != 0 {
		t.Errorf("bias not cleared: %v", s.Bias[0])
	}
	if s.State[0] != components.Returning || s.Theta[0] != 0.1 || s.Clock[0] != 0.5 {
		t.Errorf("non-foraging trigger changed agent: %+v", s.Agent(0))
	}
	if env.Fields[Food].At(Cell{50, 50}) != 1 {
		t.Error("non-foraging trigger consumed food")
	}
}

func TestSenseNearestFoodFallback(t *testing.T) {
	p, env := testParams(), testEnv(100)
	p.Obstacles = false
	env.Fields[Food].Set(Cell{53, 50}, 1)
	s := oneAgent(0.505, 0.505, 2.0, components.Searching, 1)

	s.Sense(0, p, env)

	if s.Theta[0] != 0 {
		t.Errorf("theta = %v, want 0 (toward the food cell)", s.Theta[0])
	}
	if s.Bias[0] != 0 {
		t.Errorf("bias = %v, want 0", s.Bias[0])
	}
}

func TestSenseFollowsScentByState(t *testing.T) {
	p, env := testParams(), testEnv(100)
	p.Obstacles = false
	center := Cell{50, 50}
	fillRows(env.Fields[FoodScent], center, func(dj int) bool { return dj > 0 }, 1)
	fillRows(env.Fields[HomeScent], center, func(dj int) bool { return dj < 0 }, 1)

	searcher := oneAgent(0.505, 0.505, 0, components.Searching, 1)
	searcher.Sense(0, p, env)
	if searcher.Bias[0] != 0.25 {
		t.Errorf("searcher bias = %v, want 0.25 (toward food scent)", searcher.Bias[0])
	}
	if searcher.Theta[0] != 0 {
		t.Errorf("searcher with a gradient should not snap, theta %v", searcher.Theta[0])
	}

	returner := oneAgent(0.505, 0.505, 0, components.Returning, 1)
	returner.Sense(0, p, env)
	if returner.Bias[0] != -0.25 {
		t.Errorf("returner bias = %v, want -0.25 (toward home scent)", returner.Bias[0])
	}
}

func TestSenseObstacleOverridesScent(t *testing.T) {
	p, env := testParams(), testEnv(100)
	center := Cell{50, 50}
	fillRows(env.Fields[FoodScent], center, func(dj int) bool { return dj > 0 }, 1)
	fillRows(env.Fields[Obstacle], center, func(dj int) bool { return dj > 0 }, 1)
	s := oneAgent(0.505, 0.505, 0, components.Searching, 1)

	s.Sense(0, p, env)

	if s.Bias[0] != -p.ObstacleBias {
		t.Errorf("bias = %v, want %v (away from obstacle)", s.Bias[0], -p.ObstacleBias)
	}
}

func TestSenseObstacleAheadEscapes(t *testing.T) {
	p, env := testParams(), testEnv(100)
	for di := 1; di < 5; di++ {
		env.Fields[Obstacle].Set(Cell{50 + di, 50}, 1)
	}
	s := oneAgent(0.505, 0.505, 0, components.Searching, 1)

	s.Sense(0, p, env)

	if s.Events[0]&EventEscape == 0 {
		t.Fatal("escape event not recorded")
	}
	if math.Abs(s.Theta[0]) > math.Pi/2 {
		t.Errorf("escape turn %v outside [-pi/2, pi/2]", s.Theta[0])
	}
}

func TestReorient(t *testing.T) {
	p := testParams()
	p.MaxTurnRate = 0
	s := oneAgent(0.5, 0.5, 1, components.Searching, 1)
	s.Bias[0] = 0.2

	s.Reorient(0, p)

	if want := 1.2; math.Abs(s.Theta[0]-want) > 1e-12 {
		t.Errorf("theta = %v, want %v", s.Theta[0], want)
	}
}

func TestReorientBounded(t *testing.T) {
	p := testParams()
	p.MaxTurnRate = 0.1
	s := oneAgent(0.5, 0.5, 0, components.Searching, 1)

	for k := 0; k < 1000; k++ {
		before := s.Theta[0]
		s.Reorient(0, p)
		if d := s.Theta[0] - before; d < -0.1-1e-12 || d > 0.1+1e-12 {
			t.Fatalf("turn %v exceeds max turn rate", d)
		}
	}
}

func TestAdvanceFree(t *testing.T) {
	p, env := testParams(), testEnv(100)
	s := oneAgent(0.5, 0.5, 0, components.Searching, 1)

	s.Advance(0, p, env)

	if math.Abs(s.X[0]-0.51) > 1e-12 || s.Y[0] != 0.5 {
		t.Errorf("position = (%v, %v), want (0.51, 0.5)", s.X[0], s.Y[0])
	}
}

func TestAdvanceRejectedByObstacle(t *testing.T) {
	p, env := testParams(), testEnv(100)
	for _, id := range []FieldID{HomeScent, FoodScent} {
		for i := range env.Fields[id].Data {
			env.Fields[id].Data[i] = 1
		}
	}
	env.Fields[Obstacle].Set(Cell{51, 50}, 1)
	s := oneAgent(0.505, 0.505, 0, components.Searching, 1)

	s.Advance(0, p, env)

	if s.X[0] != 0.505 || s.Y[0] != 0.505 {
		t.Errorf("agent moved into obstacle: (%v, %v)", s.X[0], s.Y[0])
	}
	if s.Events[0]&EventBounce == 0 {
		t.Error("bounce event not recorded")
	}
	if s.Theta[0] < -math.Pi/2 || s.Theta[0] > math.Pi/2 {
		t.Errorf("escape turn %v outside [-pi/2, pi/2]", s.Theta[0])
	}
	for _, id := range []FieldID{HomeScent, FoodScent} {
		f := env.Fields[id]
		for _, c := range []Cell{{51, 50}, {53, 50}, {50, 50}, {48, 50}, {50, 52}} {
			if got := f.At(c); got != 0 {
				t.Errorf("%v at %v = %v, want erased", id, c, got)
			}
		}
		if got := f.At(Cell{60, 60}); got != 1 {
			t.Errorf("%v far from the collision = %v, want 1", id, got)
		}
	}
}

func TestAdvanceFreesAgentInsideObstacle(t *testing.T) {
	p, env := testParams(), testEnv(100)
	env.NestX, env.NestY = 0.2, 0.2
	obstacle := env.Fields[Obstacle]
	obstacle.Set(Cell{50, 50}, 1)
	obstacle.Set(Cell{51, 50}, 1)
	s := oneAgent(0.505, 0.505, 0, components.Searching, 1)

	s.Advance(0, p, env)

	if obstacle.At(obstacle.CellOf(s.X[0], s.Y[0])) != 0 {
		t.Fatalf("agent still inside an obstacle at (%v, %v)", s.X[0], s.Y[0])
	}
	d := math.Hypot(s.X[0]-env.NestX, s.Y[0]-env.NestY)
	if math.Abs(d-env.NestRadius) > 1e-12 {
		t.Errorf("agent at distance %v from the nest, want %v", d, env.NestRadius)
	}
}

func TestAdvanceIgnoresObstaclesWhenDisabled(t *testing.T) {
	p, env := testParams(), testEnv(100)
	p.Obstacles = false
	env.Fields[Obstacle].Set(Cell{51, 50}, 1)
	s := oneAgent(0.505, 0.505, 0, components.Searching, 1)

	s.Advance(0, p, env)

	if s.X[0] == 0.505 {
		t.Error("agent blocked although obstacles are disabled")
	}
}

func TestBoundaryWrap(t *testing.T) {
	p := testParams()
	tests := []struct {
		x, y, wantX, wantY float64
	}{
		{1.02, -0.03, 0.02, 0.97},
		{0.5, 1.0, 0.5, 0},
		{-1e-18, 0.25, 0, 0.25},
	}
	for _, tt := range tests {
		s := oneAgent(tt.x, tt.y, 0.4, components.Searching, 1)
		s.Boundary(0, p)
		if math.Abs(s.X[0]-tt.wantX) > 1e-12 || math.Abs(s.Y[0]-tt.wantY) > 1e-12 {
			t.Errorf("wrap(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, s.X[0], s.Y[0], tt.wantX, tt.wantY)
		}
		if s.X[0] < 0 || s.X[0] >= 1 || s.Y[0] < 0 || s.Y[0] >= 1 {
			t.Errorf("wrap(%v, %v) left the unit torus", tt.x, tt.y)
		}
		if s.Theta[0] != 0.4 {
			t.Errorf("wrap changed heading to %v", s.Theta[0])
		}
	}
}

func TestBoundaryBounce(t *testing.T) {
	p := testParams()
	p.Bounce = true

	s := oneAgent(1.02, 0.5, 0.3, components.Searching, 1)
	s.Boundary(0, p)
	if s.X[0] >= 1 || s.X[0] < 0.999999 {
		t.Errorf("x = %v, want clamped just below 1", s.X[0])
	}
	if math.Cos(s.Theta[0]) >= 0 {
		t.Errorf("heading %v still points out of the right edge", s.Theta[0])
	}
	if math.Abs(math.Sin(s.Theta[0])-math.Sin(0.3)) > 1e-12 {
		t.Errorf("y component changed on an x bounce")
	}

	s = oneAgent(0.5, -0.01, -0.4, components.Searching, 1)
	s.Boundary(0, p)
	if s.Y[0] != 0 {
		t.Errorf("y = %v, want clamped to 0", s.Y[0])
	}
	if math.Sin(s.Theta[0]) <= 0 {
		t.Errorf("heading %v still points out of the bottom edge", s.Theta[0])
	}
}

func TestBounceAtRightEdgeStaysInLastColumn(t *testing.T) {
	p, env := testParams(), testEnv(100)
	p.Bounce = true
	p.ClockScaled = false
	s := oneAgent(0.999, 0.505, 0, components.Searching, 1)

	s.Advance(0, p, env)
	s.Boundary(0, p)
	if c := env.Fields[HomeScent].CellOf(s.X[0], s.Y[0]); c != (Cell{99, 50}) {
		t.Fatalf("cell after bounce = %v, want {99 50}", c)
	}

	s.Emit(0, p, env)
	home := env.Fields[HomeScent]
	if got := home.At(Cell{99, 50}); got != home.DepositValue {
		t.Errorf("right column = %v, want %v", got, home.DepositValue)
	}
	if got := home.At(Cell{0, 50}); got != 0 {
		t.Errorf("left column = %v, want 0", got)
	}
}

func TestBounceAtTopEdge(t *testing.T) {
	p := testParams()
	p.Bounce = true
	s := oneAgent(0.5, 1.0, 1.2, components.Searching, 1)

	s.Boundary(0, p)

	if s.Y[0] >= 1 {
		t.Errorf("y = %v, want below 1", s.Y[0])
	}
	if math.Sin(s.Theta[0]) >= 0 {
		t.Errorf("heading %v still points out of the top edge", s.Theta[0])
	}
}

func TestEmitClockScaled(t *testing.T) {
	p, env := testParams(), testEnv(100)
	s := oneAgent(0.505, 0.505, 0, components.Searching, 0.5)

	s.Emit(0, p, env)

	c := Cell{50, 50}
	if got := env.Fields[HomeScent].At(c); got != 1 {
		t.Errorf("home scent = %v, want 2*0.5", got)
	}
	if got := env.Fields[FoodScent].At(c); got != 0 {
		t.Errorf("searcher laid food scent: %v", got)
	}
	if want := 0.49; math.Abs(s.Clock[0]-want) > 1e-12 {
		t.Errorf("clock = %v, want %v", s.Clock[0], want)
	}
}

func TestEmitReturnerLaysFoodScent(t *testing.T) {
	p, env := testParams(), testEnv(100)
	s := oneAgent(0.505, 0.505, 0, components.Returning, 1)

	s.Emit(0, p, env)

	c := Cell{50, 50}
	if got := env.Fields[FoodScent].At(c); got != 2 {
		t.Errorf("food scent = %v, want 2", got)
	}
	if got := env.Fields[HomeScent].At(c); got != 0 {
		t.Errorf("returner laid home scent: %v", got)
	}
}

func TestEmitFixed(t *testing.T) {
	p, env := testParams(), testEnv(100)
	p.ClockScaled = false
	s := oneAgent(0.505, 0.505, 0, components.Searching, 0)

	s.Emit(0, p, env)

	if got := env.Fields[HomeScent].At(Cell{50, 50}); got != 2 {
		t.Errorf("home scent = %v, want fixed deposit 2", got)
	}
	if s.Clock[0] != 0 {
		t.Errorf("clock went below zero: %v", s.Clock[0])
	}
}

func TestEmitExhaustedClockDepositsNothing(t *testing.T) {
	p, env := testParams(), testEnv(100)
	s := oneAgent(0.505, 0.505, 0, components.Searching, 0)

	s.Emit(0, p, env)

	if got := env.Fields[HomeScent].Sum(); got != 0 {
		t.Errorf("exhausted agent deposited %v", got)
	}
}
