package systems

import "math"

// Sector indices relative to heading.
const (
	SectorLeft = iota
	SectorForward
	SectorRight
	NumSectors
)

// SectorReading holds the mean field intensity seen in each sector.
type SectorReading [NumSectors]float64

// Response is the steering outcome of one sensing pass.
type Response uint8

const (
	RespondNone       Response = iota // No sector dominates
	RespondTurnLeft                   // Left sector dominates
	RespondTurnRight                  // Right sector dominates
	RespondBlockedFwd                 // Nothing dominates but the forward sector is occupied
)

// angleDiff returns the signed minimal angle from b to a, in (-pi, pi].
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d <= -math.Pi {
		d += 2 * math.Pi
	} else if d > math.Pi {
		d -= 2 * math.Pi
	}
	return d
}

// bearing returns the direction of the offset (di, dj) in radians.
func bearing(di, dj int) float64 {
	return math.Atan2(float64(dj), float64(di))
}

// DetectSectors averages f over the left, forward and right sectors of the
// sensing cone centred on heading. Offsets span [-r, r) on both axes around
// center, the centre cell itself has no bearing and is skipped. With full cone
// angle a, the left band is a/3 < δ ≤ a/2, the right band mirrors it, and the
// forward band is |δ| ≤ a/6, where δ is the signed angle from heading to the
// offset. Sectors that see no cells stay zero.
func DetectSectors(f *ScalarField, center Cell, heading float64, r int, angle float64) SectorReading {
	var sum SectorReading
	var count [NumSectors]int

	sideLo, sideHi, fwd := angle/3, angle/2, angle/6
	for dj := -r; dj < r; dj++ {
		for di := -r; di < r; di++ {
			if di == 0 && dj == 0 {
				continue
			}
			d := angleDiff(bearing(di, dj), heading)
			var s int
			switch {
			case d > sideLo && d <= sideHi:
				s = SectorLeft
			case -d > sideLo && -d <= sideHi:
				s = SectorRight
			case math.Abs(d) <= fwd:
				s = SectorForward
			default:
				continue
			}
			sum[s] += f.At(Cell{I: center.I + di, J: center.J + dj})
			count[s]++
		}
	}

	for s := range sum {
		if count[s] != 0 {
			sum[s] /= float64(count[s])
		}
	}
	return sum
}

// Classify applies the three-way decision rule to a reading.
func (r SectorReading) Classify() Response {
	l, f, rt := r[SectorLeft], r[SectorForward], r[SectorRight]
	switch {
	case l > math.Max(f, rt):
		return RespondTurnLeft
	case rt > math.Max(f, l):
		return RespondTurnRight
	case f > 0:
		return RespondBlockedFwd
	default:
		return RespondNone
	}
}

// ScentBias is the smooth, sensitivity-scaled turn toward the stronger side,
// clamped to half the sensing cone. It is zero when no side dominates.
func ScentBias(r SectorReading, sensitivity, halfAngle float64) float64 {
	switch r.Classify() {
	case RespondTurnLeft:
		return math.Min(sensitivity*(r[SectorLeft]-r[SectorRight]), halfAngle)
	case RespondTurnRight:
		return -math.Min(sensitivity*(r[SectorRight]-r[SectorLeft]), halfAngle)
	default:
		return 0
	}
}

// NearestOccupied scans offsets in [-r, r)² around center for the closest cell
// with a positive value. It reports the bearing toward that cell and whether one
// was found strictly closer than limit cells.
func NearestOccupied(f *ScalarField, center Cell, r int, limit float64) (float64, bool) {
	best := math.Inf(1)
	bi, bj := 0, 0
	for dj := -r; dj < r; dj++ {
		for di := -r; di < r; di++ {
			if f.At(Cell{I: center.I + di, J: center.J + dj}) <= 0 {
				continue
			}
			d := math.Hypot(float64(di), float64(dj))
			if d < best {
				best, bi, bj = d, di, dj
			}
		}
	}
	if best >= limit {
		return 0, false
	}
	if bi == 0 && bj == 0 {
		// Standing on food is handled by the state trigger, not by steering.
		return 0, false
	}
	return bearing(bi, bj), true
}
