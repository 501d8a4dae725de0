package terrain

import (
	"math"

	"terrasim/internal/rng"
)

// center is a placed continent or minor landmass seed.
type center struct {
	x, y     float64
	radiusM  float64
	strength float64
}

// belt is a placed mountain belt.
type belt struct {
	cx, cy   float64
	angle    float64
	halfLen  float64
	halfWid  float64
	peakM    float64
}

// toroidalDelta returns the signed minimal-magnitude displacement from
// a to b along one axis of length span, wrapping around the torus.
func toroidalDelta(a, b, span float64) float64 {
	d := b - a
	d = math.Mod(d, span)
	if d > span/2 {
		d -= span
	}
	if d < -span/2 {
		d += span
	}
	return d
}

// toroidalDistance is the Euclidean distance between two points on a
// W x H torus.
func toroidalDistance(ax, ay, bx, by, w, h float64) float64 {
	dx := toroidalDelta(ax, bx, w)
	dy := toroidalDelta(ay, by, h)
	return math.Hypot(dx, dy)
}

const placementAttempts = 64

// placeCenters runs Poisson-like placement: for each of count centers,
// draw up to placementAttempts uniform candidates and keep the first
// whose toroidal distance to every already-placed center exceeds
// minSepFactor*radiusM; if every attempt fails the minimum-separation
// test, keep whichever attempt maximized the minimum distance to
// existing centers.
func placeCenters(s *rng.Stream, count int, radiusM, minSepFactor, strength, w, h float64, avoid []center) []center {
	placed := make([]center, 0, count)
	existing := append([]center(nil), avoid...)

	for i := 0; i < count; i++ {
		minSep := minSepFactor * radiusM

		var best center
		bestMinDist := -1.0
		found := false

		for attempt := 0; attempt < placementAttempts; attempt++ {
			x, _ := s.Int(0, int64(w))
			y, _ := s.Int(0, int64(h))
			cx, cy := float64(x), float64(y)

			minDist := math.Inf(1)
			for _, e := range existing {
				d := toroidalDistance(cx, cy, e.x, e.y, w, h)
				if d < minDist {
					minDist = d
				}
			}
			if len(existing) == 0 {
				minDist = math.Inf(1)
			}

			if minDist > bestMinDist {
				bestMinDist = minDist
				best = center{x: cx, y: cy, radiusM: radiusM, strength: strength}
			}
			if minDist > minSep {
				found = true
				break
			}
		}
		_ = found

		placed = append(placed, best)
		existing = append(existing, best)
	}

	return placed
}

// placeMajors places the configured number of major continents.
func placeMajors(s *rng.Stream, cfg WorldConfig) []center {
	return placeCenters(s, cfg.MajorContinents, cfg.MajorRadiusM, 1.5, 1.0, cfg.WidthM, cfg.HeightM, nil)
}

// placeMinors places a random count of minor landmasses, avoiding the
// already-placed majors.
func placeMinors(countStream, placeStream *rng.Stream, cfg WorldConfig, majors []center) []center {
	n, _ := countStream.Int(int64(cfg.MinorCountMin), int64(cfg.MinorCountMax)+1)
	return placeCenters(placeStream, int(n), cfg.MinorRadiusM, 1.0, 0.6, cfg.WidthM, cfg.HeightM, majors)
}

// placeBelts places numBelts mountain belts, each anchored near a
// major continent center picked round-robin.
func placeBelts(s *rng.Stream, majors []center, numBelts int, lenRange, widRange, peakRange [2]float64) []belt {
	belts := make([]belt, 0, numBelts)
	if len(majors) == 0 {
		return belts
	}
	for i := 0; i < numBelts; i++ {
		m := majors[i%len(majors)]

		theta := s.Float() * 2 * math.Pi
		r := s.Float() * 0.6 * m.radiusM
		cx := m.x + math.Cos(theta)*r
		cy := m.y + math.Sin(theta)*r

		phi := s.Float() * math.Pi
		length := lenRange[0] + s.Float()*(lenRange[1]-lenRange[0])
		width := widRange[0] + s.Float()*(widRange[1]-widRange[0])
		peak := peakRange[0] + s.Float()*(peakRange[1]-peakRange[0])

		belts = append(belts, belt{
			cx: cx, cy: cy, angle: phi,
			halfLen: length / 2, halfWid: width / 2,
			peakM: peak,
		})
	}
	return belts
}

// smoothFalloff is the quintic smoothstep falloff used for continent
// strength: 1 at d=0, 0 at d>=R.
func smoothFalloff(d, r float64) float64 {
	if d >= r {
		return 0
	}
	t := 1 - d/r
	return (t * t * t) * (t*(t*6-15) + 10)
}

// beltMask computes the rotated elliptical cubic falloff mask for a
// belt at world point (x, y), wrapping toroidally.
func beltMask(x, y float64, b belt, w, h float64) float64 {
	dx := toroidalDelta(b.cx, x, w)
	dy := toroidalDelta(b.cy, y, h)

	cosA := math.Cos(-b.angle)
	sinA := math.Sin(-b.angle)
	along := dx*cosA - dy*sinA
	across := dx*sinA + dy*cosA

	na := along / b.halfLen
	nc := across / b.halfWid
	rho2 := na*na + nc*nc
	if rho2 >= 1 {
		return 0
	}
	t := 1 - math.Sqrt(rho2)
	return t * t * t
}
