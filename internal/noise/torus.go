package noise

import (
	"math"

	"terrasim/internal/rng"
)

// TorusNoise embeds 2D toroidal world coordinates onto a 4-torus
// before sampling Simplex4D, guaranteeing noise(0,y) == noise(W,y) and
// noise(x,0) == noise(x,H) bit-exactly modulo floating-point trig.
type TorusNoise struct {
	simplex *Simplex4D
	seed    uint32
	widthM  float64
	heightM float64
}

// NewTorusNoise builds a torus-embedded noise source over a world of
// size widthM x heightM, seeded by seed.
func NewTorusNoise(seed uint32, widthM, heightM float64) *TorusNoise {
	return &TorusNoise{
		simplex: NewSimplex4D(seed),
		seed:    seed,
		widthM:  widthM,
		heightM: heightM,
	}
}

// Sample returns a single-octave noise value at world meters (xM, yM)
// for the given spatial frequency (cycles per meter). Coordinates are
// first wrapped into [0, widthM) x [0, heightM), so points one world
// period apart sample identical angles.
func (t *TorusNoise) Sample(xM, yM, frequency float64) float64 {
	xM = math.Mod(xM, t.widthM)
	if xM < 0 {
		xM += t.widthM
	}
	yM = math.Mod(yM, t.heightM)
	if yM < 0 {
		yM += t.heightM
	}
	angleX := 2 * math.Pi * xM / t.widthM
	angleY := 2 * math.Pi * yM / t.heightM
	radius := frequency * t.widthM / (2 * math.Pi)

	x := radius * math.Cos(angleX)
	y := radius * math.Sin(angleX)
	z := radius * math.Cos(angleY)
	w := radius * math.Sin(angleY)
	return t.simplex.Noise(x, y, z, w)
}

// DeriveTorusNoise clones base's seed combined with hash(label) so
// independent terrain roles (continent, warp, ridge, ...) get
// uncorrelated but equally seamless noise layers.
func DeriveTorusNoise(base *TorusNoise, label string) *TorusNoise {
	seed := rng.CombineSeed(base.seed, rng.SeedFromString(label))
	return NewTorusNoise(seed, base.widthM, base.heightM)
}

// Fbm sums octaves octaves of noise at base frequency f0, each
// successive octave at lambda times the prior frequency and
// persistence p times the prior amplitude, normalized by the sum of
// amplitude weights used.
func (t *TorusNoise) Fbm(xM, yM, f0 float64, octaves int, lambda, persistence float64) float64 {
	sum := 0.0
	norm := 0.0
	amp := 1.0
	freq := f0
	for i := 0; i < octaves; i++ {
		sum += amp * t.Sample(xM, yM, freq)
		norm += amp
		amp *= persistence
		freq *= lambda
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// FbmDefault calls Fbm with the reference defaults lambda=2, p=0.5.
func (t *TorusNoise) FbmDefault(xM, yM, f0 float64, octaves int) float64 {
	return t.Fbm(xM, yM, f0, octaves, 2, 0.5)
}

// Ridged sums octaves octaves of ridged-multifractal noise: each
// octave sample s is replaced by (1-|s|)^2 before summation, using the
// same lambda/persistence normalization as Fbm.
func (t *TorusNoise) Ridged(xM, yM, f0 float64, octaves int, lambda, persistence float64) float64 {
	sum := 0.0
	norm := 0.0
	amp := 1.0
	freq := f0
	for i := 0; i < octaves; i++ {
		s := t.Sample(xM, yM, freq)
		r := 1 - math.Abs(s)
		sum += amp * (r * r)
		norm += amp
		amp *= persistence
		freq *= lambda
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// RidgedDefault calls Ridged with the reference defaults lambda=2, p=0.5.
func (t *TorusNoise) RidgedDefault(xM, yM, f0 float64, octaves int) float64 {
	return t.Ridged(xM, yM, f0, octaves, 2, 0.5)
}
