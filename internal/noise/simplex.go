// Package noise implements the seeded 4D simplex noise kernel and its
// toroidal embedding, plus the fBm/ridged octave combinators built on
// top of it. A 2D toroidal coordinate is lifted onto a 4-torus so that
// noise sampled at the world's edges matches bit-for-bit (modulo
// floating point trig) the noise sampled at the opposite edge.
package noise

import (
	"math"

	"terrasim/internal/rng"
)

// Simplex4D is a seeded 4D simplex noise generator. Construction is
// deterministic: the permutation table is built by a Fisher-Yates
// shuffle of the identity permutation driven by the seed's own
// Mulberry32 stream, so two generators built from the same seed always
// produce the same table.
type Simplex4D struct {
	perm [512]int
}

// gradient4 lists the 32 gradient vectors formed from the 4D hypercube
// corners with exactly one zero component.
var gradient4 = [32][4]int{
	{0, 1, 1, 1}, {0, 1, 1, -1}, {0, 1, -1, 1}, {0, 1, -1, -1},
	{0, -1, 1, 1}, {0, -1, 1, -1}, {0, -1, -1, 1}, {0, -1, -1, -1},
	{1, 0, 1, 1}, {1, 0, 1, -1}, {1, 0, -1, 1}, {1, 0, -1, -1},
	{-1, 0, 1, 1}, {-1, 0, 1, -1}, {-1, 0, -1, 1}, {-1, 0, -1, -1},
	{1, 1, 0, 1}, {1, 1, 0, -1}, {1, -1, 0, 1}, {1, -1, 0, -1},
	{-1, 1, 0, 1}, {-1, 1, 0, -1}, {-1, -1, 0, 1}, {-1, -1, 0, -1},
	{1, 1, 1, 0}, {1, 1, -1, 0}, {1, -1, 1, 0}, {1, -1, -1, 0},
	{-1, 1, 1, 0}, {-1, 1, -1, 0}, {-1, -1, 1, 0}, {-1, -1, -1, 0},
}

// NewSimplex4D builds the permutation table from seed using the
// package's own PRNG primitive so the table is reproducible without
// importing math/rand.
func NewSimplex4D(seed uint32) *Simplex4D {
	s := &Simplex4D{}
	var p [256]int
	for i := range p {
		p[i] = i
	}
	state := seed
	var out uint32
	for i := 255; i > 0; i-- {
		state, out = rng.NextUint32(state)
		j := int(out) % (i + 1)
		if j < 0 {
			j += i + 1
		}
		p[i], p[j] = p[j], p[i]
	}
	for i := 0; i < 512; i++ {
		s.perm[i] = p[i&255]
	}
	return s
}

const (
	f4 = 0.30901699437494745 // (sqrt(5)-1)/4
	g4 = 0.1381966011250105  // (5-sqrt(5))/20
)

// Noise returns a 4D simplex noise sample, approximately in [-1, 1].
func (s *Simplex4D) Noise(x, y, z, w float64) float64 {
	sum := (x + y + z + w) * f4
	i := math.Floor(x + sum)
	j := math.Floor(y + sum)
	k := math.Floor(z + sum)
	l := math.Floor(w + sum)

	t := (i + j + k + l) * g4
	x0 := x - (i - t)
	y0 := y - (j - t)
	z0 := z - (k - t)
	w0 := w - (l - t)

	rankx, ranky, rankz, rankw := 0, 0, 0, 0
	if x0 > y0 {
		rankx++
	} else {
		ranky++
	}
	if x0 > z0 {
		rankx++
	} else {
		rankz++
	}
	if x0 > w0 {
		rankx++
	} else {
		rankw++
	}
	if y0 > z0 {
		ranky++
	} else {
		rankz++
	}
	if y0 > w0 {
		ranky++
	} else {
		rankw++
	}
	if z0 > w0 {
		rankz++
	} else {
		rankw++
	}

	i1 := b2i(rankx >= 3)
	j1 := b2i(ranky >= 3)
	k1 := b2i(rankz >= 3)
	l1 := b2i(rankw >= 3)

	i2 := b2i(rankx >= 2)
	j2 := b2i(ranky >= 2)
	k2 := b2i(rankz >= 2)
	l2 := b2i(rankw >= 2)

	i3 := b2i(rankx >= 1)
	j3 := b2i(ranky >= 1)
	k3 := b2i(rankz >= 1)
	l3 := b2i(rankw >= 1)

	x1 := x0 - float64(i1) + g4
	y1 := y0 - float64(j1) + g4
	z1 := z0 - float64(k1) + g4
	w1 := w0 - float64(l1) + g4
	x2 := x0 - float64(i2) + 2*g4
	y2 := y0 - float64(j2) + 2*g4
	z2 := z0 - float64(k2) + 2*g4
	w2 := w0 - float64(l2) + 2*g4
	x3 := x0 - float64(i3) + 3*g4
	y3 := y0 - float64(j3) + 3*g4
	z3 := z0 - float64(k3) + 3*g4
	w3 := w0 - float64(l3) + 3*g4
	x4 := x0 - 1 + 4*g4
	y4 := y0 - 1 + 4*g4
	z4 := z0 - 1 + 4*g4
	w4 := w0 - 1 + 4*g4

	ii := int(i) & 255
	jj := int(j) & 255
	kk := int(k) & 255
	ll := int(l) & 255

	gi0 := s.gradIndex(ii, jj, kk, ll)
	gi1 := s.gradIndex(ii+i1, jj+j1, kk+k1, ll+l1)
	gi2 := s.gradIndex(ii+i2, jj+j2, kk+k2, ll+l2)
	gi3 := s.gradIndex(ii+i3, jj+j3, kk+k3, ll+l3)
	gi4 := s.gradIndex(ii+1, jj+1, kk+1, ll+1)

	n0 := corner(x0, y0, z0, w0, gi0)
	n1 := corner(x1, y1, z1, w1, gi1)
	n2 := corner(x2, y2, z2, w2, gi2)
	n3 := corner(x3, y3, z3, w3, gi3)
	n4 := corner(x4, y4, z4, w4, gi4)

	return 27 * (n0 + n1 + n2 + n3 + n4)
}

func (s *Simplex4D) gradIndex(i, j, k, l int) int {
	idx := s.perm[(i&255+s.perm[(j&255+s.perm[(k&255+s.perm[l&255])&511])&511])&511]
	return idx % 32
}

func corner(x, y, z, w float64, gi int) float64 {
	t := 0.6 - x*x - y*y - z*z - w*w
	if t < 0 {
		return 0
	}
	t *= t
	g := gradient4[gi]
	dot := float64(g[0])*x + float64(g[1])*y + float64(g[2])*z + float64(g[3])*w
	return t * t * dot
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
