// Package spaces holds the concrete local space objects a session builds
// from server-declared space descriptors.
package spaces

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/simrl/simenv/wire"
)

// Space is a concrete local description of valid action or observation
// values, usable without further server round-trips.
type Space interface {
	Kind() wire.SpaceKind
	// Sample draws a uniformly random point as a flat vector.
	Sample(rng *rand.Rand) []float64
	// Contains reports whether the flat vector x lies in the space.
	Contains(x []float64) bool
	String() string
}

// Box is a bounded continuous space with per-dimension bounds.
type Box struct {
	Low   []float64
	High  []float64
	Shape []int
	Dtype string
}

func (b *Box) Kind() wire.SpaceKind { return wire.KindBox }

// Size is the flat number of dimensions.
func (b *Box) Size() int {
	n := 1
	for _, d := range b.Shape {
		n *= d
	}
	return n
}

// low/high may hold one bound per dimension or a single broadcast bound
func (b *Box) bounds(i int) (float64, float64) {
	low, high := math.Inf(-1), math.Inf(1)
	if len(b.Low) > 0 {
		low = b.Low[i%len(b.Low)]
	}
	if len(b.High) > 0 {
		high = b.High[i%len(b.High)]
	}
	return low, high
}

func (b *Box) Sample(rng *rand.Rand) []float64 {
	out := make([]float64, b.Size())
	for i := range out {
		low, high := b.bounds(i)
		if math.IsInf(low, 0) || math.IsInf(high, 0) {
			// unbounded dimensions draw from a unit normal
			out[i] = distuv.Normal{Mu: 0, Sigma: 1, Src: rng}.Rand()
			continue
		}
		out[i] = distuv.Uniform{Min: low, Max: high, Src: rng}.Rand()
	}
	return out
}

func (b *Box) Contains(x []float64) bool {
	if len(x) != b.Size() {
		return false
	}
	for i, v := range x {
		low, high := b.bounds(i)
		if v < low || v > high {
			return false
		}
	}
	return true
}

func (b *Box) String() string {
	return fmt.Sprintf("Box(shape=%v, dtype=%s)", b.Shape, b.Dtype)
}

// Discrete is the space {0, 1, ..., N-1}.
type Discrete struct {
	N int
}

func (d *Discrete) Kind() wire.SpaceKind { return wire.KindDiscrete }

func (d *Discrete) Sample(rng *rand.Rand) []float64 {
	return []float64{float64(rng.Intn(d.N))}
}

func (d *Discrete) Contains(x []float64) bool {
	if len(x) != 1 {
		return false
	}
	v := x[0]
	return v == math.Trunc(v) && v >= 0 && int(v) < d.N
}

func (d *Discrete) String() string {
	return fmt.Sprintf("Discrete(%d)", d.N)
}

// MultiDiscrete is a vector of independent discrete dimensions, the i-th
// ranging over {0, ..., Nvec[i]-1}.
type MultiDiscrete struct {
	Nvec []int
}

func (m *MultiDiscrete) Kind() wire.SpaceKind { return wire.KindMultiDiscrete }

func (m *MultiDiscrete) Sample(rng *rand.Rand) []float64 {
	out := make([]float64, len(m.Nvec))
	for i, n := range m.Nvec {
		out[i] = float64(rng.Intn(n))
	}
	return out
}

func (m *MultiDiscrete) Contains(x []float64) bool {
	if len(x) != len(m.Nvec) {
		return false
	}
	for i, v := range x {
		if v != math.Trunc(v) || v < 0 || int(v) >= m.Nvec[i] {
			return false
		}
	}
	return true
}

func (m *MultiDiscrete) String() string {
	parts := make([]string, len(m.Nvec))
	for i, n := range m.Nvec {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("MultiDiscrete([%s])", strings.Join(parts, " "))
}

// MultiBinary is a fixed-shape vector of independent {0,1} dimensions.
type MultiBinary struct {
	Shape []int
}

func (m *MultiBinary) Kind() wire.SpaceKind { return wire.KindMultiBinary }

func (m *MultiBinary) Size() int {
	n := 1
	for _, d := range m.Shape {
		n *= d
	}
	return n
}

func (m *MultiBinary) Sample(rng *rand.Rand) []float64 {
	out := make([]float64, m.Size())
	for i := range out {
		out[i] = float64(rng.Intn(2))
	}
	return out
}

func (m *MultiBinary) Contains(x []float64) bool {
	if len(x) != m.Size() {
		return false
	}
	for _, v := range x {
		if v != 0 && v != 1 {
			return false
		}
	}
	return true
}

func (m *MultiBinary) String() string {
	return fmt.Sprintf("MultiBinary(%v)", m.Shape)
}
