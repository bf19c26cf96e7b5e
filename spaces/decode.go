package spaces

import (
	"log"

	"github.com/simrl/simenv/wire"
)

// Fallback returns the safe default space used when a descriptor cannot
// be decoded: a single continuous dimension bounded by [-1, 1].
func Fallback() *Box {
	return &Box{
		Low:   []float64{-1},
		High:  []float64{1},
		Shape: []int{1},
		Dtype: "float32",
	}
}

// Decode converts a server-declared space descriptor into a concrete
// space. It never fails: a malformed or unrecognized descriptor yields
// the fallback space so the caller can still attempt interaction.
func Decode(desc *wire.SpaceDescriptor) Space {
	if desc == nil {
		log.Printf("spaces: nil descriptor, using fallback %s", Fallback())
		return Fallback()
	}
	switch desc.Kind {
	case wire.KindBox:
		dtype := desc.Dtype
		if dtype == "" {
			dtype = "float32"
		}
		low := make([]float64, len(desc.Low))
		copy(low, desc.Low)
		high := make([]float64, len(desc.High))
		copy(high, desc.High)
		shape := make([]int, len(desc.Shape))
		copy(shape, desc.Shape)
		if len(shape) == 0 {
			shape = []int{1}
		}
		return &Box{Low: low, High: high, Shape: shape, Dtype: dtype}
	case wire.KindDiscrete:
		// cardinality defaults to 2 when shape is missing
		n := 2
		if len(desc.Shape) > 0 && desc.Shape[0] > 0 {
			n = desc.Shape[0]
		}
		return &Discrete{N: n}
	case wire.KindMultiDiscrete:
		nvec := make([]int, len(desc.Shape))
		copy(nvec, desc.Shape)
		return &MultiDiscrete{Nvec: nvec}
	case wire.KindMultiBinary:
		shape := make([]int, len(desc.Shape))
		copy(shape, desc.Shape)
		return &MultiBinary{Shape: shape}
	default:
		log.Printf("spaces: unknown space kind %q, using fallback %s", desc.Kind, Fallback())
		return Fallback()
	}
}
