package wire

// SpaceKind tags a space descriptor.
type SpaceKind string

const (
	KindBox           SpaceKind = "BOX"
	KindDiscrete      SpaceKind = "DISCRETE"
	KindMultiDiscrete SpaceKind = "MULTI_DISCRETE"
	KindMultiBinary   SpaceKind = "MULTI_BINARY"
)

// SpaceDescriptor is the abstract, kind-tagged description of valid
// action or observation values a scenario exchanges before stepping.
// Low and High are only meaningful for BOX. For DISCRETE the first
// element of Shape is the cardinality.
type SpaceDescriptor struct {
	Kind  SpaceKind `json:"kind"`
	Shape []int     `json:"shape,omitempty"`
	Low   []float64 `json:"low,omitempty"`
	High  []float64 `json:"high,omitempty"`
	Dtype string    `json:"dtype,omitempty"`
}
