// Package simple is a one-dimensional target-tracking toy environment:
// each step adds the action value to the current value, and the episode
// ends when the current value is within tolerance of the target or the
// step budget runs out.
package simple

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/simrl/simenv/server"
	"github.com/simrl/simenv/wire"
)

const (
	defaultMaxSteps  = 100
	defaultTolerance = 0.1
)

type Scenario struct{}

var _ server.Scenario = (*Scenario)(nil)

func New() *Scenario { return &Scenario{} }

func (s *Scenario) Name() string { return "simple" }

func (s *Scenario) Description() string {
	return "one-dimensional target tracking for debugging and development"
}

func (s *Scenario) Spaces() (*wire.SpaceDescriptor, *wire.SpaceDescriptor) {
	action := &wire.SpaceDescriptor{
		Kind:  wire.KindBox,
		Shape: []int{1},
		Low:   []float64{-10},
		High:  []float64{10},
		Dtype: "float64",
	}
	observation := &wire.SpaceDescriptor{
		Kind:  wire.KindBox,
		Shape: []int{6},
		Low:   []float64{-1e6},
		High:  []float64{1e6},
		Dtype: "float64",
	}
	return action, observation
}

func (s *Scenario) New(config map[string]string) (server.Environment, error) {
	maxSteps := defaultMaxSteps
	if v, ok := config["max_steps"]; ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid max_steps %q", v)
		}
		maxSteps = parsed
	}
	tolerance := defaultTolerance
	if v, ok := config["tolerance"]; ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("invalid tolerance %q", v)
		}
		tolerance = parsed
	}
	seed := time.Now().UnixNano()
	if v, ok := config["seed"]; ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed %q", v)
		}
		seed = parsed
	}
	return &Environment{
		maxSteps:  maxSteps,
		tolerance: tolerance,
		rng:       rand.New(rand.NewSource(seed)),
	}, nil
}

type Environment struct {
	current    float64
	target     float64
	step       int
	maxSteps   int
	tolerance  float64
	lastReward float64
	rng        *rand.Rand
}

var _ server.Environment = (*Environment)(nil)

func (e *Environment) Reset() ([]wire.Observation, error) {
	e.current = 0
	e.target = e.rng.Float64()*20 - 10
	e.step = 0
	e.lastReward = 0
	return []wire.Observation{e.observation()}, nil
}

func (e *Environment) Step(actions []wire.Action) ([]wire.Observation, []float64, []bool, error) {
	if len(actions) == 0 {
		return nil, nil, nil, fmt.Errorf("no actions provided")
	}
	value, err := actions[0].Float64()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("simple scenario needs a numeric action: %v", err)
	}

	e.current += value
	e.step++

	distance := math.Abs(e.current - e.target)
	reward := -distance
	if distance <= e.tolerance {
		reward += 10
	}
	e.lastReward = reward

	done := e.step >= e.maxSteps || distance <= e.tolerance
	return []wire.Observation{e.observation()}, []float64{reward}, []bool{done}, nil
}

func (e *Environment) observation() wire.Observation {
	return wire.Observation{
		Data: []float64{
			e.current,
			e.target,
			float64(e.step),
			float64(e.maxSteps),
			e.tolerance,
			e.lastReward,
		},
		Metadata: map[string]string{
			"distance": strconv.FormatFloat(math.Abs(e.current-e.target), 'g', -1, 64),
		},
	}
}

func (e *Environment) Spaces() (*wire.SpaceDescriptor, *wire.SpaceDescriptor) {
	return (&Scenario{}).Spaces()
}

func (e *Environment) Info() map[string]string {
	return map[string]string{
		"scenario":     "simple",
		"current_step": strconv.Itoa(e.step),
		"max_steps":    strconv.Itoa(e.maxSteps),
	}
}

func (e *Environment) Close() error { return nil }
