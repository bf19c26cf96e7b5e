// Package cartpole is the classic pole-balancing control environment
// with the CartPole-v1 physics constants. Its action space is
// Discrete(2), which makes it the service's exercise of the discrete
// decode path.
package cartpole

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
	gravity        = 9.8
	massCart       = 1.0
	massPole       = 0.1
	totalMass      = massCart + massPole
	halfPoleLength = 0.5
	poleMassLength = massPole * halfPoleLength
	forceMag       = 10.0
	tau            = 0.02

	thetaThreshold = 12 * 2 * math.Pi / 360
	xThreshold     = 2.4

	defaultMaxSteps = 500
)

type Scenario struct{}

var _ server.Scenario = (*Scenario)(nil)

func New() *Scenario { return &Scenario{} }

func (s *Scenario) Name() string { return "cartpole" }

func (s *Scenario) Description() string {
	return "classic pole balancing with left/right force actions"
}

func (s *Scenario) Spaces() (*wire.SpaceDescriptor, *wire.SpaceDescriptor) {
	action := &wire.SpaceDescriptor{
		Kind:  wire.KindDiscrete,
		Shape: []int{2},
	}
	high := []float64{xThreshold * 2, math.MaxFloat32, thetaThreshold * 2, math.MaxFloat32}
	low := []float64{-high[0], -high[1], -high[2], -high[3]}
	observation := &wire.SpaceDescriptor{
		Kind:  wire.KindBox,
		Shape: []int{4},
		Low:   low,
		High:  high,
		Dtype: "float32",
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
	seed := time.Now().UnixNano()
	if v, ok := config["seed"]; ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed %q", v)
		}
		seed = parsed
	}
	return &Environment{
		maxSteps: maxSteps,
		rng:      rand.New(rand.NewSource(seed)),
	}, nil
}

type Environment struct {
	x        float64
	xDot     float64
	theta    float64
	thetaDot float64

	step     int
	maxSteps int
	rng      *rand.Rand
}

var _ server.Environment = (*Environment)(nil)

func (e *Environment) Reset() ([]wire.Observation, error) {
	e.x = e.uniform()
	e.xDot = e.uniform()
	e.theta = e.uniform()
	e.thetaDot = e.uniform()
	e.step = 0
	return []wire.Observation{e.observation()}, nil
}

// small initial perturbation in [-0.05, 0.05]
func (e *Environment) uniform() float64 {
	return e.rng.Float64()*0.1 - 0.05
}

func (e *Environment) Step(actions []wire.Action) ([]wire.Observation, []float64, []bool, error) {
	if len(actions) == 0 {
		return nil, nil, nil, fmt.Errorf("no actions provided")
	}
	choice, err := actions[0].Int64()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cartpole needs a discrete action: %v", err)
	}
	if choice != 0 && choice != 1 {
		return nil, nil, nil, fmt.Errorf("cartpole action must be 0 or 1, got %d", choice)
	}

	force := -forceMag
	if choice == 1 {
		force = forceMag
	}

	cosTheta := math.Cos(e.theta)
	sinTheta := math.Sin(e.theta)
	temp := (force + poleMassLength*e.thetaDot*e.thetaDot*sinTheta) / totalMass
	thetaAcc := (gravity*sinTheta - cosTheta*temp) /
		(halfPoleLength * (4.0/3.0 - massPole*cosTheta*cosTheta/totalMass))
	xAcc := temp - poleMassLength*thetaAcc*cosTheta/totalMass

	e.x += tau * e.xDot
	e.xDot += tau * xAcc
	e.theta += tau * e.thetaDot
	e.thetaDot += tau * thetaAcc
	e.step++

	fell := math.Abs(e.x) > xThreshold || math.Abs(e.theta) > thetaThreshold
	done := fell || e.step >= e.maxSteps
	return []wire.Observation{e.observation()}, []float64{1}, []bool{done}, nil
}

func (e *Environment) observation() wire.Observation {
	return wire.Observation{
		Data: []float64{e.x, e.xDot, e.theta, e.thetaDot},
	}
}

func (e *Environment) Spaces() (*wire.SpaceDescriptor, *wire.SpaceDescriptor) {
	return (&Scenario{}).Spaces()
}

func (e *Environment) Info() map[string]string {
	return map[string]string{
		"scenario":     "cartpole",
		"current_step": strconv.Itoa(e.step),
		"max_steps":    strconv.Itoa(e.maxSteps),
	}
}

func (e *Environment) Close() error { return nil }
