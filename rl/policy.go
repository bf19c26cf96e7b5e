// Package rl contains a small episode runner and policies for driving a
// client session against a remote scenario.
package rl

import (
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/simrl/simenv/spaces"
)

// Policy picks the next action from the current observation. The action
// value is handed to the session's encoder as-is.
type Policy interface {
	NextAction(step int, obs []float64, space spaces.Space) any
	Update(step int, obs []float64, action any, next []float64, reward float64)
	Reset()
}

// RandomPolicy samples the action space uniformly.
type RandomPolicy struct {
	rand *rand.Rand
}

var _ Policy = (*RandomPolicy)(nil)

func NewRandomPolicy() *RandomPolicy {
	return &RandomPolicy{
		rand: rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

// NewSeededRandomPolicy fixes the sample stream for tests.
func NewSeededRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{rand: rand.New(rand.NewSource(seed))}
}

func (p *RandomPolicy) NextAction(_ int, _ []float64, space spaces.Space) any {
	sample := space.Sample(p.rand)
	switch space.(type) {
	case *spaces.Discrete:
		return int64(sample[0])
	case *spaces.MultiDiscrete:
		out := make([]int64, len(sample))
		for i, v := range sample {
			out[i] = int64(v)
		}
		return out
	case *spaces.MultiBinary:
		out := make([]bool, len(sample))
		for i, v := range sample {
			out[i] = v != 0
		}
		return out
	}
	return sample
}

func (p *RandomPolicy) Update(int, []float64, any, []float64, float64) {}

func (p *RandomPolicy) Reset() {}

// TrackingPolicy is a noisy proportional controller for the simple
// scenario: it moves toward the target seen in the observation.
type TrackingPolicy struct {
	Gain  float64
	Noise float64
	rand  *rand.Rand
}

var _ Policy = (*TrackingPolicy)(nil)

func NewTrackingPolicy(gain, noise float64) *TrackingPolicy {
	return &TrackingPolicy{
		Gain:  gain,
		Noise: noise,
		rand:  rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

// observation layout: [current, target, step, max_steps, tolerance, reward]
func (p *TrackingPolicy) NextAction(_ int, obs []float64, _ spaces.Space) any {
	if len(obs) < 2 {
		return 0.0
	}
	diff := obs[1] - obs[0]
	action := diff * p.Gain
	if p.Noise > 0 {
		action += distuv.Normal{Mu: 0, Sigma: p.Noise, Src: p.rand}.Rand()
	}
	return action
}

func (p *TrackingPolicy) Update(int, []float64, any, []float64, float64) {}

func (p *TrackingPolicy) Reset() {}
