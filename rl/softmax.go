package rl

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/simrl/simenv/spaces"
)

// SoftmaxPolicy is a tabular Q-learner for discrete action spaces,
// choosing actions by softmax over the Q values of a coarse observation
// bucket.
type SoftmaxPolicy struct {
	qTable map[string][]float64
	alpha  float64
	gamma  float64
	rand   *rand.Rand
}

var _ Policy = (*SoftmaxPolicy)(nil)

func NewSoftmaxPolicy(alpha, gamma float64) *SoftmaxPolicy {
	return &SoftmaxPolicy{
		qTable: make(map[string][]float64),
		alpha:  alpha,
		gamma:  gamma,
		rand:   rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

func (p *SoftmaxPolicy) Reset() {
	p.qTable = make(map[string][]float64)
}

func (p *SoftmaxPolicy) NextAction(_ int, obs []float64, space spaces.Space) any {
	discrete, ok := space.(*spaces.Discrete)
	if !ok {
		// only discrete spaces are learnable here; sample the rest
		return space.Sample(p.rand)
	}
	values := p.values(obs, discrete.N)

	sum := 0.0
	weights := make([]float64, len(values))
	for i, v := range values {
		weights[i] = math.Exp(v)
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	choice, ok := sampleuv.NewWeighted(weights, p.rand).Take()
	if !ok {
		choice = p.rand.Intn(discrete.N)
	}
	return int64(choice)
}

func (p *SoftmaxPolicy) Update(_ int, obs []float64, action any, next []float64, reward float64) {
	choice, ok := action.(int64)
	if !ok {
		return
	}
	values := p.values(obs, 0)
	if int(choice) >= len(values) {
		return
	}
	best := 0.0
	for i, v := range p.values(next, len(values)) {
		if i == 0 || v > best {
			best = v
		}
	}
	q := values[choice]
	values[choice] = q + p.alpha*(reward+p.gamma*best-q)
}

// values returns the Q row for the observation's bucket, allocating one
// of size n when absent.
func (p *SoftmaxPolicy) values(obs []float64, n int) []float64 {
	key := bucket(obs)
	if row, ok := p.qTable[key]; ok {
		return row
	}
	row := make([]float64, n)
	p.qTable[key] = row
	return row
}

// bucket discretizes an observation to one decimal per dimension
func bucket(obs []float64) string {
	key := ""
	for _, v := range obs {
		key += fmt.Sprintf("%.1f,", v)
	}
	return key
}
