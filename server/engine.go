// Package server implements the reference simulation service the client
// talks to: a scenario registry, a table of live environments, and the
// HTTP endpoints for the six protocol operations.
package server

import (
	"fmt"
	"sort"
	"sync"

	"github.com/simrl/simenv/wire"
)

// Environment is one live simulation instance owned by the engine.
type Environment interface {
	Reset() ([]wire.Observation, error)
	Step(actions []wire.Action) ([]wire.Observation, []float64, []bool, error)
	Spaces() (action, observation *wire.SpaceDescriptor)
	Info() map[string]string
	Close() error
}

// Scenario builds environments of one kind from string configuration.
type Scenario interface {
	Name() string
	Description() string
	Spaces() (action, observation *wire.SpaceDescriptor)
	New(config map[string]string) (Environment, error)
}

// Engine holds registered scenarios and the environments created from
// them, keyed by env id.
type Engine struct {
	mu        sync.Mutex
	scenarios map[string]Scenario
	envs      map[string]Environment
}

func NewEngine() *Engine {
	return &Engine{
		scenarios: make(map[string]Scenario),
		envs:      make(map[string]Environment),
	}
}

func (e *Engine) Register(s Scenario) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenarios[s.Name()] = s
}

func (e *Engine) Scenarios() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.scenarios))
	for name := range e.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Engine) EnvIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, 0, len(e.envs))
	for id := range e.envs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Create instantiates a scenario environment under envID. Duplicate ids
// are rejected.
func (e *Engine) Create(envID, scenario string, config map[string]string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.envs[envID]; exists {
		return fmt.Errorf("environment %s already exists", envID)
	}
	s, ok := e.scenarios[scenario]
	if !ok {
		return fmt.Errorf("scenario %s not found", scenario)
	}
	env, err := s.New(config)
	if err != nil {
		return fmt.Errorf("failed to create environment: %v", err)
	}
	e.envs[envID] = env
	return nil
}

func (e *Engine) Env(envID string) (Environment, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	env, ok := e.envs[envID]
	return env, ok
}

// Spaces resolves space descriptors by scenario name first, then by live
// environment id.
func (e *Engine) Spaces(scenario, envID string) (*wire.SpacesResponse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.scenarios[scenario]; ok {
		action, observation := s.Spaces()
		return &wire.SpacesResponse{ActionSpace: action, ObservationSpace: observation}, nil
	}
	if env, ok := e.envs[envID]; ok {
		action, observation := env.Spaces()
		return &wire.SpacesResponse{ActionSpace: action, ObservationSpace: observation}, nil
	}
	return nil, fmt.Errorf("no scenario %q or environment %q", scenario, envID)
}

// Close tears down the environment and removes it from the table.
func (e *Engine) Close(envID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	env, ok := e.envs[envID]
	if !ok {
		return fmt.Errorf("environment %s not found", envID)
	}
	delete(e.envs, envID)
	return env.Close()
}
