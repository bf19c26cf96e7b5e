// Package client implements the typed RL client for a remote simulation
// service: action encoding, space negotiation, and the environment
// lifecycle. A Session is single-owner; driving one from multiple
// goroutines is not supported.
package client

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/simrl/simenv/spaces"
	"github.com/simrl/simenv/wire"
)

type sessionState int

const (
	stateConnected sessionState = iota
	stateCreated
	stateClosed
)

// Options configures a Session. The zero value targets 127.0.0.1:9090
// with a generated environment id and no extra configuration.
type Options struct {
	Host  string
	Port  int
	EnvID string
	// Config is stringified and passed to the service on create.
	Config  map[string]any
	Timeout time.Duration
	// Transport overrides Host/Port, mainly for tests.
	Transport Transport
	// IDSuffix supplies the suffix for generated environment ids.
	IDSuffix  func() string
	CacheSize int
}

// StepResult is the outcome of one environment step.
type StepResult struct {
	Observation []float64
	Reward      float64
	Terminated  bool
	// Truncated is always false: the protocol carries a single done
	// flag and does not distinguish truncation from termination.
	Truncated bool
	Info      map[string]string
}

// Session binds an environment id to a remote environment instance
// through its full lifecycle. Remote creation is deferred until the
// first Reset; Close releases the remote environment and the channel.
type Session struct {
	scenario string
	envID    string
	config   map[string]string

	transport Transport
	encoder   *Encoder

	actionSpace      spaces.Space
	observationSpace spaces.Space
	spacesLoaded     bool

	state sessionState
}

// NewSession dials the service and probes it for liveness. It fails with
// an error wrapping ErrConnection when the service is unreachable; there
// is no retry at this layer. Space descriptors are fetched and decoded
// once here, falling back to default spaces on failure.
func NewSession(ctx context.Context, scenario string, opts Options) (*Session, error) {
	host := opts.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := opts.Port
	if port == 0 {
		port = 9090
	}
	transport := opts.Transport
	if transport == nil {
		transport = NewHTTPTransport(host, port, opts.Timeout)
	}

	envID := opts.EnvID
	if envID == "" {
		suffix := opts.IDSuffix
		if suffix == nil {
			suffix = defaultIDSuffix
		}
		envID = fmt.Sprintf("%s_%s", scenario, suffix())
	}

	config := make(map[string]string, len(opts.Config))
	for k, v := range opts.Config {
		config[k] = fmt.Sprintf("%v", v)
	}

	cacheSize := opts.CacheSize
	if cacheSize == 0 {
		cacheSize = DefaultCacheSize
	}

	s := &Session{
		scenario:  scenario,
		envID:     envID,
		config:    config,
		transport: transport,
		encoder:   NewEncoder(cacheSize),
		state:     stateConnected,
	}

	info, err := transport.Info(ctx)
	if err != nil {
		transport.Close()
		return nil, fmt.Errorf("%w: liveness probe to %s:%d: %v", ErrConnection, host, port, err)
	}
	log.Printf("client: connected to %s v%s, scenarios %v", info.Name, info.Version, info.Scenarios)

	s.loadSpaces(ctx)
	return s, nil
}

// collisions between generated ids are not checked
func defaultIDSuffix() string {
	return strconv.Itoa(1000 + rand.Intn(9000))
}

func (s *Session) Scenario() string { return s.scenario }

func (s *Session) EnvID() string { return s.envID }

// ActionSpace is the decoded action space, or the fallback space when
// decoding failed. Immutable between (re)decodes.
func (s *Session) ActionSpace() spaces.Space { return s.actionSpace }

func (s *Session) ObservationSpace() spaces.Space { return s.observationSpace }

// SpacesLoaded reports whether the spaces came from the service rather
// than the fallback.
func (s *Session) SpacesLoaded() bool { return s.spacesLoaded }

// ReloadSpaces forces one re-query and re-decode of the space
// descriptors.
func (s *Session) ReloadSpaces(ctx context.Context) {
	s.loadSpaces(ctx)
}

func (s *Session) loadSpaces(ctx context.Context) {
	resp, err := s.transport.Spaces(ctx, &wire.SpacesRequest{Scenario: s.scenario, EnvID: s.envID})
	if err != nil {
		log.Printf("client: could not get spaces for scenario %q, using fallback: %v", s.scenario, err)
		s.actionSpace = spaces.Fallback()
		s.observationSpace = spaces.Fallback()
		s.spacesLoaded = false
		return
	}
	s.actionSpace = spaces.Decode(resp.ActionSpace)
	s.observationSpace = spaces.Decode(resp.ObservationSpace)
	s.spacesLoaded = true
	log.Printf("client: scenario %q loaded: action space %s, observation space %s",
		s.scenario, s.actionSpace, s.observationSpace)
}

// ensureCreated issues the create request once. A rejected create leaves
// the session connected so a later Reset can retry.
func (s *Session) ensureCreated(ctx context.Context) error {
	if s.state == stateCreated {
		return nil
	}
	resp, err := s.transport.Create(ctx, &wire.CreateRequest{
		EnvID:    s.envID,
		Scenario: s.scenario,
		Config:   s.config,
	})
	if err != nil {
		return fmt.Errorf("create %s: %w", s.envID, err)
	}
	if !resp.Success {
		return &CreationError{EnvID: s.envID, Message: resp.Message}
	}
	s.state = stateCreated
	log.Printf("client: environment created: %s (scenario %s)", s.envID, s.scenario)
	return nil
}

// Reset brings the environment to its initial state, creating it remotely
// on first use. It returns the initial observation vector and the info
// mapping, which always carries an observation_size entry.
func (s *Session) Reset(ctx context.Context) ([]float64, map[string]string, error) {
	if s.state == stateClosed {
		return nil, nil, ErrClosed
	}
	if err := s.ensureCreated(ctx); err != nil {
		return nil, nil, err
	}
	resp, err := s.transport.Reset(ctx, &wire.ResetRequest{EnvID: s.envID})
	if err != nil {
		return nil, nil, fmt.Errorf("reset %s: %w", s.envID, err)
	}
	if len(resp.Observations) == 0 {
		return nil, nil, fmt.Errorf("reset %s: %w", s.envID, ErrEmptyObservation)
	}
	obs := append([]float64(nil), resp.Observations[0].Data...)
	info := make(map[string]string, len(resp.Info)+1)
	for k, v := range resp.Info {
		info[k] = v
	}
	info["observation_size"] = strconv.Itoa(len(obs))
	return obs, info, nil
}

// Step encodes the action, executes one environment step and unpacks the
// response. An encoding failure does not touch session or remote state.
func (s *Session) Step(ctx context.Context, action any) (*StepResult, error) {
	if s.state == stateClosed {
		return nil, ErrClosed
	}
	encoded, err := s.encoder.Encode(action)
	if err != nil {
		return nil, err
	}
	return s.stepActions(ctx, []wire.Action{encoded})
}

// StepAll submits one action per agent/slot, order preserved.
func (s *Session) StepAll(ctx context.Context, actions []any) (*StepResult, error) {
	if s.state == stateClosed {
		return nil, ErrClosed
	}
	encoded, err := s.encoder.EncodeAll(actions)
	if err != nil {
		return nil, err
	}
	return s.stepActions(ctx, encoded)
}

func (s *Session) stepActions(ctx context.Context, actions []wire.Action) (*StepResult, error) {
	resp, err := s.transport.Step(ctx, &wire.StepRequest{EnvID: s.envID, Actions: actions})
	if err != nil {
		return nil, fmt.Errorf("step %s: %w", s.envID, err)
	}
	if len(resp.Observations) == 0 {
		return nil, fmt.Errorf("step %s: %w", s.envID, ErrEmptyObservation)
	}
	result := &StepResult{
		Observation: append([]float64(nil), resp.Observations[0].Data...),
		Info:        make(map[string]string, len(resp.Info)),
	}
	for k, v := range resp.Info {
		result.Info[k] = v
	}
	// episode-end responses may omit rewards or done flags
	if len(resp.Rewards) > 0 {
		result.Reward = resp.Rewards[0]
	}
	if len(resp.Done) > 0 {
		result.Terminated = resp.Done[0]
	}
	return result, nil
}

// Close releases the remote environment best-effort and the local channel
// unconditionally. Safe to call multiple times; a closed session must not
// be reused.
func (s *Session) Close() error {
	if s.state == stateClosed {
		return nil
	}
	if s.state == stateCreated {
		resp, err := s.transport.CloseEnv(context.Background(), &wire.CloseRequest{EnvID: s.envID})
		switch {
		case err != nil:
			log.Printf("client: error closing environment %s: %v", s.envID, err)
		case !resp.Success:
			log.Printf("client: service refused to close environment %s: %s", s.envID, resp.Message)
		default:
			log.Printf("client: environment closed: %s", s.envID)
		}
	}
	s.state = stateClosed
	return s.transport.Close()
}

// AvailableScenarios lists the scenarios the service offers. Informational
// only: any failure yields an empty list.
func (s *Session) AvailableScenarios(ctx context.Context) []string {
	if s.state == stateClosed {
		return []string{}
	}
	info, err := s.transport.Info(ctx)
	if err != nil {
		log.Printf("client: error listing scenarios: %v", err)
		return []string{}
	}
	return info.Scenarios
}
