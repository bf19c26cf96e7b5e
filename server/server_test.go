package server_test

import (
	"context"
	"errors"
	"net"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/simrl/simenv/client"
	"github.com/simrl/simenv/scenarios/cartpole"
	"github.com/simrl/simenv/scenarios/simple"
	"github.com/simrl/simenv/server"
	"github.com/simrl/simenv/spaces"
	"github.com/simrl/simenv/wire"
)

func startTestService(t *testing.T) (string, int) {
	t.Helper()
	engine := server.NewEngine()
	engine.Register(simple.New())
	engine.Register(cartpole.New())
	srv := server.New(engine, ":0")
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatal(err)
	}
	return host, port
}

func TestServiceInfo(t *testing.T) {
	host, port := startTestService(t)
	transport := client.NewHTTPTransport(host, port, 0)
	defer transport.Close()

	info, err := transport.Info(context.Background())
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	want := []string{"cartpole", "simple"}
	if len(info.Scenarios) != len(want) {
		t.Fatalf("got scenarios %v, want %v", info.Scenarios, want)
	}
	for i := range want {
		if info.Scenarios[i] != want[i] {
			t.Errorf("got scenarios %v, want %v", info.Scenarios, want)
		}
	}
	if info.Version == "" {
		t.Error("missing service version")
	}
}

func TestSimpleEpisodeEndToEnd(t *testing.T) {
	host, port := startTestService(t)
	session, err := client.NewSession(context.Background(), "simple", client.Options{
		Host: host,
		Port: port,
		Config: map[string]any{
			"max_steps": 20,
			"tolerance": 0.3,
			"seed":      42,
		},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer session.Close()

	if !session.SpacesLoaded() {
		t.Error("spaces not loaded from a live service")
	}
	box, ok := session.ActionSpace().(*spaces.Box)
	if !ok {
		t.Fatalf("action space is %T, want *spaces.Box", session.ActionSpace())
	}
	if box.Low[0] != -10 || box.High[0] != 10 {
		t.Errorf("got action bounds [%g, %g], want [-10, 10]", box.Low[0], box.High[0])
	}

	obs, info, err := session.Reset(context.Background())
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(obs) != 6 {
		t.Fatalf("got %d observation elements, want 6", len(obs))
	}
	if info["observation_size"] != "6" {
		t.Errorf("got observation_size %q", info["observation_size"])
	}
	if obs[2] != 0 {
		t.Errorf("step counter after reset: got %g, want 0", obs[2])
	}
	if obs[3] != 20 {
		t.Errorf("configured max_steps not reflected: got %g, want 20", obs[3])
	}

	terminated := false
	for i := 0; i < 20; i++ {
		target, current := obs[1], obs[0]
		result, err := session.Step(context.Background(), target-current)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if result.Truncated {
			t.Fatal("truncated must always be false")
		}
		obs = result.Observation
		if obs[2] != float64(i+1) {
			t.Errorf("step counter: got %g, want %d", obs[2], i+1)
		}
		if result.Terminated {
			terminated = true
			break
		}
	}
	// moving straight at the target reaches tolerance on the first step
	if !terminated {
		t.Error("episode never terminated within max_steps")
	}
}

func TestDuplicateCreateRejected(t *testing.T) {
	host, port := startTestService(t)
	transport := client.NewHTTPTransport(host, port, 0)
	defer transport.Close()

	req := &wire.CreateRequest{EnvID: "simple_1", Scenario: "simple"}
	resp, err := transport.Create(context.Background(), req)
	if err != nil || !resp.Success {
		t.Fatalf("first create: %v, %+v", err, resp)
	}
	resp, err = transport.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if resp.Success {
		t.Error("duplicate env id accepted")
	}
}

func TestUnknownScenario(t *testing.T) {
	host, port := startTestService(t)
	session, err := client.NewSession(context.Background(), "warehouse", client.Options{Host: host, Port: port})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer session.Close()

	// unknown scenario still connects, with fallback spaces
	if session.SpacesLoaded() {
		t.Error("spaces reported loaded for unknown scenario")
	}
	_, _, err = session.Reset(context.Background())
	var creation *client.CreationError
	if !errors.As(err, &creation) {
		t.Fatalf("got %v, want CreationError", err)
	}
}

func TestCartpoleSpaces(t *testing.T) {
	host, port := startTestService(t)
	session, err := client.NewSession(context.Background(), "cartpole", client.Options{
		Host:   host,
		Port:   port,
		Config: map[string]any{"seed": 7},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer session.Close()

	discrete, ok := session.ActionSpace().(*spaces.Discrete)
	if !ok || discrete.N != 2 {
		t.Fatalf("got action space %s, want Discrete(2)", session.ActionSpace())
	}
	box, ok := session.ObservationSpace().(*spaces.Box)
	if !ok || box.Size() != 4 {
		t.Fatalf("got observation space %s, want Box(4)", session.ObservationSpace())
	}

	obs, _, err := session.Reset(context.Background())
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(obs) != 4 {
		t.Fatalf("got %d observation elements, want 4", len(obs))
	}
	result, err := session.Step(context.Background(), int64(1))
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if result.Reward != 1 {
		t.Errorf("got reward %g, want 1 per surviving step", result.Reward)
	}
}

func TestStepRejectsMalformedAction(t *testing.T) {
	host, port := startTestService(t)
	transport := client.NewHTTPTransport(host, port, 0)
	defer transport.Close()

	if _, err := transport.Create(context.Background(), &wire.CreateRequest{EnvID: "simple_2", Scenario: "simple"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := transport.Reset(context.Background(), &wire.ResetRequest{EnvID: "simple_2"}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	_, err := transport.Step(context.Background(), &wire.StepRequest{
		EnvID:   "simple_2",
		Actions: []wire.Action{{}},
	})
	if err == nil {
		t.Error("empty action accepted")
	}
}

func TestStepUnknownEnvironment(t *testing.T) {
	host, port := startTestService(t)
	transport := client.NewHTTPTransport(host, port, 0)
	defer transport.Close()

	_, err := transport.Step(context.Background(), &wire.StepRequest{
		EnvID:   "ghost",
		Actions: []wire.Action{wire.FloatAction(0)},
	})
	if err == nil {
		t.Error("step against unknown environment accepted")
	}
}

func TestCloseRemovesEnvironment(t *testing.T) {
	host, port := startTestService(t)
	transport := client.NewHTTPTransport(host, port, 0)
	defer transport.Close()

	if _, err := transport.Create(context.Background(), &wire.CreateRequest{EnvID: "simple_3", Scenario: "simple"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	resp, err := transport.CloseEnv(context.Background(), &wire.CloseRequest{EnvID: "simple_3"})
	if err != nil || !resp.Success {
		t.Fatalf("close: %v, %+v", err, resp)
	}
	resp, err = transport.CloseEnv(context.Background(), &wire.CloseRequest{EnvID: "simple_3"})
	if err != nil {
		t.Fatalf("second close: %v", err)
	}
	if resp.Success {
		t.Error("closing a removed environment reported success")
	}
}
