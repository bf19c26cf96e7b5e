package rl

import (
	"context"

	"github.com/simrl/simenv/client"
)

// EpisodeResult summarizes one episode of a run.
type EpisodeResult struct {
	Episode     int     `json:"episode"`
	Steps       int     `json:"steps"`
	TotalReward float64 `json:"total_reward"`
	Terminated  bool    `json:"terminated"`
}

type AgentConfig struct {
	Episodes int
	Horizon  int
	Policy   Policy
	Session  *client.Session
}

// Agent drives a session with a policy for a fixed number of episodes.
type Agent struct {
	config  *AgentConfig
	policy  Policy
	session *client.Session
}

func NewAgent(config *AgentConfig) *Agent {
	return &Agent{
		config:  config,
		policy:  config.Policy,
		session: config.Session,
	}
}

// Run executes the configured episodes and returns their results. It
// stops on the first session error.
func (a *Agent) Run(ctx context.Context) ([]EpisodeResult, error) {
	results := make([]EpisodeResult, 0, a.config.Episodes)
	for episode := 0; episode < a.config.Episodes; episode++ {
		result, err := a.runEpisode(ctx, episode)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (a *Agent) runEpisode(ctx context.Context, episode int) (EpisodeResult, error) {
	result := EpisodeResult{Episode: episode}

	obs, _, err := a.session.Reset(ctx)
	if err != nil {
		return result, err
	}

	space := a.session.ActionSpace()
	for step := 0; step < a.config.Horizon; step++ {
		action := a.policy.NextAction(step, obs, space)
		stepResult, err := a.session.Step(ctx, action)
		if err != nil {
			return result, err
		}
		a.policy.Update(step, obs, action, stepResult.Observation, stepResult.Reward)

		result.Steps++
		result.TotalReward += stepResult.Reward
		obs = stepResult.Observation

		if stepResult.Terminated || stepResult.Truncated {
			result.Terminated = stepResult.Terminated
			break
		}
	}
	return result, nil
}
