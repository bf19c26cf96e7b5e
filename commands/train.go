package commands

import (
	"context"
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/simrl/simenv/client"
	"github.com/simrl/simenv/rl"
	"github.com/simrl/simenv/util"
)

func TrainCommand() *cobra.Command {
	var (
		scenario   string
		policyName string
		config     map[string]string
	)
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Run a policy against a remote scenario and record the rewards",
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := buildPolicy(policyName)
			if err != nil {
				return err
			}

			options := client.Options{
				Host:   host,
				Port:   port,
				Config: make(map[string]any, len(config)),
			}
			for k, v := range config {
				options.Config[k] = v
			}

			ctx := context.Background()
			session, err := client.NewSession(ctx, scenario, options)
			if err != nil {
				return err
			}
			defer session.Close()

			agent := rl.NewAgent(&rl.AgentConfig{
				Episodes: episodes,
				Horizon:  horizon,
				Policy:   policy,
				Session:  session,
			})
			results, err := agent.Run(ctx)
			if err != nil {
				return err
			}

			name := fmt.Sprintf("%s_%s", scenario, policyName)
			if err := util.SaveJSON(path.Join(saveDir, name+"_results.json"), results); err != nil {
				return err
			}
			if err := rl.PlotRewards(path.Join(saveDir, name+"_rewards.png"), name, results); err != nil {
				return err
			}

			mean, stddev, terminated := rl.Summary(results)
			summary := fmt.Sprintf("%s: %d episodes, reward %.3f +/- %.3f, terminated %.0f%%",
				name, len(results), mean, stddev, terminated*100)
			fmt.Println(summary)
			return util.AppendLines(path.Join(saveDir, "runs.log"), summary)
		},
	}
	cmd.Flags().StringVar(&scenario, "scenario", "simple", "Scenario to run")
	cmd.Flags().StringVar(&policyName, "policy", "random", "Policy: random, tracking or softmax")
	cmd.Flags().StringToStringVar(&config, "config", nil, "Scenario configuration key=value pairs")
	return cmd
}

func buildPolicy(name string) (rl.Policy, error) {
	switch name {
	case "random":
		return rl.NewRandomPolicy(), nil
	case "tracking":
		return rl.NewTrackingPolicy(0.7, 0.1), nil
	case "softmax":
		return rl.NewSoftmaxPolicy(0.3, 0.99), nil
	}
	return nil, fmt.Errorf("unknown policy %q", name)
}
