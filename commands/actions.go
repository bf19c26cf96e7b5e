package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/simrl/simenv/client"
)

// ActionsCommand steps the simple scenario once with each supported local
// action shape, showing how they encode and what the service replies.
func ActionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "Demo the supported action value shapes against the simple scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			session, err := client.NewSession(ctx, "simple", client.Options{
				Host:   host,
				Port:   port,
				Config: map[string]any{"max_steps": 50},
			})
			if err != nil {
				return err
			}
			defer session.Close()

			if _, _, err := session.Reset(ctx); err != nil {
				return err
			}

			demos := []any{
				1.5,
				3,
				true,
				[]float64{0.25, -0.5},
				mat.NewVecDense(1, []float64{2.0}),
				[]any{1, 2.5, true},
			}
			for _, action := range demos {
				result, err := session.Step(ctx, action)
				if err != nil {
					fmt.Printf("%T %v -> error: %v\n", action, action, err)
					continue
				}
				fmt.Printf("%T %v -> reward %.3f, terminated %t\n",
					action, action, result.Reward, result.Terminated)
				if result.Terminated {
					if _, _, err := session.Reset(ctx); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}
