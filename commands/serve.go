package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/simrl/simenv/scenarios/cartpole"
	"github.com/simrl/simenv/scenarios/simple"
	"github.com/simrl/simenv/server"
)

func ServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the reference simulation service",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := server.NewEngine()
			engine.Register(simple.New())
			engine.Register(cartpole.New())
			srv := server.New(engine, fmt.Sprintf(":%d", port))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()
			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Stop(shutdownCtx)
			}
		},
	}
}
