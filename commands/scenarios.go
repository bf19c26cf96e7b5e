package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simrl/simenv/client"
)

func ScenariosCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the scenarios the service offers",
		RunE: func(cmd *cobra.Command, args []string) error {
			transport := client.NewHTTPTransport(host, port, 0)
			defer transport.Close()

			info, err := transport.Info(context.Background())
			if err != nil {
				return fmt.Errorf("cannot reach service at %s:%d: %w", host, port, err)
			}
			fmt.Printf("%s v%s\n", info.Name, info.Version)
			for _, scenario := range info.Scenarios {
				fmt.Printf("  %s\n", scenario)
			}
			return nil
		},
	}
}
