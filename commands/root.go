package commands

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	host     string
	port     int
	episodes int
	horizon  int
	saveDir  string
)

func GetRootCommand() *cobra.Command {
	for _, envFile := range []string{".env", "../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	defaultHost := os.Getenv("SIMENV_HOST")
	if defaultHost == "" {
		defaultHost = "127.0.0.1"
	}
	defaultPort := 9090
	if v := os.Getenv("SIMENV_PORT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			defaultPort = parsed
		}
	}

	rootCommand := &cobra.Command{
		Use:   "simenv",
		Short: "Run the simulation service or drive it with example clients",
	}
	rootCommand.PersistentFlags().StringVar(&host, "host", defaultHost, "Service host")
	rootCommand.PersistentFlags().IntVarP(&port, "port", "p", defaultPort, "Service port")
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 10, "Number of episodes to run")
	rootCommand.PersistentFlags().IntVar(&horizon, "horizon", 100, "Horizon of each episode")
	rootCommand.PersistentFlags().StringVarP(&saveDir, "save", "s", "results", "Save result data in the specified folder")
	// adding the subcommands here
	rootCommand.AddCommand(ServeCommand())
	rootCommand.AddCommand(TrainCommand())
	rootCommand.AddCommand(ScenariosCommand())
	rootCommand.AddCommand(ActionsCommand())
	return rootCommand
}
