package main

import (
	"fmt"

	"github.com/simrl/simenv/commands"
)

// main entry point for the service and the example clients
func main() {
	rootCommand := commands.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Println(err)
	}
}
