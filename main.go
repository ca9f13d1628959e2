package main

import (
	"fmt"
	"os"

	_ "frtutracker/docs" // Swagger docs

	"github.com/spf13/cobra"
)

// @title FRTU Status Tracker API
// @version 1.0
// @description Field remote terminal unit inventory, status history and spreadsheet mirror

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer {token}

// rootOptions holds global flags for all commands.
type rootOptions struct {
	ConfigPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "frtutracker",
		Short: "FRTU status tracker",
		Long:  "Inventory and status history of field remote terminal units, mirrored to a Google spreadsheet.",
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a TOML config file")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newHashPasscodeCommand())

	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
