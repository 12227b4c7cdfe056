package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tripdesk/tripdesk/internal/interfaces/cli/bootstrap"
	"github.com/tripdesk/tripdesk/internal/interfaces/cli/currency"
	"github.com/tripdesk/tripdesk/internal/interfaces/cli/server"
	"github.com/tripdesk/tripdesk/internal/interfaces/cli/token"
	"github.com/tripdesk/tripdesk/internal/shared/version"
)

// @title Tripdesk Currency API
// @version 1.0
// @description Currency rate cache and conversion service for the travel agency back office.
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	opts := &bootstrap.Options{}

	rootCmd := &cobra.Command{
		Use:          "tripdesk",
		Short:        "Tripdesk - currency rates for the agency back office",
		Long:         `Tripdesk serves cached exchange rates, conversions and amount formatting over HTTP and from the command line.`,
		Version:      version.String(),
		SilenceUsage: true,
	}
	opts.BindFlags(rootCmd)

	rootCmd.AddCommand(
		server.NewCommand(opts),
		currency.NewCommand(opts),
		token.NewCommand(opts),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
