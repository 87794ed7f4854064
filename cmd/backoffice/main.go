package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/beneficlub/backoffice/internal/interfaces/cli/admin"
	"github.com/beneficlub/backoffice/internal/interfaces/cli/migrate"
	"github.com/beneficlub/backoffice/internal/interfaces/cli/server"
	"github.com/beneficlub/backoffice/internal/interfaces/cli/sweep"
)

//	@title						Backoffice API
//	@version					1.0
//	@description				Benefits club back office: gateway webhooks, subscribers, companies, partners and cadences.
//	@BasePath					/
//	@securityDefinitions.apikey	Bearer
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the access token.
func main() {
	rootCmd := &cobra.Command{
		Use:   "backoffice",
		Short: "Benefits club subscription back office",
		Long:  `backoffice reconciles Asaas and Stripe webhooks into subscriber status, runs the WhatsApp cadences and the daily expiry sweep, and serves the operator API.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		sweep.NewCommand(),
		admin.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
