// Command claimctl runs administrative tasks against the claim tracker database.
package main

import (
	"fmt"
	"os"

	"github.com/franciscosanchezn/claim-tracker-api/internal/config"
	"github.com/franciscosanchezn/claim-tracker-api/internal/database"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd(bootDB).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// dbOpener returns the database a command works on
type dbOpener func() (*gorm.DB, error)

// bootDB loads .env and the configuration, then opens the database
func bootDB() (*gorm.DB, error) {
	_ = godotenv.Load()

	conf, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return database.InitDatabase(database.FromAppConfig(conf))
}

func newRootCmd(open dbOpener) *cobra.Command {
	root := &cobra.Command{
		Use:           "claimctl",
		Short:         "Claim tracker admin CLI",
		Long:          "claimctl migrates the schema, seeds accounts and inspects insurance records.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMigrateCmd(open))
	root.AddCommand(newCreateUserCmd(open))
	root.AddCommand(newListInsurancesCmd(open))
	root.AddCommand(newPurgeTokensCmd(open))

	return root
}
