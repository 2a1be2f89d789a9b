package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/franciscosanchezn/claim-tracker-api/internal/auth"
	"github.com/franciscosanchezn/claim-tracker-api/internal/database"
	"github.com/franciscosanchezn/claim-tracker-api/internal/models"
	"github.com/franciscosanchezn/claim-tracker-api/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// withDB opens the database, runs fn and closes the connection
func withDB(open dbOpener, fn func(db *gorm.DB) error) error {
	db, err := open()
	if err != nil {
		return err
	}
	defer database.Close(db)
	return fn(db)
}

// claimctl migrate
func newMigrateCmd(open dbOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users, insurance and oauth_tokens tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(open, func(db *gorm.DB) error {
				if err := database.Migrate(db); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Schema migrated")
				return nil
			})
		},
	}
}

// claimctl create-user --email a@b.c --password ... --role admin
func newCreateUserCmd(open dbOpener) *cobra.Command {
	var email, password, roleName string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account, typically the first admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := models.ParseRole(roleName)
			if err != nil {
				return err
			}

			return withDB(open, func(db *gorm.DB) error {
				user, err := services.NewUserService(db).Register(cmd.Context(), email, password, role)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created user %d (%s) with role %s\n", user.ID, user.Email, user.Role)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&roleName, "role", string(models.RoleUser), "role: user or admin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// claimctl list-insurances
func newListInsurancesCmd(open dbOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "list-insurances",
		Short: "Print every insurance record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(open, func(db *gorm.DB) error {
				records, err := services.NewInsuranceService(db).ListAll(cmd.Context())
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tIMEI\tSTATUS\tCOMMENTS")
				for _, r := range records {
					status := "-"
					if r.Status != nil {
						status = string(*r.Status)
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.IMEI, status, r.Comments)
				}
				return w.Flush()
			})
		},
	}
}

// claimctl purge-tokens
func newPurgeTokensCmd(open dbOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-tokens",
		Short: "Delete expired entries from the token issuance log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(open, func(db *gorm.DB) error {
				removed, err := auth.NewGormTokenStore(db).PurgeExpired(cmd.Context(), time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired tokens\n", removed)
				return nil
			})
		},
	}
}
