package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aquabill-labs/aquabill/internal/bill"
	billdomain "github.com/aquabill-labs/aquabill/internal/bill/domain"
	"github.com/aquabill-labs/aquabill/internal/clock"
	"github.com/aquabill-labs/aquabill/internal/config"
	"github.com/aquabill-labs/aquabill/internal/migration"
	"github.com/aquabill-labs/aquabill/internal/observability"
	"github.com/aquabill-labs/aquabill/internal/reading"
	"github.com/aquabill-labs/aquabill/internal/report"
	reportdomain "github.com/aquabill-labs/aquabill/internal/report/domain"
	"github.com/aquabill-labs/aquabill/internal/seed"
	"github.com/aquabill-labs/aquabill/internal/server"
	"github.com/aquabill-labs/aquabill/internal/settings"
	"github.com/aquabill-labs/aquabill/internal/tenant"
	"github.com/aquabill-labs/aquabill/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "aquabill",
		Short: "Apartment water usage and billing",
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newServeCmd(), newOverdueCmd(), newReportCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOneShot(migration.Module)
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install default settings and demo tenants",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOneShot(
				migration.Module,
				fx.Invoke(func(conn *gorm.DB) error {
					return seed.EnsureDefaults(conn, time.Now())
				}),
			)
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(append(baseModules(), domainModules(), server.Module)...)
			app.Run()
			return nil
		},
	}
}

func newOverdueCmd() *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "Transition past-due generated bills to overdue",
		RunE: func(cmd *cobra.Command, args []string) error {
			at := time.Now().UTC()
			if asOf != "" {
				parsed, err := time.Parse(time.RFC3339, asOf)
				if err != nil {
					return fmt.Errorf("--as-of must be RFC3339: %w", err)
				}
				at = parsed
			}
			return runOneShot(
				domainModules(),
				fx.Invoke(func(svc billdomain.Service) error {
					changed, err := svc.MarkOverdue(context.Background(), at)
					if err != nil {
						return err
					}
					fmt.Printf("%d bill(s) marked overdue\n", changed)
					return nil
				}),
			)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "sweep reference time (RFC3339), default now")
	return cmd
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the tenant summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOneShot(
				domainModules(),
				fx.Invoke(func(svc reportdomain.Service) error {
					summaries, err := svc.TenantSummaries(context.Background())
					if err != nil {
						return err
					}
					fmt.Printf("%-8s %-22s %-10s %9s %7s %11s %12s\n",
						"TENANT", "NAME", "APARTMENT", "READINGS", "BILLS", "PAID", "OUTSTANDING")
					for _, row := range summaries {
						fmt.Printf("%-8s %-22s %-10s %9d %7d %11.2f %12.2f\n",
							row.TenantCode, row.Name, row.Apartment,
							row.TotalReadings, row.TotalBills, row.TotalPaid, row.OutstandingAmount)
					}
					return nil
				}),
			)
		},
	}
}

func baseModules() []fx.Option {
	return []fx.Option{
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
	}
}

func domainModules() fx.Option {
	return fx.Options(
		tenant.Module,
		settings.Module,
		reading.Module,
		bill.Module,
		report.Module,
	)
}

// runOneShot starts an fx app just long enough to run its invokes.
func runOneShot(opts ...fx.Option) error {
	app := fx.New(append(baseModules(), opts...)...)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}
	return app.Stop(context.Background())
}

func registerSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
