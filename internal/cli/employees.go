package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ferg-cod3s/rq-challenge/internal/control"
	"github.com/ferg-cod3s/rq-challenge/internal/core/domain"
	"github.com/ferg-cod3s/rq-challenge/internal/orchestrator"
)

var createInput domain.CreateInput

var employeesCmd = &cobra.Command{
	Use:     "employees",
	Aliases: []string{"emp"},
	Short:   "Run a single employee operation against the upstream",
}

func init() {
	employeesCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all employees",
			Args:  cobra.NoArgs,
			RunE: withService(func(ctx context.Context, svc *orchestrator.Service, args []string) (any, error) {
				return svc.ListAll(ctx)
			}),
		},
		&cobra.Command{
			Use:   "search <name fragment>",
			Short: "Search employees by name, ignoring case",
			Args:  cobra.ExactArgs(1),
			RunE: withService(func(ctx context.Context, svc *orchestrator.Service, args []string) (any, error) {
				return svc.Search(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show one employee",
			Args:  cobra.ExactArgs(1),
			RunE: withService(func(ctx context.Context, svc *orchestrator.Service, args []string) (any, error) {
				return svc.GetByID(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "max-salary",
			Short: "Show the highest salary",
			Args:  cobra.NoArgs,
			RunE: withService(func(ctx context.Context, svc *orchestrator.Service, args []string) (any, error) {
				return svc.MaxSalary(ctx)
			}),
		},
		&cobra.Command{
			Use:   "top",
			Short: "Show the ten highest earning employee names",
			Args:  cobra.NoArgs,
			RunE: withService(func(ctx context.Context, svc *orchestrator.Service, args []string) (any, error) {
				return svc.TopTenNames(ctx)
			}),
		},
		createCmd(),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete an employee by id and print its name",
			Args:  cobra.ExactArgs(1),
			RunE: withService(func(ctx context.Context, svc *orchestrator.Service, args []string) (any, error) {
				return svc.DeleteByID(ctx, args[0])
			}),
		},
	)
	rootCmd.AddCommand(employeesCmd)
}

func createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an employee",
		Args:  cobra.NoArgs,
		RunE: withService(func(ctx context.Context, svc *orchestrator.Service, args []string) (any, error) {
			return svc.Create(ctx, createInput)
		}),
	}
	cmd.Flags().StringVar(&createInput.Name, "name", "", "full name")
	cmd.Flags().StringVar(&createInput.Title, "title", "", "job title")
	cmd.Flags().IntVar(&createInput.Salary, "salary", 0, "annual salary")
	cmd.Flags().IntVar(&createInput.Age, "age", 0, "age in years")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

type serviceFunc func(ctx context.Context, svc *orchestrator.Service, args []string) (any, error)

// withService builds a gateway without starting servers, runs fn and prints
// its result as JSON.
func withService(fn serviceFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		app, err := control.NewGateway(ctx, cfg, slog.Default())
		if err != nil {
			return fmt.Errorf("init gateway: %w", err)
		}
		defer func() {
			_ = app.Close()
		}()

		result, err := fn(ctx, app.Service(), args)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
}
