package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mvextras/adapters/stats/engine"
	"mvextras/app"
	"mvextras/domain/dataset"
	"mvextras/internal"
	"mvextras/internal/config"
	"mvextras/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "mvextras",
		Short:        "Pairwise association tables and multiple regression for tabular datasets",
		SilenceUsage: true,
	}

	var persist bool
	rootCmd.PersistentFlags().BoolVar(&persist, "persist", false, "Save results to DATABASE_URL instead of memory")

	rootCmd.AddCommand(
		newAssociateCmd(&persist),
		newRegressCmd(&persist),
		newDescribeCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration, applies flag overrides and builds the container
func setup(ctx context.Context, persist bool, override func(*config.Config) error) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if override != nil {
		if err := override(cfg); err != nil {
			return nil, err
		}
	}
	if !persist {
		cfg.Database.URL = ""
	}

	c, err := container.New(cfg, internal.DefaultLogger)
	if err != nil {
		return nil, err
	}
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func loadDataset(ctx context.Context, c *container.Container, path string) (*dataset.Dataset, error) {
	return c.Reader.ReadDataset(ctx, path, c.Config.Data.EmptyStringPolicy)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newAssociateCmd(persist *bool) *cobra.Command {
	var out, npcr, empty string
	var hide []string
	var workers int

	cmd := &cobra.Command{
		Use:   "associate <file>",
		Short: "Compute the pairwise association table of an xlsx or csv file",
		Long: `Compute Pearson, eta, Cramér's V and missingness correlations for every ordered
pair of attributes, the diagonal included.

Example: mvextras associate survey.xlsx --out associations.xlsx --hide id`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := setup(ctx, *persist, func(cfg *config.Config) error {
				if cmd.Flags().Changed("npcr") {
					mode, err := engine.ParseNPCRMode(npcr)
					if err != nil {
						return err
					}
					cfg.Analysis.NPCRMode = mode
				}
				if cmd.Flags().Changed("workers") {
					cfg.Analysis.Workers = workers
				}
				return applyEmptyPolicy(cfg, empty)
			})
			if err != nil {
				return err
			}
			defer c.Shutdown(ctx)

			ds, err := loadDataset(ctx, c, args[0])
			if err != nil {
				return err
			}
			c.Session.SelectDataset(ds)
			for _, name := range hide {
				if _, err := ds.Attribute(name); err != nil {
					return err
				}
				c.Session.SetHidden(name, true)
			}

			table, err := c.Associations.ComputeTable(ctx, ds)
			if table == nil {
				return err
			}
			if err != nil {
				c.Logger.Warn("%v", err)
			}

			if out != "" {
				if err := c.Writer.WriteAssociations(out, table.Records); err != nil {
					return err
				}
				c.Logger.Info("wrote %d records to %s", len(table.Records), out)
				return nil
			}
			return printJSON(table)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write records to a .xlsx or .csv file instead of stdout")
	cmd.Flags().StringVar(&npcr, "npcr", string(engine.NPCRLeaveBlank), "Numeric-predicts-categorical mode: leave-blank or use-eta-as-CPNR")
	cmd.Flags().StringVar(&empty, "empty", "", "Empty string policy: missing or category (default from EMPTY_STRING_POLICY)")
	cmd.Flags().StringSliceVar(&hide, "hide", nil, "Attributes to leave out of the table")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent pair computations (default from ANALYSIS_WORKERS)")
	return cmd
}

func newRegressCmd(persist *bool) *cobra.Command {
	var out, response, empty string
	var predictors []string
	var maxIter int
	var tol float64

	cmd := &cobra.Command{
		Use:   "regress <file>",
		Short: "Fit a multiple linear regression by coordinate descent",
		Long: `Fit response on the numeric subset of predictors and emit one row per term.

Example: mvextras regress survey.csv --response spend --predictors age,income,plan`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := setup(ctx, *persist, func(cfg *config.Config) error {
				if cmd.Flags().Changed("max-iter") {
					cfg.Analysis.RegressionMaxIterations = maxIter
				}
				if cmd.Flags().Changed("tol") {
					cfg.Analysis.RegressionTolerance = tol
				}
				return applyEmptyPolicy(cfg, empty)
			})
			if err != nil {
				return err
			}
			defer c.Shutdown(ctx)

			ds, err := loadDataset(ctx, c, args[0])
			if err != nil {
				return err
			}

			result, err := c.Regressions.Run(ctx, ds, app.RegressionRequest{Response: response, Predictors: predictors})
			if result == nil {
				return err
			}
			if err != nil {
				c.Logger.Warn("%v", err)
			}

			if out != "" {
				return c.Writer.WriteRegression(out, result.Rows)
			}
			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write rows to a .xlsx or .csv file instead of stdout")
	cmd.Flags().StringVar(&response, "response", "", "Response attribute")
	cmd.Flags().StringSliceVar(&predictors, "predictors", nil, "Predictor attributes")
	cmd.Flags().StringVar(&empty, "empty", "", "Empty string policy: missing or category")
	cmd.Flags().IntVar(&maxIter, "max-iter", 50, "Maximum coordinate descent sweeps")
	cmd.Flags().Float64Var(&tol, "tol", 1e-6, "Convergence tolerance on the largest coefficient change")
	_ = cmd.MarkFlagRequired("response")
	_ = cmd.MarkFlagRequired("predictors")
	return cmd
}

func newDescribeCmd() *cobra.Command {
	var empty string

	cmd := &cobra.Command{
		Use:   "describe <file>",
		Short: "Profile every attribute of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := setup(ctx, false, func(cfg *config.Config) error {
				return applyEmptyPolicy(cfg, empty)
			})
			if err != nil {
				return err
			}

			ds, err := loadDataset(ctx, c, args[0])
			if err != nil {
				return err
			}
			profiles := make([]any, len(ds.Attributes))
			for i, attr := range ds.Attributes {
				profiles[i] = c.Engine.Profile(ds, attr)
			}
			return printJSON(map[string]any{
				"dataset":    ds.DisplayName(),
				"cases":      ds.CaseCount(),
				"attributes": profiles,
			})
		},
	}
	cmd.Flags().StringVar(&empty, "empty", "", "Empty string policy: missing or category")
	return cmd
}

func applyEmptyPolicy(cfg *config.Config, flag string) error {
	if flag == "" {
		return nil
	}
	policy, err := dataset.ParseEmptyStringPolicy(flag)
	if err != nil {
		return err
	}
	cfg.Data.EmptyStringPolicy = policy
	return nil
}
