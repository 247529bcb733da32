// Command wpmigrate moves WordPress site content into a relational store.
// It fetches a JSON snapshot over the REST API, validates it, transforms it
// into SQL statement units and loads them in dependency order.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wpmigrate/internal/app"
	"wpmigrate/internal/config"
	"wpmigrate/internal/encryption"
	"wpmigrate/internal/pipeline"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "wpmigrate",
		Short:         "Migrate WordPress content into a relational store",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	rootCmd.AddCommand(
		configCmd(),
		schemaCmd(),
		fetchCmd(),
		validateCmd(),
		transformCmd(),
		loadCmd(),
		runCmd(),
		historyCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the --config flag value if set, otherwise the
// environment/default path.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	defaults, err := app.GetDefaults()
	if err != nil {
		return "", err
	}
	return defaults["config_path"], nil
}

func loadConfig() (*config.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	return config.ReadFromFile(path)
}

// withApp builds an application context for the named operation, runs fn, and
// always finalizes the context.
func withApp(operation string, fn func(*app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.NewApp(cfg, operation, nil, nil)
	if err != nil {
		return err
	}

	runErr := fn(a)
	if closeErr := a.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	return runErr
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage wpmigrate configuration",
	}

	var siteURL, baseDir string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file and encryption keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath()
			if err != nil {
				return err
			}

			if baseDir == "" {
				defaults, err := app.GetDefaults()
				if err != nil {
					return err
				}
				baseDir = defaults["base_dir"]
			}

			cfg := config.NewConfig(siteURL, baseDir)
			if err := config.Init(path, cfg); err != nil {
				return err
			}

			enc := encryption.NewAgeEncryptor(cfg.Encryption)
			if err := enc.Setup(); err != nil {
				return fmt.Errorf("generating encryption keys: %w", err)
			}

			fmt.Printf("config written to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&siteURL, "site-url", "", "WordPress site URL (e.g. https://example.com)")
	initCmd.Flags().StringVar(&baseDir, "base-dir", "", "base directory for wpmigrate data")
	initCmd.MarkFlagRequired("site-url")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the active configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			m := &config.Manager{}
			return m.Write(os.Stdout, cfg)
		},
	}

	cmd.AddCommand(initCmd, listCmd)
	return cmd
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create or update the destination schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp("schema", func(a *app.App) error {
				return a.Schema()
			})
		},
	}
}

func fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download the content snapshot from the source site",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp("fetch", func(a *app.App) error {
				return a.Fetch()
			})
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the snapshot for duplicates and orphans",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp("validate", func(a *app.App) error {
				report, err := a.Validate()
				if err != nil {
					return err
				}
				report.Write(os.Stdout)
				return nil
			})
		},
	}
}

func transformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transform",
		Short: "Convert the snapshot into SQL statement units",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp("transform", func(a *app.App) error {
				n, err := a.Transform()
				if err != nil {
					return err
				}
				fmt.Printf("wrote %d statement units\n", n)
				return nil
			})
		},
	}
}

func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Execute the statement units against the destination store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp("load", func(a *app.App) error {
				result, err := a.Load()
				if err != nil {
					return err
				}
				return reportLoad(result)
			})
		},
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: fetch, validate, transform, load, archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp("run", func(a *app.App) error {
				result, err := a.Migrate(os.Stdout)
				if err != nil {
					return err
				}
				return reportLoad(result)
			})
		},
	}
}

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs recorded in the destination store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp("history", func(a *app.App) error {
				runs, err := a.History(limit)
				if err != nil {
					return err
				}
				for _, r := range runs {
					finished := "-"
					if r.FinishedAt != nil {
						finished = r.FinishedAt.UTC().Format("2006-01-02T15:04:05Z")
					}
					fmt.Printf("%s\t%s\t%s\t%s\t%s", r.ID, r.Operation,
						r.StartedAt.UTC().Format("2006-01-02T15:04:05Z"), finished, r.Status)
					if r.FailedUnits != "" {
						fmt.Printf("\tfailed: %s", r.FailedUnits)
					}
					fmt.Println()
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	return cmd
}

// reportLoad prints per-unit outcomes and returns an error if any unit
// failed, so the process exits non-zero.
func reportLoad(result *pipeline.LoadResult) error {
	fmt.Printf("%d units committed, %d failed\n", result.Succeeded, result.Failed)
	for _, e := range result.Errors {
		fmt.Printf("  %s: %s\n", e.Unit, e.Error())
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d unit(s) failed to load", result.Failed)
	}
	return nil
}
