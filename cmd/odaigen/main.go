// odaigen generates the quiz theme and country dictionary artifacts
// consumed by the quiz app. It is an offline batch tool: one run either
// replaces every artifact or, on any validation failure, writes nothing.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mitsuba-lab/odaigen/pkg/odaigen"
	"github.com/mitsuba-lab/odaigen/pkg/odaigen/config"
	"github.com/mitsuba-lab/odaigen/pkg/odaigen/source"
)

var (
	configPath string
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "odaigen",
	Short: "Quiz dataset generator",
	Long: `odaigen builds the quiz artifacts from configured sources:
it merges country records into a canonical dictionary, derives themes
by region, terrain and kana initial, validates everything, and writes
the results atomically.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the full pipeline and write artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return odaigen.New(cfg, logger).Run(context.Background())
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run every quality gate without writing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return odaigen.New(cfg, logger).Validate(context.Background())
	},
}

var (
	seedDB  string
	seedSQL string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Build the locale database from the checked-in SQL script",
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := os.ReadFile(seedSQL)
		if err != nil {
			return err
		}
		if err := source.Seed(context.Background(), seedDB, string(script)); err != nil {
			return err
		}
		logger.Info("locale database seeded",
			zap.String("db", seedDB), zap.String("sql", seedSQL))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "odaigen.yaml", "pipeline config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	seedCmd.Flags().StringVar(&seedDB, "db", "data/locale.db", "sqlite database to create")
	seedCmd.Flags().StringVar(&seedSQL, "sql", "data/locale.sql", "SQL script to execute")

	rootCmd.AddCommand(generateCmd, validateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
