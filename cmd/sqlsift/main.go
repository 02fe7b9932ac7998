// Package main is the sqlsift CLI, built with cobra.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sqlsift"
	"sqlsift/internal/config"
	"sqlsift/internal/diag"
	"sqlsift/internal/output"
)

type lintFlags struct {
	schema     []string
	schemaDir  string
	dialect    string
	configPath string
	format     string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "sqlsift",
		Short: "Static SQL analyzer",
	}

	rootCmd.AddCommand(lintCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func lintCmd() *cobra.Command {
	flags := &lintFlags{}
	cmd := &cobra.Command{
		Use:   "lint <query-file...>",
		Short: "Validate SQL files against a schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runLint(args, flags)
		},
	}

	cmd.Flags().StringSliceVar(&flags.schema, "schema", nil, "Schema file glob(s)")
	cmd.Flags().StringVar(&flags.schemaDir, "schema-dir", "", "Directory to walk for .sql schema files")
	cmd.Flags().StringVar(&flags.dialect, "dialect", "", "SQL dialect: postgresql, mysql, or sqlite")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "Path to sqlsift.toml")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Output format: human or json")

	return cmd
}

func newLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}

func runLint(queryFiles []string, flags *lintFlags) error {
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	cfg, baseDir, err := loadConfig(flags)
	if err != nil {
		logger.Error("failed to load config", zap.Error(err))
		return err
	}

	schemaFiles, err := cfg.ResolveSchemaFiles(baseDir)
	if err != nil {
		logger.Error("failed to resolve schema files", zap.Error(err))
		return err
	}
	if len(schemaFiles) == 0 {
		return fmt.Errorf("no schema files found; set --schema or schema_dir")
	}

	d, err := sqlsift.ParseDialect(cfg.Dialect)
	if err != nil {
		return err
	}

	schemaText, err := config.ReadSchemaText(schemaFiles)
	if err != nil {
		logger.Error("failed to read schema files", zap.Error(err))
		return err
	}

	start := time.Now()
	cat, buildDiags := sqlsift.BuildCatalog(d, schemaText)
	logger.Info("catalog built",
		zap.Int("schema_files", len(schemaFiles)),
		zap.Int("warnings", len(buildDiags)),
		zap.Duration("elapsed", time.Since(start)))

	store := config.NewStore()
	store.Swap(cat, d, cfg.Disable)

	formatter, err := output.NewFormatter(flags.format)
	if err != nil {
		return err
	}

	var all []sqlsift.Diagnostic
	all = append(all, buildDiags...)

	for _, path := range queryFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("failed to read query file", zap.String("path", path), zap.Error(err))
			return err
		}
		storeCat, storeDialect := store.Get()
		fileDiags := sqlsift.Analyze(storeCat, storeDialect, string(data))
		for i := range fileDiags {
			fileDiags[i].File = path
		}
		all = append(all, fileDiags...)
	}

	all = filterDisabled(all, store)

	rendered, err := formatter.Format(all)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(rendered)

	if hasError(all) {
		os.Exit(1)
	}
	return nil
}

func filterDisabled(diags []sqlsift.Diagnostic, store *config.Store) []sqlsift.Diagnostic {
	kept := diags[:0]
	for _, d := range diags {
		if !store.IsDisabled(string(d.Code())) {
			kept = append(kept, d)
		}
	}
	return kept
}

func hasError(diags []sqlsift.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diag.SeverityError {
			return true
		}
	}
	return false
}

func loadConfig(flags *lintFlags) (*config.Config, string, error) {
	if flags.configPath != "" {
		cfg, err := config.Load(flags.configPath)
		if err != nil {
			return nil, "", err
		}
		if len(flags.schema) > 0 {
			cfg.Schema = flags.schema
		}
		if flags.schemaDir != "" {
			cfg.SchemaDir = flags.schemaDir
		}
		if flags.dialect != "" {
			cfg.Dialect = flags.dialect
		}
		return cfg, filepath.Dir(flags.configPath), nil
	}

	cfg := &config.Config{
		Schema:    flags.schema,
		SchemaDir: flags.schemaDir,
		Dialect:   flags.dialect,
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", err
	}
	return cfg, cwd, nil
}
