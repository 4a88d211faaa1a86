package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-respdoc/pkg/orchestrator"
)

type generateFlags struct {
	catalogs []string
	output   string
	format   string
	stdout   bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(root *rootFlags) *cobra.Command {
	flags := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the OpenAPI document for the configured catalogs",
		Example: `  respdoc generate
  respdoc generate --catalog users.yaml --catalog orders.yaml --format yaml -o openapi.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if flags.format != "" {
				cfg.Format = flags.format
			}
			if flags.output != "" {
				cfg.Output = flags.output
			}
			srcs, err := sources(cfg, flags.catalogs)
			if err != nil {
				return err
			}

			out, err := newOrchestrator(cfg, logger).Generate(cmd.Context(), orchestrator.Request{
				Sources: srcs,
				Format:  cfg.Format,
			})
			if err != nil {
				return err
			}

			if flags.stdout {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}
			if dir := filepath.Dir(cfg.Output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}
			if err := os.WriteFile(cfg.Output, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d bytes)\n", color.GreenString("wrote"), cfg.Output, len(out))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&flags.catalogs, "catalog", nil, "catalog file or URL (repeatable)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: json or yaml")
	cmd.Flags().BoolVar(&flags.stdout, "stdout", false, "print the document instead of writing a file")
	return cmd
}
