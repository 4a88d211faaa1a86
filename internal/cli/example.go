package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-respdoc/pkg/metadata"
	"github.com/goliatone/go-respdoc/pkg/orchestrator"
)

// interactive reports whether prompts may be shown.
var interactive = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// selectDTO asks the user to pick one of names.
var selectDTO = func(names []string) (string, error) {
	var picked string
	prompt := &survey.Select{
		Message: "Select a DTO:",
		Options: names,
	}
	if err := survey.AskOne(prompt, &picked); err != nil {
		return "", err
	}
	return picked, nil
}

type exampleFlags struct {
	catalogs []string
	generic  string
	format   string
}

// NewExampleCommand creates the example command.
func NewExampleCommand(root *rootFlags) *cobra.Command {
	flags := &exampleFlags{}
	cmd := &cobra.Command{
		Use:   "example [DTO]",
		Short: "Print the synthesized example of one DTO",
		Example: `  respdoc example User
  respdoc example ApiResponse --generic User --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			srcs, err := sources(cfg, flags.catalogs)
			if err != nil {
				return err
			}
			o := newOrchestrator(cfg, logger)
			req := orchestrator.Request{Sources: srcs}

			var id string
			if len(args) == 1 {
				id = args[0]
			} else {
				if !interactive() {
					return errors.New("a DTO name is required when not running in a terminal")
				}
				parsed, err := o.Catalog(cmd.Context(), req)
				if err != nil {
					return err
				}
				names := parsed.DTONames()
				if len(names) == 0 {
					return errors.New("catalogs declare no DTOs")
				}
				if id, err = selectDTO(names); err != nil {
					return err
				}
			}

			obj, err := o.Example(cmd.Context(), req, metadata.TypeID(id), metadata.TypeID(flags.generic))
			if err != nil {
				return err
			}

			var out []byte
			switch flags.format {
			case "", "json":
				out, err = json.MarshalIndent(obj, "", "  ")
				out = append(out, '\n')
			case "yaml":
				out, err = yaml.Marshal(obj)
			default:
				return fmt.Errorf("unsupported format %q", flags.format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringSliceVar(&flags.catalogs, "catalog", nil, "catalog file or URL (repeatable)")
	cmd.Flags().StringVarP(&flags.generic, "generic", "g", "", "DTO substituted into generic fields")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "output format: json or yaml")
	return cmd
}
