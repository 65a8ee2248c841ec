package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tokmark/internal/logging"
	"github.com/yaklabco/tokmark/pkg/config"
	"github.com/yaklabco/tokmark/pkg/fsutil"
	"github.com/yaklabco/tokmark/pkg/mode"
	"github.com/yaklabco/tokmark/pkg/syntax"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// defaultConfigFile is the file init writes when no output is given.
const defaultConfigFile = ".tokmark.yml"

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new tokmark configuration file",
		Long: `Create a new .tokmark.yml configuration file in the current directory
with sensible defaults. The file can be customized to change styles, tab
width, mode associations and ignored paths.

Examples:
  tokmark init                       Create minimal .tokmark.yml
  tokmark init --full                Also list token kinds and modes
  tokmark init --output custom.yml   Write to a custom file path
  tokmark init --force               Overwrite, keeping the old file as .tokmark.yml.bak`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Document every token kind and built-in mode")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "Output file path")

	return cmd
}

func runInit(ctx context.Context, flags *initFlags) error {
	logger := logging.NewInteractive()

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrUsage, flags.output)
		}
		backup, err := fsutil.Backup(ctx, absPath)
		if err != nil {
			return err
		}
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output, "backup", backup)
	}

	opts := config.TemplateOptions{Full: flags.full}
	if flags.full {
		opts.Kinds, opts.Modes, err = templateCatalog()
		if err != nil {
			return err
		}
	}

	if err := fsutil.WriteAtomic(ctx, absPath, config.GenerateTemplate(opts), configFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("run 'tokmark modes' to see all available modes")

	return nil
}

// templateCatalog lists the token kinds and built-in modes for a full template.
func templateCatalog() ([]string, []config.ModeInfo, error) {
	kinds := make([]string, 0, len(syntax.Kinds()))
	for _, kind := range syntax.Kinds() {
		kinds = append(kinds, kind.String())
	}

	provider, err := mode.NewDefaultProvider(mode.WithLogger(logging.Discard()))
	if err != nil {
		return nil, nil, fmt.Errorf("load built-in modes: %w", err)
	}
	entries := provider.Entries()
	modes := make([]config.ModeInfo, 0, len(entries))
	for _, e := range entries {
		modes = append(modes, config.ModeInfo{
			Name:          e.Name,
			FileNameGlob:  e.FileNameGlob,
			FirstLineGlob: e.FirstLineGlob,
		})
	}
	return kinds, modes, nil
}
