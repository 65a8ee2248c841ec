package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tokmark/internal/ui/pretty"
	"github.com/yaklabco/tokmark/pkg/langdetect"
	"github.com/yaklabco/tokmark/pkg/mode"
	"github.com/yaklabco/tokmark/pkg/runner"
)

const formatJSON = "json"

type modesFlags struct {
	resolve string
	format  string
}

// modeInfo represents a mode in JSON output.
type modeInfo struct {
	Name          string   `json:"name"`
	Aliases       []string `json:"aliases,omitempty"`
	FileNameGlob  string   `json:"fileNameGlob,omitempty"`
	FirstLineGlob string   `json:"firstLineGlob,omitempty"`
}

// resolution explains which mode a file gets and why.
type resolution struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	By   string `json:"by"`
}

// Resolution sources.
const (
	resolvedByAssociation = "association"
	resolvedByContent     = "content"
	resolvedByFallback    = "fallback"
)

func newModesCommand(global *globalFlags) *cobra.Command {
	flags := &modesFlags{}

	cmd := &cobra.Command{
		Use:   "modes",
		Short: "List available modes",
		Long: `List the registered modes with their aliases and file associations.

Modes from configured mode directories are listed after the built-in ones
and win ties. With --resolve, print the mode a file would be highlighted
with instead.

Examples:
  tokmark modes
  tokmark modes --format json
  tokmark modes --resolve Makefile`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.format != "text" && flags.format != formatJSON {
				return fmt.Errorf("%w: invalid format %q: must be text or json", ErrUsage, flags.format)
			}
			sess, err := newSession(cmd, global, nil)
			if err != nil {
				return err
			}
			if flags.resolve != "" {
				return runResolve(cmd, sess, flags)
			}
			return runListModes(cmd, sess, flags)
		},
	}

	cmd.Flags().StringVar(&flags.resolve, "resolve", "", "print the mode chosen for a file")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	return cmd
}

func runListModes(cmd *cobra.Command, sess *session, flags *modesFlags) error {
	entries := sess.provider.Entries()
	infos := make([]modeInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, modeInfo{
			Name:          e.Name,
			Aliases:       e.Aliases,
			FileNameGlob:  e.FileNameGlob,
			FirstLineGlob: e.FirstLineGlob,
		})
	}

	if flags.format == formatJSON {
		return writeJSON(cmd, infos)
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(string(sess.cfg.Color), cmd.OutOrStdout()))
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			info.Name,
			strings.Join(info.Aliases, ", "),
			info.FileNameGlob,
			info.FirstLineGlob,
		})
	}
	fmt.Fprint(cmd.OutOrStdout(), styles.FormatTable([]string{"MODE", "ALIASES", "FILE GLOB", "FIRST LINE GLOB"}, rows))
	fmt.Fprint(cmd.OutOrStdout(), styles.FormatLegend(fmt.Sprintf("%d modes; later modes win ties", len(infos))))
	return nil
}

func runResolve(cmd *cobra.Command, sess *session, flags *modesFlags) error {
	res, err := resolveFile(sess.provider, flags.resolve)
	if err != nil {
		return err
	}

	if flags.format == formatJSON {
		return writeJSON(cmd, res)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", res.Path, res.Mode, res.By)
	return nil
}

// resolveFile names the mode a file resolves to. The file is read only
// when its name alone does not decide.
func resolveFile(provider *mode.Provider, path string) (resolution, error) {
	res := resolution{Path: path}
	name := filepath.Base(path)

	if resolved, ok := provider.ResolveName(path, name, ""); ok {
		res.Mode, res.By = resolved, resolvedByAssociation
		return res, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("read %s: %w", path, err)
	}
	if resolved, ok := provider.ResolveName(path, name, mode.FirstLine(content)); ok {
		res.Mode, res.By = resolved, resolvedByAssociation
		return res, nil
	}
	if detected := langdetect.ForFile(name, content); detected != "" && provider.Has(detected) {
		res.Mode, res.By = detected, resolvedByContent
		return res, nil
	}
	if detected := langdetect.Detect(content); detected != "" && provider.Has(detected) {
		res.Mode, res.By = detected, resolvedByContent
		return res, nil
	}

	res.Mode, res.By = runner.FallbackMode, resolvedByFallback
	return res, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
