package runner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/tokmark/internal/logging"
	"github.com/yaklabco/tokmark/pkg/config"
	"github.com/yaklabco/tokmark/pkg/mode"
)

// CatalogFile is the catalog name looked up in each mode directory.
const CatalogFile = "catalog.yaml"

// NewProvider builds the mode provider for a run: the built-in modes, then
// the catalogs of cfg.ModeDirs in order, then the association overrides
// of cfg.Modes. Overrides naming unknown modes are returned as warnings.
func NewProvider(cfg *config.Config, logger *log.Logger) (*mode.Provider, []string, error) {
	if logger == nil {
		logger = logging.Default()
	}

	provider, err := mode.NewDefaultProvider(mode.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	if cfg == nil {
		return provider, nil, nil
	}

	for _, dir := range cfg.ModeDirs {
		if _, err := os.Stat(filepath.Join(dir, CatalogFile)); err != nil {
			return nil, nil, fmt.Errorf("mode directory %s: %w", dir, err)
		}
		if err := provider.LoadCatalog(os.DirFS(dir), CatalogFile); err != nil {
			return nil, nil, fmt.Errorf("mode directory %s: %w", dir, err)
		}
	}

	names := make([]string, 0, len(cfg.Modes))
	for name := range cfg.Modes {
		names = append(names, name)
	}
	sort.Strings(names)

	var warnings []string
	for _, name := range names {
		mc := cfg.Modes[name]
		if mc.FileNameGlob == "" && mc.FirstLineGlob == "" {
			if !provider.Has(name) {
				warnings = append(warnings, fmt.Sprintf("modes.%s: unknown mode", name))
			}
			continue
		}
		err := provider.SetAssociation(name, mc.FileNameGlob, mc.FirstLineGlob)
		if errors.Is(err, mode.ErrUnknownMode) {
			warnings = append(warnings, fmt.Sprintf("modes.%s: unknown mode", name))
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("modes.%s: %w", name, err)
		}
		logger.Debug("mode association overridden",
			logging.FieldMode, name,
			logging.FieldFileGlob, mc.FileNameGlob,
			logging.FieldLineGlob, mc.FirstLineGlob)
	}

	return provider, warnings, nil
}
