package mode

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	gocache "github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"github.com/yaklabco/tokmark/internal/logging"
	"github.com/yaklabco/tokmark/pkg/grammar"
	"github.com/yaklabco/tokmark/pkg/langdetect"
	"github.com/yaklabco/tokmark/pkg/mode/builtin"
)

// ErrUnknownMode is returned when no mode is registered under a name.
var ErrUnknownMode = errors.New("unknown mode")

// Resolution cache timings.
const (
	DefaultResolveExpiration = 10 * time.Minute
	DefaultCleanupInterval   = 30 * time.Minute
)

// gzipSuffix is stripped before matching so compressed files highlight as
// their underlying type.
const gzipSuffix = ".gz"

// Entry registers a mode whose grammar is loaded on first use.
type Entry struct {
	// Name is the mode name.
	Name string

	// Aliases are alternative names, e.g. fence info strings like "sh".
	Aliases []string

	// FS holds the grammar file.
	FS fs.FS

	// Grammar is the path of the grammar document within FS.
	Grammar string

	// FileNameGlob and FirstLineGlob associate files with the mode.
	FileNameGlob  string
	FirstLineGlob string
}

type entry struct {
	Entry
	assoc Association

	docOnce sync.Once
	doc     *grammar.Document
	docErr  error

	modeOnce sync.Once
	mode     *Mode
}

// Provider is a registry of modes. Grammars are parsed and compiled lazily,
// exactly once per mode; the resulting Mode is published through a
// sync.Once so every reader observes it fully built. A Provider is safe for
// concurrent use.
type Provider struct {
	mu      sync.RWMutex
	entries []*entry // registration order
	byName  map[string]*entry
	aliases map[string]string

	resolved *gocache.Cache
	logger   *log.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for grammar load problems.
func WithLogger(logger *log.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// WithResolveCache sets the expiration of memoised file resolutions.
func WithResolveCache(expiration, cleanupInterval time.Duration) Option {
	return func(p *Provider) {
		p.resolved = gocache.New(expiration, cleanupInterval)
	}
}

// NewProvider creates an empty registry.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		byName:   make(map[string]*entry),
		aliases:  make(map[string]string),
		resolved: gocache.New(DefaultResolveExpiration, DefaultCleanupInterval),
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewDefaultProvider creates a registry holding the built-in modes.
func NewDefaultProvider(opts ...Option) (*Provider, error) {
	p := NewProvider(opts...)
	if err := p.LoadCatalog(builtin.FS, builtin.CatalogPath); err != nil {
		return nil, fmt.Errorf("load built-in modes: %w", err)
	}
	return p, nil
}

// Register adds a mode. Registering an existing name replaces it and moves
// it to the end of the registration order, giving it priority in ties.
func (p *Provider) Register(e Entry) error {
	assoc, err := NewAssociation(e.FileNameGlob, e.FirstLineGlob)
	if err != nil {
		return fmt.Errorf("register mode %s: %w", e.Name, err)
	}
	p.add(&entry{Entry: e, assoc: assoc})
	return nil
}

// RegisterMode adds an already built mode.
func (p *Provider) RegisterMode(m *Mode) {
	ent := &entry{
		Entry: Entry{
			Name:          m.Name(),
			FileNameGlob:  m.assoc.FileNameGlob,
			FirstLineGlob: m.assoc.FirstLineGlob,
		},
		assoc: m.assoc,
		mode:  m,
	}
	ent.modeOnce.Do(func() {})
	p.add(ent)
}

// SetAssociation replaces the globs of a registered mode; an empty glob
// keeps the current one. The mode moves to the end of the registration
// order, so a user override wins ties against the modes it shadows.
func (p *Provider) SetAssociation(name, fileNameGlob, firstLineGlob string) error {
	ent, ok := p.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMode, name)
	}

	e := ent.Entry
	if fileNameGlob != "" {
		e.FileNameGlob = fileNameGlob
	}
	if firstLineGlob != "" {
		e.FirstLineGlob = firstLineGlob
	}
	assoc, err := NewAssociation(e.FileNameGlob, e.FirstLineGlob)
	if err != nil {
		return fmt.Errorf("mode %s: %w", name, err)
	}

	if e.FS == nil && ent.mode != nil {
		m := *ent.mode
		m.assoc = assoc
		p.RegisterMode(&m)
		return nil
	}
	p.add(&entry{Entry: e, assoc: assoc})
	return nil
}

func (p *Provider) add(ent *entry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byName[ent.Name]; exists {
		p.entries = slices.DeleteFunc(p.entries, func(old *entry) bool {
			return old.Name == ent.Name
		})
	}
	p.entries = append(p.entries, ent)
	p.byName[ent.Name] = ent
	for _, alias := range ent.Aliases {
		p.aliases[alias] = ent.Name
	}
	p.resolved.Flush()
}

// LoadCatalog registers every mode of the catalog at catalogPath in fsys.
// Grammar paths are relative to the catalog's directory.
func (p *Provider) LoadCatalog(fsys fs.FS, catalogPath string) error {
	data, err := fs.ReadFile(fsys, catalogPath)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	cat, err := ParseCatalog(data)
	if err != nil {
		return fmt.Errorf("%s: %w", catalogPath, err)
	}

	dir := path.Dir(catalogPath)
	for _, ce := range cat.Modes {
		err := p.Register(Entry{
			Name:          ce.Name,
			Aliases:       ce.Aliases,
			FS:            fsys,
			Grammar:       path.Join(dir, ce.Grammar),
			FileNameGlob:  ce.FileNameGlob,
			FirstLineGlob: ce.FirstLineGlob,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", catalogPath, err)
		}
	}

	p.logger.Debug("loaded mode catalog",
		logging.FieldCatalog, catalogPath,
		logging.FieldModes, len(cat.Modes))
	return nil
}

func (p *Provider) lookup(name string) (*entry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if ent, ok := p.byName[name]; ok {
		return ent, true
	}
	if canonical, ok := p.aliases[name]; ok {
		ent, ok := p.byName[canonical]
		return ent, ok
	}
	return nil, false
}

// Has reports whether name or alias is registered.
func (p *Provider) Has(name string) bool {
	_, ok := p.lookup(name)
	return ok
}

// Names returns the registered mode names in registration order.
func (p *Provider) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return lo.Map(p.entries, func(ent *entry, _ int) string { return ent.Name })
}

// Entries returns the registered entries in registration order.
func (p *Provider) Entries() []Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return lo.Map(p.entries, func(ent *entry, _ int) Entry { return ent.Entry })
}

// Document implements grammar.Source: it returns the parsed grammar of a
// mode, reading it at most once.
func (p *Provider) Document(name string) (*grammar.Document, error) {
	ent, ok := p.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, name)
	}
	ent.docOnce.Do(func() {
		if ent.FS == nil {
			ent.docErr = fmt.Errorf("mode %s has no grammar source", ent.Name)
			return
		}
		data, err := fs.ReadFile(ent.FS, ent.Grammar)
		if err != nil {
			ent.docErr = fmt.Errorf("read grammar: %w", err)
			return
		}
		ent.doc, ent.docErr = grammar.Parse(data)
	})
	return ent.doc, ent.docErr
}

// Mode returns the mode registered under name or alias, loading its grammar
// on first use. A grammar that fails to load is logged and replaced by a
// plain mode, so the error is only ErrUnknownMode.
func (p *Provider) Mode(name string) (*Mode, error) {
	ent, ok := p.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, name)
	}
	ent.modeOnce.Do(func() {
		ent.mode = p.load(ent)
	})
	return ent.mode, nil
}

func (p *Provider) load(ent *entry) *Mode {
	compiled, err := grammar.Compile(ent.Name, p)
	if err != nil {
		p.logger.Warn("grammar failed to load; using plain mode",
			logging.FieldMode, ent.Name,
			logging.FieldGrammar, ent.Grammar,
			logging.FieldError, err)
		return Plain(ent.Name, ent.assoc)
	}
	for _, warning := range compiled.Warnings {
		p.logger.Warn("grammar problem",
			logging.FieldMode, ent.Name,
			logging.FieldGrammar, ent.Grammar,
			logging.FieldWarning, warning)
	}
	return New(ent.Name, compiled, ent.assoc)
}

// ResolveName picks the mode for a file without loading any grammar.
//
// A trailing ".gz" is ignored. When several modes accept the file, later
// registrations are preferred and the first of these wins: a file name equal
// to the mode's file name glob, both globs matching, the file name glob
// matching. Otherwise the latest registered first-line match is used.
func (p *Provider) ResolveName(filePath, filename, firstLine string) (string, bool) {
	filePath = strings.TrimSuffix(filePath, gzipSuffix)
	filename = strings.TrimSuffix(filename, gzipSuffix)

	cacheKey := filePath + "\x00" + filename + "\x00" + firstLine
	if cached, ok := p.resolved.Get(cacheKey); ok {
		name, _ := cached.(string)
		return name, name != ""
	}

	name := p.resolve(filePath, filename, firstLine)
	p.resolved.SetDefault(cacheKey, name)
	return name, name != ""
}

func (p *Provider) resolve(filePath, filename, firstLine string) string {
	p.mu.RLock()
	accepted := lo.Filter(p.entries, func(ent *entry, _ int) bool {
		return ent.assoc.Accept(filePath, filename, firstLine)
	})
	p.mu.RUnlock()

	switch len(accepted) {
	case 0:
		return ""
	case 1:
		return accepted[0].Name
	}

	slices.Reverse(accepted)

	tieBreaks := []func(*entry) bool{
		func(ent *entry) bool { return ent.assoc.AcceptIdentical(filePath, filename) },
		func(ent *entry) bool {
			return ent.assoc.AcceptFile(filePath, filename) && ent.assoc.AcceptFirstLine(firstLine)
		},
		func(ent *entry) bool { return ent.assoc.AcceptFile(filePath, filename) },
	}
	for _, accepts := range tieBreaks {
		if ent, ok := lo.Find(accepted, accepts); ok {
			return ent.Name
		}
	}
	return accepted[0].Name
}

// ModeForFile resolves and loads the mode for a file. The file name is the
// last element of filePath.
func (p *Provider) ModeForFile(filePath, firstLine string) (*Mode, bool) {
	name, ok := p.ResolveName(filePath, filepath.Base(filePath), firstLine)
	if !ok {
		return nil, false
	}
	m, err := p.Mode(name)
	if err != nil {
		return nil, false
	}
	return m, true
}

// Detect picks a mode for a file from its associations, falling back to
// content-based language detection when no glob matches.
func (p *Provider) Detect(filePath string, content []byte) (*Mode, bool) {
	if m, ok := p.ModeForFile(filePath, FirstLine(content)); ok {
		return m, true
	}
	name := langdetect.ForFile(strings.TrimSuffix(filepath.Base(filePath), gzipSuffix), content)
	if name == "" || !p.Has(name) {
		return nil, false
	}
	m, err := p.Mode(name)
	if err != nil {
		return nil, false
	}
	return m, true
}

// FirstLine returns the first line of content without its line terminator.
func FirstLine(content []byte) string {
	line := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	return string(bytes.TrimSuffix(line, []byte("\r")))
}
