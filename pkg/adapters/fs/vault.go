package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/timethings/pkg/core"
)

// DefaultSystemDir holds the settings file and the stats index.
const DefaultSystemDir = ".timethings"

// NoteExt is the extension of tracked notes.
const NoteExt = ".md"

// DefaultSelfWriteWindow is how long watcher events for a file the vault
// just wrote are ignored.
const DefaultSelfWriteWindow = time.Second

// ErrOutsideVault is returned for ids that resolve outside the vault root.
var ErrOutsideVault = errors.New("path is outside the vault")

// Config holds the configuration of a Vault.
type Config struct {
	Path      string
	SystemDir string // defaults to ".timethings"
	MustExist bool
	ReadOnly  bool
	// Exclude holds doublestar patterns of ids the watcher and Notes skip.
	Exclude         []string
	Logger          *slog.Logger
	ErrorHandler    func(error)
	SelfWriteWindow time.Duration
}

// Vault is a directory of Markdown notes. It implements core.HeaderProcessor
// and core.LineEditor.
type Vault struct {
	Path   string
	config Config
	logger *slog.Logger
	cache  *cache

	// fileMu serializes read-modify-write cycles.
	fileMu sync.Mutex

	mu            sync.RWMutex
	exclude       core.FilterSettings
	written       map[string]time.Time
	watcherActive bool
	lastScan      *time.Time
	writes        int64
}

var (
	_ core.HeaderProcessor = (*Vault)(nil)
	_ core.LineEditor      = (*Vault)(nil)
)

// NewVault creates a Vault. Call Initialize before use.
func NewVault(config Config) *Vault {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.SelfWriteWindow == 0 {
		config.SelfWriteWindow = DefaultSelfWriteWindow
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Vault{
		Path:    config.Path,
		config:  config,
		logger:  logger,
		cache:   newCache(config.Path, config.SystemDir),
		exclude: core.FilterSettings{Exclude: config.Exclude},
		written: make(map[string]time.Time),
	}
}

// Initialize checks or creates the vault directory and its system dir.
func (v *Vault) Initialize(ctx context.Context) error {
	if v.config.MustExist || v.config.ReadOnly {
		info, err := os.Stat(v.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", v.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", v.Path)
		}
		if v.config.ReadOnly {
			return nil
		}
	}
	if err := os.MkdirAll(filepath.Join(v.Path, v.config.SystemDir), 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}
	return nil
}

// SystemDir returns the absolute path of the system directory.
func (v *Vault) SystemDir() string {
	return filepath.Join(v.Path, v.config.SystemDir)
}

// SetExclude replaces the exclude patterns.
func (v *Vault) SetExclude(patterns []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.exclude = core.FilterSettings{Exclude: patterns}
}

// Excluded reports whether id matches an exclude pattern.
func (v *Vault) Excluded(id string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.exclude.Excludes(id)
}

// Resolve maps a note id ("daily/2024-06-01.md", or without extension) to
// its absolute path.
func (v *Vault) Resolve(id string) (string, error) {
	clean := path.Clean(filepath.ToSlash(id))
	if id == "" || clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrOutsideVault, id)
	}
	if first, _, _ := strings.Cut(clean, "/"); first == v.config.SystemDir {
		return "", fmt.Errorf("%w: %q is in the system directory", ErrOutsideVault, id)
	}
	if path.Ext(clean) == "" {
		clean += NoteExt
	}
	return filepath.Join(v.Path, filepath.FromSlash(clean)), nil
}

// ID maps an absolute path inside the vault to its note id.
func (v *Vault) ID(abs string) (string, error) {
	rel, err := filepath.Rel(v.Path, abs)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%w: %s", ErrOutsideVault, abs)
	}
	return rel, nil
}

// ProcessHeader implements core.HeaderProcessor. The note is written back
// only if fn changed the header; untouched keys keep their order, style
// and comments. A note without a header gets one when fn adds a field.
func (v *Vault) ProcessHeader(ctx context.Context, id string, fn func(core.Metadata) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs, err := v.Resolve(id)
	if err != nil {
		return err
	}

	v.fileMu.Lock()
	defer v.fileMu.Unlock()

	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", id, err)
	}
	n, err := splitNote(data)
	if err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	before, err := n.metadata()
	if err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	after, err := n.metadata()
	if err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}

	if err := fn(after); err != nil {
		return err
	}
	if reflect.DeepEqual(before, after) {
		return nil
	}
	if v.config.ReadOnly {
		return core.ErrReadOnly
	}

	if n.root == nil {
		n.root = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	if err := merge(n.root, before, after); err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	out, err := n.bytes()
	if err != nil {
		return fmt.Errorf("%s: failed to encode frontmatter: %w", id, err)
	}
	return v.write(abs, out)
}

// EditLines implements core.LineEditor.
func (v *Vault) EditLines(ctx context.Context, id string, fn func(core.LineDocument) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs, err := v.Resolve(id)
	if err != nil {
		return err
	}

	v.fileMu.Lock()
	defer v.fileMu.Unlock()

	buf, err := openBuffer(abs)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", id, err)
	}
	if err := fn(buf); err != nil {
		return err
	}
	if !buf.Dirty() {
		return nil
	}
	if v.config.ReadOnly {
		return core.ErrReadOnly
	}

	v.markWritten(abs)
	if _, err := buf.save(); err != nil {
		return err
	}
	v.countWrite()
	return nil
}

// Create writes a new note. It fails if the note exists.
func (v *Vault) Create(ctx context.Context, id string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if v.config.ReadOnly {
		return core.ErrReadOnly
	}
	abs, err := v.Resolve(id)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err == nil {
		return fmt.Errorf("note %s: %w", id, fs.ErrExist)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return err
	}
	return v.write(abs, content)
}

func (v *Vault) write(abs string, data []byte) error {
	v.markWritten(abs)
	if err := writeFileAtomic(abs, data, 0644); err != nil {
		return err
	}
	v.countWrite()
	v.logger.Debug("note written", "path", abs)
	return nil
}

// Notes lists the ids of all notes, skipping hidden directories, the
// system directory and excluded ids.
func (v *Vault) Notes(ctx context.Context) ([]string, error) {
	var ids []string
	err := doublestar.GlobWalk(os.DirFS(v.Path), "**/*"+NoteExt, func(p string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || v.hidden(p) || v.Excluded(p) {
			return nil
		}
		ids = append(ids, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// hidden reports whether id lies in a dot directory or the system dir.
func (v *Vault) hidden(id string) bool {
	for _, seg := range strings.Split(path.Dir(id), "/") {
		if seg == v.config.SystemDir || (strings.HasPrefix(seg, ".") && seg != ".") {
			return true
		}
	}
	return strings.HasPrefix(path.Base(id), TempFilePrefix)
}

func (v *Vault) markWritten(abs string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	now := time.Now()
	v.written[abs] = now
	for p, t := range v.written {
		if now.Sub(t) > v.config.SelfWriteWindow {
			delete(v.written, p)
		}
	}
}

// selfWrite reports whether abs was written by the vault within the
// self-write window.
func (v *Vault) selfWrite(abs string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	t, ok := v.written[abs]
	return ok && time.Since(t) <= v.config.SelfWriteWindow
}

func (v *Vault) countWrite() {
	v.mu.Lock()
	v.writes++
	v.mu.Unlock()
}
