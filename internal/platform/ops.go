package platform

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/timethings/pkg/adapters/fs"
)

// Init opens the vault at path, creating its system directory unless the
// vault is read-only.
func Init(path string, opts ...Option) (*fs.Vault, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initVault(path, o)
}

func initVault(path string, o *options) (*fs.Vault, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault path: %w", err)
	}

	vault := fs.NewVault(fs.Config{
		Path:         abs,
		SystemDir:    o.systemDir,
		MustExist:    o.mustExist,
		ReadOnly:     o.readOnly,
		Logger:       o.logger,
		ErrorHandler: o.errorHandler,
	})
	if err := vault.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return vault, nil
}
