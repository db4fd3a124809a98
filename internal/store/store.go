package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/inovacc/doubleblind/internal/application"
	"github.com/inovacc/doubleblind/internal/model"
)

// FileName is the bbolt file inside the application directory.
const FileName = "doubleblind.bolt"

// Store defines the persistence operations used by the app.
type Store interface {
	Ping() error
	GetConfig() (*model.Config, error)
	SaveConfig(cfg *model.Config) error
	Close() error
}

// DefaultPath returns the store location inside the application directory.
func DefaultPath() (string, error) {
	dir, err := application.GetApplicationDirectory()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, FileName), nil
}

// Open opens the store at the default location, creating the application
// directory when needed.
func Open() (*Bolt, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create application directory: %w", err)
	}

	db, err := NewBolt(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}

	return db, nil
}
