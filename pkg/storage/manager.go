package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"nicolive-terminal/pkg/config"
)

const (
	dataDirName    = ".nicolive-data"
	configFileName = "config.toml"
)

// StorageManager owns the data directory. Only non-secret settings are kept
// there; sessions and credentials live in memory.
type StorageManager struct {
	dataDir string
}

func NewStorageManager() (*StorageManager, error) {
	if dir := os.Getenv("NICOLIVE_DATA_DIR"); dir != "" {
		return NewStorageManagerAt(dir)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return NewStorageManagerAt(filepath.Join(cwd, dataDirName))
}

func NewStorageManagerAt(dataDir string) (*StorageManager, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, err
	}
	return &StorageManager{
		dataDir: dataDir,
	}, nil
}

func (sm *StorageManager) GetDataDir() string {
	return sm.dataDir
}

func (sm *StorageManager) ConfigPath() string {
	return filepath.Join(sm.dataDir, configFileName)
}

func (sm *StorageManager) ConfigExists() bool {
	_, err := os.Stat(sm.ConfigPath())
	return err == nil
}

// LoadConfig reads path, or the managed config file when path is empty.
func (sm *StorageManager) LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = sm.ConfigPath()
	}
	return config.Load(path)
}

// InitConfig writes the default configuration. An existing file is kept
// unless force is set.
func (sm *StorageManager) InitConfig(force bool) (string, error) {
	path := sm.ConfigPath()
	if sm.ConfigExists() && !force {
		return path, fmt.Errorf("config already exists: %s", path)
	}
	if err := config.Default().Save(path); err != nil {
		return path, err
	}
	return path, nil
}

func (sm *StorageManager) RemoveConfig() error {
	if err := os.Remove(sm.ConfigPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
