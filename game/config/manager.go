package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/service"
)

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = service.ErrInvalidConfig
)

// DefaultConfigName is the preset used when a session does not name one
const DefaultConfigName = "classic"

const presetExt = ".json"

// preset is a parsed config file and the modification time it was read at
type preset struct {
	config  *engine.GameConfig
	modTime time.Time
}

// Manager reads presets from a directory and caches them. A cached preset is
// re-read when its file changes on disk.
type Manager struct {
	dir      string
	mu       sync.RWMutex
	presets  map[string]preset
	fallback *engine.GameConfig
}

// NewManager opens a preset directory and picks its default configuration
func NewManager(configDir string) (*Manager, error) {
	info, err := os.Stat(configDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{dir: configDir, presets: map[string]preset{}}
	m.chooseDefault()
	return m, nil
}

// presetName strips an optional .json suffix and rejects names that would
// leave the directory
func presetName(name string) (string, error) {
	name = strings.TrimSuffix(name, presetExt)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: bad config name %q", ErrInvalidConfig, name)
	}
	return name, nil
}

func (m *Manager) file(name string) string {
	return filepath.Join(m.dir, name+presetExt)
}

// LoadConfig returns the named preset
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	name, err := presetName(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(m.file(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	m.mu.RLock()
	cached, ok := m.presets[name]
	m.mu.RUnlock()
	if ok && cached.modTime.Equal(info.ModTime()) {
		return cached.config, nil
	}

	config, err := m.read(name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Keep whichever copy won a concurrent read of the same file
	if cached, ok := m.presets[name]; ok && cached.modTime.Equal(info.ModTime()) {
		return cached.config, nil
	}
	m.presets[name] = preset{config: config, modTime: info.ModTime()}
	if ok {
		log.WithField("config", name).Debug("config changed on disk, reloaded")
	}
	return config, nil
}

func (m *Manager) read(name string) (*engine.GameConfig, error) {
	data, err := os.ReadFile(m.file(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, name)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &engine.GameConfig{}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s%s: %v", ErrInvalidConfig, name, presetExt, err)
	}
	if err := engine.ValidateGameConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return config, nil
}

// ListConfigs describes every valid preset, sorted by ID. Invalid files are skipped.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	if _, err := os.Stat(m.dir); err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}
	files, err := filepath.Glob(filepath.Join(m.dir, "*"+presetExt))
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}
	sort.Strings(files)

	list := []*service.ConfigInfo{}
	for _, file := range files {
		base := filepath.Base(file)
		id := strings.TrimSuffix(base, presetExt)

		config, err := m.LoadConfig(id)
		if err != nil {
			log.WithField("config", id).Debugf("skipping config: %v", err)
			continue
		}

		list = append(list, &service.ConfigInfo{
			Filename:    base,
			ConfigID:    id,
			Name:        config.Name,
			Description: config.Description,
			Rows:        config.Rows,
			Columns:     config.Columns,
			Seed:        config.Seed,
		})
	}
	return list, nil
}

// GetDefault returns the configuration used when no preset is named
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fallback
}

// SetDefault makes the named preset the default
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.fallback = config
	m.mu.Unlock()
	return nil
}

// ReloadConfig drops the cached copy of a preset and reads it again
func (m *Manager) ReloadConfig(name string) error {
	name, err := presetName(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.presets, name)
	m.mu.Unlock()

	_, err = m.LoadConfig(name)
	return err
}

// RefreshCache forgets every cached preset and picks the default again
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.presets = map[string]preset{}
	m.mu.Unlock()

	m.chooseDefault()
	return nil
}

// Count returns the number of cached presets
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.presets)
}

// chooseDefault prefers the classic preset, then the first valid file, then
// the built-in configuration
func (m *Manager) chooseDefault() {
	config, err := m.LoadConfig(DefaultConfigName)
	if err != nil {
		if list, listErr := m.ListConfigs(); listErr == nil && len(list) > 0 {
			config, err = m.LoadConfig(list[0].ConfigID)
		}
	}
	if err != nil {
		log.Debugf("no usable config in %s, using built-in default", m.dir)
		config = engine.DefaultConfig()
		config.Name = "default"
		config.Description = "Default minimal configuration"
	}

	m.mu.Lock()
	m.fallback = config
	m.mu.Unlock()
}

// SaveConfig validates a configuration and writes it as a preset file
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	name, err := presetName(name)
	if err != nil {
		return err
	}
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(m.file(name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	info, err := os.Stat(m.file(name))
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.presets[name] = preset{config: config, modTime: info.ModTime()}
	m.mu.Unlock()
	return nil
}
