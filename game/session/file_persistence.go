package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/mazerunner/game/service"
)

const sessionFileExt = ".json"

// FilePersistence stores each session as <dir>/<id>.json
type FilePersistence struct {
	dir     string
	configs service.ConfigManager
}

// NewFilePersistence creates dir if needed and returns a store rooted there.
// configs resolves the stored config IDs back into configurations and may be nil.
func NewFilePersistence(dir string, configs service.ConfigManager) (*FilePersistence, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}
	return &FilePersistence{dir: dir, configs: configs}, nil
}

// path maps an ID to its file, refusing IDs that would escape the directory
func (fp *FilePersistence) path(id string) (string, error) {
	if err := ValidateSessionID(id); err != nil {
		return "", err
	}
	return filepath.Join(fp.dir, id+sessionFileExt), nil
}

// Save writes the session through a temp file so readers never see a partial document
func (fp *FilePersistence) Save(session *service.Session) error {
	doc, err := encodeSession(session, fp.configs)
	if err != nil {
		return err
	}
	target, err := fp.path(session.ID)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(fp.dir, "."+session.ID+"-*")
	if err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	target, err := fp.path(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	doc, err := os.ReadFile(target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, ErrSessionNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	return decodeSession(doc, fp.configs)
}

func (fp *FilePersistence) Delete(id string) error {
	target, err := fp.path(id)
	if err != nil {
		return ErrSessionNotFound
	}

	err = os.Remove(target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrSessionNotFound
	case err != nil:
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// ListAll returns the stored IDs in lexical order. Temp files and
// subdirectories are ignored.
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != sessionFileExt {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, sessionFileExt))
	}
	sort.Strings(ids)
	return ids, nil
}

func (fp *FilePersistence) Exists(id string) bool {
	target, err := fp.path(id)
	if err != nil {
		return false
	}
	info, err := os.Stat(target)
	return err == nil && info.Mode().IsRegular()
}
