package state

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

func orOS(fs afero.Fs) afero.Fs {
	if fs == nil {
		return afero.NewOsFs()
	}
	return fs
}

func EnsureDirs(fs afero.Fs, stateDir, menuDir, selectionPath string) error {
	fs = orOS(fs)
	if err := fs.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := fs.MkdirAll(menuDir, 0o755); err != nil {
		return fmt.Errorf("create menu dir: %w", err)
	}
	if strings.TrimSpace(selectionPath) != "" {
		if err := fs.MkdirAll(filepath.Dir(selectionPath), 0o755); err != nil {
			return fmt.Errorf("create selection dir: %w", err)
		}
	}
	return nil
}

func writeFileAtomically(fs afero.Fs, path string, content []byte) error {
	fs = orOS(fs)
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}

	tmp, err := afero.TempFile(fs, filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
