package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/renameio"
)

// maxBackups bounds how many timestamped backups Save keeps before
// pruning the oldest.
const maxBackups = 3

// backupSuffix marks a config backup file.
const backupSuffix = ".bak"

// Save atomically writes cfg to path as YAML, backing up whatever was
// there first. The write itself goes through renameio so a crash
// mid-write never leaves a half-written config file.
func Save(path string, cfg Config) error {
	if _, err := os.Stat(path); err == nil {
		if _, err := Backup(path); err != nil {
			return fmt.Errorf("backup before save: %w", err)
		}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return pruneBackups(path)
}

// Backup copies path to a timestamped ".bak.<ts>" sibling file and
// returns its path. A missing source file is not an error: there is
// simply nothing to back up yet.
func Backup(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read config for backup: %w", err)
	}

	backupPath := path + backupSuffix + "." + time.Now().UTC().Format("20060102-150405")
	if err := renameio.WriteFile(backupPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return backupPath, nil
}

// ListBackups returns path's backups, newest first.
func ListBackups(path string) ([]string, error) {
	dir := filepath.Dir(path)
	prefix := filepath.Base(path) + backupSuffix + "."

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list config directory: %w", err)
	}

	var backups []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		backups = append(backups, filepath.Join(dir, e.Name()))
	}

	sort.Slice(backups, func(i, j int) bool { return backups[i] > backups[j] })
	return backups, nil
}

// Restore overwrites path with the contents of backupPath, after backing
// up whatever is currently at path.
func Restore(path, backupPath string) error {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return fmt.Errorf("read backup %s: %w", backupPath, err)
	}
	if _, err := Backup(path); err != nil {
		return fmt.Errorf("backup current config before restore: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return renameio.WriteFile(path, data, 0o644)
}

func pruneBackups(path string) error {
	backups, err := ListBackups(path)
	if err != nil {
		return err
	}
	if len(backups) <= maxBackups {
		return nil
	}
	for _, b := range backups[maxBackups:] {
		_ = os.Remove(b) // best-effort; a leftover backup file is harmless
	}
	return nil
}
