package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// tmpPrefix marks files being written; List skips them.
const tmpPrefix = ".tmp-"

// Directory is a ChunkedStore keeping one file per key below a root directory.
type Directory struct {
	root string
}

// NewDirectory opens or creates a directory store rooted at root.
func NewDirectory(root string) (*Directory, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty directory root", ErrInvalidPath)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory %s: %w", root, err)
	}
	return &Directory{root: root}, nil
}

// Root returns the directory the store lives in.
func (d *Directory) Root() string {
	return d.root
}

func (d *Directory) filename(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: key %q", ErrInvalidPath, key)
	}
	return filepath.Join(d.root, filepath.FromSlash(key)), nil
}

// Get implements ChunkedStore.
func (d *Directory) Get(key string) ([]byte, error) {
	name, err := d.filename(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading key %s: %w", key, err)
	}
	return data, nil
}

// Set implements ChunkedStore. The value is written to a temporary file
// and renamed into place.
func (d *Directory) Set(key string, value []byte) error {
	name, err := d.filename(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory for key %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(dir, tmpPrefix+"*")
	if err != nil {
		return fmt.Errorf("creating temp file for key %s: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	if err := os.Rename(tmpName, name); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming key %s: %w", key, err)
	}
	return nil
}

// Delete implements ChunkedStore. Directories left empty are removed.
func (d *Directory) Delete(key string) error {
	name, err := d.filename(key)
	if err != nil {
		return err
	}
	if err := os.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting key %s: %w", key, err)
	}

	root := filepath.Clean(d.root)
	for dir := filepath.Dir(name); dir != root && strings.HasPrefix(dir, root); dir = filepath.Dir(dir) {
		if os.Remove(dir) != nil {
			break
		}
	}
	return nil
}

// List implements ChunkedStore.
func (d *Directory) List(prefix string) ([]string, error) {
	keys := make([]string, 0)
	err := filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || strings.HasPrefix(entry.Name(), tmpPrefix) {
			return nil
		}
		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", d.root, err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close implements ChunkedStore.
func (d *Directory) Close() error {
	return nil
}
