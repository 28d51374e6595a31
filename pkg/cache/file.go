package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// FileBackend keeps each entry in its own yaml file, named after its key
type FileBackend struct {
	dir string
}

// NewFileBackend creates a FileBackend in dir, creating the directory if
// needed
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Dir is where the cache files live
func (b *FileBackend) Dir() string {
	return b.dir
}

func fileName(key string) string {
	name := unsafeKeyChars.ReplaceAllString(key, "_")
	if strings.Trim(name, ".") == "" {
		return ""
	}
	return name
}

// Load reads the entry for key
func (b *FileBackend) Load(key string) (Entry, error) {
	name := fileName(key)
	if len(name) == 0 {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return readEntry(filepath.Join(b.dir, name))
}

func readEntry(path string) (Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	} else if err != nil {
		return Entry{}, err
	}

	var entry Entry
	if err := yaml.Unmarshal(data, &entry); err != nil {
		return Entry{}, fmt.Errorf("corrupt cache file %s: %w", path, err)
	}
	if len(entry.Key) == 0 || entry.StoredAt.IsZero() {
		return Entry{}, fmt.Errorf("corrupt cache file %s: missing key or timestamp", path)
	}
	return entry, nil
}

// Save writes the entry, replacing any previous one. The file is written
// to a temporary name first so a reader never sees a partial entry.
func (b *FileBackend) Save(entry Entry) error {
	name := fileName(entry.Key)
	if len(name) == 0 {
		return fmt.Errorf("invalid cache key %q", entry.Key)
	}
	entry.StoredAt = entry.StoredAt.UTC()

	data, err := yaml.Marshal(entry)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.dir, ".tmp-"+name+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(b.dir, name))
}

// List reads every cache file in the directory, skipping unreadable ones
func (b *FileBackend) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, "-cache") {
			continue
		}
		if entry, err := readEntry(filepath.Join(b.dir, name)); err == nil {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}
