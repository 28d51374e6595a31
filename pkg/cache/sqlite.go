package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DatabaseFile is the name of the SQLite database within the cache directory
const DatabaseFile = "cache.db"

type cacheRow struct {
	Key      string   `gorm:"column:cache_key;primaryKey"`
	Values   []string `gorm:"serializer:json"`
	StoredAt time.Time
}

func (cacheRow) TableName() string {
	return "cache_entries"
}

// SQLiteBackend keeps all entries in a single SQLite database
type SQLiteBackend struct {
	db *gorm.DB
}

// NewSQLiteBackend opens (or creates) the database at path
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening cache database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&cacheRow{}); err != nil {
		return nil, fmt.Errorf("migrating cache database %s: %w", path, err)
	}
	return &SQLiteBackend{db: db}, nil
}

// Load reads the entry for key
func (b *SQLiteBackend) Load(key string) (Entry, error) {
	var row cacheRow
	err := b.db.Where("cache_key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	} else if err != nil {
		return Entry{}, err
	}
	return row.toEntry(), nil
}

// Save inserts or replaces the entry
func (b *SQLiteBackend) Save(entry Entry) error {
	if len(entry.Key) == 0 {
		return fmt.Errorf("invalid cache key %q", entry.Key)
	}
	row := cacheRow{Key: entry.Key, Values: entry.Values, StoredAt: entry.StoredAt.UTC()}
	return b.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
}

// List returns every entry ordered by key
func (b *SQLiteBackend) List() ([]Entry, error) {
	var rows []cacheRow
	if err := b.db.Order("cache_key").Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntry())
	}
	return entries, nil
}

// Close closes the database
func (b *SQLiteBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r cacheRow) toEntry() Entry {
	values := r.Values
	if values == nil {
		values = []string{}
	}
	return Entry{Key: r.Key, Values: values, StoredAt: r.StoredAt}
}
