package cache

import (
	"encoding/json"
	"time"

	"github.com/moviemend/moviemend/internal/errors"
	"github.com/moviemend/moviemend/internal/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cache namespaces. Namespaces have independent lifecycles: writes in one
// never touch records in another.
const (
	NamespaceWatchlist    = "watchlist"
	NamespaceMovieDetails = "movie-details"
)

// collectionKey is the reserved key a namespace's full collection snapshot is
// stored under.
const collectionKey = "_collection"

// Record is one serialized cache entry. The value is JSON; undecodable
// payloads are treated as cache misses on read.
type Record struct {
	Namespace string    `gorm:"primaryKey;type:varchar(64)" json:"namespace"`
	Key       string    `gorm:"primaryKey;type:varchar(128)" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	FetchedAt time.Time `gorm:"not null" json:"fetched_at"`
}

// TableName specifies the table name for Record
func (Record) TableName() string {
	return "cache_records"
}

// Store is the local durable cache: a namespaced key-value layer over the
// embedded database. The cache is an optimization, never a correctness
// dependency, so every storage failure is logged and degrades to a miss
// instead of propagating.
type Store struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

// NewStore creates a cache store backed by the given database handle
func NewStore(db *gorm.DB, log *logger.Logger) *Store {
	if log == nil {
		log = logger.CacheLogger()
	}
	return &Store{
		db:  db,
		log: log,
		now: time.Now,
	}
}

// WriteCollection replaces the entire stored collection for a namespace with
// the given records. Full-replace semantics: the cached collection is a
// snapshot of the last seen server state, not a merge target.
func (s *Store) WriteCollection(namespace string, records interface{}) {
	s.write(namespace, collectionKey, records)
}

// ReadCollection loads the last written collection for a namespace into out.
// Returns false when nothing usable is stored; absence is not an error.
func (s *Store) ReadCollection(namespace string, out interface{}) bool {
	hit, _ := s.read(namespace, collectionKey, out)
	return hit
}

// WriteEntity upserts a single keyed record within a namespace
func (s *Store) WriteEntity(namespace, key string, value interface{}) {
	s.write(namespace, key, value)
}

// ReadEntity loads a single keyed record into out. The second return value is
// the time the record was fetched, for staleness decisions.
func (s *Store) ReadEntity(namespace, key string, out interface{}) (bool, time.Time) {
	return s.read(namespace, key, out)
}

// Clear wipes the given namespaces, or all cache state when none are given
func (s *Store) Clear(namespaces ...string) {
	var err error
	if len(namespaces) == 0 {
		err = s.db.Where("1 = 1").Delete(&Record{}).Error
	} else {
		err = s.db.Where("namespace IN ?", namespaces).Delete(&Record{}).Error
	}
	if err != nil {
		s.log.WithFields(map[string]interface{}{
			"namespaces": namespaces,
		}).Error("Failed to clear cache", errors.CacheError("cache clear failed", err))
	}
}

// CollectionFetchedAt returns when a namespace's collection snapshot was last
// written, or false if no snapshot exists.
func (s *Store) CollectionFetchedAt(namespace string) (time.Time, bool) {
	var record Record
	err := s.db.Where("namespace = ? AND key = ?", namespace, collectionKey).First(&record).Error
	if err != nil {
		return time.Time{}, false
	}
	return record.FetchedAt, true
}

func (s *Store) write(namespace, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		s.log.WithFields(map[string]interface{}{
			"namespace": namespace,
			"key":       key,
		}).Error("Failed to serialize cache value", errors.CacheError("cache serialization failed", err))
		return
	}

	record := Record{
		Namespace: namespace,
		Key:       key,
		Value:     string(payload),
		FetchedAt: s.now().UTC(),
	}

	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		UpdateAll: true,
	}).Create(&record).Error
	if err != nil {
		s.log.WithFields(map[string]interface{}{
			"namespace": namespace,
			"key":       key,
		}).Error("Failed to write cache record", errors.CacheError("cache write failed", err))
	}
}

func (s *Store) read(namespace, key string, out interface{}) (bool, time.Time) {
	var record Record
	err := s.db.Where("namespace = ? AND key = ?", namespace, key).First(&record).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			s.log.WithFields(map[string]interface{}{
				"namespace": namespace,
				"key":       key,
			}).Error("Failed to read cache record", errors.CacheError("cache read failed", err))
		}
		return false, time.Time{}
	}

	if err := json.Unmarshal([]byte(record.Value), out); err != nil {
		// Stored payload no longer matches the current schema; treat it as
		// absent rather than surfacing a corrupt record.
		s.log.WithFields(map[string]interface{}{
			"namespace": namespace,
			"key":       key,
		}).Warn("Discarding undecodable cache record")
		return false, time.Time{}
	}

	return true, record.FetchedAt
}
