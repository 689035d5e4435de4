// Package catalog loads the laptop table once at startup and serves read-only snapshots of it.
package catalog

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/hyperjump/lapbot/internal/models"
	"go.uber.org/zap"
)

// ErrDataLoad marks every error caused by a source table that could not be loaded.
var ErrDataLoad = errors.New("data load failed")

// LoadError is the permanent failure of a Store. It matches ErrDataLoad with errors.Is.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDataLoad.
func (e *LoadError) Is(target error) bool { return target == ErrDataLoad }

// Store holds the listings of one source table. After Open it is either ready,
// with an immutable snapshot, or in a permanent error state. It never retries.
type Store struct {
	path     string
	sheet    string
	table    string
	logger   *zap.Logger
	listings []*models.Listing
	working  []*models.Listing
	err      error
	stale    atomic.Bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used while loading.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithSheet selects the worksheet read from .xlsx sources.
func WithSheet(sheet string) Option {
	return func(s *Store) { s.sheet = sheet }
}

// WithTable selects the table read from SQLite sources.
func WithTable(table string) Option {
	return func(s *Store) { s.table = table }
}

// Open loads the table at path. It never returns nil: when loading fails the
// store is returned in its error state and Err reports why.
func Open(path string, opts ...Option) *Store {
	s := &Store{path: path, table: "laptops", logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	listings, err := s.load()
	if err != nil {
		s.err = &LoadError{Path: path, Err: err}
		s.logger.Error("listing table failed to load", zap.String("path", path), zap.Error(err))
		return s
	}
	return newStore(s, listings)
}

// FromListings builds a ready store over listings, which must be in natural order.
func FromListings(listings []*models.Listing) *Store {
	return newStore(&Store{logger: zap.NewNop()}, listings)
}

func newStore(s *Store, listings []*models.Listing) *Store {
	s.listings = listings
	s.working = make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Eligible() {
			s.working = append(s.working, l)
		}
	}
	s.logger.Info("listing table loaded",
		zap.String("path", s.path),
		zap.Int("listings", len(s.listings)),
		zap.Int("eligible", len(s.working)),
	)
	return s
}

// Err returns the load error, or nil when the store is ready.
func (s *Store) Err() error { return s.err }

// Path returns the source path.
func (s *Store) Path() string { return s.path }

// Listings returns every loaded row, including those excluded from queries.
// The slice is shared and must not be modified.
func (s *Store) Listings() []*models.Listing { return s.listings }

// Working returns the listings that have both a price and a model label, in natural order.
// The slice is shared and must not be modified.
func (s *Store) Working() []*models.Listing { return s.working }

// Stale reports whether the source file changed on disk after it was loaded.
func (s *Store) Stale() bool { return s.stale.Load() }

// MarkStale records that the source changed; the loaded snapshot is kept.
func (s *Store) MarkStale() { s.stale.Store(true) }

// Manufacturers returns the distinct manufacturers of set in first-seen order.
func Manufacturers(set []*models.Listing) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range set {
		m := l.Manufacturer()
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// Summary describes the store for status output.
type Summary struct {
	Source        string   `json:"source"`
	Listings      int      `json:"listings"`
	Working       int      `json:"working"`
	Manufacturers []string `json:"manufacturers"`
	LoadError     string   `json:"load_error,omitempty"`
	Stale         bool     `json:"stale"`
}

// Summary reports counts, manufacturers and the load error, if any.
func (s *Store) Summary() Summary {
	sum := Summary{
		Source:        s.path,
		Listings:      len(s.listings),
		Working:       len(s.working),
		Manufacturers: Manufacturers(s.working),
		Stale:         s.Stale(),
	}
	if s.err != nil {
		sum.LoadError = s.err.Error()
	}
	return sum
}
