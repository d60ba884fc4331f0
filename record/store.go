package record

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("record id already exists")

	// ErrShortRow is returned by a Codec for a row with too few fields to
	// form a record. Such rows are skipped on read.
	ErrShortRow = errors.New("row has too few fields")
)

// FieldError reports a stored field that could not be parsed and was replaced
// by a default. The record carrying it is still returned.
type FieldError struct {
	Field   string
	Value   string
	Default string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: invalid value %q, using %s", e.Field, e.Value, e.Default)
}

// Codec maps a record type to and from its positional fields.
type Codec[T any] interface {
	// Header is the column description written as the file's first line.
	Header() string
	Encode(rec T) []string
	// Decode builds a record from fields. It returns ErrShortRow to skip the
	// row, or a *FieldError alongside a usable record when a field fell back
	// to its default.
	Decode(fields []string) (T, error)
	ID(rec T) string
	WithID(rec T, id string) T
}

// Locator resolves a collection file name to a path.
type Locator interface {
	Resolve(name string) string
}

// Store is a collection of records persisted in one delimited file. Every
// mutation reads the whole file, applies the change in memory and rewrites
// the whole file. The mutex serializes callers within this process only;
// another process editing the file concurrently can still lose updates.
type Store[T any] struct {
	mu    sync.Mutex
	name  string
	loc   Locator
	codec Codec[T]
	log   *zap.Logger
}

// NewStore returns a store for the file called name, resolved through loc on
// every operation.
func NewStore[T any](name string, loc Locator, codec Codec[T], log *zap.Logger) *Store[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store[T]{
		name:  name,
		loc:   loc,
		codec: codec,
		log:   log.With(zap.String("collection", name)),
	}
}

// Name returns the collection file name.
func (s *Store[T]) Name() string { return s.name }

// Path returns the path the store currently resolves to.
func (s *Store[T]) Path() string { return s.loc.Resolve(s.name) }

// List returns all records in file order. A missing file is an empty list.
func (s *Store[T]) List() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(s.Path())
}

// Find returns the record with the given id.
func (s *Store[T]) Find(id string) (T, error) {
	var zero T
	recs, err := s.List()
	if err != nil {
		return zero, err
	}
	i := s.indexOf(recs, id)
	if i < 0 {
		return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return recs[i], nil
}

// Tx loads all records, passes them to fn and writes back the slice fn
// returns. Nothing is written if fn returns an error.
func (s *Store[T]) Tx(fn func(recs []T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path()
	recs, err := s.load(path)
	if err != nil {
		return err
	}
	out, err := fn(recs)
	if err != nil {
		return err
	}
	return s.save(path, out)
}

// Create appends rec, assigning a new id if it has none. check, if non-nil,
// sees the current records first and can veto the insert.
func (s *Store[T]) Create(rec T, check func(recs []T) error) (T, error) {
	var created T
	err := s.Tx(func(recs []T) ([]T, error) {
		if check != nil {
			if err := check(recs); err != nil {
				return nil, err
			}
		}
		id := s.codec.ID(rec)
		if id == "" {
			rec = s.codec.WithID(rec, uuid.New().String())
		} else if s.indexOf(recs, id) >= 0 {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		created = rec
		return append(recs, rec), nil
	})
	return created, err
}

// Update replaces the record with the given id in place. The id is kept.
func (s *Store[T]) Update(id string, rec T) (T, error) {
	rec = s.codec.WithID(rec, id)
	err := s.Tx(func(recs []T) ([]T, error) {
		i := s.indexOf(recs, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		recs[i] = rec
		return recs, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

// Delete removes the record with the given id.
func (s *Store[T]) Delete(id string) error {
	return s.Tx(func(recs []T) ([]T, error) {
		i := s.indexOf(recs, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return slices.Delete(recs, i, i+1), nil
	})
}

func (s *Store[T]) indexOf(recs []T, id string) int {
	return slices.IndexFunc(recs, func(r T) bool { return s.codec.ID(r) == id })
}

func (s *Store[T]) load(path string) ([]T, error) {
	rows, err := ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	recs := make([]T, 0, len(rows))
	for _, row := range rows {
		rec, err := s.codec.Decode(row.Fields)
		if err != nil {
			var fe *FieldError
			if !errors.As(err, &fe) {
				s.log.Warn("skipping malformed row",
					zap.String("path", path), zap.Int("line", row.Line), zap.Error(err))
				continue
			}
			s.log.Warn("stored field fell back to default",
				zap.String("path", path), zap.Int("line", row.Line), zap.Error(err))
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *Store[T]) save(path string, recs []T) error {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = s.codec.Encode(r)
	}
	if err := WriteFile(path, s.codec.Header(), rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.log.Debug("collection written", zap.String("path", path), zap.Int("records", len(recs)))
	return nil
}
