// Package registry binds stable string tags to factories for default
// construction and for importing persisted {type, data} records.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gekko3d/ember/emberrt/rt/core"
)

// Record is the persisted shape of one animation or effect. Disabled is only
// written for entries switched off in the UI.
type Record struct {
	Type     string          `json:"type"`
	Data     json.RawMessage `json:"data"`
	Disabled bool            `json:"disabled,omitempty"`
}

// NewRecord marshals params into a tagged record.
func NewRecord(tag string, params any) (Record, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return Record{}, fmt.Errorf("export %q: %w", tag, err)
	}
	return Record{Type: tag, Data: data}, nil
}

// NewControlledRecord is NewRecord for a list entry, keeping its enabled flag.
func NewControlledRecord(tag string, params any, ctl core.Control) (Record, error) {
	rec, err := NewRecord(tag, params)
	rec.Disabled = !ctl.Enabled
	return rec, err
}

// ImportError reports a malformed payload for a tag the registry knows.
type ImportError struct {
	Tag string
	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %q: %v", e.Tag, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

type Factory[T any] struct {
	Tag    string
	New    func() T
	Import func(data json.RawMessage) (T, error)
}

// Registry is an ordered factory table. Lookups scan linearly and the first
// matching tag wins.
type Registry[T any] struct {
	factories []Factory[T]
}

func New[T any]() *Registry[T] {
	return &Registry[T]{}
}

// Register appends a factory. It panics on an empty or duplicate tag.
func (r *Registry[T]) Register(f Factory[T]) *Registry[T] {
	if f.Tag == "" {
		panic("registry: empty tag")
	}
	if _, ok := r.Lookup(f.Tag); ok {
		panic("registry: duplicate registration for " + f.Tag)
	}
	r.factories = append(r.factories, f)
	return r
}

func (r *Registry[T]) Lookup(tag string) (Factory[T], bool) {
	for _, f := range r.factories {
		if f.Tag == tag {
			return f, true
		}
	}
	return Factory[T]{}, false
}

func (r *Registry[T]) Tags() []string {
	tags := make([]string, len(r.factories))
	for i, f := range r.factories {
		tags[i] = f.Tag
	}
	return tags
}

// Create default-constructs the entry registered under tag.
func (r *Registry[T]) Create(tag string) (T, bool) {
	f, ok := r.Lookup(tag)
	if !ok {
		var zero T
		return zero, false
	}
	return f.New(), true
}

// ImportAll imports records in order. Unmatched tags are reported through
// skipped and left out; a malformed payload aborts with an *ImportError.
// Entries that carry a core.Control come back disabled when their record is.
func (r *Registry[T]) ImportAll(records []Record, skipped func(tag string)) ([]T, error) {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		f, ok := r.Lookup(rec.Type)
		if !ok {
			if skipped != nil {
				skipped(rec.Type)
			}
			continue
		}
		item, err := f.Import(rec.Data)
		if err != nil {
			var ie *ImportError
			if errors.As(err, &ie) {
				return nil, err
			}
			return nil, &ImportError{Tag: rec.Type, Err: err}
		}
		if c, ok := any(item).(core.Controlled); ok && rec.Disabled {
			c.Controls().Enabled = false
		}
		out = append(out, item)
	}
	return out, nil
}

// Decode is the common Import body: JSON over a copy of defaults, then
// validation.
func Decode[P any](data json.RawMessage, defaults P, validate func(*P) error) (P, error) {
	params := defaults
	if len(data) > 0 {
		if err := json.Unmarshal(data, &params); err != nil {
			return params, err
		}
	}
	if validate != nil {
		if err := validate(&params); err != nil {
			return params, err
		}
	}
	return params, nil
}
