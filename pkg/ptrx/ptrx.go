// Package ptrx has helpers for optional values expressed as pointers.
package ptrx

import "time"

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Value dereferences p, returning the zero value for nil.
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// ValueOr dereferences p, returning def for nil.
func ValueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func String(v string) *string { return &v }
func Int(v int) *int          { return &v }

// Time returns a pointer to t in UTC.
func Time(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}

// NonEmpty returns nil for "" and a pointer otherwise.
func NonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
