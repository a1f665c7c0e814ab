package entities

import "encoding/json"

// Ref is a relation to another entity. The service sends either a bare
// {"id": n} pointer or the full embedded record; both land here.
// A zero Ref means the relation was absent.
type Ref[T any] struct {
	ID     *int64
	Record *T
}

// RefTo builds an id-only reference.
func RefTo[T any](id int64) Ref[T] {
	return Ref[T]{ID: &id}
}

// Present reports whether the relation carried anything at all.
func (r Ref[T]) Present() bool {
	return r.ID != nil || r.Record != nil
}

// IDValue returns the referenced id, if one was sent.
func (r Ref[T]) IDValue() (int64, bool) {
	if r.ID == nil {
		return 0, false
	}
	return *r.ID, true
}

// Matches reports whether the relation points at id.
func (r Ref[T]) Matches(id int64) bool {
	got, ok := r.IDValue()
	return ok && got == id
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	switch {
	case r.Record != nil:
		return json.Marshal(r.Record)
	case r.ID != nil:
		return json.Marshal(struct {
			ID int64 `json:"id"`
		}{ID: *r.ID})
	default:
		return []byte("null"), nil
	}
}
