package domain

import "encoding/json"

// Entity is anything addressable by id in the marketplace API.
type Entity interface {
	EntityID() string
}

// Ref models the API's polymorphic reference fields, which arrive either
// as a bare id string or as a fully populated object depending on the
// endpoint. Decoding normalizes both shapes: ID is always set, Value is
// non-nil only when the object came resolved.
type Ref[T Entity] struct {
	ID    string
	Value *T
}

// ResolvedRef builds a resolved reference from a value.
func ResolvedRef[T Entity](v T) Ref[T] {
	return Ref[T]{ID: v.EntityID(), Value: &v}
}

// IDRef builds a bare reference.
func IDRef[T Entity](id string) Ref[T] {
	return Ref[T]{ID: id}
}

func (r Ref[T]) Resolved() bool { return r.Value != nil }

func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*r = Ref[T]{}
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.Value = &v
	r.ID = v.EntityID()
	return nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Value != nil {
		return json.Marshal(r.Value)
	}
	return json.Marshal(r.ID)
}
