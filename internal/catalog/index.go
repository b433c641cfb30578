package catalog

import "fmt"

// NotFoundError reports a reference that resolves to no catalog entity.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entity %q not found in catalog", e.Ref)
}

// DuplicateRefError reports two loaded entities sharing one canonical
// reference. The catalog is expected to deduplicate; if it did not, picking
// either entity would be arbitrary, so index construction fails instead.
type DuplicateRefError struct {
	Ref string
}

func (e *DuplicateRefError) Error() string {
	return fmt.Sprintf("duplicate entity reference %q in catalog response", e.Ref)
}

// Index is a read-only reference lookup over one loaded entity set.
type Index struct {
	entities []Entity
	byRef    map[string]Entity
}

// NewIndex builds the reference index. Duplicate canonical references fail
// construction.
func NewIndex(entities []Entity) (*Index, error) {
	idx := &Index{
		entities: entities,
		byRef:    make(map[string]Entity, len(entities)),
	}
	for _, e := range entities {
		ref := e.Ref()
		if _, exists := idx.byRef[ref]; exists {
			return nil, &DuplicateRefError{Ref: ref}
		}
		idx.byRef[ref] = e
	}
	return idx, nil
}

// Lookup resolves a canonical reference. A miss returns *NotFoundError,
// which callers must treat as a recoverable condition.
func (idx *Index) Lookup(ref string) (Entity, error) {
	e, ok := idx.byRef[ref]
	if !ok {
		return Entity{}, &NotFoundError{Ref: ref}
	}
	return e, nil
}

// Filter returns entities matching pred, preserving load order.
func (idx *Index) Filter(pred func(Entity) bool) []Entity {
	out := make([]Entity, 0)
	for _, e := range idx.entities {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}
