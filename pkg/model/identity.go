package model

// HasIdentity is implemented by anything that refers to a server resource
// by id, such as records and plain ids. Label and folder assignment accept
// it so callers can pass either.
type HasIdentity interface {
	ID() string
}

// ID is a bare resource id.
type ID string

// ID implements HasIdentity.
func (id ID) ID() string { return string(id) }

// IDs returns the ids of items, skipping empty ones.
func IDs(items ...HasIdentity) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if id := item.ID(); id != "" {
			out = append(out, id)
		}
	}
	return out
}

var (
	_ HasIdentity = ID("")
	_ HasIdentity = (*Record)(nil)
)
