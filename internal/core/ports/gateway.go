package ports

import "context"

// Record is the untyped row shape exchanged with the remote store. Typed
// repositories apply explicit defaults when mapping records to domain types.
type Record map[string]any

// Filter selects records by field value. Values may themselves be maps to
// express range operators understood by the backing store.
type Filter map[string]any

// Page bounds a Get call. Zero values mean "first page, store default limit".
type Page struct {
	Page  int
	Limit int
}

// Gateway is the generic collection CRUD surface of the remote data store.
// Implementations wrap every call in their own timeout; the Retrier decorator
// adds bounded retries for transient failures on top.
type Gateway interface {
	Get(ctx context.Context, collection string, filter Filter, page Page) ([]Record, int64, error)
	Post(ctx context.Context, collection string, rec Record) (Record, error)
	Put(ctx context.Context, collection, id string, update Record) (Record, error)
	Delete(ctx context.Context, collection, id string) (bool, error)
}
