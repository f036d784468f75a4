package ukv

import (
	"context"

	"github.com/ukvdb/ukv/collection"
)

// CollectionOpen returns name's id, creating it if necessary. config is
// reserved for backend-specific collection options; the core registry
// does not interpret it.
func (db *DB) CollectionOpen(name string, config map[string]any) collection.ID {
	return db.registry.Open(name, config)
}

// CollectionList returns the names of every non-default collection.
func (db *DB) CollectionList() []string {
	return db.registry.List()
}

// CollectionRemove removes a named collection entirely, or clears the
// default collection's keys if name is empty (the default collection
// itself can never be removed).
func (db *DB) CollectionRemove(ctx context.Context, name string) error {
	res, ok := db.registry.Remove(name)
	if !ok {
		return newError(KindNotFound, "CollectionRemove", nil)
	}
	if res.Dropped {
		return db.backend.RemoveCollection(ctx, res.ID)
	}
	return db.backend.ClearCollection(ctx, res.ID)
}
