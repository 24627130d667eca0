package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// runTx wraps fn in a database transaction. With a nil db (unit tests against
// stub repositories) fn runs directly with a nil tx, so repository stubs must
// tolerate a nil *gorm.DB.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// sortedUnique returns the ids deduplicated and in ascending order. Every
// unit of work that locks more than one variant row acquires the locks in
// this order, so two concurrent transactions can never hold locks the other
// one is waiting for.
func sortedUnique(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// AlertDispatcher pushes an alert onto the outbound notification queue after
// the surrounding transaction has committed. Implemented by worker.Dispatcher;
// a nil dispatcher disables outbound alerts without touching the in-app feed.
type AlertDispatcher interface {
	EnqueueAlert(ctx context.Context, title, message string)
}
