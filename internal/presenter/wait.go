package presenter

import (
	"context"
	"time"

	"codeberg.org/mutker/mysqlstatus/internal/model"
	"codeberg.org/mutker/mysqlstatus/internal/store"
)

// next blocks until an unread snapshot is available. It returns false once
// ctx is cancelled or the store is stopped.
func next(ctx context.Context, st *store.Store) (model.Snapshot, bool) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if snap, ok := st.Take(); ok {
			return snap, true
		}

		select {
		case <-ctx.Done():
			return model.Snapshot{}, false
		case <-st.Done():
			return model.Snapshot{}, false
		case <-st.Updates():
		case <-ticker.C:
		}
	}
}
