// Package presenter renders published snapshots. Exactly one presenter is
// active per run; it stops the store when it returns.
package presenter

import (
	"context"
	"time"
)

// pollInterval bounds how long a published snapshot waits before a
// presenter picks it up.
const pollInterval = 100 * time.Millisecond

type Presenter interface {
	// Run blocks until the user quits, ctx is cancelled, the store is
	// stopped or the presenter fails.
	Run(ctx context.Context) error
}
