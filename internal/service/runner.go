package service

import (
	"context"
	"time"
)

// Run drives RunOnce on the given tick until ctx is canceled. Runs are
// strictly sequential; a slow pass simply delays the next tick delivery, so
// two reconcile passes are never in flight at once.
func (r *ReconcilerService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.RunOnce(ctx)
		}
	}
}
