package dashboard

import (
	"context"
	"time"

	"github.com/rpggio/gigboard/internal/domain/activity"
)

// ActivityLogger records applied actions.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}

// Recorder observes dispatched actions.
type Recorder interface {
	ObserveAction(kind string, changed bool, elapsed time.Duration)
}
