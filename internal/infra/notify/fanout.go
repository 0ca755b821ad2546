package notify

import (
	"context"
	"errors"

	"github.com/solarcrm/pipeline-crm/internal/usecase"
)

// Fanout delivers to every sink. A failing sink does not stop the others;
// their errors are joined.
type Fanout []usecase.Notifier

func (f Fanout) Notify(ctx context.Context, n usecase.Notification) error {
	var errs []error
	for _, sink := range f {
		if sink == nil {
			continue
		}
		if err := sink.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
