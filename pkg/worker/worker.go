package worker

import "context"

// Worker is a background task owned by the server process. Start must not
// block; Stop waits for the task to finish.
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
}
