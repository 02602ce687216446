package pipeline

import (
	"context"
	"sync"
)

// Task is a run executing in the background.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}

	once    sync.Once
	outcome *Outcome
	err     error
}

// Start executes Run on its own goroutine. The caller stays responsive and can stop
// the run at any time with Stop.
func (p *Pipeline) Start(ctx context.Context, req Request) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		defer cancel()
		t.outcome, t.err = p.Run(ctx, req)
	}()

	return t
}

// Stop asks the run to stop, it does not wait for it.
func (t *Task) Stop() {
	t.once.Do(t.cancel)
}

// Done is closed once the run is over.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the run is over and returns its result.
func (t *Task) Wait() (*Outcome, error) {
	<-t.done
	return t.outcome, t.err
}
