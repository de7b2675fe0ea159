package clock

import (
	"sync"
	"time"

	"github.com/sourcegraph/conc"
)

// Ticker invokes fn once per interval while started. Start and Stop
// are idempotent; Stop cancels the goroutine rather than pausing it
// and waits for it to exit, so fn never fires after Stop returns.
type Ticker struct {
	interval time.Duration
	fn       func()

	mu   sync.Mutex
	stop chan struct{}
	wg   *conc.WaitGroup
}

func NewTicker(interval time.Duration, fn func()) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{interval: interval, fn: fn}
}

func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}

	stop := make(chan struct{})
	t.stop = stop
	t.wg = conc.NewWaitGroup()
	t.wg.Go(func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				t.fn()
			}
		}
	})
}

func (t *Ticker) Stop() {
	t.mu.Lock()
	stop := t.stop
	wg := t.wg
	t.stop = nil
	t.wg = nil
	t.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	wg.Wait()
}

func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}
