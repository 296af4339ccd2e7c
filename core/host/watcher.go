package host

import (
	"context"
	"sync"
)

const watchBuffer = 100

// watcher keeps the list of channels listening to the receipts.
type watcher struct {
	sync.RWMutex

	observers map[chan Receipt]struct{}
}

func newWatcher() *watcher {
	return &watcher{
		observers: make(map[chan Receipt]struct{}),
	}
}

// Watch returns a channel populated with the receipts of the invocations until
// the context is done.
func (w *watcher) Watch(ctx context.Context) <-chan Receipt {
	ch := make(chan Receipt, watchBuffer)

	w.Lock()
	w.observers[ch] = struct{}{}
	w.Unlock()

	go func() {
		<-ctx.Done()

		w.Lock()
		delete(w.observers, ch)
		close(ch)
		w.Unlock()
	}()

	return ch
}

// notify sends the receipt to every observer. Receipts are dropped for the
// observers whose buffer is full.
func (w *watcher) notify(receipt Receipt) {
	w.RLock()
	defer w.RUnlock()

	for ch := range w.observers {
		select {
		case ch <- receipt:
		default:
		}
	}
}

// Len returns the number of observers.
func (w *watcher) Len() int {
	w.RLock()
	defer w.RUnlock()

	return len(w.observers)
}
