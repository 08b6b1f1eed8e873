package engine

import (
	"context"
	"log"
	"sync"
	"time"
)

// Reconciler runs the settle-delay reloads that follow remote mutations. A
// submitted transaction needs a couple of seconds before the ledger is
// queryable, so the engine asks for a reload after a delay instead of
// blocking on finality.
type Reconciler struct {
	requests chan time.Duration
	reload   func()
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewReconciler(reload func()) *Reconciler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Reconciler{
		requests: make(chan time.Duration, 16),
		reload:   reload,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (r *Reconciler) Start() {
	r.wg.Add(1)
	go r.loop()
}

func (r *Reconciler) Stop() {
	r.cancel()
	r.wg.Wait()
}

// ScheduleReload queues a reload to fire after delay. Dropping a request
// when the queue is full is safe: some earlier reload is already pending
// and will pick up the same state.
func (r *Reconciler) ScheduleReload(delay time.Duration) {
	select {
	case r.requests <- delay:
	default:
		log.Printf("Reconciler queue full, dropping reload request")
	}
}

func (r *Reconciler) loop() {
	defer r.wg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		case delay := <-r.requests:
			timer := time.NewTimer(delay)
			select {
			case <-r.ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				r.reload()
			}
		}
	}
}
