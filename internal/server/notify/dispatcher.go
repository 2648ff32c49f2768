package notify

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/imunetrack/internal/logging"
)

// Dispatcher hands confirmations to a Notifier on background goroutines so
// that a slow or failing mail server never delays or fails the request that
// produced them.
type Dispatcher struct {
	notifier Notifier
	log      logging.Logger
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewDispatcher(n Notifier, log logging.Logger, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{notifier: n, log: log, timeout: timeout}
}

// Dispatch returns immediately. The send keeps the values of ctx but not its
// cancellation, and is bounded by the dispatcher timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, c DoseConfirmation) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.notifier.SendDoseConfirmation(ctx, c); err != nil {
			d.log.Error(ctx, "dose confirmation not sent", "recipient", c.Recipient, "vaccine", c.VaccineName, "error", err)
			return
		}
		d.log.Info(ctx, "dose confirmation sent", "recipient", c.Recipient, "vaccine", c.VaccineName)
	}()
}

// Wait blocks until in-flight sends finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
