// Package notify sends dose confirmation e-mails. Delivery is best effort:
// failures are logged by the Dispatcher and never retried.
package notify

import (
	"context"

	"github.com/dmitrijs2005/imunetrack/internal/timex"
)

// DoseConfirmation is what the recipient is told about a recorded dose.
type DoseConfirmation struct {
	Recipient   string
	UserName    string
	VaccineName string
	DoseNumber  int
	Date        timex.Date
}

type Notifier interface {
	SendDoseConfirmation(ctx context.Context, c DoseConfirmation) error
}

// NopNotifier drops every confirmation. It is used when no SMTP host is set.
type NopNotifier struct{}

func (NopNotifier) SendDoseConfirmation(context.Context, DoseConfirmation) error { return nil }
