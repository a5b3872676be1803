package domain

import "time"

// The lifecycle guards below are the single source of truth for legal
// state changes:
//
//	pending -> paid
//	pending -> overdue -> paid
//	pending|overdue -> canceled (flag, keeps status)
//
// Paid is terminal, and a paid charge can never be canceled: canceling
// must not erase a completed payment.

// CanConfirmPayment reports whether the charge may transition to paid.
func (c Charge) CanConfirmPayment() error {
	if c.Canceled {
		return ErrInvalidTransition
	}
	switch c.Status {
	case ChargeStatusPending, ChargeStatusOverdue:
		return nil
	default:
		return ErrInvalidTransition
	}
}

// CanCancel reports whether the charge may be soft-deleted.
func (c Charge) CanCancel() error {
	if c.Canceled || c.Status == ChargeStatusPaid {
		return ErrInvalidTransition
	}
	return nil
}

// CanEdit reports whether user edits are still permitted.
func (c Charge) CanEdit() error {
	if c.Canceled || c.Status == ChargeStatusPaid {
		return ErrInvalidTransition
	}
	return nil
}

// OverdueAsOf reports whether the charge should be promoted to overdue
// on the given calendar date. Promotion is valid only from pending; the
// repository's guarded UPDATE makes repeated promotion a no-op.
func (c Charge) OverdueAsOf(today time.Time) bool {
	if c.Canceled || c.Status != ChargeStatusPending {
		return false
	}
	return c.DueDate.Before(today)
}
