// Package quota decides whether a tenant may create another note based on its
// subscription plan and current note count.
package quota

import (
	"errors"

	"notes-service/internal/model"
)

// DefaultFreeNoteLimit is the FREE-plan cap used when no limit is configured
const DefaultFreeNoteLimit = 3

// ErrQuotaExceeded is returned when a FREE tenant has reached its note limit
var ErrQuotaExceeded = errors.New("note limit reached for the FREE plan")

// Policy maps a tenant's plan and note count to an allow/deny decision.
// PRO tenants are never limited.
type Policy struct {
	FreeNoteLimit int64
}

// NewPolicy builds a Policy, falling back to the default limit when the
// configured limit is not positive
func NewPolicy(freeNoteLimit int64) Policy {
	if freeNoteLimit <= 0 {
		freeNoteLimit = DefaultFreeNoteLimit
	}
	return Policy{FreeNoteLimit: freeNoteLimit}
}

// Allow reports whether a tenant on the given plan with the given note count
// may create one more note. Returns ErrQuotaExceeded when the FREE limit is
// reached. Unknown plans are treated as FREE.
func (p Policy) Allow(plan string, noteCount int64) error {
	if plan == model.PlanPro {
		return nil
	}
	if noteCount >= p.FreeNoteLimit {
		return ErrQuotaExceeded
	}
	return nil
}
