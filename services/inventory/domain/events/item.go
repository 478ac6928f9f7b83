package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicInventoryAudit is the Watermill topic carrying one AuditEvent per
// mutation attempt against the inventory.
const TopicInventoryAudit = "inventory.audit"

// Audited actions.
const (
	ActionAdd            = "add"
	ActionUpdateQuantity = "update_quantity"
	ActionRemove         = "remove"
	ActionLoadSnapshot   = "load_snapshot"
	ActionSeed           = "seed"
)

// AuditEvent is published after every mutation attempt, successful or not.
type AuditEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	Action     string    `json:"action"`
	Succeeded  bool      `json:"succeeded"`
	ItemID     uuid.UUID `json:"item_id,omitempty"`
	Detail     string    `json:"detail"`
	OccurredAt time.Time `json:"occurred_at"`
}

// LogAction returns the action as written to the audit log: failed attempts
// carry a "_failed" suffix.
func (e AuditEvent) LogAction() string {
	if e.Succeeded {
		return e.Action
	}
	return e.Action + "_failed"
}
