package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/stockledger/services/inventory/domain/events"
)

func TestAuditEvent_JSONRoundTrip(t *testing.T) {
	original := events.AuditEvent{
		EventID:    uuid.MustParse("550e8400-e29b-41d4-a716-446655440001"),
		Version:    1,
		Action:     events.ActionAdd,
		Succeeded:  true,
		ItemID:     uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Detail:     "Mango qty=67 price=120.00",
		OccurredAt: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var decoded events.AuditEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, original)
	}
}

func TestAuditEvent_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(events.AuditEvent{EventID: uuid.New(), Action: events.ActionRemove, OccurredAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}

	for _, field := range []string{"event_id", "version", "action", "succeeded", "detail", "occurred_at"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("expected JSON field %q not found in: %s", field, data)
		}
	}
}

func TestAuditEvent_LogAction(t *testing.T) {
	ok := events.AuditEvent{Action: events.ActionUpdateQuantity, Succeeded: true}
	if ok.LogAction() != "update_quantity" {
		t.Errorf("unexpected action %q", ok.LogAction())
	}
	failed := events.AuditEvent{Action: events.ActionUpdateQuantity}
	if failed.LogAction() != "update_quantity_failed" {
		t.Errorf("unexpected action %q", failed.LogAction())
	}
}

func TestTopicInventoryAudit_Value(t *testing.T) {
	if events.TopicInventoryAudit != "inventory.audit" {
		t.Errorf("expected %q, got %q", "inventory.audit", events.TopicInventoryAudit)
	}
}
