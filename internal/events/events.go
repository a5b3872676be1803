package events

// Charge lifecycle event types recorded in the outbox.
const (
	EventChargeCreated    = "charge.created"
	EventChargePaid       = "charge.paid"
	EventChargeCanceled   = "charge.canceled"
	EventChargeOverdue    = "charge.overdue"
	EventChargeSpawned    = "charge.spawned"
	EventNotificationSent = "notification.sent"
)

// ChargePayload captures the minimal data consumers need to react to a
// charge event.
type ChargePayload struct {
	ChargeID      string `json:"charge_id"`
	ClientID      string `json:"client_id"`
	Status        string `json:"status,omitempty"`
	ParentID      string `json:"parent_charge_id,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p ChargePayload) ToMap() map[string]any {
	payload := map[string]any{
		"charge_id": p.ChargeID,
		"client_id": p.ClientID,
	}
	if p.Status != "" {
		payload["status"] = p.Status
	}
	if p.ParentID != "" {
		payload["parent_charge_id"] = p.ParentID
	}
	if p.TransactionID != "" {
		payload["transaction_id"] = p.TransactionID
	}
	return payload
}

// NotificationPayload captures the minimal data for notification events.
type NotificationPayload struct {
	NotificationID string `json:"notification_id"`
	ChargeID       string `json:"charge_id"`
	Type           string `json:"notification_type"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p NotificationPayload) ToMap() map[string]any {
	return map[string]any{
		"notification_id":   p.NotificationID,
		"charge_id":         p.ChargeID,
		"notification_type": p.Type,
	}
}
