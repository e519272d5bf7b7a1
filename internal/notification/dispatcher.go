package notification

import (
	"encoding/json"
	"log"
)

// Event names pushed to connected clients after workflow transitions.
const (
	EventApprovalCreated    = "approval.created"
	EventApprovalApproved   = "approval.approved"
	EventApprovalRejected   = "approval.rejected"
	EventAdjustmentCreated  = "adjustment.created"
	EventAdjustmentApplied  = "adjustment.applied"
	EventAdjustmentRejected = "adjustment.rejected"
	EventLowStock           = "item.low_stock"
)

// Dispatcher is the fire-and-forget notification sink the services publish
// into. A nil *Dispatcher is safe to publish on, which keeps tests and tools
// free of websocket plumbing.
type Dispatcher struct {
	hub *Hub
}

func NewDispatcher(hub *Hub) *Dispatcher {
	return &Dispatcher{hub: hub}
}

type envelope struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// Publish broadcasts one event. It never blocks and never reports failure to
// the caller: delivery is explicitly best-effort.
func (d *Dispatcher) Publish(event string, data map[string]interface{}) {
	if d == nil || d.hub == nil {
		return
	}

	payload, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		log.Printf("notification: failed to marshal %s event: %v", event, err)
		return
	}

	select {
	case d.hub.Broadcast <- payload:
	default:
		log.Printf("notification: dropped %s event (broadcast buffer full)", event)
	}
}
