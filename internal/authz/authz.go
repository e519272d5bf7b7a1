package authz

import (
	"backend/pkg/apperror"

	"github.com/google/uuid"
)

// Actor is the authenticated caller, resolved once per request by the auth
// middleware and passed explicitly into every service call. No service reads
// identity from shared state.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// Action is a capability the gate knows about.
type Action string

const (
	ActionCreateRequest    Action = "create_request"
	ActionCreateAdjustment Action = "create_adjustment"
	ActionApprove          Action = "approve"
	ActionReject           Action = "reject"
	ActionDelete           Action = "delete"
)

// gate maps action -> roles allowed to perform it. An empty slice means any
// authenticated role.
var gate = map[Action][]string{
	ActionCreateRequest:    {},
	ActionCreateAdjustment: {},
	ActionApprove:          {"admin", "manager"},
	ActionReject:           {"admin", "manager"},
	ActionDelete:           {"admin", "manager"},
}

// CanPerform reports whether the role may perform the action. Unknown
// actions are denied.
func CanPerform(role string, action Action) bool {
	allowed, ok := gate[action]
	if !ok {
		return false
	}
	if len(allowed) == 0 {
		return role != ""
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// Require returns an authorization error when the actor's role lacks the
// capability. It never downgrades the action.
func Require(actor Actor, action Action) error {
	if !CanPerform(actor.Role, action) {
		return apperror.Authorization("role '" + actor.Role + "' is not allowed to " + string(action))
	}
	return nil
}
