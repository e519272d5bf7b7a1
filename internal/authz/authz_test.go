package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"backend/pkg/apperror"
)

func TestCanPerform(t *testing.T) {
	cases := []struct {
		role    string
		action  Action
		allowed bool
	}{
		{"admin", ActionApprove, true},
		{"manager", ActionApprove, true},
		{"staff", ActionApprove, false},
		{"admin", ActionReject, true},
		{"staff", ActionReject, false},
		{"manager", ActionDelete, true},
		{"staff", ActionDelete, false},
		{"staff", ActionCreateRequest, true},
		{"staff", ActionCreateAdjustment, true},
		{"admin", ActionCreateRequest, true},
		{"", ActionCreateRequest, false},
		{"admin", Action("unknown"), false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanPerform(tc.role, tc.action),
			"role=%q action=%q", tc.role, tc.action)
	}
}

func TestRequire(t *testing.T) {
	staff := Actor{Role: "staff"}

	err := Require(staff, ActionApprove)
	assert.True(t, apperror.IsKind(err, apperror.KindAuthorization))

	assert.NoError(t, Require(staff, ActionCreateAdjustment))
}
