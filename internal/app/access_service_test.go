package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide_UnauthenticatedRedirects(t *testing.T) {
	assert.Equal(t, DecisionRedirect, Decide("", ActionViewDocuments))
	assert.Equal(t, DecisionRedirect, Decide("", ActionManageUsers))
}

func TestDecide_AdminGatedActions(t *testing.T) {
	assert.Equal(t, DecisionDeny, Decide("user", ActionManageUsers))
	assert.Equal(t, DecisionDeny, Decide("user", ActionManageAccess))
	assert.Equal(t, DecisionDeny, Decide("user", ActionReindex))

	assert.Equal(t, DecisionAllow, Decide("admin", ActionManageUsers))
	assert.Equal(t, DecisionAllow, Decide("admin", ActionReindex))
}

func TestDecide_RegularActionsAllowed(t *testing.T) {
	assert.Equal(t, DecisionAllow, Decide("user", ActionViewDocuments))
	assert.Equal(t, DecisionAllow, Decide("user", ActionUploadDocs))
}
