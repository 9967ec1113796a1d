package service

import (
	"testing"

	"rental-portal-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicy(t *testing.T) {
	policy := NewPolicy()
	prop := loft()
	lease := activeLease()
	otherLandlord := domain.Actor{UserID: 5, Role: domain.RoleLandlord}

	assert.True(t, policy.CanCreateProperty(landlord))
	assert.True(t, policy.CanCreateProperty(staff))
	assert.False(t, policy.CanCreateProperty(tenant))

	assert.True(t, policy.CanManageProperty(landlord, prop))
	assert.False(t, policy.CanManageProperty(otherLandlord, prop))
	assert.True(t, policy.CanManageProperty(staff, prop))

	assert.True(t, policy.CanDecideApplication(landlord, prop))
	assert.False(t, policy.CanDecideApplication(tenant, prop))

	assert.True(t, policy.CanAccessLease(tenant, lease))
	assert.True(t, policy.CanAccessLease(landlord, lease))
	assert.False(t, policy.CanAccessLease(stranger, lease))

	assert.True(t, policy.CanManageLease(landlord, lease))
	assert.False(t, policy.CanManageLease(tenant, lease))
	assert.True(t, policy.CanManageLease(staff, lease))
}
