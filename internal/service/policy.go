package service

import "rental-portal-backend/internal/domain"

// Policy decides who may act on what. Its answers are what the core
// operations receive as their authorized flag.
type Policy interface {
	CanCreateProperty(actor domain.Actor) bool
	CanManageProperty(actor domain.Actor, property *domain.Property) bool
	CanDecideApplication(actor domain.Actor, property *domain.Property) bool
	CanAccessLease(actor domain.Actor, lease *domain.Lease) bool
	CanManageLease(actor domain.Actor, lease *domain.Lease) bool
}

type defaultPolicy struct{}

// NewPolicy returns the standard rules: staff may do anything, landlords act
// on their own properties, tenants on their own leases.
func NewPolicy() Policy {
	return defaultPolicy{}
}

func (defaultPolicy) CanCreateProperty(actor domain.Actor) bool {
	return actor.IsStaff || actor.IsLandlord()
}

func (defaultPolicy) CanManageProperty(actor domain.Actor, property *domain.Property) bool {
	return actor.IsStaff || (actor.IsLandlord() && property.LandlordID == actor.UserID)
}

func (p defaultPolicy) CanDecideApplication(actor domain.Actor, property *domain.Property) bool {
	return p.CanManageProperty(actor, property)
}

func (defaultPolicy) CanAccessLease(actor domain.Actor, lease *domain.Lease) bool {
	return actor.IsStaff || lease.LandlordID == actor.UserID || lease.TenantID == actor.UserID
}

func (defaultPolicy) CanManageLease(actor domain.Actor, lease *domain.Lease) bool {
	return actor.IsStaff || (actor.IsLandlord() && lease.LandlordID == actor.UserID)
}
