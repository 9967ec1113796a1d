package domain

import "time"

type Role string

const (
	RoleTenant   Role = "TENANT"
	RoleLandlord Role = "LANDLORD"
)

// Valid reports whether r is a role a user can register with.
func (r Role) Valid() bool {
	return r == RoleTenant || r == RoleLandlord
}

type User struct {
	ID           int32     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsStaff      bool      `json:"is_staff"`
	CreatedOn    time.Time `json:"created_on"`
}

// Actor is the authenticated identity a request runs as.
type Actor struct {
	UserID  int32 `json:"user_id"`
	Role    Role  `json:"role"`
	IsStaff bool  `json:"is_staff"`
}

func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Role: u.Role, IsStaff: u.IsStaff}
}

func (a Actor) IsLandlord() bool { return a.Role == RoleLandlord }

func (a Actor) IsTenant() bool { return a.Role == RoleTenant }
