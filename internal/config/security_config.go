package config

type SecurityLevel int

const (
	SecurityPublic   SecurityLevel = iota // No authentication
	SecurityAccess                        // Access token required
	SecurityLandlord                      // Access token of a landlord or staff user
)

// RouteSecurityConfig maps named HTTP routes to their required security level
var RouteSecurityConfig = map[string]SecurityLevel{
	"auth.register": SecurityPublic,
	"auth.login":    SecurityPublic,
	"health":        SecurityPublic,
	"metrics":       SecurityPublic,

	"properties.list":   SecurityPublic,
	"properties.get":    SecurityPublic,
	"properties.mine":   SecurityLandlord,
	"properties.create": SecurityLandlord,
	"properties.update": SecurityLandlord,
	"properties.delete": SecurityLandlord,

	"applications.create":  SecurityAccess,
	"applications.list":    SecurityLandlord,
	"applications.approve": SecurityLandlord,
	"applications.reject":  SecurityLandlord,

	"leases.list":       SecurityAccess,
	"leases.get":        SecurityAccess,
	"leases.set_active": SecurityLandlord,

	"payments.list":      SecurityAccess,
	"payments.mark_paid": SecurityAccess,

	"tickets.list":   SecurityAccess,
	"tickets.create": SecurityAccess,
	"tickets.update": SecurityLandlord,
}

// GetRouteSecurityLevel returns the level for a route name. Unknown routes
// require an access token.
func GetRouteSecurityLevel(route string) SecurityLevel {
	if level, ok := RouteSecurityConfig[route]; ok {
		return level
	}
	return SecurityAccess
}
