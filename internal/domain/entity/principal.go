package entity

// Actor roles. Authentication is external; the core trusts the Principal
// handed to it but re-checks role and location before mutating.
const (
	RoleTechnician    = "technician"
	RoleServiceCenter = "service_center"
	RoleRSM           = "rsm"
	RoleHOD           = "hod"
)

// Principal is the authenticated actor identity resolved by the outer
// layer and passed explicitly into every core operation.
type Principal struct {
	UserID   string
	Role     string
	Location Location
}

// AtLocation reports whether the principal operates from the given location.
func (p Principal) AtLocation(l Location) bool {
	return p.Location == l
}
