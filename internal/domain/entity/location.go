package entity

import "fmt"

// LocationType identifies an echelon in the supply chain.
type LocationType string

const (
	LocationTechnician    LocationType = "technician"
	LocationServiceCenter LocationType = "service_center"
	LocationBranch        LocationType = "branch"
	LocationPlant         LocationType = "plant"
	LocationWarehouse     LocationType = "warehouse"
)

// Location is a typed node in the supply chain. The composite key keeps
// plant-owned and warehouse-owned stock disjoint without numeric offset tricks.
type Location struct {
	Type LocationType
	ID   string
}

// Valid reports whether the type is a known echelon and the ID is set.
func (l Location) Valid() bool {
	switch l.Type {
	case LocationTechnician, LocationServiceCenter, LocationBranch, LocationPlant, LocationWarehouse:
		return l.ID != ""
	}
	return false
}

// IsZero reports whether the location is unset.
func (l Location) IsZero() bool {
	return l.Type == "" && l.ID == ""
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%s", l.Type, l.ID)
}
