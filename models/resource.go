package models

// ResourceType identifies one of the two capacity-constrained resources a
// wedding can offer its guests.
type ResourceType string

const (
	ResourceLodging        ResourceType = "lodging"
	ResourceTransportation ResourceType = "transportation"
)

// ResourceTypes lists every resource type a wedding may configure.
var ResourceTypes = []ResourceType{ResourceLodging, ResourceTransportation}

func (r ResourceType) Valid() bool {
	return r == ResourceLodging || r == ResourceTransportation
}
