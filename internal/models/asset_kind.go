package models

// AssetKind distinguishes the three tradable asset catalogs. It is a closed
// set; anything else is rejected at the edges.
type AssetKind string

const (
	AssetKindDriver  AssetKind = "driver"
	AssetKindEngine  AssetKind = "engine"
	AssetKindChassis AssetKind = "chassis"
)

func (k AssetKind) Valid() bool {
	switch k {
	case AssetKindDriver, AssetKindEngine, AssetKindChassis:
		return true
	}
	return false
}
