package capabilities

import "context"

// FeatureAdFree: el usuario no ve intersticiales.
const FeatureAdFree = "ads:free"

type CapabilityCheck struct {
	UserID  string
	Feature string
}

type CapabilitiesResolver interface {
	HasFeature(ctx context.Context, in CapabilityCheck) (bool, error)
}
