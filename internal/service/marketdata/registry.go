package marketdata

import (
	"strings"

	domrepo "wingman/internal/domain/repository"
)

// VenueRegistry dispatches an alert's venue name to the matching
// venue-specific volume client. Unknown venues simply miss.
type VenueRegistry struct {
	providers map[string]domrepo.VolumeProvider
}

func NewVenueRegistry() *VenueRegistry {
	return &VenueRegistry{providers: make(map[string]domrepo.VolumeProvider)}
}

// Register binds a venue name (case-insensitive) to a provider client.
func (r *VenueRegistry) Register(venue string, p domrepo.VolumeProvider) {
	r.providers[strings.ToUpper(venue)] = p
}

// ForVenue looks up the provider for a venue name.
func (r *VenueRegistry) ForVenue(venue string) (domrepo.VolumeProvider, bool) {
	p, ok := r.providers[strings.ToUpper(venue)]
	return p, ok
}
