package evcharger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrUnknownPincode indicates the pincode is not in the postal index.
var ErrUnknownPincode = errors.New("unknown pincode")

// Geocoder resolves Indian pincodes to coordinates using an offline postal
// index file (JSON array of places keyed by pincode).
type Geocoder struct {
	places map[string]Place
}

// NewGeocoder loads the postal index.
func NewGeocoder(path string) (*Geocoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading postal index %s: %w", path, err)
	}

	var places []Place
	if err := json.Unmarshal(data, &places); err != nil {
		return nil, fmt.Errorf("parsing postal index %s: %w", path, err)
	}

	g := &Geocoder{places: make(map[string]Place, len(places))}
	for _, p := range places {
		if p.Pincode == "" {
			continue
		}
		// First entry wins when a pincode has multiple post offices.
		if _, ok := g.places[p.Pincode]; !ok {
			g.places[p.Pincode] = p
		}
	}
	if len(g.places) == 0 {
		return nil, fmt.Errorf("postal index %s holds no places", path)
	}
	return g, nil
}

// Lookup resolves a pincode.
func (g *Geocoder) Lookup(pincode string) (Place, error) {
	p, ok := g.places[pincode]
	if !ok {
		return Place{}, fmt.Errorf("%w: %q", ErrUnknownPincode, pincode)
	}
	return p, nil
}

// Len returns the number of indexed pincodes.
func (g *Geocoder) Len() int {
	return len(g.places)
}
