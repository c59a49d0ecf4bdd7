package evcharger

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
)

const (
	// DefaultRadiusKm is the search radius when the caller gives none.
	DefaultRadiusKm = 5.0
	// DefaultLimit caps results when the caller gives no limit.
	DefaultLimit = 5

	earthRadiusKm = 6371.0
)

// Config contains required parameters for the EV charger service.
type Config struct {
	StationsPath string // JSON array of charging stations
	PincodePath  string // JSON postal index
	Logger       *slog.Logger
}

// Service finds charging stations near a pincode. Read-only after
// construction, safe for concurrent use.
type Service struct {
	stations []Station
	geocoder *Geocoder
	logger   *slog.Logger
}

// New loads the station dataset and the postal index.
func New(cfg Config) (*Service, error) {
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}

	data, err := os.ReadFile(cfg.StationsPath)
	if err != nil {
		return nil, fmt.Errorf("reading stations %s: %w", cfg.StationsPath, err)
	}
	var stations []Station
	if err := json.Unmarshal(data, &stations); err != nil {
		return nil, fmt.Errorf("parsing stations %s: %w", cfg.StationsPath, err)
	}

	geocoder, err := NewGeocoder(cfg.PincodePath)
	if err != nil {
		return nil, err
	}

	cfg.Logger.Info("ev charger data loaded",
		"stations", len(stations),
		"pincodes", geocoder.Len(),
	)
	return &Service{stations: stations, geocoder: geocoder, logger: cfg.Logger}, nil
}

// FindNearest returns stations within radiusKm of the pincode, nearest
// first, capped at limit. Zero or negative radius and limit fall back to the
// defaults. Stations with unparseable coordinates are skipped.
func (s *Service) FindNearest(pincode string, radiusKm float64, limit int) (Place, []Result, error) {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	place, err := s.geocoder.Lookup(pincode)
	if err != nil {
		return Place{}, nil, err
	}

	type candidate struct {
		station  Station
		distance float64
	}
	var within []candidate
	for _, st := range s.stations {
		lat, lon, ok := st.coordinates()
		if !ok {
			continue
		}
		d := haversine(place.Latitude, place.Longitude, lat, lon)
		if d <= radiusKm {
			within = append(within, candidate{station: st, distance: d})
		}
	}

	sort.Slice(within, func(i, j int) bool {
		return within[i].distance < within[j].distance
	})
	if limit < len(within) {
		within = within[:limit]
	}

	results := make([]Result, len(within))
	for i, c := range within {
		results[i] = Result{
			Station:    c.station,
			DistanceKm: c.distance,
			GoogleMapsLink: fmt.Sprintf(
				"https://www.google.com/maps/search/?api=1&query=%s,%s",
				c.station.Latitude, c.station.Longitude,
			),
		}
	}

	s.logger.Debug("ev charger search",
		"pincode", pincode,
		"radius_km", radiusKm,
		"results", len(results),
	)
	return place, results, nil
}

// haversine returns the great-circle distance in kilometers.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dlat := radians(lat2 - lat1)
	dlon := radians(lon2 - lon1)
	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
