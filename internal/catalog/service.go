package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

const (
	defaultFuzzyThreshold = 70
	maxSuggestions        = 5
)

// Config contains required parameters for a catalog service.
type Config struct {
	Dir            string // directory of one JSON file per vehicle
	Kind           Kind   // car or bike
	FuzzyThreshold int    // minimum 0-100 similarity for fuzzy search fallback
	Logger         *slog.Logger
}

// Service holds one loaded catalog. It is read-only after construction and
// safe for concurrent use.
type Service struct {
	kind           Kind
	vehicles       map[string]Vehicle
	ids            []string // sorted, for deterministic iteration
	fuzzyThreshold int
	logger         *slog.Logger

	brands        map[string]struct{}
	bodyTypes     map[string]struct{}
	fuelTypes     map[string]struct{}
	transmissions map[string]struct{}
}

// New loads every *.json file under cfg.Dir. The vehicle ID is the file name
// stem, lowercased. Files that fail to parse or validate are skipped with a
// warning so one bad scrape doesn't take the whole catalog down.
func New(cfg Config) (*Service, error) {
	if cfg.Dir == "" {
		return nil, errors.New("catalog directory is required")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.Kind == "" {
		cfg.Kind = KindCar
	}

	s := &Service{
		kind:           cfg.Kind,
		vehicles:       make(map[string]Vehicle),
		fuzzyThreshold: cfg.FuzzyThreshold,
		logger:         cfg.Logger,
		brands:         make(map[string]struct{}),
		bodyTypes:      make(map[string]struct{}),
		fuelTypes:      make(map[string]struct{}),
		transmissions:  make(map[string]struct{}),
	}
	if s.fuzzyThreshold <= 0 {
		s.fuzzyThreshold = defaultFuzzyThreshold
	}

	entries, err := os.ReadDir(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(cfg.Dir, entry.Name())
		id := strings.ToLower(strings.TrimSuffix(entry.Name(), ".json"))

		v, err := loadVehicle(path, id)
		if err != nil {
			s.logger.Warn("skipping catalog file", "file", entry.Name(), "error", err)
			continue
		}
		s.vehicles[id] = v
		s.indexFilterValues(v)
	}

	if len(s.vehicles) == 0 {
		return nil, fmt.Errorf("no usable vehicle files in %s", cfg.Dir)
	}

	s.ids = make([]string, 0, len(s.vehicles))
	for id := range s.vehicles {
		s.ids = append(s.ids, id)
	}
	sort.Strings(s.ids)

	s.logger.Info("catalog loaded",
		"kind", s.kind,
		"vehicles", len(s.vehicles),
		"brands", len(s.brands),
		"body_types", len(s.bodyTypes),
		"fuel_types", len(s.fuelTypes),
		"transmissions", len(s.transmissions),
	)
	return s, nil
}

func loadVehicle(path, id string) (Vehicle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vehicle{}, err
	}
	var v Vehicle
	if err := json.Unmarshal(data, &v); err != nil {
		return Vehicle{}, fmt.Errorf("parsing: %w", err)
	}
	v.ID = id

	if v.BasicInfo.Name == "" || v.BasicInfo.Model == "" {
		return Vehicle{}, errors.New("missing basic_info name or model")
	}
	if v.Price.Value <= 0 {
		return Vehicle{}, errors.New("missing or non-positive price")
	}
	if v.Brand.Name == "" {
		return Vehicle{}, errors.New("missing brand name")
	}
	return v, nil
}

func (s *Service) indexFilterValues(v Vehicle) {
	s.brands[v.Brand.Name] = struct{}{}
	if v.BasicInfo.BodyType != "" {
		s.bodyTypes[v.BasicInfo.BodyType] = struct{}{}
	}
	for _, ft := range v.fuelTypes() {
		s.fuelTypes[ft] = struct{}{}
	}
	for _, tr := range v.Transmission {
		s.transmissions[tr] = struct{}{}
	}
}

// Len returns the number of vehicles loaded.
func (s *Service) Len() int {
	return len(s.vehicles)
}

// Details returns the identity fields for a vehicle.
func (s *Service) Details(id string) (Vehicle, error) {
	v, err := s.lookup(id)
	if err != nil {
		return Vehicle{}, err
	}
	return v.BasicOnly(), nil
}

// ExtendedDetails returns the complete record for a vehicle.
func (s *Service) ExtendedDetails(id string) (Vehicle, error) {
	return s.lookup(id)
}

func (s *Service) lookup(id string) (Vehicle, error) {
	v, ok := s.vehicles[strings.ToLower(id)]
	if !ok {
		return Vehicle{}, &NotFoundError{
			Kind:        s.kind,
			ID:          id,
			Suggestions: suggest(id, s.ids),
		}
	}
	return v, nil
}

// Compare returns a feature matrix for the given vehicles. Every ID must
// resolve; an unknown ID fails the whole comparison.
func (s *Service) Compare(ids []string) (*Comparison, error) {
	if len(ids) == 0 {
		return nil, errors.New("no vehicles to compare")
	}

	vehicles := make([]Vehicle, 0, len(ids))
	for _, id := range ids {
		v, err := s.lookup(id)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}

	row := func(feature string, value func(Vehicle) string) ComparisonRow {
		values := make([]string, len(vehicles))
		for i, v := range vehicles {
			values[i] = value(v)
		}
		return ComparisonRow{Feature: feature, Values: values}
	}

	matrix := []ComparisonRow{
		row("Price (INR)", func(v Vehicle) string {
			return fmt.Sprintf("%d", v.Price.Value)
		}),
		row("Brand", func(v Vehicle) string {
			return v.Brand.Name
		}),
		row("Body Type", func(v Vehicle) string {
			return orNA(v.BasicInfo.BodyType)
		}),
		row("Engine Displacement", func(v Vehicle) string {
			if v.Engine == nil || len(v.Engine.Displacement) == 0 {
				return "N/A"
			}
			parts := make([]string, len(v.Engine.Displacement))
			for i, d := range v.Engine.Displacement {
				parts[i] = fmt.Sprintf("%d%s", d.Value, d.Unit)
			}
			return strings.Join(parts, ", ")
		}),
		row("Fuel Type", func(v Vehicle) string {
			types := v.fuelTypes()
			if len(types) == 0 {
				return "N/A"
			}
			return strings.Join(types, ", ")
		}),
		row("Transmission", func(v Vehicle) string {
			if len(v.Transmission) == 0 {
				return "N/A"
			}
			return strings.Join(v.Transmission, ", ")
		}),
		row("Mileage", func(v Vehicle) string {
			if v.Fuel == nil {
				return "N/A"
			}
			return v.Fuel.Efficiency.String()
		}),
		row("Seating Capacity", func(v Vehicle) string {
			seats, ok := v.seatingCapacity()
			if !ok {
				return "N/A"
			}
			return fmt.Sprintf("%d", seats)
		}),
		row("Rating", func(v Vehicle) string {
			if v.Rating == nil || v.Rating.Value == nil {
				return "N/A"
			}
			return fmt.Sprintf("%g/10", *v.Rating.Value)
		}),
	}

	return &Comparison{Vehicles: vehicles, Matrix: matrix}, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// validateFilters rejects brand/body/fuel/transmission values the catalog
// has never seen, offering the closest known values.
func (s *Service) validateFilters(f Filters) error {
	checks := []struct {
		name  string
		value string
		known map[string]struct{}
	}{
		{"brand", f.Brand, s.brands},
		{"body_type", f.BodyType, s.bodyTypes},
		{"fuel_type", f.FuelType, s.fuelTypes},
		{"transmission", f.Transmission, s.transmissions},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		if !containsKeyFold(c.known, c.value) {
			candidates := make([]string, 0, len(c.known))
			for k := range c.known {
				candidates = append(candidates, k)
			}
			sort.Strings(candidates)
			return &InvalidFilterError{
				Filter:      c.name,
				Value:       c.value,
				Suggestions: suggest(c.value, candidates),
			}
		}
	}
	return nil
}

func containsKeyFold(set map[string]struct{}, want string) bool {
	for k := range set {
		if strings.EqualFold(k, want) {
			return true
		}
	}
	return false
}

// suggest ranks candidates by fuzzy similarity to value. When nothing
// matches, the first few candidates in order are returned so the caller
// always has something to offer.
func suggest(value string, candidates []string) []string {
	matches := fuzzy.Find(strings.ToLower(value), candidates)
	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		out = append(out, candidates[m.Index])
		if len(out) == maxSuggestions {
			return out
		}
	}
	if len(out) > 0 {
		return out
	}
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	return append(out, candidates...)
}
