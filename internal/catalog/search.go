package catalog

import (
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// ListParams control a List or Search call.
type ListParams struct {
	Limit   int
	Offset  int
	Filters Filters
	SortBy  SortField
	Order   SortOrder
}

// List returns vehicles matching the filters, sorted and paginated. With no
// explicit sort the result is ordered by price ascending. Only identity
// fields are populated.
func (s *Service) List(p ListParams) ([]Vehicle, error) {
	if err := s.validateFilters(p.Filters); err != nil {
		return nil, err
	}
	if err := validateSort(p.SortBy, p.Order); err != nil {
		return nil, err
	}

	var matched []Vehicle
	for _, id := range s.ids {
		if v := s.vehicles[id]; p.Filters.matches(v) {
			matched = append(matched, v)
		}
	}

	if p.SortBy != "" {
		applySort(matched, p.SortBy, p.Order)
	} else {
		applySort(matched, SortByPrice, SortAsc)
	}

	matched = paginate(matched, p.Offset, p.Limit)

	out := make([]Vehicle, len(matched))
	for i, v := range matched {
		out[i] = v.BasicOnly()
	}
	return out, nil
}

// Search finds vehicles whose name, manufacturer or model contains the query
// (case-insensitive). When no direct match exists it falls back to fuzzy
// matching on the name, keeping candidates whose similarity clears the
// configured threshold. Filters apply in both passes.
func (s *Service) Search(query string, p ListParams) ([]Vehicle, error) {
	if err := s.validateFilters(p.Filters); err != nil {
		return nil, err
	}
	if err := validateSort(p.SortBy, p.Order); err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))

	type scored struct {
		vehicle Vehicle
		score   int
	}
	var matched []scored

	for _, id := range s.ids {
		v := s.vehicles[id]
		if !directMatch(v, q) || !p.Filters.matches(v) {
			continue
		}
		matched = append(matched, scored{vehicle: v, score: 100})
	}

	if len(matched) == 0 {
		metric := metrics.NewSmithWatermanGotoh()
		for _, id := range s.ids {
			v := s.vehicles[id]
			score := int(strutil.Similarity(q, strings.ToLower(v.BasicInfo.Name), metric) * 100)
			if score < s.fuzzyThreshold || !p.Filters.matches(v) {
				continue
			}
			matched = append(matched, scored{vehicle: v, score: score})
		}
	}

	if p.SortBy != "" {
		desc := p.Order == SortDesc
		sort.SliceStable(matched, func(i, j int) bool {
			vi, oki := sortValue(matched[i].vehicle, p.SortBy)
			vj, okj := sortValue(matched[j].vehicle, p.SortBy)
			if oki != okj {
				return oki
			}
			if vi != vj {
				if desc {
					return vi > vj
				}
				return vi < vj
			}
			return matched[i].score > matched[j].score
		})
	} else {
		sort.SliceStable(matched, func(i, j int) bool {
			if matched[i].score != matched[j].score {
				return matched[i].score > matched[j].score
			}
			return matched[i].vehicle.Price.Value < matched[j].vehicle.Price.Value
		})
	}

	if p.Limit > 0 && p.Limit < len(matched) {
		matched = matched[:p.Limit]
	}

	out := make([]Vehicle, len(matched))
	for i, m := range matched {
		out[i] = m.vehicle.BasicOnly()
	}
	return out, nil
}

func directMatch(v Vehicle, q string) bool {
	if q == "" {
		return false
	}
	return strings.Contains(strings.ToLower(v.BasicInfo.Name), q) ||
		strings.Contains(strings.ToLower(v.BasicInfo.Manufacturer), q) ||
		strings.Contains(strings.ToLower(v.BasicInfo.Model), q)
}

func paginate(vehicles []Vehicle, offset, limit int) []Vehicle {
	if offset >= len(vehicles) {
		return nil
	}
	vehicles = vehicles[offset:]
	if limit > 0 && limit < len(vehicles) {
		vehicles = vehicles[:limit]
	}
	return vehicles
}
