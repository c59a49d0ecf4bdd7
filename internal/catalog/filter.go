package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// SortField names a supported sort key.
type SortField string

const (
	SortByPrice        SortField = "price"
	SortByMileage      SortField = "mileage"
	SortBySeating      SortField = "seating_capacity"
	SortByDisplacement SortField = "engine_displacement"
)

var sortFields = []SortField{SortByPrice, SortByMileage, SortBySeating, SortByDisplacement}

// SortOrder is "asc" or "desc".
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filters narrow a listing or search. All set filters combine with AND.
// The *Above/*Below bounds are exclusive.
type Filters struct {
	MinPrice          *int
	MaxPrice          *int
	Brand             string
	BodyType          string
	FuelType          string
	MileageAbove      *float64
	MileageBelow      *float64
	SeatingCapacity   *int
	Transmission      string
	DisplacementAbove *int
	DisplacementBelow *int
}

func (f Filters) matches(v Vehicle) bool {
	if f.MinPrice != nil && v.Price.Value < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && v.Price.Value > *f.MaxPrice {
		return false
	}
	if f.Brand != "" && !strings.EqualFold(v.Brand.Name, f.Brand) {
		return false
	}
	if f.BodyType != "" && !strings.EqualFold(v.BasicInfo.BodyType, f.BodyType) {
		return false
	}
	if f.FuelType != "" && !containsFold(v.fuelTypes(), f.FuelType) {
		return false
	}
	if f.Transmission != "" && !containsFold(v.Transmission, f.Transmission) {
		return false
	}
	if f.SeatingCapacity != nil {
		seats, ok := v.seatingCapacity()
		if !ok || seats != *f.SeatingCapacity {
			return false
		}
	}
	if f.DisplacementAbove != nil || f.DisplacementBelow != nil {
		max, ok := v.maxDisplacement()
		if !ok {
			return false
		}
		min, _ := v.minDisplacement()
		if f.DisplacementAbove != nil && max <= *f.DisplacementAbove {
			return false
		}
		if f.DisplacementBelow != nil && min >= *f.DisplacementBelow {
			return false
		}
	}
	if f.MileageAbove != nil || f.MileageBelow != nil {
		m, ok := v.mileage()
		if !ok {
			return false
		}
		if f.MileageAbove != nil && m <= *f.MileageAbove {
			return false
		}
		if f.MileageBelow != nil && m >= *f.MileageBelow {
			return false
		}
	}
	return true
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

func validateSort(sortBy SortField, order SortOrder) error {
	if sortBy != "" {
		valid := false
		for _, f := range sortFields {
			if sortBy == f {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid sort field %q (valid: price, mileage, seating_capacity, engine_displacement)", sortBy)
		}
	}
	if order != "" && order != SortAsc && order != SortDesc {
		return fmt.Errorf("invalid sort order %q (valid: asc, desc)", order)
	}
	return nil
}

func sortValue(v Vehicle, field SortField) (float64, bool) {
	switch field {
	case SortByPrice:
		return float64(v.Price.Value), true
	case SortByMileage:
		return v.mileage()
	case SortBySeating:
		seats, ok := v.seatingCapacity()
		return float64(seats), ok
	case SortByDisplacement:
		d, ok := v.maxDisplacement()
		return float64(d), ok
	}
	return 0, false
}

// applySort orders vehicles by the given field. Vehicles missing the field
// always sort after those that have it, regardless of direction.
func applySort(vehicles []Vehicle, field SortField, order SortOrder) {
	desc := order == SortDesc
	sort.SliceStable(vehicles, func(i, j int) bool {
		vi, oki := sortValue(vehicles[i], field)
		vj, okj := sortValue(vehicles[j], field)
		if oki != okj {
			return oki
		}
		if vi == vj {
			return false
		}
		if desc {
			return vi > vj
		}
		return vi < vj
	})
}
