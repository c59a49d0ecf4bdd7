package tools

import (
	"errors"

	"github.com/vahanlabs/mahindrabot/internal/catalog"
)

const defaultVehicleLimit = 10

func toListParams(limit, offset int, f VehicleFilterInput) catalog.ListParams {
	if limit <= 0 {
		limit = defaultVehicleLimit
	}
	filters := catalog.Filters{
		Brand:        f.Brand,
		BodyType:     f.BodyType,
		FuelType:     f.FuelType,
		Transmission: f.Transmission,
	}
	if f.MinPrice > 0 {
		filters.MinPrice = &f.MinPrice
	}
	if f.MaxPrice > 0 {
		filters.MaxPrice = &f.MaxPrice
	}
	if f.MileageMoreThan > 0 {
		filters.MileageAbove = &f.MileageMoreThan
	}
	if f.MileageLessThan > 0 {
		filters.MileageBelow = &f.MileageLessThan
	}
	if f.SeatingCapacity > 0 {
		filters.SeatingCapacity = &f.SeatingCapacity
	}
	if f.DisplacementAbove > 0 {
		filters.DisplacementAbove = &f.DisplacementAbove
	}
	if f.DisplacementBelow > 0 {
		filters.DisplacementBelow = &f.DisplacementBelow
	}
	return catalog.ListParams{
		Limit:   limit,
		Offset:  offset,
		Filters: filters,
		SortBy:  catalog.SortField(f.SortBy),
		Order:   catalog.SortOrder(f.SortOrder),
	}
}

func (k *Kit) listVehicles(cat VehicleCatalog, input ListVehiclesInput) Result {
	vehicles, err := cat.List(toListParams(input.Limit, input.Offset, input.VehicleFilterInput))
	if err != nil {
		return catalogFailure(err)
	}
	return success(map[string]any{
		"count":    len(vehicles),
		"vehicles": vehicles,
	})
}

func (k *Kit) searchVehicles(cat VehicleCatalog, input SearchVehiclesInput) Result {
	if input.Query == "" {
		return failure(ErrCodeValidation, "query is required")
	}
	vehicles, err := cat.Search(input.Query, toListParams(input.Limit, 0, input.VehicleFilterInput))
	if err != nil {
		return catalogFailure(err)
	}
	return success(map[string]any{
		"count":    len(vehicles),
		"vehicles": vehicles,
	})
}

func (k *Kit) compareVehicles(cat VehicleCatalog, input CompareVehiclesInput) Result {
	if len(input.IDs) < 2 {
		return failure(ErrCodeValidation, "at least two vehicle IDs are required")
	}
	comparison, err := cat.Compare(input.IDs)
	if err != nil {
		return catalogFailure(err)
	}
	return success(comparison)
}

func vehicleResult(v catalog.Vehicle, err error) Result {
	if err != nil {
		return catalogFailure(err)
	}
	return success(v)
}

// catalogFailure maps catalog errors to tool error codes. Not-found and
// invalid-filter errors carry suggestions in their message so the model can
// offer corrections.
func catalogFailure(err error) Result {
	var notFound *catalog.NotFoundError
	if errors.As(err, &notFound) {
		return failure(ErrCodeNotFound, notFound.Error())
	}
	var invalid *catalog.InvalidFilterError
	if errors.As(err, &invalid) {
		return failure(ErrCodeValidation, invalid.Error())
	}
	return failure(ErrCodeValidation, err.Error())
}
