package tools

import (
	"errors"
	"fmt"

	"github.com/firebase/genkit/go/ai"

	"github.com/vahanlabs/mahindrabot/internal/evcharger"
)

// FindNearestEVCharger locates charging stations around a pincode.
func (k *Kit) FindNearestEVCharger(ctx *ai.ToolContext, input FindEVChargerInput) (Result, error) {
	if input.Pincode == "" {
		return failure(ErrCodeValidation, "pincode is required"), nil
	}

	place, stations, err := k.chargers.FindNearest(input.Pincode, input.RadiusKm, input.Limit)
	if err != nil {
		if errors.Is(err, evcharger.ErrUnknownPincode) {
			return failure(ErrCodeNotFound,
				fmt.Sprintf("pincode %q is not a valid Indian pincode", input.Pincode)), nil
		}
		k.logger.Error("ev charger lookup failed", "error", err)
		return failure(ErrCodeInternal, "could not search for charging stations, please try again"), nil
	}

	return success(map[string]any{
		"location": place,
		"count":    len(stations),
		"stations": stations,
	}), nil
}
