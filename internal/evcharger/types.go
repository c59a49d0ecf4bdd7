// Package evcharger finds EV charging stations near an Indian pincode.
// Pincodes resolve to coordinates through an offline postal index; stations
// are ranked by haversine distance.
package evcharger

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// flexString decodes a JSON value that may arrive as a string or a number.
// The station dataset is scraped and mixes both freely.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

func (f flexString) String() string { return string(f) }

// flexInt decodes a JSON value that may arrive as a number, a numeric
// string, or anything else. Non-numeric values (nulls, empty strings, text
// like "Rs 18") decode as zero; one junk field must not reject the whole
// dataset.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	s := strings.TrimSpace(strings.Trim(string(data), `"`))
	n, err := strconv.Atoi(s)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// Station is one charging location from the dataset.
type Station struct {
	ID            flexString `json:"id"`
	Name          flexString `json:"name"`
	Address       flexString `json:"address"`
	City          flexString `json:"city"`
	PostalCode    flexString `json:"postal_code"`
	Country       flexString `json:"country"`
	Latitude      flexString `json:"latitude"`
	Longitude     flexString `json:"longitude"`
	Capacity      flexString `json:"capacity"`
	ChargerType   flexString `json:"charger_type"`
	ChargingType  flexString `json:"charging_type"`
	NoOfChargers  flexInt    `json:"no_of_chargers"`
	Available     flexInt    `json:"available"`
	Timing        flexString `json:"timing"`
	Open          flexString `json:"open"`
	Close         flexString `json:"close"`
	Staff         flexString `json:"staff"`
	CostPerUnit   flexInt    `json:"cost_per_unit"`
	PaymentModes  flexString `json:"payment_modes"`
	Vendor        flexString `json:"vendor"`
	ContactNumber flexString `json:"contact_number"`
}

func (s Station) coordinates() (lat, lon float64, ok bool) {
	lat, err := strconv.ParseFloat(string(s.Latitude), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(string(s.Longitude), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// Result is a station within the search radius.
type Result struct {
	Station
	DistanceKm     float64 `json:"distance_km"`
	GoogleMapsLink string  `json:"google_maps_link"`
}

// Place is the resolved location of a pincode.
type Place struct {
	Pincode   string  `json:"pincode"`
	PlaceName string  `json:"place_name"`
	State     string  `json:"state"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
