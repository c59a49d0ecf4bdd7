// Package catalog loads vehicle specification files and serves filtered
// listings, free-text search, detail lookups and side-by-side comparisons.
// One Service instance holds either the car catalog or the bike catalog; the
// two share a schema apart from a few body-specific dimension fields.
package catalog

import "fmt"

// Kind selects which catalog a Service holds.
type Kind string

const (
	KindCar  Kind = "car"
	KindBike Kind = "bike"
)

// ImageReference points at a hosted image.
type ImageReference struct {
	URL     string `json:"url"`
	URLID   string `json:"url_id"`
	AltText string `json:"alt_text"`
}

// DimensionValue is a measurement with its unit.
type DimensionValue struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// DisplacementValue is an engine displacement variant.
type DisplacementValue struct {
	Value int    `json:"value"`
	Unit  string `json:"unit"`
}

// PowerTorqueValue is a power or torque figure, optionally at a given RPM.
type PowerTorqueValue struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	RPM   string  `json:"rpm,omitempty"`
}

// BasicInfo holds the identity fields every vehicle file carries.
type BasicInfo struct {
	Name         string          `json:"name"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	Model        string          `json:"model"`
	BodyType     string          `json:"body_type,omitempty"`
	URL          string          `json:"url,omitempty"`
	ImageURL     *ImageReference `json:"image_url,omitempty"`
	Description  string          `json:"description,omitempty"`
	ModelDate    string          `json:"model_date,omitempty"`
	SKU          string          `json:"sku,omitempty"`
	Condition    string          `json:"condition,omitempty"`
}

// Engine describes engine variants across trims.
type Engine struct {
	Displacement []DisplacementValue `json:"displacement,omitempty"`
	Power        []PowerTorqueValue  `json:"power,omitempty"`
	Torque       []PowerTorqueValue  `json:"torque,omitempty"`
	FuelType     []string            `json:"fuel_type,omitempty"`
}

// Efficiency is a claimed mileage figure, either a single value or a range.
type Efficiency struct {
	Value *float64 `json:"value,omitempty"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Unit  string   `json:"unit,omitempty"`
}

// Representative returns the figure used for filtering and sorting: the
// single value when present, otherwise the top of the range.
func (e *Efficiency) Representative() (float64, bool) {
	switch {
	case e == nil:
		return 0, false
	case e.Value != nil:
		return *e.Value, true
	case e.Max != nil:
		return *e.Max, true
	case e.Min != nil:
		return *e.Min, true
	}
	return 0, false
}

// String renders the efficiency for display, e.g. "17.2 kmpl" or
// "15-18 kmpl".
func (e *Efficiency) String() string {
	switch {
	case e == nil:
		return "N/A"
	case e.Value != nil:
		return trimFloat(*e.Value) + " " + e.Unit
	case e.Min != nil && e.Max != nil:
		return fmt.Sprintf("%s-%s %s", trimFloat(*e.Min), trimFloat(*e.Max), e.Unit)
	}
	return "N/A"
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// Fuel lists supported fuel types and the claimed efficiency.
type Fuel struct {
	Type       []string    `json:"type"`
	Efficiency *Efficiency `json:"efficiency,omitempty"`
}

// Dimensions holds physical measurements. SeatingCapacity applies to cars,
// SeatHeight to bikes; files simply omit whichever does not apply.
type Dimensions struct {
	Width           *DimensionValue `json:"width,omitempty"`
	Height          *DimensionValue `json:"height,omitempty"`
	Weight          map[string]int  `json:"weight,omitempty"`
	BootSpace       *DimensionValue `json:"boot_space,omitempty"`
	SeatHeight      *DimensionValue `json:"seat_height,omitempty"`
	GroundClearance *DimensionValue `json:"ground_clearance,omitempty"`
	SeatingCapacity *int            `json:"seating_capacity,omitempty"`
	NumberOfDoors   *int            `json:"number_of_doors,omitempty"`
}

// Price is the ex-showroom price.
type Price struct {
	Value        int    `json:"value"`
	Currency     string `json:"currency"`
	Availability string `json:"availability,omitempty"`
	ValidUntil   string `json:"valid_until,omitempty"`
	URL          string `json:"url,omitempty"`
}

// Brand identifies the manufacturer brand.
type Brand struct {
	Name  string          `json:"name"`
	Image *ImageReference `json:"image,omitempty"`
}

// Rating is an expert review score on a worst..best scale.
type Rating struct {
	Value *float64 `json:"value,omitempty"`
	Worst int      `json:"worst,omitempty"`
	Best  int      `json:"best,omitempty"`
}

// ReviewedBy credits the expert reviewer.
type ReviewedBy struct {
	Name     string `json:"name"`
	JobTitle string `json:"job_title,omitempty"`
	URL      string `json:"url,omitempty"`
}

// MileageDetail is a per-configuration mileage claim.
type MileageDetail struct {
	FuelType       string `json:"fuel_type"`
	Transmission   string `json:"transmission"`
	Mileage        string `json:"mileage"`
	CityMileage    string `json:"city_mileage,omitempty"`
	HighwayMileage string `json:"highway_mileage,omitempty"`
}

// CompetitorVehicle names a rival model in a competitor comparison table.
type CompetitorVehicle struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	URL   string `json:"url"`
}

// ComparisonFeature is one feature row in a competitor comparison table.
type ComparisonFeature struct {
	Feature string   `json:"feature"`
	Values  []string `json:"values"`
}

// CompetitorComparison is the scraped rival-model table from the source site.
type CompetitorComparison struct {
	Vehicles []CompetitorVehicle `json:"cars"`
	Features []ComparisonFeature `json:"features"`
}

// Vehicle is one catalog entry. ID is derived from the source file name.
// BasicInfo, Price and Brand are always present; the rest is extended detail
// and may be missing for any given model.
type Vehicle struct {
	ID        string    `json:"id"`
	BasicInfo BasicInfo `json:"basic_info"`
	Price     Price     `json:"price"`
	Brand     Brand     `json:"brand"`

	Engine               *Engine               `json:"engine,omitempty"`
	Transmission         []string              `json:"transmission,omitempty"`
	Fuel                 *Fuel                 `json:"fuel,omitempty"`
	Dimensions           *Dimensions           `json:"dimensions,omitempty"`
	Colors               []string              `json:"colors,omitempty"`
	Rating               *Rating               `json:"rating,omitempty"`
	ReviewedBy           *ReviewedBy           `json:"reviewed_by,omitempty"`
	Pros                 []string              `json:"pros,omitempty"`
	Cons                 []string              `json:"cons,omitempty"`
	Verdict              string                `json:"verdict,omitempty"`
	CompetitorComparison *CompetitorComparison `json:"competitor_comparison,omitempty"`
	MileageDetails       []MileageDetail       `json:"mileage_details,omitempty"`
	WhatsNew             map[string][]string   `json:"whats_new,omitempty"`
	Features             []string              `json:"features,omitempty"`
}

// BasicOnly returns a copy holding only the identity fields, for listings
// where the full record would bloat the payload.
func (v Vehicle) BasicOnly() Vehicle {
	return Vehicle{
		ID:        v.ID,
		BasicInfo: v.BasicInfo,
		Price:     v.Price,
		Brand:     v.Brand,
	}
}

func (v Vehicle) fuelTypes() []string {
	var types []string
	if v.Fuel != nil {
		types = append(types, v.Fuel.Type...)
	}
	if v.Engine != nil {
		types = append(types, v.Engine.FuelType...)
	}
	return types
}

func (v Vehicle) maxDisplacement() (int, bool) {
	if v.Engine == nil || len(v.Engine.Displacement) == 0 {
		return 0, false
	}
	max := v.Engine.Displacement[0].Value
	for _, d := range v.Engine.Displacement[1:] {
		if d.Value > max {
			max = d.Value
		}
	}
	return max, true
}

func (v Vehicle) minDisplacement() (int, bool) {
	if v.Engine == nil || len(v.Engine.Displacement) == 0 {
		return 0, false
	}
	min := v.Engine.Displacement[0].Value
	for _, d := range v.Engine.Displacement[1:] {
		if d.Value < min {
			min = d.Value
		}
	}
	return min, true
}

func (v Vehicle) mileage() (float64, bool) {
	if v.Fuel == nil {
		return 0, false
	}
	return v.Fuel.Efficiency.Representative()
}

func (v Vehicle) seatingCapacity() (int, bool) {
	if v.Dimensions == nil || v.Dimensions.SeatingCapacity == nil {
		return 0, false
	}
	return *v.Dimensions.SeatingCapacity, true
}

// ComparisonRow is one feature row in a comparison, values aligned with the
// compared vehicles.
type ComparisonRow struct {
	Feature string   `json:"feature"`
	Values  []string `json:"values"`
}

// Comparison is a side-by-side comparison of two or more vehicles.
type Comparison struct {
	Vehicles []Vehicle       `json:"vehicles"`
	Matrix   []ComparisonRow `json:"comparison_matrix"`
}
