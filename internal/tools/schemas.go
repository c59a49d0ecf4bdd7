package tools

// VehicleFilterInput carries the shared filter and sort arguments of the
// listing and search tools. Zero values mean "not set".
type VehicleFilterInput struct {
	MinPrice          int     `json:"min_price,omitempty" jsonschema_description:"Minimum price in INR"`
	MaxPrice          int     `json:"max_price,omitempty" jsonschema_description:"Maximum price in INR"`
	Brand             string  `json:"brand,omitempty" jsonschema_description:"Brand name filter, e.g. Mahindra"`
	BodyType          string  `json:"body_type,omitempty" jsonschema_description:"Body type filter, e.g. SUV, Sedan, Scooter"`
	FuelType          string  `json:"fuel_type,omitempty" jsonschema_description:"Fuel type filter, e.g. Petrol, Diesel, Electric"`
	MileageMoreThan   float64 `json:"mileage_more_than,omitempty" jsonschema_description:"Only vehicles with mileage strictly above this"`
	MileageLessThan   float64 `json:"mileage_less_than,omitempty" jsonschema_description:"Only vehicles with mileage strictly below this"`
	SeatingCapacity   int     `json:"seating_capacity,omitempty" jsonschema_description:"Exact seating capacity"`
	Transmission      string  `json:"transmission,omitempty" jsonschema_description:"Transmission filter, e.g. Manual, Automatic"`
	DisplacementAbove int     `json:"engine_displacement_more_than,omitempty" jsonschema_description:"Only vehicles with engine displacement strictly above this (cc)"`
	DisplacementBelow int     `json:"engine_displacement_less_than,omitempty" jsonschema_description:"Only vehicles with engine displacement strictly below this (cc)"`
	SortBy            string  `json:"sort_by,omitempty" jsonschema_description:"Sort field: price, mileage, seating_capacity or engine_displacement"`
	SortOrder         string  `json:"sort_order,omitempty" jsonschema_description:"Sort order: asc (default) or desc"`
}

// ListVehiclesInput defines input for listCars and listBikes.
type ListVehiclesInput struct {
	Limit  int `json:"limit,omitempty" jsonschema_description:"Maximum number of results (default 10)"`
	Offset int `json:"offset,omitempty" jsonschema_description:"Number of results to skip for pagination"`
	VehicleFilterInput
}

// SearchVehiclesInput defines input for searchCar and searchBike.
type SearchVehiclesInput struct {
	Query string `json:"query" jsonschema_description:"Free-text query matched against name, manufacturer and model"`
	Limit int    `json:"limit,omitempty" jsonschema_description:"Maximum number of results (default 10)"`
	VehicleFilterInput
}

// VehicleDetailsInput defines input for the detail tools.
type VehicleDetailsInput struct {
	ID string `json:"id" jsonschema_description:"Vehicle identifier, lowercase with underscores, e.g. scorpio_n"`
}

// CompareVehiclesInput defines input for the comparison tools.
type CompareVehiclesInput struct {
	IDs []string `json:"ids" jsonschema_description:"Two or more vehicle identifiers to compare"`
}

// SearchFAQInput defines input for searchFAQ.
type SearchFAQInput struct {
	Query string `json:"query" jsonschema_description:"The user's question"`
	Limit int    `json:"limit,omitempty" jsonschema_description:"Maximum number of FAQ entries (default 5, capped at 15)"`
}

// BookRideInput defines input for bookRide.
type BookRideInput struct {
	Name        string `json:"name" jsonschema_description:"The user's full name"`
	PhoneNumber string `json:"phone_number" jsonschema_description:"The user's phone number"`
}

// ConfirmRideInput defines input for confirmRide.
type ConfirmRideInput struct {
	OTP string `json:"otp" jsonschema_description:"The six-digit OTP the user received"`
}

// FindEVChargerInput defines input for findNearestEVCharger.
type FindEVChargerInput struct {
	Pincode  string  `json:"pincode" jsonschema_description:"Indian postal pincode to search from"`
	RadiusKm float64 `json:"radius_in_km,omitempty" jsonschema_description:"Search radius in kilometers (default 5)"`
	Limit    int     `json:"limit,omitempty" jsonschema_description:"Maximum number of stations (default 5)"`
}
