// Package tools registers the bot's Genkit tools and adapts the domain
// services behind them. Business failures are reported inside Result with
// StatusError so the model can read them and correct its call; Go errors are
// reserved for infrastructure problems.
package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/vahanlabs/mahindrabot/internal/booking"
	"github.com/vahanlabs/mahindrabot/internal/catalog"
	"github.com/vahanlabs/mahindrabot/internal/evcharger"
	"github.com/vahanlabs/mahindrabot/internal/faq"
)

// FAQSearcher answers free-text FAQ queries.
type FAQSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]faq.Result, error)
}

// VehicleCatalog serves one catalog (cars or bikes).
type VehicleCatalog interface {
	List(p catalog.ListParams) ([]catalog.Vehicle, error)
	Search(query string, p catalog.ListParams) ([]catalog.Vehicle, error)
	Details(id string) (catalog.Vehicle, error)
	ExtendedDetails(id string) (catalog.Vehicle, error)
	Compare(ids []string) (*catalog.Comparison, error)
}

// ChargerFinder locates EV charging stations near a pincode.
type ChargerFinder interface {
	FindNearest(pincode string, radiusKm float64, limit int) (evcharger.Place, []evcharger.Result, error)
}

// BookingStore runs the OTP booking flow.
type BookingStore interface {
	Begin(name, phone string) (string, error)
	Confirm(otp string) (booking.Confirmation, error)
}

// BookingRecorder persists confirmed bookings.
type BookingRecorder interface {
	Record(ctx context.Context, name, phone string, confirmedAt time.Time) error
}

// OTPNotifier delivers a freshly issued OTP out of band. The tool response
// never contains the OTP; without a notifier the code is simply dropped.
type OTPNotifier interface {
	OTPIssued(ctx context.Context, name, phone, otp string)
}

// KitConfig holds the dependencies for a Kit. FAQ, Cars, Chargers and
// Bookings are required; Bikes, Recorder and Notifier are optional.
type KitConfig struct {
	FAQ      FAQSearcher
	Cars     VehicleCatalog
	Bikes    VehicleCatalog
	Chargers ChargerFinder
	Bookings BookingStore
	Recorder BookingRecorder
	Notifier OTPNotifier
	Logger   *slog.Logger
}

// Kit wires the domain services into Genkit tools.
type Kit struct {
	faq      FAQSearcher
	cars     VehicleCatalog
	bikes    VehicleCatalog
	chargers ChargerFinder
	bookings BookingStore
	recorder BookingRecorder
	notifier OTPNotifier
	logger   *slog.Logger
}

// NewKit validates dependencies and builds a Kit.
func NewKit(cfg KitConfig) (*Kit, error) {
	if cfg.FAQ == nil {
		return nil, errors.New("KitConfig.FAQ is required")
	}
	if cfg.Cars == nil {
		return nil, errors.New("KitConfig.Cars is required")
	}
	if cfg.Chargers == nil {
		return nil, errors.New("KitConfig.Chargers is required")
	}
	if cfg.Bookings == nil {
		return nil, errors.New("KitConfig.Bookings is required")
	}
	if cfg.Logger == nil {
		return nil, errors.New("KitConfig.Logger is required")
	}
	return &Kit{
		faq:      cfg.FAQ,
		cars:     cfg.Cars,
		bikes:    cfg.Bikes,
		chargers: cfg.Chargers,
		bookings: cfg.Bookings,
		recorder: cfg.Recorder,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
	}, nil
}

// Register defines every tool on the Genkit instance. Bike tools are only
// registered when a bike catalog is configured.
func (k *Kit) Register(g *genkit.Genkit) error {
	if g == nil {
		return errors.New("genkit instance is required")
	}

	genkit.DefineTool(g, "search_faq",
		"Search the FAQ knowledge base for questions about warranty, service, finance, "+
			"insurance, RTO processes and ownership. Returns the most relevant question/answer "+
			"pairs with similarity scores. Use this for any policy or process question.",
		WithEvents("search_faq", k.SearchFAQ))

	k.registerCatalogTools(g, k.cars, "car", map[string]string{
		"list":     "list_cars",
		"search":   "search_car",
		"details":  "get_car_details",
		"extended": "get_extended_car_details",
		"compare":  "get_car_comparison",
	})
	if k.bikes != nil {
		k.registerCatalogTools(g, k.bikes, "bike", map[string]string{
			"list":     "list_bikes",
			"search":   "search_bike",
			"details":  "get_bike_details",
			"extended": "get_extended_bike_details",
			"compare":  "get_bike_comparison",
		})
	}

	genkit.DefineTool(g, "book_ride",
		"Start a test drive booking. Requires the user's full name and phone number. "+
			"Generates an OTP and sends it to the user out of band; the OTP is never part of the response. "+
			"Ask the user for the OTP afterwards and confirm with confirm_ride.",
		WithEvents("book_ride", k.BookRide))

	genkit.DefineTool(g, "confirm_ride",
		"Confirm a test drive booking with the OTP the user received. "+
			"Completes the booking on a match; reports an error for a wrong or expired OTP.",
		WithEvents("confirm_ride", k.ConfirmRide))

	genkit.DefineTool(g, "find_nearest_ev_charger",
		"Find EV charging stations near an Indian pincode, sorted by distance. "+
			"Returns station details (vendor, charger type, cost, timing) and a Google Maps link each.",
		WithEvents("find_nearest_ev_charger", k.FindNearestEVCharger))

	k.logger.Info("tools registered", "bike_catalog", k.bikes != nil)
	return nil
}

func (k *Kit) registerCatalogTools(g *genkit.Genkit, cat VehicleCatalog, noun string, names map[string]string) {
	genkit.DefineTool(g, names["list"],
		fmt.Sprintf("List %ss with optional filters (price range, brand, body type, fuel type, "+
			"mileage, seating, transmission, engine displacement), sorting and pagination. "+
			"All filters combine with AND.", noun),
		WithEvents(names["list"], func(ctx *ai.ToolContext, input ListVehiclesInput) (Result, error) {
			return k.listVehicles(cat, input), nil
		}))

	genkit.DefineTool(g, names["search"],
		fmt.Sprintf("Search %ss by name, manufacturer or model, with the same optional filters "+
			"as the listing tool. Falls back to fuzzy matching when nothing matches directly.", noun),
		WithEvents(names["search"], func(ctx *ai.ToolContext, input SearchVehiclesInput) (Result, error) {
			return k.searchVehicles(cat, input), nil
		}))

	genkit.DefineTool(g, names["details"],
		fmt.Sprintf("Get the basic details (name, brand, price, body type) of one %s by its identifier.", noun),
		WithEvents(names["details"], func(ctx *ai.ToolContext, input VehicleDetailsInput) (Result, error) {
			return vehicleResult(cat.Details(input.ID)), nil
		}))

	genkit.DefineTool(g, names["extended"],
		fmt.Sprintf("Get the complete specification of one %s by its identifier: engine, dimensions, "+
			"mileage, colors, pros and cons, expert rating and verdict.", noun),
		WithEvents(names["extended"], func(ctx *ai.ToolContext, input VehicleDetailsInput) (Result, error) {
			return vehicleResult(cat.ExtendedDetails(input.ID)), nil
		}))

	genkit.DefineTool(g, names["compare"],
		fmt.Sprintf("Compare two or more %ss side by side: price, brand, body type, engine, "+
			"fuel, transmission, mileage, seating and rating.", noun),
		WithEvents(names["compare"], func(ctx *ai.ToolContext, input CompareVehiclesInput) (Result, error) {
			return k.compareVehicles(cat, input), nil
		}))
}

// Refs resolves registered tool names to references for a Generate call.
// Unknown names are skipped: a skill may reference bike tools on a
// deployment without a bike catalog.
func (k *Kit) Refs(g *genkit.Genkit, names []string) []ai.ToolRef {
	refs := make([]ai.ToolRef, 0, len(names))
	for _, name := range names {
		if tool := genkit.LookupTool(g, name); tool != nil {
			refs = append(refs, tool)
		}
	}
	return refs
}
