package tools

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/firebase/genkit/go/ai"

	"github.com/vahanlabs/mahindrabot/internal/booking"
	"github.com/vahanlabs/mahindrabot/internal/catalog"
	"github.com/vahanlabs/mahindrabot/internal/evcharger"
	"github.com/vahanlabs/mahindrabot/internal/faq"
)

type fakeFAQ struct {
	results  []faq.Result
	err      error
	gotQuery string
	gotLimit int
}

func (f *fakeFAQ) Search(_ context.Context, query string, limit int) ([]faq.Result, error) {
	f.gotQuery = query
	f.gotLimit = limit
	return f.results, f.err
}

type fakeCatalog struct {
	vehicles   []catalog.Vehicle
	comparison *catalog.Comparison
	err        error
	gotParams  catalog.ListParams
}

func (f *fakeCatalog) List(p catalog.ListParams) ([]catalog.Vehicle, error) {
	f.gotParams = p
	return f.vehicles, f.err
}

func (f *fakeCatalog) Search(_ string, p catalog.ListParams) ([]catalog.Vehicle, error) {
	f.gotParams = p
	return f.vehicles, f.err
}

func (f *fakeCatalog) Details(string) (catalog.Vehicle, error) {
	if f.err != nil {
		return catalog.Vehicle{}, f.err
	}
	return f.vehicles[0], nil
}

func (f *fakeCatalog) ExtendedDetails(id string) (catalog.Vehicle, error) {
	return f.Details(id)
}

func (f *fakeCatalog) Compare([]string) (*catalog.Comparison, error) {
	return f.comparison, f.err
}

type fakeChargers struct {
	place    evcharger.Place
	stations []evcharger.Result
	err      error
}

func (f *fakeChargers) FindNearest(string, float64, int) (evcharger.Place, []evcharger.Result, error) {
	return f.place, f.stations, f.err
}

type fakeBookings struct {
	otp        string
	beginErr   error
	confirm    booking.Confirmation
	confirmErr error
}

func (f *fakeBookings) Begin(name, phone string) (string, error) {
	return f.otp, f.beginErr
}

func (f *fakeBookings) Confirm(otp string) (booking.Confirmation, error) {
	return f.confirm, f.confirmErr
}

type fakeRecorder struct {
	recorded []string
	err      error
}

func (f *fakeRecorder) Record(_ context.Context, name, phone string, _ time.Time) error {
	f.recorded = append(f.recorded, name)
	return f.err
}

type fakeNotifier struct {
	otps []string
}

func (f *fakeNotifier) OTPIssued(_ context.Context, _, _, otp string) {
	f.otps = append(f.otps, otp)
}

type kitDeps struct {
	faq      *fakeFAQ
	cars     *fakeCatalog
	chargers *fakeChargers
	bookings *fakeBookings
	recorder *fakeRecorder
	notifier *fakeNotifier
}

func newTestKit(t *testing.T) (*Kit, *kitDeps) {
	t.Helper()
	deps := &kitDeps{
		faq:      &fakeFAQ{},
		cars:     &fakeCatalog{},
		chargers: &fakeChargers{},
		bookings: &fakeBookings{},
		recorder: &fakeRecorder{},
		notifier: &fakeNotifier{},
	}
	kit, err := NewKit(KitConfig{
		FAQ:      deps.faq,
		Cars:     deps.cars,
		Chargers: deps.chargers,
		Bookings: deps.bookings,
		Recorder: deps.recorder,
		Notifier: deps.notifier,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewKit: %v", err)
	}
	return kit, deps
}

func toolCtx() *ai.ToolContext {
	return &ai.ToolContext{Context: context.Background()}
}

func TestNewKitRequiresDependencies(t *testing.T) {
	_, err := NewKit(KitConfig{})
	if err == nil {
		t.Fatal("expected error for empty config")
	}
}

func TestSearchFAQClampsLimit(t *testing.T) {
	kit, deps := newTestKit(t)
	deps.faq.results = []faq.Result{{Question: "q", Answer: "a", Score: 0.9}}

	if _, err := kit.SearchFAQ(toolCtx(), SearchFAQInput{Query: "warranty", Limit: 99}); err != nil {
		t.Fatalf("SearchFAQ: %v", err)
	}
	if deps.faq.gotLimit != maxFAQLimit {
		t.Errorf("limit = %d, want clamped to %d", deps.faq.gotLimit, maxFAQLimit)
	}

	if _, err := kit.SearchFAQ(toolCtx(), SearchFAQInput{Query: "warranty"}); err != nil {
		t.Fatalf("SearchFAQ: %v", err)
	}
	if deps.faq.gotLimit != defaultFAQLimit {
		t.Errorf("default limit = %d, want %d", deps.faq.gotLimit, defaultFAQLimit)
	}
}

func TestSearchFAQLowScoreFallsBack(t *testing.T) {
	kit, deps := newTestKit(t)
	deps.faq.results = []faq.Result{{Question: "q", Answer: "a", Score: 0.42}}

	result, err := kit.SearchFAQ(toolCtx(), SearchFAQInput{Query: "something obscure"})
	if err != nil {
		t.Fatalf("SearchFAQ: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("status = %q", result.Status)
	}
	data := result.Data.(map[string]any)
	if data["found"] != false {
		t.Errorf("found = %v, want false below relevance floor", data["found"])
	}
	if !strings.Contains(data["message"].(string), "customer support") {
		t.Errorf("message = %v", data["message"])
	}
}

func TestSearchFAQReturnsResults(t *testing.T) {
	kit, deps := newTestKit(t)
	deps.faq.results = []faq.Result{
		{Question: "What is the warranty?", Answer: "5 years", Score: 0.87},
	}

	result, err := kit.SearchFAQ(toolCtx(), SearchFAQInput{Query: "warranty period"})
	if err != nil {
		t.Fatalf("SearchFAQ: %v", err)
	}
	data := result.Data.(map[string]any)
	if data["found"] != true || data["count"] != 1 {
		t.Errorf("data = %v", data)
	}
}

func TestSearchFAQEmptyQuery(t *testing.T) {
	kit, _ := newTestKit(t)
	result, err := kit.SearchFAQ(toolCtx(), SearchFAQInput{})
	if err != nil {
		t.Fatalf("SearchFAQ: %v", err)
	}
	if result.Status != StatusError || result.Error.Code != ErrCodeValidation {
		t.Errorf("result = %+v, want validation error", result)
	}
}

func TestListVehiclesDefaultsLimit(t *testing.T) {
	kit, deps := newTestKit(t)

	result := kit.listVehicles(deps.cars, ListVehiclesInput{})
	if result.Status != StatusSuccess {
		t.Fatalf("result = %+v", result)
	}
	if deps.cars.gotParams.Limit != defaultVehicleLimit {
		t.Errorf("limit = %d, want %d", deps.cars.gotParams.Limit, defaultVehicleLimit)
	}
}

func TestListVehiclesTranslatesFilters(t *testing.T) {
	kit, deps := newTestKit(t)

	kit.listVehicles(deps.cars, ListVehiclesInput{
		Limit: 3,
		VehicleFilterInput: VehicleFilterInput{
			MaxPrice:        1500000,
			Brand:           "Mahindra",
			SeatingCapacity: 7,
			SortBy:          "price",
			SortOrder:       "desc",
		},
	})

	p := deps.cars.gotParams
	if p.Limit != 3 || p.Filters.Brand != "Mahindra" {
		t.Errorf("params = %+v", p)
	}
	if p.Filters.MaxPrice == nil || *p.Filters.MaxPrice != 1500000 {
		t.Errorf("max price not translated: %+v", p.Filters)
	}
	if p.Filters.MinPrice != nil {
		t.Error("unset min price should stay nil")
	}
	if p.Filters.SeatingCapacity == nil || *p.Filters.SeatingCapacity != 7 {
		t.Errorf("seating not translated: %+v", p.Filters)
	}
	if p.SortBy != catalog.SortByPrice || p.Order != catalog.SortDesc {
		t.Errorf("sort not translated: %v %v", p.SortBy, p.Order)
	}
}

func TestCatalogFailureMapsErrorCodes(t *testing.T) {
	kit, deps := newTestKit(t)

	deps.cars.err = &catalog.NotFoundError{Kind: catalog.KindCar, ID: "phantom"}
	result := vehicleResult(deps.cars.Details("phantom"))
	if result.Status != StatusError || result.Error.Code != ErrCodeNotFound {
		t.Errorf("not-found result = %+v", result)
	}

	deps.cars.err = &catalog.InvalidFilterError{Filter: "brand", Value: "Mahnidra"}
	result = kit.listVehicles(deps.cars, ListVehiclesInput{})
	if result.Status != StatusError || result.Error.Code != ErrCodeValidation {
		t.Errorf("invalid-filter result = %+v", result)
	}
}

func TestCompareVehiclesRequiresTwoIDs(t *testing.T) {
	kit, deps := newTestKit(t)
	result := kit.compareVehicles(deps.cars, CompareVehiclesInput{IDs: []string{"solo"}})
	if result.Status != StatusError || result.Error.Code != ErrCodeValidation {
		t.Errorf("result = %+v", result)
	}
}

func TestBookRideHidesOTP(t *testing.T) {
	kit, deps := newTestKit(t)
	deps.bookings.otp = "123456"

	result, err := kit.BookRide(toolCtx(), BookRideInput{Name: "Asha", PhoneNumber: "9876543210"})
	if err != nil {
		t.Fatalf("BookRide: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("result = %+v", result)
	}
	msg := result.Data.(map[string]any)["message"].(string)
	if strings.Contains(msg, "123456") {
		t.Error("response must not reveal the OTP")
	}
	if len(deps.notifier.otps) != 1 || deps.notifier.otps[0] != "123456" {
		t.Errorf("notifier got %v, want the issued OTP", deps.notifier.otps)
	}
}

func TestConfirmRideRecordsBooking(t *testing.T) {
	kit, deps := newTestKit(t)
	deps.bookings.confirm = booking.Confirmation{Name: "Asha", Phone: "9876543210"}

	result, err := kit.ConfirmRide(toolCtx(), ConfirmRideInput{OTP: "123456"})
	if err != nil {
		t.Fatalf("ConfirmRide: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("result = %+v", result)
	}
	if len(deps.recorder.recorded) != 1 || deps.recorder.recorded[0] != "Asha" {
		t.Errorf("recorded = %v", deps.recorder.recorded)
	}
}

func TestConfirmRideInvalidOTP(t *testing.T) {
	kit, deps := newTestKit(t)
	deps.bookings.confirmErr = booking.ErrInvalidOTP

	result, err := kit.ConfirmRide(toolCtx(), ConfirmRideInput{OTP: "000000"})
	if err != nil {
		t.Fatalf("ConfirmRide: %v", err)
	}
	if result.Status != StatusError || result.Error.Code != ErrCodeValidation {
		t.Errorf("result = %+v", result)
	}
	if len(deps.recorder.recorded) != 0 {
		t.Error("failed confirmation must not be recorded")
	}
}

func TestConfirmRideOverrideSkipsRecorder(t *testing.T) {
	kit, deps := newTestKit(t)
	deps.bookings.confirm = booking.Confirmation{Override: true}

	result, err := kit.ConfirmRide(toolCtx(), ConfirmRideInput{OTP: "secret"})
	if err != nil {
		t.Fatalf("ConfirmRide: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("result = %+v", result)
	}
	if len(deps.recorder.recorded) != 0 {
		t.Error("override confirmations are not real bookings and must not be recorded")
	}
}

func TestFindNearestEVCharger(t *testing.T) {
	kit, deps := newTestKit(t)
	deps.chargers.place = evcharger.Place{Pincode: "560001", PlaceName: "Bangalore GPO"}
	deps.chargers.stations = []evcharger.Result{{DistanceKm: 1.2}}

	result, err := kit.FindNearestEVCharger(toolCtx(), FindEVChargerInput{Pincode: "560001"})
	if err != nil {
		t.Fatalf("FindNearestEVCharger: %v", err)
	}
	data := result.Data.(map[string]any)
	if data["count"] != 1 {
		t.Errorf("count = %v", data["count"])
	}
}

func TestFindNearestEVChargerUnknownPincode(t *testing.T) {
	kit, deps := newTestKit(t)
	deps.chargers.err = evcharger.ErrUnknownPincode

	result, err := kit.FindNearestEVCharger(toolCtx(), FindEVChargerInput{Pincode: "000000"})
	if err != nil {
		t.Fatalf("FindNearestEVCharger: %v", err)
	}
	if result.Status != StatusError || result.Error.Code != ErrCodeNotFound {
		t.Errorf("result = %+v", result)
	}
}
