package httpserver

import (
	"net/http"

	"flightline/internal/http/handlers"
	"flightline/internal/http/middleware"
	"flightline/internal/observability/metrics"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	CatalogHandlers *handlers.CatalogHandlers
	BookingHandlers *handlers.BookingHandlers
	CheckInHandlers *handlers.CheckInHandlers
	InvoiceHandlers *handlers.InvoiceHandlers
	ExportHandlers  *handlers.ExportHandlers
	HealthHandler   http.HandlerFunc
}

// NewRouter wires HTTP routes with middleware. Health and metrics stay open;
// everything under /api requires a bearer token.
func NewRouter(deps RouterDeps, authMiddleware func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", method(http.MethodGet, deps.HealthHandler))
	mux.Handle("/metrics", method(http.MethodGet, metrics.Handler()))

	authenticated := func(route string, handler http.HandlerFunc) http.Handler {
		return metrics.Middleware(route, middleware.Chain(handler, authMiddleware))
	}

	mux.Handle("/api/aircraft", split(
		authenticated("/api/aircraft", deps.CatalogHandlers.ListAircraft),
		authenticated("/api/aircraft", deps.CatalogHandlers.CreateAircraft),
	))
	mux.Handle("GET /api/aircraft/{id}", authenticated("/api/aircraft/{id}", deps.CatalogHandlers.GetAircraft))

	mux.Handle("/api/instructors", split(
		authenticated("/api/instructors", deps.CatalogHandlers.ListInstructors),
		authenticated("/api/instructors", deps.CatalogHandlers.CreateInstructor),
	))
	mux.Handle("GET /api/instructors/{id}/roster", authenticated("/api/instructors/{id}/roster", deps.CatalogHandlers.InstructorRoster))
	mux.Handle("POST /api/instructors/{id}/roster", authenticated("/api/instructors/{id}/roster", deps.CatalogHandlers.SaveRosterRule))

	mux.Handle("/api/equipment", split(
		authenticated("/api/equipment", deps.CatalogHandlers.ListEquipment),
		authenticated("/api/equipment", deps.CatalogHandlers.CreateEquipment),
	))

	mux.Handle("/api/flight-types", split(
		authenticated("/api/flight-types", deps.CatalogHandlers.ListFlightTypes),
		authenticated("/api/flight-types", deps.CatalogHandlers.CreateFlightType),
	))

	mux.Handle("PUT /api/charge-rates", authenticated("/api/charge-rates", deps.CatalogHandlers.UpsertChargeRate))
	mux.Handle("GET /api/chargeables", authenticated("/api/chargeables", deps.CatalogHandlers.ListChargeables))

	mux.Handle("GET /api/availability", authenticated("/api/availability", deps.BookingHandlers.Availability))

	mux.Handle("/api/bookings", split(
		authenticated("/api/bookings", deps.BookingHandlers.List),
		authenticated("/api/bookings", deps.BookingHandlers.Create),
	))
	mux.Handle("GET /api/bookings/{id}", authenticated("/api/bookings/{id}", deps.BookingHandlers.Get))
	mux.Handle("POST /api/bookings/recurring", authenticated("/api/bookings/recurring", deps.BookingHandlers.CreateRecurring))

	mux.Handle("POST /api/bookings/{id}/checkin/calculate", authenticated("/api/bookings/{id}/checkin/calculate", deps.CheckInHandlers.Calculate))
	mux.Handle("POST /api/bookings/{id}/checkin/draft", authenticated("/api/bookings/{id}/checkin/draft", deps.CheckInHandlers.Draft))
	mux.Handle("DELETE /api/bookings/{id}/checkin/draft", authenticated("/api/bookings/{id}/checkin/draft", deps.CheckInHandlers.DiscardDraft))
	mux.Handle("POST /api/bookings/{id}/checkin/edit", authenticated("/api/bookings/{id}/checkin/edit", deps.CheckInHandlers.BeginEdit))
	mux.Handle("PUT /api/bookings/{id}/checkin/edit", authenticated("/api/bookings/{id}/checkin/edit", deps.CheckInHandlers.ApplyEdit))
	mux.Handle("DELETE /api/bookings/{id}/checkin/edit", authenticated("/api/bookings/{id}/checkin/edit", deps.CheckInHandlers.CancelEdit))
	mux.Handle("POST /api/bookings/{id}/checkin/items", authenticated("/api/bookings/{id}/checkin/items", deps.CheckInHandlers.AddManualItem))
	mux.Handle("DELETE /api/bookings/{id}/checkin/items/{itemID}", authenticated("/api/bookings/{id}/checkin/items/{itemID}", deps.CheckInHandlers.RemoveItem))
	mux.Handle("POST /api/bookings/{id}/checkin/items/{itemID}/reinstate", authenticated("/api/bookings/{id}/checkin/items/{itemID}/reinstate", deps.CheckInHandlers.ReinstateItem))
	mux.Handle("POST /api/bookings/{id}/checkin/approve", authenticated("/api/bookings/{id}/checkin/approve", deps.CheckInHandlers.Approve))
	mux.Handle("POST /api/bookings/{id}/checkin/correct", authenticated("/api/bookings/{id}/checkin/correct", deps.CheckInHandlers.Correct))

	mux.Handle("GET /api/invoices/{id}", authenticated("/api/invoices/{id}", deps.InvoiceHandlers.Get))
	mux.Handle("GET /api/invoices/{id}/pdf", authenticated("/api/invoices/{id}/pdf", deps.InvoiceHandlers.PDF))

	mux.Handle("GET /api/export/bookings", authenticated("/api/export/bookings", deps.ExportHandlers.Bookings))
	mux.Handle("GET /api/export/roster", authenticated("/api/export/roster", deps.ExportHandlers.Roster))

	return mux
}

func method(expected string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

// split dispatches GET to one handler and POST to another on a shared path.
func split(get, post http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			get.ServeHTTP(w, r)
		case http.MethodPost:
			post.ServeHTTP(w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}
