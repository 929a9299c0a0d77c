package handlers

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"flightline/internal/models"
)

// AircraftStore is the aircraft persistence the catalog handlers need.
type AircraftStore interface {
	Create(ctx context.Context, a *models.Aircraft) (*models.Aircraft, error)
	GetByID(ctx context.Context, id int64) (*models.Aircraft, error)
	List(ctx context.Context) ([]models.Aircraft, error)
}

// InstructorStore is the instructor and roster persistence.
type InstructorStore interface {
	Create(ctx context.Context, ins *models.Instructor) (*models.Instructor, error)
	GetByID(ctx context.Context, id int64) (*models.Instructor, error)
	List(ctx context.Context) ([]models.Instructor, error)
	RosterRules(ctx context.Context, instructorID int64, weekday int) ([]models.RosterRule, error)
	AllRosterRules(ctx context.Context) ([]models.RosterRule, error)
	SaveRosterRule(ctx context.Context, rule *models.RosterRule) (*models.RosterRule, error)
}

// EquipmentStore is the non-aircraft asset persistence.
type EquipmentStore interface {
	Create(ctx context.Context, e *models.Equipment) (*models.Equipment, error)
	List(ctx context.Context) ([]models.Equipment, error)
}

// RateStore is the charge rate and chargeable catalog persistence.
type RateStore interface {
	Upsert(ctx context.Context, rate *models.ChargeRate) (*models.ChargeRate, error)
	ListChargeables(ctx context.Context) ([]models.Chargeable, error)
}

// FlightTypeStore is the flight type catalog persistence.
type FlightTypeStore interface {
	Create(ctx context.Context, ft *models.FlightType) (*models.FlightType, error)
	List(ctx context.Context) ([]models.FlightType, error)
}

// CatalogHandlers serves the resource catalog: aircraft, instructors,
// equipment, charge rates and the chargeable fee list.
type CatalogHandlers struct {
	aircraft    AircraftStore
	instructors InstructorStore
	equipment   EquipmentStore
	rates       RateStore
	flightTypes FlightTypeStore
	logger      *zap.Logger
}

// NewCatalogHandlers builds handlers.
func NewCatalogHandlers(aircraft AircraftStore, instructors InstructorStore, equipment EquipmentStore, rates RateStore, flightTypes FlightTypeStore, logger *zap.Logger) *CatalogHandlers {
	return &CatalogHandlers{
		aircraft:    aircraft,
		instructors: instructors,
		equipment:   equipment,
		rates:       rates,
		flightTypes: flightTypes,
		logger:      logger,
	}
}

// ListAircraft handles GET /api/aircraft.
func (h *CatalogHandlers) ListAircraft(w http.ResponseWriter, r *http.Request) {
	aircraft, err := h.aircraft.List(r.Context())
	if err != nil {
		h.logger.Error("list aircraft failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"aircraft": aircraft})
}

// CreateAircraft handles POST /api/aircraft.
func (h *CatalogHandlers) CreateAircraft(w http.ResponseWriter, r *http.Request) {
	var req models.Aircraft
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Registration == "" {
		writeError(w, http.StatusBadRequest, "registration required")
		return
	}
	created, err := h.aircraft.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("create aircraft failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetAircraft handles GET /api/aircraft/{id}.
func (h *CatalogHandlers) GetAircraft(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid aircraft id")
		return
	}
	aircraft, err := h.aircraft.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, aircraft)
}

// ListInstructors handles GET /api/instructors.
func (h *CatalogHandlers) ListInstructors(w http.ResponseWriter, r *http.Request) {
	instructors, err := h.instructors.List(r.Context())
	if err != nil {
		h.logger.Error("list instructors failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"instructors": instructors})
}

// CreateInstructor handles POST /api/instructors.
func (h *CatalogHandlers) CreateInstructor(w http.ResponseWriter, r *http.Request) {
	var req models.Instructor
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	created, err := h.instructors.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("create instructor failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// InstructorRoster handles GET /api/instructors/{id}/roster?weekday=N.
func (h *CatalogHandlers) InstructorRoster(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid instructor id")
		return
	}
	if _, err := h.instructors.GetByID(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	weekday, err := strconv.Atoi(r.URL.Query().Get("weekday"))
	if err != nil || weekday < 0 || weekday > 6 {
		writeError(w, http.StatusBadRequest, "weekday must be 0 (Sunday) through 6 (Saturday)")
		return
	}
	rules, err := h.instructors.RosterRules(r.Context(), id, weekday)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rules": rules})
}

// SaveRosterRule handles POST /api/instructors/{id}/roster.
func (h *CatalogHandlers) SaveRosterRule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid instructor id")
		return
	}
	var req models.RosterRule
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.InstructorID = id
	if req.Weekday < 0 || req.Weekday > 6 {
		writeError(w, http.StatusBadRequest, "weekday must be 0 (Sunday) through 6 (Saturday)")
		return
	}
	if req.EndMin <= req.StartMin || req.StartMin < 0 || req.EndMin > 24*60 {
		writeError(w, http.StatusBadRequest, "duty window must be a non-empty minute range within the day")
		return
	}
	rule, err := h.instructors.SaveRosterRule(r.Context(), &req)
	if err != nil {
		h.logger.Error("save roster rule failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

// ListEquipment handles GET /api/equipment.
func (h *CatalogHandlers) ListEquipment(w http.ResponseWriter, r *http.Request) {
	equipment, err := h.equipment.List(r.Context())
	if err != nil {
		h.logger.Error("list equipment failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"equipment": equipment})
}

// CreateEquipment handles POST /api/equipment.
func (h *CatalogHandlers) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var req models.Equipment
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	created, err := h.equipment.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("create equipment failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpsertChargeRate handles PUT /api/charge-rates.
func (h *CatalogHandlers) UpsertChargeRate(w http.ResponseWriter, r *http.Request) {
	var req models.ChargeRate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ResourceKind != models.RateResourceAircraft && req.ResourceKind != models.RateResourceInstructor {
		writeError(w, http.StatusBadRequest, "resource_kind must be aircraft or instructor")
		return
	}
	if req.ResourceID == 0 || req.FlightTypeID == 0 {
		writeError(w, http.StatusBadRequest, "resource_id and flight_type_id required")
		return
	}
	if req.RatePerHour < 0 {
		writeError(w, http.StatusBadRequest, "rate_per_hour cannot be negative")
		return
	}
	rate, err := h.rates.Upsert(r.Context(), &req)
	if err != nil {
		h.logger.Error("upsert charge rate failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rate)
}

// ListFlightTypes handles GET /api/flight-types.
func (h *CatalogHandlers) ListFlightTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.flightTypes.List(r.Context())
	if err != nil {
		h.logger.Error("list flight types failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"flight_types": types})
}

// CreateFlightType handles POST /api/flight-types.
func (h *CatalogHandlers) CreateFlightType(w http.ResponseWriter, r *http.Request) {
	var req models.FlightType
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	created, err := h.flightTypes.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("create flight type failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListChargeables handles GET /api/chargeables.
func (h *CatalogHandlers) ListChargeables(w http.ResponseWriter, r *http.Request) {
	chargeables, err := h.rates.ListChargeables(r.Context())
	if err != nil {
		h.logger.Error("list chargeables failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"chargeables": chargeables})
}
