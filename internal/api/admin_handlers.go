package api

import (
	"net/http"
	"strconv"
	"time"

	"infinite-experiment/flightboard/internal/board"
	"infinite-experiment/flightboard/internal/common"
	"infinite-experiment/flightboard/internal/constants"
	"infinite-experiment/flightboard/internal/models/dtos"
	"infinite-experiment/flightboard/internal/models/entities"
)

// busy answers 409 for ?strict=1 submissions made while a load is running.
func busy(w http.ResponseWriter, r *http.Request, initTime time.Time, deps *Dependencies, form any) bool {
	if r.URL.Query().Get("strict") != "1" || !deps.Services.Store.Loading() {
		return false
	}
	common.RespondError(w, initTime, "A reload is in progress, try again shortly", dtos.FormRejection{Form: form}, http.StatusConflict)
	return true
}

// ============================================================================
// Flights
// ============================================================================

// AdminFlightsHandler handles GET /api/v1/admin/flights
//
// @Summary Admin flight table with form options
// @Tags Admin
// @Security BearerAuth
// @Success 200 {object} dtos.APIResponse{data=dtos.AdminFlightsView}
// @Router /api/v1/admin/flights [get]
func AdminFlightsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		boardSvc := deps.Services.Board

		statuses := make([]string, 0, len(entities.FlightStatuses))
		for _, s := range entities.FlightStatuses {
			statuses = append(statuses, string(s))
		}

		common.RespondSuccess(w, initTime, "Flights", dtos.AdminFlightsView{
			Flights:  boardSvc.AdminFlights(),
			Airlines: boardSvc.AirlineOptions(),
			Airports: boardSvc.AirportOptions().Options,
			Statuses: statuses,
		})
	}
}

// CreateFlightHandler handles POST /api/v1/admin/flights
//
// @Summary Create a flight
// @Tags Admin
// @Security BearerAuth
// @Param strict query int false "1 rejects the request while a reload is running"
// @Param body body dtos.FlightForm true "Flight form"
// @Success 201 {object} dtos.APIResponse{data=dtos.MutationResult}
// @Failure 422 {object} dtos.APIResponse{data=dtos.FormRejection}
// @Failure 502 {object} dtos.APIResponse{data=dtos.FormRejection}
// @Router /api/v1/admin/flights [post]
func CreateFlightHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var form dtos.FlightForm
		if !decodeForm(w, r, initTime, &form) || busy(w, r, initTime, deps, form) {
			return
		}

		payload, err := deps.Services.Forms.FlightPayload(form)
		if err != nil {
			respondRejection(w, initTime, constants.MsgFlightAddFailed, err, form)
			return
		}

		result, err := deps.Services.Mutations.CreateEntity(r.Context(), entities.KindFlight, payload)
		respondMutation(w, initTime, deps, constants.MsgFlightAdded, constants.MsgFlightAddFailed, result, err, form)
	}
}

// UpdateFlightHandler handles PUT /api/v1/admin/flights/{id}
//
// @Summary Update a flight
// @Tags Admin
// @Security BearerAuth
// @Param id path int true "Flight id"
// @Param body body dtos.FlightForm true "Flight form"
// @Success 200 {object} dtos.APIResponse{data=dtos.MutationResult}
// @Router /api/v1/admin/flights/{id} [put]
func UpdateFlightHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, ok := pathID(r, "id")
		if !ok {
			common.RespondError(w, initTime, constants.GetErrorMessage(constants.ErrCodeMissingID), nil, http.StatusBadRequest)
			return
		}

		var form dtos.FlightForm
		if !decodeForm(w, r, initTime, &form) || busy(w, r, initTime, deps, form) {
			return
		}

		payload, err := deps.Services.Forms.FlightPayload(form)
		if err != nil {
			respondRejection(w, initTime, constants.MsgFlightUpdFailed, err, form)
			return
		}

		result, err := deps.Services.Mutations.UpdateEntity(r.Context(), entities.KindFlight, id, payload)
		respondMutation(w, initTime, deps, constants.MsgFlightUpdated, constants.MsgFlightUpdFailed, result, err, form)
	}
}

// DeleteFlightHandler handles DELETE /api/v1/admin/flights/{id}
//
// @Summary Delete a flight
// @Tags Admin
// @Security BearerAuth
// @Param id path int true "Flight id"
// @Success 200 {object} dtos.APIResponse{data=dtos.MutationResult}
// @Router /api/v1/admin/flights/{id} [delete]
func DeleteFlightHandler(deps *Dependencies) http.HandlerFunc {
	return deleteHandler(deps, entities.KindFlight, constants.MsgFlightDeleted, constants.MsgFlightDelFailed)
}

// ============================================================================
// Airlines
// ============================================================================

// CreateAirlineHandler handles POST /api/v1/admin/airlines
//
// @Summary Create an airline
// @Tags Admin
// @Security BearerAuth
// @Param body body dtos.AirlineForm true "Airline form"
// @Success 201 {object} dtos.APIResponse{data=dtos.MutationResult}
// @Router /api/v1/admin/airlines [post]
func CreateAirlineHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var form dtos.AirlineForm
		if !decodeForm(w, r, initTime, &form) || busy(w, r, initTime, deps, form) {
			return
		}

		payload, err := deps.Services.Forms.AirlinePayload(form)
		if err != nil {
			respondRejection(w, initTime, constants.MsgAirlineAddFailed, err, form)
			return
		}

		result, err := deps.Services.Mutations.CreateEntity(r.Context(), entities.KindAirline, payload)
		respondMutation(w, initTime, deps, constants.MsgAirlineAdded, constants.MsgAirlineAddFailed, result, err, form)
	}
}

// DeleteAirlineHandler handles DELETE /api/v1/admin/airlines/{id}
func DeleteAirlineHandler(deps *Dependencies) http.HandlerFunc {
	return deleteHandler(deps, entities.KindAirline, constants.MsgAirlineDeleted, constants.MsgAirlineDelFailed)
}

// ============================================================================
// Gates
// ============================================================================

// AdminGatesHandler handles GET /api/v1/admin/gates
func AdminGatesHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		common.RespondSuccess(w, initTime, "Gates", deps.Services.Board.GateRows())
	}
}

// CreateGateHandler handles POST /api/v1/admin/gates
//
// @Summary Create a gate
// @Tags Admin
// @Security BearerAuth
// @Param body body dtos.GateForm true "Gate form"
// @Success 201 {object} dtos.APIResponse{data=dtos.MutationResult}
// @Router /api/v1/admin/gates [post]
func CreateGateHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var form dtos.GateForm
		if !decodeForm(w, r, initTime, &form) || busy(w, r, initTime, deps, form) {
			return
		}

		payload, err := deps.Services.Forms.GatePayload(form)
		if err != nil {
			respondRejection(w, initTime, constants.MsgGateAddFailed, err, form)
			return
		}

		result, err := deps.Services.Mutations.CreateEntity(r.Context(), entities.KindGate, payload)
		respondMutation(w, initTime, deps, constants.MsgGateAdded, constants.MsgGateAddFailed, result, err, form)
	}
}

// DeleteGateHandler handles DELETE /api/v1/admin/gates/{id}
func DeleteGateHandler(deps *Dependencies) http.HandlerFunc {
	return deleteHandler(deps, entities.KindGate, constants.MsgGateDeleted, constants.MsgGateDelFailed)
}

// GateOptionsHandler handles GET /api/v1/admin/gates/options
//
// @Summary Gates selectable for a flight departing from an airport
// @Tags Admin
// @Security BearerAuth
// @Param departureAirportId query int false "Departure airport id; omitted offers every gate"
// @Success 200 {object} dtos.APIResponse{data=[]dtos.Option}
// @Router /api/v1/admin/gates/options [get]
func GateOptionsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		departureID, ok := queryID(r, "departureAirportId")
		if !ok {
			common.RespondError(w, initTime, "departureAirportId must be a positive integer", nil, http.StatusBadRequest)
			return
		}
		common.RespondSuccess(w, initTime, "Gate options", deps.Services.Board.GateOptions(departureID))
	}
}

// LoadGatesForAirportHandler handles POST /api/v1/admin/gates/airport/{airportId}
//
// @Summary Replace the gates collection with one airport's gates
// @Tags Admin
// @Security BearerAuth
// @Param airportId path int true "Airport id"
// @Success 200 {object} dtos.APIResponse{data=[]dtos.GateRow}
// @Failure 502 {object} dtos.APIResponse
// @Router /api/v1/admin/gates/airport/{airportId} [post]
func LoadGatesForAirportHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		airportID, ok := pathID(r, "airportId")
		if !ok {
			common.RespondError(w, initTime, constants.GetErrorMessage(constants.ErrCodeMissingID), nil, http.StatusBadRequest)
			return
		}

		snap, err := deps.Services.Store.LoadGatesForAirport(r.Context(), airportID)
		if err != nil {
			common.RespondError(w, initTime, constants.MsgGatesLoadFailed, nil, http.StatusBadGateway)
			return
		}
		common.RespondSuccess(w, initTime, "Gates loaded", board.GateRows(snap.Gates))
	}
}

func deleteHandler(deps *Dependencies, kind entities.EntityKind, okMsg, failMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, ok := pathID(r, "id")
		if !ok {
			common.RespondError(w, initTime, constants.GetErrorMessage(constants.ErrCodeMissingID), nil, http.StatusBadRequest)
			return
		}
		form := dtos.IDRef{ID: id}
		if busy(w, r, initTime, deps, form) {
			return
		}

		result, err := deps.Services.Mutations.DeleteEntity(r.Context(), kind, id)
		respondMutation(w, initTime, deps, okMsg, failMsg, result, err, form)
	}
}

// ============================================================================
// Audit
// ============================================================================

// AuditHandler handles GET /api/v1/admin/audit
//
// @Summary Recent mutation attempts
// @Tags Admin
// @Security BearerAuth
// @Param kind query string false "flight, airline or gate"
// @Param limit query int false "Max entries, default 50"
// @Success 200 {object} dtos.APIResponse{data=dtos.AuditResponse}
// @Router /api/v1/admin/audit [get]
func AuditHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if deps.Repo.Audit == nil {
			common.RespondError(w, initTime, "Audit journal is disabled", nil, http.StatusNotFound)
			return
		}

		kind := r.URL.Query().Get("kind")
		if kind != "" && !entities.EntityKind(kind).Valid() {
			common.RespondError(w, initTime, constants.GetErrorMessage(constants.ErrCodeUnknownKind), nil, http.StatusBadRequest)
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		entries, err := deps.Repo.Audit.List(r.Context(), kind, limit)
		if err != nil {
			common.RespondError(w, initTime, "Failed to read audit journal", nil, http.StatusInternalServerError)
			return
		}
		totals, err := deps.Repo.Audit.CountByOutcome(r.Context())
		if err != nil {
			common.RespondError(w, initTime, "Failed to read audit journal", nil, http.StatusInternalServerError)
			return
		}

		common.RespondSuccess(w, initTime, "Audit entries", dtos.AuditResponse{Entries: entries, Totals: totals})
	}
}
