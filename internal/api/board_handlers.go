package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"infinite-experiment/flightboard/internal/board"
	"infinite-experiment/flightboard/internal/common"
	"infinite-experiment/flightboard/internal/constants"
	"infinite-experiment/flightboard/internal/export"
	"infinite-experiment/flightboard/internal/logging"
	"infinite-experiment/flightboard/internal/models/dtos"
	"infinite-experiment/flightboard/internal/providers"
)

// selectionFromQuery applies ?airport= and ?direction= to the stored
// selection and returns the result.
func selectionFromQuery(w http.ResponseWriter, r *http.Request, initTime time.Time, deps *Dependencies) (board.Selection, bool) {
	airportID, ok := queryID(r, "airport")
	if !ok {
		common.RespondError(w, initTime, "airport must be a positive integer", nil, http.StatusBadRequest)
		return board.Selection{}, false
	}

	var dir *board.Direction
	if raw := r.URL.Query().Get("direction"); raw != "" {
		d, ok := board.ParseDirection(raw)
		if !ok {
			common.RespondError(w, initTime, "direction must be departures or arrivals", nil, http.StatusBadRequest)
			return board.Selection{}, false
		}
		dir = &d
	}

	return deps.Services.Board.Select(airportID, dir), true
}

// BoardHandler handles GET /api/v1/board
//
// @Summary Departures or arrivals board
// @Description Rows for the selected airport and direction. source=server asks the flight operations service for pre-filtered flights.
// @Tags Board
// @Param airport query int false "Airport id; defaults to the stored selection"
// @Param direction query string false "departures or arrivals"
// @Param source query string false "client or server"
// @Success 200 {object} dtos.APIResponse{data=dtos.Board}
// @Router /api/v1/board [get]
func BoardHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		sel, ok := selectionFromQuery(w, r, initTime, deps)
		if !ok {
			return
		}

		source := strings.ToLower(r.URL.Query().Get("source"))
		if source == "" {
			source = constants.BoardSourceClient
		}
		if source != constants.BoardSourceClient && source != constants.BoardSourceServer {
			common.RespondError(w, initTime, "source must be client or server", nil, http.StatusBadRequest)
			return
		}

		b, err := deps.Services.Board.Board(r.Context(), sel, source)
		if err != nil {
			common.RespondError(w, initTime, constants.MsgLoadFailed, dtos.FormRejection{Code: providers.ErrorCode(err)}, http.StatusBadGateway)
			return
		}

		common.RespondSuccess(w, initTime, "Board derived", b)
	}
}

// BoardPDFHandler handles GET /api/v1/board.pdf
//
// @Summary Printable board
// @Tags Board
// @Produce application/pdf
// @Param airport query int false "Airport id"
// @Param direction query string false "departures or arrivals"
// @Router /api/v1/board.pdf [get]
func BoardPDFHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		sel, ok := selectionFromQuery(w, r, initTime, deps)
		if !ok {
			return
		}

		b, err := deps.Services.Board.Board(r.Context(), sel, constants.BoardSourceClient)
		if err != nil {
			common.RespondError(w, initTime, constants.MsgLoadFailed, nil, http.StatusBadGateway)
			return
		}

		title := boardTitle(deps, sel)
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", strings.ReplaceAll(title, " ", "_")+".pdf"))
		if err := export.RenderBoardPDF(w, title, b, time.Now().In(deps.Services.Board.Location())); err != nil {
			logging.Error("Board PDF render failed", "error", err.Error())
		}
	}
}

func boardTitle(deps *Dependencies, sel board.Selection) string {
	name := "Board"
	if sel.AirportID != nil {
		for _, a := range deps.Services.Store.Snapshot().Airports {
			if a.ID == *sel.AirportID {
				name = board.NameCode(a.Name, a.Code)
				break
			}
		}
	}
	if sel.Direction == board.Arrivals {
		return name + " Arrivals"
	}
	return name + " Departures"
}

// AirportsHandler handles GET /api/v1/airports
//
// @Summary Airport select options with the current selection
// @Tags Board
// @Success 200 {object} dtos.APIResponse{data=dtos.AirportOptions}
// @Router /api/v1/airports [get]
func AirportsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		common.RespondSuccess(w, initTime, "Airports", deps.Services.Board.AirportOptions())
	}
}

// SnapshotHandler handles GET /api/v1/snapshot
//
// @Summary Current entity store snapshot
// @Tags Store
// @Success 200 {object} dtos.APIResponse{data=dtos.SnapshotResponse}
// @Router /api/v1/snapshot [get]
func SnapshotHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		st := deps.Services.Store

		resp := dtos.SnapshotResponse{
			Snapshot: st.Snapshot(),
			Loading:  st.Loading(),
		}
		if err := st.LastError(); err != nil {
			resp.LastLoadError = err.Error()
		}
		common.RespondSuccess(w, initTime, "Snapshot", resp)
	}
}

// ReloadHandler handles POST /api/v1/reload
//
// @Summary Reload every collection from the flight operations service
// @Tags Store
// @Success 200 {object} dtos.APIResponse{data=dtos.SnapshotResponse}
// @Failure 502 {object} dtos.APIResponse
// @Router /api/v1/reload [post]
func ReloadHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		snap, err := deps.Services.Store.Load(r.Context())
		resp := dtos.SnapshotResponse{Snapshot: snap, Loading: deps.Services.Store.Loading()}
		if err != nil {
			resp.LastLoadError = err.Error()
			common.RespondError(w, initTime, constants.MsgLoadFailed, resp, http.StatusBadGateway)
			return
		}
		common.RespondSuccess(w, initTime, "Data reloaded", resp)
	}
}
