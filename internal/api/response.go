package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"infinite-experiment/flightboard/internal/common"
	"infinite-experiment/flightboard/internal/constants"
	"infinite-experiment/flightboard/internal/forms"
	"infinite-experiment/flightboard/internal/models/dtos"
	"infinite-experiment/flightboard/internal/providers"
	"infinite-experiment/flightboard/internal/services"

	"github.com/go-chi/chi/v5"
)

// decodeForm reads a JSON body into form. On failure it has already
// answered the request.
func decodeForm(w http.ResponseWriter, r *http.Request, initTime time.Time, form any) bool {
	if err := json.NewDecoder(r.Body).Decode(form); err != nil {
		common.RespondError(w, initTime, "Invalid request body: "+err.Error(), nil, http.StatusBadRequest)
		return false
	}
	return true
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// queryID parses an optional positive integer query parameter. ok is false
// when the parameter is present but malformed.
func queryID(r *http.Request, name string) (*int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &id, true
}

// respondRejection answers a form that could not be turned into a payload.
func respondRejection(w http.ResponseWriter, initTime time.Time, message string, err error, form any) {
	var verrs forms.ValidationErrors
	if errors.As(err, &verrs) {
		common.RespondError(w, initTime, message, dtos.FormRejection{
			Fields: verrs,
			Form:   form,
			Code:   constants.ErrCodeValidationFailed,
		}, http.StatusUnprocessableEntity)
		return
	}
	common.RespondError(w, initTime, message, dtos.FormRejection{Form: form}, http.StatusBadRequest)
}

// respondMutation answers a mutation outcome. A failed write echoes form
// back; a write whose reload failed still reports the entity.
func respondMutation(w http.ResponseWriter, initTime time.Time, deps *Dependencies, okMsg, failMsg string, result *dtos.MutationResult, err error, form any) {
	switch {
	case err == nil:
		result.Loading = deps.Services.Store.Loading()
		status := http.StatusOK
		if result.Op == services.OpCreate {
			status = http.StatusCreated
		}
		common.RespondSuccess(w, initTime, okMsg, result, status)

	case errors.Is(err, services.ErrReloadFailed) && result != nil:
		result.Loading = deps.Services.Store.Loading()
		common.RespondSuccess(w, initTime, okMsg+". "+constants.GetErrorMessage(constants.ErrCodeReloadFailed), result, http.StatusAccepted)

	case errors.Is(err, services.ErrUnknownKind), errors.Is(err, services.ErrMissingID):
		common.RespondError(w, initTime, failMsg+": "+err.Error(), dtos.FormRejection{Form: form}, http.StatusBadRequest)

	case providers.IsTransportFailure(err):
		code := providers.ErrorCode(err)
		status := http.StatusBadGateway
		if code == constants.ErrCodeResourceNotFound {
			status = http.StatusNotFound
		}
		common.RespondError(w, initTime, failMsg+": "+constants.GetErrorMessage(code), dtos.FormRejection{Form: form, Code: code}, status)

	default:
		respondRejection(w, initTime, failMsg, err, form)
	}
}
