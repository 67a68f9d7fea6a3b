package rest

import (
	"net/http"

	"github.com/bwise1/travelog/util"
	"github.com/bwise1/travelog/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) ShareRoutes() chi.Router {
	mux := chi.NewRouter()
	mux.Method(http.MethodGet, "/{shareID}", Handler(api.GetSharedTrip))
	return mux
}

func (api *API) SaveTrip(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	tripID, err := tripIDParam(r)
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	saved, status, message, err := api.SaveTripHelper(r.Context(), tripID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       saved,
	}
}

func (api *API) ShareTrip(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	tripID, err := tripIDParam(r)
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	link, status, message, err := api.ShareTripHelper(r.Context(), tripID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       link,
	}
}

func (api *API) GetSharedTrip(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	trip, status, message, err := api.GetSharedTripHelper(r.Context(), chi.URLParam(r, "shareID"))
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       trip,
	}
}
