package rest

import (
	"net/http"

	"github.com/bwise1/travelog/internal/model"
	"github.com/bwise1/travelog/util"
	"github.com/bwise1/travelog/util/values"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (api *API) TripRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodPost, "/", Handler(api.CreateTrip))

	mux.Route("/{tripID}", func(r chi.Router) {
		r.Method(http.MethodGet, "/", Handler(api.GetTrip))
		r.Method(http.MethodDelete, "/", Handler(api.DiscardTrip))
		r.Method(http.MethodPost, "/photos", Handler(api.AddPhotos))
		r.Method(http.MethodPost, "/grouping", Handler(api.GroupPhotos))

		r.Method(http.MethodPost, "/groups/merge", Handler(api.MergeGroups))
		r.Method(http.MethodPut, "/groups/order", Handler(api.ReorderGroups))
		r.Method(http.MethodPatch, "/groups/{groupID}", Handler(api.UpdateGroup))
		r.Method(http.MethodDelete, "/groups/{groupID}", Handler(api.RemoveGroup))
		r.Method(http.MethodPost, "/groups/{groupID}/split", Handler(api.SplitGroup))
		r.Method(http.MethodGet, "/groups/{groupID}/location-suggestion", Handler(api.SuggestLocation))

		r.Method(http.MethodPost, "/narrative", Handler(api.GenerateNarrative))
		r.Method(http.MethodPut, "/narrative", Handler(api.EditNarrative))
		r.Method(http.MethodPost, "/captions", Handler(api.GenerateCaptions))

		r.Method(http.MethodPost, "/save", Handler(api.SaveTrip))
		r.Method(http.MethodPost, "/share", Handler(api.ShareTrip))
	})

	return mux
}

func tripIDParam(r *http.Request) (uuid.UUID, error) {
	return util.StringToUUID(chi.URLParam(r, "tripID"))
}

func (api *API) CreateTrip(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	var req model.CreateTripRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	trip, status, message, err := api.CreateTripHelper(req)
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

func (api *API) GetTrip(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	tripID, err := tripIDParam(r)
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	view, status, message, err := api.GetTripHelper(r.Context(), tripID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       view,
	}
}

func (api *API) DiscardTrip(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	tripID, err := tripIDParam(r)
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	status, message, err := api.DiscardTripHelper(tripID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}

func (api *API) AddPhotos(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	tripID, err := tripIDParam(r)
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	var req model.AddPhotosRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	view, status, message, err := api.AddPhotosHelper(r.Context(), tripID, req.Photos)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       view,
	}
}

func (api *API) GroupPhotos(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	tripID, err := tripIDParam(r)
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	var req model.GroupingRequest
	if r.ContentLength != 0 {
		if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
			return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
		}
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	view, status, message, err := api.GroupPhotosHelper(r.Context(), tripID, api.thresholdsFor(req))
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       view,
	}
}
