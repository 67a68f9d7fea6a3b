package rest

import (
	"net/http"
	"strconv"

	"github.com/bwise1/travelog/internal/model"
	"github.com/bwise1/travelog/util"
	"github.com/bwise1/travelog/util/values"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

func (api *API) UpdateGroup(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	tripID, err := tripIDParam(r)
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	var req model.UpdateGroupRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	group, status, message, err := api.UpdateGroupHelper(r.Context(), tripID, chi.URLParam(r, "groupID"), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       group,
	}
}

func (api *API) RemoveGroup(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	tripID, err := tripIDParam(r)
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	view, status, message, err := api.RemoveGroupHelper(r.Context(), tripID, chi.URLParam(r, "groupID"))
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

func (api *API) MergeGroups(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	tripID, err := tripIDParam(r)
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	var req model.MergeGroupsRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	group, status, message, err := api.MergeGroupsHelper(r.Context(), tripID, req.GroupIDs)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       group,
	}
}

func (api *API) SplitGroup(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	tripID, err := tripIDParam(r)
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	halves, status, message, err := api.SplitGroupHelper(r.Context(), tripID, chi.URLParam(r, "groupID"))
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       halves,
	}
}

func (api *API) ReorderGroups(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	tripID, err := tripIDParam(r)
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	var req model.ReorderGroupsRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	view, status, message, err := api.ReorderGroupsHelper(r.Context(), tripID, req.GroupIDs)
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

// SuggestLocation accepts optional lat and lon query parameters overriding the
// group's own coordinates.
func (api *API) SuggestLocation(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	tripID, err := tripIDParam(r)
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	point, err := pointQuery(r)
	if err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	suggestion, status, message, err := api.SuggestLocationHelper(r.Context(), tripID, chi.URLParam(r, "groupID"), point)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       suggestion,
	}
}

func pointQuery(r *http.Request) (*model.PointQuery, error) {
	latParam, lonParam := r.URL.Query().Get("lat"), r.URL.Query().Get("lon")
	if latParam == "" && lonParam == "" {
		return nil, nil
	}
	if latParam == "" || lonParam == "" {
		return nil, errors.New("lat and lon must be given together")
	}

	lat, err := strconv.ParseFloat(latParam, 64)
	if err != nil {
		return nil, errors.Wrap(err, "invalid lat")
	}
	lon, err := strconv.ParseFloat(lonParam, 64)
	if err != nil {
		return nil, errors.Wrap(err, "invalid lon")
	}

	point := model.PointQuery{Latitude: lat, Longitude: lon}
	if err := util.ValidateStruct(point); err != nil {
		return nil, err
	}
	return &point, nil
}
