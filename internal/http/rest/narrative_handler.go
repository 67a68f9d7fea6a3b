package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/bwise1/travelog/internal/model"
	"github.com/bwise1/travelog/util"
	"github.com/bwise1/travelog/util/values"
)

const generationTimeout = 60 * time.Second

func (api *API) GenerateNarrative(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	tripID, err := tripIDParam(r)
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	ctx, cancel := context.WithTimeout(r.Context(), generationTimeout)
	defer cancel()

	trip, status, message, err := api.GenerateNarrativeHelper(ctx, tripID)
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

func (api *API) EditNarrative(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	tripID, err := tripIDParam(r)
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	var req model.EditNarrativeRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	trip, status, message, err := api.EditNarrativeHelper(r.Context(), tripID, req.EditedText)
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

func (api *API) GenerateCaptions(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	tripID, err := tripIDParam(r)
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	ctx, cancel := context.WithTimeout(r.Context(), generationTimeout)
	defer cancel()

	captions, status, message, err := api.GenerateCaptionsHelper(ctx, tripID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       captions,
	}
}
