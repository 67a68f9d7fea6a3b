package rest

import (
	"context"
	"strings"

	"github.com/bwise1/travelog/internal/grouping"
	"github.com/bwise1/travelog/internal/model"
	"github.com/bwise1/travelog/internal/session"
	"github.com/bwise1/travelog/util/values"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	actionPhotosAdded  = "photos_added"
	actionGrouped      = "grouped"
	actionGroupUpdated = "group_updated"
	actionGroupRemoved = "group_removed"
	actionMerged       = "groups_merged"
	actionSplit        = "group_split"
	actionReordered    = "groups_reordered"
	actionNarrative    = "narrative_updated"
	actionSaved        = "saved"
	actionDiscarded    = "discarded"
)

// withSession runs fn against the trip's open draft, reopening a saved trip
// from the database when no draft is open.
func (api *API) withSession(ctx context.Context, tripID uuid.UUID, fn func(s *session.Session) error) error {
	err := api.Deps.Sessions.With(tripID, fn)
	if !errors.Is(err, session.ErrNotFound) || api.Deps.DB == nil {
		return err
	}

	trip, saved, err := api.FindTrip(ctx, tripID)
	if err != nil {
		return err
	}
	groups, err := fromTripGroups(saved)
	if err != nil {
		return errors.Wrap(err, "rebuild saved groups")
	}
	if api.Deps.Sessions.Restore(trip, groups) {
		zap.L().Info("reopened saved trip", zap.String("trip_id", tripID.String()), zap.Int("groups", len(groups)))
	}
	return api.Deps.Sessions.With(tripID, fn)
}

// statusOf maps session and collection errors to a response status.
func statusOf(err error) (string, string) {
	var invalid *grouping.InvalidOperation
	switch {
	case errors.Is(err, session.ErrNotFound):
		return values.NotFound, "trip not found"
	case grouping.IsInvalidOperation(err, grouping.UnknownGroup):
		return values.NotFound, err.Error()
	case errors.As(err, &invalid):
		return values.Unprocessable, err.Error()
	case errors.Is(err, session.ErrAlreadyGrouped),
		errors.Is(err, session.ErrNotGrouped),
		errors.Is(err, session.ErrDuplicatePhoto):
		return values.Conflict, err.Error()
	default:
		return values.Error, "something went wrong"
	}
}

func (api *API) broadcast(tripID uuid.UUID, action string, data interface{}) {
	if api.Deps.WebSocket == nil {
		return
	}
	api.Deps.WebSocket.BroadcastTripUpdate(tripID.String(), action, data)
}

func (api *API) CreateTripHelper(req model.CreateTripRequest) (model.Trip, string, string, error) {
	trip := api.Deps.Sessions.Create(strings.TrimSpace(req.Title))
	return trip, values.Created, "Trip draft created", nil
}

func (api *API) GetTripHelper(ctx context.Context, tripID uuid.UUID) (tripView, string, string, error) {
	var view tripView
	err := api.withSession(ctx, tripID, func(s *session.Session) error {
		view = newTripView(s.Snapshot())
		return nil
	})
	if err != nil {
		status, message := statusOf(err)
		return tripView{}, status, message, err
	}
	return view, values.Success, "Trip returned successfully", nil
}

// DiscardTripHelper drops the open draft. Unsaved edits are lost; a saved trip
// reopens from its last save on the next request.
func (api *API) DiscardTripHelper(tripID uuid.UUID) (string, string, error) {
	if !api.Deps.Sessions.Delete(tripID) {
		return values.NotFound, "trip not found", session.ErrNotFound
	}
	zap.L().Info("discarded trip draft", zap.String("trip_id", tripID.String()))
	api.broadcast(tripID, actionDiscarded, nil)
	return values.Success, "Trip draft discarded", nil
}

func (api *API) AddPhotosHelper(ctx context.Context, tripID uuid.UUID, photos []model.PhotoRecord) (tripView, string, string, error) {
	var view tripView
	err := api.withSession(ctx, tripID, func(s *session.Session) error {
		if err := s.AddPhotos(photos); err != nil {
			return err
		}
		view = newTripView(s.Snapshot())
		api.broadcast(tripID, actionPhotosAdded, view)
		return nil
	})
	if err != nil {
		status, message := statusOf(err)
		return tripView{}, status, message, err
	}
	return view, values.Success, "Photos added", nil
}

func (api *API) GroupPhotosHelper(ctx context.Context, tripID uuid.UUID, t grouping.Thresholds) (tripView, string, string, error) {
	var view tripView
	err := api.withSession(ctx, tripID, func(s *session.Session) error {
		s.Group(t)
		view = newTripView(s.Snapshot())
		api.broadcast(tripID, actionGrouped, view)
		return nil
	})
	if err != nil {
		status, message := statusOf(err)
		return tripView{}, status, message, err
	}
	return view, values.Success, "Photos grouped", nil
}

// thresholdsFor fills in the configured thresholds for values a request omits.
func (api *API) thresholdsFor(req model.GroupingRequest) grouping.Thresholds {
	t := api.Config.Thresholds()
	if req.MaxHoursDiff > 0 {
		t.MaxHoursDiff = req.MaxHoursDiff
	}
	if req.MaxKmDiff > 0 {
		t.MaxKmDiff = req.MaxKmDiff
	}
	return t.Normalized()
}
