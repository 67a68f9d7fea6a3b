package rest

import (
	"context"
	"strings"

	"github.com/bwise1/travelog/internal/model"
	"github.com/bwise1/travelog/internal/session"
	"github.com/bwise1/travelog/util"
	"github.com/bwise1/travelog/util/values"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

const (
	shareCodeLength     = 8
	shareCodeConstraint = "trips_share_id_key"
)

var (
	errNoDatabase      = errors.New("trip storage is not configured")
	errNothingToSave   = errors.New("the trip has no groups to save")
	errMissingLocation = errors.New("every group needs a location before saving")
)

func (api *API) SaveTripHelper(ctx context.Context, tripID uuid.UUID) (model.SharedTrip, string, string, error) {
	var (
		trip   model.Trip
		groups []model.TripGroup
	)
	err := api.withSession(ctx, tripID, func(s *session.Session) error {
		c, err := s.Groups()
		if err != nil {
			return err
		}
		if c.Len() == 0 {
			return errNothingToSave
		}
		var unnamed []string
		for _, g := range c.Groups() {
			if !util.NotBlank(g.Location()) {
				unnamed = append(unnamed, g.ID())
			}
		}
		if len(unnamed) > 0 {
			return errors.Wrap(errMissingLocation, strings.Join(unnamed, ", "))
		}
		trip = s.Trip
		groups = toTripGroups(trip, c.Groups())
		return nil
	})
	switch {
	case errors.Is(err, errNothingToSave), errors.Is(err, errMissingLocation):
		return model.SharedTrip{}, values.Unprocessable, err.Error(), err
	case err != nil:
		status, message := statusOf(err)
		return model.SharedTrip{}, status, message, err
	}

	if api.Deps.DB == nil {
		return model.SharedTrip{}, values.Failed, errNoDatabase.Error(), errNoDatabase
	}
	if err := api.SaveTripRecord(ctx, trip, groups); err != nil {
		return model.SharedTrip{}, values.Error, "Failed to save trip", err
	}

	saved := model.SharedTrip{Trip: trip, Groups: groups}
	api.broadcast(tripID, actionSaved, saved)
	return saved, values.Success, "Trip saved", nil
}

// ShareTripHelper publishes a saved trip. A trip that already has a code keeps it.
func (api *API) ShareTripHelper(ctx context.Context, tripID uuid.UUID) (model.ShareLink, string, string, error) {
	if api.Deps.DB == nil {
		return model.ShareLink{}, values.Failed, errNoDatabase.Error(), errNoDatabase
	}

	existing, err := api.GetShareID(ctx, tripID)
	if errors.Is(err, session.ErrNotFound) {
		return model.ShareLink{}, values.NotFound, "save the trip before sharing it", err
	}
	if err != nil {
		return model.ShareLink{}, values.Error, "Failed to share trip", err
	}
	if existing != nil && *existing != "" {
		if err := api.SetShareID(ctx, tripID, *existing); err != nil {
			return model.ShareLink{}, values.Error, "Failed to share trip", err
		}
		return api.shareLink(*existing), values.Success, "Trip shared", nil
	}

	maxAttempts := 3
	for range maxAttempts {
		code := util.GenerateShortCode(shareCodeLength)

		err := api.SetShareID(ctx, tripID, code)
		if err == nil {
			return api.shareLink(code), values.Success, "Trip shared", nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == shareCodeConstraint {
			continue
		}
		return model.ShareLink{}, values.Error, "Failed to share trip", err
	}
	return model.ShareLink{}, values.Error, "Could not generate unique share code", errors.New("share code collisions")
}

func (api *API) shareLink(code string) model.ShareLink {
	return model.ShareLink{
		ShareID:   code,
		ShareLink: strings.TrimRight(api.Config.BaseURL, "/") + "/share/" + code,
	}
}

func (api *API) GetSharedTripHelper(ctx context.Context, shareID string) (model.SharedTrip, string, string, error) {
	if api.Deps.DB == nil {
		return model.SharedTrip{}, values.Failed, errNoDatabase.Error(), errNoDatabase
	}

	trip, err := api.FindSharedTrip(ctx, shareID)
	if errors.Is(err, session.ErrNotFound) {
		return model.SharedTrip{}, values.NotFound, "shared trip not found", err
	}
	if err != nil {
		return model.SharedTrip{}, values.Error, "Failed to load shared trip", err
	}
	return trip, values.Success, "Shared trip returned successfully", nil
}
