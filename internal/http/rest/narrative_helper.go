package rest

import (
	"context"
	"time"

	"github.com/bwise1/travelog/internal/grouping"
	"github.com/bwise1/travelog/internal/model"
	"github.com/bwise1/travelog/internal/narrative"
	"github.com/bwise1/travelog/internal/session"
	"github.com/bwise1/travelog/util/values"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var errNoNarrator = errors.New("narrative generation is not configured")

func (api *API) summaries(ctx context.Context, tripID uuid.UUID) ([]grouping.Summary, error) {
	var out []grouping.Summary
	err := api.withSession(ctx, tripID, func(s *session.Session) error {
		c, err := s.Groups()
		if err != nil {
			return err
		}
		out = c.Summaries()
		return nil
	})
	return out, err
}

func narrativeStatus(err error) (string, string) {
	switch {
	case errors.Is(err, narrative.ErrNoGroups):
		return values.Unprocessable, err.Error()
	case errors.Is(err, narrative.ErrEmptyResponse):
		return values.Failed, "the story generator returned no text"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return values.Failed, "story generation timed out"
	default:
		return values.Failed, "unable to generate the story"
	}
}

// GenerateNarrativeHelper writes the trip story from the current groups. The
// session is not locked while the generator runs.
func (api *API) GenerateNarrativeHelper(ctx context.Context, tripID uuid.UUID) (model.Trip, string, string, error) {
	if api.Deps.Narrator == nil {
		return model.Trip{}, values.Failed, errNoNarrator.Error(), errNoNarrator
	}

	summaries, err := api.summaries(ctx, tripID)
	if err != nil {
		status, message := statusOf(err)
		return model.Trip{}, status, message, err
	}

	text, err := api.Deps.Narrator.TripLog(ctx, summaries)
	if err != nil {
		status, message := narrativeStatus(err)
		return model.Trip{}, status, message, err
	}

	return api.setNarrative(ctx, tripID, func(t *model.Trip) { t.AIGeneratedText = text }, "Story generated")
}

func (api *API) EditNarrativeHelper(ctx context.Context, tripID uuid.UUID, edited string) (model.Trip, string, string, error) {
	return api.setNarrative(ctx, tripID, func(t *model.Trip) { t.EditedText = edited }, "Story updated")
}

func (api *API) setNarrative(ctx context.Context, tripID uuid.UUID, set func(t *model.Trip), message string) (model.Trip, string, string, error) {
	var trip model.Trip
	err := api.withSession(ctx, tripID, func(s *session.Session) error {
		set(&s.Trip)
		s.Trip.UpdatedAt = time.Now()
		trip = s.Trip
		api.broadcast(tripID, actionNarrative, trip)
		return nil
	})
	if err != nil {
		status, msg := statusOf(err)
		return model.Trip{}, status, msg, err
	}
	return trip, values.Success, message, nil
}

func (api *API) GenerateCaptionsHelper(ctx context.Context, tripID uuid.UUID) (map[string]string, string, string, error) {
	if api.Deps.Narrator == nil {
		return nil, values.Failed, errNoNarrator.Error(), errNoNarrator
	}

	summaries, err := api.summaries(ctx, tripID)
	if err != nil {
		status, message := statusOf(err)
		return nil, status, message, err
	}

	captions, err := api.Deps.Narrator.Captions(ctx, summaries)
	if err != nil {
		status, message := narrativeStatus(err)
		return nil, status, message, err
	}
	return captions, values.Success, "Captions generated", nil
}
