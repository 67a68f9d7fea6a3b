package rest

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwise1/travelog/internal/grouping"
	"github.com/bwise1/travelog/internal/model"
	"github.com/bwise1/travelog/internal/session"
	"github.com/bwise1/travelog/util/values"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var errBadOrder = errors.New("group order must list every group exactly once")

// mutate runs fn on the trip's live collection, audits the result and pushes
// the new state to subscribers. The push is queued under the session lock so
// subscribers see states in commit order.
func (api *API) mutate(ctx context.Context, tripID uuid.UUID, action string, fn func(c *grouping.GroupCollection) error) (tripView, error) {
	var view tripView
	err := api.withSession(ctx, tripID, func(s *session.Session) error {
		c, err := s.Groups()
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		s.Commit()
		view = newTripView(s.Snapshot())
		api.broadcast(tripID, action, view)
		return nil
	})
	if err != nil {
		return tripView{}, err
	}
	return view, nil
}

func (api *API) UpdateGroupHelper(ctx context.Context, tripID uuid.UUID, groupID string, req model.UpdateGroupRequest) (groupView, string, string, error) {
	var updated groupView
	_, err := api.mutate(ctx, tripID, actionGroupUpdated, func(c *grouping.GroupCollection) error {
		g, err := c.Update(groupID, grouping.GroupUpdate{
			Location:    req.Location,
			Rating:      req.Rating,
			ClearRating: req.ClearRating,
			Review:      req.Review,
		})
		if err != nil {
			return err
		}
		updated = newGroupView(g)
		return nil
	})
	if err != nil {
		status, message := statusOf(err)
		return groupView{}, status, message, err
	}
	return updated, values.Success, "Group updated", nil
}

func (api *API) RemoveGroupHelper(ctx context.Context, tripID uuid.UUID, groupID string) (tripView, string, string, error) {
	view, err := api.mutate(ctx, tripID, actionGroupRemoved, func(c *grouping.GroupCollection) error {
		return c.Remove(groupID)
	})
	if err != nil {
		status, message := statusOf(err)
		return tripView{}, status, message, err
	}
	return view, values.Success, "Group removed", nil
}

func (api *API) MergeGroupsHelper(ctx context.Context, tripID uuid.UUID, groupIDs []string) (groupView, string, string, error) {
	var merged groupView
	_, err := api.mutate(ctx, tripID, actionMerged, func(c *grouping.GroupCollection) error {
		g, err := c.Merge(groupIDs)
		if err != nil {
			return err
		}
		merged = newGroupView(g)
		return nil
	})
	if err != nil {
		status, message := statusOf(err)
		return groupView{}, status, message, err
	}
	return merged, values.Success, "Groups merged", nil
}

func (api *API) SplitGroupHelper(ctx context.Context, tripID uuid.UUID, groupID string) ([]groupView, string, string, error) {
	var halves []groupView
	_, err := api.mutate(ctx, tripID, actionSplit, func(c *grouping.GroupCollection) error {
		first, second, err := c.Split(groupID)
		if err != nil {
			return err
		}
		halves = groupViews([]*grouping.Group{first, second})
		return nil
	})
	if err != nil {
		status, message := statusOf(err)
		return nil, status, message, err
	}
	return halves, values.Success, "Group split", nil
}

func (api *API) ReorderGroupsHelper(ctx context.Context, tripID uuid.UUID, groupIDs []string) (tripView, string, string, error) {
	view, err := api.mutate(ctx, tripID, actionReordered, func(c *grouping.GroupCollection) error {
		order, err := permutation(c, groupIDs)
		if err != nil {
			return err
		}
		c.Reorder(order)
		return nil
	})
	if errors.Is(err, errBadOrder) {
		return tripView{}, values.Unprocessable, err.Error(), err
	}
	if err != nil {
		status, message := statusOf(err)
		return tripView{}, status, message, err
	}
	return view, values.Success, "Groups reordered", nil
}

// permutation resolves ids to groups, requiring every current group exactly once.
func permutation(c *grouping.GroupCollection, ids []string) ([]*grouping.Group, error) {
	if len(ids) != c.Len() {
		return nil, errors.Wrapf(errBadOrder, "got %d ids for %d groups", len(ids), c.Len())
	}
	seen := make(map[string]struct{}, len(ids))
	order := make([]*grouping.Group, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, errors.Wrapf(errBadOrder, "%s listed twice", id)
		}
		seen[id] = struct{}{}
		g, ok := c.Get(id)
		if !ok {
			return nil, errors.Wrapf(errBadOrder, "unknown group %s", id)
		}
		order = append(order, g)
	}
	return order, nil
}

// SuggestLocationHelper reverse geocodes the given point, or the group's
// earliest located photo when no point is given.
func (api *API) SuggestLocationHelper(ctx context.Context, tripID uuid.UUID, groupID string, point *model.PointQuery) (model.LocationSuggestion, string, string, error) {
	if api.Deps.Geocoder == nil {
		return model.LocationSuggestion{}, values.Failed, "location suggestions are not configured", errors.New("no geocoder")
	}

	var coords grouping.Coordinates
	located := false
	err := api.withSession(ctx, tripID, func(s *session.Session) error {
		c, err := s.Groups()
		if err != nil {
			return err
		}
		g, ok := c.Get(groupID)
		if !ok {
			return &grouping.InvalidOperation{Kind: grouping.UnknownGroup, GroupID: groupID}
		}
		coords, located = firstLocated(g)
		return nil
	})
	if err != nil {
		status, message := statusOf(err)
		return model.LocationSuggestion{}, status, message, err
	}
	if point != nil {
		coords, located = grouping.Coordinates{Lat: point.Latitude, Lon: point.Longitude}, true
	}
	if !located {
		err := fmt.Errorf("group %s has no located photos", groupID)
		return model.LocationSuggestion{}, values.Unprocessable, err.Error(), err
	}

	name, err := api.Deps.Geocoder.PlaceName(ctx, coords.Lat, coords.Lon)
	if err != nil {
		return model.LocationSuggestion{}, values.Failed, "unable to suggest a location", err
	}
	return model.LocationSuggestion{GroupID: groupID, Location: strings.TrimSpace(name)}, values.Success, "Location suggested", nil
}
