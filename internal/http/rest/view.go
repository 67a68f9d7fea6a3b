package rest

import (
	"time"

	"github.com/bwise1/travelog/internal/grouping"
	"github.com/bwise1/travelog/internal/model"
	"github.com/bwise1/travelog/internal/session"
	"github.com/bwise1/travelog/util"
)

type groupView struct {
	ID         string              `json:"id"`
	Location   string              `json:"location"`
	Rating     *int                `json:"rating"`
	Review     string              `json:"review"`
	StartTime  *time.Time          `json:"start_time"`
	EndTime    *time.Time          `json:"end_time"`
	CoverPhoto model.PhotoRecord   `json:"cover_photo"`
	PhotoCount int                 `json:"photo_count"`
	Photos     []model.PhotoRecord `json:"photos"`
	Route      string              `json:"route,omitempty"`
}

type tripView struct {
	Trip       model.Trip  `json:"trip"`
	PhotoCount int         `json:"photo_count"`
	Grouped    bool        `json:"grouped"`
	Groups     []groupView `json:"groups"`
}

func newGroupView(g *grouping.Group) groupView {
	photos := g.Photos()
	return groupView{
		ID:         g.ID(),
		Location:   g.Location(),
		Rating:     g.Rating(),
		Review:     g.Review(),
		StartTime:  g.StartTime(),
		EndTime:    g.EndTime(),
		CoverPhoto: g.CoverPhoto(),
		PhotoCount: len(photos),
		Photos:     photos,
		Route:      routeOf(photos),
	}
}

func groupViews(groups []*grouping.Group) []groupView {
	views := make([]groupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, newGroupView(g))
	}
	return views
}

func newTripView(s session.Snapshot) tripView {
	return tripView{
		Trip:       s.Trip,
		PhotoCount: s.PhotoCount,
		Grouped:    s.Grouped,
		Groups:     groupViews(s.Groups),
	}
}

// routeOf encodes the located photos, in capture order, as a polyline.
func routeOf(photos []model.PhotoRecord) string {
	var coords []util.Coordinate
	for _, p := range photos {
		if c, ok := grouping.PlacementOf(p).(grouping.Coordinates); ok {
			coords = append(coords, util.Coordinate{Lat: c.Lat, Lon: c.Lon})
		}
	}
	if len(coords) == 0 {
		return ""
	}
	return util.EncodePolyline(coords)
}

// firstLocated is the earliest photo of the group that carries coordinates.
func firstLocated(g *grouping.Group) (grouping.Coordinates, bool) {
	for _, p := range g.Photos() {
		if c, ok := grouping.PlacementOf(p).(grouping.Coordinates); ok {
			return c, true
		}
	}
	return grouping.Coordinates{}, false
}

func toTripGroups(trip model.Trip, groups []*grouping.Group) []model.TripGroup {
	out := make([]model.TripGroup, 0, len(groups))
	for i, g := range groups {
		out = append(out, model.TripGroup{
			ID:           g.ID(),
			TripID:       trip.ID,
			SortOrder:    i,
			Location:     g.Location(),
			Rating:       g.Rating(),
			Review:       g.Review(),
			StartTime:    g.StartTime(),
			EndTime:      g.EndTime(),
			CoverPhotoID: g.CoverPhoto().ID,
			Photos:       g.Photos(),
			Route:        routeOf(g.Photos()),
		})
	}
	return out
}

func fromTripGroups(groups []model.TripGroup) ([]*grouping.Group, error) {
	out := make([]*grouping.Group, 0, len(groups))
	for _, tg := range groups {
		g, err := grouping.RestoreGroup(tg.ID, tg.Photos, grouping.Fields{
			Location: tg.Location,
			Rating:   tg.Rating,
			Review:   tg.Review,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}
