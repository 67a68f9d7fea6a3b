package grouping

import (
	"sort"
	"time"

	"github.com/bwise1/travelog/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// UnknownLocation labels the group holding photos that carry no capture time.
const UnknownLocation = "Unknown location"

// newGroupID mints group ids. Merges and splits always call it; ids are never reused.
var newGroupID = func() string {
	return "group-" + uuid.NewString()
}

// Fields are the user-editable parts of a Group.
type Fields struct {
	Location string
	Rating   *int
	Review   string
}

// Group is one visit. Its cover photo and time span are always derived from the
// current photos and cannot be set directly.
type Group struct {
	id       string
	photos   []model.PhotoRecord
	location string
	rating   *int
	review   string
}

func newGroup(photos []model.PhotoRecord, f Fields) *Group {
	return &Group{
		id:       newGroupID(),
		photos:   SortPhotos(photos),
		location: f.Location,
		rating:   copyRating(f.Rating),
		review:   f.Review,
	}
}

// RestoreGroup rebuilds a group that was persisted earlier, keeping its id.
func RestoreGroup(id string, photos []model.PhotoRecord, f Fields) (*Group, error) {
	if id == "" {
		return nil, errors.New("group id is required")
	}
	if len(photos) == 0 {
		return nil, errors.Errorf("group %s has no photos", id)
	}
	if f.Rating != nil && !validRating(*f.Rating) {
		return nil, errors.Errorf("group %s has rating %d outside 1-5", id, *f.Rating)
	}
	g := newGroup(photos, f)
	g.id = id
	return g, nil
}

func (g *Group) ID() string { return g.id }

// Photos returns a copy of the member photos in display order.
func (g *Group) Photos() []model.PhotoRecord {
	out := make([]model.PhotoRecord, len(g.photos))
	copy(out, g.photos)
	return out
}

func (g *Group) Len() int { return len(g.photos) }

func (g *Group) CoverPhoto() model.PhotoRecord { return g.photos[0] }

func (g *Group) StartTime() *time.Time { return timeOf(g.photos[0]) }

func (g *Group) EndTime() *time.Time { return timeOf(g.photos[len(g.photos)-1]) }

func (g *Group) Location() string { return g.location }

func (g *Group) Rating() *int { return copyRating(g.rating) }

func (g *Group) Review() string { return g.review }

func (g *Group) fields() Fields {
	return Fields{Location: g.location, Rating: copyRating(g.rating), Review: g.review}
}

// SortPhotos returns a copy of photos ordered by capture time, with undated
// photos first. Ties keep their input order.
func SortPhotos(photos []model.PhotoRecord) []model.PhotoRecord {
	out := make([]model.PhotoRecord, len(photos))
	copy(out, photos)
	sort.SliceStable(out, func(i, j int) bool {
		return photoBefore(out[i], out[j])
	})
	return out
}

func photoBefore(a, b model.PhotoRecord) bool {
	ta, okA := a.Taken()
	tb, okB := b.Taken()
	switch {
	case !okA && !okB:
		return false
	case !okA:
		return true
	case !okB:
		return false
	default:
		return ta.Before(tb)
	}
}

func timeOf(p model.PhotoRecord) *time.Time {
	t, ok := p.Taken()
	if !ok {
		return nil
	}
	return &t
}

func copyRating(r *int) *int {
	if r == nil {
		return nil
	}
	v := *r
	return &v
}

func validRating(r int) bool {
	return r >= 1 && r <= 5
}
