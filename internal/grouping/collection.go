package grouping

import (
	"sort"

	"github.com/bwise1/travelog/internal/model"
)

// GroupUpdate carries the scalar fields to replace. Nil fields are left alone.
// ClearRating removes the rating and wins over Rating.
type GroupUpdate struct {
	Location    *string
	Rating      *int
	ClearRating bool
	Review      *string
}

// GroupCollection owns the editable, ordered list of groups for one trip. It is
// not safe for concurrent use; callers hold one per session.
type GroupCollection struct {
	groups []*Group
	// removed keeps photos the user deliberately dropped with Remove, so Audit
	// can tell them apart from lost ones.
	removed []model.PhotoRecord
}

func NewCollection(groups []*Group) *GroupCollection {
	c := &GroupCollection{}
	c.Replace(groups)
	return c
}

// Replace swaps in a fresh set of groups, such as a new clustering run.
func (c *GroupCollection) Replace(groups []*Group) {
	c.groups = append([]*Group(nil), groups...)
	c.removed = nil
}

// Groups returns the groups in their current order.
func (c *GroupCollection) Groups() []*Group {
	return append([]*Group(nil), c.groups...)
}

func (c *GroupCollection) Len() int { return len(c.groups) }

func (c *GroupCollection) Get(id string) (*Group, bool) {
	i := c.index(id)
	if i < 0 {
		return nil, false
	}
	return c.groups[i], true
}

func (c *GroupCollection) index(id string) int {
	for i, g := range c.groups {
		if g.id == id {
			return i
		}
	}
	return -1
}

// Update replaces location, rating and review on one group. Photos and the
// fields derived from them are never touched here.
func (c *GroupCollection) Update(id string, u GroupUpdate) (*Group, error) {
	g, ok := c.Get(id)
	if !ok {
		return nil, &InvalidOperation{Kind: UnknownGroup, GroupID: id}
	}
	if !u.ClearRating && u.Rating != nil && !validRating(*u.Rating) {
		return nil, &InvalidOperation{Kind: InvalidRating, GroupID: id}
	}

	if u.Location != nil {
		g.location = *u.Location
	}
	if u.Review != nil {
		g.review = *u.Review
	}
	switch {
	case u.ClearRating:
		g.rating = nil
	case u.Rating != nil:
		g.rating = copyRating(u.Rating)
	}
	return g, nil
}

// Remove deletes a group together with its photos.
func (c *GroupCollection) Remove(id string) error {
	i := c.index(id)
	if i < 0 {
		return &InvalidOperation{Kind: UnknownGroup, GroupID: id}
	}
	c.removed = append(c.removed, c.groups[i].photos...)
	c.groups = append(c.groups[:i:i], c.groups[i+1:]...)
	return nil
}

// Merge combines the named groups into one new group appended at the end.
// Unknown and repeated ids are ignored; at least two distinct existing groups
// must remain. Location and review come from the first listed group, the rating
// from the first listed group that has one.
func (c *GroupCollection) Merge(ids []string) (*Group, error) {
	seen := make(map[string]bool, len(ids))
	var sources []*Group
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if g, ok := c.Get(id); ok {
			sources = append(sources, g)
		}
	}
	if len(sources) < 2 {
		return nil, &InvalidOperation{Kind: InsufficientGroupsForMerge}
	}

	var photos []model.PhotoRecord
	f := Fields{Location: sources[0].location, Review: sources[0].review}
	for _, g := range sources {
		photos = append(photos, g.photos...)
		if f.Rating == nil && g.rating != nil {
			f.Rating = copyRating(g.rating)
		}
	}
	merged := newGroup(photos, f)

	kept := make([]*Group, 0, len(c.groups)-len(sources)+1)
	for _, g := range c.groups {
		if !seen[g.id] {
			kept = append(kept, g)
		}
	}
	c.groups = append(kept, merged)
	return merged, nil
}

// Split cuts a group at floor(n/2) into two new groups that take its place.
// Both halves start with the same location, rating and review.
func (c *GroupCollection) Split(id string) (*Group, *Group, error) {
	i := c.index(id)
	if i < 0 {
		return nil, nil, &InvalidOperation{Kind: UnknownGroup, GroupID: id}
	}
	src := c.groups[i]
	if len(src.photos) < 2 {
		return nil, nil, &InvalidOperation{Kind: InsufficientPhotosForSplit, GroupID: id}
	}

	mid := len(src.photos) / 2
	first := newGroup(src.photos[:mid], src.fields())
	second := newGroup(src.photos[mid:], src.fields())

	groups := make([]*Group, 0, len(c.groups)+1)
	groups = append(groups, c.groups[:i]...)
	groups = append(groups, first, second)
	groups = append(groups, c.groups[i+1:]...)
	c.groups = groups
	return first, second, nil
}

// Reorder installs a new ordering. newOrder must be a permutation of the current
// groups; checking that is left to the caller.
func (c *GroupCollection) Reorder(newOrder []*Group) {
	c.groups = append([]*Group(nil), newOrder...)
}

// Summaries describes every group for the narrative collaborator, in order.
func (c *GroupCollection) Summaries() []Summary {
	out := make([]Summary, len(c.groups))
	for i, g := range c.groups {
		out[i] = g.Summary()
	}
	return out
}

// Audit checks the collection against the photos originally ingested: every
// photo is in exactly one group or was removed with its group, no group is
// empty, and each group is in capture order.
func (c *GroupCollection) Audit(ingested []model.PhotoRecord) error {
	want := make(map[string]int, len(ingested))
	for _, p := range ingested {
		want[p.ID]++
	}

	got := make(map[string]int, len(ingested))
	count := func(photos []model.PhotoRecord) {
		for _, p := range photos {
			got[p.ID]++
		}
	}
	for _, g := range c.groups {
		if len(g.photos) == 0 {
			return &ConsistencyError{Reason: "group " + g.id + " is empty"}
		}
		if !sort.SliceIsSorted(g.photos, func(i, j int) bool { return photoBefore(g.photos[i], g.photos[j]) }) {
			return &ConsistencyError{Reason: "group " + g.id + " is out of order"}
		}
		count(g.photos)
	}
	count(c.removed)

	var e ConsistencyError
	for id, n := range want {
		switch {
		case got[id] == 0:
			e.Missing = append(e.Missing, id)
		case got[id] > n:
			e.Duplicated = append(e.Duplicated, id)
		}
	}
	for id := range got {
		if _, ok := want[id]; !ok {
			e.Unexpected = append(e.Unexpected, id)
		}
	}
	if len(e.Missing)+len(e.Duplicated)+len(e.Unexpected) == 0 {
		return nil
	}
	sort.Strings(e.Missing)
	sort.Strings(e.Duplicated)
	sort.Strings(e.Unexpected)
	return &e
}
