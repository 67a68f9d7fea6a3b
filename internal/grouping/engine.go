package grouping

import (
	"math"
	"sort"
	"time"

	"github.com/bwise1/travelog/internal/model"
)

const (
	DefaultMaxHoursDiff = 2.0
	DefaultMaxKmDiff    = 5.0
)

// Thresholds bound how far apart two consecutive photos may be and still
// belong to the same visit. Both comparisons are inclusive.
type Thresholds struct {
	MaxHoursDiff float64
	MaxKmDiff    float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{MaxHoursDiff: DefaultMaxHoursDiff, MaxKmDiff: DefaultMaxKmDiff}
}

// Normalized replaces non-positive or non-finite values with the defaults.
func (t Thresholds) Normalized() Thresholds {
	if !finite(t.MaxHoursDiff) || t.MaxHoursDiff <= 0 {
		t.MaxHoursDiff = DefaultMaxHoursDiff
	}
	if !finite(t.MaxKmDiff) || t.MaxKmDiff <= 0 {
		t.MaxKmDiff = DefaultMaxKmDiff
	}
	return t
}

type sample struct {
	photo model.PhotoRecord
	at    time.Time
	timed bool
	place Placement
}

func normalize(p model.PhotoRecord) sample {
	at, ok := p.Taken()
	return sample{photo: p, at: at, timed: ok, place: PlacementOf(p)}
}

type cluster struct {
	members []sample
	// dated holds the capture times of every member, in ascending order.
	// Time-only photos are attached against these.
	dated []time.Time
}

// Cluster partitions photos into visits. Photos with both time and location are
// chained in time order: each photo joins the open visit when it is within both
// thresholds of the last photo added to it. Photos with a time but no location
// join the visit holding the nearest dated photo within MaxHoursDiff, counting
// time-only photos already attached to it, or are chained among themselves by
// time alone. Photos without a time form a single
// trailing group labeled UnknownLocation.
//
// Every input photo appears in exactly one returned group. Groups are ordered by
// their earliest capture time.
func Cluster(photos []model.PhotoRecord, t Thresholds) []*Group {
	if len(photos) == 0 {
		return []*Group{}
	}
	t = t.Normalized()

	var complete, timeOnly []sample
	var undated []model.PhotoRecord
	for _, p := range photos {
		s := normalize(p)
		_, located := s.place.(Coordinates)
		switch {
		case !s.timed:
			undated = append(undated, p)
		case located:
			complete = append(complete, s)
		default:
			timeOnly = append(timeOnly, s)
		}
	}

	byTime := func(ss []sample) {
		sort.SliceStable(ss, func(i, j int) bool { return ss[i].at.Before(ss[j].at) })
	}
	byTime(complete)
	byTime(timeOnly)

	clusters := chainLocated(complete, t)
	clusters = append(clusters, attachTimeOnly(clusters, timeOnly, t)...)

	groups := make([]*Group, 0, len(clusters)+1)
	starts := make(map[*Group]time.Time, len(clusters))
	for _, c := range clusters {
		g := newGroup(photosOf(c.members), Fields{})
		starts[g] = earliest(c.members)
		groups = append(groups, g)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return starts[groups[i]].Before(starts[groups[j]])
	})

	if len(undated) > 0 {
		groups = append(groups, newGroup(undated, Fields{Location: UnknownLocation}))
	}
	return groups
}

func chainLocated(sorted []sample, t Thresholds) []*cluster {
	var clusters []*cluster
	var open *cluster
	for _, s := range sorted {
		if open != nil {
			last := open.members[len(open.members)-1]
			timeDiff := HoursBetween(s.at, last.at)
			distanceDiff := DistanceKm(s.place.(Coordinates), last.place.(Coordinates))
			if timeDiff <= t.MaxHoursDiff && distanceDiff <= t.MaxKmDiff {
				open.members = append(open.members, s)
				open.dated = append(open.dated, s.at)
				continue
			}
			clusters = append(clusters, open)
		}
		open = &cluster{members: []sample{s}, dated: []time.Time{s.at}}
	}
	if open != nil {
		clusters = append(clusters, open)
	}
	return clusters
}

// attachTimeOnly adds each time-only photo to the located cluster with the
// nearest dated member, located or already attached, when that gap is within
// MaxHoursDiff. Ties go to the earlier cluster. Passes repeat until nothing
// more attaches, so a run of time-only photos chains onto a visit from either
// side. The rest are chained by time alone into new clusters, which are returned.
func attachTimeOnly(located []*cluster, sorted []sample, t Thresholds) []*cluster {
	leftover := sorted
	for {
		var pending []sample
		for _, s := range leftover {
			best, bestGap := -1, math.Inf(1)
			for i, c := range located {
				if gap := nearestGap(c.dated, s.at); gap < bestGap {
					best, bestGap = i, gap
				}
			}
			if best >= 0 && bestGap <= t.MaxHoursDiff {
				located[best].attach(s)
				continue
			}
			pending = append(pending, s)
		}
		if len(pending) == len(leftover) {
			break
		}
		leftover = pending
	}

	var clusters []*cluster
	var open *cluster
	for _, s := range leftover {
		if open != nil {
			last := open.members[len(open.members)-1]
			if HoursBetween(s.at, last.at) <= t.MaxHoursDiff {
				open.members = append(open.members, s)
				continue
			}
			clusters = append(clusters, open)
		}
		open = &cluster{members: []sample{s}}
	}
	if open != nil {
		clusters = append(clusters, open)
	}
	return clusters
}

func (c *cluster) attach(s sample) {
	c.members = append(c.members, s)
	i := sort.Search(len(c.dated), func(i int) bool { return c.dated[i].After(s.at) })
	c.dated = append(c.dated, time.Time{})
	copy(c.dated[i+1:], c.dated[i:])
	c.dated[i] = s.at
}

func nearestGap(times []time.Time, at time.Time) float64 {
	i := sort.Search(len(times), func(i int) bool { return !times[i].Before(at) })
	gap := math.Inf(1)
	if i < len(times) {
		gap = HoursBetween(times[i], at)
	}
	if i > 0 {
		gap = math.Min(gap, HoursBetween(times[i-1], at))
	}
	return gap
}

func earliest(members []sample) time.Time {
	first := members[0].at
	for _, s := range members[1:] {
		if s.at.Before(first) {
			first = s.at
		}
	}
	return first
}

func photosOf(members []sample) []model.PhotoRecord {
	out := make([]model.PhotoRecord, len(members))
	for i, s := range members {
		out[i] = s.photo
	}
	return out
}
