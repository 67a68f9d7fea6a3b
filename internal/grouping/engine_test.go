package grouping

import (
	"math"
	"sort"
	"testing"
	"time"

	"github.com/bwise1/travelog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := base.Add(d)
	return &t
}

func f(v float64) *float64 { return &v }

func photo(id string, when *time.Time, lat, lon *float64) model.PhotoRecord {
	return model.PhotoRecord{ID: id, CaptureTime: when, Latitude: lat, Longitude: lon}
}

func ids(g *Group) []string {
	var out []string
	for _, p := range g.Photos() {
		out = append(out, p.ID)
	}
	return out
}

func allIDs(groups []*Group) []string {
	var out []string
	for _, g := range groups {
		out = append(out, ids(g)...)
	}
	sort.Strings(out)
	return out
}

func TestClusterEmpty(t *testing.T) {
	groups := Cluster(nil, DefaultThresholds())
	require.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestClusterSplitsOnTimeGap(t *testing.T) {
	photos := []model.PhotoRecord{
		photo("p3", at(5*time.Hour), f(0), f(0)),
		photo("p1", at(0), f(0), f(0)),
		photo("p2", at(30*time.Minute), f(0), f(0)),
	}

	groups := Cluster(photos, DefaultThresholds())

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"p1", "p2"}, ids(groups[0]))
	assert.Equal(t, []string{"p3"}, ids(groups[1]))
	assert.Equal(t, "", groups[0].Location())
	assert.Nil(t, groups[0].Rating())
	assert.Equal(t, "", groups[0].Review())
}

func TestClusterUndatedGroup(t *testing.T) {
	photos := []model.PhotoRecord{
		photo("none", nil, nil, nil),
		photo("dated", at(-time.Hour), f(10), f(10)),
	}

	groups := Cluster(photos, DefaultThresholds())

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"dated"}, ids(groups[0]))
	assert.Equal(t, []string{"none"}, ids(groups[1]))
	assert.Equal(t, UnknownLocation, groups[1].Location())
	assert.Nil(t, groups[1].StartTime())
	assert.Nil(t, groups[1].EndTime())
}

func TestClusterUndatedAlwaysLast(t *testing.T) {
	zero := time.Time{}
	photos := []model.PhotoRecord{
		photo("u1", nil, f(1), f(1)),
		photo("late", at(48*time.Hour), f(1), f(1)),
		photo("u2", &zero, nil, nil),
		photo("early", at(0), f(1), f(1)),
	}

	groups := Cluster(photos, DefaultThresholds())

	require.Len(t, groups, 3)
	assert.Equal(t, []string{"early"}, ids(groups[0]))
	assert.Equal(t, []string{"late"}, ids(groups[1]))
	assert.Equal(t, []string{"u1", "u2"}, ids(groups[2]))
}

func TestClusterThresholdsInclusive(t *testing.T) {
	a := Coordinates{Lat: 35.6762, Lon: 139.6503}
	b := Coordinates{Lat: 35.7100, Lon: 139.7000}
	km := DistanceKm(b, a)

	photos := []model.PhotoRecord{
		photo("a", at(0), f(a.Lat), f(a.Lon)),
		photo("b", at(2*time.Hour), f(b.Lat), f(b.Lon)),
	}

	groups := Cluster(photos, Thresholds{MaxHoursDiff: 2, MaxKmDiff: km})
	require.Len(t, groups, 1)

	photos[1].CaptureTime = at(2*time.Hour + time.Second)
	groups = Cluster(photos, Thresholds{MaxHoursDiff: 2, MaxKmDiff: km})
	require.Len(t, groups, 2)

	photos[1].CaptureTime = at(2 * time.Hour)
	groups = Cluster(photos, Thresholds{MaxHoursDiff: 2, MaxKmDiff: km * 0.999})
	require.Len(t, groups, 2)
}

func TestClusterChainsAgainstLastPhoto(t *testing.T) {
	// Each step is 90 minutes and about 3.3 km, so the walk drifts far from the
	// first photo while every link stays within the thresholds.
	var photos []model.PhotoRecord
	for i := 0; i < 5; i++ {
		photos = append(photos, photo(
			string(rune('a'+i)),
			at(time.Duration(i)*90*time.Minute),
			f(0.03*float64(i)), f(0),
		))
	}

	groups := Cluster(photos, DefaultThresholds())

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(groups[0]))
}

func TestClusterSplitsOnDistance(t *testing.T) {
	photos := []model.PhotoRecord{
		photo("tokyo", at(0), f(35.6762), f(139.6503)),
		photo("yokohama", at(time.Hour), f(35.4437), f(139.6380)),
	}

	groups := Cluster(photos, DefaultThresholds())

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"tokyo"}, ids(groups[0]))
	assert.Equal(t, []string{"yokohama"}, ids(groups[1]))
}

func TestClusterMalformedCoordinatesAreTimeOnly(t *testing.T) {
	photos := []model.PhotoRecord{
		photo("loc", at(0), f(0), f(0)),
		photo("nan", at(time.Hour), f(math.NaN()), f(0)),
		photo("half", at(90*time.Minute), f(12), nil),
		photo("inf", at(100*time.Minute), f(1), f(math.Inf(1))),
		photo("range", at(110*time.Minute), f(91), f(0)),
	}

	groups := Cluster(photos, DefaultThresholds())

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"loc", "nan", "half", "inf", "range"}, ids(groups[0]))
}

func TestClusterTimeOnlyAttachesToNearestVisit(t *testing.T) {
	photos := []model.PhotoRecord{
		photo("a1", at(0), f(0), f(0)),
		photo("a2", at(time.Hour), f(0), f(0)),
		photo("b1", at(5*time.Hour), f(1), f(1)),
		photo("t-near-b", at(4*time.Hour), nil, nil),
		photo("t-near-a", at(2*time.Hour), nil, nil),
	}

	groups := Cluster(photos, DefaultThresholds())

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"a1", "a2", "t-near-a"}, ids(groups[0]))
	assert.Equal(t, []string{"t-near-b", "b1"}, ids(groups[1]))
}

func TestClusterTimeOnlyTieGoesToEarlierVisit(t *testing.T) {
	photos := []model.PhotoRecord{
		photo("a", at(0), f(0), f(0)),
		photo("b", at(4*time.Hour), f(0), f(0)),
		photo("mid", at(2*time.Hour), nil, nil),
	}

	groups := Cluster(photos, DefaultThresholds())

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"a", "mid"}, ids(groups[0]))
	assert.Equal(t, []string{"b"}, ids(groups[1]))
}

func TestClusterTimeOnlyChainsFromVisit(t *testing.T) {
	photos := []model.PhotoRecord{
		photo("loc", at(0), f(0), f(0)),
		photo("t1", at(90*time.Minute), nil, nil),
		photo("t2", at(3*time.Hour), nil, nil),
		photo("t3", at(270*time.Minute), nil, nil),
	}

	groups := Cluster(photos, DefaultThresholds())

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"loc", "t1", "t2", "t3"}, ids(groups[0]))
}

func TestClusterTimeOnlyChainsBackwardIntoVisit(t *testing.T) {
	photos := []model.PhotoRecord{
		photo("early", at(-3*time.Hour), nil, nil),
		photo("before", at(-90*time.Minute), nil, nil),
		photo("loc", at(0), f(0), f(0)),
	}

	groups := Cluster(photos, DefaultThresholds())

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"early", "before", "loc"}, ids(groups[0]))
}

func TestClusterTimeOnlyFormsOwnGroups(t *testing.T) {
	photos := []model.PhotoRecord{
		photo("a", at(0), f(0), f(0)),
		photo("t1", at(10*time.Hour), nil, nil),
		photo("t2", at(11*time.Hour), nil, nil),
		photo("t3", at(20*time.Hour), nil, nil),
		photo("t0", at(-10*time.Hour), nil, nil),
	}

	groups := Cluster(photos, DefaultThresholds())

	require.Len(t, groups, 4)
	assert.Equal(t, []string{"t0"}, ids(groups[0]))
	assert.Equal(t, []string{"a"}, ids(groups[1]))
	assert.Equal(t, []string{"t1", "t2"}, ids(groups[2]))
	assert.Equal(t, []string{"t3"}, ids(groups[3]))
}

func TestClusterConservesPhotos(t *testing.T) {
	var photos []model.PhotoRecord
	var want []string
	for i := 0; i < 40; i++ {
		id := string(rune('A' + i))
		var when *time.Time
		if i%7 != 0 {
			when = at(time.Duration((i*37)%50) * 25 * time.Minute)
		}
		var lat, lon *float64
		if i%3 != 0 {
			lat, lon = f(float64(i%4)*0.02), f(0)
		}
		photos = append(photos, photo(id, when, lat, lon))
		want = append(want, id)
	}
	sort.Strings(want)

	groups := Cluster(photos, DefaultThresholds())

	assert.Equal(t, want, allIDs(groups))
	for _, g := range groups {
		require.NotZero(t, g.Len())
		assertOrdered(t, g)
	}
	require.NoError(t, NewCollection(groups).Audit(photos))
}

func TestClusterDefaultsForBadThresholds(t *testing.T) {
	got := Thresholds{MaxHoursDiff: -1, MaxKmDiff: math.NaN()}.Normalized()
	assert.Equal(t, DefaultThresholds(), got)

	kept := Thresholds{MaxHoursDiff: 6, MaxKmDiff: 20}.Normalized()
	assert.Equal(t, Thresholds{MaxHoursDiff: 6, MaxKmDiff: 20}, kept)
}

func assertOrdered(t *testing.T, g *Group) {
	t.Helper()
	photos := g.Photos()
	seenDated := false
	for i, p := range photos {
		_, dated := p.Taken()
		if !dated {
			assert.False(t, seenDated, "undated photo %s after a dated one", p.ID)
			continue
		}
		seenDated = true
		if i > 0 {
			if prev, ok := photos[i-1].Taken(); ok {
				cur, _ := p.Taken()
				assert.False(t, cur.Before(prev), "photo %s out of order", p.ID)
			}
		}
	}
}
