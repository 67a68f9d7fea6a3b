package grouping

import (
	"testing"
	"time"

	"github.com/bwise1/travelog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }
func strp(v string) *string { return &v }

func single(id string, offset time.Duration, f Fields) *Group {
	return newGroup([]model.PhotoRecord{photo(id, at(offset), nil, nil)}, f)
}

func TestUpdateFields(t *testing.T) {
	g := single("p1", 0, Fields{})
	c := NewCollection([]*Group{g})

	got, err := c.Update(g.ID(), GroupUpdate{Location: strp("Kyoto"), Rating: intp(4)})
	require.NoError(t, err)
	assert.Equal(t, "Kyoto", got.Location())
	assert.Equal(t, 4, *got.Rating())
	assert.Equal(t, "", got.Review())

	_, err = c.Update(g.ID(), GroupUpdate{Review: strp("temples"), ClearRating: true})
	require.NoError(t, err)
	assert.Equal(t, "Kyoto", g.Location())
	assert.Nil(t, g.Rating())
	assert.Equal(t, "temples", g.Review())
	assert.Equal(t, []string{"p1"}, ids(g))
}

func TestUpdateRejects(t *testing.T) {
	g := single("p1", 0, Fields{Rating: intp(2)})
	c := NewCollection([]*Group{g})

	_, err := c.Update("missing", GroupUpdate{Location: strp("x")})
	assert.True(t, IsInvalidOperation(err, UnknownGroup))

	_, err = c.Update(g.ID(), GroupUpdate{Rating: intp(6), Location: strp("x")})
	assert.True(t, IsInvalidOperation(err, InvalidRating))
	assert.Equal(t, "", g.Location())
	assert.Equal(t, 2, *g.Rating())
}

func TestRemove(t *testing.T) {
	a, b := single("a", 0, Fields{}), single("b", time.Hour, Fields{})
	c := NewCollection([]*Group{a, b})

	require.NoError(t, c.Remove(a.ID()))
	assert.Equal(t, []*Group{b}, c.Groups())

	err := c.Remove(a.ID())
	assert.True(t, IsInvalidOperation(err, UnknownGroup))

	ingested := []model.PhotoRecord{photo("a", at(0), nil, nil), photo("b", at(time.Hour), nil, nil)}
	assert.NoError(t, c.Audit(ingested))
}

func TestMergeFirstNonNullRatingWins(t *testing.T) {
	a := single("a", 2*time.Hour, Fields{Location: "Shibuya", Review: "busy"})
	b := single("b", 0, Fields{Location: "Harajuku", Rating: intp(4), Review: "fun"})
	other := single("c", 5*time.Hour, Fields{})
	c := NewCollection([]*Group{a, other, b})

	merged, err := c.Merge([]string{a.ID(), b.ID()})
	require.NoError(t, err)

	assert.Equal(t, 4, *merged.Rating())
	assert.Equal(t, "Shibuya", merged.Location())
	assert.Equal(t, "busy", merged.Review())
	assert.Equal(t, []string{"b", "a"}, ids(merged))
	assert.Equal(t, "b", merged.CoverPhoto().ID)
	assert.Equal(t, []*Group{other, merged}, c.Groups())
	assert.NotEqual(t, a.ID(), merged.ID())
	assert.NotEqual(t, b.ID(), merged.ID())
}

func TestMergeRejects(t *testing.T) {
	a, b := single("a", 0, Fields{}), single("b", time.Hour, Fields{})
	c := NewCollection([]*Group{a, b})

	tests := []struct {
		name string
		ids  []string
	}{
		{"empty", nil},
		{"one", []string{a.ID()}},
		{"duplicate", []string{a.ID(), a.ID()}},
		{"unknown", []string{a.ID(), "nope"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Merge(tc.ids)
			assert.True(t, IsInvalidOperation(err, InsufficientGroupsForMerge))
			assert.Equal(t, []*Group{a, b}, c.Groups())
		})
	}
}

func TestMergeIgnoresUnknownWhenEnoughRemain(t *testing.T) {
	a, b := single("a", 0, Fields{}), single("b", time.Hour, Fields{})
	c := NewCollection([]*Group{a, b})

	merged, err := c.Merge([]string{"nope", b.ID(), a.ID(), b.ID()})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(merged))
	assert.Equal(t, 1, c.Len())
}

func TestSplitHalves(t *testing.T) {
	var photos []model.PhotoRecord
	for i, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		photos = append(photos, photo(id, at(time.Duration(i)*time.Minute), nil, nil))
	}
	before := single("x", -time.Hour, Fields{})
	g := newGroup(photos, Fields{Location: "Nara", Rating: intp(5), Review: "deer"})
	after := single("y", time.Hour, Fields{})
	c := NewCollection([]*Group{before, g, after})

	first, second, err := c.Split(g.ID())
	require.NoError(t, err)

	assert.Equal(t, []string{"p1", "p2"}, ids(first))
	assert.Equal(t, []string{"p3", "p4", "p5"}, ids(second))
	for _, half := range []*Group{first, second} {
		assert.Equal(t, "Nara", half.Location())
		assert.Equal(t, 5, *half.Rating())
		assert.Equal(t, "deer", half.Review())
		assert.NotEqual(t, g.ID(), half.ID())
	}
	assert.Equal(t, []*Group{before, first, second, after}, c.Groups())

	_, err = c.Update(first.ID(), GroupUpdate{Rating: intp(1)})
	require.NoError(t, err)
	assert.Equal(t, 5, *second.Rating())
}

func TestSplitRejects(t *testing.T) {
	g := single("only", 0, Fields{})
	c := NewCollection([]*Group{g})

	_, _, err := c.Split(g.ID())
	assert.True(t, IsInvalidOperation(err, InsufficientPhotosForSplit))

	_, _, err = c.Split("missing")
	assert.True(t, IsInvalidOperation(err, UnknownGroup))
	assert.Equal(t, []*Group{g}, c.Groups())
}

func TestSplitAfterMergeOfSingles(t *testing.T) {
	a, b := single("a", 0, Fields{}), single("b", 10*time.Hour, Fields{})
	c := NewCollection([]*Group{a, b})

	merged, err := c.Merge([]string{a.ID(), b.ID()})
	require.NoError(t, err)
	first, second, err := c.Split(merged.ID())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a", "b"}, append(ids(first), ids(second)...))
	assert.NoError(t, c.Audit([]model.PhotoRecord{photo("a", at(0), nil, nil), photo("b", at(10*time.Hour), nil, nil)}))
}

func TestReorder(t *testing.T) {
	a, b, x := single("a", 0, Fields{}), single("b", time.Hour, Fields{}), single("c", 2*time.Hour, Fields{})
	c := NewCollection([]*Group{a, b, x})

	c.Reorder([]*Group{x, a, b})
	assert.Equal(t, []*Group{x, a, b}, c.Groups())
}

func TestAuditDetectsLoss(t *testing.T) {
	a := single("a", 0, Fields{})
	c := NewCollection([]*Group{a, a})

	err := c.Audit([]model.PhotoRecord{photo("a", at(0), nil, nil), photo("lost", at(0), nil, nil)})
	require.Error(t, err)

	var ce *ConsistencyError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"lost"}, ce.Missing)
	assert.Equal(t, []string{"a"}, ce.Duplicated)
}

func TestSummaries(t *testing.T) {
	g := newGroup([]model.PhotoRecord{
		photo("late", at(3*time.Hour), nil, nil),
		photo("early", at(0), nil, nil),
	}, Fields{Location: "Osaka", Rating: intp(3), Review: "food"})
	c := NewCollection([]*Group{g})

	got := c.Summaries()
	require.Len(t, got, 1)
	assert.Equal(t, Summary{
		GroupID:           g.ID(),
		Name:              "Osaka",
		EarliestTimeStamp: at(0),
		LatestTimeStamp:   at(3 * time.Hour),
		Rating:            intp(3),
		Review:            "food",
		PhotoCount:        2,
	}, got[0])
}
