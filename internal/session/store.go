// Package session keeps one editable trip draft per trip id. Each draft owns its
// own group collection and is only touched while its lock is held.
package session

import (
	"sync"
	"time"

	"github.com/bwise1/travelog/internal/grouping"
	"github.com/bwise1/travelog/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrNotFound       = errors.New("trip session not found")
	ErrAlreadyGrouped = errors.New("photos cannot be added after grouping")
	ErrDuplicatePhoto = errors.New("photo id already added")
	ErrNotGrouped     = errors.New("photos have not been grouped yet")
)

// Session is one trip draft.
type Session struct {
	mu sync.Mutex

	Trip       model.Trip
	photos     []model.PhotoRecord
	photoIndex map[string]struct{}
	groups     *grouping.GroupCollection
	grouped    bool
}

func newSession(trip model.Trip) *Session {
	return &Session{
		Trip:       trip,
		photoIndex: make(map[string]struct{}),
		groups:     grouping.NewCollection(nil),
	}
}

// AddPhotos appends to the ingestion list. The whole batch is rejected if any id
// is already present or repeated.
func (s *Session) AddPhotos(photos []model.PhotoRecord) error {
	if s.grouped {
		return ErrAlreadyGrouped
	}
	batch := make(map[string]struct{}, len(photos))
	for _, p := range photos {
		if _, ok := s.photoIndex[p.ID]; ok {
			return errors.Wrap(ErrDuplicatePhoto, p.ID)
		}
		if _, ok := batch[p.ID]; ok {
			return errors.Wrap(ErrDuplicatePhoto, p.ID)
		}
		batch[p.ID] = struct{}{}
	}
	for _, p := range photos {
		s.photoIndex[p.ID] = struct{}{}
		s.photos = append(s.photos, p)
	}
	return nil
}

// Group runs clustering over every ingested photo and replaces the current groups.
// Grouping an empty draft leaves it open for ingestion.
func (s *Session) Group(t grouping.Thresholds) []*grouping.Group {
	groups := grouping.Cluster(s.photos, t)
	s.groups.Replace(groups)
	s.grouped = len(s.photos) > 0
	s.mustAudit()
	return s.groups.Groups()
}

// Groups is the live collection. Callers must Commit after mutating it.
func (s *Session) Groups() (*grouping.GroupCollection, error) {
	if !s.grouped {
		return nil, ErrNotGrouped
	}
	return s.groups, nil
}

// Commit verifies the collection after a mutation. A violation means a bug in
// the collection, so it panics rather than letting a corrupt draft be saved.
func (s *Session) Commit() {
	s.mustAudit()
	s.Trip.UpdatedAt = time.Now()
}

func (s *Session) mustAudit() {
	if err := s.groups.Audit(s.photos); err != nil {
		zap.L().Error("group collection failed audit",
			zap.String("trip_id", s.Trip.ID.String()),
			zap.Error(err),
		)
		panic(err)
	}
}

// Snapshot is a read-only view for responses and broadcasts.
type Snapshot struct {
	Trip       model.Trip
	PhotoCount int
	Grouped    bool
	Groups     []*grouping.Group
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Trip:       s.Trip,
		PhotoCount: len(s.photos),
		Grouped:    s.grouped,
		Groups:     s.groups.Groups(),
	}
}

// Store holds the sessions of every open trip draft.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[uuid.UUID]*Session)}
}

// Create opens a new draft with a fresh trip id.
func (st *Store) Create(title string) model.Trip {
	now := time.Now()
	trip := model.Trip{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	st.mu.Lock()
	st.sessions[trip.ID] = newSession(trip)
	st.mu.Unlock()
	return trip
}

// Restore installs a draft rebuilt from saved groups unless the trip already
// has an open draft. The ingestion list is the union of the groups' photos.
func (st *Store) Restore(trip model.Trip, groups []*grouping.Group) bool {
	s := newSession(trip)
	for _, g := range groups {
		for _, p := range g.Photos() {
			s.photoIndex[p.ID] = struct{}{}
			s.photos = append(s.photos, p)
		}
	}
	s.groups.Replace(groups)
	s.grouped = len(groups) > 0

	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[trip.ID]; ok {
		return false
	}
	st.sessions[trip.ID] = s
	return true
}

// Delete discards a draft and reports whether one was open. Saved trips can
// still be reopened from the database.
func (st *Store) Delete(id uuid.UUID) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

// With runs fn while holding the session's lock.
func (st *Store) With(id uuid.UUID, fn func(s *Session) error) error {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}
