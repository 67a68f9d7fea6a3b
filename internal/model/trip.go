package model

import (
	"time"

	"github.com/google/uuid"
)

type Trip struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	AIGeneratedText string    `json:"ai_generated_text,omitempty"`
	EditedText      string    `json:"edited_text,omitempty"`
	ShareID         *string   `json:"share_id,omitempty"`
	IsPublic        bool      `json:"is_public"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TripGroup is the persisted form of a visit group.
type TripGroup struct {
	ID           string        `json:"id"`
	TripID       uuid.UUID     `json:"trip_id"`
	SortOrder    int           `json:"sort_order"`
	Location     string        `json:"location"`
	Rating       *int          `json:"rating"`
	Review       string        `json:"review"`
	StartTime    *time.Time    `json:"start_time"`
	EndTime      *time.Time    `json:"end_time"`
	CoverPhotoID string        `json:"cover_photo_id"`
	Route        string        `json:"route,omitempty"`
	Photos       []PhotoRecord `json:"photos"`
}

// SharedTrip is what a public share link resolves to.
type SharedTrip struct {
	Trip   Trip        `json:"trip"`
	Groups []TripGroup `json:"groups"`
}

type CreateTripRequest struct {
	Title string `json:"title" validate:"required,min=1,max=120"`
}

type GroupingRequest struct {
	MaxHoursDiff float64 `json:"max_hours_diff" validate:"omitempty,gt=0"`
	MaxKmDiff    float64 `json:"max_km_diff" validate:"omitempty,gt=0"`
}

type UpdateGroupRequest struct {
	Location    *string `json:"location" validate:"omitempty,max=200"`
	Rating      *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	ClearRating bool    `json:"clear_rating"`
	Review      *string `json:"review"`
}

type MergeGroupsRequest struct {
	GroupIDs []string `json:"group_ids" validate:"required,min=2"`
}

type ReorderGroupsRequest struct {
	GroupIDs []string `json:"group_ids" validate:"required"`
}

type EditNarrativeRequest struct {
	EditedText string `json:"edited_text" validate:"required"`
}

// PointQuery is an explicit coordinate for a location suggestion.
type PointQuery struct {
	Latitude  float64 `json:"lat" validate:"latitude"`
	Longitude float64 `json:"lon" validate:"longitude"`
}

type LocationSuggestion struct {
	GroupID  string `json:"group_id"`
	Location string `json:"location"`
}

type ShareLink struct {
	ShareID   string `json:"share_id"`
	ShareLink string `json:"share_link"`
}

type UploadedPhoto struct {
	PhotoID  string `json:"photo_id"`
	ImageURL string `json:"image_url"`
}
