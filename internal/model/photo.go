package model

import "time"

// PhotoRecord is the metadata derived from one uploaded photograph. Latitude and
// Longitude are expected to be both set or both nil; anything else is treated as
// having no location.
type PhotoRecord struct {
	ID          string     `json:"id" validate:"required"`
	CaptureTime *time.Time `json:"capture_time"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	ImageURL    string     `json:"image_url,omitempty"`
}

// Taken returns the capture time, treating a nil or zero timestamp as absent.
func (p PhotoRecord) Taken() (time.Time, bool) {
	if p.CaptureTime == nil || p.CaptureTime.IsZero() {
		return time.Time{}, false
	}
	return *p.CaptureTime, true
}

type AddPhotosRequest struct {
	Photos []PhotoRecord `json:"photos" validate:"required,min=1,dive"`
}
