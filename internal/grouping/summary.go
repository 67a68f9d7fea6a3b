package grouping

import "time"

// Summary is the set of facts about a group handed to narrative generation.
type Summary struct {
	GroupID           string     `json:"id"`
	Name              string     `json:"group_name"`
	EarliestTimeStamp *time.Time `json:"earliest_time_stamp,omitempty"`
	LatestTimeStamp   *time.Time `json:"latest_time_stamp,omitempty"`
	Rating            *int       `json:"rating,omitempty"`
	Review            string     `json:"review,omitempty"`
	PhotoCount        int        `json:"photo_count"`
}

func (g *Group) Summary() Summary {
	return Summary{
		GroupID:           g.id,
		Name:              g.location,
		EarliestTimeStamp: g.StartTime(),
		LatestTimeStamp:   g.EndTime(),
		Rating:            g.Rating(),
		Review:            g.review,
		PhotoCount:        len(g.photos),
	}
}
