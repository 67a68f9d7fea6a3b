package narrative

import (
	"bytes"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/bwise1/travelog/internal/grouping"
	"github.com/bwise1/travelog/util"
	"github.com/pkg/errors"
)

// The overview names blank stops differently from the per-stop lines.
const (
	unnamedLocation = "Unnamed location"
	unknownLocation = "Unknown location"
)

var funcs = template.FuncMap(util.TemplateFuncs)

var tripLogTmpl = template.Must(template.New("trip_log").Funcs(funcs).Parse(`Please write an engaging and personal travel log based on the following itinerary.
Write in first person as if you've visited these places. Create a cohesive narrative that flows
naturally between the locations. Incorporate the ratings and reviews into your narrative where provided.

Itinerary Overview: {{join .Names ", "}}

Detailed Itinerary:
{{range .Stops}}
Location: {{.Name}}
Date: {{if .Dated}}{{formatTime "January 2, 2006" .Date}}{{else}}Unknown date{{end}}
{{- if .Rating}}
Rating: {{.Rating}}/5{{end}}
{{- if .Review}}
Review: "{{.Review}}"{{end}}
{{end}}
Please format the travel log with appropriate sections. Make it personal, vivid, and engaging.
`))

var captionTmpl = template.Must(template.New("caption").Funcs(funcs).Parse(`Write a one or two sentence caption, in first person, for a photo album page of a trip stop.
Location: {{.Name}}
Date: {{if .Dated}}{{formatTime "January 2, 2006" .Date}}{{else}}Unknown date{{end}}
Photos: {{.PhotoCount}}
{{- if .Rating}}
Rating: {{.Rating}}/5{{end}}
{{- if .Review}}
Review: "{{.Review}}"{{end}}
Reply with the caption only.
`))

type stop struct {
	Name       string
	Dated      bool
	Date       time.Time
	Rating     int
	Review     string
	PhotoCount int
}

func stopOf(s grouping.Summary) stop {
	st := stop{
		Name:       strings.TrimSpace(s.Name),
		Review:     strings.TrimSpace(s.Review),
		PhotoCount: s.PhotoCount,
	}
	if st.Name == "" {
		st.Name = unnamedLocation
	}
	if s.EarliestTimeStamp != nil {
		st.Dated = true
		st.Date = *s.EarliestTimeStamp
	}
	if s.Rating != nil {
		st.Rating = *s.Rating
	}
	return st
}

// TripLogPrompt builds the story prompt. Stops are told in order of their
// earliest photo, undated stops first.
func TripLogPrompt(summaries []grouping.Summary) (string, error) {
	sorted := append([]grouping.Summary(nil), summaries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].EarliestTimeStamp, sorted[j].EarliestTimeStamp
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})

	data := struct {
		Names []string
		Stops []stop
	}{}
	for _, s := range sorted {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			name = unknownLocation
		}
		data.Names = append(data.Names, name)
		data.Stops = append(data.Stops, stopOf(s))
	}

	var buf bytes.Buffer
	if err := tripLogTmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "render trip log prompt")
	}
	return buf.String(), nil
}

func CaptionPrompt(s grouping.Summary) (string, error) {
	var buf bytes.Buffer
	if err := captionTmpl.Execute(&buf, stopOf(s)); err != nil {
		return "", errors.Wrap(err, "render caption prompt")
	}
	return buf.String(), nil
}
