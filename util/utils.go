package util

import (
	"bytes"
	"html/template"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/twpayne/go-polyline"
)

var shortCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

func safeHTML(s string) template.HTML {
	return template.HTML(s)
}

func formatTime(format string, t time.Time) string {
	return t.Format(format)
}

func slugify(s string) string {
	var buf bytes.Buffer

	for _, r := range s {
		switch {
		case r > unicode.MaxASCII:
			continue
		case unicode.IsLetter(r):
			buf.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r), r == '_', r == '-':
			buf.WriteRune(r)
		case unicode.IsSpace(r):
			buf.WriteRune('-')
		}
	}

	return buf.String()
}

var TemplateFuncs = template.FuncMap{
	// Time functions
	"now":        time.Now,
	"formatTime": formatTime,

	// String functions
	"uppercase": strings.ToUpper,
	"lowercase": strings.ToLower,
	"slugify":   slugify,
	"safeHTML":  safeHTML,

	// Slice functions
	"join": strings.Join,
}

// Slugify exposes slugify for folder and file names.
func Slugify(s string) string {
	return slugify(s)
}

func GenerateShortCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = shortCodeCharset[rand.Intn(len(shortCodeCharset))]
	}
	return string(b)
}

// Coordinate represents a latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lon float64
}

// EncodePolyline encodes coordinates with the standard precision 1e5 polyline
// algorithm, in [lat, lon] order as map clients expect.
func EncodePolyline(coords []Coordinate) string {
	if len(coords) == 0 {
		return ""
	}
	pts := make([][]float64, len(coords))
	for i, c := range coords {
		pts[i] = []float64{c.Lat, c.Lon}
	}
	return string(polyline.EncodeCoords(pts))
}

func DecodePolyline(shape string) ([]Coordinate, error) {
	decoded, _, err := polyline.DecodeCoords([]byte(shape))
	if err != nil {
		return nil, err
	}
	out := make([]Coordinate, len(decoded))
	for i, c := range decoded {
		out[i] = Coordinate{Lat: c[0], Lon: c[1]}
	}
	return out, nil
}
