package util

import (
	"errors"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/bwise1/travelog/util/values"
)

func TestEncodePolyline(t *testing.T) {
	coords := []Coordinate{{Lat: 38.5, Lon: -120.2}, {Lat: 40.7, Lon: -120.95}, {Lat: 43.252, Lon: -126.453}}

	encoded := EncodePolyline(coords)
	if encoded != "_p~iF~ps|U_ulLnnqC_mqNvxq`@" {
		t.Fatalf("EncodePolyline = %q", encoded)
	}

	decoded, err := DecodePolyline(encoded)
	if err != nil {
		t.Fatalf("Decoding returned error %v", err)
	}
	for i := range coords {
		if math.Abs(decoded[i].Lat-coords[i].Lat) > 1e-5 || math.Abs(decoded[i].Lon-coords[i].Lon) > 1e-5 {
			t.Errorf("decoded[%d] = %v; want %v", i, decoded[i], coords[i])
		}
	}

	if got := EncodePolyline(nil); got != "" {
		t.Errorf("EncodePolyline(nil) = %q; want empty", got)
	}
}

func TestFormatTime(t *testing.T) {
	testTime := time.Date(2025, 4, 5, 14, 30, 45, 0, time.UTC)

	// Test cases with different formats
	testCases := []struct {
		name           string
		format         string
		expectedResult string
	}{
		{"RFC3339", time.RFC3339, "2025-04-05T14:30:45Z"},
		{"Simple Date", "2006-01-02", "2025-04-05"},
		{"Long Date", "January 2, 2006", "April 5, 2025"},
		{"Kitchen Time", time.Kitchen, "2:30PM"},
		{"Empty Format", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := formatTime(tc.format, testTime)

			if result != tc.expectedResult {
				t.Errorf("formatTime(%q, %v) = %q; want %q",
					tc.format, testTime, result, tc.expectedResult)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	testCases := []struct {
		in, want string
	}{
		{"Kyoto Trip 2025", "kyoto-trip-2025"},
		{"Café_Day-1!", "caf_day-1"},
		{"", ""},
	}
	for _, tc := range testCases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestStatusCode(t *testing.T) {
	testCases := map[string]int{
		values.Success:        http.StatusOK,
		values.Created:        http.StatusCreated,
		values.BadRequestBody: http.StatusBadRequest,
		values.Unprocessable:  http.StatusUnprocessableEntity,
		values.NotFound:       http.StatusNotFound,
		values.Conflict:       http.StatusConflict,
		values.Error:          http.StatusInternalServerError,
		"anything-else":       http.StatusOK,
	}
	for status, want := range testCases {
		if got := StatusCode(status); got != want {
			t.Errorf("StatusCode(%q) = %d; want %d", status, got, want)
		}
	}
}

func TestGenerateShortCode(t *testing.T) {
	code := GenerateShortCode(8)
	if len(code) != 8 {
		t.Fatalf("len = %d; want 8", len(code))
	}
	for _, r := range code {
		if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			t.Errorf("unexpected rune %q in %q", r, code)
		}
	}
}

func TestValidateCoordinates(t *testing.T) {
	type query struct {
		Latitude  float64 `validate:"latitude"`
		Longitude float64 `validate:"longitude"`
	}
	if err := ValidateStruct(query{Latitude: 35.6, Longitude: 139.6}); err != nil {
		t.Errorf("valid coordinates rejected: %v", err)
	}
	if err := ValidateStruct(query{Latitude: 95, Longitude: 0}); err == nil {
		t.Error("latitude 95 accepted")
	}
	if err := ValidateStruct(query{Latitude: 0, Longitude: -181}); err == nil {
		t.Error("longitude -181 accepted")
	}
}

func TestValidationMessage(t *testing.T) {
	type rated struct {
		Rating int `validate:"min=1,max=5"`
	}
	err := ValidateStruct(rated{Rating: 9})
	if err == nil {
		t.Fatal("rating 9 accepted")
	}
	if got := ValidationMessage(err); got != "Rating failed max=5" {
		t.Errorf("ValidationMessage = %q", got)
	}
	if got := ValidationMessage(errNotValidation); got != "plain" {
		t.Errorf("ValidationMessage(plain) = %q", got)
	}
}

var errNotValidation = errors.New("plain")

func TestNotBlank(t *testing.T) {
	tests := map[string]bool{"": false, "   ": false, "\t\n": false, "Kyoto": true, " Nara ": true}
	for in, want := range tests {
		if got := NotBlank(in); got != want {
			t.Errorf("NotBlank(%q) = %v, want %v", in, got, want)
		}
	}
}
