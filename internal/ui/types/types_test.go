package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseGalleryCategory(t *testing.T) {
	tests := []struct {
		input     string
		want      GalleryCategory
		wantLabel string
		wantErr   bool
	}{
		{input: "Milling", want: GalleryCategoryMilling, wantLabel: "CNC Milling"},
		{input: "Turning", want: GalleryCategoryTurning, wantLabel: "CNC Turning"},
		{input: "Parts", want: GalleryCategoryParts, wantLabel: "Finished Parts"},
		{input: "Factory", want: GalleryCategoryFactory, wantLabel: "Our Factory"},
		{input: "milling", wantErr: true},
		{input: "Welding", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseGalleryCategory(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseGalleryCategory(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGalleryCategory(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if got.Label() != tt.wantLabel {
				t.Errorf("Label() = %q, want %q", got.Label(), tt.wantLabel)
			}
		})
	}
}

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "zone-less local date time",
			input: `"2024-03-05T10:15:30.123456"`,
			want:  time.Date(2024, 3, 5, 10, 15, 30, 123456000, time.UTC),
		},
		{
			name:  "zone-less without fraction",
			input: `"2024-03-05T10:15:30"`,
			want:  time.Date(2024, 3, 5, 10, 15, 30, 0, time.UTC),
		},
		{
			name:  "rfc3339",
			input: `"2024-03-05T10:15:30Z"`,
			want:  time.Date(2024, 3, 5, 10, 15, 30, 0, time.UTC),
		},
		{
			name:  "null",
			input: `null`,
		},
		{
			name:    "not a date",
			input:   `"yesterday"`,
			wantErr: true,
		},
		{
			name:    "number",
			input:   `1709633730`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ts.Equal(tt.want) {
				t.Errorf("got %v, want %v", ts.Time, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(Timestamp{}); got != "" {
		t.Errorf("zero timestamp formatted as %q", got)
	}

	ts := Timestamp{time.Date(2024, 3, 5, 10, 15, 30, 0, time.UTC)}
	if got := FormatDate(ts); got != "5 March 2024" {
		t.Errorf("FormatDate = %q, want 5 March 2024", got)
	}
}

func TestIndustryLabel(t *testing.T) {
	tests := map[string]string{
		"automotive":        "Automotive",
		"automotive parts":  "Automotive Parts",
		"  food processing": "Food Processing",
		"":                  "",
	}

	for input, want := range tests {
		if got := IndustryLabel(input); got != want {
			t.Errorf("IndustryLabel(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestApiError(t *testing.T) {
	err := &ApiError{Status: 404, Message: "Reference not found", Path: "/api/references/1"}
	if got := err.Error(); got != "api error 404 on /api/references/1: Reference not found" {
		t.Errorf("Error() = %q", got)
	}
	if err.HasFieldErrors() {
		t.Error("HasFieldErrors() = true without field errors")
	}

	if got := err.DisplayMessage(); got != "Reference not found" {
		t.Errorf("DisplayMessage() = %q", got)
	}

	err.FieldErrors = map[string]string{"email": "must be a well-formed email address"}
	if !err.HasFieldErrors() {
		t.Error("HasFieldErrors() = false with field errors")
	}
}

func TestApiErrorDisplayMessage(t *testing.T) {
	tests := []struct {
		name string
		err  ApiError
		want string
	}{
		{name: "message", err: ApiError{Status: 400, ErrorLabel: "Bad Request", Message: "Invalid input data"}, want: "Invalid input data"},
		{name: "label only", err: ApiError{Status: 403, ErrorLabel: "Forbidden"}, want: "Forbidden"},
		{name: "status only", err: ApiError{Status: 500}, want: "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.DisplayMessage(); got != tt.want {
				t.Errorf("DisplayMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
