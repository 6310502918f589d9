package date

import (
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2024-01-15", want: New(2024, 1, 15)},
		{in: "2024-1-5", want: New(2024, 1, 5)},
		{in: "2024/01/15", wantErr: true},
		{in: "2024-02-30", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAddNormalizes(t *testing.T) {
	if got, want := New(2024, 3, 1).Add(-1), New(2024, 2, 29); got != want {
		t.Errorf("Add(-1) = %v, want %v", got, want)
	}
	if got, want := New(2023, 12, 31).Add(1), New(2024, 1, 1); got != want {
		t.Errorf("Add(1) = %v, want %v", got, want)
	}
}

func TestIn(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	got := New(2024, 1, 15).In(15, 0, jst)
	if got.UTC() != time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC) {
		t.Errorf("In() = %v, want 06:00 UTC", got.UTC())
	}
	if Of(got) != New(2024, 1, 15) {
		t.Errorf("Of(In()) = %v, want 2024-01-15", Of(got))
	}
}

func TestLookBack(t *testing.T) {
	r := LookBack(New(2024, 1, 15), 7)
	for _, tt := range []struct {
		d    Date
		want bool
	}{
		{New(2024, 1, 15), true},
		{New(2024, 1, 8), true},
		{New(2024, 1, 7), false},
		{New(2024, 1, 16), false},
	} {
		if got := r.Contains(tt.d); got != tt.want {
			t.Errorf("LookBack(2024-01-15, 7).Contains(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}
