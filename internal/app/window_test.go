package app

import (
	"testing"
	"time"
)

func TestWindow(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		from, to  string
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{"defaults", "", "", now.Add(-24 * time.Hour), now, false},
		{"dates are inclusive", "2024-05-01", "2024-05-03",
			time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339", "2024-05-01T08:00:00Z", "2024-05-01T18:00:00+02:00",
			time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), time.Date(2024, 5, 1, 16, 0, 0, 0, time.UTC), false},
		{"only to", "", "2024-05-03",
			time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC), false},
		{"garbage", "yesterday", "", time.Time{}, time.Time{}, true},
		{"reversed", "2024-05-03", "2024-05-01", time.Time{}, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := Window(tt.from, tt.to, now)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v - %v", start, end)
				}
				return
			}
			if err != nil {
				t.Fatalf("Window: %v", err)
			}
			if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
				t.Fatalf("window = %v - %v, want %v - %v", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestNextMidnight(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("no tzdata")
	}
	tests := []struct {
		in, want time.Time
	}{
		{time.Date(2024, 5, 10, 13, 0, 0, 0, time.UTC), time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 12, 31, 23, 59, 0, 0, berlin), time.Date(2025, 1, 1, 0, 0, 0, 0, berlin)},
	}
	for _, tt := range tests {
		if got := NextMidnight(tt.in); !got.Equal(tt.want) {
			t.Errorf("NextMidnight(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
