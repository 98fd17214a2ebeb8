package summary

import (
	"testing"
	"time"
)

func TestDayOf(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "midday utc",
			in:   time.Date(2025, 6, 2, 13, 45, 12, 0, time.UTC),
			want: "2025-06-02",
		},
		{
			name: "exact midnight belongs to that day",
			in:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			want: "2025-06-02",
		},
		{
			name: "nanosecond before midnight stays on previous day",
			in:   time.Date(2025, 6, 3, 0, 0, 0, -1, time.UTC),
			want: "2025-06-02",
		},
		{
			name: "positive offset crossing back over midnight",
			in:   time.Date(2025, 6, 3, 1, 0, 0, 0, time.FixedZone("EEST", 3*3600)),
			want: "2025-06-02",
		},
		{
			name: "negative offset crossing forward over midnight",
			in:   time.Date(2025, 6, 2, 22, 30, 0, 0, time.FixedZone("PDT", -7*3600)),
			want: "2025-06-03",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DayOf(tc.in)
			if got.Format("2006-01-02") != tc.want {
				t.Fatalf("DayOf(%v) = %v, want %s", tc.in, got, tc.want)
			}
			if got.Location() != time.UTC {
				t.Fatalf("DayOf(%v) not in UTC: %v", tc.in, got.Location())
			}
			if h, m, s := got.Clock(); h != 0 || m != 0 || s != 0 {
				t.Fatalf("DayOf(%v) not at midnight: %v", tc.in, got)
			}
		})
	}
}

func TestDayOfIdempotent(t *testing.T) {
	in := time.Date(2025, 6, 2, 18, 4, 59, 123, time.FixedZone("CET", 3600))
	once := DayOf(in)
	twice := DayOf(once)
	if !once.Equal(twice) {
		t.Fatalf("DayOf not idempotent: %v vs %v", once, twice)
	}
}
