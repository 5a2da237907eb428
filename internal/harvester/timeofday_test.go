package harvester

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:05", want: 545},
		{in: "23:59", want: 1439},
		{in: "9:00", wantErr: true},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "12-00", wantErr: true},
		{in: "", wantErr: true},
		{in: "ab:cd", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTimeOfDay(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidTime) {
					t.Fatalf("ParseTimeOfDay(%q) error = %v, want ErrInvalidTime", tc.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q) unexpected error: %v", tc.in, err)
			}
			if got.Minutes() != tc.want {
				t.Fatalf("ParseTimeOfDay(%q) = %d minutes, want %d", tc.in, got.Minutes(), tc.want)
			}
		})
	}
}

func TestIsWithinWindow_SameDay(t *testing.T) {
	t.Parallel()

	for _, bounds := range [][2]int{{0, 1}, {600, 660}, {1380, 1439}, {5, 1000}} {
		start, end := bounds[0], bounds[1]
		for now := 0; now < minutesPerDay; now++ {
			want := now >= start && now < end
			if got := IsWithinWindow(now, start, end); got != want {
				t.Fatalf("IsWithinWindow(%d, %d, %d) = %v, want %v", now, start, end, got, want)
			}
		}
		if IsWithinWindow(end, start, end) {
			t.Fatalf("window [%d,%d) must not contain its end", start, end)
		}
	}
}

func TestIsWithinWindow_Overnight(t *testing.T) {
	t.Parallel()

	for _, bounds := range [][2]int{{1410, 30}, {1439, 0}, {720, 600}, {1, 0}} {
		start, end := bounds[0], bounds[1]
		for now := 0; now < minutesPerDay; now++ {
			want := now >= start || now < end
			if got := IsWithinWindow(now, start, end); got != want {
				t.Fatalf("IsWithinWindow(%d, %d, %d) = %v, want %v", now, start, end, got, want)
			}
		}
		if IsWithinWindow(end, start, end) {
			t.Fatalf("overnight window [%d,%d) must not contain its end", start, end)
		}
	}
}

func TestMinutesUntil_Range(t *testing.T) {
	t.Parallel()

	for target := 0; target < minutesPerDay; target += 7 {
		if got := MinutesUntil(target, target); got != 0 {
			t.Fatalf("MinutesUntil(%d, %d) = %d, want 0", target, target, got)
		}
		for now := 0; now < minutesPerDay; now += 13 {
			got := MinutesUntil(target, now)
			if got < 0 || got >= minutesPerDay {
				t.Fatalf("MinutesUntil(%d, %d) = %d out of range", target, now, got)
			}
			if (now+got)%minutesPerDay != target {
				t.Fatalf("MinutesUntil(%d, %d) = %d does not reach target", target, now, got)
			}
		}
	}
}

func TestUTCToLocalMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		offset int
		hour   int
		minute int
		want   int
	}{
		{name: "utc", offset: 0, hour: 14, minute: 0, want: 840},
		{name: "east", offset: 2 * 60, hour: 23, minute: 30, want: 90},
		{name: "west", offset: -5 * 60, hour: 2, minute: 15, want: 21*60 + 15},
		{name: "half_hour", offset: 5*60 + 30, hour: 0, minute: 0, want: 330},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			loc := time.FixedZone(tc.name, tc.offset*60)
			now := time.Date(2026, 3, 9, 12, 0, 0, 0, loc)
			if got := UTCToLocalMinutes(tc.hour, tc.minute, now); got != tc.want {
				t.Fatalf("UTCToLocalMinutes(%d, %d) = %d, want %d", tc.hour, tc.minute, got, tc.want)
			}
			want := ((tc.hour*60+tc.minute+tc.offset)%minutesPerDay + minutesPerDay) % minutesPerDay
			if tc.want != want {
				t.Fatalf("offset arithmetic mismatch: %d vs %d", tc.want, want)
			}
		})
	}
}

func TestClock12RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{in: "12:00 AM", want: 0},
		{in: "12:00 PM", want: 720},
		{in: "1:05 PM", want: 785},
		{in: "11:59 PM", want: 1439},
		{in: "9:30 am", want: 570},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseClock12(tc.in)
			if err != nil {
				t.Fatalf("ParseClock12(%q) unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("ParseClock12(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}

	for minutes := 0; minutes < minutesPerDay; minutes++ {
		got, err := ParseClock12(FormatClock12(minutes))
		if err != nil || got != minutes {
			t.Fatalf("round trip of %d via %q gave %d (%v)", minutes, FormatClock12(minutes), got, err)
		}
	}

	for _, bad := range []string{"13:00 PM", "0:30 AM", "12:00", "1:5 PM", "noon"} {
		if _, err := ParseClock12(bad); !errors.Is(err, ErrInvalidTime) {
			t.Fatalf("ParseClock12(%q) error = %v, want ErrInvalidTime", bad, err)
		}
	}
}

func TestCountdownFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		total int
		plain string
		list  string
	}{
		{name: "zero", total: 0, plain: "0m", list: "Now"},
		{name: "minutes", total: 30, plain: "30m", list: "30m"},
		{name: "whole_hour", total: 60, plain: "1h 0m", list: "1h 0m"},
		{name: "hours_minutes", total: 185, plain: "3h 5m", list: "3h 5m"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := CountdownFromMinutes(tc.total)
			if got := c.String(); got != tc.plain {
				t.Fatalf("String() = %q, want %q", got, tc.plain)
			}
			if got := c.NowOr(); got != tc.list {
				t.Fatalf("NowOr() = %q, want %q", got, tc.list)
			}
			if got := FormatCountdown(tc.total); got != tc.plain {
				t.Fatalf("FormatCountdown() = %q, want %q", got, tc.plain)
			}
			if c.Total() != tc.total {
				t.Fatalf("Total() = %d, want %d", c.Total(), tc.total)
			}
		})
	}
}
