package harvester

import "strconv"

type Countdown struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

func CountdownFromMinutes(total int) Countdown {
	if total < 0 {
		total = 0
	}
	return Countdown{Hours: total / 60, Minutes: total % 60}
}

func (c Countdown) Total() int {
	return c.Hours*60 + c.Minutes
}

func (c Countdown) IsZero() bool {
	return c.Hours == 0 && c.Minutes == 0
}

// String is the plain variant used for time remaining in a current event;
// zero renders as "0m".
func (c Countdown) String() string {
	if c.Hours == 0 {
		return strconv.Itoa(c.Minutes) + "m"
	}
	return strconv.Itoa(c.Hours) + "h " + strconv.Itoa(c.Minutes) + "m"
}

// NowOr is the list variant: "Now" when nothing is left, String otherwise.
func (c Countdown) NowOr() string {
	if c.IsZero() {
		return "Now"
	}
	return c.String()
}

// FormatCountdown renders a plain countdown, "0m" for zero.
func FormatCountdown(totalMinutes int) string {
	return CountdownFromMinutes(totalMinutes).String()
}
