// Package walltime parses and formats SLURM wall-time strings.
package walltime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse converts a wall-time string into a duration. The accepted forms are
// "HH:MM:SS", "MM:SS" and "D-HH:MM:SS". Hours are limited to 0-23; requests
// of a day or more must use the day-prefixed form.
func Parse(s string) (time.Duration, error) {
	days := 0
	rest := s

	if i := strings.IndexByte(rest, '-'); i >= 0 {
		d, err := parseField(rest[:i], 0, -1)
		if err != nil {
			return 0, fmt.Errorf("could not parse wall time %q: invalid day count", s)
		}
		days = d
		rest = rest[i+1:]
		if strings.Count(rest, ":") != 2 {
			return 0, fmt.Errorf("could not parse wall time %q: day-prefixed form must be D-HH:MM:SS", s)
		}
	}

	parts := strings.Split(rest, ":")
	var hours, minutes, seconds int
	var err error
	switch len(parts) {
	case 3:
		hours, err = parseField(parts[0], 0, 23)
		if err == nil {
			minutes, err = parseField(parts[1], 0, 59)
		}
		if err == nil {
			seconds, err = parseField(parts[2], 0, 59)
		}
	case 2:
		minutes, err = parseField(parts[0], 0, 59)
		if err == nil {
			seconds, err = parseField(parts[1], 0, 59)
		}
	default:
		err = fmt.Errorf("unknown format")
	}
	if err != nil {
		return 0, fmt.Errorf("could not parse wall time %q", s)
	}

	return time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second, nil
}

// Format renders a duration in the canonical "H:MM:SS" display form. Days are
// folded into the hour count; hours carry no leading zero.
func Format(d time.Duration) string {
	total := int(d / time.Second)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total/60%60, total%60)
}

// parseField parses one numeric component and enforces its range. A max of -1
// means unbounded above.
func parseField(s string, min, max int) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty field")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-numeric field %q", s)
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < min || (max >= 0 && v > max) {
		return 0, fmt.Errorf("field %q out of range", s)
	}
	return v, nil
}
