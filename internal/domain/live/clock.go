package live

import (
	"math"
	"strconv"
	"strings"
)

const (
	regulationPeriods = 2
	halfSeconds       = 1200
	overtimeSeconds   = 300
	regulationSeconds = regulationPeriods * halfSeconds
	overtimeAllowance = 900
)

// ParseClock reads a remaining-time string such as "12:34", "0:07" or the
// sub-minute form "45.3". ok is false for anything else.
func ParseClock(raw string) (seconds float64, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	mins, secs, hasColon := strings.Cut(raw, ":")
	if !hasColon {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	}

	m, err := strconv.Atoi(strings.TrimSpace(mins))
	if err != nil || m < 0 {
		return 0, false
	}
	s, err := strconv.ParseFloat(strings.TrimSpace(secs), 64)
	if err != nil || s < 0 || s >= 60 || math.IsNaN(s) {
		return 0, false
	}
	return float64(m)*60 + s, true
}

// TimeFraction is the share of nominal game time already played, in [0,1].
// Regulation is two 20-minute halves. Once play reaches overtime a fixed
// cushion is added to the total, so the fraction steps back when overtime
// begins and then climbs again. A malformed clock counts as nothing played.
func TimeFraction(period int, clock string) float64 {
	remaining, ok := ParseClock(clock)
	if !ok {
		return 0
	}
	if period < 1 {
		period = 1
	}

	total := float64(regulationSeconds)
	var elapsed float64
	if period <= regulationPeriods {
		remaining = math.Min(remaining, halfSeconds)
		elapsed = float64((period-1)*halfSeconds) + (halfSeconds - remaining)
	} else {
		total += overtimeAllowance
		remaining = math.Min(remaining, overtimeSeconds)
		elapsed = float64(regulationSeconds+(period-regulationPeriods-1)*overtimeSeconds) + (overtimeSeconds - remaining)
	}

	return math.Min(1, math.Max(0, elapsed/total))
}
