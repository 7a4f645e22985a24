package valueobjects

import (
	"fmt"
	"time"
)

// Frequency is the delivery cadence of a subscription.
type Frequency uint8

const (
	FrequencyUnknown Frequency = iota
	FrequencyWeekly
	FrequencyBiweekly
	FrequencyMonthly
)

var frequencyWireV1 = map[Frequency]string{
	FrequencyWeekly:   "weekly",
	FrequencyBiweekly: "biweekly",
	FrequencyMonthly:  "monthly",
}

func ParseFrequency(s string) (Frequency, error) {
	for f, wire := range frequencyWireV1 {
		if wire == s {
			return f, nil
		}
	}
	return FrequencyUnknown, fmt.Errorf("invalid frequency: %q", s)
}

func (f Frequency) String() string {
	if wire, ok := frequencyWireV1[f]; ok {
		return wire
	}
	return "unknown"
}

func (f Frequency) IsValid() bool {
	_, ok := frequencyWireV1[f]
	return ok
}

// NextDeliveryDate returns the delivery date following from. Monthly
// cadence keeps the day of month, clamped to the last day of the target
// month (Jan 31 becomes Feb 28 or 29). The time of day is dropped.
func (f Frequency) NextDeliveryDate(from time.Time) time.Time {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)

	switch f {
	case FrequencyBiweekly:
		return from.AddDate(0, 0, 14)
	case FrequencyMonthly:
		return addMonthClamped(from)
	default:
		return from.AddDate(0, 0, 7)
	}
}

func addMonthClamped(from time.Time) time.Time {
	year, month := from.Year(), from.Month()+1
	if month > time.December {
		year, month = year+1, time.January
	}
	day := from.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// daysIn relies on time.Date normalising day 0 to the last day of the
// previous month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
