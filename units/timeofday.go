package units

import (
	"fmt"
	"time"
)

// Seconds in the standard subdivisions of a day.
const (
	SecondsInMinute = 60
	SecondsInHour   = 3600
	SecondsInDay    = 86400
	MinutesInHour   = 60
)

// TimeOfDay is an offset into a day from midnight, in whole seconds. The
// value 86400 is permitted to represent a leap second.
type TimeOfDay struct {
	secondOfDay uint32
}

// NewTimeOfDay builds a TimeOfDay from a second-of-day count.
func NewTimeOfDay(secondOfDay uint32) (TimeOfDay, error) {
	if secondOfDay > SecondsInDay {
		return TimeOfDay{}, fmt.Errorf("second of day %d exceeds %d", secondOfDay, SecondsInDay)
	}
	return TimeOfDay{secondOfDay: secondOfDay}, nil
}

// TimeOfDayFromHMS builds a TimeOfDay from hour, minute and second
// components.
func TimeOfDayFromHMS(hour, minute, second uint32) (TimeOfDay, error) {
	if hour > 23 {
		return TimeOfDay{}, fmt.Errorf("hour %d out of range", hour)
	}
	if minute > 59 {
		return TimeOfDay{}, fmt.Errorf("minute %d out of range", minute)
	}
	if second > 60 { // 60 permits a leap second
		return TimeOfDay{}, fmt.Errorf("second %d out of range", second)
	}
	return TimeOfDay{secondOfDay: hour*SecondsInHour + minute*SecondsInMinute + second}, nil
}

// Seconds returns the number of seconds into the day.
func (t TimeOfDay) Seconds() uint32 { return t.secondOfDay }

// Hours returns the number of whole hours into the day.
func (t TimeOfDay) Hours() uint32 { return t.secondOfDay / SecondsInHour }

// Minutes returns the number of whole minutes into the day.
func (t TimeOfDay) Minutes() uint32 { return t.secondOfDay / SecondsInMinute }

// HMS returns the (hours, minutes, seconds) triplet for this time.
func (t TimeOfDay) HMS() (hours, minutes, seconds uint32) {
	hours = t.Hours()
	minutes = t.Minutes() - hours*MinutesInHour
	seconds = t.Seconds() - hours*SecondsInHour - minutes*SecondsInMinute
	return hours, minutes, seconds
}

// AsDuration converts the offset from midnight into a time.Duration.
func (t TimeOfDay) AsDuration() time.Duration {
	return time.Duration(t.secondOfDay) * time.Second
}

// String formats the time as H:MM:SS.
func (t TimeOfDay) String() string {
	h, m, s := t.HMS()
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
