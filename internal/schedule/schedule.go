// Package schedule expands a doctor's weekly availability windows into
// concrete one-hour booking slots and partitions them against existing
// bookings. Everything here is pure; persistence and enforcement live
// elsewhere.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Shekhar0165/doctor-appointment-system/internal/model"
)

// Slot is a single bookable one-hour interval, "HH:00" to "HH:59".
type Slot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ExpandSlots returns the bookable slots for date, one per whole hour of
// every window whose day matches the date's weekday. Windows whose bounds
// are not on the hour truncate to whole hours: minutes are discarded.
// Slots within a window are ascending; windows keep declaration order.
func ExpandSlots(windows []model.TimeSlot, date time.Time) []Slot {
	day := date.Weekday().String()

	var slots []Slot
	for _, w := range windows {
		if w.Day != day {
			continue
		}
		start, err := hourOf(w.StartTime)
		if err != nil {
			continue
		}
		end, err := hourOf(w.EndTime)
		if err != nil {
			continue
		}
		for h := start; h < end; h++ {
			slots = append(slots, Slot{
				StartTime: fmt.Sprintf("%02d:00", h),
				EndTime:   fmt.Sprintf("%02d:59", h),
			})
		}
	}
	return slots
}

// Partition splits slots into free and taken. A slot is taken iff a booked
// slot matches both its start and end time exactly; the caller fixes the
// doctor and date. The result is advisory: the write-time admission check
// is the enforcement point.
func Partition(slots, booked []Slot) (free, taken []Slot) {
	used := make(map[Slot]struct{}, len(booked))
	for _, b := range booked {
		used[b] = struct{}{}
	}
	for _, s := range slots {
		if _, ok := used[s]; ok {
			taken = append(taken, s)
		} else {
			free = append(free, s)
		}
	}
	return free, taken
}

// ValidateWindows rejects windows with an unknown day, malformed times, or
// a start hour that is not strictly before the end hour.
func ValidateWindows(windows []model.TimeSlot) error {
	for _, w := range windows {
		if !validDay(w.Day) {
			return fmt.Errorf("invalid day %q", w.Day)
		}
		start, err := hourOf(w.StartTime)
		if err != nil {
			return fmt.Errorf("invalid start time %q", w.StartTime)
		}
		end, err := hourOf(w.EndTime)
		if err != nil {
			return fmt.Errorf("invalid end time %q", w.EndTime)
		}
		if start >= end {
			return fmt.Errorf("window %s %s-%s: start must be before end", w.Day, w.StartTime, w.EndTime)
		}
	}
	return nil
}

// hourOf extracts the hour component of an "HH:MM" string.
func hourOf(t string) (int, error) {
	hh, _, ok := strings.Cut(t, ":")
	if !ok {
		return 0, fmt.Errorf("malformed time %q", t)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("malformed time %q", t)
	}
	return h, nil
}

func validDay(day string) bool {
	switch day {
	case "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday":
		return true
	}
	return false
}
