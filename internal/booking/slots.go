// Package booking holds the fixed daily schedule.  The studio offers fifteen
// half-hour markers: a morning block from 9:00 to 12:30 and an afternoon
// block from 14:30 to 17:30, with a lunch gap in between.  Times are plain
// strings exactly as the booking form submits them; "9:00" and "09:00" are
// distinct and only the former is offered.
package booking

// validSlots lists every bookable time marker in schedule order.
var validSlots = []string{
	"9:00", "9:30", "10:00", "10:30", "11:00", "11:30", "12:00", "12:30",
	"14:30", "15:00", "15:30", "16:00", "16:30", "17:00", "17:30",
}

// slotSet provides O(1) membership checks for IsValidSlot.
var slotSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(validSlots))
	for _, s := range validSlots {
		m[s] = struct{}{}
	}
	return m
}()

// IsValidSlot reports whether t is one of the offered time markers.
func IsValidSlot(t string) bool {
	_, ok := slotSet[t]
	return ok
}

// Slots returns the offered time markers in schedule order.  The returned
// slice is a copy; callers may not mutate the schedule.
func Slots() []string {
	out := make([]string, len(validSlots))
	copy(out, validSlots)
	return out
}
