package model

import (
	"math"
	"time"

	"stay/shared/failure"
)

const nightHours = 24

// StayRange is a half-open availability window [CheckIn, CheckOut).
// The check-out day is exclusive: a guest departing on day D does not
// occupy the night of D.
type StayRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewStayRange validates and builds a stay window. A zero-length or
// inverted range is invalid input, never "always available".
func NewStayRange(checkIn, checkOut time.Time) (StayRange, error) {
	if !checkIn.Before(checkOut) {
		return StayRange{}, failure.BadRequestFromString("check-out date must be after check-in date") //nolint:wrapcheck
	}

	return StayRange{CheckIn: checkIn, CheckOut: checkOut}, nil
}

// Overlaps reports whether two half-open ranges share at least one night:
// [a,b) and [c,d) overlap iff a < d && c < b. A booking ending exactly at
// another's check-in does not overlap.
func (r StayRange) Overlaps(other StayRange) bool {
	return r.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(r.CheckOut)
}

// Covers reports whether the given day falls inside the window.
func (r StayRange) Covers(day time.Time) bool {
	return !day.Before(r.CheckIn) && day.Before(r.CheckOut)
}

// Nights is the charged night count: the millisecond difference divided
// by one day, rounded up, so any partial day counts as a full night.
func (r StayRange) Nights() int {
	return int(math.Ceil(r.CheckOut.Sub(r.CheckIn).Hours() / nightHours))
}

// TotalAmount derives the booking charge from the nightly rate. Computed
// once at creation; later transitions never recompute or refund.
func (r StayRange) TotalAmount(pricePerNight float64) float64 {
	return float64(r.Nights()) * pricePerNight
}

type DayOccupancy struct {
	Date   time.Time `json:"date"`
	Guests int       `json:"guests"`
}

type Availability struct {
	Available    bool           `json:"available"`
	PerDay       []DayOccupancy `json:"per_day"`
	ConflictDate time.Time      `json:"conflict_date,omitzero"`
}

// CheckAvailability walks every calendar day in the stay window, sums the
// guest counts of active bookings covering that day and rejects the stay
// when any day would exceed the room capacity. Only bookings with status
// CONFIRMED or CHECKED_IN are expected in active; callers filter.
func CheckAvailability(capacity, requestedGuests int, stay StayRange, active []Booking) (Availability, error) {
	if requestedGuests <= 0 {
		return Availability{}, failure.BadRequestFromString("number of guests must be a positive integer") //nolint:wrapcheck
	}

	if !stay.CheckIn.Before(stay.CheckOut) {
		return Availability{}, failure.BadRequestFromString("check-out date must be after check-in date") //nolint:wrapcheck
	}

	result := Availability{Available: true}

	for day := stay.CheckIn; day.Before(stay.CheckOut); day = day.AddDate(0, 0, 1) {
		occupied := OccupancyOn(day, active)
		result.PerDay = append(result.PerDay, DayOccupancy{Date: day, Guests: occupied})

		if occupied+requestedGuests > capacity {
			result.Available = false
			result.ConflictDate = day

			return result, nil
		}
	}

	return result, nil
}

// OccupancyOn sums the guest counts of bookings whose stay covers the day.
func OccupancyOn(day time.Time, bookings []Booking) int {
	total := 0

	for i := range bookings {
		if bookings[i].Stay().Covers(day) {
			total += bookings[i].NumberOfGuests
		}
	}

	return total
}

// PeakOccupancy is the highest per-day occupancy over the window, used to
// annotate room search results with their remaining capacity.
func PeakOccupancy(stay StayRange, bookings []Booking) int {
	peak := 0

	for day := stay.CheckIn; day.Before(stay.CheckOut); day = day.AddDate(0, 0, 1) {
		if occupied := OccupancyOn(day, bookings); occupied > peak {
			peak = occupied
		}
	}

	return peak
}
