package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stay/internal/domains/booking/model"
)

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}

	return d
}

func stay(checkIn, checkOut string) model.StayRange {
	return model.StayRange{CheckIn: day(checkIn), CheckOut: day(checkOut)}
}

func booking(checkIn, checkOut string, guests int, status model.Status) model.Booking {
	return model.Booking{
		CheckInDate:    day(checkIn),
		CheckOutDate:   day(checkOut),
		NumberOfGuests: guests,
		Status:         status,
	}
}

func TestNewStayRange(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		wantErr  bool
	}{
		{name: "valid range", checkIn: "2025-01-10", checkOut: "2025-01-15", wantErr: false},
		{name: "single night", checkIn: "2025-01-10", checkOut: "2025-01-11", wantErr: false},
		{name: "zero-length range", checkIn: "2025-01-10", checkOut: "2025-01-10", wantErr: true},
		{name: "inverted range", checkIn: "2025-01-15", checkOut: "2025-01-10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.NewStayRange(day(tt.checkIn), day(tt.checkOut))

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStayRange_Overlaps(t *testing.T) {
	base := stay("2025-01-10", "2025-01-15")

	tests := []struct {
		name  string
		other model.StayRange
		want  bool
	}{
		{name: "identical window", other: stay("2025-01-10", "2025-01-15"), want: true},
		{name: "partial overlap at tail", other: stay("2025-01-14", "2025-01-20"), want: true},
		{name: "partial overlap at head", other: stay("2025-01-05", "2025-01-11"), want: true},
		{name: "contained window", other: stay("2025-01-11", "2025-01-13"), want: true},
		{name: "check-out on check-in day does not overlap", other: stay("2025-01-15", "2025-01-20"), want: false},
		{name: "check-in on check-out day does not overlap", other: stay("2025-01-05", "2025-01-10"), want: false},
		{name: "disjoint window", other: stay("2025-02-01", "2025-02-05"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestStayRange_Nights(t *testing.T) {
	assert.Equal(t, 5, stay("2025-01-10", "2025-01-15").Nights())
	assert.Equal(t, 1, stay("2025-01-10", "2025-01-11").Nights())

	// A partial day still charges a full night.
	partial := model.StayRange{
		CheckIn:  day("2025-01-10"),
		CheckOut: day("2025-01-11").Add(6 * time.Hour),
	}
	assert.Equal(t, 2, partial.Nights())
}

func TestStayRange_TotalAmount(t *testing.T) {
	assert.InDelta(t, 750.0, stay("2025-01-10", "2025-01-15").TotalAmount(150), 0.001)
	assert.InDelta(t, 99.5, stay("2025-01-10", "2025-01-11").TotalAmount(99.5), 0.001)
}

func TestCheckAvailability(t *testing.T) {
	requested := stay("2025-01-10", "2025-01-15")

	tests := []struct {
		name          string
		capacity      int
		guests        int
		active        []model.Booking
		wantErr       bool
		wantAvailable bool
	}{
		{
			name:          "empty room",
			capacity:      4,
			guests:        2,
			active:        nil,
			wantErr:       false,
			wantAvailable: true,
		},
		{
			name:     "fits alongside existing booking",
			capacity: 4,
			guests:   2,
			active: []model.Booking{
				booking("2025-01-12", "2025-01-14", 2, model.StatusConfirmed),
			},
			wantErr:       false,
			wantAvailable: true,
		},
		{
			name:     "exceeds capacity on an overlapping day",
			capacity: 4,
			guests:   3,
			active: []model.Booking{
				booking("2025-01-12", "2025-01-14", 2, model.StatusConfirmed),
			},
			wantErr:       false,
			wantAvailable: false,
		},
		{
			name:     "adjacent booking frees the check-out day",
			capacity: 2,
			guests:   2,
			active: []model.Booking{
				booking("2025-01-05", "2025-01-10", 2, model.StatusCheckedIn),
			},
			wantErr:       false,
			wantAvailable: true,
		},
		{
			name:          "zero guests rejected",
			capacity:      4,
			guests:        0,
			wantErr:       true,
			wantAvailable: false,
		},
		{
			name:          "negative guests rejected",
			capacity:      4,
			guests:        -1,
			wantErr:       true,
			wantAvailable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := model.CheckAvailability(tt.capacity, tt.guests, requested, tt.active)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantAvailable, result.Available)

			if tt.wantAvailable {
				assert.Len(t, result.PerDay, 5)
			} else {
				assert.False(t, result.ConflictDate.IsZero())
			}
		})
	}
}

func TestCheckAvailability_InvalidRange(t *testing.T) {
	_, err := model.CheckAvailability(4, 2, stay("2025-01-15", "2025-01-10"), nil)
	assert.Error(t, err)

	_, err = model.CheckAvailability(4, 2, stay("2025-01-10", "2025-01-10"), nil)
	assert.Error(t, err)
}

func TestPeakOccupancy(t *testing.T) {
	window := stay("2025-01-10", "2025-01-15")

	active := []model.Booking{
		booking("2025-01-10", "2025-01-12", 2, model.StatusConfirmed),
		booking("2025-01-11", "2025-01-14", 1, model.StatusCheckedIn),
	}

	// Jan 11 carries both bookings.
	assert.Equal(t, 3, model.PeakOccupancy(window, active))
	assert.Equal(t, 0, model.PeakOccupancy(stay("2025-02-01", "2025-02-03"), active))
}

func TestStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    model.Status
		to      model.Status
		allowed bool
	}{
		{name: "confirm to check-in", from: model.StatusConfirmed, to: model.StatusCheckedIn, allowed: true},
		{name: "check-in to check-out", from: model.StatusCheckedIn, to: model.StatusCheckedOut, allowed: true},
		{name: "cancel pending", from: model.StatusPending, to: model.StatusCancelled, allowed: true},
		{name: "cancel confirmed", from: model.StatusConfirmed, to: model.StatusCancelled, allowed: true},
		{name: "cancel after check-in", from: model.StatusCheckedIn, to: model.StatusCancelled, allowed: false},
		{name: "cancel after check-out", from: model.StatusCheckedOut, to: model.StatusCancelled, allowed: false},
		{name: "cancel a cancelled booking", from: model.StatusCancelled, to: model.StatusCancelled, allowed: false},
		{name: "check in a pending booking", from: model.StatusPending, to: model.StatusCheckedIn, allowed: false},
		{name: "check out without check-in", from: model.StatusConfirmed, to: model.StatusCheckedOut, allowed: false},
		{name: "revive a checked-out booking", from: model.StatusCheckedOut, to: model.StatusCheckedIn, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))

			err := model.Transition(tt.from, tt.to)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestStatus_Active(t *testing.T) {
	assert.True(t, model.StatusConfirmed.Active())
	assert.True(t, model.StatusCheckedIn.Active())
	assert.False(t, model.StatusPending.Active())
	assert.False(t, model.StatusCheckedOut.Active())
	assert.False(t, model.StatusCancelled.Active())
}
