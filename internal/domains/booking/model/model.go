package model

import (
	"slices"
	"time"

	"stay/shared/failure"
	"stay/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldRoomID          = "room_id"
	FieldGuestName       = "guest_name"
	FieldIdentityCard    = "identity_card"
	FieldIdentityType    = "identity_type"
	FieldNumberOfGuests  = "number_of_guests"
	FieldCheckInDate     = "check_in_date"
	FieldCheckOutDate    = "check_out_date"
	FieldActualCheckIn   = "actual_check_in"
	FieldActualCheckOut  = "actual_check_out"
	FieldTotalAmount     = "total_amount"
	FieldStatus          = "status"
	FieldContactNumber   = "contact_number"
	FieldContactEmail    = "contact_email"
	FieldSpecialRequests = "special_requests"
	FieldCreatedBy       = "created_by"
)

// Status is the closed set of booking lifecycle states.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
	StatusCancelled  Status = "CANCELLED"
)

// transitions is the single source of truth for the booking lifecycle,
// keyed by target state. CANCELLED and CHECKED_OUT are terminal.
var transitions = map[Status][]Status{
	StatusCheckedIn:  {StatusConfirmed},
	StatusCheckedOut: {StatusCheckedIn},
	StatusCancelled:  {StatusPending, StatusConfirmed},
}

// AllowedFrom returns the set of states a booking must currently be in
// for a transition into to to be legal.
func AllowedFrom(to Status) []Status {
	return transitions[to]
}

// CanTransitionTo reports whether moving from s into to is legal.
func (s Status) CanTransitionTo(to Status) bool {
	return slices.Contains(transitions[to], s)
}

// Active reports whether the booking counts against room capacity.
func (s Status) Active() bool {
	return s == StatusConfirmed || s == StatusCheckedIn
}

func (s Status) String() string {
	return string(s)
}

// IdentityType is the closed set of accepted guest identity documents.
type IdentityType string

const (
	IdentityPassport      IdentityType = "PASSPORT"
	IdentityNationalID    IdentityType = "NATIONAL_ID"
	IdentityDriverLicense IdentityType = "DRIVER_LICENSE"
	IdentityAadharCard    IdentityType = "AADHAR_CARD"
)

type Booking struct {
	ID              string       `db:"id"`
	RoomID          string       `db:"room_id"`
	GuestName       string       `db:"guest_name"`
	IdentityCard    string       `db:"identity_card"`
	IdentityType    IdentityType `db:"identity_type"`
	NumberOfGuests  int          `db:"number_of_guests"`
	CheckInDate     time.Time    `db:"check_in_date"`
	CheckOutDate    time.Time    `db:"check_out_date"`
	ActualCheckIn   *time.Time   `db:"actual_check_in"`
	ActualCheckOut  *time.Time   `db:"actual_check_out"`
	TotalAmount     float64      `db:"total_amount"`
	Status          Status       `db:"status"`
	ContactNumber   string       `db:"contact_number"`
	ContactEmail    string       `db:"contact_email"`
	SpecialRequests string       `db:"special_requests"`
	model.Metadata
}

// Stay returns the requested stay window of the booking.
func (b *Booking) Stay() StayRange {
	return StayRange{CheckIn: b.CheckInDate, CheckOut: b.CheckOutDate}
}

// Transition validates a status change against the lifecycle table. The
// stored state is never touched here; callers apply the change with a
// guarded update so an illegal transition leaves the row unchanged.
func Transition(from, to Status) error {
	if !from.CanTransitionTo(to) {
		return failure.BadRequestFromString("cannot move booking with status " + from.String() + " to " + to.String()) //nolint:wrapcheck
	}

	return nil
}
