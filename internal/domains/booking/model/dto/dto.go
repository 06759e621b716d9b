package dto

import (
	"time"

	"github.com/google/uuid"

	"stay/internal/domains/booking/model"
	roomDto "stay/internal/domains/room/model/dto"
	"stay/shared"
	"stay/shared/constant"
	gDto "stay/shared/dto"
	"stay/shared/failure"
	gModel "stay/shared/model"
	"stay/shared/timezone"
)

type CreateBookingRequest struct {
	RoomID          string `json:"room_id"          validate:"required,uuid"`
	GuestName       string `json:"guest_name"       validate:"required,max=100"`
	IdentityCard    string `json:"identity_card"    validate:"required,max=50"`
	IdentityType    string `json:"identity_type"    validate:"required,oneof=PASSPORT NATIONAL_ID DRIVER_LICENSE AADHAR_CARD"`
	NumberOfGuests  int    `json:"number_of_guests" validate:"required,gt=0"`
	CheckInDate     string `json:"check_in_date"    validate:"required"`
	CheckOutDate    string `json:"check_out_date"   validate:"required"`
	ContactNumber   string `json:"contact_number"   validate:"required,max=20"`
	ContactEmail    string `json:"contact_email"    validate:"required,email,max=100"`
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=500"`
}

// Stay parses the requested dates into a validated half-open window.
func (c *CreateBookingRequest) Stay() (model.StayRange, error) {
	checkIn, err := timezone.Parse(constant.DateOnlyFormat, c.CheckInDate)
	if err != nil {
		return model.StayRange{}, failure.BadRequestFromString("check_in_date must be formatted as YYYY-MM-DD") //nolint:wrapcheck
	}

	checkOut, err := timezone.Parse(constant.DateOnlyFormat, c.CheckOutDate)
	if err != nil {
		return model.StayRange{}, failure.BadRequestFromString("check_out_date must be formatted as YYYY-MM-DD") //nolint:wrapcheck
	}

	return model.NewStayRange(checkIn, checkOut) //nolint:wrapcheck
}

// ToModel builds a CONFIRMED booking priced at nights times the nightly
// rate.
func (c *CreateBookingRequest) ToModel(user string, stay model.StayRange, pricePerNight float64) model.Booking {
	return model.Booking{
		ID:              uuid.NewString(),
		RoomID:          c.RoomID,
		GuestName:       c.GuestName,
		IdentityCard:    c.IdentityCard,
		IdentityType:    model.IdentityType(c.IdentityType),
		NumberOfGuests:  c.NumberOfGuests,
		CheckInDate:     stay.CheckIn,
		CheckOutDate:    stay.CheckOut,
		TotalAmount:     stay.TotalAmount(pricePerNight),
		Status:          model.StatusConfirmed,
		ContactNumber:   c.ContactNumber,
		ContactEmail:    c.ContactEmail,
		SpecialRequests: c.SpecialRequests,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type BookingResponse struct {
	ID              string  `json:"id"`
	RoomID          string  `json:"room_id"`
	GuestName       string  `json:"guest_name"`
	IdentityCard    string  `json:"identity_card"`
	IdentityType    string  `json:"identity_type"`
	NumberOfGuests  int     `json:"number_of_guests"`
	CheckInDate     string  `json:"check_in_date"`
	CheckOutDate    string  `json:"check_out_date"`
	ActualCheckIn   *string `json:"actual_check_in,omitempty"`
	ActualCheckOut  *string `json:"actual_check_out,omitempty"`
	StayDuration    int     `json:"stay_duration"`
	TotalAmount     float64 `json:"total_amount"`
	Status          string  `json:"status"`
	ContactNumber   string  `json:"contact_number"`
	ContactEmail    string  `json:"contact_email"`
	SpecialRequests string  `json:"special_requests,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.GuestName = model.GuestName
	r.IdentityCard = model.IdentityCard
	r.IdentityType = string(model.IdentityType)
	r.NumberOfGuests = model.NumberOfGuests
	r.CheckInDate = timezone.Format(model.CheckInDate, constant.DateOnlyFormat)
	r.CheckOutDate = timezone.Format(model.CheckOutDate, constant.DateOnlyFormat)
	r.StayDuration = model.Stay().Nights()
	r.TotalAmount = model.TotalAmount
	r.Status = string(model.Status)
	r.ContactNumber = model.ContactNumber
	r.ContactEmail = model.ContactEmail
	r.SpecialRequests = model.SpecialRequests
	r.Metadata.FromModel(model.Metadata)

	if model.ActualCheckIn != nil {
		formatted := timezone.Format(*model.ActualCheckIn, constant.DateFormat)
		r.ActualCheckIn = &formatted
	}

	if model.ActualCheckOut != nil {
		formatted := timezone.Format(*model.ActualCheckOut, constant.DateFormat)
		r.ActualCheckOut = &formatted
	}
}

type CreateBookingResponse struct {
	Booking BookingResponse               `json:"booking"`
	Room    roomDto.AvailableRoomResponse `json:"room"`
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// EventType tags booking lifecycle events published to Kafka.
type EventType string

const (
	EventCreated    EventType = "booking.created"
	EventCancelled  EventType = "booking.cancelled"
	EventCheckedIn  EventType = "booking.checked_in"
	EventCheckedOut EventType = "booking.checked_out"
)

type BookingEvent struct {
	Type         EventType `json:"type"`
	BookingID    string    `json:"booking_id"`
	RoomID       string    `json:"room_id"`
	GuestName    string    `json:"guest_name"`
	ContactEmail string    `json:"contact_email"`
	CheckInDate  time.Time `json:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date"`
	TotalAmount  float64   `json:"total_amount"`
}

func NewBookingEvent(eventType EventType, booking model.Booking) BookingEvent {
	return BookingEvent{
		Type:         eventType,
		BookingID:    booking.ID,
		RoomID:       booking.RoomID,
		GuestName:    booking.GuestName,
		ContactEmail: booking.ContactEmail,
		CheckInDate:  booking.CheckInDate,
		CheckOutDate: booking.CheckOutDate,
		TotalAmount:  booking.TotalAmount,
	}
}
