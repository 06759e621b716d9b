package model

import (
	"github.com/lib/pq"

	"stay/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID            = "id"
	FieldNumber        = "number"
	FieldCategory      = "category"
	FieldCapacity      = "capacity"
	FieldPricePerNight = "price_per_night"
	FieldStatus        = "status"
	FieldAmenities     = "amenities"
	FieldDescription   = "description"
	FieldImage         = "image"
)

// Category is the closed set of room classes.
type Category string

const (
	CategoryStandard     Category = "STANDARD"
	CategoryDeluxe       Category = "DELUXE"
	CategorySuite        Category = "SUITE"
	CategoryPresidential Category = "PRESIDENTIAL"
)

// Status flags a room in or out of the bookable inventory. Occupancy is
// never stored here; it is always computed from active bookings.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusMaintenance Status = "MAINTENANCE"
)

type Room struct {
	ID            string         `db:"id"`
	Number        string         `db:"number"`
	Category      Category       `db:"category"`
	Capacity      int            `db:"capacity"`
	PricePerNight float64        `db:"price_per_night"`
	Status        Status         `db:"status"`
	Amenities     pq.StringArray `db:"amenities"`
	Description   string         `db:"description"`
	Image         string         `db:"image"`
	model.Metadata
}
