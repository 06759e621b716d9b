package dto

import (
	"mime/multipart"

	"github.com/google/uuid"

	"stay/internal/domains/room/model"
	"stay/shared"
	gDto "stay/shared/dto"
	gModel "stay/shared/model"
	"stay/shared/timezone"
)

type CreateRoomRequest struct {
	Number        string   `json:"number"          validate:"required,max=20"`
	Category      string   `json:"category"        validate:"required,oneof=STANDARD DELUXE SUITE PRESIDENTIAL"`
	Capacity      int      `json:"capacity"        validate:"required,min=1"`
	PricePerNight float64  `json:"price_per_night" validate:"required,gt=0"`
	Amenities     []string `json:"amenities"       validate:"omitempty,dive,max=50"`
	Description   string   `json:"description"     validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	return model.Room{
		ID:            uuid.NewString(),
		Number:        c.Number,
		Category:      model.Category(c.Category),
		Capacity:      c.Capacity,
		PricePerNight: c.PricePerNight,
		Status:        model.StatusAvailable,
		Amenities:     c.Amenities,
		Description:   c.Description,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Status        string   `db:"status"          json:"status"          validate:"omitempty,oneof=AVAILABLE MAINTENANCE"`
	PricePerNight *float64 `db:"price_per_night" json:"price_per_night" validate:"omitempty,gt=0"`
	Description   string   `db:"description"     json:"description"     validate:"omitempty"`
}

type UploadRoomPhotoRequest struct {
	Photo     *multipart.FileHeader `json:"photo" validate:"required,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	PhotoFile multipart.File        `json:"-"`
}

type RoomResponse struct {
	ID            string   `json:"id"`
	Number        string   `json:"number"`
	Category      string   `json:"category"`
	Capacity      int      `json:"capacity"`
	PricePerNight float64  `json:"price_per_night"`
	Status        string   `json:"status"`
	Amenities     []string `json:"amenities"`
	Description   string   `json:"description"`
	Image         string   `json:"image,omitempty"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Number = model.Number
	r.Category = string(model.Category)
	r.Capacity = model.Capacity
	r.PricePerNight = model.PricePerNight
	r.Status = string(model.Status)
	r.Amenities = model.Amenities
	r.Description = model.Description
	r.Image = model.Image
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

// AvailableRoomResponse annotates a room with the capacity left over the
// requested window: capacity minus the peak occupancy of active bookings.
type AvailableRoomResponse struct {
	RoomResponse
	AvailableCapacity int `json:"available_capacity"`
}

type GetAvailableRoomsResponse struct {
	Rooms []AvailableRoomResponse `json:"rooms"`
}
