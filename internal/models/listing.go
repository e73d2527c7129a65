package models

import "time"

// ListingType discriminates the two listing variants.
type ListingType string

const (
	TypeCar  ListingType = "car"
	TypePart ListingType = "part"
)

// ListingStatus is the moderation/lifecycle state of a listing.
type ListingStatus string

const (
	StatusPending  ListingStatus = "pending"
	StatusActive   ListingStatus = "active"
	StatusSold     ListingStatus = "sold"
	StatusRejected ListingStatus = "rejected"
)

// statusTransitions is the allowed status state machine:
// pending -> active (approve), pending -> rejected (reject),
// active <-> sold (mark sold / relist).
var statusTransitions = map[ListingStatus][]ListingStatus{
	StatusPending: {StatusActive, StatusRejected},
	StatusActive:  {StatusSold},
	StatusSold:    {StatusActive},
}

// CanTransition reports whether a listing status may move from one state to another.
func CanTransition(from, to ListingStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CarSpecs holds the car-variant attributes of a listing.
type CarSpecs struct {
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Year         int      `json:"year"`
	Mileage      int      `json:"mileage"`
	Transmission string   `json:"transmission"`
	FuelType     string   `json:"fuelType"`
	BodyType     string   `json:"bodyType"`
	Color        string   `json:"color"`
	EngineSize   string   `json:"engineSize,omitempty"`
	VIN          string   `json:"vin,omitempty"`
	Features     []string `json:"features"`
}

// PartSpecs holds the part-variant attributes of a listing.
type PartSpecs struct {
	Category      string   `json:"category"`
	PartNumber    string   `json:"partNumber,omitempty"`
	Compatibility []string `json:"compatibility"`
	Brand         string   `json:"brand"`
	Warranty      string   `json:"warranty,omitempty"`
}

// Listing is a sellable item, either a car or a part. Type discriminates which
// of Car/Part is populated; SellerID always equals Seller.ID.
type Listing struct {
	ID          string        `json:"id"`
	Type        ListingType   `json:"type"`
	Title       string        `json:"title"`
	Price       float64       `json:"price"`
	Images      []string      `json:"images"`
	Description string        `json:"description"`
	SellerID    string        `json:"sellerId"`
	Seller      User          `json:"seller"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Views       int           `json:"views"`
	Favorites   int           `json:"favorites"`
	Status      ListingStatus `json:"status"`
	Featured    bool          `json:"featured"`
	Location    string        `json:"location"`
	Condition   string        `json:"condition"`
	Car         *CarSpecs     `json:"car,omitempty"`
	Part        *PartSpecs    `json:"part,omitempty"`
}

// ListingInput carries the caller-supplied fields for creating a listing.
// ID, timestamps, counters, status bookkeeping and the seller snapshot are
// stamped by the store.
type ListingInput struct {
	Type        ListingType   `json:"type"`
	Title       string        `json:"title"`
	Price       float64       `json:"price"`
	Images      []string      `json:"images"`
	Description string        `json:"description"`
	Status      ListingStatus `json:"status"`
	Featured    bool          `json:"featured"`
	Location    string        `json:"location"`
	Condition   string        `json:"condition"`
	Car         *CarSpecs     `json:"car,omitempty"`
	Part        *PartSpecs    `json:"part,omitempty"`
}

// ListingUpdate is a partial update. Nil fields are left untouched. Status is
// deliberately absent: status moves only through the guarded transition
// operations. A Car/Part block replaces the variant specs wholesale and must
// match the listing's existing variant.
type ListingUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	Images      *[]string  `json:"images,omitempty"`
	Description *string    `json:"description,omitempty"`
	Featured    *bool      `json:"featured,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Condition   *string    `json:"condition,omitempty"`
	Car         *CarSpecs  `json:"car,omitempty"`
	Part        *PartSpecs `json:"part,omitempty"`
}
