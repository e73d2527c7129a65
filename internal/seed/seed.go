// Package seed supplies the static dataset the marketplace store is
// constructed from before any persisted state is loaded. Every function
// returns a fresh copy so a store can mutate its collections freely.
package seed

import (
	"time"

	"github.com/Mboiraai/rork-automarketconnect/internal/models"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// Users returns the seed users. The last entry is the demo user the store
// adopts as its current user; it carries admin privileges so the moderation
// screen is reachable out of the box.
func Users() []models.User {
	return []models.User{
		{
			ID:          "user-1",
			Name:        "Chidi Okafor",
			Email:       "chidi.okafor@example.com",
			Phone:       "+234 803 555 0101",
			Location:    "Lagos",
			JoinedDate:  date(2021, 3, 14),
			Rating:      4.8,
			ReviewCount: 127,
			IsVerified:  true,
		},
		{
			ID:          "user-2",
			Name:        "Amina Bello",
			Email:       "amina.bello@example.com",
			Phone:       "+234 805 555 0102",
			Location:    "Abuja",
			JoinedDate:  date(2022, 7, 2),
			Rating:      4.5,
			ReviewCount: 64,
			IsVerified:  true,
		},
		{
			ID:          "user-3",
			Name:        "Emeka Nwosu",
			Email:       "emeka.nwosu@example.com",
			Phone:       "+234 807 555 0103",
			Location:    "Port Harcourt",
			JoinedDate:  date(2023, 1, 20),
			Rating:      4.1,
			ReviewCount: 18,
			IsVerified:  false,
		},
		{
			ID:          "user-4",
			Name:        "Tunde Adeyemi",
			Email:       "tunde.adeyemi@example.com",
			Phone:       "+234 809 555 0104",
			Location:    "Lagos",
			JoinedDate:  date(2020, 11, 5),
			Rating:      4.9,
			ReviewCount: 203,
			IsVerified:  true,
			IsAdmin:     true,
		},
	}
}

// CurrentUser returns the demo user the store is seeded with.
func CurrentUser() models.User {
	users := Users()
	return users[len(users)-1]
}

// CarListings returns the seed car listings.
func CarListings() []models.Listing {
	users := Users()
	return []models.Listing{
		{
			ID:          "car-1",
			Type:        models.TypeCar,
			Title:       "2018 Toyota Camry XLE",
			Price:       5000000,
			Images:      []string{"https://images.example.com/listings/car-1-front.jpg"},
			Description: "Clean foreign-used Camry, accident free, buy and drive.",
			SellerID:    users[0].ID,
			Seller:      users[0],
			CreatedAt:   date(2024, 5, 10),
			UpdatedAt:   date(2024, 5, 10),
			Views:       342,
			Favorites:   28,
			Status:      models.StatusActive,
			Featured:    true,
			Location:    "Lagos",
			Condition:   "foreign-used",
			Car: &models.CarSpecs{
				Make:         "Toyota",
				Model:        "Camry",
				Year:         2018,
				Mileage:      64000,
				Transmission: "automatic",
				FuelType:     "petrol",
				BodyType:     "sedan",
				Color:        "silver",
				EngineSize:   "2.5L",
				Features:     []string{"leather seats", "reverse camera", "keyless entry"},
			},
		},
		{
			ID:          "car-2",
			Type:        models.TypeCar,
			Title:       "2020 Honda CR-V EX",
			Price:       14500000,
			Images:      []string{"https://images.example.com/listings/car-2-front.jpg"},
			Description: "Low mileage CR-V, full option, first body.",
			SellerID:    users[1].ID,
			Seller:      users[1],
			CreatedAt:   date(2024, 6, 1),
			UpdatedAt:   date(2024, 6, 3),
			Views:       178,
			Favorites:   12,
			Status:      models.StatusActive,
			Featured:    false,
			Location:    "Abuja",
			Condition:   "foreign-used",
			Car: &models.CarSpecs{
				Make:         "Honda",
				Model:        "CR-V",
				Year:         2020,
				Mileage:      31000,
				Transmission: "automatic",
				FuelType:     "petrol",
				BodyType:     "suv",
				Color:        "black",
				Features:     []string{"sunroof", "lane assist"},
			},
		},
		{
			ID:          "car-3",
			Type:        models.TypeCar,
			Title:       "2015 Mercedes-Benz C300",
			Price:       9800000,
			Images:      []string{"https://images.example.com/listings/car-3-front.jpg"},
			Description: "Well maintained C300, AMG kit, new tyres.",
			SellerID:    users[2].ID,
			Seller:      users[2],
			CreatedAt:   date(2024, 4, 22),
			UpdatedAt:   date(2024, 4, 22),
			Views:       510,
			Favorites:   45,
			Status:      models.StatusPending,
			Featured:    false,
			Location:    "Port Harcourt",
			Condition:   "local-used",
			Car: &models.CarSpecs{
				Make:         "Mercedes-Benz",
				Model:        "C300",
				Year:         2015,
				Mileage:      88000,
				Transmission: "automatic",
				FuelType:     "petrol",
				BodyType:     "sedan",
				Color:        "white",
				EngineSize:   "3.0L",
				Features:     []string{"AMG kit", "panoramic roof"},
			},
		},
	}
}

// PartListings returns the seed part listings.
func PartListings() []models.Listing {
	users := Users()
	return []models.Listing{
		{
			ID:          "part-1",
			Type:        models.TypePart,
			Title:       "Toyota Corolla Brake Pads (Front Set)",
			Price:       15000,
			Images:      []string{"https://images.example.com/listings/part-1.jpg"},
			Description: "Original Toyota brake pads, fits 2014-2019 Corolla.",
			SellerID:    users[1].ID,
			Seller:      users[1],
			CreatedAt:   date(2024, 6, 8),
			UpdatedAt:   date(2024, 6, 8),
			Views:       89,
			Favorites:   7,
			Status:      models.StatusActive,
			Featured:    false,
			Location:    "Abuja",
			Condition:   "new",
			Part: &models.PartSpecs{
				Category:      "brakes",
				PartNumber:    "04465-02220",
				Compatibility: []string{"Toyota Corolla 2014-2019"},
				Brand:         "Toyota",
				Warranty:      "6 months",
			},
		},
		{
			ID:          "part-2",
			Type:        models.TypePart,
			Title:       "Honda Accord Alternator",
			Price:       65000,
			Images:      []string{"https://images.example.com/listings/part-2.jpg"},
			Description: "Refurbished alternator, tested and working.",
			SellerID:    users[2].ID,
			Seller:      users[2],
			CreatedAt:   date(2024, 5, 30),
			UpdatedAt:   date(2024, 5, 30),
			Views:       41,
			Favorites:   3,
			Status:      models.StatusActive,
			Featured:    false,
			Location:    "Port Harcourt",
			Condition:   "refurbished",
			Part: &models.PartSpecs{
				Category:      "electrical",
				Compatibility: []string{"Honda Accord 2013-2017", "Honda CR-V 2012-2016"},
				Brand:         "Denso",
			},
		},
	}
}

// Messages returns the seed message log.
func Messages() []models.Message {
	users := Users()
	current := CurrentUser()
	return []models.Message{
		{
			ID:             "msg-1",
			ConversationID: "conv-1",
			SenderID:       current.ID,
			ReceiverID:     users[0].ID,
			Text:           "Hi, is the Camry still available?",
			Timestamp:      date(2024, 6, 10).Add(9 * time.Hour),
			Read:           true,
			ListingID:      "car-1",
		},
		{
			ID:             "msg-2",
			ConversationID: "conv-1",
			SenderID:       users[0].ID,
			ReceiverID:     current.ID,
			Text:           "Yes, it is. When would you like to inspect it?",
			Timestamp:      date(2024, 6, 10).Add(10 * time.Hour),
			Read:           false,
			ListingID:      "car-1",
		},
		{
			ID:             "msg-3",
			ConversationID: "conv-2",
			SenderID:       current.ID,
			ReceiverID:     users[1].ID,
			Text:           "Do the brake pads come with bolts?",
			Timestamp:      date(2024, 6, 11).Add(14 * time.Hour),
			Read:           true,
			ListingID:      "part-1",
		},
	}
}

// Conversations returns the seed conversations. LastMessage is a denormalized
// copy of the newest message in each thread.
func Conversations() []models.Conversation {
	users := Users()
	current := CurrentUser()
	msgs := Messages()
	cars := CarListings()
	parts := PartListings()
	return []models.Conversation{
		{
			ID:           "conv-1",
			Participants: []models.User{current, users[0]},
			LastMessage:  msgs[1],
			UnreadCount:  1,
			Listing:      &cars[0],
		},
		{
			ID:           "conv-2",
			Participants: []models.User{current, users[1]},
			LastMessage:  msgs[2],
			UnreadCount:  0,
			Listing:      &parts[0],
		},
	}
}
