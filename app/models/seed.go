package models

import (
	"time"

	"github.com/sadekstore/storefront/pkg/auth"
)

// SeedWithPassword returns a seed function whose admin user can log in with
// password. It is used on first run and by reset.
func SeedWithPassword(password string) func() (*Document, error) {
	return func() (*Document, error) {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, err
		}
		now := time.Now().UTC()

		doc := &Document{
			Settings: Settings{
				StoreName:       "Sadek Accounts Store",
				HeroTitle:       "Welcome to Sadek Store",
				HeroDescription: "A trusted middleman for buying and selling Facebook, Instagram and Free Fire accounts.",
				Currency:        DefaultCurrency,
				Language:        "ar",
				StoreStatus:     true,
				Contact: Contact{
					Phone:        "0795367580",
					WhatsApp:     "213795367580",
					Email:        "sadek.store@email.com",
					Address:      "Online broker",
					WorkingHours: "24/7",
					WorkingDays:  "Every day",
				},
				Social: map[string]string{
					"facebook": "https://www.facebook.com/sadekbelkhir2007",
					"telegram": "https://t.me/sadekdzz",
				},
				Logo:     "https://github.com/Yacine2007/sadek-Accounts-Store/blob/main/logo.jpg?raw=true",
				StoreURL: "https://yacine2007.github.io/sadek-Accounts-Store/index.html",
			},
			User: User{
				Name:               "Sadek Blkhiri",
				Role:               "Store broker",
				Avatar:             "https://github.com/Yacine2007/sadek-Accounts-Store/blob/main/logo.jpg?raw=true",
				Password:           hash,
				LastPasswordChange: now,
			},
			Categories: []Category{
				{ID: 1, Name: "Facebook accounts", Description: "Assorted Facebook accounts", CreatedAt: now},
				{ID: 2, Name: "Instagram accounts", Description: "Assorted Instagram accounts", CreatedAt: now},
				{ID: 3, Name: "Free Fire accounts", Description: "Free Fire game accounts", CreatedAt: now},
				{ID: 4, Name: "Other game accounts", Description: "Accounts for other games", CreatedAt: now},
			},
			Products:  []Product{},
			Orders:    []Order{},
			Analytics: Analytics{},
		}
		return doc, nil
	}
}
