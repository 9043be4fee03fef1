package models

// Contact holds the store's contact details.
type Contact struct {
	Phone        string `json:"phone"`
	WhatsApp     string `json:"whatsapp"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	WorkingHours string `json:"workingHours"`
	WorkingDays  string `json:"workingDays"`
}

// Settings is the store-wide configuration singleton.
type Settings struct {
	StoreName       string            `json:"storeName"`
	HeroTitle       string            `json:"heroTitle"`
	HeroDescription string            `json:"heroDescription"`
	Currency        string            `json:"currency"`
	Language        string            `json:"language"`
	StoreStatus     bool              `json:"storeStatus"`
	Contact         Contact           `json:"contact"`
	Social          map[string]string `json:"social"`
	Logo            string            `json:"logo"`
	StoreURL        string            `json:"storeUrl"`
}

// Clone returns a copy that shares no map with s.
func (s Settings) Clone() Settings {
	out := s
	out.Social = make(map[string]string, len(s.Social))
	for k, v := range s.Social {
		out.Social[k] = v
	}
	return out
}
