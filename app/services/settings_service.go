package services

import (
	"context"

	"github.com/sadekstore/storefront/app/models"
	"github.com/sadekstore/storefront/app/repositories"
	"github.com/sadekstore/storefront/pkg/cache"
)

// ContactPatch carries the contact fields a caller supplied.
type ContactPatch struct {
	Phone        *string `json:"phone"`
	WhatsApp     *string `json:"whatsapp"`
	Email        *string `json:"email"`
	Address      *string `json:"address"`
	WorkingHours *string `json:"workingHours"`
	WorkingDays  *string `json:"workingDays"`
}

// SettingsPatch is a partial settings update. Scalars override when present,
// contact merges field by field and social merges key by key; an empty
// social value removes that network.
type SettingsPatch struct {
	StoreName       *string           `json:"storeName"`
	HeroTitle       *string           `json:"heroTitle"`
	HeroDescription *string           `json:"heroDescription"`
	Currency        *string           `json:"currency"`
	Language        *string           `json:"language"`
	StoreStatus     *bool             `json:"storeStatus"`
	Contact         *ContactPatch     `json:"contact"`
	Social          map[string]string `json:"social"`
	Logo            *string           `json:"logo"`
	StoreURL        *string           `json:"storeUrl"`
}

// Apply merges p into s.
func (p SettingsPatch) Apply(s *models.Settings) {
	set(&s.StoreName, p.StoreName)
	set(&s.HeroTitle, p.HeroTitle)
	set(&s.HeroDescription, p.HeroDescription)
	set(&s.Currency, p.Currency)
	set(&s.Language, p.Language)
	set(&s.StoreStatus, p.StoreStatus)
	set(&s.Logo, p.Logo)
	set(&s.StoreURL, p.StoreURL)

	if c := p.Contact; c != nil {
		set(&s.Contact.Phone, c.Phone)
		set(&s.Contact.WhatsApp, c.WhatsApp)
		set(&s.Contact.Email, c.Email)
		set(&s.Contact.Address, c.Address)
		set(&s.Contact.WorkingHours, c.WorkingHours)
		set(&s.Contact.WorkingDays, c.WorkingDays)
	}

	if len(p.Social) > 0 {
		if s.Social == nil {
			s.Social = map[string]string{}
		}
		for network, url := range p.Social {
			if url == "" {
				delete(s.Social, network)
				continue
			}
			s.Social[network] = url
		}
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

type SettingsService struct {
	repo  *repositories.StoreRepository
	cache *cache.Cache
}

func NewSettingsService(repo *repositories.StoreRepository, c *cache.Cache) *SettingsService {
	return &SettingsService{repo: repo, cache: c}
}

// Get returns the settings, served from the catalog cache when enabled.
func (s *SettingsService) Get(ctx context.Context) (models.Settings, error) {
	return cache.Remember(ctx, s.cache, cache.KeySettings, func() (models.Settings, error) {
		return s.repo.Settings(ctx)
	})
}

// Update merges patch over the stored settings and returns the result.
func (s *SettingsService) Update(ctx context.Context, patch SettingsPatch) (models.Settings, error) {
	return s.repo.SaveSettings(ctx, func(st *models.Settings) error {
		patch.Apply(st)
		return nil
	})
}
