package controllers

import (
	"net/http"

	"github.com/sadekstore/storefront/app/services"
	"github.com/sadekstore/storefront/pkg/ctx"
	"github.com/sadekstore/storefront/pkg/response"
)

type SettingsController struct {
	service *services.SettingsService
}

func NewSettingsController(service *services.SettingsService) *SettingsController {
	return &SettingsController{service: service}
}

func (s *SettingsController) Show(c *ctx.Context) {
	settings, err := s.service.Get(c.Context())
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *SettingsController) Update(c *ctx.Context) {
	var patch services.SettingsPatch
	if !c.BindJSON(&patch) {
		return
	}

	settings, err := s.service.Update(c.Context(), patch)
	if err != nil {
		fail(c, err, "")
		return
	}

	c.Success(response.Fields{
		"message":  "Settings updated successfully",
		"settings": settings,
	})
}
