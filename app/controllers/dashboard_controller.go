package controllers

import (
	"net/http"

	"github.com/sadekstore/storefront/app/services"
	"github.com/sadekstore/storefront/pkg/ctx"
	"github.com/sadekstore/storefront/pkg/response"
)

type DashboardController struct {
	dashboard *services.DashboardService
}

func NewDashboardController(dashboard *services.DashboardService) *DashboardController {
	return &DashboardController{dashboard: dashboard}
}

// TrackVisitor handles the public POST /api/analytics/visitor beacon.
func (d *DashboardController) TrackVisitor(c *ctx.Context) {
	if err := d.dashboard.TrackVisitor(c.Context()); err != nil {
		fail(c, err, "")
		return
	}
	c.Success(nil)
}

func (d *DashboardController) Analytics(c *ctx.Context) {
	a, err := d.dashboard.Analytics(c.Context())
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, a)
}

func (d *DashboardController) Stats(c *ctx.Context) {
	stats, err := d.dashboard.Stats(c.Context())
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (d *DashboardController) Reset(c *ctx.Context) {
	summary, err := d.dashboard.Reset(c.Context())
	if err != nil {
		fail(c, err, "")
		return
	}
	c.Success(response.Fields{
		"message":      "Store data has been completely reset",
		"resetSummary": summary,
	})
}
