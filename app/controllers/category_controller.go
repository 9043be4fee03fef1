package controllers

import (
	"net/http"

	"github.com/sadekstore/storefront/app/services"
	"github.com/sadekstore/storefront/pkg/ctx"
	"github.com/sadekstore/storefront/pkg/response"
)

const categoryNotFound = "Category not found"

type CategoryController struct {
	catalog *services.CatalogService
}

func NewCategoryController(catalog *services.CatalogService) *CategoryController {
	return &CategoryController{catalog: catalog}
}

type categoryRequest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (cc *CategoryController) Index(c *ctx.Context) {
	list, err := cc.catalog.Categories(c.Context())
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (cc *CategoryController) Store(c *ctx.Context) {
	var body categoryRequest
	if !c.BindJSON(&body) {
		return
	}

	category, err := cc.catalog.AddCategory(c.Context(), body.Name, body.Description)
	if err != nil {
		fail(c, err, "")
		return
	}
	c.Success(response.Fields{"category": category})
}

// Update accepts the id either in the path (PUT /api/categories/{id}) or in
// the body (PUT /api/categories).
func (cc *CategoryController) Update(c *ctx.Context) {
	var body categoryRequest
	if !c.BindJSON(&body) {
		return
	}

	id := body.ID
	if c.Param("id") != "" {
		var ok bool
		if id, ok = c.ParamID("id"); !ok {
			return
		}
	}
	if id == 0 {
		c.Error(http.StatusBadRequest, "Category id is required")
		return
	}

	category, err := cc.catalog.UpdateCategory(c.Context(), id, body.Name, body.Description)
	if err != nil {
		fail(c, err, categoryNotFound)
		return
	}
	c.Success(response.Fields{"category": category})
}

func (cc *CategoryController) Destroy(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}

	if _, err := cc.catalog.DeleteCategory(c.Context(), id); err != nil {
		fail(c, err, categoryNotFound)
		return
	}
	c.Success(response.Fields{"message": "Category deleted successfully"})
}
