package controllers

import (
	"net/http"

	"github.com/sadekstore/storefront/app/repositories"
	"github.com/sadekstore/storefront/app/services"
	"github.com/sadekstore/storefront/pkg/ctx"
	"github.com/sadekstore/storefront/pkg/response"
)

const productNotFound = "Product not found"

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// productRequest mirrors repositories.ProductInput: absent fields stay nil.
type productRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitnil,gte=0"`
	Currency    *string  `json:"currency"`
	Category    *string  `json:"category"`
	Status      *bool    `json:"status"`
	Images      []string `json:"images"`
}

func (p productRequest) input() repositories.ProductInput {
	return repositories.ProductInput{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		Category:    p.Category,
		Status:      p.Status,
		Images:      p.Images,
	}
}

func (pc *ProductController) Index(c *ctx.Context) {
	list, err := pc.catalog.Products(c.Context())
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}

	product, err := pc.catalog.Product(c.Context(), id)
	if err != nil {
		fail(c, err, productNotFound)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (pc *ProductController) Store(c *ctx.Context) {
	var body productRequest
	if !c.BindJSON(&body) {
		return
	}

	product, err := pc.catalog.AddProduct(c.Context(), body.input())
	if err != nil {
		fail(c, err, "")
		return
	}
	c.Success(response.Fields{"product": product})
}

func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}

	var body productRequest
	if !c.BindJSON(&body) {
		return
	}

	product, err := pc.catalog.UpdateProduct(c.Context(), id, body.input())
	if err != nil {
		fail(c, err, productNotFound)
		return
	}
	c.Success(response.Fields{"product": product})
}

func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}

	if _, err := pc.catalog.DeleteProduct(c.Context(), id); err != nil {
		fail(c, err, productNotFound)
		return
	}
	c.Success(response.Fields{"message": "Product deleted successfully"})
}
