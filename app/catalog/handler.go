package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/veo1/go-product-catalog/app/api"
	"github.com/veo1/go-product-catalog/models"
	"github.com/veo1/go-product-catalog/sqlerr"
)

type Response struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	CategoryID uint      `json:"category_id"`
	Category   *Category `json:"category,omitempty"`
}

type ProductProvider interface {
	GetProductsByCategory(ctx context.Context, categoryID uint) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, name string, price decimal.Decimal, categoryID uint) (*models.Product, error)
	UpdateProductCategory(ctx context.Context, productID, newCategoryID uint) (*models.Product, error)
}

type CatalogHandler struct {
	repo     ProductProvider
	validate *validator.Validate
}

func NewCatalogHandler(r ProductProvider) *CatalogHandler {
	return &CatalogHandler{
		repo:     r,
		validate: validator.New(),
	}
}

func toProduct(p models.Product) Product {
	product := Product{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price.InexactFloat64(),
		CategoryID: p.CategoryID,
	}
	// Category is only present when it was eagerly loaded
	if p.Category.ID != 0 {
		product.Category = &Category{
			ID:   p.Category.ID,
			Name: p.Category.Name,
		}
	}
	return product
}

// missingCategory reports whether a product write failed because its
// category_id points nowhere, either by the repository's own check or by
// the store's foreign key.
func missingCategory(err error) bool {
	return errors.Is(err, models.ErrCategoryNotFound) ||
		sqlerr.ErrCode(err) == sqlerr.ForeignKeyViolation
}

// HandleListByCategory serves GET /categories/{id}/products.
func (h *CatalogHandler) HandleListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := api.PathID(r, "id")
	if !ok {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	res, err := h.repo.GetProductsByCategory(r.Context(), categoryID)
	if err != nil {
		api.StoreErrorResponse(w, err, "failed to fetch products")
		return
	}

	products := make([]Product, len(res))
	for i, p := range res {
		products[i] = toProduct(p)
	}

	api.OKResponse(w, http.StatusOK, Response{
		Total:    len(products),
		Products: products,
	})
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	product, err := h.repo.GetProduct(r.Context(), id)
	if err != nil {
		api.StoreErrorResponse(w, err, "failed to fetch product")
		return
	}

	api.OKResponse(w, http.StatusOK, toProduct(*product))
}

func (h *CatalogHandler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name       string          `json:"name" validate:"required"`
		Price      decimal.Decimal `json:"price"`
		CategoryID uint            `json:"category_id" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.validate.Struct(input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Missing name or category_id")
		return
	}

	product, err := h.repo.CreateProduct(r.Context(), input.Name, input.Price, input.CategoryID)
	if err != nil {
		if missingCategory(err) {
			api.ErrorResponse(w, http.StatusBadRequest, "The referenced Category does not exist")
			return
		}
		api.StoreErrorResponse(w, err, "Failed to create product")
		return
	}

	api.OKResponse(w, http.StatusCreated, toProduct(*product))
}

// HandleUpdateCategory serves PUT /products/{id}/category.
func (h *CatalogHandler) HandleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	var input struct {
		CategoryID uint `json:"category_id" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Missing category_id")
		return
	}

	product, err := h.repo.UpdateProductCategory(r.Context(), id, input.CategoryID)
	if err != nil {
		if missingCategory(err) {
			api.ErrorResponse(w, http.StatusBadRequest, "The referenced Category does not exist")
			return
		}
		api.StoreErrorResponse(w, err, "Failed to update product")
		return
	}

	api.OKResponse(w, http.StatusOK, toProduct(*product))
}
