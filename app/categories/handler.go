package categories

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/veo1/go-product-catalog/app/api"
	"github.com/veo1/go-product-catalog/models"
)

type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CategoryProvider interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type CategoryHandler struct {
	repo     CategoryProvider
	validate *validator.Validate
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{
		repo:     r,
		validate: validator.New(),
	}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.ListCategories(r.Context())
	if err != nil {
		api.ErrorResponse(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = CategoryResponse{
			ID:   c.ID,
			Name: c.Name,
		}
	}

	api.OKResponse(w, http.StatusOK, response)
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.validate.Struct(input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Missing name")
		return
	}

	category, err := h.repo.CreateCategory(r.Context(), input.Name)
	if err != nil {
		api.StoreErrorResponse(w, err, "Failed to create category")
		return
	}

	api.OKResponse(w, http.StatusCreated, CategoryResponse{
		ID:   category.ID,
		Name: category.Name,
	})
}

// HandleDelete removes the category together with all of its products.
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	if err := h.repo.DeleteCategory(r.Context(), id); err != nil {
		api.StoreErrorResponse(w, err, "Failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
