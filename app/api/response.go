package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/veo1/go-product-catalog/models"
	"github.com/veo1/go-product-catalog/sqlerr"
)

// OKResponse writes data as JSON with the given status.
func OKResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ErrorResponse writes {"error": message} with the given status.
func ErrorResponse(w http.ResponseWriter, status int, message string) {
	OKResponse(w, status, map[string]string{"error": message})
}

// StoreErrorResponse maps a repository error onto a status code: missing
// records are 404, constraint violations 400 and anything else 500.
func StoreErrorResponse(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrProductNotFound):
		ErrorResponse(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, models.ErrCategoryNotFound):
		ErrorResponse(w, http.StatusNotFound, "Category not found")
	case sqlerr.ErrCode(err).IsConstraint():
		ErrorResponse(w, http.StatusBadRequest, sqlerr.UserMessage(err))
	default:
		ErrorResponse(w, http.StatusInternalServerError, fallback)
	}
}

// PathID parses the named path value as a record identity.
func PathID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
