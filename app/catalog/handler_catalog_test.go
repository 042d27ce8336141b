package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/veo1/go-product-catalog/models"
	"github.com/veo1/go-product-catalog/sqlerr"
)

// --- Mock Repo ---

type MockProductRepo struct {
	SourceProducts []models.Product
	Err            error

	// Fields to capture call arguments
	lastCalledCategoryID uint
	lastCalledProductID  uint
	lastCreated          *models.Product
	createCalled         bool
	updateCalled         bool
}

func (m *MockProductRepo) GetProductsByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	m.lastCalledCategoryID = categoryID

	if m.Err != nil {
		return nil, m.Err
	}

	var filteredProducts []models.Product
	for _, p := range m.SourceProducts {
		if p.CategoryID == categoryID {
			filteredProducts = append(filteredProducts, p)
		}
	}
	return filteredProducts, nil
}

func (m *MockProductRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	m.lastCalledProductID = id

	if m.Err != nil {
		return nil, m.Err
	}

	for _, p := range m.SourceProducts {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, models.ErrProductNotFound
}

func (m *MockProductRepo) CreateProduct(ctx context.Context, name string, price decimal.Decimal, categoryID uint) (*models.Product, error) {
	m.createCalled = true
	m.lastCreated = &models.Product{Name: name, Price: price, CategoryID: categoryID}

	if m.Err != nil {
		return nil, m.Err
	}

	product := *m.lastCreated
	product.ID = uint(len(m.SourceProducts) + 1)
	m.SourceProducts = append(m.SourceProducts, product)
	return &product, nil
}

func (m *MockProductRepo) UpdateProductCategory(ctx context.Context, productID, newCategoryID uint) (*models.Product, error) {
	m.updateCalled = true
	m.lastCalledProductID = productID
	m.lastCalledCategoryID = newCategoryID

	if m.Err != nil {
		return nil, m.Err
	}

	for i, p := range m.SourceProducts {
		if p.ID == productID {
			m.SourceProducts[i].CategoryID = newCategoryID
			m.SourceProducts[i].Category = models.Category{}
			product := m.SourceProducts[i]
			return &product, nil
		}
	}
	return nil, models.ErrProductNotFound
}

// --- Helpers ---

func newTestProduct(id uint, name string, categoryID uint, categoryName string, price float64) models.Product {
	return models.Product{
		ID:         id,
		Name:       name,
		Price:      decimal.NewFromFloat(price),
		CategoryID: categoryID,
		Category: models.Category{
			ID:   categoryID,
			Name: categoryName,
		},
	}
}

// --- Tests ---

func TestHandleListByCategory(t *testing.T) {
	allMockProducts := []models.Product{
		newTestProduct(1, "Smartphone", 1, "Electronics", 500),
		newTestProduct(2, "Laptop", 1, "Electronics", 1000),
		newTestProduct(3, "T-shirt", 2, "Clothing", 15),
	}

	testCases := []struct {
		name               string
		categoryID         string
		mockRepoSetup      func() *MockProductRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkRepoCalls     func(t *testing.T, repo *MockProductRepo)
	}{
		{
			name:       "Category with products",
			categoryID: "1",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: allMockProducts}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp Response
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, 2, resp.Total)
				assert.Len(t, resp.Products, 2)
				assert.Equal(t, "Smartphone", resp.Products[0].Name)
				assert.Equal(t, 500.0, resp.Products[0].Price)
				if assert.NotNil(t, resp.Products[0].Category) {
					assert.Equal(t, "Electronics", resp.Products[0].Category.Name)
				}
			},
			checkRepoCalls: func(t *testing.T, repo *MockProductRepo) {
				assert.Equal(t, uint(1), repo.lastCalledCategoryID)
			},
		},
		{
			name:       "Category without products",
			categoryID: "42",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: allMockProducts}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp Response
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, 0, resp.Total)
				assert.Empty(t, resp.Products)
			},
			checkRepoCalls: func(t *testing.T, repo *MockProductRepo) {
				assert.Equal(t, uint(42), repo.lastCalledCategoryID)
			},
		},
		{
			name:       "Invalid category id",
			categoryID: "-1",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: allMockProducts}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "Invalid category id", errResp["error"])
			},
			checkRepoCalls: func(t *testing.T, repo *MockProductRepo) {
				assert.Zero(t, repo.lastCalledCategoryID, "repository should not be called")
			},
		},
		{
			name:       "Repository error",
			categoryID: "1",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{Err: errors.New("db down")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "failed to fetch products", errResp["error"])
			},
		},
		{
			name:       "Database unavailable",
			categoryID: "1",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{Err: sqlerr.Wrap("query", &pq.Error{Code: "08006"})}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "failed to fetch products", errResp["error"])
			},
		},
		{
			name:       "Repository reports missing category",
			categoryID: "9",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{Err: models.ErrCategoryNotFound}
			},
			expectedStatusCode: http.StatusNotFound,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "Category not found", errResp["error"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			handler := NewCatalogHandler(mockRepo)
			req := httptest.NewRequest("GET", "/categories/"+tc.categoryID+"/products", nil)
			req.SetPathValue("id", tc.categoryID)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleListByCategory(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
			if tc.checkRepoCalls != nil {
				tc.checkRepoCalls(t, mockRepo)
			}
		})
	}
}
