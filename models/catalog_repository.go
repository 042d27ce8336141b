package models

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/veo1/go-product-catalog/sqlerr"
	"gorm.io/gorm"
)

// CatalogRepository is the data-access façade over categories and products.
// Every mutating call opens its own Context and saves it before returning.
type CatalogRepository struct {
	db              *gorm.DB
	checkReferences bool
}

type Option func(*CatalogRepository)

// WithReferenceCheck makes CreateProduct and UpdateProductCategory fail with
// ErrCategoryNotFound when the target category does not exist, instead of
// leaving the decision to the store's foreign key.
func WithReferenceCheck() Option {
	return func(r *CatalogRepository) {
		r.checkReferences = true
	}
}

func NewCatalogRepository(db *gorm.DB, opts ...Option) *CatalogRepository {
	r := &CatalogRepository{
		db: db,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateCategory stores a new category. The name is not validated.
func (r *CatalogRepository) CreateCategory(ctx context.Context, name string) (*Category, error) {
	uow := NewContext(r.db)

	category := &Category{Name: name}
	uow.Add(category)
	if err := uow.Save(ctx); err != nil {
		return nil, err
	}
	return category, nil
}

// CreateProduct stores a new product under categoryID.
func (r *CatalogRepository) CreateProduct(ctx context.Context, name string, price decimal.Decimal, categoryID uint) (*Product, error) {
	uow := NewContext(r.db)
	if err := r.ensureCategory(ctx, uow, categoryID); err != nil {
		return nil, err
	}

	product := &Product{
		Name:       name,
		Price:      price,
		CategoryID: categoryID,
	}
	uow.Add(product)
	if err := uow.Save(ctx); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProductsByCategory returns the products of a category with the
// category attached. The order is whatever the store returns.
func (r *CatalogRepository) GetProductsByCategory(ctx context.Context, categoryID uint) ([]Product, error) {
	var products []Product
	if err := NewContext(r.db).Products(ctx).
		Preload("Category").
		Where("products.category_id = ?", categoryID).
		Find(&products).Error; err != nil {
		return nil, sqlerr.Wrap("list products by category", err)
	}
	return products, nil
}

// UpdateProductCategory moves a product to another category.
func (r *CatalogRepository) UpdateProductCategory(ctx context.Context, productID, newCategoryID uint) (*Product, error) {
	uow := NewContext(r.db)

	var product Product
	if err := uow.Products(ctx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, sqlerr.Wrap("find product", err)
	}
	if err := r.ensureCategory(ctx, uow, newCategoryID); err != nil {
		return nil, err
	}

	uow.SetField(&product, "category_id", newCategoryID)
	if err := uow.Save(ctx); err != nil {
		return nil, err
	}
	product.CategoryID = newCategoryID
	return &product, nil
}

// DeleteCategory removes a category and all of its products in one unit
// of work. Products go first so the store's foreign key is never violated.
func (r *CatalogRepository) DeleteCategory(ctx context.Context, categoryID uint) error {
	uow := NewContext(r.db)

	var category Category
	if err := uow.Categories(ctx).
		Preload("Products").
		First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return sqlerr.Wrap("find category", err)
	}

	uow.Remove(&category.Products)
	uow.Remove(&category)
	return uow.Save(ctx)
}

func (r *CatalogRepository) GetCategory(ctx context.Context, id uint) (*Category, error) {
	var category Category
	if err := NewContext(r.db).Categories(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, sqlerr.Wrap("find category", err)
	}
	return &category, nil
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := NewContext(r.db).Products(ctx).
		Preload("Category").
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, sqlerr.Wrap("find product", err)
	}
	return &product, nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := NewContext(r.db).Categories(ctx).
		Order("categories.id").
		Find(&categories).Error; err != nil {
		return nil, sqlerr.Wrap("list categories", err)
	}
	return categories, nil
}

func (r *CatalogRepository) ensureCategory(ctx context.Context, uow *Context, categoryID uint) error {
	if !r.checkReferences {
		return nil
	}
	var count int64
	if err := uow.Categories(ctx).
		Where("categories.id = ?", categoryID).
		Count(&count).Error; err != nil {
		return sqlerr.Wrap("check category", err)
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
