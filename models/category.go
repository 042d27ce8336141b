package models

// Category represents a product category.
// Products reference it through Product.CategoryID; deleting a category
// never cascades in the store, the repository removes its products first.
type Category struct {
	ID       uint      `gorm:"primaryKey"`
	Name     string    `gorm:"not null"`
	Products []Product `gorm:"foreignKey:CategoryID"`
}

func (c *Category) TableName() string {
	return "categories"
}
