package models

import (
	"context"
	"reflect"

	"github.com/veo1/go-product-catalog/sqlerr"
	"gorm.io/gorm"
)

// Context is a unit of work over the catalog tables.
//
// Reads go straight to the store through the per-kind query handles.
// Writes are only queued by Add, SetField and Remove, and reach the store
// together, inside one transaction, when Save is called. Nothing is tracked
// implicitly: a record mutated in memory but never queued is not written.
//
// A Context is not safe for concurrent use. Create one per operation
// sequence and drop it afterwards.
type Context struct {
	db      *gorm.DB
	pending []change
}

type change struct {
	op    string
	apply func(tx *gorm.DB) error
}

func NewContext(db *gorm.DB) *Context {
	return &Context{db: db}
}

// Categories returns a query handle over the categories table.
func (c *Context) Categories(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Model(&Category{})
}

// Products returns a query handle over the products table.
func (c *Context) Products(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Model(&Product{})
}

// Add queues an insert. record must be a pointer; its primary key is
// filled in once Save succeeds.
func (c *Context) Add(record any) {
	c.pending = append(c.pending, change{
		op: "insert",
		apply: func(tx *gorm.DB) error {
			return tx.Create(record).Error
		},
	})
}

// SetField queues a single-column update of an already stored record.
func (c *Context) SetField(record any, column string, value any) {
	c.pending = append(c.pending, change{
		op: "update " + column,
		apply: func(tx *gorm.DB) error {
			return tx.Model(record).Update(column, value).Error
		},
	})
}

// Remove queues a delete by primary key. record is a pointer to a single
// record or to a slice of records; an empty slice queues nothing.
func (c *Context) Remove(record any) {
	v := reflect.Indirect(reflect.ValueOf(record))
	if v.Kind() == reflect.Slice && v.Len() == 0 {
		return
	}
	c.pending = append(c.pending, change{
		op: "delete",
		apply: func(tx *gorm.DB) error {
			return tx.Delete(record).Error
		},
	})
}

// Pending reports how many changes are queued.
func (c *Context) Pending() int {
	return len(c.pending)
}

// Save applies the queued changes, in the order they were queued, as one
// transaction. The queue is emptied whether the transaction commits or not.
func (c *Context) Save(ctx context.Context) error {
	if len(c.pending) == 0 {
		return nil
	}
	pending := c.pending
	c.pending = nil

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ch := range pending {
			if err := ch.apply(tx); err != nil {
				return sqlerr.Wrap(ch.op, err)
			}
		}
		return nil
	})
	return sqlerr.Wrap("save", err)
}
