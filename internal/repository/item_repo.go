package repository

import (
	"go-pos-api/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ItemListQuery carries the paginated item listing filters.
type ItemListQuery struct {
	Name    string // partial
	Type    string // partial
	Code    string // exact
	ShopID  string // exact
	Page    int
	PerPage int
}

// ItemSearchQuery carries the lightweight item search filters (no paging,
// just a result cap).
type ItemSearchQuery struct {
	Name   string // partial
	Type   string // exact
	Code   string // exact
	ShopID string // exact
	Limit  int
}

type ItemRepository interface {
	Create(item *model.Item) error
	FindByID(id uuid.UUID) (*model.Item, error)
	FindPage(q ItemListQuery) ([]model.Item, int64, error)
	Search(q ItemSearchQuery) ([]model.Item, error)
	FindAll(name, code, itemType, shopID string) ([]model.Item, error)
	Update(item *model.Item) error
	Delete(id uuid.UUID) error
	CodeExists(shopID uuid.UUID, code string, excludeID uuid.UUID) (bool, error)
	TypeExists(itemType string) (bool, error)
	Exists(id uuid.UUID) (bool, error)
	IncrementStock(tx *gorm.DB, id uuid.UUID, delta int) error
}

type itemRepo struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewItemRepo(db *gorm.DB, log *logrus.Logger) ItemRepository {
	return &itemRepo{db: db, log: log}
}

func (r *itemRepo) Create(item *model.Item) error {
	return r.db.Create(item).Error
}

func (r *itemRepo) FindByID(id uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := r.db.First(&item, "id = ?", id).Error
	return &item, err
}

func (r *itemRepo) FindPage(q ItemListQuery) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	base := applyFilters(r.db.Model(&model.Item{}), r.log, []Filter{
		Partial("name", q.Name),
		Partial("type", q.Type),
		Exact("code", q.Code),
		Exact("shop_id", q.ShopID),
	})

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.Preload("Shop").
		Order("code").
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Find(&items).Error
	return items, total, err
}

func (r *itemRepo) Search(q ItemSearchQuery) ([]model.Item, error) {
	var items []model.Item
	query := applyFilters(r.db.Model(&model.Item{}), r.log, []Filter{
		Exact("type", q.Type),
		Exact("shop_id", q.ShopID),
		Exact("code", q.Code),
		Partial("name", q.Name),
	})
	err := query.Order("name").Limit(q.Limit).Find(&items).Error
	return items, err
}

func (r *itemRepo) FindAll(name, code, itemType, shopID string) ([]model.Item, error) {
	var items []model.Item
	q := applyFilters(r.db.Model(&model.Item{}), r.log, []Filter{
		Exact("name", name),
		Exact("code", code),
		Exact("type", itemType),
		Exact("shop_id", shopID),
	})
	err := q.Preload("Shop").Find(&items).Error
	return items, err
}

func (r *itemRepo) Update(item *model.Item) error {
	return r.db.Save(item).Error
}

func (r *itemRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Item{}, "id = ?", id).Error
}

// CodeExists reports whether another item in the shop already uses the code.
// Pass uuid.Nil as excludeID on create.
func (r *itemRepo) CodeExists(shopID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := r.db.Model(&model.Item{}).Where("shop_id = ? AND code = ?", shopID, code)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *itemRepo) TypeExists(itemType string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Item{}).Where("type = ?", itemType).Count(&count).Error
	return count > 0, err
}

func (r *itemRepo) Exists(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Item{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// IncrementStock adds delta to the item's stock count. It takes the
// transaction handle so returns stay atomic with the detail mutation.
func (r *itemRepo) IncrementStock(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Item{}).
		Where("id = ?", id).
		UpdateColumn("num_of_items", gorm.Expr("num_of_items + ?", delta)).Error
}
