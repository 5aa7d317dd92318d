package repository

import (
	"go-pos-api/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ShopRepository interface {
	Create(shop *model.Shop) error
	FindAll(name, branch string) ([]model.Shop, error)
	FindByID(id uuid.UUID) (*model.Shop, error)
	Update(shop *model.Shop) error
	Delete(id uuid.UUID) error
}

type shopRepo struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewShopRepo(db *gorm.DB, log *logrus.Logger) ShopRepository {
	return &shopRepo{db: db, log: log}
}

func (r *shopRepo) Create(shop *model.Shop) error {
	return r.db.Create(shop).Error
}

func (r *shopRepo) FindAll(name, branch string) ([]model.Shop, error) {
	var shops []model.Shop
	q := applyFilters(r.db.Model(&model.Shop{}), r.log, []Filter{
		Partial("name", name),
		Partial("branch", branch),
	})
	err := q.Preload("Users").Order("name").Find(&shops).Error
	return shops, err
}

func (r *shopRepo) FindByID(id uuid.UUID) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.First(&shop, "id = ?", id).Error
	return &shop, err
}

func (r *shopRepo) Update(shop *model.Shop) error {
	return r.db.Save(shop).Error
}

// Delete removes the shop; dependent items, users and orders go with it
// through the cascade constraints.
func (r *shopRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Shop{}, "id = ?", id).Error
}
