package repository

import (
	"go-pos-api/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OrderListQuery carries the historical listing filters. Date/Week/Month are
// the raw client values; malformed ones are skipped by the filter layer.
type OrderListQuery struct {
	CashierID string
	ShopID    string
	Date      string // "start,end"
	Week      string // "2006-01-02", any day in the week
	Month     string // "2006-01"
	Statuses  []model.OrderStatus
	Page      int
	PerPage   int
}

// InProgressQuery narrows the live-order listing.
type InProgressQuery struct {
	ShopID  string // matched through the detail's item relation
	KotID   string
	Page    int
	PerPage int
}

// OrderDetailQuery carries the order-detail search filters.
type OrderDetailQuery struct {
	ShopID   string // via item relation
	ItemCode string // via item relation
	ItemName string // partial, via item relation
	OrderID  string
	Limit    int
}

type OrderRepository interface {
	FindByID(id uuid.UUID) (*model.Order, error)
	FindLoaded(id uuid.UUID) (*model.Order, error)
	FindPage(q OrderListQuery) ([]model.Order, int64, error)
	FindAllWithShop(cashierID, shopID string) ([]model.Order, error)
	FindInProgress(q InProgressQuery) ([]model.Order, int64, error)
	FindTodayDone(q OrderListQuery) ([]model.Order, error)
	FindDetailByID(id uuid.UUID) (*model.OrderDetail, error)
	SearchDetails(q OrderDetailQuery) ([]model.OrderDetail, error)
}

type orderRepo struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewOrderRepo(db *gorm.DB, log *logrus.Logger) OrderRepository {
	return &orderRepo{db: db, log: log}
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.First(&order, "id = ?", id).Error
	return &order, err
}

// FindLoaded returns the order with its details and each detail's item, the
// shape every write endpoint responds with.
func (r *orderRepo) FindLoaded(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("OrderDetails.Item").First(&order, "id = ?", id).Error
	return &order, err
}

func (r *orderRepo) FindPage(q OrderListQuery) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	base := r.historicalQuery(q)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Preload("Cashier").
		Preload("Shop").
		Preload("OrderDetails.Item").
		Order("created_at").
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Find(&orders).Error
	return orders, total, err
}

// FindTodayDone is the unpaginated variant restricted to settled orders.
func (r *orderRepo) FindTodayDone(q OrderListQuery) ([]model.Order, error) {
	var orders []model.Order
	q.Statuses = []model.OrderStatus{model.StatusDone}
	err := r.historicalQuery(q).
		Preload("Cashier").
		Preload("Shop").
		Preload("OrderDetails.Item").
		Order("created_at").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) historicalQuery(q OrderListQuery) *gorm.DB {
	base := r.db.Model(&model.Order{}).Where("status IN ?", q.Statuses)
	return applyFilters(base, r.log, []Filter{
		Exact("cashier_id", q.CashierID),
		Exact("shop_id", q.ShopID),
		DateRange(q.Date),
		WeekRange(q.Week),
		MonthRange(q.Month),
	})
}

func (r *orderRepo) FindAllWithShop(cashierID, shopID string) ([]model.Order, error) {
	var orders []model.Order
	q := applyFilters(r.db.Model(&model.Order{}), r.log, []Filter{
		Exact("cashier_id", cashierID),
		Exact("shop_id", shopID),
	})
	err := q.Preload("Shop").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindInProgress(q InProgressQuery) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	base := r.db.Model(&model.Order{}).Where("orders.status = ?", model.StatusInProgress)
	if q.ShopID != "" {
		// Narrow through the detail's item relation rather than the order's
		// own shop column, matching the live kitchen view.
		base = base.Where(`EXISTS (
			SELECT 1 FROM order_details
			JOIN items ON items.id = order_details.item_id
			WHERE order_details.order_id = orders.id AND items.shop_id = ?)`, q.ShopID)
	}
	if q.KotID != "" {
		base = base.Where("orders.kot_id = ?", q.KotID)
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Preload("OrderDetails.Item").
		Order("orders.created_at").
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) FindDetailByID(id uuid.UUID) (*model.OrderDetail, error) {
	var detail model.OrderDetail
	err := r.db.First(&detail, "id = ?", id).Error
	return &detail, err
}

func (r *orderRepo) SearchDetails(q OrderDetailQuery) ([]model.OrderDetail, error) {
	var details []model.OrderDetail

	base := r.db.Model(&model.OrderDetail{}).Select("order_details.*")
	if q.ShopID != "" || q.ItemCode != "" || q.ItemName != "" {
		base = base.Joins("JOIN items ON items.id = order_details.item_id")
		if q.ShopID != "" {
			base = base.Where("items.shop_id = ?", q.ShopID)
		}
		if q.ItemCode != "" {
			base = base.Where("items.code = ?", q.ItemCode)
		}
		if q.ItemName != "" {
			base = base.Where("items.name LIKE ?", "%"+q.ItemName+"%")
		}
	}
	if q.OrderID != "" {
		base = base.Where("order_details.order_id = ?", q.OrderID)
	}

	err := base.Preload("Item").Limit(q.Limit).Find(&details).Error
	return details, err
}
