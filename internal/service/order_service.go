package service

import (
	"errors"
	"fmt"

	"go-pos-api/internal/model"
	"go-pos-api/internal/repository"
	"go-pos-api/internal/ws"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderDetailNotFound = errors.New("order detail not found")
	ErrOrderAlreadyDone    = errors.New("order is already settled and cannot be cancelled")
	ErrReturnExceedsSold   = errors.New("returned count exceeds the remaining sold quantity")
)

// OrderDetailRequest is one submitted line. On update, a line carrying the id
// of an existing detail replaces that detail's fields; a line without one is
// inserted.
type OrderDetailRequest struct {
	ID                 *uuid.UUID `json:"id,omitempty"`
	ItemID             uuid.UUID  `json:"item_id" validate:"uuid_required"`
	Type               string     `json:"type" validate:"required"`
	NeededAmount       float64    `json:"needed_amount" validate:"gte=0"`
	NumOfItems         int        `json:"num_of_items" validate:"required,gte=1"`
	TotalPricePerUnits float64    `json:"total_price_per_units" validate:"gte=0"`
}

type CreateOrderRequest struct {
	CashierID         uuid.UUID            `json:"cashier_id" validate:"uuid_required"`
	ShopID            uuid.UUID            `json:"shop_id" validate:"uuid_required"`
	TotalSellingPrice float64              `json:"total_selling_price" validate:"gte=0"`
	TotalActualPrice  float64              `json:"total_actual_price" validate:"gte=0"`
	Status            model.OrderStatus    `json:"status" validate:"required,oneof=inprogress done cancel"`
	PaymentType       string               `json:"payment_type" validate:"required"`
	Comment           string               `json:"comment"`
	KotID             string               `json:"kot_id"`
	OrderDetails      []OrderDetailRequest `json:"order_details" validate:"required,min=1,dive"`
}

type UpdateOrderRequest struct {
	CashierID         *uuid.UUID           `json:"cashier_id"`
	ShopID            *uuid.UUID           `json:"shop_id"`
	TotalSellingPrice *float64             `json:"total_selling_price" validate:"omitempty,gte=0"`
	OrderDetails      []OrderDetailRequest `json:"order_details" validate:"omitempty,dive"`
}

// SettleOrderRequest patches only the fields present in the request body.
type SettleOrderRequest struct {
	Status            *model.OrderStatus `json:"status" validate:"omitempty,oneof=inprogress done cancel"`
	PaymentType       *string            `json:"payment_type"`
	TotalSellingPrice *float64           `json:"total_selling_price" validate:"omitempty,gte=0"`
	Comment           *string            `json:"comment"`
}

type CancelOrderRequest struct {
	Comment string `json:"comment" validate:"required"`
}

type ReturnItemRequest struct {
	OrderDetailID uuid.UUID `json:"order_detail_id" validate:"uuid_required"`
	ItemID        uuid.UUID `json:"item_id" validate:"uuid_required"`
	SoldItemCount int       `json:"sold_item_count" validate:"required,gte=1"`
	ReturnedCount int       `json:"returned_count" validate:"gte=0"`
	PricePerUnit  float64   `json:"price_per_unit" validate:"gte=0"`
}

type ReturnItemResult struct {
	Message string `json:"message"`
	Deleted bool   `json:"-"`
}

type OrderService interface {
	Create(req *CreateOrderRequest) (*model.Order, error)
	Update(id uuid.UUID, req *UpdateOrderRequest) (*model.Order, error)
	Delete(id uuid.UUID) error
	Settle(id uuid.UUID, req *SettleOrderRequest) (*model.Order, error)
	Cancel(id uuid.UUID, req *CancelOrderRequest) (*model.Order, error)
	ReturnItem(req *ReturnItemRequest) (*ReturnItemResult, error)
	List(q repository.OrderListQuery) ([]model.Order, int64, error)
	ListAll(cashierID, shopID string) ([]model.Order, error)
	ListInProgress(q repository.InProgressQuery) ([]model.Order, int64, error)
	ListTodayDone(q repository.OrderListQuery) ([]model.Order, error)
	SearchDetails(q repository.OrderDetailQuery) ([]model.OrderDetail, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	itemRepo  repository.ItemRepository
	userRepo  repository.UserRepository
	shopRepo  repository.ShopRepository
	db        *gorm.DB
	wsHub     *ws.Hub
	log       *logrus.Logger
}

func NewOrderService(
	oRepo repository.OrderRepository,
	iRepo repository.ItemRepository,
	uRepo repository.UserRepository,
	sRepo repository.ShopRepository,
	db *gorm.DB,
	hub *ws.Hub,
	log *logrus.Logger,
) OrderService {
	return &orderService{
		orderRepo: oRepo,
		itemRepo:  iRepo,
		userRepo:  uRepo,
		shopRepo:  sRepo,
		db:        db,
		wsHub:     hub,
		log:       log,
	}
}

// Create persists the order header and every submitted line inside one
// transaction: a partially written order never survives.
func (s *orderService) Create(req *CreateOrderRequest) (*model.Order, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if ok, err := s.userRepo.Exists(req.CashierID); err != nil || !ok {
		if err != nil {
			return nil, err
		}
		return nil, existsError("cashier_id")
	}
	if _, err := s.shopRepo.FindByID(req.ShopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, existsError("shop_id")
		}
		return nil, err
	}
	for i, detail := range req.OrderDetails {
		if ok, err := s.itemRepo.Exists(detail.ItemID); err != nil || !ok {
			if err != nil {
				return nil, err
			}
			return nil, existsError(fmt.Sprintf("order_details[%d].item_id", i))
		}
	}

	order := model.Order{
		CashierID:         req.CashierID,
		ShopID:            req.ShopID,
		TotalSellingPrice: req.TotalSellingPrice,
		TotalActualPrice:  req.TotalActualPrice,
		Status:            req.Status,
		PaymentType:       req.PaymentType,
		Comment:           req.Comment,
		KotID:             req.KotID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, detail := range req.OrderDetails {
			line := model.OrderDetail{
				OrderID:            order.ID,
				ItemID:             detail.ItemID,
				Type:               detail.Type,
				NeededAmount:       detail.NeededAmount,
				NumOfItems:         detail.NumOfItems,
				TotalPricePerUnits: detail.TotalPricePerUnits,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).Error("order create rolled back")
		return nil, err
	}

	created, err := s.orderRepo.FindLoaded(order.ID)
	if err != nil {
		return nil, err
	}

	s.wsHub.Notify(ws.Event{
		Type:    "order_update",
		Action:  "order_created",
		Payload: created,
		Message: fmt.Sprintf("order %s created with %d lines", created.ID, len(created.OrderDetails)),
	})

	return created, nil
}

// Update patches the submitted header fields and upserts each submitted line.
// Lines stored but absent from the request are left untouched (no
// diff-and-delete); removal goes through the return endpoint.
func (s *orderService) Update(id uuid.UUID, req *UpdateOrderRequest) (*model.Order, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if req.CashierID != nil {
			updates["cashier_id"] = *req.CashierID
		}
		if req.ShopID != nil {
			updates["shop_id"] = *req.ShopID
		}
		if req.TotalSellingPrice != nil {
			updates["total_selling_price"] = *req.TotalSellingPrice
		}
		if len(updates) > 0 {
			if err := tx.Model(order).Updates(updates).Error; err != nil {
				return err
			}
		}

		for _, detail := range req.OrderDetails {
			if detail.ID != nil {
				var existing model.OrderDetail
				err := tx.First(&existing, "id = ? AND order_id = ?", *detail.ID, order.ID).Error
				if err == nil {
					existing.ItemID = detail.ItemID
					existing.Type = detail.Type
					existing.NeededAmount = detail.NeededAmount
					existing.NumOfItems = detail.NumOfItems
					existing.TotalPricePerUnits = detail.TotalPricePerUnits
					if err := tx.Save(&existing).Error; err != nil {
						return err
					}
					continue
				}
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			}
			line := model.OrderDetail{
				OrderID:            order.ID,
				ItemID:             detail.ItemID,
				Type:               detail.Type,
				NeededAmount:       detail.NeededAmount,
				NumOfItems:         detail.NumOfItems,
				TotalPricePerUnits: detail.TotalPricePerUnits,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).Error("order update rolled back")
		return nil, err
	}

	return s.orderRepo.FindLoaded(order.ID)
}

// Delete removes the order and its details atomically.
func (s *orderService) Delete(id uuid.UUID) error {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&model.OrderDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(order).Error
	})
}

// Settle applies only the fields present in the request; absent fields keep
// their stored values.
func (s *orderService) Settle(id uuid.UUID, req *SettleOrderRequest) (*model.Order, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if req.Status != nil {
			updates["status"] = *req.Status
		}
		if req.PaymentType != nil {
			updates["payment_type"] = *req.PaymentType
		}
		if req.TotalSellingPrice != nil {
			updates["total_selling_price"] = *req.TotalSellingPrice
		}
		if req.Comment != nil {
			updates["comment"] = *req.Comment
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(order).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	settled, err := s.orderRepo.FindLoaded(order.ID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		s.wsHub.Notify(ws.Event{
			Type:    "order_update",
			Action:  "order_settled",
			Payload: settled,
			Message: fmt.Sprintf("order %s moved to %s", settled.ID, settled.Status),
		})
	}

	return settled, nil
}

// Cancel is the one-way terminal transition: it records the mandatory
// comment and forces both status and payment type to cancel. Orders already
// settled as done are refused.
func (s *orderService) Cancel(id uuid.UUID, req *CancelOrderRequest) (*model.Order, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.Status == model.StatusDone {
		return nil, ErrOrderAlreadyDone
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(order).Updates(map[string]interface{}{
			"comment":      req.Comment,
			"status":       model.StatusCancel,
			"payment_type": model.PaymentCancel,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	cancelled, err := s.orderRepo.FindLoaded(order.ID)
	if err != nil {
		return nil, err
	}

	s.wsHub.Notify(ws.Event{
		Type:    "order_update",
		Action:  "order_cancelled",
		Payload: cancelled,
		Message: fmt.Sprintf("order %s cancelled: %s", cancelled.ID, req.Comment),
	})

	return cancelled, nil
}

// ReturnItem reconciles returned goods against the order line and the item's
// stock. A full return deletes the line and restores the whole sold quantity;
// a partial return shrinks the line's quantity and total and restores only
// the returned quantity. Both writes run in one transaction with the detail
// row locked.
func (s *orderService) ReturnItem(req *ReturnItemRequest) (*ReturnItemResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var result ReturnItemResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var detail model.OrderDetail
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&detail, "id = ?", req.OrderDetailID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderDetailNotFound
			}
			return err
		}

		if req.ReturnedCount == req.SoldItemCount {
			// Full return: everything sold goes back on the shelf and the
			// line disappears.
			if err := s.itemRepo.IncrementStock(tx, req.ItemID, req.SoldItemCount); err != nil {
				return err
			}
			if err := tx.Delete(&detail).Error; err != nil {
				return err
			}
			result = ReturnItemResult{Message: "Order detail deleted successfully", Deleted: true}
			return nil
		}

		if req.ReturnedCount > detail.NumOfItems {
			return ErrReturnExceedsSold
		}

		detail.NumOfItems -= req.ReturnedCount
		detail.TotalPricePerUnits -= req.PricePerUnit * float64(req.ReturnedCount)
		if err := s.itemRepo.IncrementStock(tx, detail.ItemID, req.ReturnedCount); err != nil {
			return err
		}
		if err := tx.Save(&detail).Error; err != nil {
			return err
		}
		result = ReturnItemResult{Message: "Order detail updated successfully"}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Notify(ws.Event{
		Type:   "stock_update",
		Action: "item_returned",
		Payload: map[string]interface{}{
			"order_detail_id": req.OrderDetailID,
			"item_id":         req.ItemID,
			"returned_count":  req.ReturnedCount,
			"deleted":         result.Deleted,
		},
	})

	return &result, nil
}

// List is the historical listing: only settled and cancelled orders appear.
func (s *orderService) List(q repository.OrderListQuery) ([]model.Order, int64, error) {
	q.Statuses = []model.OrderStatus{model.StatusDone, model.StatusCancel}
	return s.orderRepo.FindPage(q)
}

func (s *orderService) ListAll(cashierID, shopID string) ([]model.Order, error) {
	return s.orderRepo.FindAllWithShop(cashierID, shopID)
}

func (s *orderService) ListInProgress(q repository.InProgressQuery) ([]model.Order, int64, error) {
	return s.orderRepo.FindInProgress(q)
}

func (s *orderService) ListTodayDone(q repository.OrderListQuery) ([]model.Order, error) {
	return s.orderRepo.FindTodayDone(q)
}

func (s *orderService) SearchDetails(q repository.OrderDetailQuery) ([]model.OrderDetail, error) {
	return s.orderRepo.SearchDetails(q)
}
