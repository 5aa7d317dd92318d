package service_test

import (
	"testing"

	"go-pos-api/internal/model"
	"go-pos-api/internal/repository"
	"go-pos-api/internal/service"
	"go-pos-api/internal/ws"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type env struct {
	db      *gorm.DB
	orders  service.OrderService
	shop    model.Shop
	cashier model.User
	itemA   model.Item
	itemB   model.Item
}

func newQuietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Shop{}, &model.User{}, &model.Item{},
		&model.Order{}, &model.OrderDetail{},
	))

	log := newQuietLogger()

	e := &env{db: db}
	e.shop = model.Shop{Name: "Grand Toscana", Branch: "Downtown"}
	require.NoError(t, db.Create(&e.shop).Error)

	e.cashier = model.User{Username: "cashier1", FullName: "First Cashier", Type: "cashier", ShopID: e.shop.ID}
	require.NoError(t, e.cashier.SetPassword("secret"))
	require.NoError(t, db.Create(&e.cashier).Error)

	e.itemA = model.Item{Code: "A-01", Name: "Item A", Type: "food", NumOfItems: 10, SellingPricePerUnit: 5, ActualPricePerUnit: 3, ShopID: e.shop.ID}
	require.NoError(t, db.Create(&e.itemA).Error)
	e.itemB = model.Item{Code: "B-01", Name: "Item B", Type: "food", NumOfItems: 10, SellingPricePerUnit: 5, ActualPricePerUnit: 3, ShopID: e.shop.ID}
	require.NoError(t, db.Create(&e.itemB).Error)

	orderRepo := repository.NewOrderRepo(db, log)
	itemRepo := repository.NewItemRepo(db, log)
	userRepo := repository.NewUserRepo(db)
	shopRepo := repository.NewShopRepo(db, log)
	e.orders = service.NewOrderService(orderRepo, itemRepo, userRepo, shopRepo, db, ws.NewHub(), log)
	return e
}

func (e *env) createRequest() *service.CreateOrderRequest {
	return &service.CreateOrderRequest{
		CashierID:         e.cashier.ID,
		ShopID:            e.shop.ID,
		TotalSellingPrice: 25,
		TotalActualPrice:  13,
		Status:            model.StatusInProgress,
		PaymentType:       "cash",
		KotID:             "KOT-1",
		OrderDetails: []service.OrderDetailRequest{
			{ItemID: e.itemA.ID, Type: "food", NumOfItems: 2, TotalPricePerUnits: 10},
			{ItemID: e.itemB.ID, Type: "food", NumOfItems: 1, TotalPricePerUnits: 5},
		},
	}
}

func (e *env) countRows(t *testing.T) (orders, details int64) {
	t.Helper()
	require.NoError(t, e.db.Model(&model.Order{}).Count(&orders).Error)
	require.NoError(t, e.db.Model(&model.OrderDetail{}).Count(&details).Error)
	return
}

func TestCreateOrderPersistsHeaderAndLines(t *testing.T) {
	e := newEnv(t)

	order, err := e.orders.Create(e.createRequest())
	require.NoError(t, err)

	assert.Equal(t, model.StatusInProgress, order.Status)
	require.Len(t, order.OrderDetails, 2)
	require.NotNil(t, order.OrderDetails[0].Item)

	orders, details := e.countRows(t)
	assert.EqualValues(t, 1, orders)
	assert.EqualValues(t, 2, details)
}

func TestCreateOrderValidation(t *testing.T) {
	e := newEnv(t)

	req := e.createRequest()
	req.OrderDetails = nil

	_, err := e.orders.Create(req)
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)

	orders, details := e.countRows(t)
	assert.Zero(t, orders)
	assert.Zero(t, details)
}

func TestCreateOrderUnknownItemRejected(t *testing.T) {
	e := newEnv(t)

	req := e.createRequest()
	req.OrderDetails[1].ItemID = uuid.New()

	_, err := e.orders.Create(req)
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)

	orders, details := e.countRows(t)
	assert.Zero(t, orders)
	assert.Zero(t, details)
}

func TestCreateOrderRollsBackOnLineFailure(t *testing.T) {
	e := newEnv(t)

	// Force the line writes inside the transaction to fail
	require.NoError(t, e.db.Migrator().DropTable(&model.OrderDetail{}))

	_, err := e.orders.Create(e.createRequest())
	require.Error(t, err)

	var orders int64
	require.NoError(t, e.db.Model(&model.Order{}).Count(&orders).Error)
	assert.Zero(t, orders, "header must not survive a failed line write")
}

func TestUpdateOrderUpsertsLines(t *testing.T) {
	e := newEnv(t)
	order, err := e.orders.Create(e.createRequest())
	require.NoError(t, err)

	keptID := order.OrderDetails[0].ID
	newTotal := 40.0
	updated, err := e.orders.Update(order.ID, &service.UpdateOrderRequest{
		TotalSellingPrice: &newTotal,
		OrderDetails: []service.OrderDetailRequest{
			// Replace the first line in place
			{ID: &keptID, ItemID: e.itemA.ID, Type: "food", NumOfItems: 4, TotalPricePerUnits: 20},
			// Insert a brand new line
			{ItemID: e.itemB.ID, Type: "food", NumOfItems: 3, TotalPricePerUnits: 15},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 40.0, updated.TotalSellingPrice)
	// Second original line was omitted from the request and must survive
	require.Len(t, updated.OrderDetails, 3)

	var kept model.OrderDetail
	require.NoError(t, e.db.First(&kept, "id = ?", keptID).Error)
	assert.Equal(t, 4, kept.NumOfItems)
	assert.Equal(t, 20.0, kept.TotalPricePerUnits)
}

func TestUpdateOrderNotFound(t *testing.T) {
	e := newEnv(t)
	_, err := e.orders.Update(uuid.New(), &service.UpdateOrderRequest{})
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}

func TestDeleteOrderCascadesDetails(t *testing.T) {
	e := newEnv(t)
	order, err := e.orders.Create(e.createRequest())
	require.NoError(t, err)

	require.NoError(t, e.orders.Delete(order.ID))

	orders, details := e.countRows(t)
	assert.Zero(t, orders)
	assert.Zero(t, details)
}

func TestSettlePatchesOnlyPresentFields(t *testing.T) {
	e := newEnv(t)
	order, err := e.orders.Create(e.createRequest())
	require.NoError(t, err)

	status := model.StatusDone
	payment := "card"
	settled, err := e.orders.Settle(order.ID, &service.SettleOrderRequest{
		Status:      &status,
		PaymentType: &payment,
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusDone, settled.Status)
	assert.Equal(t, "card", settled.PaymentType)
	// Untouched fields keep their stored values
	assert.Equal(t, 25.0, settled.TotalSellingPrice)
	assert.Equal(t, "KOT-1", settled.KotID)
}

func TestSettleNotFound(t *testing.T) {
	e := newEnv(t)
	_, err := e.orders.Settle(uuid.New(), &service.SettleOrderRequest{})
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}

func TestCancelForcesTerminalState(t *testing.T) {
	e := newEnv(t)
	order, err := e.orders.Create(e.createRequest())
	require.NoError(t, err)

	cancelled, err := e.orders.Cancel(order.ID, &service.CancelOrderRequest{Comment: "customer left"})
	require.NoError(t, err)

	assert.Equal(t, model.StatusCancel, cancelled.Status)
	assert.Equal(t, model.PaymentCancel, cancelled.PaymentType)
	assert.Equal(t, "customer left", cancelled.Comment)
}

func TestCancelRequiresComment(t *testing.T) {
	e := newEnv(t)
	order, err := e.orders.Create(e.createRequest())
	require.NoError(t, err)

	_, err = e.orders.Cancel(order.ID, &service.CancelOrderRequest{})
	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCancelRejectsDoneOrder(t *testing.T) {
	e := newEnv(t)
	order, err := e.orders.Create(e.createRequest())
	require.NoError(t, err)

	status := model.StatusDone
	_, err = e.orders.Settle(order.ID, &service.SettleOrderRequest{Status: &status})
	require.NoError(t, err)

	_, err = e.orders.Cancel(order.ID, &service.CancelOrderRequest{Comment: "too late"})
	assert.ErrorIs(t, err, service.ErrOrderAlreadyDone)
}

func TestReturnItemFullReturn(t *testing.T) {
	e := newEnv(t)
	order, err := e.orders.Create(e.createRequest())
	require.NoError(t, err)
	detail := order.OrderDetails[0] // qty 2 on item A

	result, err := e.orders.ReturnItem(&service.ReturnItemRequest{
		OrderDetailID: detail.ID,
		ItemID:        e.itemA.ID,
		SoldItemCount: 2,
		ReturnedCount: 2,
		PricePerUnit:  5,
	})
	require.NoError(t, err)
	assert.True(t, result.Deleted)

	var count int64
	require.NoError(t, e.db.Model(&model.OrderDetail{}).Where("id = ?", detail.ID).Count(&count).Error)
	assert.Zero(t, count, "detail row must be removed")

	var item model.Item
	require.NoError(t, e.db.First(&item, "id = ?", e.itemA.ID).Error)
	assert.Equal(t, 12, item.NumOfItems, "stock restored by the full sold quantity")
}

func TestReturnItemPartialReturn(t *testing.T) {
	e := newEnv(t)
	order, err := e.orders.Create(e.createRequest())
	require.NoError(t, err)
	detail := order.OrderDetails[0] // qty 2, line total 10

	result, err := e.orders.ReturnItem(&service.ReturnItemRequest{
		OrderDetailID: detail.ID,
		ItemID:        e.itemA.ID,
		SoldItemCount: 2,
		ReturnedCount: 1,
		PricePerUnit:  5,
	})
	require.NoError(t, err)
	assert.False(t, result.Deleted)

	var updated model.OrderDetail
	require.NoError(t, e.db.First(&updated, "id = ?", detail.ID).Error)
	assert.Equal(t, 1, updated.NumOfItems)
	assert.Equal(t, 5.0, updated.TotalPricePerUnits)

	var item model.Item
	require.NoError(t, e.db.First(&item, "id = ?", e.itemA.ID).Error)
	assert.Equal(t, 11, item.NumOfItems)
}

func TestReturnItemAccountingIdentity(t *testing.T) {
	e := newEnv(t)
	req := e.createRequest()
	req.OrderDetails = []service.OrderDetailRequest{
		{ItemID: e.itemA.ID, Type: "food", NumOfItems: 5, TotalPricePerUnits: 25},
	}
	order, err := e.orders.Create(req)
	require.NoError(t, err)
	detail := order.OrderDetails[0]

	// Two partial returns: 2 then 1
	for _, returned := range []int{2, 1} {
		_, err := e.orders.ReturnItem(&service.ReturnItemRequest{
			OrderDetailID: detail.ID,
			ItemID:        e.itemA.ID,
			SoldItemCount: 5,
			ReturnedCount: returned,
			PricePerUnit:  5,
		})
		require.NoError(t, err)
	}

	var updated model.OrderDetail
	require.NoError(t, e.db.First(&updated, "id = ?", detail.ID).Error)
	// remaining + total returned == originally sold
	assert.Equal(t, 5, updated.NumOfItems+3)
	assert.Equal(t, 10.0, updated.TotalPricePerUnits)

	var item model.Item
	require.NoError(t, e.db.First(&item, "id = ?", e.itemA.ID).Error)
	assert.Equal(t, 13, item.NumOfItems)
}

func TestReturnItemOverReturnRejected(t *testing.T) {
	e := newEnv(t)
	order, err := e.orders.Create(e.createRequest())
	require.NoError(t, err)
	detail := order.OrderDetails[0] // qty 2

	_, err = e.orders.ReturnItem(&service.ReturnItemRequest{
		OrderDetailID: detail.ID,
		ItemID:        e.itemA.ID,
		SoldItemCount: 5,
		ReturnedCount: 3, // more than the remaining 2
		PricePerUnit:  5,
	})
	assert.ErrorIs(t, err, service.ErrReturnExceedsSold)

	// Nothing moved
	var item model.Item
	require.NoError(t, e.db.First(&item, "id = ?", e.itemA.ID).Error)
	assert.Equal(t, 10, item.NumOfItems)
}

func TestReturnItemDetailNotFound(t *testing.T) {
	e := newEnv(t)

	_, err := e.orders.ReturnItem(&service.ReturnItemRequest{
		OrderDetailID: uuid.New(),
		ItemID:        e.itemA.ID,
		SoldItemCount: 1,
		ReturnedCount: 1,
	})
	assert.ErrorIs(t, err, service.ErrOrderDetailNotFound)
}

func TestListExcludesInProgressIncludesCancelled(t *testing.T) {
	e := newEnv(t)

	_, err := e.orders.Create(e.createRequest())
	require.NoError(t, err)

	toCancel, err := e.orders.Create(e.createRequest())
	require.NoError(t, err)
	_, err = e.orders.Cancel(toCancel.ID, &service.CancelOrderRequest{Comment: "x"})
	require.NoError(t, err)

	orders, total, err := e.orders.List(repository.OrderListQuery{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, model.StatusCancel, orders[0].Status)
}

func TestListInProgressByKot(t *testing.T) {
	e := newEnv(t)

	_, err := e.orders.Create(e.createRequest())
	require.NoError(t, err)

	req := e.createRequest()
	req.KotID = "KOT-2"
	_, err = e.orders.Create(req)
	require.NoError(t, err)

	orders, total, err := e.orders.ListInProgress(repository.InProgressQuery{
		KotID: "KOT-2", Page: 1, PerPage: 20,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, "KOT-2", orders[0].KotID)
}

func TestPriceSnapshotSurvivesItemPriceChange(t *testing.T) {
	e := newEnv(t)
	order, err := e.orders.Create(e.createRequest())
	require.NoError(t, err)
	original := order.OrderDetails[0].TotalPricePerUnits

	require.NoError(t, e.db.Model(&model.Item{}).
		Where("id = ?", e.itemA.ID).
		Update("selling_price_per_unit", 99.0).Error)

	var detail model.OrderDetail
	require.NoError(t, e.db.First(&detail, "id = ?", order.OrderDetails[0].ID).Error)
	assert.Equal(t, original, detail.TotalPricePerUnits)
}
