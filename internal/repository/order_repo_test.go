package repository

import (
	"testing"
	"time"

	"go-pos-api/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One in-memory sqlite DB per connection; pin the pool to a single one
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Shop{}, &model.User{}, &model.Item{},
		&model.Order{}, &model.OrderDetail{},
	))
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

type fixture struct {
	shop    model.Shop
	cashier model.User
	item    model.Item
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	shop := model.Shop{Name: "Grand Toscana", Branch: "Downtown"}
	require.NoError(t, db.Create(&shop).Error)

	cashier := model.User{Username: "cashier1", FullName: "First Cashier", Type: "cashier", ShopID: shop.ID}
	require.NoError(t, cashier.SetPassword("secret"))
	require.NoError(t, db.Create(&cashier).Error)

	item := model.Item{
		Code: "ESP-01", Name: "Espresso", Type: "beverage",
		NumOfItems: 50, SellingPricePerUnit: 5, ActualPricePerUnit: 2,
		ShopID: shop.ID,
	}
	require.NoError(t, db.Create(&item).Error)

	return fixture{shop: shop, cashier: cashier, item: item}
}

func seedOrder(t *testing.T, db *gorm.DB, fx fixture, status model.OrderStatus, createdAt time.Time, kotID string) model.Order {
	t.Helper()
	order := model.Order{
		CashierID:         fx.cashier.ID,
		ShopID:            fx.shop.ID,
		TotalSellingPrice: 25,
		TotalActualPrice:  10,
		Status:            status,
		PaymentType:       "cash",
		KotID:             kotID,
	}
	order.CreatedAt = createdAt
	require.NoError(t, db.Create(&order).Error)

	detail := model.OrderDetail{
		OrderID: order.ID, ItemID: fx.item.ID, Type: fx.item.Type,
		NumOfItems: 2, TotalPricePerUnits: 10,
	}
	require.NoError(t, db.Create(&detail).Error)
	return order
}

func historicalStatuses() []model.OrderStatus {
	return []model.OrderStatus{model.StatusDone, model.StatusCancel}
}

func TestFindPageExcludesInProgress(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixture(t, db)
	repo := NewOrderRepo(db, newTestLogger())

	now := time.Now()
	seedOrder(t, db, fx, model.StatusDone, now, "")
	seedOrder(t, db, fx, model.StatusCancel, now, "")
	seedOrder(t, db, fx, model.StatusInProgress, now, "")

	orders, total, err := repo.FindPage(OrderListQuery{
		Statuses: historicalStatuses(), Page: 1, PerPage: 10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, o := range orders {
		assert.NotEqual(t, model.StatusInProgress, o.Status)
	}
}

func TestFindPageDateRangeInclusiveBounds(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixture(t, db)
	repo := NewOrderRepo(db, newTestLogger())

	// Exactly at the boundary instants
	startInstant := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	endInstant := time.Date(2024, 6, 7, 23, 59, 59, int(999*time.Millisecond), time.Local)
	seedOrder(t, db, fx, model.StatusDone, startInstant, "")
	seedOrder(t, db, fx, model.StatusDone, endInstant, "")
	// Outside the range
	seedOrder(t, db, fx, model.StatusDone, time.Date(2024, 6, 8, 0, 0, 1, 0, time.Local), "")

	orders, total, err := repo.FindPage(OrderListQuery{
		Statuses: historicalStatuses(),
		Date:     "2024-06-01,2024-06-07",
		Page:     1, PerPage: 10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, orders, 2)
	// Ordered by creation time ascending
	assert.True(t, orders[0].CreatedAt.Before(orders[1].CreatedAt))
}

func TestFindPageMalformedDateFilterIsSkipped(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixture(t, db)
	repo := NewOrderRepo(db, newTestLogger())

	seedOrder(t, db, fx, model.StatusDone, time.Now(), "")

	// A malformed value must not narrow the query or error out
	_, total, err := repo.FindPage(OrderListQuery{
		Statuses: historicalStatuses(),
		Date:     "not-a-range",
		Page:     1, PerPage: 10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestFindPageCashierAndShopFilters(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixture(t, db)
	repo := NewOrderRepo(db, newTestLogger())

	other := model.User{Username: "cashier2", FullName: "Second Cashier", Type: "cashier", ShopID: fx.shop.ID}
	require.NoError(t, other.SetPassword("secret"))
	require.NoError(t, db.Create(&other).Error)

	seedOrder(t, db, fx, model.StatusDone, time.Now(), "")
	otherFx := fx
	otherFx.cashier = other
	seedOrder(t, db, otherFx, model.StatusDone, time.Now(), "")

	orders, total, err := repo.FindPage(OrderListQuery{
		Statuses:  historicalStatuses(),
		CashierID: fx.cashier.ID.String(),
		Page:      1, PerPage: 10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, fx.cashier.ID, orders[0].CashierID)
}

func TestFindPagePagination(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixture(t, db)
	repo := NewOrderRepo(db, newTestLogger())

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)
	for i := 0; i < 3; i++ {
		seedOrder(t, db, fx, model.StatusDone, base.Add(time.Duration(i)*time.Hour), "")
	}

	first, total, err := repo.FindPage(OrderListQuery{
		Statuses: historicalStatuses(), Page: 1, PerPage: 2,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, first, 2)

	second, _, err := repo.FindPage(OrderListQuery{
		Statuses: historicalStatuses(), Page: 2, PerPage: 2,
	})
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestFindInProgress(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixture(t, db)
	repo := NewOrderRepo(db, newTestLogger())

	seedOrder(t, db, fx, model.StatusInProgress, time.Now(), "KOT-7")
	seedOrder(t, db, fx, model.StatusInProgress, time.Now(), "KOT-8")
	seedOrder(t, db, fx, model.StatusDone, time.Now(), "KOT-9")

	orders, total, err := repo.FindInProgress(InProgressQuery{Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, o := range orders {
		assert.Equal(t, model.StatusInProgress, o.Status)
	}

	byKot, total, err := repo.FindInProgress(InProgressQuery{KotID: "KOT-7", Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, byKot, 1)
	assert.Equal(t, "KOT-7", byKot[0].KotID)
}

func TestFindInProgressShopFilterViaItemRelation(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixture(t, db)
	repo := NewOrderRepo(db, newTestLogger())

	otherShop := model.Shop{Name: "Other", Branch: "Uptown"}
	require.NoError(t, db.Create(&otherShop).Error)
	otherItem := model.Item{
		Code: "TEA-01", Name: "Tea", Type: "beverage",
		SellingPricePerUnit: 3, ActualPricePerUnit: 1, ShopID: otherShop.ID,
	}
	require.NoError(t, db.Create(&otherItem).Error)

	seedOrder(t, db, fx, model.StatusInProgress, time.Now(), "KOT-1")
	otherFx := fx
	otherFx.item = otherItem
	seedOrder(t, db, otherFx, model.StatusInProgress, time.Now(), "KOT-2")

	orders, total, err := repo.FindInProgress(InProgressQuery{
		ShopID: fx.shop.ID.String(), Page: 1, PerPage: 20,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, "KOT-1", orders[0].KotID)
}

func TestFindTodayDoneOnlyDone(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixture(t, db)
	repo := NewOrderRepo(db, newTestLogger())

	seedOrder(t, db, fx, model.StatusDone, time.Now(), "")
	seedOrder(t, db, fx, model.StatusCancel, time.Now(), "")
	seedOrder(t, db, fx, model.StatusInProgress, time.Now(), "")

	orders, err := repo.FindTodayDone(OrderListQuery{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, model.StatusDone, orders[0].Status)
}

func TestFindLoadedPreloadsDetailsAndItems(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixture(t, db)
	repo := NewOrderRepo(db, newTestLogger())

	order := seedOrder(t, db, fx, model.StatusInProgress, time.Now(), "")

	loaded, err := repo.FindLoaded(order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.OrderDetails, 1)
	require.NotNil(t, loaded.OrderDetails[0].Item)
	assert.Equal(t, fx.item.ID, loaded.OrderDetails[0].Item.ID)
}

func TestSearchDetails(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixture(t, db)
	repo := NewOrderRepo(db, newTestLogger())

	order := seedOrder(t, db, fx, model.StatusDone, time.Now(), "")

	byName, err := repo.SearchDetails(OrderDetailQuery{ItemName: "spres", Limit: 30})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, order.ID, byName[0].OrderID)

	byOrder, err := repo.SearchDetails(OrderDetailQuery{OrderID: order.ID.String(), Limit: 30})
	require.NoError(t, err)
	assert.Len(t, byOrder, 1)

	none, err := repo.SearchDetails(OrderDetailQuery{ItemName: "pizza", Limit: 30})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFindDetailByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepo(db, newTestLogger())

	_, err := repo.FindDetailByID(uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
