package service

import (
	"errors"

	"go-pos-api/internal/model"
	"go-pos-api/internal/repository"
	"go-pos-api/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrItemNotFound = errors.New("item not found")

type ItemService interface {
	Create(req *model.Item) (*model.Item, error)
	Update(id uuid.UUID, req *model.Item) (*model.Item, error)
	Get(id uuid.UUID) (*model.Item, error)
	Delete(id uuid.UUID) error
	ListPage(q repository.ItemListQuery) ([]model.Item, int64, error)
	Search(q repository.ItemSearchQuery) ([]model.Item, error)
	ListAll(name, code, itemType, shopID string) ([]model.Item, error)
}

type itemService struct {
	itemRepo repository.ItemRepository
	shopRepo repository.ShopRepository
	wsHub    *ws.Hub
}

func NewItemService(iRepo repository.ItemRepository, sRepo repository.ShopRepository, hub *ws.Hub) ItemService {
	return &itemService{itemRepo: iRepo, shopRepo: sRepo, wsHub: hub}
}

// Create enforces the shop-scoped item code invariant at write time.
func (s *itemService) Create(req *model.Item) (*model.Item, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.shopRepo.FindByID(req.ShopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, existsError("shop_id")
		}
		return nil, err
	}
	taken, err := s.itemRepo.CodeExists(req.ShopID, req.Code, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, existsError("item_id") // unique rule failed
	}

	if err := s.itemRepo.Create(req); err != nil {
		return nil, err
	}

	s.wsHub.Notify(ws.Event{
		Type:    "stock_update",
		Action:  "item_created",
		Payload: req,
	})
	return req, nil
}

func (s *itemService) Update(id uuid.UUID, req *model.Item) (*model.Item, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	taken, err := s.itemRepo.CodeExists(req.ShopID, req.Code, item.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, existsError("item_id")
	}

	item.Code = req.Code
	item.Name = req.Name
	item.Type = req.Type
	item.NumOfItems = req.NumOfItems
	item.SellingPricePerUnit = req.SellingPricePerUnit
	item.ActualPricePerUnit = req.ActualPricePerUnit
	item.ShopID = req.ShopID

	if err := s.itemRepo.Update(item); err != nil {
		return nil, err
	}

	s.wsHub.Notify(ws.Event{
		Type:    "stock_update",
		Action:  "item_updated",
		Payload: item,
	})
	return item, nil
}

func (s *itemService) Get(id uuid.UUID) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *itemService) Delete(id uuid.UUID) error {
	if _, err := s.itemRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	return s.itemRepo.Delete(id)
}

func (s *itemService) ListPage(q repository.ItemListQuery) ([]model.Item, int64, error) {
	return s.itemRepo.FindPage(q)
}

// Search short-circuits to an empty result when the requested type does not
// exist at all.
func (s *itemService) Search(q repository.ItemSearchQuery) ([]model.Item, error) {
	if q.Type != "" {
		exists, err := s.itemRepo.TypeExists(q.Type)
		if err != nil {
			return nil, err
		}
		if !exists {
			return []model.Item{}, nil
		}
	}
	return s.itemRepo.Search(q)
}

func (s *itemService) ListAll(name, code, itemType, shopID string) ([]model.Item, error) {
	return s.itemRepo.FindAll(name, code, itemType, shopID)
}
