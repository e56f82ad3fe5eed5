package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"medilink/internal/converter"
	"medilink/internal/delivery/dto"
	"medilink/internal/domain/entity"
	"medilink/internal/domain/repository"
	"medilink/internal/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrSupplyNotFound   = errors.New("supply not found")
	ErrUnknownSupply    = errors.New("unknown supply ids")
	ErrInvalidQuantity  = errors.New("quantity must be between 1 and 100000")
	ErrInvalidUnitPrice = errors.New("unit price must not be negative")
	ErrInvalidExpiry    = errors.New("invalid expiry date, use YYYY-MM-DD")
)

// SupplyCheck partitions a set of requested supplies by status.
type SupplyCheck struct {
	// Supplies found, ordered by id, each listed once.
	Supplies []entity.Supply
	// Blocking are unavailable; a booking needing any of them must fail.
	Blocking []entity.Supply
	// Warning are low on stock but bookable.
	Warning []entity.Supply
	// Missing ids do not exist.
	Missing []int64
}

// SupplyUsecase is the supply ledger. Reserve and Release must be called with
// a context carrying a unit of work when more than one id is involved.
type SupplyUsecase interface {
	CheckAvailability(ctx context.Context, ids []int64) (*SupplyCheck, error)
	Reserve(ctx context.Context, ids []int64) error
	Release(ctx context.Context, ids []int64) error
	Reorder(ctx context.Context, actor entity.Actor, id int64, quantity int) (*dto.ReorderResponse, error)

	GetAll(ctx context.Context) (*dto.SupplyListResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.SupplyResponse, error)
	Create(ctx context.Context, req *dto.CreateSupplyRequest) (*dto.SupplyResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateSupplyRequest) (*dto.SupplyResponse, error)
	Delete(ctx context.Context, id int64) error
	LowStock(ctx context.Context) (*dto.SupplyListResponse, error)
}

type supplyUsecase struct {
	log          *logrus.Logger
	uow          repository.UnitOfWork
	supplyRepo   repository.SupplyRepository
	auditService service.AuditService
}

func NewSupplyUsecase(
	log *logrus.Logger,
	uow repository.UnitOfWork,
	supplyRepo repository.SupplyRepository,
	auditService service.AuditService,
) SupplyUsecase {
	return &supplyUsecase{
		log:          log,
		uow:          uow,
		supplyRepo:   supplyRepo,
		auditService: auditService,
	}
}

// CheckAvailability looks every distinct id up once. An empty request
// yields an empty check.
func (u *supplyUsecase) CheckAvailability(ctx context.Context, ids []int64) (*SupplyCheck, error) {
	unique := uniqueIDs(ids)
	check := &SupplyCheck{}
	if len(unique) == 0 {
		return check, nil
	}

	supplies, err := u.supplyRepo.FindByIDs(ctx, unique)
	if err != nil {
		u.log.Warnf("Failed to find supplies %v: %+v", unique, err)
		return nil, err
	}

	found := make(map[int64]bool, len(supplies))
	for _, supply := range supplies {
		found[supply.ID] = true
		switch supply.Status() {
		case entity.SupplyStatusUnavailable:
			check.Blocking = append(check.Blocking, supply)
		case entity.SupplyStatusLowStock:
			check.Warning = append(check.Warning, supply)
		}
	}
	for _, id := range unique {
		if !found[id] {
			check.Missing = append(check.Missing, id)
		}
	}
	check.Supplies = supplies

	return check, nil
}

// Reserve takes one unit per listed id, duplicates included. Each decrement
// is conditional on stock being positive, so a concurrent booking that got
// there first makes this one fail instead of driving stock negative.
func (u *supplyUsecase) Reserve(ctx context.Context, ids []int64) error {
	return u.uow.Do(ctx, func(ctx context.Context) error {
		for _, id := range ids {
			affected, err := u.supplyRepo.DecrementIfInStock(ctx, id)
			if err != nil {
				u.log.Warnf("Failed to reserve supply %d: %+v", id, err)
				return err
			}
			if affected > 0 {
				continue
			}

			supply, err := u.supplyRepo.FindByID(ctx, id)
			if err != nil {
				u.log.Warnf("Failed to find supply %d: %+v", id, err)
				return err
			}
			if supply == nil {
				return fmt.Errorf("%w: %v", ErrUnknownSupply, []int64{id})
			}
			return &SuppliesUnavailableError{Supplies: []entity.Supply{*supply}}
		}
		return nil
	})
}

// Release returns one unit per listed id. Supplies deleted since the
// reservation are skipped.
func (u *supplyUsecase) Release(ctx context.Context, ids []int64) error {
	return u.uow.Do(ctx, func(ctx context.Context) error {
		for _, id := range ids {
			affected, err := u.supplyRepo.IncrementStock(ctx, id, 1)
			if err != nil {
				u.log.Warnf("Failed to release supply %d: %+v", id, err)
				return err
			}
			if affected == 0 {
				u.log.Warnf("Supply %d no longer exists, skipping release", id)
			}
		}
		return nil
	})
}

func (u *supplyUsecase) Reorder(ctx context.Context, actor entity.Actor, id int64, quantity int) (*dto.ReorderResponse, error) {
	if quantity <= 0 || quantity > entity.MaxStockQuantity {
		return nil, ErrInvalidQuantity
	}

	var newStock int
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		affected, err := u.supplyRepo.IncrementStock(ctx, id, quantity)
		if err != nil {
			u.log.Warnf("Failed to reorder supply %d: %+v", id, err)
			return err
		}
		if affected == 0 {
			return ErrSupplyNotFound
		}

		supply, err := u.supplyRepo.FindByID(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to find supply %d: %+v", id, err)
			return err
		}
		if supply == nil {
			return ErrSupplyNotFound
		}
		newStock = supply.CurrentStock

		return u.auditService.LogUpdate(ctx, &actor.UserID, entity.AuditActionSupplyReorder, "supply", strconv.FormatInt(id, 10),
			map[string]interface{}{"current_stock": newStock - quantity},
			map[string]interface{}{"current_stock": newStock, "quantity": quantity},
		)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Supply reordered: id=%d, quantity=%d, stock=%d", id, quantity, newStock)
	return &dto.ReorderResponse{
		Message:  "Supply reordered successfully",
		SupplyID: id,
		Quantity: quantity,
		NewStock: newStock,
	}, nil
}

func (u *supplyUsecase) GetAll(ctx context.Context) (*dto.SupplyListResponse, error) {
	supplies, err := u.supplyRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find supplies: %+v", err)
		return nil, err
	}

	return &dto.SupplyListResponse{
		Supplies: converter.SuppliesToResponses(supplies),
		Total:    len(supplies),
	}, nil
}

func (u *supplyUsecase) GetByID(ctx context.Context, id int64) (*dto.SupplyResponse, error) {
	supply, err := u.supplyRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find supply %d: %+v", id, err)
		return nil, err
	}
	if supply == nil {
		return nil, ErrSupplyNotFound
	}

	return converter.SupplyToResponse(supply), nil
}

func (u *supplyUsecase) Create(ctx context.Context, req *dto.CreateSupplyRequest) (*dto.SupplyResponse, error) {
	supply := &entity.Supply{
		Name:         req.Name,
		Description:  req.Description,
		CurrentStock: req.CurrentStock,
		MinimumStock: req.MinimumStock,
		Supplier:     req.Supplier,
	}

	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, ErrInvalidUnitPrice
		}
		supply.UnitPrice = *req.UnitPrice
	} else {
		supply.UnitPrice = decimal.Zero
	}

	expiry, err := parseExpiry(req.ExpiryDate)
	if err != nil {
		return nil, err
	}
	supply.ExpiryDate = expiry

	if err := u.supplyRepo.Create(ctx, supply); err != nil {
		u.log.Warnf("Failed to create supply: %+v", err)
		return nil, err
	}

	u.log.Infof("Supply created: id=%d, name=%s", supply.ID, supply.Name)
	return converter.SupplyToResponse(supply), nil
}

func (u *supplyUsecase) Update(ctx context.Context, id int64, req *dto.UpdateSupplyRequest) (*dto.SupplyResponse, error) {
	supply, err := u.supplyRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find supply %d: %+v", id, err)
		return nil, err
	}
	if supply == nil {
		return nil, ErrSupplyNotFound
	}

	if req.Name != nil {
		supply.Name = *req.Name
	}
	if req.Description != nil {
		supply.Description = *req.Description
	}
	if req.CurrentStock != nil {
		supply.CurrentStock = *req.CurrentStock
	}
	if req.MinimumStock != nil {
		supply.MinimumStock = *req.MinimumStock
	}
	if req.Supplier != nil {
		supply.Supplier = *req.Supplier
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, ErrInvalidUnitPrice
		}
		supply.UnitPrice = *req.UnitPrice
	}
	if req.ExpiryDate != nil {
		expiry, err := parseExpiry(*req.ExpiryDate)
		if err != nil {
			return nil, err
		}
		supply.ExpiryDate = expiry
	}

	if err := u.supplyRepo.Update(ctx, supply); err != nil {
		u.log.Warnf("Failed to update supply %d: %+v", id, err)
		return nil, err
	}

	return converter.SupplyToResponse(supply), nil
}

func (u *supplyUsecase) Delete(ctx context.Context, id int64) error {
	affected, err := u.supplyRepo.Delete(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to delete supply %d: %+v", id, err)
		return err
	}
	if affected == 0 {
		return ErrSupplyNotFound
	}

	u.log.Infof("Supply deleted: id=%d", id)
	return nil
}

func (u *supplyUsecase) LowStock(ctx context.Context) (*dto.SupplyListResponse, error) {
	supplies, err := u.supplyRepo.LowStock(ctx)
	if err != nil {
		u.log.Warnf("Failed to find low stock supplies: %+v", err)
		return nil, err
	}

	return &dto.SupplyListResponse{
		Supplies: converter.SuppliesToResponses(supplies),
		Total:    len(supplies),
	}, nil
}

// parseExpiry parses YYYY-MM-DD; an empty string means no expiry.
func parseExpiry(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	expiry, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, ErrInvalidExpiry
	}
	return &expiry, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique
}
