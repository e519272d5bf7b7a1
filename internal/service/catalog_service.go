package service

import (
	"context"
	"errors"
	"strings"

	"backend/internal/authz"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit entity type tags for the catalog entities.
const (
	EntityLocation = "location"
	EntitySupplier = "supplier"
)

type LocationInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type SupplierInput struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

// LocationService and SupplierService are thin pass-through CRUD layers.
type LocationService interface {
	List(ctx context.Context, page, limit int) ([]model.Location, int64, error)
	Get(ctx context.Context, id string) (*model.Location, error)
	Create(ctx context.Context, actor authz.Actor, input LocationInput) (*model.Location, error)
	Update(ctx context.Context, actor authz.Actor, id string, input LocationInput) (*model.Location, error)
	Delete(ctx context.Context, actor authz.Actor, id string) error
}

type locationService struct {
	repo      repository.LocationRepository
	audit     AuditService
	txManager repository.TransactionManager
}

func NewLocationService(repo repository.LocationRepository, audit AuditService, txManager repository.TransactionManager) LocationService {
	return &locationService{repo: repo, audit: audit, txManager: txManager}
}

func (s *locationService) List(ctx context.Context, page, limit int) ([]model.Location, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	locations, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, apperror.Persistence("failed to list locations", err)
	}
	return locations, total, nil
}

func (s *locationService) Get(ctx context.Context, id string) (*model.Location, error) {
	locID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid_id", "invalid location id")
	}
	loc, err := s.repo.FindByID(ctx, locID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("location_not_found", "location not found")
		}
		return nil, apperror.Persistence("failed to load location", err)
	}
	return loc, nil
}

func (s *locationService) Create(ctx context.Context, actor authz.Actor, input LocationInput) (*model.Location, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.Validation("name_required", "name must not be empty")
	}

	loc := &model.Location{Name: strings.TrimSpace(input.Name), Description: input.Description}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.repo.Create(txCtx, loc); createErr != nil {
			return apperror.Persistence("failed to create location", createErr)
		}
		return s.audit.Record(txCtx, actorString(actor.ID), model.AuditActionCreate, EntityLocation, loc.ID.String(), map[string]interface{}{"name": loc.Name})
	})
	if err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *locationService) Update(ctx context.Context, actor authz.Actor, id string, input LocationInput) (*model.Location, error) {
	loc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) != "" {
		loc.Name = strings.TrimSpace(input.Name)
	}
	if input.Description != "" {
		loc.Description = input.Description
	}
	if err := s.repo.Update(ctx, loc); err != nil {
		return nil, apperror.Persistence("failed to update location", err)
	}
	return loc, nil
}

func (s *locationService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.Require(actor, authz.ActionDelete); err != nil {
		return err
	}
	locID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid_id", "invalid location id")
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		deleted, delErr := s.repo.Delete(txCtx, locID)
		if delErr != nil {
			return apperror.Persistence("failed to delete location", delErr)
		}
		if !deleted {
			return apperror.NotFound("location_not_found", "location not found")
		}
		return s.audit.Record(txCtx, actorString(actor.ID), model.AuditActionDelete, EntityLocation, locID.String(), nil)
	})
}

type SupplierService interface {
	List(ctx context.Context, search string, page, limit int) ([]model.Supplier, int64, error)
	Get(ctx context.Context, id string) (*model.Supplier, error)
	Create(ctx context.Context, actor authz.Actor, input SupplierInput) (*model.Supplier, error)
	Update(ctx context.Context, actor authz.Actor, id string, input SupplierInput) (*model.Supplier, error)
	Delete(ctx context.Context, actor authz.Actor, id string) error
}

type supplierService struct {
	repo      repository.SupplierRepository
	audit     AuditService
	txManager repository.TransactionManager
}

func NewSupplierService(repo repository.SupplierRepository, audit AuditService, txManager repository.TransactionManager) SupplierService {
	return &supplierService{repo: repo, audit: audit, txManager: txManager}
}

func (s *supplierService) List(ctx context.Context, search string, page, limit int) ([]model.Supplier, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	suppliers, total, err := s.repo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, apperror.Persistence("failed to list suppliers", err)
	}
	return suppliers, total, nil
}

func (s *supplierService) Get(ctx context.Context, id string) (*model.Supplier, error) {
	supID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid_id", "invalid supplier id")
	}
	sup, err := s.repo.FindByID(ctx, supID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("supplier_not_found", "supplier not found")
		}
		return nil, apperror.Persistence("failed to load supplier", err)
	}
	return sup, nil
}

func (s *supplierService) Create(ctx context.Context, actor authz.Actor, input SupplierInput) (*model.Supplier, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.Validation("name_required", "name must not be empty")
	}

	sup := &model.Supplier{
		Name:          strings.TrimSpace(input.Name),
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Email:         input.Email,
		Address:       input.Address,
		IsActive:      true,
	}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.repo.Create(txCtx, sup); createErr != nil {
			return apperror.Persistence("failed to create supplier", createErr)
		}
		return s.audit.Record(txCtx, actorString(actor.ID), model.AuditActionCreate, EntitySupplier, sup.ID.String(), map[string]interface{}{"name": sup.Name})
	})
	if err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *supplierService) Update(ctx context.Context, actor authz.Actor, id string, input SupplierInput) (*model.Supplier, error) {
	sup, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) != "" {
		sup.Name = strings.TrimSpace(input.Name)
	}
	if input.ContactPerson != "" {
		sup.ContactPerson = input.ContactPerson
	}
	if input.Phone != "" {
		sup.Phone = input.Phone
	}
	if input.Email != "" {
		sup.Email = input.Email
	}
	if input.Address != "" {
		sup.Address = input.Address
	}
	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, apperror.Persistence("failed to update supplier", err)
	}
	return sup, nil
}

func (s *supplierService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.Require(actor, authz.ActionDelete); err != nil {
		return err
	}
	supID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid_id", "invalid supplier id")
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		deleted, delErr := s.repo.Delete(txCtx, supID)
		if delErr != nil {
			return apperror.Persistence("failed to delete supplier", delErr)
		}
		if !deleted {
			return apperror.NotFound("supplier_not_found", "supplier not found")
		}
		return s.audit.Record(txCtx, actorString(actor.ID), model.AuditActionDelete, EntitySupplier, supID.String(), nil)
	})
}
