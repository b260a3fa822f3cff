package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/swiftbasket/backend/internal/domain/catalog"
	"github.com/swiftbasket/backend/internal/domain/identity"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StoreService handles storefront operations
type StoreService struct {
	storeRepo catalog.StoreRepository
	userRepo  identity.UserRepository
	logger    *zap.Logger
}

// NewStoreService creates a new StoreService
func NewStoreService(
	storeRepo catalog.StoreRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *StoreService {
	return &StoreService{
		storeRepo: storeRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// Create opens the vendor's store. Each vendor may own exactly one store;
// the store.created event is saved in the same transaction and later
// fans out to the vendor email and the launch post.
func (s *StoreService) Create(ctx context.Context, ownerID uuid.UUID, req CreateStoreRequest) (*StoreResponse, error) {
	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, err
	}
	if !owner.IsVendor() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only vendors can open a store")
	}

	exists, err := s.storeRepo.ExistsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Each vendor may only own one store")
	}

	store, err := catalog.NewStore(ownerID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	store.AddDomainEvent(catalog.NewStoreCreatedEvent(store, owner.Username, owner.Email))
	if err := s.storeRepo.CreateWithEvents(ctx, store, store.GetDomainEvents()); err != nil {
		s.logger.Error("Failed to create store",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err))
		return nil, err
	}
	store.ClearDomainEvents()

	s.logger.Info("Store created",
		zap.String("store_id", store.ID.String()),
		zap.String("owner_id", ownerID.String()),
		zap.String("name", store.Name))

	response := ToStoreResponse(store)
	return &response, nil
}

// Update edits the store's display metadata
func (s *StoreService) Update(ctx context.Context, ownerID uuid.UUID, req UpdateStoreRequest) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if err := store.Update(req.Name, req.Description); err != nil {
		return nil, err
	}

	if err := s.storeRepo.Update(ctx, store); err != nil {
		return nil, err
	}

	response := ToStoreResponse(store)
	return &response, nil
}

// GetByID retrieves a store by ID
func (s *StoreService) GetByID(ctx context.Context, storeID uuid.UUID) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	response := ToStoreResponse(store)
	return &response, nil
}

// GetByOwner retrieves the vendor's own store
func (s *StoreService) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	response := ToStoreResponse(store)
	return &response, nil
}

// List retrieves stores with filtering and pagination
func (s *StoreService) List(ctx context.Context, filter StoreListFilter) ([]StoreResponse, int64, error) {
	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	stores, err := s.storeRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.storeRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return ToStoreResponses(stores), total, nil
}
