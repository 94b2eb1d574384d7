package service

import (
	"context"
	"strings"
	"time"

	"kal-storefront/internal/domain"

	"github.com/pkg/errors"
)

var ErrSessionRequired = errors.New("session id is required")

type CartService struct {
	carts   CartRepository
	catalog CatalogRepository
	now     func() time.Time

	// locks serialise load-mutate-save per session. OrderService shares
	// them so checkout and cart edits never interleave.
	locks *SessionLocks
}

func NewCartService(carts CartRepository, catalog CatalogRepository, locks *SessionLocks) *CartService {
	if locks == nil {
		locks = NewSessionLocks()
	}
	return &CartService{carts: carts, catalog: catalog, now: time.Now, locks: locks}
}

func (s *CartService) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionRequired
	}
	return s.carts.LoadCart(ctx, sessionID)
}

func (s *CartService) Add(ctx context.Context, sessionID, itemID string, quantity int) (*domain.Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionRequired
	}
	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, func(cart *domain.Cart) {
		cart.AddItem(*item, quantity)
	})
}

func (s *CartService) Remove(ctx context.Context, sessionID, itemID string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(cart *domain.Cart) {
		cart.RemoveItem(itemID)
	})
}

func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, itemID string, delta int) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(cart *domain.Cart) {
		cart.UpdateQuantity(itemID, delta)
	})
}

func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrSessionRequired
	}
	defer s.locks.Lock(sessionID)()
	return s.carts.DeleteCart(ctx, sessionID)
}

func (s *CartService) mutate(ctx context.Context, sessionID string, apply func(*domain.Cart)) (*domain.Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionRequired
	}

	defer s.locks.Lock(sessionID)()

	cart, err := s.carts.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	apply(cart)
	cart.UpdatedAt = s.now()
	if err := s.carts.SaveCart(ctx, cart); err != nil {
		return nil, errors.Wrap(err, "save cart")
	}
	return cart, nil
}

var _ CartServiceInterface = (*CartService)(nil)
