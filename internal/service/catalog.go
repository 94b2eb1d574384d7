package service

import (
	"context"
	"strings"

	"kal-storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrInvalidItem = errors.New("invalid catalog item")

type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// List returns the catalog in stored order, optionally restricted to one category.
func (s *CatalogService) List(ctx context.Context, category domain.Category) ([]domain.CatalogItem, error) {
	if category != "" && !category.Valid() {
		return nil, errors.Wrapf(domain.ErrUnknownCategory, "%q", category)
	}
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return items, nil
	}
	filtered := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if item.Category == category {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (s *CatalogService) Highlights(ctx context.Context) ([]domain.CatalogItem, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	popular := make([]domain.CatalogItem, 0)
	for _, item := range items {
		if item.Popular {
			popular = append(popular, item)
		}
	}
	return popular, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.CatalogItem, error) {
	return s.repo.GetItem(ctx, id)
}

// Save inserts the item when its id is new and replaces it otherwise.
func (s *CatalogService) Save(ctx context.Context, item *domain.CatalogItem) (bool, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.Description = strings.TrimSpace(item.Description)
	switch {
	case item.Name == "":
		return false, errors.Wrap(ErrInvalidItem, "name is required")
	case item.Price.IsNegative():
		return false, errors.Wrap(ErrInvalidItem, "price must not be negative")
	case !item.Category.Valid():
		return false, errors.Wrapf(ErrInvalidItem, "unknown category %q", item.Category)
	}
	if strings.TrimSpace(item.ID) == "" {
		item.ID = uuid.NewString()
	}
	item.Price = item.Price.Round(2)
	return s.repo.SaveItem(ctx, item)
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	affected, err := s.repo.DeleteItem(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (s *CatalogService) UpdateImage(ctx context.Context, id, imageURL string) error {
	return s.repo.UpdateItemImage(ctx, id, imageURL)
}

var _ CatalogServiceInterface = (*CatalogService)(nil)
