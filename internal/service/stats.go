package service

import (
	"context"

	"kal-storefront/internal/domain"
)

const topItemsLimit = 5

type StatsService struct {
	stats   StatsStore
	catalog CatalogRepository
}

func NewStatsService(stats StatsStore, catalog CatalogRepository) *StatsService {
	return &StatsService{stats: stats, catalog: catalog}
}

func (s *StatsService) Stats(ctx context.Context) (*domain.OrderStats, error) {
	counts, err := s.stats.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.stats.TopItems(ctx, topItemsLimit)
	if err != nil {
		return nil, err
	}
	items, err := s.catalog.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = map[domain.OrderStatus]int64{}
	}
	for _, status := range domain.OrderStatuses {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}
	return &domain.OrderStats{OrdersByStatus: counts, TopItems: top, CatalogSize: len(items)}, nil
}

var _ StatsServiceInterface = (*StatsService)(nil)
