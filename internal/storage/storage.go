package storage

import "kal-storefront/internal/service"

var (
	_ service.CatalogRepository  = (*PostgresRepository)(nil)
	_ service.SettingsRepository = (*PostgresRepository)(nil)
	_ service.OrderRepository    = (*PostgresRepository)(nil)
	_ service.CartRepository     = (*RedisCartStore)(nil)
	_ service.StatsStore         = (*RedisStatsStore)(nil)
	_ service.EventPublisher     = (*KafkaPublisher)(nil)

	_ service.CatalogRepository  = (*MemoryStore)(nil)
	_ service.SettingsRepository = (*MemoryStore)(nil)
	_ service.OrderRepository    = (*MemoryStore)(nil)
	_ service.CartRepository     = (*MemoryStore)(nil)
	_ service.StatsStore         = (*MemoryStore)(nil)
)
