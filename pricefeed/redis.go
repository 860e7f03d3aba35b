package pricefeed

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const priceKeyPrefix = "prices:"

// RedisSource reads provider quotes published by the scraper as hashes,
// one per provider: HSET prices:rapido Bike 46 Auto 85 ...
type RedisSource struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisSource(client *redis.Client, logger *slog.Logger) *RedisSource {
	return &RedisSource{client: client, logger: logger}
}

func (s *RedisSource) Prices(ctx context.Context) Snapshot {
	snap := Snapshot{}
	for _, provider := range []string{ProviderRapido, ProviderUber} {
		fields, err := s.client.HGetAll(ctx, priceKeyPrefix+provider).Result()
		if err != nil {
			s.logger.WarnContext(ctx, "price feed read failed, using defaults",
				"provider", provider, "error", err)
			return Defaults()
		}
		quotes := map[string]int{}
		for mode, raw := range fields {
			price, err := strconv.Atoi(raw)
			if err != nil {
				continue
			}
			quotes[mode] = CorrectPrice(mode, price)
		}
		snap[provider] = quotes
	}
	return snap
}
