package reportcache

import (
	"go.uber.org/fx"
)

var Module = fx.Module("reportcache",
	fx.Provide(
		NewRedisClient,
		NewRedisStore,
		func(s *RedisStore) Store { return s },
		NewCache,
	),
)
