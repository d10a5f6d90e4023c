package config

// Environment variables that override deployment settings.
const (
	EnvAddr         = "DRIFTGRID_ADDR"
	EnvCacheBackend = "DRIFTGRID_CACHE_BACKEND"
	EnvCacheDir     = "DRIFTGRID_CACHE_DIR"
	EnvRedisURL     = "DRIFTGRID_REDIS_URL"
	EnvMongoURI     = "DRIFTGRID_MONGO_URI"
)

// ApplyEnv returns f with environment overrides applied. lookup is usually
// os.LookupEnv. Set but empty variables count as set.
func ApplyEnv(f File, lookup func(string) (string, bool)) File {
	overrides := []struct {
		env string
		dst *string
	}{
		{EnvAddr, &f.Server.Addr},
		{EnvCacheBackend, &f.Cache.Backend},
		{EnvCacheDir, &f.Cache.Dir},
		{EnvRedisURL, &f.Cache.RedisURL},
		{EnvMongoURI, &f.Cache.MongoURI},
	}
	for _, o := range overrides {
		if v, ok := lookup(o.env); ok {
			*o.dst = v
		}
	}
	return f
}
