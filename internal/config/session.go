package config

type Session struct {
	// CacheSize bounds the number of cached sessions. The least recently
	// used one is evicted first.
	CacheSize int `env:"SESSION_CACHE_SIZE" envDefault:"10000"`
}
