package melodia

import "github.com/sarthakvats/melodia/internal/resolver"

type Config struct {
	DataPath        string // CSV dataset; imported into storage when both are set
	DBPath          string // SQLite catalog database
	FuzzyCutoff     float32
	FuzzyCandidates int
	Logger          Logger
	Storage         Storage
	Enricher        Enricher
}

type Option func(*Config)

func WithDataPath(path string) Option {
	return func(c *Config) {
		c.DataPath = path
	}
}

func WithDBPath(path string) Option {
	return func(c *Config) {
		c.DBPath = path
	}
}

func WithFuzzyCutoff(cutoff float32) Option {
	return func(c *Config) {
		c.FuzzyCutoff = cutoff
	}
}

func WithFuzzyCandidates(n int) Option {
	return func(c *Config) {
		c.FuzzyCandidates = n
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithStorage(storage Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

func WithEnricher(enricher Enricher) Option {
	return func(c *Config) {
		c.Enricher = enricher
	}
}

func defaultConfig() *Config {
	return &Config{
		FuzzyCutoff:     resolver.DefaultFuzzyCutoff,
		FuzzyCandidates: resolver.DefaultFuzzyCandidates,
	}
}
