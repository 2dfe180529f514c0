package sim

import (
	"log/slog"

	"github.com/nbodylab/bhut/internal/force"
	"github.com/nbodylab/bhut/internal/forkjoin"
	"github.com/nbodylab/bhut/internal/pack"
)

// Config holds the simulation driver's tunables.
type Config struct {
	Iters       int
	PackCutoff  int
	ForceCutoff int
	Pool        *forkjoin.Pool
	Logger      *slog.Logger
}

// Option configures a Config.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Iters:       1,
		PackCutoff:  pack.DefaultCutoff,
		ForceCutoff: force.DefaultCutoff,
		Pool:        forkjoin.DefaultPool(),
		Logger:      slog.Default(),
	}
}

// WithIters sets how many tree-build/force/integrate passes Run performs.
func WithIters(n int) Option {
	return func(c *Config) { c.Iters = n }
}

// WithPackCutoff overrides the packer's fork-join cutoff.
func WithPackCutoff(n int) Option {
	return func(c *Config) { c.PackCutoff = n }
}

// WithForceCutoff overrides the force kernel's fork-join cutoff.
func WithForceCutoff(n int) Option {
	return func(c *Config) { c.ForceCutoff = n }
}

// WithPool overrides the fork-join pool shared by the packer and kernel.
func WithPool(p *forkjoin.Pool) Option {
	return func(c *Config) { c.Pool = p }
}

// WithLogger overrides the driver's structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}
