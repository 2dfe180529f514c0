package force

import "github.com/nbodylab/bhut/internal/forkjoin"

// Default magic constants for the force kernel. The opening and
// softening thresholds come straight from the benchmark this kernel
// reproduces; the cutoff below which CalcAccelParallel gives up forking
// and falls back to CalcAccel has no single canonical value in the
// source this is grounded on, so a conservative default is chosen here
// and left fully overridable via WithCutoff.
const (
	DefaultOpenDistSq    = 0.01
	DefaultSofteningDist = 0.05
	DefaultCutoff        = 1024
)

// Config holds the kernel's tunables.
type Config struct {
	// OpenDistSq is the squared-distance opening threshold: a query
	// point closer than this to a node's centroid forces that node open
	// rather than treated as one aggregate body.
	OpenDistSq float64
	// SofteningDist is the minimum separation below which acceleration
	// is clamped to zero, avoiding a singularity at r == 0.
	SofteningDist float64
	// Cutoff is the subtree element count below which
	// CalcAccelParallel stops forking and falls back fully to CalcAccel.
	Cutoff int
	Pool   *forkjoin.Pool
}

// Option configures a Config.
type Option func(*Config)

// DefaultConfig returns the kernel's default tunables.
func DefaultConfig() Config {
	return Config{
		OpenDistSq:    DefaultOpenDistSq,
		SofteningDist: DefaultSofteningDist,
		Cutoff:        DefaultCutoff,
		Pool:          forkjoin.DefaultPool(),
	}
}

// WithOpenDistSq overrides the opening threshold.
func WithOpenDistSq(v float64) Option {
	return func(c *Config) { c.OpenDistSq = v }
}

// WithSofteningDist overrides the softening threshold.
func WithSofteningDist(v float64) Option {
	return func(c *Config) { c.SofteningDist = v }
}

// WithCutoff overrides the parallel-recursion cutoff.
func WithCutoff(n int) Option {
	return func(c *Config) { c.Cutoff = n }
}

// WithPool overrides the fork-join pool CalcAccelParallel forks into.
func WithPool(p *forkjoin.Pool) Option {
	return func(c *Config) { c.Pool = p }
}
