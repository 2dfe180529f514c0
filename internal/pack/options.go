package pack

import "github.com/nbodylab/bhut/internal/forkjoin"

// DefaultCutoff is the subtree-size threshold below which ParallelPack
// falls back to the fully sequential Pack, matching the default used by
// the original benchmark driver this design is grounded on.
const DefaultCutoff = 65536

// Config holds ParallelPack's tunables.
type Config struct {
	Cutoff int
	Pool   *forkjoin.Pool
}

// Option configures a Config.
type Option func(*Config)

func defaultConfig() Config {
	return Config{Cutoff: DefaultCutoff, Pool: forkjoin.DefaultPool()}
}

// WithCutoff overrides the subtree size below which building continues
// sequentially in the current goroutine rather than forking further.
func WithCutoff(n int) Option {
	return func(c *Config) { c.Cutoff = n }
}

// WithPool overrides the fork-join pool a parallel build forks into.
func WithPool(p *forkjoin.Pool) Option {
	return func(c *Config) { c.Pool = p }
}
