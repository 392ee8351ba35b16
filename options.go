package river

// Config adjusts the behavior of devices and combinators that need sizing
// knobs — buffer capacities, default chunk sizes. Mirrors the teacher's
// context.Config, generalized into a functional-options surface since this
// library has no process lifecycle to carry a struct literal through.
type Config struct {
	BufferSize int
	ChunkSize  int
}

// DefaultConfig matches the teacher's defaults (context.DefaultConfig):
// a modest read-ahead buffer and a 1024-byte default chunk size for
// string/buffer devices.
var DefaultConfig = Config{
	BufferSize: 1000,
	ChunkSize:  1024,
}

// Option mutates a Config in place.
type Option func(*Config)

// WithBufferSize overrides the read-ahead/producer-consumer capacity used
// by Buffer and the queue device. Fan-out's per-branch queues are
// unbounded (spec §4.4.2 gives no depth to cap) and are unaffected.
func WithBufferSize(n int) Option {
	return func(c *Config) { c.BufferSize = n }
}

// WithChunkSize overrides the default chunk size used by the string/buffer
// devices.
func WithChunkSize(n int) Option {
	return func(c *Config) { c.ChunkSize = n }
}

// Apply resolves a Config from DefaultConfig plus the given options.
func Apply(opts ...Option) Config {
	cfg := DefaultConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
