package allocator

// Config configures a Pool at construction time.
type Config struct {
	// Reporter receives one-line diagnostics for non-error conditions
	// (OutOfMemory, NullFree, DoubleFree) and for Corruption alongside the
	// returned error. Defaults to writing to os.Stdout.
	Reporter Reporter

	// PoolSize is the total number of bytes in the arena, P in the design.
	PoolSize uintptr

	// Alignment is A in the design: payload sizes and payload addresses
	// are rounded up to a multiple of this value. Must be a power of two.
	Alignment uintptr

	// Magic is the 32-bit sentinel tag M stamped into every header.
	Magic uint32
}

// Option mutates a Config during construction.
type Option func(*Config)

// defaultConfig returns the spec's defaults: P = 65536, A = 8, M = 0xDEADBEEF.
func defaultConfig() *Config {
	return &Config{
		PoolSize:  65536,
		Alignment: 8,
		Magic:     0xDEADBEEF,
		Reporter:  stdoutReporter,
	}
}

// WithPoolSize sets the total arena size in bytes.
func WithPoolSize(size uintptr) Option {
	return func(c *Config) { c.PoolSize = size }
}

// WithAlignment sets the alignment in bytes. Must be a power of two.
func WithAlignment(alignment uintptr) Option {
	return func(c *Config) { c.Alignment = alignment }
}

// WithMagic overrides the header magic tag.
func WithMagic(magic uint32) Option {
	return func(c *Config) { c.Magic = magic }
}

// WithReporter overrides the diagnostic sink. A nil reporter disables
// diagnostics entirely.
func WithReporter(r Reporter) Option {
	return func(c *Config) { c.Reporter = r }
}

// alignUp rounds size up to the nearest multiple of alignment.
func alignUp(size, alignment uintptr) uintptr {
	return (size + alignment - 1) &^ (alignment - 1)
}
