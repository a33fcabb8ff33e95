package textmodel

// DefaultLineCapacity is the initial capacity of the line sequence.
const DefaultLineCapacity = 50

// Option configures a Model during creation.
type Option func(*Model)

// WithSyncMode selects the synchronization mode. The default is ReaderWriter.
func WithSyncMode(mode SyncMode) Option {
	return func(m *Model) {
		m.mode = mode
	}
}

// WithThreadSafe is shorthand for WithSyncMode(ReaderWriter) or
// WithSyncMode(Unsynchronized).
func WithThreadSafe(enabled bool) Option {
	if enabled {
		return WithSyncMode(ReaderWriter)
	}
	return WithSyncMode(Unsynchronized)
}

// WithIndexer replaces the default CachedIndexer. The factory receives the
// model's lock-free view.
func WithIndexer(factory func(View) Indexer) Option {
	return func(m *Model) {
		if factory != nil {
			m.indexerFactory = factory
		}
	}
}

// WithIndexerOptions configures the default CachedIndexer.
func WithIndexerOptions(opts ...IndexerOption) Option {
	return func(m *Model) {
		m.indexerOpts = append(m.indexerOpts, opts...)
	}
}

// WithLineEnding sets the separator used by WriteTo and DefaultText.
func WithLineEnding(le LineEnding) Option {
	return func(m *Model) {
		m.lineEnding = le
	}
}

// WithLineCapacity presizes the line sequence.
func WithLineCapacity(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.lineCapacity = n
		}
	}
}
