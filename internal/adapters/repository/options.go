package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithFoldedNames makes ByName ignore case and surrounding spaces.
func WithFoldedNames(fold bool) Option {
	return func(s *MemoryStore) {
		s.fold = fold
	}
}
