package testutil

// FixedIDGenerator returns the same notebook id every time.
//
// Stores opened with it produce byte-identical journals across runs,
// which golden trace comparison relies on.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator returning id.
// If id is empty, Generate() returns "test-notebook".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-notebook"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed id.
//
// Implements store.IDGenerator.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
