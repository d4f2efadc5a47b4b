package driver

// Allocator abstracts the large vector allocations the driver makes for x,
// y and tmp (spec §5's pluggable allocator interface): a default process
// allocator, and a NUMA-node-pinned variant built per platform.
type Allocator interface {
	Alloc(n int) ([]float64, error)
}

// DefaultAllocator allocates plain Go slices, with no NUMA placement
// policy.
type DefaultAllocator struct{}

func (DefaultAllocator) Alloc(n int) ([]float64, error) {
	return make([]float64, n), nil
}
