package align

import (
	"sync"

	"github.com/cwbudde/algo-grain/internal/cpu"
)

// KernelEntry is one registered residual implementation.
type KernelEntry struct {
	// Name identifies the implementation in logs and tests.
	Name string
	// SIMDLevel is the instruction set the entry needs.
	SIMDLevel cpu.SIMDLevel
	// Priority orders compatible entries, higher first.
	Priority int
	// Backend is the strategy a Searcher instantiates for this entry.
	Backend Backend
}

// KernelRegistry selects the residual backend for BackendAuto.
type KernelRegistry struct {
	mu      sync.RWMutex
	entries []KernelEntry
	sorted  bool
}

// Kernels is the registry consulted by BackendAuto.
var Kernels = &KernelRegistry{}

func init() {
	Kernels.Register(KernelEntry{Name: "reference", SIMDLevel: cpu.SIMDNone, Priority: 0, Backend: BackendReference})
	Kernels.Register(KernelEntry{Name: "simd-sse2", SIMDLevel: cpu.SIMDSSE2, Priority: 10, Backend: BackendSIMD})
	Kernels.Register(KernelEntry{Name: "simd-neon", SIMDLevel: cpu.SIMDNEON, Priority: 10, Backend: BackendSIMD})
}

// Register adds an entry.
func (r *KernelRegistry) Register(entry KernelEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	r.sorted = false
}

// Lookup returns the highest-priority entry supported by features, or nil.
func (r *KernelRegistry) Lookup(features cpu.Features) *KernelEntry {
	r.mu.Lock()
	if !r.sorted {
		r.sortByPriority()
		r.sorted = true
	}
	r.mu.Unlock()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		entry := &r.entries[i]
		if cpu.Supports(features, entry.SIMDLevel) {
			return entry
		}
	}

	return nil
}

func (r *KernelRegistry) sortByPriority() {
	for i := 1; i < len(r.entries); i++ {
		key := r.entries[i]
		j := i - 1
		for j >= 0 && r.entries[j].Priority < key.Priority {
			r.entries[j+1] = r.entries[j]
			j--
		}
		r.entries[j+1] = key
	}
}

// ListEntries returns a copy of the entries.
func (r *KernelRegistry) ListEntries() []KernelEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]KernelEntry, len(r.entries))
	copy(entries, r.entries)
	return entries
}
