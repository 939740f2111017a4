package core

import "izpack/internal/ports"

// MergeManager collects the mergeables that make up the skeleton runtime and
// merges them into an archive in the order they were added. Mergeables are
// compared by identity, so adapters hand out pointers.
type MergeManager struct {
	mergeables []ports.Mergeable
	seen       map[ports.Mergeable]struct{}
}

func NewMergeManager() *MergeManager {
	return &MergeManager{seen: make(map[ports.Mergeable]struct{})}
}

// Add registers a mergeable. Nil and already registered mergeables are ignored.
func (m *MergeManager) Add(mergeable ports.Mergeable) {
	if mergeable == nil {
		return
	}
	if _, ok := m.seen[mergeable]; ok {
		return
	}
	m.seen[mergeable] = struct{}{}
	m.mergeables = append(m.mergeables, mergeable)
}

func (m *MergeManager) Len() int {
	return len(m.mergeables)
}

// Merge offers every registered mergeable to target. The first offer of an
// entry name wins.
func (m *MergeManager) Merge(target ports.MergeTarget) error {
	for _, mergeable := range m.mergeables {
		if err := mergeable.Merge(target); err != nil {
			return err
		}
	}
	return nil
}
