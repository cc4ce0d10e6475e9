package history

import "sync"

// MemoryRecorder keeps standings in process memory.
type MemoryRecorder struct {
	mu      sync.Mutex
	records []*Record
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (m *MemoryRecorder) Save(record *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *MemoryRecorder) Records() []*Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]*Record, len(m.records))
	copy(records, m.records)
	return records
}
