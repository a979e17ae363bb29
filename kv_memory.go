package ledger

// memoryKV is an in-memory substrate for tests and ephemeral runs.
// The store is single-writer by contract, so no locking is needed.
type memoryKV struct {
	data map[string][]byte
}

// NewMemoryKV creates an empty in-memory substrate.
func NewMemoryKV() KV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) Get(key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryKV) Put(key string, value []byte) error {
	// copy, callers may reuse the buffer
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *memoryKV) Del(key string) error {
	delete(m.data, key)
	return nil
}

func (m *memoryKV) Close() error { return nil }
