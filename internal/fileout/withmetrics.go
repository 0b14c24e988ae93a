package fileout

import "context"

type storeObserver interface {
	IncObjectsRead()
	IncStoreErrors(operation string)
}

type MeteredStore struct {
	store ObjectStore
	out   ObjectWriter
	obs   storeObserver
}

// WithMetrics wraps a full store (read and write side) so every call reports
// its outcome to the operational metrics.
func WithMetrics(store ObjectStore, out ObjectWriter, obs storeObserver) *MeteredStore {
	return &MeteredStore{store: store, out: out, obs: obs}
}

func (m *MeteredStore) ListAll(ctx context.Context, bucket, prefix string) ([]string, error) {
	keys, err := m.store.ListAll(ctx, bucket, prefix)
	if err != nil && m.obs != nil {
		m.obs.IncStoreErrors("list")
	}
	return keys, err
}

func (m *MeteredStore) ReadChatPage(ctx context.Context, bucket, key string) ([]map[string]any, error) {
	items, err := m.store.ReadChatPage(ctx, bucket, key)
	if err != nil {
		if m.obs != nil {
			m.obs.IncStoreErrors("read")
		}
		return nil, err
	}
	if m.obs != nil {
		m.obs.IncObjectsRead()
	}
	return items, nil
}

func (m *MeteredStore) PutCSV(ctx context.Context, bucket, key, body string, tags map[string]string) error {
	err := m.out.PutCSV(ctx, bucket, key, body, tags)
	if err != nil && m.obs != nil {
		m.obs.IncStoreErrors("put")
	}
	return err
}
