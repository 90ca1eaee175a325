package ipfs

import (
	"context"
	"encoding/json"
	"sync"

	"decarpool/internal/carpool-service/core/ports"
	"decarpool/internal/mylogger"

	"github.com/google/uuid"
)

// SimulatedStore keeps snapshots in memory. A Get for an unknown id
// returns a successful-looking placeholder rather than failing; callers
// must tolerate that.
type SimulatedStore struct {
	mylog   mylogger.Logger
	mu      sync.RWMutex
	storage map[string][]byte
}

func NewSimulatedStore(mylog mylogger.Logger) ports.IContentStore {
	return &SimulatedStore{
		mylog:   mylog,
		storage: make(map[string][]byte),
	}
}

func (s *SimulatedStore) Put(ctx context.Context, data []byte) (string, error) {
	contentID := "dev-ipfs-" + uuid.NewString()[:16]

	s.mu.Lock()
	s.storage[contentID] = data
	s.mu.Unlock()

	s.mylog.Action("content_put").Info("simulated snapshot stored", "content_id", contentID)
	return contentID, nil
}

func (s *SimulatedStore) Get(ctx context.Context, contentID string) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.storage[contentID]
	s.mu.RUnlock()

	if !ok {
		s.mylog.Action("content_get").Warn("unknown content id, returning placeholder", "content_id", contentID)
		placeholder, _ := json.Marshal(map[string]string{
			"message":    "placeholder response in simulated mode",
			"content_id": contentID,
		})
		return placeholder, nil
	}
	return data, nil
}
