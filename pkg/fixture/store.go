package fixture

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// maxPending bounds replies posted but never streamed.
const maxPending = 1000

var errTooManyPending = errors.New("too many pending replies")

// replyStore keeps replies between POST /api/chat and the stream request that consumes them.
type replyStore struct {
	mu      sync.Mutex
	pending map[string]string
}

func newReplyStore() *replyStore {
	return &replyStore{pending: make(map[string]string)}
}

// put saves reply and returns its id.
func (s *replyStore) put(reply string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) >= maxPending {
		return "", errTooManyPending
	}
	id := uuid.NewString()
	s.pending[id] = reply
	return id, nil
}

// take removes and returns the reply for id. A reply streams once.
func (s *replyStore) take(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reply, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	return reply, ok
}
