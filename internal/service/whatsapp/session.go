package whatsapp

import (
	"sync"
	"time"
)

const defaultMessageTTL = 24 * time.Hour

// MessageLog remembers recently handled inbound message ids so that webhook
// redeliveries do not record the same entry twice.
type MessageLog struct {
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
	mu   sync.Mutex
}

// NewMessageLog creates a log that forgets ids after ttl.
func NewMessageLog(ttl time.Duration) *MessageLog {
	if ttl <= 0 {
		ttl = defaultMessageTTL
	}
	return &MessageLog{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

// MarkNew records id and reports whether it was not seen within the ttl.
// Empty ids are always new.
func (l *MessageLog) MarkNew(id string) bool {
	if id == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, at := range l.seen {
		if now.Sub(at) > l.ttl {
			delete(l.seen, k)
		}
	}

	if _, dup := l.seen[id]; dup {
		return false
	}
	l.seen[id] = now
	return true
}

// Len is the number of remembered ids.
func (l *MessageLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}
