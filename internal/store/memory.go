package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/i474232898/weather-mailer/internal/weather"
)

var (
	// ErrNotFound is returned when no deliveries are recorded for a recipient.
	ErrNotFound = errors.New("no deliveries for recipient")
)

// DeliveryHistory holds a time-ordered list of delivery records for a recipient.
type DeliveryHistory struct {
	Records []weather.DeliveryRecord
}

// MemoryStore is a concurrency-safe in-memory implementation of the delivery store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: normalized email, value: history
	data map[string]*DeliveryHistory

	// retention configuration
	maxHistory int           // max number of records per recipient
	maxAge     time.Duration // optional max age for records

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*DeliveryHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

func key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Save appends a record for its recipient and enforces retention.
func (s *MemoryStore) Save(record weather.DeliveryRecord) {
	k := key(record.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[k]
	if !ok {
		history = &DeliveryHistory{}
		s.data[k] = history
	}

	history.Records = append(history.Records, record)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Records) > s.maxHistory {
		over := len(history.Records) - s.maxHistory
		history.Records = history.Records[over:]
	}

	// Enforce retention by age; the newest record is always kept.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Records)-1; i++ {
			if !history.Records[i].Timestamp.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			history.Records = history.Records[i:]
		}
	}
}

// GetLatest returns the most recent record for a recipient.
func (s *MemoryStore) GetLatest(email string) (weather.DeliveryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key(email)]
	if !ok || len(history.Records) == 0 {
		return weather.DeliveryRecord{}, ErrNotFound
	}
	return history.Records[len(history.Records)-1], nil
}

// GetRange returns all records for a recipient between from and to (inclusive).
func (s *MemoryStore) GetRange(email string, from, to time.Time) ([]weather.DeliveryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key(email)]
	if !ok || len(history.Records) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.DeliveryRecord
	for _, rec := range history.Records {
		if !rec.Timestamp.Before(from) && !rec.Timestamp.After(to) {
			result = append(result, rec)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}
