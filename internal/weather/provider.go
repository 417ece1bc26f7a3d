package weather

import (
	"context"
	"time"
)

// Source abstracts an upstream JSON endpoint. FetchJSON returns the decoded
// document (objects as map[string]any, arrays as []any, numbers as
// json.Number) or an error wrapping ErrUpstreamFetch.
type Source interface {
	FetchJSON(ctx context.Context, url string) (any, error)
}

// Store is the contract the in-memory delivery history (and any future
// persistent store) must satisfy.
type Store interface {
	Save(record DeliveryRecord)
	GetLatest(email string) (DeliveryRecord, error)
	GetRange(email string, from, to time.Time) ([]DeliveryRecord, error)
}
