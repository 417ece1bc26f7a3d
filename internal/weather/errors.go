package weather

import "errors"

var (
	// ErrUpstreamFetch wraps failures retrieving now or forecast data.
	ErrUpstreamFetch = errors.New("upstream fetch failed")
	// ErrSend wraps transport failures dispatching the composed email.
	ErrSend = errors.New("send failed")
	// ErrNoRecipients is returned when a cycle is started with an empty list.
	ErrNoRecipients = errors.New("no recipients configured")
)
