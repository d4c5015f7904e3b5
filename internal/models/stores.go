package models

import (
	"context"
	"time"
)

// RecordFilter narrows store listings for the stats aggregation. An empty
// AppID matches every app; nil bounds leave the window open.
type RecordFilter struct {
	AppID string
	Start *time.Time
	End   *time.Time
}

// Match reports whether a record with the given app id and creation time
// falls inside the filter.
func (f *RecordFilter) Match(appID string, createdAt time.Time) bool {
	if f.AppID != "" && f.AppID != appID {
		return false
	}
	if f.Start != nil && createdAt.Before(*f.Start) {
		return false
	}
	if f.End != nil && createdAt.After(*f.End) {
		return false
	}
	return true
}

// LeadStore is the append-only record of track events.
type LeadStore interface {
	// Insert persists a new lead and fills in its ID and CreatedAt.
	Insert(ctx context.Context, lead *LeadRecord) error
	// FindLatest returns the newest lead whose (app_id, ip, fingerprint)
	// equals the given tuple exactly, or nil when none exists. Ties on
	// CreatedAt are broken by the greater insertion ID.
	FindLatest(ctx context.Context, appID, ip, fingerprint string) (*LeadRecord, error)
	// List returns the leads matching the filter in insertion order.
	List(ctx context.Context, filter RecordFilter) ([]*LeadRecord, error)
	Count(ctx context.Context) (int64, error)
}

// CheckStore records the outcome of every check event.
type CheckStore interface {
	Insert(ctx context.Context, check *CheckRecord) error
	List(ctx context.Context, filter RecordFilter) ([]*CheckRecord, error)
	Count(ctx context.Context) (int64, error)
}

// MappingStore holds the two static key->value tables the tracking core
// performs point reads against. Get methods return nil when the key is
// absent; absence is not an error.
type MappingStore interface {
	UpsertAppMapping(ctx context.Context, appID, url string) (*AppMapping, error)
	GetAppMapping(ctx context.Context, appID string) (*AppMapping, error)
	ListAppMappings(ctx context.Context) ([]*AppMapping, error)

	UpsertPixelToken(ctx context.Context, pixel, token string) (*PixelTokenBinding, error)
	GetPixelToken(ctx context.Context, pixel string) (*PixelTokenBinding, error)
	ListPixelTokens(ctx context.Context) ([]*PixelTokenBinding, error)
}
