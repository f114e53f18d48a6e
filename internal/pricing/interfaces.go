package pricing

import (
	"context"
	"time"
)

// Fetcher retrieves the raw markup of the pricing page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// SnapshotStore reads and writes the last committed canonical snapshot.
// Load returns the empty string when nothing has ever been stored; a
// missing remote resource is an empty baseline, not an error. Save must
// only be called after a notification was confirmed delivered.
type SnapshotStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, text string) error
}

// Hasher computes the fingerprint of a canonical snapshot.
type Hasher interface {
	Hash(text string) string
}

// Messenger delivers the change notification.
type Messenger interface {
	SendMessage(ctx context.Context, text string) error
	SendPhoto(ctx context.Context, photo []byte, caption string) error
}

// Renderer captures a named region of the source page as an image.
type Renderer interface {
	CaptureRegion(ctx context.Context, url string, selector string) ([]byte, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// Sleeper waits between delivery attempts, honoring context cancellation.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}
