package cart

import "context"

// SnapshotStore keeps a session's lines beyond process memory.
type SnapshotStore interface {
	Load(ctx context.Context, key string) ([]LineItem, error)
	Save(ctx context.Context, key string, lines []LineItem) error
	Delete(ctx context.Context, key string) error
}
