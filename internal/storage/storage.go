package storage

import (
	"context"

	"brt/internal/storage/models"
)

// Storage defines the interface for settings persistence. Action-log entries
// are never stored.
type Storage interface {
	// Settings operations
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
	GetAllSettings(ctx context.Context) (map[string]string, error)
	ListSettings(ctx context.Context) ([]*models.Setting, error)

	// Transactions
	BeginTx(ctx context.Context) (Transaction, error)

	// Close closes the storage connection
	Close() error
}

// Transaction represents a database transaction
type Transaction interface {
	Commit() error
	Rollback() error
	Storage
}
