package domain

import "context"

// Database defines lifecycle operations for the embedded store that holds
// accounts, the certificate ledger and stored artifacts.
type Database interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
