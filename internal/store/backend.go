package store

import "context"

const (
	CollectionAppointments = "appointments"
	CollectionClients      = "clients"
	CollectionServices     = "services"
	CollectionProviders    = "providers"
	CollectionAvailability = "availability"
	CollectionExceptions   = "exceptions"
	CollectionEvents       = "events"
	CollectionFormConfig   = "form_config"
	CollectionTransactions = "transactions"
)

// Backend persists whole collections as JSON documents. Load returns nil and no
// error for a collection that was never stored.
type Backend interface {
	Load(ctx context.Context, collection string) ([]byte, error)
	StoreAll(ctx context.Context, collection string, payload []byte) error
}
