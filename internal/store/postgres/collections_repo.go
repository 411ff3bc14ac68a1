package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

type collectionRow struct {
	bun.BaseModel `bun:"table:collections"`

	Name      string    `bun:"name,pk"`
	Payload   string    `bun:"payload,type:jsonb,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func (r *collectionRow) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery, *bun.UpdateQuery:
		r.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// CollectionRepo stores each collection as one jsonb document.
type CollectionRepo struct {
	db *bun.DB
}

func NewCollectionRepo(db *bun.DB) *CollectionRepo {
	return &CollectionRepo{db: db}
}

func (r *CollectionRepo) Load(ctx context.Context, collection string) ([]byte, error) {
	var row collectionRow
	err := r.db.NewSelect().
		Model(&row).
		Where("name = ?", collection).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(row.Payload), nil
}

func (r *CollectionRepo) StoreAll(ctx context.Context, collection string, payload []byte) error {
	return r.InCollectionTransaction(ctx, collection, func(ctx context.Context, tx bun.Tx) error {
		row := collectionRow{Name: collection, Payload: string(payload)}
		_, err := tx.NewInsert().
			Model(&row).
			On("CONFLICT (name) DO UPDATE").
			Set("payload = EXCLUDED.payload").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return err
	})
}

// InCollectionTransaction runs fn in a transaction holding the collection's advisory
// lock, so writers to one collection from several processes are serialised.
func (r *CollectionRepo) InCollectionTransaction(ctx context.Context, collection string, fn func(ctx context.Context, tx bun.Tx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockCollection(ctx, tx, collection); err != nil {
			return err
		}
		return fn(ctx, tx)
	})
}

func lockCollection(ctx context.Context, tx bun.Tx, collection string) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", "cronos:"+collection).Exec(ctx)
	return err
}
