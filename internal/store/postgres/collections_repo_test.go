package postgres

import (
	"context"
	"testing"

	"github.com/uptrace/bun"
)

func TestCollectionRow_BeforeAppendModelStampsUpdatedAt(t *testing.T) {
	row := collectionRow{Name: "clients", Payload: "[]"}
	if err := row.BeforeAppendModel(context.Background(), &bun.InsertQuery{}); err != nil {
		t.Fatalf("BeforeAppendModel error: %v", err)
	}
	if row.UpdatedAt.IsZero() {
		t.Fatalf("updated_at not set on insert")
	}

	row = collectionRow{Name: "clients"}
	if err := row.BeforeAppendModel(context.Background(), &bun.SelectQuery{}); err != nil {
		t.Fatalf("BeforeAppendModel error: %v", err)
	}
	if !row.UpdatedAt.IsZero() {
		t.Fatalf("updated_at set on select")
	}
}

func TestExtractGooseUp(t *testing.T) {
	up, err := extractGooseUp("-- +goose Up\nCREATE TABLE a (id int);\n-- +goose Down\nDROP TABLE a;\n")
	if err != nil {
		t.Fatalf("extractGooseUp error: %v", err)
	}
	if up != "CREATE TABLE a (id int);" {
		t.Fatalf("up = %q", up)
	}
	if _, err := extractGooseUp("CREATE TABLE a (id int);"); err == nil {
		t.Fatalf("expected error without goose marker")
	}
}
