package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/storefront-golang/internal/database"
	"github.com/01moynul/storefront-golang/internal/models"
)

type fixture struct {
	*Store
	ctx           context.Context
	uncategorized int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	db, err := database.OpenDB(filepath.Join(t.TempDir(), "store.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, database.Migrate(ctx, db, log))
	uncategorized, err := database.EnsureDefaultCategory(ctx, db)
	require.NoError(t, err)

	return &fixture{Store: New(db), ctx: ctx, uncategorized: uncategorized}
}

func (f *fixture) category(t *testing.T, name string) int64 {
	t.Helper()
	cat, err := f.CreateCategory(f.ctx, CategoryInput{Name: name})
	require.NoError(t, err)
	return cat.ID
}

func (f *fixture) product(t *testing.T, name string, price float64, categoryID int64) int64 {
	t.Helper()
	p := &models.Product{Name: name, Price: price, CategoryID: categoryID, PublishingDate: "2024-05-01"}
	require.NoError(t, f.CreateProduct(f.ctx, p))
	return p.ID
}

func (f *fixture) user(t *testing.T, name string) int64 {
	t.Helper()
	u, err := f.CreateUser(f.ctx, name, "secret1", models.RoleCustomer)
	require.NoError(t, err)
	return u.ID
}

func strPtr(s string) *string { return &s }
