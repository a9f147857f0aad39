package repository_test

import (
	"testing"

	"dreamdrape/internal/domain/model"
	infra "dreamdrape/internal/infra/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 同一バリアントは数量加算、別バリアントは別行
func TestCartItem_UpsertVariant(t *testing.T) {
	db := newTestDB(t)
	carts := infra.NewCartItemGormRepository(db)
	u := seedUser(t, db, "alice")
	p := seedProduct(t, db, "saree", 99900, 10)

	require.NoError(t, carts.UpsertVariant(testCtx(), model.CartItem{
		UserID: u.ID, ProductID: p.ID, Quantity: 1, Size: "M", Color: "Red",
	}))
	require.NoError(t, carts.UpsertVariant(testCtx(), model.CartItem{
		UserID: u.ID, ProductID: p.ID, Quantity: 2, Size: "M", Color: "Red",
	}))
	require.NoError(t, carts.UpsertVariant(testCtx(), model.CartItem{
		UserID: u.ID, ProductID: p.ID, Quantity: 1, Size: "L", Color: "Red",
	}))

	items, err := carts.ListByUserID(testCtx(), u.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(3), items[0].Quantity)
	assert.Equal(t, "M", items[0].Size)
	assert.Equal(t, int64(1), items[1].Quantity)
	assert.Equal(t, "L", items[1].Size)
}

func TestCartItem_IsOwnedByUser(t *testing.T) {
	db := newTestDB(t)
	carts := infra.NewCartItemGormRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	p := seedProduct(t, db, "saree", 99900, 10)

	require.NoError(t, carts.UpsertVariant(testCtx(), model.CartItem{
		UserID: alice.ID, ProductID: p.ID, Quantity: 1,
	}))
	items, err := carts.ListByUserID(testCtx(), alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	owned, err := carts.IsOwnedByUser(testCtx(), items[0].ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, owned)

	owned, err = carts.IsOwnedByUser(testCtx(), items[0].ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, owned)
}

func TestCartItem_DeleteByUserID(t *testing.T) {
	db := newTestDB(t)
	carts := infra.NewCartItemGormRepository(db)
	u := seedUser(t, db, "alice")
	p1 := seedProduct(t, db, "saree", 99900, 10)
	p2 := seedProduct(t, db, "kurti", 89900, 10)

	require.NoError(t, carts.UpsertVariant(testCtx(), model.CartItem{UserID: u.ID, ProductID: p1.ID, Quantity: 1}))
	require.NoError(t, carts.UpsertVariant(testCtx(), model.CartItem{UserID: u.ID, ProductID: p2.ID, Quantity: 1}))

	require.NoError(t, carts.DeleteByUserID(testCtx(), u.ID))

	items, err := carts.ListByUserID(testCtx(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
