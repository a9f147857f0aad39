package repository_test

import (
	"testing"

	infra "dreamdrape/internal/infra/repository"
	repo "dreamdrape/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 二重追加は1行のまま
func TestWishlist_Add_Idempotent(t *testing.T) {
	db := newTestDB(t)
	wishlist := infra.NewWishlistGormRepository(db)
	u := seedUser(t, db, "alice")
	p := seedProduct(t, db, "saree", 99900, 10)

	require.NoError(t, wishlist.Add(testCtx(), u.ID, p.ID))
	require.NoError(t, wishlist.Add(testCtx(), u.ID, p.ID))

	items, err := wishlist.ListByUserID(testCtx(), u.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestWishlist_Remove(t *testing.T) {
	db := newTestDB(t)
	wishlist := infra.NewWishlistGormRepository(db)
	u := seedUser(t, db, "alice")
	p := seedProduct(t, db, "saree", 99900, 10)

	require.NoError(t, wishlist.Add(testCtx(), u.ID, p.ID))
	require.NoError(t, wishlist.Remove(testCtx(), u.ID, p.ID))

	items, err := wishlist.ListByUserID(testCtx(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	//存在しない行の削除はErrNotFound
	err = wishlist.Remove(testCtx(), u.ID, p.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
