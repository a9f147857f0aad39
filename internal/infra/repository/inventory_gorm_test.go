package repository_test

import (
	"testing"

	"dreamdrape/internal/domain/model"
	infra "dreamdrape/internal/infra/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventory_DecreaseStockIfEnough(t *testing.T) {
	db := newTestDB(t)
	inv := infra.NewInventoryGormRepository(db)
	p := seedProduct(t, db, "saree", 99900, 25)

	ok, err := inv.DecreaseStockIfEnough(testCtx(), p.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	var got model.Product
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, int64(23), got.Stock)
}

// 不足時は減算が走らず在庫は変わらない
func TestInventory_DecreaseStockIfEnough_Insufficient(t *testing.T) {
	db := newTestDB(t)
	inv := infra.NewInventoryGormRepository(db)
	p := seedProduct(t, db, "saree", 99900, 1)

	ok, err := inv.DecreaseStockIfEnough(testCtx(), p.ID, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	var got model.Product
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, int64(1), got.Stock)
}

// ちょうど在庫数は成功して0になる。負にはならない。
func TestInventory_DecreaseStockIfEnough_ExactToZero(t *testing.T) {
	db := newTestDB(t)
	inv := infra.NewInventoryGormRepository(db)
	p := seedProduct(t, db, "saree", 99900, 3)

	ok, err := inv.DecreaseStockIfEnough(testCtx(), p.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = inv.DecreaseStockIfEnough(testCtx(), p.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	var got model.Product
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, int64(0), got.Stock)
}

func TestInventory_IncreaseStock(t *testing.T) {
	db := newTestDB(t)
	inv := infra.NewInventoryGormRepository(db)
	p := seedProduct(t, db, "kurti", 89900, 5)

	require.NoError(t, inv.IncreaseStock(testCtx(), p.ID, 2))

	var got model.Product
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, int64(7), got.Stock)
}

func TestInventory_SetStock_AndAdjustment(t *testing.T) {
	db := newTestDB(t)
	inv := infra.NewInventoryGormRepository(db)
	p := seedProduct(t, db, "kurti", 89900, 5)

	require.NoError(t, inv.SetStock(testCtx(), p.ID, 40))
	require.NoError(t, inv.CreateAdjustment(testCtx(), model.InventoryAdjustment{
		ProductID: p.ID, AdminUserID: 1, Delta: 35, Reason: "restock",
	}))

	var got model.Product
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, int64(40), got.Stock)

	var count int64
	require.NoError(t, db.Model(&model.InventoryAdjustment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
