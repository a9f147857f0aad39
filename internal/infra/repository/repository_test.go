package repository_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"dreamdrape/internal/domain/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// テストごとに独立したin-memory DBを作る。
// cache=sharedがないとプールの2本目以降の接続が空DBを見てしまう。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Category{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Review{},
		&model.WishlistItem{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	)
	require.NoError(t, err)

	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price, stock int64) model.Product {
	t.Helper()
	p := model.Product{Name: name, Price: price, Stock: stock, SKU: "SKU-" + name, IsActive: true}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedUser(t *testing.T, db *gorm.DB, username string) model.User {
	t.Helper()
	u := model.User{
		Username: username, Email: username + "@example.com",
		PasswordHash: "x", FirstName: "F", LastName: "L",
		Role: model.RoleUser, IsActive: true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func testCtx() context.Context { return context.Background() }

// 新規接続からもmigrate済みスキーマが見えること
func TestNewTestDB_SchemaVisibleOnNewConnections(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "saree", 99900, 10)

	sqlDB, err := db.DB()
	require.NoError(t, err)

	//既存接続を1本掴んだまま、次のクエリに新規接続を使わせる
	held, err := sqlDB.Conn(testCtx())
	require.NoError(t, err)
	defer held.Close()
	sqlDB.SetMaxIdleConns(0)

	var count int64
	require.NoError(t, db.Model(&model.Product{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}
