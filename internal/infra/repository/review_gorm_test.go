package repository_test

import (
	"testing"

	"dreamdrape/internal/domain/model"
	infra "dreamdrape/internal/infra/repository"
	repo "dreamdrape/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 平均評価は承認済みレビューだけで計算される
func TestReview_AverageRating_ApprovedOnly(t *testing.T) {
	db := newTestDB(t)
	reviews := infra.NewReviewGormRepository(db)
	p := seedProduct(t, db, "saree", 99900, 10)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	_, err := reviews.Create(testCtx(), model.Review{UserID: alice.ID, ProductID: p.ID, Rating: 5, IsApproved: true})
	require.NoError(t, err)
	_, err = reviews.Create(testCtx(), model.Review{UserID: bob.ID, ProductID: p.ID, Rating: 3, IsApproved: true})
	require.NoError(t, err)
	//未承認は計算に入らない
	_, err = reviews.Create(testCtx(), model.Review{UserID: carol.ID, ProductID: p.ID, Rating: 1})
	require.NoError(t, err)

	avg, err := reviews.AverageRating(testCtx(), p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, avg, 0.001)

	approved, err := reviews.ListApprovedByProductID(testCtx(), p.ID)
	require.NoError(t, err)
	assert.Len(t, approved, 2)
}

func TestReview_AverageRating_NoReviews(t *testing.T) {
	db := newTestDB(t)
	reviews := infra.NewReviewGormRepository(db)
	p := seedProduct(t, db, "saree", 99900, 10)

	avg, err := reviews.AverageRating(testCtx(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)
}

func TestReview_SetApproved(t *testing.T) {
	db := newTestDB(t)
	reviews := infra.NewReviewGormRepository(db)
	p := seedProduct(t, db, "saree", 99900, 10)
	u := seedUser(t, db, "alice")

	created, err := reviews.Create(testCtx(), model.Review{UserID: u.ID, ProductID: p.ID, Rating: 4})
	require.NoError(t, err)
	assert.False(t, created.IsApproved)

	require.NoError(t, reviews.SetApproved(testCtx(), created.ID, true))

	got, err := reviews.FindByID(testCtx(), created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsApproved)

	assert.ErrorIs(t, reviews.SetApproved(testCtx(), 9999, true), repo.ErrNotFound)
}

func TestReview_ExistsByUserAndProduct(t *testing.T) {
	db := newTestDB(t)
	reviews := infra.NewReviewGormRepository(db)
	p := seedProduct(t, db, "saree", 99900, 10)
	u := seedUser(t, db, "alice")

	exists, err := reviews.ExistsByUserAndProduct(testCtx(), u.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = reviews.Create(testCtx(), model.Review{UserID: u.ID, ProductID: p.ID, Rating: 4})
	require.NoError(t, err)

	exists, err = reviews.ExistsByUserAndProduct(testCtx(), u.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}
