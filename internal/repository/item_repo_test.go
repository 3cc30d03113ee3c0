package repository

import (
	"context"
	"testing"

	"notifyhub/internal/models"
	"notifyhub/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemRepositoryLikeIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewItemRepository(db)
	owner := testutil.CreateUser(t, db, "owner@example.com", "Owner")
	fan := testutil.CreateUser(t, db, "fan@example.com", "Fan")

	ctx := context.Background()
	it := &models.Item{OwnerID: owner.ID, Title: "Post"}
	require.NoError(t, repo.Create(ctx, it))

	created, err := repo.AddLike(ctx, it.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.AddLike(ctx, it.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, created)

	likes, err := repo.CountLikes(ctx, it.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, likes)
}

func TestItemRepositoryListAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewItemRepository(db)
	owner := testutil.CreateUser(t, db, "owner@example.com", "Owner")
	other := testutil.CreateUser(t, db, "other@example.com", "Other")

	ctx := context.Background()
	mine := &models.Item{OwnerID: owner.ID, Title: "Mine"}
	require.NoError(t, repo.Create(ctx, mine))
	require.NoError(t, repo.Create(ctx, &models.Item{OwnerID: other.ID, Title: "Theirs"}))

	list, total, err := repo.List(ctx, owner.ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Mine", list[0].Title)

	_, total, err = repo.List(ctx, uuid.Nil, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, err = repo.AddLike(ctx, mine.ID, other.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, mine.ID))
	_, err = repo.GetByID(ctx, mine.ID)
	assert.Error(t, err)
}
