package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smartrecipe/analyzer/internal/model"
)

func setupInteractionDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Interaction{}))
	return db
}

func TestInteractionRecordAndGet(t *testing.T) {
	svc := NewInteractionService(setupInteractionDB(t))
	ctx := context.Background()

	stored, err := svc.Record(ctx, []string{"chicken", "rice"}, `{"recipes":[]}`, 2, true, "")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())

	got, err := svc.Get(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)
	assert.Equal(t, model.JSONStringArray{"chicken", "rice"}, got.Ingredients)
	assert.Equal(t, 2, got.RecipeCount)
	assert.True(t, got.Success)
}

func TestInteractionGetMissing(t *testing.T) {
	svc := NewInteractionService(setupInteractionDB(t))

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestInteractionAllAndRecent(t *testing.T) {
	svc := NewInteractionService(setupInteractionDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Record(ctx, []string{"beans"}, "", i, i%2 == 0, "")
		require.NoError(t, err)
	}

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	recent, err := svc.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	// Zero limit falls back to the default
	recent, err = svc.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 5)
}

func TestInteractionStats(t *testing.T) {
	svc := NewInteractionService(setupInteractionDB(t))
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		stats, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.TotalInteractions)
		assert.Zero(t, stats.SuccessRate)
	})

	t.Run("mixed outcomes", func(t *testing.T) {
		_, err := svc.Record(ctx, []string{"a"}, "raw", 3, true, "")
		require.NoError(t, err)
		_, err = svc.Record(ctx, []string{"b"}, "raw", 1, true, "")
		require.NoError(t, err)
		_, err = svc.Record(ctx, []string{"c"}, "", 0, false, "parse failure")
		require.NoError(t, err)

		stats, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, stats.TotalInteractions)
		assert.EqualValues(t, 2, stats.SuccessfulInteractions)
		assert.EqualValues(t, 1, stats.FailedInteractions)
		assert.InDelta(t, 66.6, stats.SuccessRate, 0.1)
		assert.EqualValues(t, 4, stats.TotalRecipesGenerated)
		assert.InDelta(t, 2.0, stats.AverageRecipesPerCall, 0.001)
	})
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestRecipeServiceRecordsInteractions(t *testing.T) {
	db := setupInteractionDB(t)
	interactions := NewInteractionService(db)

	valid := validRecipe()
	payload := `{"recipes":[` + mustJSON(t, valid) + `]}`
	svc := NewRecipeService(fakeProvider(t, payload, 200), interactions)

	resp, err := svc.GenerateFromIngredients(context.Background(), []string{"chicken"})
	require.NoError(t, err)
	require.True(t, resp.Success)

	all, err := interactions.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Success)
	assert.Equal(t, 1, all[0].RecipeCount)
	assert.Equal(t, model.JSONStringArray{"chicken"}, all[0].Ingredients)
	assert.NotEmpty(t, all[0].RawResponse)
}
