package service

import (
	"context"
	"testing"
	"time"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBadgeTestService(db *gorm.DB) *BadgeService {
	return NewBadgeService(repository.NewBadgeRepository(db), repository.NewProgressRepository(db))
}

func createBadge(t *testing.T, db *gorm.DB, name string, cond model.BadgeCondition, value int, active bool) *model.Badge {
	t.Helper()
	badge := &model.Badge{
		Name:           name,
		ConditionType:  cond,
		ConditionValue: value,
		IsActive:       active,
	}
	require.NoError(t, db.Create(badge).Error)
	return badge
}

func TestEvaluateUserAwardsOnce(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	createBadge(t, db, "First Steps", model.CondExercisesCompleted, 1, true)
	createBadge(t, db, "Centurion", model.CondXPTotal, 100, true)
	createBadge(t, db, "Fire Starter", model.CondStreak, 3, true)

	require.NoError(t, db.Create(&model.UserProgress{UserID: user.ID, XP: 120, Level: 2, StreakDays: 1}).Error)
	require.NoError(t, db.Create(&model.ExerciseCompletion{UserID: user.ID, ExerciseID: 1, CompletedAt: time.Now()}).Error)

	svc := newBadgeTestService(db)

	awarded, err := svc.EvaluateUser(user.ID)
	require.NoError(t, err)
	require.Len(t, awarded, 2)
	names := []string{awarded[0].Name, awarded[1].Name}
	assert.Contains(t, names, "First Steps")
	assert.Contains(t, names, "Centurion")

	// 重复评估不再发放
	awarded, err = svc.EvaluateUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, awarded)

	var count int64
	require.NoError(t, db.Model(&model.UserBadge{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestEvaluateUserSkipsInactiveBadges(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	createBadge(t, db, "Retired", model.CondXPTotal, 1, false)
	require.NoError(t, db.Create(&model.UserProgress{UserID: user.ID, XP: 500, Level: 3}).Error)

	awarded, err := newBadgeTestService(db).EvaluateUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, awarded)
}

func TestEvaluateUserFirstTryCondition(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	createBadge(t, db, "Perfect Score", model.CondFirstTrySuccess, 5, true)
	require.NoError(t, db.Create(&model.UserProgress{UserID: user.ID, Level: 1, FirstTrySuccesses: 5}).Error)

	awarded, err := newBadgeTestService(db).EvaluateUser(user.ID)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	assert.Equal(t, "Perfect Score", awarded[0].Name)
}

func TestBadgeConditionMet(t *testing.T) {
	noon := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("counter conditions", func(t *testing.T) {
		snap := badgeSnapshot{
			ExercisesCompleted: 10,
			VideosCompleted:    3,
			StreakDays:         7,
			XP:                 800,
			Level:              4,
			FirstTrySuccesses:  2,
		}
		assert.True(t, badgeConditionMet(&model.Badge{ConditionType: model.CondExercisesCompleted, ConditionValue: 10}, snap, noon))
		assert.False(t, badgeConditionMet(&model.Badge{ConditionType: model.CondExercisesCompleted, ConditionValue: 11}, snap, noon))
		assert.True(t, badgeConditionMet(&model.Badge{ConditionType: model.CondVideosCompleted, ConditionValue: 3}, snap, noon))
		assert.True(t, badgeConditionMet(&model.Badge{ConditionType: model.CondStreak, ConditionValue: 7}, snap, noon))
		assert.True(t, badgeConditionMet(&model.Badge{ConditionType: model.CondXPTotal, ConditionValue: 800}, snap, noon))
		assert.False(t, badgeConditionMet(&model.Badge{ConditionType: model.CondLevelReached, ConditionValue: 5}, snap, noon))
		assert.False(t, badgeConditionMet(&model.Badge{ConditionType: model.CondFirstTrySuccess, ConditionValue: 3}, snap, noon))
	})

	t.Run("time based thresholds", func(t *testing.T) {
		early := &model.Badge{ConditionType: model.CondTimeBased, ConditionValue: 8}
		late := &model.Badge{ConditionType: model.CondTimeBased, ConditionValue: 22}
		at := func(hour int) time.Time {
			return time.Date(2026, 3, 10, hour, 30, 0, 0, time.UTC)
		}

		// 阈值 ≤12 表示早于 N 点
		assert.True(t, badgeConditionMet(early, badgeSnapshot{}, at(7)))
		assert.False(t, badgeConditionMet(early, badgeSnapshot{}, at(8)))
		// 阈值 >12 表示晚于等于 N 点
		assert.True(t, badgeConditionMet(late, badgeSnapshot{}, at(23)))
		assert.True(t, badgeConditionMet(late, badgeSnapshot{}, at(22)))
		assert.False(t, badgeConditionMet(late, badgeSnapshot{}, at(21)))
	})

	t.Run("unknown condition never matches", func(t *testing.T) {
		assert.False(t, badgeConditionMet(&model.Badge{ConditionType: "mystery", ConditionValue: 0}, badgeSnapshot{}, noon))
	})
}

func TestListWithUnlockState(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	unlocked := createBadge(t, db, "First Steps", model.CondExercisesCompleted, 1, true)
	createBadge(t, db, "Centurion", model.CondXPTotal, 100, true)

	unlockedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&model.UserBadge{UserID: user.ID, BadgeID: unlocked.ID, UnlockedAt: unlockedAt}).Error)

	views, err := newBadgeTestService(db).ListWithUnlockState(user.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byName := map[string]BadgeView{}
	for _, v := range views {
		byName[v.Name] = v
	}
	assert.True(t, byName["First Steps"].Unlocked)
	require.NotNil(t, byName["First Steps"].UnlockedAt)
	assert.False(t, byName["Centurion"].Unlocked)
	assert.Nil(t, byName["Centurion"].UnlockedAt)
}

func TestSweep(t *testing.T) {
	db := newTestDB(t)
	first := createTestUser(t, db, "ada")
	second := createTestUser(t, db, "grace")
	createBadge(t, db, "Centurion", model.CondXPTotal, 100, true)
	require.NoError(t, db.Create(&model.UserProgress{UserID: first.ID, XP: 150, Level: 2}).Error)
	require.NoError(t, db.Create(&model.UserProgress{UserID: second.ID, XP: 150, Level: 2}).Error)

	svc := newBadgeTestService(db)

	t.Run("cancelled context stops early", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		svc.Sweep(ctx)

		var count int64
		require.NoError(t, db.Model(&model.UserBadge{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("sweep awards to everyone eligible", func(t *testing.T) {
		svc.Sweep(context.Background())

		var count int64
		require.NoError(t, db.Model(&model.UserBadge{}).Count(&count).Error)
		assert.EqualValues(t, 2, count)
	})
}

func TestUpdateAndDeleteBadge(t *testing.T) {
	db := newTestDB(t)
	badge := createBadge(t, db, "First Steps", model.CondExercisesCompleted, 1, true)
	svc := newBadgeTestService(db)

	t.Run("update missing badge", func(t *testing.T) {
		_, err := svc.UpdateBadge(999, &model.Badge{Name: "x"})
		assert.ErrorIs(t, err, util.ErrBadgeNotFound)
	})

	t.Run("update rewrites definition", func(t *testing.T) {
		updated, err := svc.UpdateBadge(badge.ID, &model.Badge{
			Name:           "First Steps+",
			ConditionType:  model.CondExercisesCompleted,
			ConditionValue: 2,
			IsActive:       false,
		})
		require.NoError(t, err)
		assert.Equal(t, "First Steps+", updated.Name)
		assert.Equal(t, 2, updated.ConditionValue)
		assert.False(t, updated.IsActive)
	})

	t.Run("delete missing badge", func(t *testing.T) {
		err := svc.DeleteBadge(999)
		assert.ErrorIs(t, err, util.ErrBadgeNotFound)
	})

	t.Run("delete removes badge", func(t *testing.T) {
		require.NoError(t, svc.DeleteBadge(badge.ID))
		badges, err := svc.ListAll()
		require.NoError(t, err)
		assert.Empty(t, badges)
	})
}
