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

func newProgressTestService(db *gorm.DB) *ProgressService {
	progressRepo := repository.NewProgressRepository(db)
	badgeService := NewBadgeService(repository.NewBadgeRepository(db), progressRepo)
	return NewProgressService(
		db,
		progressRepo,
		repository.NewCourseRepository(db),
		repository.NewVideoRepository(db),
		repository.NewExerciseRepository(db),
		badgeService,
		nil,
	)
}

func createTestCourse(t *testing.T, db *gorm.DB, title string) *model.Course {
	t.Helper()
	course := &model.Course{Title: title, Slug: title, IsActive: true}
	require.NoError(t, db.Create(course).Error)
	return course
}

func createVideoItem(t *testing.T, db *gorm.DB, courseID uint, video *model.AcademyVideo, order int) *model.CourseItem {
	t.Helper()
	item := &model.CourseItem{
		CourseID:    courseID,
		ContentType: model.ContentVideo,
		VideoID:     &video.ID,
		Order:       order,
		IsRequired:  true,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func createExerciseItem(t *testing.T, db *gorm.DB, courseID uint, exercise *model.AcademyExercise, order int) *model.CourseItem {
	t.Helper()
	item := &model.CourseItem{
		CourseID:    courseID,
		ContentType: model.ContentExercise,
		ExerciseID:  &exercise.ID,
		Order:       order,
		IsRequired:  true,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestAddXP(t *testing.T) {
	p := &model.UserProgress{Level: 1}

	AddXP(p, 99)
	assert.Equal(t, 99, p.XP)
	assert.Equal(t, 99, p.TotalPoints)
	assert.Equal(t, 1, p.Level)

	// 阈值 100 解锁 2 级
	AddXP(p, 1)
	assert.Equal(t, 2, p.Level)

	AddXP(p, 200)
	assert.Equal(t, 300, p.XP)
	assert.Equal(t, 3, p.Level)

	AddXP(p, 9700)
	assert.Equal(t, 10000, p.XP)
	assert.Equal(t, 8, p.Level)
}

func TestCheckStreak(t *testing.T) {
	base := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	p := &model.UserProgress{}

	CheckStreak(p, base)
	assert.Equal(t, 1, p.StreakDays)
	require.NotNil(t, p.LastActivityDate)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), *p.LastActivityDate)

	// 同一天内的后续活动不加天数
	CheckStreak(p, base.Add(5*time.Hour))
	assert.Equal(t, 1, p.StreakDays)

	// 第二天活动 +1
	CheckStreak(p, base.AddDate(0, 0, 1))
	assert.Equal(t, 2, p.StreakDays)

	// 中断两天后归 1
	CheckStreak(p, base.AddDate(0, 0, 3))
	assert.Equal(t, 1, p.StreakDays)
	assert.Equal(t, time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), *p.LastActivityDate)
}

func TestCompleteVideo(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	video := createTestVideo(t, db, "Python 入门", 1)
	svc := newProgressTestService(db)
	ctx := context.Background()

	t.Run("video not found", func(t *testing.T) {
		_, err := svc.CompleteVideo(ctx, user.ID, 999)
		assert.ErrorIs(t, err, util.ErrVideoNotFound)
	})

	t.Run("first completion earns xp", func(t *testing.T) {
		result, err := svc.CompleteVideo(ctx, user.ID, video.ID)
		require.NoError(t, err)

		assert.Equal(t, 10, result.PointsEarned)
		assert.Equal(t, 10, result.XP)
		assert.Equal(t, 1, result.StreakDays)
		assert.False(t, result.AlreadyCompleted)
	})

	t.Run("repeat completion is idempotent", func(t *testing.T) {
		result, err := svc.CompleteVideo(ctx, user.ID, video.ID)
		require.NoError(t, err)

		assert.True(t, result.AlreadyCompleted)
		assert.Zero(t, result.PointsEarned)
		assert.Equal(t, 10, result.XP)

		var count int64
		require.NoError(t, db.Model(&model.VideoCompletion{}).
			Where("user_id = ?", user.ID).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})
}

func TestStats(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	video := createTestVideo(t, db, "视频一", 1)
	createTestVideo(t, db, "视频二", 2)
	createTestExercise(t, db, model.DifficultyEasy)
	// 停用的内容不计入总量
	require.NoError(t, db.Create(&model.AcademyVideo{Title: "停用", VideoURL: "x", IsActive: false}).Error)

	svc := newProgressTestService(db)
	_, err := svc.CompleteVideo(context.Background(), user.ID, video.ID)
	require.NoError(t, err)

	stats, err := svc.Stats(user.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 1, stats.CompletedVideos)
	assert.EqualValues(t, 0, stats.CompletedExercises)
	assert.EqualValues(t, 2, stats.TotalVideos)
	assert.EqualValues(t, 1, stats.TotalExercises)
	// 1/3 保留一位小数
	assert.InDelta(t, 33.3, stats.CompletionPercentage, 1e-9)
	assert.Equal(t, 10, stats.XP)
	assert.NotNil(t, stats.LastActivity)
}

func TestStatsWithNoContent(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	svc := newProgressTestService(db)

	stats, err := svc.Stats(user.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.CompletionPercentage)
}

func TestLeaderboard(t *testing.T) {
	db := newTestDB(t)
	first := createTestUser(t, db, "ada")
	second := createTestUser(t, db, "grace")
	third := createTestUser(t, db, "linus")
	for _, row := range []model.UserProgress{
		{UserID: first.ID, XP: 50, Level: 1},
		{UserID: second.ID, XP: 200, Level: 2, StreakDays: 4},
		{UserID: third.ID, XP: 10, Level: 1},
	} {
		require.NoError(t, db.Create(&row).Error)
	}
	svc := newProgressTestService(db)
	ctx := context.Background()

	entries, err := svc.Leaderboard(ctx, 0) // 非法 limit 回退默认值
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "grace", entries[0].Name)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 200, entries[0].XP)
	assert.Equal(t, "ada", entries[1].Name)
	assert.Equal(t, "linus", entries[2].Name)
	assert.Equal(t, 3, entries[2].Rank)

	entries, err = svc.Leaderboard(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// 注销用户不上榜
	require.NoError(t, db.Delete(second).Error)
	entries, err = svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ada", entries[0].Name)
}

func TestStartCourse(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	course := createTestCourse(t, db, "python-basics")
	video := createTestVideo(t, db, "第一课", 1)
	firstItem := createVideoItem(t, db, course.ID, video, 1)
	svc := newProgressTestService(db)

	t.Run("unknown course", func(t *testing.T) {
		_, err := svc.StartCourse(user.ID, 999)
		assert.ErrorIs(t, err, util.ErrCourseNotFound)
	})

	t.Run("progress requires start", func(t *testing.T) {
		_, err := svc.CourseProgress(user.ID, course.ID)
		assert.ErrorIs(t, err, util.ErrCourseNotStarted)
	})

	t.Run("start points at first item", func(t *testing.T) {
		progress, err := svc.StartCourse(user.ID, course.ID)
		require.NoError(t, err)

		assert.True(t, progress.IsStarted)
		require.NotNil(t, progress.CurrentItemID)
		assert.Equal(t, firstItem.ID, *progress.CurrentItemID)
		assert.NotNil(t, progress.StartedAt)
	})

	t.Run("restart does not reset", func(t *testing.T) {
		before, err := svc.CourseProgress(user.ID, course.ID)
		require.NoError(t, err)

		progress, err := svc.StartCourse(user.ID, course.ID)
		require.NoError(t, err)
		assert.True(t, progress.IsStarted)
		require.NotNil(t, progress.StartedAt)
		assert.WithinDuration(t, *before.StartedAt, *progress.StartedAt, time.Second)
	})
}

func TestCompleteCourseItem(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	course := createTestCourse(t, db, "python-basics")
	video := createTestVideo(t, db, "第一课", 1)
	exercise := createTestExercise(t, db, model.DifficultyEasy)
	item1 := createVideoItem(t, db, course.ID, video, 1)
	item2 := createExerciseItem(t, db, course.ID, exercise, 2)
	svc := newProgressTestService(db)
	ctx := context.Background()

	t.Run("item from another course", func(t *testing.T) {
		other := createTestCourse(t, db, "js-basics")
		otherItem := createVideoItem(t, db, other.ID, video, 1)
		_, err := svc.CompleteCourseItem(ctx, user.ID, course.ID, otherItem.ID)
		assert.ErrorIs(t, err, util.ErrCourseItemNotFound)
	})

	t.Run("video item advances to next", func(t *testing.T) {
		result, err := svc.CompleteCourseItem(ctx, user.ID, course.ID, item1.ID)
		require.NoError(t, err)

		assert.Equal(t, 10, result.XPEarned)
		assert.Equal(t, 50, result.CompletionPercentage)
		assert.False(t, result.IsCompleted)
		assert.Equal(t, "条目完成！", result.Message)
		require.NotNil(t, result.NextItem)
		assert.Equal(t, item2.ID, result.NextItem.ID)
		assert.Equal(t, model.ContentExercise, result.NextItem.ContentType)

		// 未 start 直接完成条目也会建档
		progress, err := svc.CourseProgress(user.ID, course.ID)
		require.NoError(t, err)
		assert.True(t, progress.IsStarted)
	})

	t.Run("repeat earns nothing", func(t *testing.T) {
		result, err := svc.CompleteCourseItem(ctx, user.ID, course.ID, item1.ID)
		require.NoError(t, err)

		assert.Zero(t, result.XPEarned)
		assert.Equal(t, 50, result.CompletionPercentage)
	})

	t.Run("last item completes the course", func(t *testing.T) {
		result, err := svc.CompleteCourseItem(ctx, user.ID, course.ID, item2.ID)
		require.NoError(t, err)

		assert.Equal(t, 50, result.XPEarned)
		assert.Equal(t, 100, result.CompletionPercentage)
		assert.True(t, result.IsCompleted)
		assert.Nil(t, result.NextItem)
		assert.Equal(t, "恭喜！课程全部完成！", result.Message)

		progress, err := svc.CourseProgress(user.ID, course.ID)
		require.NoError(t, err)
		assert.True(t, progress.IsCompleted)
		assert.NotNil(t, progress.CompletedAt)

		// 视频 10 + 练习 50
		var ledger model.UserProgress
		require.NoError(t, db.Where("user_id = ?", user.ID).First(&ledger).Error)
		assert.Equal(t, 60, ledger.XP)
	})
}

func TestNavigation(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	course := createTestCourse(t, db, "python-basics")
	v1 := createTestVideo(t, db, "第一课", 1)
	v2 := createTestVideo(t, db, "第二课", 2)
	exercise := createTestExercise(t, db, model.DifficultyEasy)
	item1 := createVideoItem(t, db, course.ID, v1, 1)
	item2 := createVideoItem(t, db, course.ID, v2, 2)
	item3 := createExerciseItem(t, db, course.ID, exercise, 3)
	svc := newProgressTestService(db)

	t.Run("unknown item", func(t *testing.T) {
		_, err := svc.Navigation(user.ID, 999)
		assert.ErrorIs(t, err, util.ErrCourseItemNotFound)
	})

	t.Run("middle item has both neighbours", func(t *testing.T) {
		info, err := svc.Navigation(user.ID, item2.ID)
		require.NoError(t, err)

		assert.Equal(t, item2.ID, info.Current.ID)
		assert.Equal(t, "第二课", info.Current.Title)
		require.NotNil(t, info.Previous)
		assert.Equal(t, item1.ID, info.Previous.ID)
		require.NotNil(t, info.Next)
		assert.Equal(t, item3.ID, info.Next.ID)
		// 没开始课程时不带进度快照
		assert.Nil(t, info.CourseProgress)
	})

	t.Run("first item has no previous", func(t *testing.T) {
		info, err := svc.Navigation(user.ID, item1.ID)
		require.NoError(t, err)
		assert.Nil(t, info.Previous)
		require.NotNil(t, info.Next)
		assert.Equal(t, item2.ID, info.Next.ID)
	})

	t.Run("includes course progress once started", func(t *testing.T) {
		_, err := svc.StartCourse(user.ID, course.ID)
		require.NoError(t, err)

		info, err := svc.Navigation(user.ID, item2.ID)
		require.NoError(t, err)
		require.NotNil(t, info.CourseProgress)
		require.NotNil(t, info.CourseProgress.CurrentItemOrder)
		assert.Equal(t, 1, *info.CourseProgress.CurrentItemOrder)
	})
}
