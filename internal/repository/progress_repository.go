package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// GetOrCreate 返回用户进度，首次访问时创建初始记录
func (r *ProgressRepository) GetOrCreate(userID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.Where(model.UserProgress{UserID: userID}).
		Attrs(model.UserProgress{Level: 1}).
		FirstOrCreate(&progress).Error
	return &progress, err
}

// forUpdate 排他行锁。SQLite 不支持 FOR UPDATE，库级单写者下跳过等价
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// GetOrCreateForUpdate 在事务内取出进度行并加排他锁，
// 同一用户的并发账本更新会在此串行化
func (r *ProgressRepository) GetOrCreateForUpdate(tx *gorm.DB, userID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := forUpdate(tx).
		Where("user_id = ?", userID).
		First(&progress).Error
	if err == gorm.ErrRecordNotFound {
		progress = model.UserProgress{UserID: userID, Level: 1}
		if err := tx.Create(&progress).Error; err != nil {
			return nil, err
		}
		err = forUpdate(tx).
			Where("user_id = ?", userID).
			First(&progress).Error
	}
	return &progress, err
}

func (r *ProgressRepository) Save(progress *model.UserProgress) error {
	return r.DB.Save(progress).Error
}

func (r *ProgressRepository) HasCompletedVideo(userID, videoID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.VideoCompletion{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Count(&count).Error
	return count > 0, err
}

func (r *ProgressRepository) HasCompletedExercise(userID, exerciseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ExerciseCompletion{}).
		Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		Count(&count).Error
	return count > 0, err
}

func (r *ProgressRepository) CountCompletedVideos(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.VideoCompletion{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) CountCompletedExercises(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ExerciseCompletion{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// AttemptsFor 返回用户在某道练习上的历史提交次数，没有记录时返回 0
func (r *ProgressRepository) AttemptsFor(userID, exerciseID uint) (int, error) {
	var attempt model.ExerciseAttempt
	err := r.DB.Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		First(&attempt).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	return attempt.Attempts, err
}

// Leaderboard 按 XP 降序返回前 limit 名用户
func (r *ProgressRepository) Leaderboard(limit int) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	err := r.DB.Model(&model.UserProgress{}).
		Select("user_progress.user_id, users.name, users.avatar, user_progress.xp, user_progress.level, user_progress.streak_days").
		Joins("JOIN users ON users.id = user_progress.user_id").
		Where("users.deleted_at IS NULL").
		Order("user_progress.xp DESC").
		Limit(limit).
		Scan(&entries).Error
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, err
}

// UserIDsWithProgress 返回所有有进度记录的用户，徽章后台巡检用
func (r *ProgressRepository) UserIDsWithProgress() ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.UserProgress{}).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *ProgressRepository) GetOrCreateCourseProgress(userID, courseID uint) (*model.UserCourseProgress, error) {
	var progress model.UserCourseProgress
	err := r.DB.Where(model.UserCourseProgress{UserID: userID, CourseID: courseID}).
		FirstOrCreate(&progress).Error
	return &progress, err
}

func (r *ProgressRepository) FindCourseProgress(userID, courseID uint) (*model.UserCourseProgress, error) {
	var progress model.UserCourseProgress
	err := r.DB.Preload("CurrentItem").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	return &progress, err
}

func (r *ProgressRepository) SaveCourseProgress(progress *model.UserCourseProgress) error {
	return r.DB.Save(progress).Error
}

func (r *ProgressRepository) HasItemCompletion(userID, itemID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.CourseItemCompletion{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&count).Error
	return count > 0, err
}

func (r *ProgressRepository) CountItemCompletions(userID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.CourseItemCompletion{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count, err
}

// CompletedItemIDs 返回用户在课程内已完成的条目 ID 集合
func (r *ProgressRepository) CompletedItemIDs(userID, courseID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.CourseItemCompletion{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Pluck("item_id", &ids).Error
	return ids, err
}
