package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"portfolio_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// XP 奖励：视频 10，课程内的练习条目 50（独立练习提交按难度计分）
const (
	videoXP        = 10
	exerciseItemXP = 50
)

const (
	leaderboardCacheKey  = "academy:leaderboard"
	leaderboardCacheSize = 50
	leaderboardCacheTTL  = time.Minute
)

// AddXP 增加经验并重算等级，TotalPoints 与 XP 同步增长
func AddXP(p *model.UserProgress, amount int) {
	p.XP += amount
	p.TotalPoints += amount
	p.Level = model.LevelForXP(p.XP)
}

// CheckStreak 按自然日更新连续学习天数并盖上今天的活跃戳
// 昨天有活动 +1，中断则归 1，同一天内多次活动不变
func CheckStreak(p *model.UserProgress, now time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if p.LastActivityDate == nil {
		p.StreakDays = 1
	} else {
		last := *p.LastActivityDate
		lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, now.Location())
		switch delta := int(today.Sub(lastDay).Hours() / 24); {
		case delta == 1:
			p.StreakDays++
		case delta > 1:
			p.StreakDays = 1
		}
	}
	p.LastActivityDate = &today
}

// invalidateLeaderboard XP 写入后清缓存，下一次读取时重建
func invalidateLeaderboard(ctx context.Context, cache *redis.Client) {
	if cache == nil {
		return
	}
	if err := cache.Del(ctx, leaderboardCacheKey).Err(); err != nil && err != redis.Nil {
		logger.Log.Warn("failed to invalidate leaderboard cache", zap.Error(err))
	}
}

// ProgressStats 学习统计汇总
type ProgressStats struct {
	XP                   int        `json:"xp"`
	Level                int        `json:"level"`
	TotalPoints          int        `json:"totalPoints"`
	StreakDays           int        `json:"streakDays"`
	CompletedVideos      int64      `json:"completedVideos"`
	CompletedExercises   int64      `json:"completedExercises"`
	TotalVideos          int64      `json:"totalVideos"`
	TotalExercises       int64      `json:"totalExercises"`
	CompletionPercentage float64    `json:"completionPercentage"`
	LastActivity         *time.Time `json:"lastActivity"`
}

// VideoCompletionResult 视频完成接口的响应
type VideoCompletionResult struct {
	Message          string        `json:"message"`
	AlreadyCompleted bool          `json:"alreadyCompleted,omitempty"`
	PointsEarned     int           `json:"pointsEarned"`
	XP               int           `json:"xp"`
	Level            int           `json:"level"`
	StreakDays       int           `json:"streakDays"`
	TotalPoints      int           `json:"totalPoints"`
	NewBadges        []model.Badge `json:"newBadges,omitempty"`
}

// ItemCompletionResult 课程条目完成接口的响应
type ItemCompletionResult struct {
	Message              string        `json:"message"`
	NextItem             *ItemRef      `json:"nextItem"`
	CompletionPercentage int           `json:"completionPercentage"`
	IsCompleted          bool          `json:"isCompleted"`
	XPEarned             int           `json:"xpEarned"`
	NewBadges            []model.Badge `json:"newBadges,omitempty"`
}

// ItemRef 导航与完成响应里的条目引用
type ItemRef struct {
	ID          uint              `json:"id"`
	Order       int               `json:"order"`
	ContentType model.ContentType `json:"contentType,omitempty"`
	Title       string            `json:"title,omitempty"`
}

// CourseProgressRef 导航响应附带的课程进度快照
type CourseProgressRef struct {
	CompletionPercentage int  `json:"completionPercentage"`
	CurrentItemOrder     *int `json:"currentItemOrder"`
}

// NavigationInfo 条目导航：上一项 / 当前项 / 下一项
type NavigationInfo struct {
	Current        ItemRef            `json:"current"`
	Previous       *ItemRef           `json:"previous"`
	Next           *ItemRef           `json:"next"`
	CourseProgress *CourseProgressRef `json:"courseProgress"`
}

// ProgressService 学习进度账本：XP、等级、连续天数与课程推进
type ProgressService struct {
	DB           *gorm.DB
	ProgressRepo *repository.ProgressRepository
	CourseRepo   *repository.CourseRepository
	VideoRepo    *repository.VideoRepository
	ExerciseRepo *repository.ExerciseRepository
	BadgeService *BadgeService
	Cache        *redis.Client
}

func NewProgressService(db *gorm.DB, progressRepo *repository.ProgressRepository, courseRepo *repository.CourseRepository, videoRepo *repository.VideoRepository, exerciseRepo *repository.ExerciseRepository, badgeService *BadgeService, cache *redis.Client) *ProgressService {
	return &ProgressService{
		DB:           db,
		ProgressRepo: progressRepo,
		CourseRepo:   courseRepo,
		VideoRepo:    videoRepo,
		ExerciseRepo: exerciseRepo,
		BadgeService: badgeService,
		Cache:        cache,
	}
}

// Me 返回当前用户的进度，首次访问时建档
func (s *ProgressService) Me(userID uint) (*model.UserProgress, error) {
	return s.ProgressRepo.GetOrCreate(userID)
}

// Stats 学习统计：完成数、总量与整体完成率（保留一位小数）
func (s *ProgressService) Stats(userID uint) (*ProgressStats, error) {
	progress, err := s.ProgressRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	completedVideos, err := s.ProgressRepo.CountCompletedVideos(userID)
	if err != nil {
		return nil, err
	}
	completedExercises, err := s.ProgressRepo.CountCompletedExercises(userID)
	if err != nil {
		return nil, err
	}
	totalVideos, err := s.VideoRepo.CountActive()
	if err != nil {
		return nil, err
	}
	totalExercises, err := s.ExerciseRepo.CountActive()
	if err != nil {
		return nil, err
	}

	percentage := 0.0
	if total := totalVideos + totalExercises; total > 0 {
		completed := completedVideos + completedExercises
		percentage = math.Round(float64(completed)/float64(total)*1000) / 10
	}

	return &ProgressStats{
		XP:                   progress.XP,
		Level:                progress.Level,
		TotalPoints:          progress.TotalPoints,
		StreakDays:           progress.StreakDays,
		CompletedVideos:      completedVideos,
		CompletedExercises:   completedExercises,
		TotalVideos:          totalVideos,
		TotalExercises:       totalExercises,
		CompletionPercentage: percentage,
		LastActivity:         progress.LastActivityDate,
	}, nil
}

// Leaderboard 按 XP 取前 limit 名，整表前 50 名走 Redis 缓存
func (s *ProgressService) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 || limit > leaderboardCacheSize {
		limit = 10
	}

	if s.Cache != nil {
		if raw, err := s.Cache.Get(ctx, leaderboardCacheKey).Result(); err == nil {
			var entries []model.LeaderboardEntry
			if json.Unmarshal([]byte(raw), &entries) == nil {
				if len(entries) > limit {
					entries = entries[:limit]
				}
				return entries, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("leaderboard cache read failed", zap.Error(err))
		}
	}

	entries, err := s.ProgressRepo.Leaderboard(leaderboardCacheSize)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if raw, err := json.Marshal(entries); err == nil {
			if err := s.Cache.Set(ctx, leaderboardCacheKey, raw, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
			}
		}
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// CompleteVideo 标记视频完成，首次完成奖励经验并更新连续天数
// 重复调用安全，不会二次加分
func (s *ProgressService) CompleteVideo(ctx context.Context, userID, videoID uint) (*VideoCompletionResult, error) {
	video, err := s.VideoRepo.FindByID(videoID)
	if err != nil {
		return nil, util.ErrVideoNotFound
	}

	done, err := s.ProgressRepo.HasCompletedVideo(userID, video.ID)
	if err != nil {
		return nil, err
	}
	if done {
		progress, err := s.ProgressRepo.GetOrCreate(userID)
		if err != nil {
			return nil, err
		}
		return &VideoCompletionResult{
			Message:          "这个视频你已经完成过了",
			AlreadyCompleted: true,
			XP:               progress.XP,
			Level:            progress.Level,
			StreakDays:       progress.StreakDays,
			TotalPoints:      progress.TotalPoints,
		}, nil
	}

	var progress *model.UserProgress
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		locked, err := s.ProgressRepo.GetOrCreateForUpdate(tx, userID)
		if err != nil {
			return err
		}
		completion := model.VideoCompletion{
			UserID:      userID,
			VideoID:     video.ID,
			CompletedAt: time.Now(),
		}
		if err := tx.Create(&completion).Error; err != nil {
			return err
		}
		AddXP(locked, videoXP)
		CheckStreak(locked, time.Now())
		progress = locked
		return tx.Save(locked).Error
	})
	if err != nil {
		return nil, err
	}

	invalidateLeaderboard(ctx, s.Cache)
	newBadges := s.evaluateBadges(userID)

	return &VideoCompletionResult{
		Message:      "视频完成，经验 +10",
		PointsEarned: videoXP,
		XP:           progress.XP,
		Level:        progress.Level,
		StreakDays:   progress.StreakDays,
		TotalPoints:  progress.TotalPoints,
		NewBadges:    newBadges,
	}, nil
}

// StartCourse 开始课程：建档并把当前条目指向第一项
// 已开始的课程重复调用只返回现状
func (s *ProgressService) StartCourse(userID, courseID uint) (*model.UserCourseProgress, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}

	progress, err := s.ProgressRepo.GetOrCreateCourseProgress(userID, course.ID)
	if err != nil {
		return nil, err
	}

	if !progress.IsStarted {
		now := time.Now()
		progress.IsStarted = true
		progress.StartedAt = &now
		first, err := s.CourseRepo.FirstItem(course.ID)
		if err == nil {
			progress.CurrentItemID = &first.ID
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		if err := s.ProgressRepo.SaveCourseProgress(progress); err != nil {
			return nil, err
		}
	}

	return s.ProgressRepo.FindCourseProgress(userID, course.ID)
}

// CourseProgress 返回用户在某课程的进度，未开始时报错
func (s *ProgressService) CourseProgress(userID, courseID uint) (*model.UserCourseProgress, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	progress, err := s.ProgressRepo.FindCourseProgress(userID, course.ID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrCourseNotStarted
	}
	return progress, err
}

// CompleteCourseItem 完成课程条目：首次完成奖励经验（视频 10 / 练习 50），
// 重算完成率并推进当前条目；完成率到 100 时课程标记完成且不再回退
func (s *ProgressService) CompleteCourseItem(ctx context.Context, userID, courseID, itemID uint) (*ItemCompletionResult, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	item, err := s.CourseRepo.FindItemByID(itemID)
	if err != nil || item.CourseID != course.ID {
		return nil, util.ErrCourseItemNotFound
	}

	xpEarned := 0
	var courseProgress *model.UserCourseProgress
	var nextItem *model.CourseItem

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		cp := &model.UserCourseProgress{}
		err := tx.Where("user_id = ? AND course_id = ?", userID, course.ID).First(cp).Error
		if err == gorm.ErrRecordNotFound {
			now := time.Now()
			cp = &model.UserCourseProgress{
				UserID:    userID,
				CourseID:  course.ID,
				IsStarted: true,
				StartedAt: &now,
			}
			if err := tx.Create(cp).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var already int64
		if err := tx.Model(&model.CourseItemCompletion{}).
			Where("user_id = ? AND item_id = ?", userID, item.ID).
			Count(&already).Error; err != nil {
			return err
		}
		if already == 0 {
			completion := model.CourseItemCompletion{
				UserID:      userID,
				ItemID:      item.ID,
				CourseID:    course.ID,
				CompletedAt: time.Now(),
			}
			if err := tx.Create(&completion).Error; err != nil {
				return err
			}

			xp := exerciseItemXP
			if item.ContentType == model.ContentVideo {
				xp = videoXP
			}
			locked, err := s.ProgressRepo.GetOrCreateForUpdate(tx, userID)
			if err != nil {
				return err
			}
			AddXP(locked, xp)
			CheckStreak(locked, time.Now())
			if err := tx.Save(locked).Error; err != nil {
				return err
			}
			xpEarned = xp
		}

		var completed, total int64
		if err := tx.Model(&model.CourseItemCompletion{}).
			Where("user_id = ? AND course_id = ?", userID, course.ID).
			Count(&completed).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.CourseItem{}).
			Where("course_id = ?", course.ID).
			Count(&total).Error; err != nil {
			return err
		}
		if total > 0 {
			cp.CompletionPercentage = int(completed * 100 / total)
		}
		if cp.CompletionPercentage >= 100 && !cp.IsCompleted {
			cp.IsCompleted = true
			now := time.Now()
			cp.CompletedAt = &now
		}

		var next model.CourseItem
		err = tx.Where("course_id = ? AND `order` > ?", course.ID, item.Order).
			Order("`order` ASC").
			First(&next).Error
		if err == nil {
			cp.CurrentItemID = &next.ID
			nextItem = &next
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		courseProgress = cp
		return tx.Save(cp).Error
	})
	if err != nil {
		return nil, err
	}

	var newBadges []model.Badge
	if xpEarned > 0 {
		invalidateLeaderboard(ctx, s.Cache)
		newBadges = s.evaluateBadges(userID)
	}

	result := &ItemCompletionResult{
		CompletionPercentage: courseProgress.CompletionPercentage,
		IsCompleted:          courseProgress.IsCompleted,
		XPEarned:             xpEarned,
		NewBadges:            newBadges,
	}
	switch {
	case nextItem != nil:
		result.Message = "条目完成！"
		result.NextItem = &ItemRef{
			ID:          nextItem.ID,
			Order:       nextItem.Order,
			ContentType: nextItem.ContentType,
		}
	case courseProgress.IsCompleted:
		result.Message = "恭喜！课程全部完成！"
	default:
		result.Message = "这是课程的最后一项，课程里还有跳过的内容未完成。"
	}
	return result, nil
}

// Navigation 返回条目的前后相邻项与调用者在该课程的进度
func (s *ProgressService) Navigation(userID, itemID uint) (*NavigationInfo, error) {
	item, err := s.CourseRepo.FindItemByID(itemID)
	if err != nil {
		return nil, util.ErrCourseItemNotFound
	}

	info := &NavigationInfo{
		Current: ItemRef{
			ID:          item.ID,
			Order:       item.Order,
			ContentType: item.ContentType,
			Title:       itemTitle(item),
		},
	}

	if prev, err := s.CourseRepo.PreviousItem(item.CourseID, item.Order); err == nil {
		info.Previous = &ItemRef{ID: prev.ID, Order: prev.Order}
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if next, err := s.CourseRepo.NextItem(item.CourseID, item.Order); err == nil {
		info.Next = &ItemRef{ID: next.ID, Order: next.Order}
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if progress, err := s.ProgressRepo.FindCourseProgress(userID, item.CourseID); err == nil {
		ref := &CourseProgressRef{CompletionPercentage: progress.CompletionPercentage}
		if progress.CurrentItem != nil {
			order := progress.CurrentItem.Order
			ref.CurrentItemOrder = &order
		}
		info.CourseProgress = ref
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	return info, nil
}

func (s *ProgressService) evaluateBadges(userID uint) []model.Badge {
	if s.BadgeService == nil {
		return nil
	}
	badges, err := s.BadgeService.EvaluateUser(userID)
	if err != nil {
		logger.Log.Error("badge evaluation failed",
			zap.Uint("user_id", userID),
			zap.Error(err))
		return nil
	}
	return badges
}

func itemTitle(item *model.CourseItem) string {
	switch item.ContentType {
	case model.ContentVideo:
		if item.Video != nil {
			return item.Video.Title
		}
	case model.ContentExercise:
		if item.Exercise != nil {
			return item.Exercise.Title
		}
	}
	return ""
}
