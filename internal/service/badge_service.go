package service

import (
	"context"
	"time"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"portfolio_backend/pkg/logger"

	"go.uber.org/zap"
)

// badgeSnapshot 条件评估用的账本计数快照
type badgeSnapshot struct {
	ExercisesCompleted int64
	VideosCompleted    int64
	StreakDays         int
	XP                 int
	Level              int
	FirstTrySuccesses  int
}

// BadgeView 徽章定义加当前用户的解锁状态
type BadgeView struct {
	model.Badge
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

// BadgeService 徽章发放：账本变更后触发评估，后台定时巡检兜底
type BadgeService struct {
	BadgeRepo    *repository.BadgeRepository
	ProgressRepo *repository.ProgressRepository
}

func NewBadgeService(badgeRepo *repository.BadgeRepository, progressRepo *repository.ProgressRepository) *BadgeService {
	return &BadgeService{BadgeRepo: badgeRepo, ProgressRepo: progressRepo}
}

// EvaluateUser 对用户重评所有启用中的徽章，返回本次新解锁的
// (user, badge) 唯一索引保证并发评估下同一徽章至多发放一次
func (s *BadgeService) EvaluateUser(userID uint) ([]model.Badge, error) {
	progress, err := s.ProgressRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	exercises, err := s.ProgressRepo.CountCompletedExercises(userID)
	if err != nil {
		return nil, err
	}
	videos, err := s.ProgressRepo.CountCompletedVideos(userID)
	if err != nil {
		return nil, err
	}
	snap := badgeSnapshot{
		ExercisesCompleted: exercises,
		VideosCompleted:    videos,
		StreakDays:         progress.StreakDays,
		XP:                 progress.XP,
		Level:              progress.Level,
		FirstTrySuccesses:  progress.FirstTrySuccesses,
	}

	badges, err := s.BadgeRepo.ListActive()
	if err != nil {
		return nil, err
	}
	unlocked, err := s.BadgeRepo.UnlockedBadgeIDs(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var awarded []model.Badge
	for _, badge := range badges {
		if unlocked[badge.ID] || !badgeConditionMet(&badge, snap, now) {
			continue
		}
		userBadge := model.UserBadge{UserID: userID, BadgeID: badge.ID, UnlockedAt: now}
		if err := s.BadgeRepo.Award(&userBadge); err != nil {
			// 并发评估撞上唯一索引时按已持有处理
			logger.Log.Debug("badge award skipped",
				zap.Uint("user_id", userID),
				zap.Uint("badge_id", badge.ID),
				zap.Error(err))
			continue
		}
		logger.Log.Info("badge unlocked",
			zap.Uint("user_id", userID),
			zap.String("badge", badge.Name))
		awarded = append(awarded, badge)
	}
	return awarded, nil
}

// ListWithUnlockState 启用中的徽章列表，附带用户的解锁状态与时间
func (s *BadgeService) ListWithUnlockState(userID uint) ([]BadgeView, error) {
	badges, err := s.BadgeRepo.ListActive()
	if err != nil {
		return nil, err
	}
	userBadges, err := s.BadgeRepo.ListUserBadges(userID)
	if err != nil {
		return nil, err
	}
	unlockedAt := make(map[uint]time.Time, len(userBadges))
	for _, ub := range userBadges {
		unlockedAt[ub.BadgeID] = ub.UnlockedAt
	}

	views := make([]BadgeView, 0, len(badges))
	for _, badge := range badges {
		view := BadgeView{Badge: badge}
		if at, ok := unlockedAt[badge.ID]; ok {
			view.Unlocked = true
			t := at
			view.UnlockedAt = &t
		}
		views = append(views, view)
	}
	return views, nil
}

// MyBadges 用户已解锁的徽章，按解锁时间倒序
func (s *BadgeService) MyBadges(userID uint) ([]model.UserBadge, error) {
	return s.BadgeRepo.ListUserBadges(userID)
}

// Sweep 后台巡检：对所有有进度记录的用户重评一遍
// time_based 这类只随时钟满足的条件靠它兜底
func (s *BadgeService) Sweep(ctx context.Context) {
	ids, err := s.ProgressRepo.UserIDsWithProgress()
	if err != nil {
		logger.Log.Error("badge sweep failed to list users", zap.Error(err))
		return
	}

	total := 0
	for _, id := range ids {
		select {
		case <-ctx.Done():
			return
		default:
		}
		awarded, err := s.EvaluateUser(id)
		if err != nil {
			logger.Log.Warn("badge sweep evaluation failed",
				zap.Uint("user_id", id),
				zap.Error(err))
			continue
		}
		total += len(awarded)
	}
	logger.Log.Info("badge sweep finished",
		zap.Int("users", len(ids)),
		zap.Int("awarded", total))
}

func (s *BadgeService) ListAll() ([]model.Badge, error) {
	return s.BadgeRepo.ListAll()
}

func (s *BadgeService) CreateBadge(badge *model.Badge) error {
	return s.BadgeRepo.Create(badge)
}

func (s *BadgeService) UpdateBadge(id uint, updated *model.Badge) (*model.Badge, error) {
	badge, err := s.BadgeRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrBadgeNotFound
	}
	badge.Name = updated.Name
	badge.Description = updated.Description
	badge.Icon = updated.Icon
	badge.ConditionType = updated.ConditionType
	badge.ConditionValue = updated.ConditionValue
	badge.Color = updated.Color
	badge.Order = updated.Order
	badge.IsActive = updated.IsActive
	if err := s.BadgeRepo.Update(badge); err != nil {
		return nil, err
	}
	return badge, nil
}

func (s *BadgeService) DeleteBadge(id uint) error {
	if _, err := s.BadgeRepo.FindByID(id); err != nil {
		return util.ErrBadgeNotFound
	}
	return s.BadgeRepo.Delete(id)
}

// badgeConditionMet 评估单个徽章条件
// time_based 阈值按小时解释：≤12 表示早于 N 点活跃，否则晚于等于 N 点
func badgeConditionMet(badge *model.Badge, snap badgeSnapshot, now time.Time) bool {
	v := badge.ConditionValue
	switch badge.ConditionType {
	case model.CondExercisesCompleted:
		return snap.ExercisesCompleted >= int64(v)
	case model.CondVideosCompleted:
		return snap.VideosCompleted >= int64(v)
	case model.CondStreak:
		return snap.StreakDays >= v
	case model.CondXPTotal:
		return snap.XP >= v
	case model.CondLevelReached:
		return snap.Level >= v
	case model.CondFirstTrySuccess:
		return snap.FirstTrySuccesses >= v
	case model.CondTimeBased:
		if v <= 12 {
			return now.Hour() < v
		}
		return now.Hour() >= v
	}
	return false
}
