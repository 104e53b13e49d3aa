package model

import "time"

type BadgeCondition string

const (
	CondExercisesCompleted BadgeCondition = "exercises_completed"
	CondVideosCompleted    BadgeCondition = "videos_completed"
	CondStreak             BadgeCondition = "streak"
	CondXPTotal            BadgeCondition = "xp_total"
	CondLevelReached       BadgeCondition = "level_reached"
	CondFirstTrySuccess    BadgeCondition = "first_try_success"
	CondTimeBased          BadgeCondition = "time_based"
)

// Badge 徽章定义：条件类型 + 解锁阈值
type Badge struct {
	BaseModel
	Name           string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	Icon           string         `gorm:"size:50;default:'🏆'" json:"icon"`
	ConditionType  BadgeCondition `gorm:"size:30;not null" json:"conditionType"`
	ConditionValue int            `gorm:"not null" json:"conditionValue"`
	Color          string         `gorm:"size:20;default:'primary'" json:"color"`
	Order          int            `gorm:"default:0;index" json:"order"`
	IsActive       bool           `gorm:"default:true;index" json:"isActive"`
}

func (Badge) TableName() string {
	return "badges"
}

// UserBadge 用户解锁记录，(user, badge) 唯一，至多授予一次
type UserBadge struct {
	BaseModel
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"userId"`
	BadgeID    uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"badgeId"`
	Badge      *Badge    `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
