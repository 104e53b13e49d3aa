package model

import "time"

// LevelThresholds 等级阈值表：XP 达到 thresholds[i] 时解锁 i+1 级
var LevelThresholds = []int{0, 100, 300, 700, 1500, 3000, 6000, 10000}

// LevelForXP 返回 XP 对应的等级：不超过 XP 的最大阈值下标 +1
// 等级只随 XP 单调增长，不会回退
func LevelForXP(xp int) int {
	level := 1
	for i, threshold := range LevelThresholds {
		if xp >= threshold {
			level = i + 1
		}
	}
	return level
}

// UserProgress 用户学习进度（每用户一条，首次访问时延迟创建）
// XP 单调不减；Level 是 XP 的纯函数，每次 XP 变化后重算
type UserProgress struct {
	BaseModel
	UserID            uint       `gorm:"uniqueIndex;not null" json:"userId"`
	XP                int        `gorm:"default:0" json:"xp"`
	TotalPoints       int        `gorm:"default:0" json:"totalPoints"`
	Level             int        `gorm:"default:1" json:"level"`
	StreakDays        int        `gorm:"default:0" json:"streakDays"`
	LastActivityDate  *time.Time `gorm:"type:date" json:"lastActivityDate"`
	FirstTrySuccesses int        `gorm:"default:0" json:"firstTrySuccesses"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// VideoCompletion 已完成视频集合的成员记录，(user, video) 唯一
type VideoCompletion struct {
	BaseModel
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_video" json:"userId"`
	VideoID     uint      `gorm:"not null;uniqueIndex:idx_user_video" json:"videoId"`
	CompletedAt time.Time `json:"completedAt"`
}

func (VideoCompletion) TableName() string {
	return "video_completions"
}

// ExerciseCompletion 已完成练习集合的成员记录，(user, exercise) 唯一
// FirstTry 表示首次提交即通过
type ExerciseCompletion struct {
	BaseModel
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_exercise" json:"userId"`
	ExerciseID  uint      `gorm:"not null;uniqueIndex:idx_user_exercise" json:"exerciseId"`
	CompletedAt time.Time `json:"completedAt"`
	FirstTry    bool      `gorm:"default:false" json:"firstTry"`
}

func (ExerciseCompletion) TableName() string {
	return "exercise_completions"
}

// ExerciseAttempt 练习提交次数计数，(user, exercise) 唯一，每次提交 +1
type ExerciseAttempt struct {
	BaseModel
	UserID     uint `gorm:"not null;uniqueIndex:idx_attempt_user_exercise" json:"userId"`
	ExerciseID uint `gorm:"not null;uniqueIndex:idx_attempt_user_exercise" json:"exerciseId"`
	Attempts   int  `gorm:"default:0" json:"attempts"`
}

func (ExerciseAttempt) TableName() string {
	return "exercise_attempts"
}

// UserCourseProgress 用户在单个课程内的进度，(user, course) 唯一，start 时延迟创建
// IsCompleted 在完成率首次到 100 时置位，CompletedAt 只写一次，之后不再变化
type UserCourseProgress struct {
	BaseModel
	UserID               uint        `gorm:"not null;uniqueIndex:idx_user_course" json:"userId"`
	CourseID             uint        `gorm:"not null;uniqueIndex:idx_user_course" json:"courseId"`
	CurrentItemID        *uint       `json:"currentItemId"`
	CurrentItem          *CourseItem `gorm:"foreignKey:CurrentItemID" json:"currentItem,omitempty"`
	IsStarted            bool        `gorm:"default:false" json:"isStarted"`
	IsCompleted          bool        `gorm:"default:false" json:"isCompleted"`
	CompletionPercentage int         `gorm:"default:0" json:"completionPercentage"`
	StartedAt            *time.Time  `json:"startedAt"`
	CompletedAt          *time.Time  `json:"completedAt"`
	LastAccessed         time.Time   `gorm:"autoUpdateTime" json:"lastAccessed"`
}

func (UserCourseProgress) TableName() string {
	return "user_course_progress"
}

// LeaderboardEntry 排行榜条目，联表查询的投影结果
type LeaderboardEntry struct {
	UserID     uint   `json:"userId"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	XP         int    `json:"xp"`
	Level      int    `json:"level"`
	StreakDays int    `json:"streakDays"`
	Rank       int    `json:"rank"`
}

// CourseItemCompletion 课程条目完成记录，(user, item) 唯一
type CourseItemCompletion struct {
	BaseModel
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_item" json:"userId"`
	ItemID      uint      `gorm:"not null;uniqueIndex:idx_user_item" json:"itemId"`
	CourseID    uint      `gorm:"index;not null" json:"courseId"`
	CompletedAt time.Time `json:"completedAt"`
}

func (CourseItemCompletion) TableName() string {
	return "course_item_completions"
}
