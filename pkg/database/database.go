package database

import (
	"fmt"
	"log"
	"time"

	"portfolio_backend/internal/config"
	"portfolio_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 建立 MySQL 连接并设置连接池水位
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.Charset, cfg.ParseTime)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")
	return db, nil
}

// Migrate 执行全部表结构迁移
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.Post{},
		&model.Comment{},
		&model.SiteConfig{},
		&model.Course{},
		&model.CourseItem{},
		&model.AcademyVideo{},
		&model.AcademyExercise{},
		&model.UserProgress{},
		&model.VideoCompletion{},
		&model.ExerciseCompletion{},
		&model.ExerciseAttempt{},
		&model.UserCourseProgress{},
		&model.CourseItemCompletion{},
		&model.Badge{},
		&model.UserBadge{},
	)
}

// Seed 写入初始数据：默认徽章与站点配置单例，表已有数据时跳过
func Seed(db *gorm.DB) {
	var badgeCount int64
	db.Model(&model.Badge{}).Count(&badgeCount)
	if badgeCount == 0 {
		defaultBadges := []model.Badge{
			{Name: "First Steps", Description: "完成你的第一道练习", Icon: "🎓", ConditionType: model.CondExercisesCompleted, ConditionValue: 1, Color: "green", Order: 1, IsActive: true},
			{Name: "Fire Starter", Description: "连续学习 3 天", Icon: "🔥", ConditionType: model.CondStreak, ConditionValue: 3, Color: "red", Order: 2, IsActive: true},
			{Name: "Perfect Score", Description: "5 道练习一次通过", Icon: "🎯", ConditionType: model.CondFirstTrySuccess, ConditionValue: 5, Color: "blue", Order: 3, IsActive: true},
			{Name: "Bookworm", Description: "看完 10 个教学视频", Icon: "📚", ConditionType: model.CondVideosCompleted, ConditionValue: 10, Color: "purple", Order: 4, IsActive: true},
			{Name: "Python Pro", Description: "完成 10 道练习", Icon: "🐍", ConditionType: model.CondExercisesCompleted, ConditionValue: 10, Color: "yellow", Order: 5, IsActive: true},
			{Name: "Speed Runner", Description: "在凌晨 5 点前完成练习", Icon: "🚀", ConditionType: model.CondTimeBased, ConditionValue: 5, Color: "cyan", Order: 6, IsActive: true},
			{Name: "Early Bird", Description: "在上午 8 点前完成练习", Icon: "🌟", ConditionType: model.CondTimeBased, ConditionValue: 8, Color: "orange", Order: 7, IsActive: true},
			{Name: "Night Owl", Description: "在晚上 10 点后完成练习", Icon: "🦉", ConditionType: model.CondTimeBased, ConditionValue: 22, Color: "indigo", Order: 8, IsActive: true},
			{Name: "Level Up", Description: "等级达到 5 级", Icon: "📈", ConditionType: model.CondLevelReached, ConditionValue: 5, Color: "pink", Order: 9, IsActive: true},
			{Name: "Centurion", Description: "累计获得 100 XP", Icon: "🏆", ConditionType: model.CondXPTotal, ConditionValue: 100, Color: "gold", Order: 10, IsActive: true},
		}
		for _, b := range defaultBadges {
			db.Create(&b)
		}
	}

	// 站点配置为单例，永远保证 id=1 的记录存在
	var cfgCount int64
	db.Model(&model.SiteConfig{}).Count(&cfgCount)
	if cfgCount == 0 {
		db.Create(&model.SiteConfig{
			BaseModel: model.BaseModel{ID: 1},
			HomeTitle: "Portfolio",
		})
	}
}
