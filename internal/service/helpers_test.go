package service

import (
	"os"
	"testing"

	"portfolio_backend/internal/model"
	"portfolio_backend/pkg/database"
	"portfolio_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// newTestDB 每个测试一个独立内存库
// 内存库随连接存在，限制单连接避免连接池后续拿到空库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestExercise(t *testing.T, db *gorm.DB, difficulty model.ExerciseDifficulty) *model.AcademyExercise {
	t.Helper()
	exercise := &model.AcademyExercise{
		Title:        "打印问候语",
		Language:     model.LangPython,
		Difficulty:   difficulty,
		Instructions: "打印 Hello, World!",
		SolutionCode: "print('Hello, World!')",
		IsActive:     true,
	}
	require.NoError(t, db.Create(exercise).Error)
	return exercise
}

func createTestVideo(t *testing.T, db *gorm.DB, title string, order int) *model.AcademyVideo {
	t.Helper()
	video := &model.AcademyVideo{
		Title:    title,
		VideoURL: "https://example.com/video.mp4",
		Order:    order,
		IsActive: true,
	}
	require.NoError(t, db.Create(video).Error)
	return video
}
