package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"portfolio_backend/internal/validator"
	"portfolio_backend/pkg/logger"
	"portfolio_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CodeExecutor 提交编排对在线执行沙箱的依赖
type CodeExecutor interface {
	Execute(ctx context.Context, sourceCode, language, stdin, expectedOutput string) *ExecutionResult
}

// CodeGrader 提交编排对 AI 评审的依赖
type CodeGrader interface {
	IsAvailable() bool
	EvaluateCode(ctx context.Context, submitted, solution, language, instructions, executionOutput string) *GradeResult
}

// browserAPIs 前端代码在无头沙箱里必然缺失的全局对象
var browserAPIs = []string{"alert", "prompt", "confirm", "document", "window", "console", "localStorage"}

// browserLanguages stderr 里出现浏览器 API 报错时按告警放行的语言
var browserLanguages = map[string]bool{
	"javascript": true,
	"js":         true,
	"typescript": true,
	"html":       true,
}

// SubmissionVerdict 一次提交的完整结论，直接序列化给前端
type SubmissionVerdict struct {
	Success                bool          `json:"success"`
	Message                string        `json:"message"`
	Hint                   string        `json:"hint,omitempty"`
	Feedback               string        `json:"feedback,omitempty"`
	Points                 int           `json:"points"`
	TotalPoints            int           `json:"totalPoints"`
	XP                     int           `json:"xp"`
	Level                  int           `json:"level"`
	StreakDays             int           `json:"streakDays"`
	AIScore                int           `json:"aiScore,omitempty"`
	AlreadyCompleted       bool          `json:"alreadyCompleted,omitempty"`
	CurrentAnswerIncorrect bool          `json:"currentAnswerIncorrect,omitempty"`
	NewBadges              []model.Badge `json:"newBadges,omitempty"`
}

// evaluation 校验流水线的中间结论，尚未合并进度账本
type evaluation struct {
	IsCorrect bool
	Message   string
	Hint      string
	Feedback  string
	AIScore   int
}

// SubmissionService 练习提交编排：沙箱执行 → AI 评审（或启发式校验）→ 进度账本
type SubmissionService struct {
	DB           *gorm.DB
	ExerciseRepo *repository.ExerciseRepository
	ProgressRepo *repository.ProgressRepository
	BadgeService *BadgeService
	Executor     CodeExecutor
	Grader       CodeGrader
	Cache        *redis.Client
}

func NewSubmissionService(db *gorm.DB, exerciseRepo *repository.ExerciseRepository, progressRepo *repository.ProgressRepository, badgeService *BadgeService, executor CodeExecutor, grader CodeGrader, cache *redis.Client) *SubmissionService {
	return &SubmissionService{
		DB:           db,
		ExerciseRepo: exerciseRepo,
		ProgressRepo: progressRepo,
		BadgeService: badgeService,
		Executor:     executor,
		Grader:       grader,
		Cache:        cache,
	}
}

// Submit 提交练习解答并结算进度
// 重复通过的练习不再加分，完成状态也不会因为一次错误提交而回退
func (s *SubmissionService) Submit(ctx context.Context, userID, exerciseID uint, code string) (*SubmissionVerdict, error) {
	exercise, err := s.ExerciseRepo.FindByID(exerciseID)
	if err != nil {
		return nil, util.ErrExerciseNotFound
	}

	alreadyCompleted, err := s.ProgressRepo.HasCompletedExercise(userID, exercise.ID)
	if err != nil {
		return nil, err
	}

	outcome := s.evaluate(ctx, exercise, code)

	verdictLabel := "rejected"
	if outcome.IsCorrect {
		verdictLabel = "accepted"
	}
	monitoring.SubmissionCounter.WithLabelValues(strings.ToLower(string(exercise.Language)), verdictLabel).Inc()

	if alreadyCompleted {
		return s.repeatVerdict(userID, outcome)
	}

	points := 0
	var progress *model.UserProgress
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		locked, err := s.ProgressRepo.GetOrCreateForUpdate(tx, userID)
		if err != nil {
			return err
		}
		progress = locked

		attempt, err := s.bumpAttempts(tx, userID, exercise.ID)
		if err != nil {
			return err
		}
		if !outcome.IsCorrect {
			return nil
		}

		firstTry := attempt.Attempts == 1
		completion := model.ExerciseCompletion{
			UserID:      userID,
			ExerciseID:  exercise.ID,
			CompletedAt: time.Now(),
			FirstTry:    firstTry,
		}
		if err := tx.Create(&completion).Error; err != nil {
			return err
		}
		if firstTry {
			progress.FirstTrySuccesses++
		}

		points = model.PointsForDifficulty(exercise.Difficulty)
		AddXP(progress, points)
		CheckStreak(progress, time.Now())
		return tx.Save(progress).Error
	})
	if err != nil {
		return nil, err
	}

	if !outcome.IsCorrect {
		verdict := &SubmissionVerdict{
			Success:  false,
			Message:  outcome.Message,
			Hint:     outcome.Hint,
			Feedback: outcome.Feedback,
			AIScore:  outcome.AIScore,
		}
		if verdict.Message == "" {
			verdict.Message = "解答不正确，再试一次！"
		}
		if verdict.Hint == "" {
			verdict.Hint = "对照练习说明检查代码的逻辑。"
		}
		return verdict, nil
	}

	invalidateLeaderboard(ctx, s.Cache)

	var newBadges []model.Badge
	if s.BadgeService != nil {
		newBadges, err = s.BadgeService.EvaluateUser(userID)
		if err != nil {
			logger.Log.Error("badge evaluation failed after submission",
				zap.Uint("user_id", userID),
				zap.Error(err))
			newBadges = nil
		}
	}

	verdict := &SubmissionVerdict{
		Success:     true,
		Message:     outcome.Message,
		Feedback:    outcome.Feedback,
		Points:      points,
		TotalPoints: progress.TotalPoints,
		XP:          progress.XP,
		Level:       progress.Level,
		StreakDays:  progress.StreakDays,
		AIScore:     outcome.AIScore,
		NewBadges:   newBadges,
	}
	if verdict.Message == "" {
		verdict.Message = "太棒了！解答正确！"
	}
	return verdict, nil
}

// repeatVerdict 已通过练习的重复提交：照常评审，但积分与完成状态不变
func (s *SubmissionService) repeatVerdict(userID uint, outcome *evaluation) (*SubmissionVerdict, error) {
	progress, err := s.ProgressRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	verdict := &SubmissionVerdict{
		Success:          true,
		Points:           0,
		TotalPoints:      progress.TotalPoints,
		XP:               progress.XP,
		Level:            progress.Level,
		StreakDays:       progress.StreakDays,
		AIScore:          outcome.AIScore,
		AlreadyCompleted: true,
	}
	if outcome.IsCorrect {
		verdict.Message = "这道练习你已经完成过了，新解答同样正确！"
		verdict.Feedback = "完成状态保持不变，继续下一道练习吧。"
		return verdict, nil
	}
	verdict.Message = "这道练习你已经完成过了，但本次解答不正确"
	verdict.Feedback = "完成状态保持不变，不过这次提交没有通过评审。"
	verdict.Hint = outcome.Hint
	verdict.CurrentAnswerIncorrect = true
	return verdict, nil
}

// bumpAttempts 提交次数 +1，(user, exercise) 首次提交时建档
func (s *SubmissionService) bumpAttempts(tx *gorm.DB, userID, exerciseID uint) (*model.ExerciseAttempt, error) {
	var attempt model.ExerciseAttempt
	err := tx.Where("user_id = ? AND exercise_id = ?", userID, exerciseID).First(&attempt).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		attempt = model.ExerciseAttempt{UserID: userID, ExerciseID: exerciseID}
	}
	attempt.Attempts++
	if err := tx.Save(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// evaluate 校验流水线：沙箱执行 → AI 评审，AI 未配置时退回启发式校验
// 编译错误和非前端语言的运行时错误直接判不通过，不再送 AI
func (s *SubmissionService) evaluate(ctx context.Context, exercise *model.AcademyExercise, code string) *evaluation {
	if len(strings.TrimSpace(code)) < 5 {
		return &evaluation{
			IsCorrect: false,
			Message:   "代码太短",
			Hint:      "请写出完整的解答再提交。",
			Feedback:  "你的代码应当包含几行有效的逻辑。",
		}
	}

	language := strings.ToLower(string(exercise.Language))
	executionOutput := ""

	result := s.Executor.Execute(ctx, code, language, "", "")
	switch {
	case result.Success:
		executionOutput = result.Stdout
	case result.CompileOutput != "":
		return &evaluation{
			IsCorrect: false,
			Message:   "编译错误",
			Hint:      "检查代码的语法。",
			Feedback:  fmt.Sprintf("错误: %s", util.Truncate(result.CompileOutput, 200)),
		}
	case result.Stderr != "":
		if browserLanguages[language] && containsBrowserAPI(result.Stderr) {
			// 浏览器 API 在沙箱里必然报错，对前端代码不算失败
			executionOutput = fmt.Sprintf("注意：代码使用了浏览器 API（沙箱中不可用）: %s", util.Truncate(result.Stderr, 100))
			break
		}
		return &evaluation{
			IsCorrect: false,
			Message:   "运行时错误",
			Hint:      "代码在执行时出错，检查逻辑和边界情况。",
			Feedback:  fmt.Sprintf("错误: %s", util.Truncate(result.Stderr, 200)),
		}
	default:
		if result.Failed() {
			// 沙箱不可用不阻断提交，AI 评审在没有执行结果时照常工作
			logger.Log.Warn("executor unavailable, grading without execution output",
				zap.String("language", language),
				zap.String("error", result.Error))
		}
	}

	if s.Grader != nil && s.Grader.IsAvailable() {
		grade := s.Grader.EvaluateCode(ctx, code, exercise.SolutionCode, language, exercise.Instructions, executionOutput)
		return &evaluation{
			IsCorrect: grade.IsCorrect,
			Message:   grade.Feedback,
			Hint:      grade.Suggestions,
			Feedback:  util.Truncate(grade.Reasoning, 300),
			AIScore:   grade.Score,
		}
	}

	monitoring.GraderFallbackCounter.WithLabelValues("gemini", "heuristic").Inc()
	res := validator.ForLanguage(language).Validate(code, exercise.SolutionCode)
	return &evaluation{
		IsCorrect: res.IsCorrect,
		Message:   res.Message,
		Hint:      res.Hint,
		Feedback:  res.Feedback,
	}
}

// ExecuteCode 在线运行代码，不评审、不计分
func (s *SubmissionService) ExecuteCode(ctx context.Context, exerciseID uint, code, stdin string) (*ExecutionResult, error) {
	exercise, err := s.ExerciseRepo.FindByID(exerciseID)
	if err != nil {
		return nil, util.ErrExerciseNotFound
	}
	if len(strings.TrimSpace(code)) < 5 {
		return nil, util.ErrCodeTooShort
	}
	return s.Executor.Execute(ctx, code, strings.ToLower(string(exercise.Language)), stdin, ""), nil
}

func containsBrowserAPI(stderr string) bool {
	lowered := strings.ToLower(stderr)
	for _, api := range browserAPIs {
		if strings.Contains(lowered, strings.ToLower(api)) {
			return true
		}
	}
	return false
}
