package service

import (
	"context"
	"testing"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubExecutor struct {
	result       *ExecutionResult
	calls        int
	lastLanguage string
	lastStdin    string
}

func (s *stubExecutor) Execute(_ context.Context, _, language, stdin, _ string) *ExecutionResult {
	s.calls++
	s.lastLanguage = language
	s.lastStdin = stdin
	if s.result != nil {
		return s.result
	}
	return &ExecutionResult{Success: true, StatusID: 3, Stdout: "ok"}
}

type stubGrader struct {
	available  bool
	result     *GradeResult
	calls      int
	lastOutput string
}

func (s *stubGrader) IsAvailable() bool { return s.available }

func (s *stubGrader) EvaluateCode(_ context.Context, _, _, _, _, executionOutput string) *GradeResult {
	s.calls++
	s.lastOutput = executionOutput
	return s.result
}

func correctGrade() *GradeResult {
	return &GradeResult{IsCorrect: true, Score: 95, Feedback: "写得很好", Reasoning: "matches expected behaviour"}
}

func incorrectGrade() *GradeResult {
	return &GradeResult{IsCorrect: false, Score: 35, Feedback: "逻辑有误", Suggestions: "检查循环边界"}
}

func newSubmissionTestService(db *gorm.DB, executor CodeExecutor, grader CodeGrader) *SubmissionService {
	progressRepo := repository.NewProgressRepository(db)
	badgeService := NewBadgeService(repository.NewBadgeRepository(db), progressRepo)
	return NewSubmissionService(db, repository.NewExerciseRepository(db), progressRepo, badgeService, executor, grader, nil)
}

func TestSubmitExerciseNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionTestService(db, &stubExecutor{}, &stubGrader{})

	_, err := svc.Submit(context.Background(), 1, 999, "print('hello')")
	assert.ErrorIs(t, err, util.ErrExerciseNotFound)
}

func TestSubmitRejectsTooShortCode(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	exercise := createTestExercise(t, db, model.DifficultyEasy)
	executor := &stubExecutor{}
	svc := newSubmissionTestService(db, executor, &stubGrader{available: true, result: correctGrade()})

	verdict, err := svc.Submit(context.Background(), user.ID, exercise.ID, "x=1")
	require.NoError(t, err)

	assert.False(t, verdict.Success)
	assert.Equal(t, "代码太短", verdict.Message)
	assert.NotEmpty(t, verdict.Hint)
	// 太短的代码不应送进沙箱
	assert.Zero(t, executor.calls)

	// 失败的提交同样计入尝试次数
	attempts, err := repository.NewProgressRepository(db).AttemptsFor(user.ID, exercise.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestSubmitCompileErrorSkipsGrader(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	exercise := createTestExercise(t, db, model.DifficultyEasy)
	executor := &stubExecutor{result: &ExecutionResult{
		Success:       false,
		StatusID:      6,
		CompileOutput: "SyntaxError: invalid syntax",
	}}
	grader := &stubGrader{available: true, result: correctGrade()}
	svc := newSubmissionTestService(db, executor, grader)

	verdict, err := svc.Submit(context.Background(), user.ID, exercise.ID, "print('hello'")
	require.NoError(t, err)

	assert.False(t, verdict.Success)
	assert.Equal(t, "编译错误", verdict.Message)
	assert.Contains(t, verdict.Feedback, "SyntaxError")
	assert.Zero(t, grader.calls)
}

func TestSubmitRuntimeErrorSkipsGraderForBackendLanguage(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	exercise := createTestExercise(t, db, model.DifficultyEasy)
	executor := &stubExecutor{result: &ExecutionResult{
		Success:  false,
		StatusID: 11,
		Stderr:   "ZeroDivisionError: division by zero",
	}}
	grader := &stubGrader{available: true, result: correctGrade()}
	svc := newSubmissionTestService(db, executor, grader)

	verdict, err := svc.Submit(context.Background(), user.ID, exercise.ID, "print(1/0)")
	require.NoError(t, err)

	assert.False(t, verdict.Success)
	assert.Equal(t, "运行时错误", verdict.Message)
	assert.Zero(t, grader.calls)
}

func TestSubmitBrowserAPIErrorStillGraded(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	exercise := &model.AcademyExercise{
		Title:        "弹窗问候",
		Language:     model.LangJavaScript,
		Difficulty:   model.DifficultyEasy,
		SolutionCode: "alert('Bonjour');",
		IsActive:     true,
	}
	require.NoError(t, db.Create(exercise).Error)

	executor := &stubExecutor{result: &ExecutionResult{
		Success:  false,
		StatusID: 11,
		Stderr:   "ReferenceError: alert is not defined",
	}}
	grader := &stubGrader{available: true, result: correctGrade()}
	svc := newSubmissionTestService(db, executor, grader)

	verdict, err := svc.Submit(context.Background(), user.ID, exercise.ID, "alert('Bonjour');")
	require.NoError(t, err)

	// 前端代码在无头沙箱里的浏览器 API 报错按告警放行，照常送 AI 评审
	assert.True(t, verdict.Success)
	assert.Equal(t, 1, grader.calls)
	assert.Contains(t, grader.lastOutput, "浏览器 API")
	assert.Equal(t, "javascript", executor.lastLanguage)
}

func TestSubmitExecutorUnavailableStillGraded(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	exercise := createTestExercise(t, db, model.DifficultyEasy)
	executor := &stubExecutor{result: &ExecutionResult{
		Success: false,
		Error:   "connection refused",
		Message: "无法连接代码执行服务，请检查网络",
	}}
	grader := &stubGrader{available: true, result: correctGrade()}
	svc := newSubmissionTestService(db, executor, grader)

	verdict, err := svc.Submit(context.Background(), user.ID, exercise.ID, "print('Hello, World!')")
	require.NoError(t, err)

	// 沙箱不可用不阻断提交，AI 在没有执行结果时照常评审
	assert.True(t, verdict.Success)
	assert.Equal(t, 1, grader.calls)
	assert.Empty(t, grader.lastOutput)
}

func TestSubmitFirstCorrectSubmission(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	exercise := createTestExercise(t, db, model.DifficultyEasy)
	require.NoError(t, db.Create(&model.Badge{
		Name:           "First Steps",
		ConditionType:  model.CondExercisesCompleted,
		ConditionValue: 1,
		IsActive:       true,
	}).Error)

	grader := &stubGrader{available: true, result: correctGrade()}
	svc := newSubmissionTestService(db, &stubExecutor{}, grader)

	verdict, err := svc.Submit(context.Background(), user.ID, exercise.ID, "print('Hello, World!')")
	require.NoError(t, err)

	assert.True(t, verdict.Success)
	assert.Equal(t, 20, verdict.Points)
	assert.Equal(t, 20, verdict.XP)
	assert.Equal(t, 20, verdict.TotalPoints)
	assert.Equal(t, 1, verdict.Level)
	assert.Equal(t, 1, verdict.StreakDays)
	assert.Equal(t, 95, verdict.AIScore)
	assert.False(t, verdict.AlreadyCompleted)

	// 首答即中解锁对应徽章
	require.Len(t, verdict.NewBadges, 1)
	assert.Equal(t, "First Steps", verdict.NewBadges[0].Name)

	var completion model.ExerciseCompletion
	require.NoError(t, db.Where("user_id = ? AND exercise_id = ?", user.ID, exercise.ID).First(&completion).Error)
	assert.True(t, completion.FirstTry)

	var progress model.UserProgress
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&progress).Error)
	assert.Equal(t, 1, progress.FirstTrySuccesses)
}

func TestSubmitRepeatAfterCompleted(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	exercise := createTestExercise(t, db, model.DifficultyEasy)
	grader := &stubGrader{available: true, result: correctGrade()}
	svc := newSubmissionTestService(db, &stubExecutor{}, grader)

	_, err := svc.Submit(context.Background(), user.ID, exercise.ID, "print('Hello, World!')")
	require.NoError(t, err)

	t.Run("correct repeat earns nothing", func(t *testing.T) {
		verdict, err := svc.Submit(context.Background(), user.ID, exercise.ID, "print('Hello, World!')")
		require.NoError(t, err)

		assert.True(t, verdict.Success)
		assert.True(t, verdict.AlreadyCompleted)
		assert.Zero(t, verdict.Points)
		assert.Equal(t, 20, verdict.XP)
		assert.False(t, verdict.CurrentAnswerIncorrect)
	})

	t.Run("incorrect repeat keeps completion", func(t *testing.T) {
		grader.result = incorrectGrade()
		verdict, err := svc.Submit(context.Background(), user.ID, exercise.ID, "print('wrong')")
		require.NoError(t, err)

		assert.True(t, verdict.Success)
		assert.True(t, verdict.AlreadyCompleted)
		assert.True(t, verdict.CurrentAnswerIncorrect)
		assert.Equal(t, 20, verdict.XP)

		// 完成状态没有回退
		done, err := repository.NewProgressRepository(db).HasCompletedExercise(user.ID, exercise.ID)
		require.NoError(t, err)
		assert.True(t, done)
	})

	t.Run("repeat submissions do not bump attempts", func(t *testing.T) {
		attempts, err := repository.NewProgressRepository(db).AttemptsFor(user.ID, exercise.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})
}

func TestSubmitSecondTryIsNotFirstTry(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	exercise := createTestExercise(t, db, model.DifficultyMedium)
	grader := &stubGrader{available: true, result: incorrectGrade()}
	svc := newSubmissionTestService(db, &stubExecutor{}, grader)

	verdict, err := svc.Submit(context.Background(), user.ID, exercise.ID, "print('almost')")
	require.NoError(t, err)
	assert.False(t, verdict.Success)
	assert.Equal(t, "逻辑有误", verdict.Message)
	assert.Equal(t, "检查循环边界", verdict.Hint)

	grader.result = correctGrade()
	verdict, err = svc.Submit(context.Background(), user.ID, exercise.ID, "print('Hello, World!')")
	require.NoError(t, err)

	assert.True(t, verdict.Success)
	assert.Equal(t, 30, verdict.Points)
	assert.Equal(t, 30, verdict.XP)

	var completion model.ExerciseCompletion
	require.NoError(t, db.Where("user_id = ? AND exercise_id = ?", user.ID, exercise.ID).First(&completion).Error)
	assert.False(t, completion.FirstTry)

	var progress model.UserProgress
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&progress).Error)
	assert.Zero(t, progress.FirstTrySuccesses)

	attempts, err := repository.NewProgressRepository(db).AttemptsFor(user.ID, exercise.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestSubmitHeuristicFallbackWhenGraderUnavailable(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")
	exercise := &model.AcademyExercise{
		Title:        "问候",
		Language:     model.LangPython,
		Difficulty:   model.DifficultyEasy,
		SolutionCode: "name = 'World'\nprint('Hello', name)",
		IsActive:     true,
	}
	require.NoError(t, db.Create(exercise).Error)

	grader := &stubGrader{available: false}
	svc := newSubmissionTestService(db, &stubExecutor{}, grader)

	verdict, err := svc.Submit(context.Background(), user.ID, exercise.ID, "name = 'World'\nprint('Hello', name)")
	require.NoError(t, err)

	// AI 未配置时退回按语言的启发式校验
	assert.True(t, verdict.Success)
	assert.Equal(t, 20, verdict.Points)
	assert.Zero(t, grader.calls)
}

func TestExecuteCode(t *testing.T) {
	db := newTestDB(t)
	exercise := createTestExercise(t, db, model.DifficultyEasy)
	executor := &stubExecutor{result: &ExecutionResult{Success: true, StatusID: 3, Stdout: "Hello"}}
	svc := newSubmissionTestService(db, executor, &stubGrader{})

	t.Run("exercise not found", func(t *testing.T) {
		_, err := svc.ExecuteCode(context.Background(), 999, "print('hello')", "")
		assert.ErrorIs(t, err, util.ErrExerciseNotFound)
	})

	t.Run("code too short", func(t *testing.T) {
		_, err := svc.ExecuteCode(context.Background(), exercise.ID, "  x  ", "")
		assert.ErrorIs(t, err, util.ErrCodeTooShort)
	})

	t.Run("runs code with stdin", func(t *testing.T) {
		result, err := svc.ExecuteCode(context.Background(), exercise.ID, "print(input())", "Ada")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "Hello", result.Stdout)
		assert.Equal(t, "python", executor.lastLanguage)
		assert.Equal(t, "Ada", executor.lastStdin)
	})
}
