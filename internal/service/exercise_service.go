package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"portfolio_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const solutionCacheTTL = 10 * time.Minute

// SolutionView 查看参考答案接口的响应
type SolutionView struct {
	Title    string                 `json:"title"`
	Language model.ExerciseLanguage `json:"language"`
	Solution string                 `json:"solution"`
}

// ExerciseService 编程练习管理与参考答案查看
type ExerciseService struct {
	ExerciseRepo *repository.ExerciseRepository
	Cache        *redis.Client
}

func NewExerciseService(exerciseRepo *repository.ExerciseRepository, cache *redis.Client) *ExerciseService {
	return &ExerciseService{ExerciseRepo: exerciseRepo, Cache: cache}
}

// ListExercises 非管理员只能看到启用中的练习，language 可选过滤
func (s *ExerciseService) ListExercises(language string, isAdmin bool) ([]model.AcademyExercise, error) {
	if isAdmin {
		return s.ExerciseRepo.ListAll()
	}
	return s.ExerciseRepo.List(language)
}

func (s *ExerciseService) GetExercise(id uint, isAdmin bool) (*model.AcademyExercise, error) {
	exercise, err := s.ExerciseRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrExerciseNotFound
	}
	if !exercise.IsActive && !isAdmin {
		return nil, util.ErrExerciseNotFound
	}
	return exercise, nil
}

func (s *ExerciseService) CreateExercise(exercise *model.AcademyExercise) error {
	return s.ExerciseRepo.Create(exercise)
}

func (s *ExerciseService) UpdateExercise(ctx context.Context, id uint, updated *model.AcademyExercise) (*model.AcademyExercise, error) {
	exercise, err := s.ExerciseRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrExerciseNotFound
	}

	exercise.Title = updated.Title
	exercise.Description = updated.Description
	exercise.Language = updated.Language
	exercise.Difficulty = updated.Difficulty
	exercise.Instructions = updated.Instructions
	exercise.StarterCode = updated.StarterCode
	exercise.SolutionCode = updated.SolutionCode
	exercise.TestCases = updated.TestCases
	exercise.Order = updated.Order
	exercise.IsActive = updated.IsActive
	if err := s.ExerciseRepo.Update(exercise); err != nil {
		return nil, err
	}
	s.invalidateSolution(ctx, id)
	return exercise, nil
}

func (s *ExerciseService) DeleteExercise(ctx context.Context, id uint) error {
	if _, err := s.ExerciseRepo.FindByID(id); err != nil {
		return util.ErrExerciseNotFound
	}
	if err := s.ExerciseRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateSolution(ctx, id)
	return nil
}

// Solution 返回参考答案，走 Redis 缓存减少热门练习的回表
func (s *ExerciseService) Solution(ctx context.Context, id uint) (*SolutionView, error) {
	key := solutionCacheKey(id)
	if s.Cache != nil {
		if raw, err := s.Cache.Get(ctx, key).Result(); err == nil {
			var view SolutionView
			if json.Unmarshal([]byte(raw), &view) == nil {
				return &view, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("solution cache read failed", zap.Error(err))
		}
	}

	exercise, err := s.ExerciseRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrExerciseNotFound
	}
	view := &SolutionView{
		Title:    exercise.Title,
		Language: exercise.Language,
		Solution: exercise.SolutionCode,
	}

	if s.Cache != nil {
		if raw, err := json.Marshal(view); err == nil {
			if err := s.Cache.Set(ctx, key, raw, solutionCacheTTL).Err(); err != nil {
				logger.Log.Warn("solution cache write failed", zap.Error(err))
			}
		}
	}
	return view, nil
}

func (s *ExerciseService) invalidateSolution(ctx context.Context, id uint) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, solutionCacheKey(id)).Err(); err != nil && err != redis.Nil {
		logger.Log.Warn("solution cache invalidation failed", zap.Uint("exercise_id", id), zap.Error(err))
	}
}

func solutionCacheKey(id uint) string {
	return fmt.Sprintf("academy:solution:%d", id)
}
