package service

import (
	"errors"
	"fmt"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"

	"gorm.io/gorm"
)

// CourseService 课程与课程条目管理
type CourseService struct {
	CourseRepo   *repository.CourseRepository
	VideoRepo    *repository.VideoRepository
	ExerciseRepo *repository.ExerciseRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, videoRepo *repository.VideoRepository, exerciseRepo *repository.ExerciseRepository) *CourseService {
	return &CourseService{
		CourseRepo:   courseRepo,
		VideoRepo:    videoRepo,
		ExerciseRepo: exerciseRepo,
	}
}

// ListCourses 课程列表：非管理员只能看到启用中的
func (s *CourseService) ListCourses(search string, isAdmin bool) ([]model.Course, error) {
	if isAdmin {
		return s.CourseRepo.ListAll(search)
	}
	return s.CourseRepo.List(search)
}

// FeaturedCourses 首页推荐位
func (s *CourseService) FeaturedCourses() ([]model.Course, error) {
	return s.CourseRepo.ListFeatured()
}

// GetCourse 支持数字 ID 或 slug 两种定位方式
func (s *CourseService) GetCourse(idOrSlug string, isAdmin bool) (*model.Course, error) {
	var course *model.Course
	var err error
	if id := util.MustParseUint(idOrSlug); id > 0 {
		course, err = s.CourseRepo.FindByID(id)
	} else {
		course, err = s.CourseRepo.FindBySlug(idOrSlug)
	}
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if !course.IsActive && !isAdmin {
		return nil, util.ErrCourseNotFound
	}
	return course, nil
}

// CreateCourse slug 缺省时由标题生成，重名时追加序号
func (s *CourseService) CreateCourse(course *model.Course) error {
	if course.Slug == "" {
		slug, err := s.uniqueSlug(course.Title)
		if err != nil {
			return err
		}
		course.Slug = slug
	}
	return s.CourseRepo.Create(course)
}

func (s *CourseService) UpdateCourse(id uint, updated *model.Course) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}

	course.Title = updated.Title
	course.Description = updated.Description
	course.ThumbnailURL = updated.ThumbnailURL
	course.Level = updated.Level
	course.Order = updated.Order
	course.IsActive = updated.IsActive
	course.IsFeatured = updated.IsFeatured
	course.EstimatedDuration = updated.EstimatedDuration
	if updated.Slug != "" && updated.Slug != course.Slug {
		course.Slug = updated.Slug
	}
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(id uint) error {
	if _, err := s.CourseRepo.FindByID(id); err != nil {
		return util.ErrCourseNotFound
	}
	return s.CourseRepo.Delete(id)
}

// GetItem 课程条目详情，带出关联的视频/练习
func (s *CourseService) GetItem(id uint) (*model.CourseItem, error) {
	item, err := s.CourseRepo.FindItemByID(id)
	if err != nil {
		return nil, util.ErrCourseItemNotFound
	}
	return item, nil
}

// CreateItem 校验课程存在且内容引用与类型一致
func (s *CourseService) CreateItem(item *model.CourseItem) error {
	if _, err := s.CourseRepo.FindByID(item.CourseID); err != nil {
		return util.ErrCourseNotFound
	}
	if err := s.validateItemContent(item); err != nil {
		return err
	}
	return s.CourseRepo.CreateItem(item)
}

func (s *CourseService) UpdateItem(id uint, updated *model.CourseItem) (*model.CourseItem, error) {
	item, err := s.CourseRepo.FindItemByID(id)
	if err != nil {
		return nil, util.ErrCourseItemNotFound
	}

	item.ContentType = updated.ContentType
	item.VideoID = updated.VideoID
	item.ExerciseID = updated.ExerciseID
	item.Order = updated.Order
	item.IsRequired = updated.IsRequired
	if err := s.validateItemContent(item); err != nil {
		return nil, err
	}
	if err := s.CourseRepo.UpdateItem(item); err != nil {
		return nil, err
	}
	return s.CourseRepo.FindItemByID(id)
}

func (s *CourseService) DeleteItem(id uint) error {
	if _, err := s.CourseRepo.FindItemByID(id); err != nil {
		return util.ErrCourseItemNotFound
	}
	return s.CourseRepo.DeleteItem(id)
}

// validateItemContent 视频条目必须指向存在的视频，练习条目同理
func (s *CourseService) validateItemContent(item *model.CourseItem) error {
	switch item.ContentType {
	case model.ContentVideo:
		if item.VideoID == nil {
			return fmt.Errorf("视频类型的条目必须指定 videoId")
		}
		if _, err := s.VideoRepo.FindByID(*item.VideoID); err != nil {
			return util.ErrVideoNotFound
		}
		item.ExerciseID = nil
	case model.ContentExercise:
		if item.ExerciseID == nil {
			return fmt.Errorf("练习类型的条目必须指定 exerciseId")
		}
		if _, err := s.ExerciseRepo.FindByID(*item.ExerciseID); err != nil {
			return util.ErrExerciseNotFound
		}
		item.VideoID = nil
	default:
		return fmt.Errorf("未知的内容类型: %s", item.ContentType)
	}
	return nil
}

// uniqueSlug 生成不冲突的 slug：被占用时依次尝试 -2、-3 …
func (s *CourseService) uniqueSlug(title string) (string, error) {
	base := util.Slugify(title)
	if base == "" {
		base = "course"
	}
	slug := base
	for i := 2; ; i++ {
		_, err := s.CourseRepo.FindBySlug(slug)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
