package service

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"portfolio_backend/pkg/logger"

	"go.uber.org/zap"
)

// VideoUploadResult 视频上传后的元数据，前端据此填充创建表单
type VideoUploadResult struct {
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Duration     string `json:"duration"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// VideoService 教学视频管理
type VideoService struct {
	VideoRepo *repository.VideoRepository
	Storage   *StorageService
}

func NewVideoService(videoRepo *repository.VideoRepository, storage *StorageService) *VideoService {
	return &VideoService{VideoRepo: videoRepo, Storage: storage}
}

// ListVideos 非管理员只能看到启用中的视频
func (s *VideoService) ListVideos(isAdmin bool) ([]model.AcademyVideo, error) {
	if isAdmin {
		return s.VideoRepo.ListAll()
	}
	return s.VideoRepo.List()
}

func (s *VideoService) GetVideo(id uint, isAdmin bool) (*model.AcademyVideo, error) {
	video, err := s.VideoRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrVideoNotFound
	}
	if !video.IsActive && !isAdmin {
		return nil, util.ErrVideoNotFound
	}
	return video, nil
}

func (s *VideoService) CreateVideo(video *model.AcademyVideo) error {
	return s.VideoRepo.Create(video)
}

func (s *VideoService) UpdateVideo(id uint, updated *model.AcademyVideo) (*model.AcademyVideo, error) {
	video, err := s.VideoRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrVideoNotFound
	}

	video.Title = updated.Title
	video.Description = updated.Description
	video.VideoURL = updated.VideoURL
	video.ThumbnailURL = updated.ThumbnailURL
	video.Duration = updated.Duration
	video.Level = updated.Level
	video.Order = updated.Order
	video.IsActive = updated.IsActive
	if err := s.VideoRepo.Update(video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *VideoService) DeleteVideo(id uint) error {
	if _, err := s.VideoRepo.FindByID(id); err != nil {
		return util.ErrVideoNotFound
	}
	return s.VideoRepo.Delete(id)
}

// UploadVideo 接收视频文件：落到临时目录探测时长、截首帧做封面，
// 再把视频和封面推到对象存储
func (s *VideoService) UploadVideo(ctx context.Context, file *multipart.FileHeader) (*VideoUploadResult, error) {
	if !util.IsVideo(file.Filename) {
		return nil, util.ErrInvalidVideoExt
	}

	tmpPath, err := saveToTemp(file)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmpPath)

	result := &VideoUploadResult{}
	if info, err := util.ProbeVideo(tmpPath); err != nil {
		// 探测失败不阻断上传，时长留空由管理员手工填写
		logger.Log.Warn("video probe failed", zap.String("file", file.Filename), zap.Error(err))
	} else {
		result.Duration = util.FormatDuration(info.Duration)
		result.Width = info.Width
		result.Height = info.Height
	}

	key := BuildObjectKey("academy/videos", file.Filename)
	videoURL, err := s.Storage.UploadFile(ctx, key, tmpPath, util.MimeOctetStream)
	if err != nil {
		return nil, err
	}
	result.VideoURL = videoURL

	thumbPath := strings.TrimSuffix(tmpPath, filepath.Ext(tmpPath)) + ".jpg"
	if err := util.GenerateThumbnail(tmpPath, thumbPath, "00:00:01"); err != nil {
		logger.Log.Warn("thumbnail generation failed", zap.String("file", file.Filename), zap.Error(err))
		return result, nil
	}
	defer os.Remove(thumbPath)

	thumbKey := BuildObjectKey("academy/thumbnails", filepath.Base(thumbPath))
	thumbURL, err := s.Storage.UploadFile(ctx, thumbKey, thumbPath, "image/jpeg")
	if err != nil {
		logger.Log.Warn("thumbnail upload failed", zap.Error(err))
		return result, nil
	}
	result.ThumbnailURL = thumbURL

	return result, nil
}

// saveToTemp 把表单文件写到临时目录，返回临时文件路径
func saveToTemp(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(file.Filename))
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, src); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
