package service

import (
	"context"
	"mime/multipart"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
)

// SiteService 站点配置单例的读写
type SiteService struct {
	ConfigRepo *repository.SiteConfigRepository
	Storage    *StorageService
}

func NewSiteService(configRepo *repository.SiteConfigRepository, storage *StorageService) *SiteService {
	return &SiteService{ConfigRepo: configRepo, Storage: storage}
}

// Current 当前站点配置，公开接口
func (s *SiteService) Current() (*model.SiteConfig, error) {
	return s.ConfigRepo.Get()
}

// Update 管理员更新站点配置，CV 地址只通过上传接口变更
func (s *SiteService) Update(updated *model.SiteConfig) (*model.SiteConfig, error) {
	cfg, err := s.ConfigRepo.Get()
	if err != nil {
		return nil, err
	}

	cfg.GithubURL = updated.GithubURL
	cfg.LinkedinURL = updated.LinkedinURL
	cfg.TwitterURL = updated.TwitterURL
	cfg.Email = updated.Email
	cfg.HomeTitle = updated.HomeTitle
	cfg.HomeSubtitle = updated.HomeSubtitle
	cfg.HomeDescription = updated.HomeDescription
	cfg.AboutText = updated.AboutText
	cfg.SkillsJSON = updated.SkillsJSON
	if err := s.ConfigRepo.Update(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadCV 上传简历，仅接受 PDF
func (s *SiteService) UploadCV(ctx context.Context, file *multipart.FileHeader) (*model.SiteConfig, error) {
	contentType, ok := util.ValidateMimeType(file, util.MimePDF)
	if !ok {
		return nil, util.ErrInvalidCVType
	}

	cfg, err := s.ConfigRepo.Get()
	if err != nil {
		return nil, err
	}

	key := BuildObjectKey("cv", file.Filename)
	url, err := s.Storage.UploadMultipart(ctx, key, file, contentType)
	if err != nil {
		return nil, err
	}

	cfg.CVURL = url
	if err := s.ConfigRepo.Update(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
