package service

import (
	"context"
	"mime/multipart"
	"time"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
)

// ProfileUpdate 资料部分更新，nil 字段保持原值
type ProfileUpdate struct {
	Bio       *string    `json:"bio"`
	Location  *string    `json:"location"`
	BirthDate *time.Time `json:"birthDate"`
}

type ProfileService struct {
	ProfileRepo *repository.ProfileRepository
	Storage     *StorageService
}

func NewProfileService(profileRepo *repository.ProfileRepository, storage *StorageService) *ProfileService {
	return &ProfileService{ProfileRepo: profileRepo, Storage: storage}
}

// Me 当前用户的资料，首次访问时建档
func (s *ProfileService) Me(userID uint) (*model.Profile, error) {
	return s.ProfileRepo.GetOrCreate(userID)
}

func (s *ProfileService) UpdateMe(userID uint, update *ProfileUpdate) (*model.Profile, error) {
	profile, err := s.ProfileRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if update.Bio != nil {
		profile.Bio = *update.Bio
	}
	if update.Location != nil {
		profile.Location = *update.Location
	}
	if update.BirthDate != nil {
		profile.BirthDate = update.BirthDate
	}
	if err := s.ProfileRepo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UploadAvatar 头像仅接受 PNG/JPEG，按内容嗅探校验
func (s *ProfileService) UploadAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (*model.Profile, error) {
	contentType, ok := util.ValidateMimeType(file, "image/png", "image/jpeg")
	if !ok {
		return nil, util.ErrInvalidAvatarExt
	}

	profile, err := s.ProfileRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	key := BuildObjectKey("avatars", file.Filename)
	url, err := s.Storage.UploadMultipart(ctx, key, file, contentType)
	if err != nil {
		return nil, err
	}

	profile.AvatarURL = url
	if err := s.ProfileRepo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}
