package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) Create(badge *model.Badge) error {
	return r.DB.Create(badge).Error
}

func (r *BadgeRepository) FindByID(id uint) (*model.Badge, error) {
	var badge model.Badge
	err := r.DB.First(&badge, id).Error
	return &badge, err
}

func (r *BadgeRepository) ListActive() ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Where("is_active = ?", true).
		Order("`order` ASC").
		Find(&badges).Error
	return badges, err
}

func (r *BadgeRepository) ListAll() ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Order("`order` ASC").Find(&badges).Error
	return badges, err
}

func (r *BadgeRepository) Update(badge *model.Badge) error {
	return r.DB.Save(badge).Error
}

func (r *BadgeRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Badge{}, id).Error
}

// Award 发放徽章，(user, badge) 唯一索引保证重复发放会报错
func (r *BadgeRepository) Award(userBadge *model.UserBadge) error {
	return r.DB.Create(userBadge).Error
}

func (r *BadgeRepository) ListUserBadges(userID uint) ([]model.UserBadge, error) {
	var userBadges []model.UserBadge
	err := r.DB.Where("user_id = ?", userID).
		Preload("Badge").
		Order("unlocked_at DESC").
		Find(&userBadges).Error
	return userBadges, err
}

// UnlockedBadgeIDs 返回用户已解锁的徽章 ID 集合
func (r *BadgeRepository) UnlockedBadgeIDs(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.Model(&model.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &ids).Error
	if err != nil {
		return nil, err
	}
	unlocked := make(map[uint]bool, len(ids))
	for _, id := range ids {
		unlocked[id] = true
	}
	return unlocked, nil
}
