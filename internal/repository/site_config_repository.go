package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type SiteConfigRepository struct {
	DB *gorm.DB
}

func NewSiteConfigRepository(db *gorm.DB) *SiteConfigRepository {
	return &SiteConfigRepository{DB: db}
}

// Get 返回站点配置单例，表为空时创建 id=1 的记录
func (r *SiteConfigRepository) Get() (*model.SiteConfig, error) {
	var cfg model.SiteConfig
	err := r.DB.First(&cfg, 1).Error
	if err == gorm.ErrRecordNotFound {
		cfg = model.SiteConfig{BaseModel: model.BaseModel{ID: 1}}
		err = r.DB.Create(&cfg).Error
	}
	return &cfg, err
}

func (r *SiteConfigRepository) Update(cfg *model.SiteConfig) error {
	cfg.ID = 1
	return r.DB.Save(cfg).Error
}
