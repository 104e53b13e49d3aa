package model

// SiteConfig 站点配置单例（固定主键 1，首次读取时创建）
type SiteConfig struct {
	BaseModel
	CVURL           string `gorm:"size:500" json:"cvUrl"`
	GithubURL       string `gorm:"size:255" json:"githubUrl"`
	LinkedinURL     string `gorm:"size:255" json:"linkedinUrl"`
	TwitterURL      string `gorm:"size:255" json:"twitterUrl"`
	Email           string `gorm:"size:100" json:"email"`
	HomeTitle       string `gorm:"size:200" json:"homeTitle"`
	HomeSubtitle    string `gorm:"size:200" json:"homeSubtitle"`
	HomeDescription string `gorm:"type:text" json:"homeDescription"`
	AboutText       string `gorm:"type:text" json:"aboutText"`
	SkillsJSON      string `gorm:"type:text" json:"skillsJson"`
}

func (SiteConfig) TableName() string {
	return "site_configs"
}
