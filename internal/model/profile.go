package model

import "time"

// Profile 用户个人资料，首次访问 me 接口时延迟创建
type Profile struct {
	BaseModel
	UserID    uint       `gorm:"uniqueIndex;not null" json:"userId"`
	Bio       string     `gorm:"size:500" json:"bio"`
	Location  string     `gorm:"size:30" json:"location"`
	BirthDate *time.Time `json:"birthDate"`
	AvatarURL string     `gorm:"size:500" json:"avatarUrl"`
}

func (Profile) TableName() string {
	return "profiles"
}
