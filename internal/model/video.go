package model

// AcademyVideo 教学视频，VideoURL 可以是外链（YouTube 等）或上传到对象存储的地址
type AcademyVideo struct {
	BaseModel
	Title        string      `gorm:"size:200;not null" json:"title"`
	Description  string      `gorm:"type:text" json:"description"`
	VideoURL     string      `gorm:"size:500;not null" json:"videoUrl"`
	ThumbnailURL string      `gorm:"size:500" json:"thumbnailUrl"`
	Duration     string      `gorm:"size:20" json:"duration"` // 展示用时长，如 "45 min"
	Level        CourseLevel `gorm:"type:varchar(20);default:'beginner'" json:"level"`
	Order        int         `gorm:"default:0;index" json:"order"`
	IsActive     bool        `gorm:"default:true;index" json:"isActive"`
}

func (AcademyVideo) TableName() string {
	return "academy_videos"
}
