package model

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

type ContentType string

const (
	ContentVideo    ContentType = "video"
	ContentExercise ContentType = "exercise"
)

// Course 课程（系列），由视频与练习按顺序编排而成
type Course struct {
	BaseModel
	Title             string      `gorm:"size:200;not null" json:"title"`
	Slug              string      `gorm:"size:200;uniqueIndex" json:"slug"`
	Description       string      `gorm:"type:text" json:"description"`
	ThumbnailURL      string      `gorm:"size:500" json:"thumbnailUrl"`
	Level             CourseLevel `gorm:"type:varchar(20);default:'beginner'" json:"level"`
	Order             int         `gorm:"default:0;index" json:"order"`
	IsActive          bool        `gorm:"default:true;index" json:"isActive"`
	IsFeatured        bool        `gorm:"default:false" json:"isFeatured"`
	EstimatedDuration int         `gorm:"default:0" json:"estimatedDuration"` // 分钟
	Items             []CourseItem `gorm:"foreignKey:CourseID" json:"items,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseItem 课程条目，按 Order 在课程内排序，同课程内 Order 唯一
// ContentType 决定 VideoID 与 ExerciseID 哪个生效
type CourseItem struct {
	BaseModel
	CourseID    uint             `gorm:"index;not null;uniqueIndex:idx_course_order" json:"courseId"`
	ContentType ContentType      `gorm:"type:varchar(20);not null" json:"contentType"`
	VideoID     *uint            `json:"videoId"`
	Video       *AcademyVideo    `gorm:"foreignKey:VideoID" json:"video,omitempty"`
	ExerciseID  *uint            `json:"exerciseId"`
	Exercise    *AcademyExercise `gorm:"foreignKey:ExerciseID" json:"exercise,omitempty"`
	Order       int              `gorm:"not null;uniqueIndex:idx_course_order" json:"order"`
	IsRequired  bool             `gorm:"default:true" json:"isRequired"`
}

func (CourseItem) TableName() string {
	return "course_items"
}
