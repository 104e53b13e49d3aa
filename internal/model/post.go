package model

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Post 博客文章，未发布的文章仅管理员可见
type Post struct {
	BaseModel
	Title       string    `gorm:"size:200;not null" json:"title"`
	Content     string    `gorm:"type:text" json:"content"`
	MediaURL    string    `gorm:"size:500" json:"mediaUrl"`
	VideoURL    string    `gorm:"size:500" json:"videoUrl"`
	MediaType   MediaType `gorm:"size:10" json:"mediaType"`
	AuthorID    uint      `gorm:"index;not null" json:"authorId"`
	Author      *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	IsPublished bool      `gorm:"default:true;index" json:"isPublished"`
}

func (Post) TableName() string {
	return "posts"
}

// Comment 文章评论，未审核通过的评论仅管理员可见
type Comment struct {
	BaseModel
	PostID     uint   `gorm:"index;not null" json:"postId"`
	AuthorID   uint   `gorm:"index;not null" json:"authorId"`
	Author     *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content    string `gorm:"type:text;not null" json:"content"`
	IsApproved bool   `gorm:"default:true;index" json:"isApproved"`
}

func (Comment) TableName() string {
	return "comments"
}
