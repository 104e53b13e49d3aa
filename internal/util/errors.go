package util

import "errors"

// 业务哨兵错误。controller 按 errors.Is 归类映射状态码，
// 中文消息的会原样透出给前端，英文的只在进程内部流转。
var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrPostNotFound       = errors.New("文章不存在")
	ErrCommentNotFound    = errors.New("评论不存在")
	ErrCourseNotFound     = errors.New("课程不存在")
	ErrCourseItemNotFound = errors.New("课程条目不存在")
	ErrCourseNotStarted   = errors.New("尚未开始学习该课程")
	ErrVideoNotFound      = errors.New("视频不存在")
	ErrExerciseNotFound   = errors.New("练习不存在")
	ErrBadgeNotFound      = errors.New("徽章不存在")
	ErrCodeTooShort       = errors.New("代码太短，请先完成你的解答")
	ErrInvalidAvatarExt   = errors.New("头像仅支持 PNG/JPEG 格式")
	ErrInvalidCVType      = errors.New("简历仅支持 PDF 格式")
	ErrInvalidVideoExt    = errors.New("不支持的视频格式")
	ErrInvalidImageType   = errors.New("图片内容校验失败")
	ErrUnsupportedMedia   = errors.New("不支持的媒体类型，仅允许图片或视频")
)
