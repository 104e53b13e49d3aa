// 学院示例内容初始化脚本
//
// 清空现有的课程/视频/练习后写入一套演示数据，用于本地开发和前端联调。
// 生产环境不要运行：脚本会删除全部学院内容。
//
// 用法: go run scripts/populate_academy.go

package main

import (
	"log"
	"os"

	"portfolio_backend/internal/config"
	"portfolio_backend/internal/model"
	"portfolio_backend/pkg/database"
	"portfolio_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	log.Println("清理现有学院内容...")
	db.Unscoped().Where("1 = 1").Delete(&model.CourseItemCompletion{})
	db.Unscoped().Where("1 = 1").Delete(&model.CourseItem{})
	db.Unscoped().Where("1 = 1").Delete(&model.Course{})
	db.Unscoped().Where("1 = 1").Delete(&model.AcademyVideo{})
	db.Unscoped().Where("1 = 1").Delete(&model.AcademyExercise{})

	log.Println("创建示例视频...")
	videos := []model.AcademyVideo{
		{
			Title:       "Python 入门",
			Description: "了解 Python 的基础：变量、数据类型与运算符。",
			VideoURL:    "https://www.youtube.com/embed/kqtD5dpn9C8",
			Duration:    "15 min",
			Level:       model.LevelBeginner,
			Order:       1,
			IsActive:    true,
		},
		{
			Title:       "Python 中的函数",
			Description: "学习如何定义和调用 Python 函数。",
			VideoURL:    "https://www.youtube.com/embed/9Os0o3wzS_I",
			Duration:    "20 min",
			Level:       model.LevelBeginner,
			Order:       2,
			IsActive:    true,
		},
		{
			Title:       "JavaScript 基础",
			Description: "JavaScript 入门：变量、条件与循环。",
			VideoURL:    "https://www.youtube.com/embed/W6NZfCO5SIk",
			Duration:    "25 min",
			Level:       model.LevelBeginner,
			Order:       3,
			IsActive:    true,
		},
	}
	for i := range videos {
		if err := db.Create(&videos[i]).Error; err != nil {
			log.Fatalf("创建视频失败: %v", err)
		}
	}

	log.Println("创建示例练习...")
	exercises := []model.AcademyExercise{
		{
			Title:        "Python 的 Hello World",
			Description:  "你的第一个 Python 程序！",
			Language:     model.LangPython,
			Difficulty:   model.DifficultyEasy,
			Instructions: "编写一个程序，在控制台输出 \"Hello, World!\"。\n\n提示：\n- 使用 print() 函数\n- 别忘了文本两边的引号",
			StarterCode:  "# 在这里编写你的代码\n",
			SolutionCode: "print(\"Hello, World!\")",
			Order:        1,
			IsActive:     true,
		},
		{
			Title:        "变量与计算",
			Description:  "操作变量并完成简单的计算。",
			Language:     model.LangPython,
			Difficulty:   model.DifficultyEasy,
			Instructions: "创建两个变量 a 和 b，值分别为 10 和 5。\n依次计算并输出：\n- 它们的和\n- 它们的差\n- 它们的积\n\n期望输出：\n15\n5\n50",
			StarterCode:  "# 在这里创建变量\na = 10\nb = 5\n\n# 输出结果\n",
			SolutionCode: "a = 10\nb = 5\n\nprint(a + b)\nprint(a - b)\nprint(a * b)",
			Order:        2,
			IsActive:     true,
		},
		{
			Title:        "加法函数",
			Description:  "写出你的第一个 Python 函数。",
			Language:     model.LangPython,
			Difficulty:   model.DifficultyMedium,
			Instructions: "定义一个函数 add(a, b)，返回两个参数的和，然后调用 add(3, 4) 并输出结果。\n\n期望输出：\n7",
			StarterCode:  "# 在这里定义函数\n",
			SolutionCode: "def add(a, b):\n    return a + b\n\nprint(add(3, 4))",
			Order:        3,
			IsActive:     true,
		},
	}
	for i := range exercises {
		if err := db.Create(&exercises[i]).Error; err != nil {
			log.Fatalf("创建练习失败: %v", err)
		}
	}

	log.Println("创建示例课程...")
	course := model.Course{
		Title:             "Python 从零开始",
		Slug:              "python-from-scratch",
		Description:       "面向初学者的 Python 入门课：视频讲解与动手练习交替推进。",
		Level:             model.LevelBeginner,
		Order:             1,
		IsActive:          true,
		IsFeatured:        true,
		EstimatedDuration: 90,
	}
	if err := db.Create(&course).Error; err != nil {
		log.Fatalf("创建课程失败: %v", err)
	}

	items := []model.CourseItem{
		{CourseID: course.ID, ContentType: model.ContentVideo, VideoID: &videos[0].ID, Order: 1, IsRequired: true},
		{CourseID: course.ID, ContentType: model.ContentExercise, ExerciseID: &exercises[0].ID, Order: 2, IsRequired: true},
		{CourseID: course.ID, ContentType: model.ContentExercise, ExerciseID: &exercises[1].ID, Order: 3, IsRequired: true},
		{CourseID: course.ID, ContentType: model.ContentVideo, VideoID: &videos[1].ID, Order: 4, IsRequired: true},
		{CourseID: course.ID, ContentType: model.ContentExercise, ExerciseID: &exercises[2].ID, Order: 5, IsRequired: true},
		{CourseID: course.ID, ContentType: model.ContentVideo, VideoID: &videos[2].ID, Order: 6, IsRequired: false},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			log.Fatalf("创建课程条目失败: %v", err)
		}
	}

	log.Printf("完成！课程 %q 含 %d 个条目，%d 个视频，%d 道练习。",
		course.Title, len(items), len(videos), len(exercises))
}
