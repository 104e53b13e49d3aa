package model

type ExerciseLanguage string

const (
	LangPython     ExerciseLanguage = "python"
	LangJavaScript ExerciseLanguage = "javascript"
	LangTypeScript ExerciseLanguage = "typescript"
	LangJava       ExerciseLanguage = "java"
	LangCPP        ExerciseLanguage = "cpp"
	LangC          ExerciseLanguage = "c"
	LangSQL        ExerciseLanguage = "sql"
	LangHTML       ExerciseLanguage = "html"
	LangOther      ExerciseLanguage = "other"
)

type ExerciseDifficulty string

const (
	DifficultyEasy   ExerciseDifficulty = "easy"
	DifficultyMedium ExerciseDifficulty = "medium"
	DifficultyHard   ExerciseDifficulty = "hard"
)

// DifficultyPoints 难度对应的一次性通关积分
var DifficultyPoints = map[ExerciseDifficulty]int{
	DifficultyEasy:   20,
	DifficultyMedium: 30,
	DifficultyHard:   50,
}

// PointsForDifficulty 未知难度按 easy 计
func PointsForDifficulty(d ExerciseDifficulty) int {
	if p, ok := DifficultyPoints[d]; ok {
		return p
	}
	return DifficultyPoints[DifficultyEasy]
}

// AcademyExercise 编程练习
// SolutionCode 不随列表/详情序列化，仅通过查看答案接口显式返回
type AcademyExercise struct {
	BaseModel
	Title        string             `gorm:"size:200;not null" json:"title"`
	Description  string             `gorm:"type:text" json:"description"`
	Language     ExerciseLanguage   `gorm:"size:20;not null;index" json:"language"`
	Difficulty   ExerciseDifficulty `gorm:"type:varchar(20);default:'easy'" json:"difficulty"`
	Instructions string             `gorm:"type:text" json:"instructions"`
	StarterCode  string             `gorm:"type:text" json:"starterCode"`
	SolutionCode string             `gorm:"type:text" json:"-"`
	TestCases    string             `gorm:"type:text" json:"testCases"` // JSON 数组
	Order        int                `gorm:"default:0;index" json:"order"`
	IsActive     bool               `gorm:"default:true;index" json:"isActive"`
}

func (AcademyExercise) TableName() string {
	return "academy_exercises"
}
