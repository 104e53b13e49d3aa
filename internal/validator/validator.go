package validator

import (
	"strings"
)

// Result 启发式校验结论：Message 为面向用户的判定结果，
// Hint 给出下一步改进方向，Feedback 是补充说明
type Result struct {
	IsCorrect bool   `json:"is_correct"`
	Message   string `json:"message"`
	Hint      string `json:"hint,omitempty"`
	Feedback  string `json:"feedback,omitempty"`
}

// Validator 将提交代码与参考答案做结构特征比对，不执行代码。
// 参考答案中出现的关键结构（函数、循环、条件、输出）要求提交中也出现，
// 在缺失的第一个特征处给出可操作的提示
type Validator interface {
	Validate(submitted, reference string) Result
}

// ForLanguage 返回语言对应的校验器，未识别的语言退化为通用相似度比对
func ForLanguage(language string) Validator {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "html", "css", "xml":
		return MarkupValidator{}
	case "javascript", "js", "typescript":
		return JavaScriptValidator{}
	case "python":
		return PythonValidator{}
	case "c++", "cpp":
		return CPPValidator{}
	case "java":
		return JavaValidator{}
	case "c":
		return CValidator{}
	case "sql":
		return SQLValidator{}
	default:
		return GenericValidator{}
	}
}

func accept(message, feedback string) Result {
	return Result{IsCorrect: true, Message: message, Feedback: feedback}
}

func reject(message, hint, feedback string) Result {
	return Result{IsCorrect: false, Message: message, Hint: hint, Feedback: feedback}
}

// meaningfulLines 返回去掉空行与以 commentPrefix 开头的注释行之后的代码行
func meaningfulLines(code, commentPrefix string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(code), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, commentPrefix) {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// compact 去掉全部空白并转小写，用于宽松的逐字符比对
func compact(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// positionalSimilarity 按位置统计相同字符的占比，分母为参考文本长度
func positionalSimilarity(submitted, reference string) float64 {
	n := len(submitted)
	if len(reference) < n {
		n = len(reference)
	}
	common := 0
	for i := 0; i < n; i++ {
		if submitted[i] == reference[i] {
			common++
		}
	}
	denom := len(reference)
	if denom < 1 {
		denom = 1
	}
	return float64(common) / float64(denom)
}
