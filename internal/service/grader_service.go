package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"portfolio_backend/internal/config"
	"portfolio_backend/internal/util"
	"portfolio_backend/pkg/logger"
	"portfolio_backend/pkg/monitoring"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// GradeResult AI 评审结论。Feedback 面向用户，Suggestions 是改进提示，
// Reasoning 是评审依据
type GradeResult struct {
	IsCorrect          bool   `json:"is_correct"`
	Score              int    `json:"score"`
	Feedback           string `json:"feedback"`
	Suggestions        string `json:"suggestions"`
	AcceptsAlternative bool   `json:"accepts_alternative"`
	Reasoning          string `json:"reasoning"`
}

var (
	fencedJSONPattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(\\{.*?\\})\\s*```")
	verdictPattern    = regexp.MustCompile(`(?s)\{[^}]*"is_correct"[^}]*\}`)
	feedbackPattern   = regexp.MustCompile(`"feedback"\s*:\s*"([^"]+)"`)
)

// GeminiService AI 代码评审客户端。未配置 API Key 或调用失败时
// 退化为相似度比对，调用方永远能拿到一个结论
type GeminiService struct {
	mu   sync.RWMutex
	cfg  config.AIConfig
	http *http.Client
}

func NewGeminiService(cfg config.AIConfig) *GeminiService {
	s := &GeminiService{
		http: &http.Client{Timeout: 30 * time.Second},
	}
	s.UpdateConfig(cfg)
	return s
}

// UpdateConfig 配置热加载回调：运行中轮换 API Key 或切换模型，不用重启进程
func (s *GeminiService) UpdateConfig(cfg config.AIConfig) {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *GeminiService) config() config.AIConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// IsAvailable 是否配置了 AI 评审
func (s *GeminiService) IsAvailable() bool {
	return s.config().APIKey != ""
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	TopK             int     `json:"topK"`
	TopP             float64 `json:"topP"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// EvaluateCode 调用 AI 评审提交代码；executionOutput 为空表示没有可用的执行结果
func (s *GeminiService) EvaluateCode(ctx context.Context, submitted, solution, language, instructions, executionOutput string) *GradeResult {
	if !s.IsAvailable() {
		return s.basicValidation(submitted, solution)
	}

	prompt := buildEvaluationPrompt(submitted, solution, language, instructions, executionOutput)

	payload := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      0.2, // 低温度保证评审结果稳定
			TopK:             1,
			TopP:             0.95,
			MaxOutputTokens:  2048,
			ResponseMimeType: "application/json",
		},
	}
	body, _ := json.Marshal(payload)

	cfg := s.config()
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", cfg.BaseURL, cfg.Model, cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return s.fallback(submitted, solution, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return s.fallback(submitted, solution, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		return s.fallback(submitted, solution, fmt.Sprintf("status %d: %s", resp.StatusCode, string(detail)))
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return s.fallback(submitted, solution, err.Error())
	}

	return parseGradeResponse(&result)
}

func (s *GeminiService) fallback(submitted, solution, reason string) *GradeResult {
	logger.Log.Warn("AI grading failed, falling back to similarity check", zap.String("reason", reason))
	monitoring.GraderFallbackCounter.WithLabelValues("gemini", "similarity").Inc()
	return s.basicValidation(submitted, solution)
}

func buildEvaluationPrompt(submitted, solution, language, instructions, executionOutput string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are an expert programming teacher evaluating student code.

**Exercise Instructions:**
%s

**Programming Language:** %s

**Expected Solution:**
`+"```%s\n%s\n```"+`

**Student's Submitted Code:**
`+"```%s\n%s\n```"+"\n",
		instructions, language, language, solution, language, submitted)

	if executionOutput != "" {
		fmt.Fprintf(&b, `
**Execution Output:**
%s

**Note:** If the code uses browser-specific APIs (alert, prompt, document, etc.) and failed to execute in Node.js,
this is NORMAL. Focus on evaluating the code LOGIC and CORRECTNESS, not the execution result.
`, executionOutput)
	}

	b.WriteString(`
**Your Task:**
Evaluate if the student's code is correct. Consider:
1. Does it solve the problem correctly?
2. Is the logic sound?
3. Does it produce the correct output?
4. Accept alternative correct solutions (different approaches that work)

**IMPORTANT:** Be flexible! If the student used a different but valid approach, accept it!

**CRITICAL: You MUST respond with ONLY a valid JSON object, nothing else. No markdown, no explanations, just pure JSON.**

**Response Format:**
{
  "is_correct": true,
  "score": 95,
  "feedback": "Brief feedback message (1-2 sentences)",
  "suggestions": "Improvement suggestions (if any)",
  "accepts_alternative": true,
  "reasoning": "Why you marked it correct/incorrect"
}

Return ONLY the JSON object above. Do not wrap it in code blocks or add any other text.
`)

	return b.String()
}

// parseGradeResponse 解析模型返回。模型偶尔会违反纯 JSON 约定，
// 按"去围栏 → 截取对象 → 反序列化 → 关键词兜底"的顺序逐级放宽
func parseGradeResponse(resp *geminiResponse) *GradeResult {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		logger.Log.Warn("unexpected AI response structure")
		return &GradeResult{
			IsCorrect:   false,
			Score:       0,
			Feedback:    "AI 返回了无法解析的内容",
			Suggestions: "评审服务返回了意外格式，已按未通过处理，请再试一次。",
			Reasoning:   "Parse error: response structure unexpected",
		}
	}

	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)

	if m := fencedJSONPattern.FindStringSubmatch(text); m != nil {
		text = m[1]
	} else if strings.HasPrefix(text, "```") {
		text = strings.NewReplacer("```json", "", "```JSON", "", "```", "").Replace(text)
		text = strings.TrimSpace(text)
	}

	if m := verdictPattern.FindString(text); m != "" {
		text = m
	}

	var parsed struct {
		IsCorrect          bool   `json:"is_correct"`
		Score              int    `json:"score"`
		Feedback           string `json:"feedback"`
		Suggestions        string `json:"suggestions"`
		AcceptsAlternative bool   `json:"accepts_alternative"`
		Reasoning          string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		feedback := parsed.Feedback
		if feedback == "" {
			feedback = "代码已由 AI 评审"
		}
		return &GradeResult{
			IsCorrect:          parsed.IsCorrect,
			Score:              parsed.Score,
			Feedback:           feedback,
			Suggestions:        parsed.Suggestions,
			AcceptsAlternative: parsed.AcceptsAlternative,
			Reasoning:          parsed.Reasoning,
		}
	}

	// JSON 解析失败，从原文里抠关键词
	logger.Log.Warn("AI response is not valid JSON, sniffing keywords",
		zap.String("text", util.Truncate(text, 500)))

	lower := strings.ToLower(text)
	isCorrect := strings.Contains(lower, "correct") && !strings.Contains(lower, "incorrect")

	feedback := util.Truncate(text, 200)
	if m := feedbackPattern.FindStringSubmatch(text); m != nil {
		feedback = m[1]
	}

	score := 50
	if isCorrect {
		score = 100
	}

	return &GradeResult{
		IsCorrect:   isCorrect,
		Score:       score,
		Feedback:    feedback,
		Suggestions: "请再检查一遍代码逻辑",
		Reasoning:   util.Truncate(text, 300),
	}
}

// basicValidation 相似度兜底：去空白转小写后按位置比对字符
func (s *GeminiService) basicValidation(submitted, solution string) *GradeResult {
	submittedClean := strings.ToLower(strings.Join(strings.Fields(submitted), ""))
	solutionClean := strings.ToLower(strings.Join(strings.Fields(solution), ""))

	if len(submittedClean) < 10 {
		return &GradeResult{
			IsCorrect:   false,
			Score:       0,
			Feedback:    "代码太短，请写出完整的解答。",
			Suggestions: "按照题目说明补充更多代码。",
			Reasoning:   "Code length insufficient",
		}
	}

	similarity := characterSimilarity(submittedClean, solutionClean)
	score := int(similarity * 100)

	if similarity > 0.7 {
		return &GradeResult{
			IsCorrect:          true,
			Score:              score,
			Feedback:           "你的解答看起来是正确的！",
			AcceptsAlternative: true,
			Reasoning:          fmt.Sprintf("Similarity: %.2f", similarity),
		}
	}

	return &GradeResult{
		IsCorrect:   false,
		Score:       score,
		Feedback:    "你的解答还需要改进。",
		Suggestions: "对照参考答案检查你的代码。",
		Reasoning:   fmt.Sprintf("Similarity too low: %.2f", similarity),
	}
}

// characterSimilarity 按位置统计相同字符占比，分母取两侧较长的长度
func characterSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	common := 0
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			common++
		}
	}

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return float64(common) / float64(maxLen)
}
