package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portfolio_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradeResponseWithText(t *testing.T, text string) *geminiResponse {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{"parts": []map[string]string{{"text": text}}}},
		},
	})
	require.NoError(t, err)
	var resp geminiResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	return &resp
}

func TestGeminiIsAvailable(t *testing.T) {
	grader := NewGeminiService(config.AIConfig{})
	assert.False(t, grader.IsAvailable())

	grader.UpdateConfig(config.AIConfig{APIKey: "k"})
	assert.True(t, grader.IsAvailable())

	// 热更新未填的字段回退到默认值
	cfg := grader.config()
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.BaseURL)
}

func TestGeminiEvaluateCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "print('hi')")
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)

		body, _ := json.Marshal(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{"parts": []map[string]string{
					{"text": `{"is_correct": true, "score": 95, "feedback": "写得很好", "suggestions": "", "accepts_alternative": true, "reasoning": "Output matches"}`},
				}}},
			},
		})
		w.Write(body)
	}))
	defer srv.Close()

	grader := NewGeminiService(config.AIConfig{APIKey: "test-key", BaseURL: srv.URL})
	result := grader.EvaluateCode(context.Background(), "print('hi')", "print('hi')", "python", "打印 hi", "hi")

	assert.True(t, result.IsCorrect)
	assert.Equal(t, 95, result.Score)
	assert.Equal(t, "写得很好", result.Feedback)
	assert.True(t, result.AcceptsAlternative)
	assert.Equal(t, "Output matches", result.Reasoning)
}

func TestGeminiEvaluateCodeFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	grader := NewGeminiService(config.AIConfig{APIKey: "test-key", BaseURL: srv.URL})
	// 退化为相似度比对：完全一致的解答仍然能判对
	result := grader.EvaluateCode(context.Background(), "print('hello world')", "print('hello world')", "python", "", "")

	assert.True(t, result.IsCorrect)
	assert.Contains(t, result.Reasoning, "Similarity")
}

func TestGeminiEvaluateCodeWithoutKeyUsesBasicValidation(t *testing.T) {
	grader := NewGeminiService(config.AIConfig{})
	result := grader.EvaluateCode(context.Background(), "print('hello world')", "print('hello world')", "python", "", "")

	assert.True(t, result.IsCorrect)
	assert.Equal(t, 100, result.Score)
}

func TestParseGradeResponse(t *testing.T) {
	t.Run("clean json", func(t *testing.T) {
		result := parseGradeResponse(gradeResponseWithText(t,
			`{"is_correct": false, "score": 40, "feedback": "逻辑有误", "suggestions": "检查循环边界", "reasoning": "off by one"}`))
		assert.False(t, result.IsCorrect)
		assert.Equal(t, 40, result.Score)
		assert.Equal(t, "逻辑有误", result.Feedback)
		assert.Equal(t, "检查循环边界", result.Suggestions)
	})

	t.Run("fenced json", func(t *testing.T) {
		result := parseGradeResponse(gradeResponseWithText(t,
			"```json\n{\"is_correct\": true, \"score\": 92, \"feedback\": \"很好\"}\n```"))
		assert.True(t, result.IsCorrect)
		assert.Equal(t, 92, result.Score)
		assert.Equal(t, "很好", result.Feedback)
	})

	t.Run("verdict object inside prose", func(t *testing.T) {
		text := `Sure! Here is the evaluation: {"is_correct": false, "score": 30, "feedback": "逻辑有误"} Hope this helps.`
		result := parseGradeResponse(gradeResponseWithText(t, text))
		assert.False(t, result.IsCorrect)
		assert.Equal(t, 30, result.Score)
		assert.Equal(t, "逻辑有误", result.Feedback)
	})

	t.Run("missing feedback gets a default", func(t *testing.T) {
		result := parseGradeResponse(gradeResponseWithText(t, `{"is_correct": true, "score": 88}`))
		assert.Equal(t, "代码已由 AI 评审", result.Feedback)
	})

	t.Run("keyword sniff marks correct", func(t *testing.T) {
		result := parseGradeResponse(gradeResponseWithText(t,
			"After reviewing, the solution is correct and idiomatic."))
		assert.True(t, result.IsCorrect)
		assert.Equal(t, 100, result.Score)
	})

	t.Run("keyword sniff marks incorrect", func(t *testing.T) {
		result := parseGradeResponse(gradeResponseWithText(t,
			"The submission is incorrect because the loop is off by one."))
		assert.False(t, result.IsCorrect)
		assert.Equal(t, 50, result.Score)
		assert.NotEmpty(t, result.Suggestions)
	})

	t.Run("sniff extracts quoted feedback", func(t *testing.T) {
		result := parseGradeResponse(gradeResponseWithText(t,
			`verdict pending "feedback": "接近了，注意返回值类型" end of note`))
		assert.Equal(t, "接近了，注意返回值类型", result.Feedback)
	})

	t.Run("empty candidates", func(t *testing.T) {
		result := parseGradeResponse(&geminiResponse{})
		assert.False(t, result.IsCorrect)
		assert.Equal(t, "AI 返回了无法解析的内容", result.Feedback)
	})
}

func TestBasicValidation(t *testing.T) {
	grader := NewGeminiService(config.AIConfig{})

	t.Run("rejects short code", func(t *testing.T) {
		result := grader.basicValidation("x = 1", "print('hello world')")
		assert.False(t, result.IsCorrect)
		assert.Zero(t, result.Score)
		assert.Contains(t, result.Feedback, "代码太短")
	})

	t.Run("accepts near-identical code", func(t *testing.T) {
		result := grader.basicValidation("print('Hello World')", "print('hello world')")
		assert.True(t, result.IsCorrect)
		assert.Equal(t, 100, result.Score)
		assert.True(t, result.AcceptsAlternative)
	})

	t.Run("whitespace differences are ignored", func(t *testing.T) {
		result := grader.basicValidation("print( 'hello world' )", "print('hello world')")
		assert.True(t, result.IsCorrect)
	})

	t.Run("rejects dissimilar code", func(t *testing.T) {
		result := grader.basicValidation(strings.Repeat("a", 12), strings.Repeat("b", 12))
		assert.False(t, result.IsCorrect)
		assert.Zero(t, result.Score)
		assert.Contains(t, result.Reasoning, "Similarity too low")
	})
}

func TestCharacterSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, characterSimilarity("abcd", "abcd"))
	assert.Equal(t, 0.0, characterSimilarity("", "abcd"))
	assert.InDelta(t, 0.5, characterSimilarity("abxx", "abcd"), 1e-9)
	// 分母取较长一侧，提交偏长会摊薄相似度
	assert.InDelta(t, 4.0/6.0, characterSimilarity("abcdzz", "abcd"), 1e-9)
}
