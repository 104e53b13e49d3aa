package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"portfolio_backend/internal/config"
	"portfolio_backend/pkg/logger"
	"portfolio_backend/pkg/monitoring"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LanguageIDs Judge0 语言编号映射，HTML 练习复用 Node.js 运行配套的 JS
var LanguageIDs = map[string]int{
	"python":     71, // Python 3.8.1
	"javascript": 63, // Node.js 12.14.0
	"java":       62, // OpenJDK 13.0.1
	"cpp":        54, // GCC 9.2.0
	"c":          50, // GCC 9.2.0
	"sql":        82, // SQLite 3.27.2
	"html":       63,
	"typescript": 74, // TypeScript 3.7.4
}

// ExecutionResult 沙箱执行结果。传输层故障同样以失败结果表达，
// 调用方据此决定降级，不需要处理 error
type ExecutionResult struct {
	Success       bool    `json:"success"`
	Status        string  `json:"status"`
	StatusID      int     `json:"statusId"`
	Stdout        string  `json:"stdout"`
	Stderr        string  `json:"stderr"`
	CompileOutput string  `json:"compileOutput"`
	Time          float64 `json:"time"`
	Memory        int     `json:"memory"`
	Message       string  `json:"message"`
	Error         string  `json:"error,omitempty"`

	// ValidateSolution 专用：与期望输出的比对结论
	Validated      *bool  `json:"validated,omitempty"`
	ExpectedOutput string `json:"expectedOutput,omitempty"`
	ActualOutput   string `json:"actualOutput,omitempty"`
}

// Failed 传输层故障（区别于代码本身执行失败）：没拿到任何执行状态
func (r *ExecutionResult) Failed() bool {
	return r.Error != "" && r.StatusID == 0
}

// flexNumber Judge0 的 time/memory 字段在不同部署里可能是字符串、数字或 null
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexNumber(v)
	return nil
}

type judge0Submission struct {
	Token         string     `json:"token"`
	Stdout        *string    `json:"stdout"`
	Stderr        *string    `json:"stderr"`
	CompileOutput *string    `json:"compile_output"`
	Time          flexNumber `json:"time"`
	Memory        flexNumber `json:"memory"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

// Judge0Service 远程代码沙箱客户端
type Judge0Service struct {
	mu         sync.RWMutex
	cfg        config.Judge0Config
	submitHTTP *http.Client
	pollHTTP   *http.Client
}

func NewJudge0Service(cfg config.Judge0Config) *Judge0Service {
	s := &Judge0Service{
		submitHTTP: &http.Client{Timeout: 15 * time.Second},
		pollHTTP:   &http.Client{Timeout: 10 * time.Second},
	}
	s.UpdateConfig(cfg)
	return s
}

// UpdateConfig 配置热加载回调：运行中切换沙箱地址或轮换 API Key
func (s *Judge0Service) UpdateConfig(cfg config.Judge0Config) {
	if cfg.PollIntervalMS <= 0 {
		cfg.PollIntervalMS = 1000
	}
	if cfg.MaxPollAttempts <= 0 {
		cfg.MaxPollAttempts = 10
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *Judge0Service) config() config.Judge0Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func setHeaders(req *http.Request, cfg config.Judge0Config) {
	req.Header.Set("Content-Type", "application/json")
	if cfg.APIKey != "" {
		req.Header.Set("X-RapidAPI-Key", cfg.APIKey)
	}
	if cfg.Host != "" {
		req.Header.Set("X-RapidAPI-Host", cfg.Host)
	}
}

func transportFailure(err error, fallbackMsg string) *ExecutionResult {
	msg := fallbackMsg
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		msg = "请求超时，执行服务可能繁忙，请稍后重试"
	}
	return &ExecutionResult{
		Success: false,
		Error:   err.Error(),
		Message: msg,
	}
}

// Execute 提交代码到沙箱并轮询结果。不支持的语言直接返回失败结果，不发起网络请求
func (s *Judge0Service) Execute(ctx context.Context, sourceCode, language, stdin, expectedOutput string) *ExecutionResult {
	languageID, ok := LanguageIDs[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		return &ExecutionResult{
			Success: false,
			Error:   fmt.Sprintf("language %q not supported", language),
			Message: fmt.Sprintf("暂不支持 %s 语言的在线执行", language),
		}
	}

	start := time.Now()
	defer func() {
		monitoring.ExecutorDuration.Observe(time.Since(start).Seconds())
	}()

	payload := map[string]interface{}{
		"source_code": sourceCode,
		"language_id": languageID,
		"stdin":       stdin,
	}
	if expectedOutput != "" {
		payload["expected_output"] = expectedOutput
	}
	body, _ := json.Marshal(payload)

	// 整次执行使用同一份配置快照，热加载不影响进行中的轮询
	cfg := s.config()

	url := fmt.Sprintf("%s/submissions?base64_encoded=false&wait=false", cfg.URL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return transportFailure(err, "无法创建执行请求")
	}
	setHeaders(req, cfg)

	resp, err := s.submitHTTP.Do(req)
	if err != nil {
		logger.Log.Warn("judge0 submission failed", zap.Error(err))
		return transportFailure(err, "无法连接代码执行服务，请检查网络")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return &ExecutionResult{
			Success: false,
			Error:   fmt.Sprintf("submission failed: %d", resp.StatusCode),
			Message: fmt.Sprintf("执行服务返回错误: %s", string(detail)),
		}
	}

	var submission judge0Submission
	if err := json.NewDecoder(resp.Body).Decode(&submission); err != nil || submission.Token == "" {
		return &ExecutionResult{
			Success: false,
			Error:   "no submission token received",
			Message: "提交执行请求失败",
		}
	}

	return s.waitForResult(ctx, cfg, submission.Token)
}

// waitForResult 轮询执行结果，排队/处理中的状态继续等待
func (s *Judge0Service) waitForResult(ctx context.Context, cfg config.Judge0Config, token string) *ExecutionResult {
	interval := time.Duration(cfg.PollIntervalMS) * time.Millisecond
	url := fmt.Sprintf("%s/submissions/%s?base64_encoded=false", cfg.URL, token)

	for attempt := 0; attempt < cfg.MaxPollAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return transportFailure(ctx.Err(), "执行已取消")
			case <-time.After(interval):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return transportFailure(err, "无法创建查询请求")
		}
		setHeaders(req, cfg)

		resp, err := s.pollHTTP.Do(req)
		if err != nil {
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			continue
		}

		var result judge0Submission
		decodeErr := json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()
		if decodeErr != nil {
			continue
		}

		// 1=In Queue 2=Processing，其余为终态
		if result.Status.ID == 1 || result.Status.ID == 2 {
			continue
		}

		return formatResult(&result)
	}

	return &ExecutionResult{
		Success: false,
		Error:   "execution timeout",
		Message: "代码执行时间过长",
	}
}

// formatResult 归一化 Judge0 终态：空指针字段转为空串并去掉首尾空白
func formatResult(result *judge0Submission) *ExecutionResult {
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return strings.TrimSpace(*p)
	}

	statusID := result.Status.ID
	description := result.Status.Description
	if description == "" {
		description = "Unknown"
	}

	var message string
	switch {
	case statusID == 3:
		message = "代码执行成功"
	case statusID == 6:
		message = "编译错误"
	case statusID == 4:
		message = "输出结果不正确"
	case statusID == 5:
		message = "执行超时"
	case statusID >= 7 && statusID <= 14:
		message = fmt.Sprintf("运行时错误: %s", description)
	default:
		message = description
	}

	return &ExecutionResult{
		Success:       statusID == 3,
		Status:        description,
		StatusID:      statusID,
		Stdout:        deref(result.Stdout),
		Stderr:        deref(result.Stderr),
		CompileOutput: deref(result.CompileOutput),
		Time:          float64(result.Time),
		Memory:        int(result.Memory),
		Message:       message,
	}
}

// ValidateSolution 执行代码并与期望输出比对（两侧都去掉首尾空白）
func (s *Judge0Service) ValidateSolution(ctx context.Context, sourceCode, language, expectedOutput, stdin string) *ExecutionResult {
	result := s.Execute(ctx, sourceCode, language, stdin, expectedOutput)
	if !result.Success {
		return result
	}

	actual := strings.TrimSpace(result.Stdout)
	expected := strings.TrimSpace(expectedOutput)
	matched := actual == expected

	result.Validated = &matched
	result.ExpectedOutput = expected
	result.ActualOutput = actual
	if matched {
		result.Message = "回答正确！输出与期望一致"
	} else {
		result.Message = "输出结果不正确"
	}
	return result
}
