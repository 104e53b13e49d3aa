package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"portfolio_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(url string) *Judge0Service {
	return NewJudge0Service(config.Judge0Config{
		URL:             url,
		PollIntervalMS:  1,
		MaxPollAttempts: 5,
	})
}

func TestJudge0ExecuteUnsupportedLanguage(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	result := newTestExecutor(srv.URL).Execute(context.Background(), "print(1)", "brainfuck", "", "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "暂不支持")
	// 不支持的语言不应发起任何网络请求
	assert.EqualValues(t, 0, atomic.LoadInt32(&hits))
}

func TestJudge0ExecuteSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.EqualValues(t, 71, payload["language_id"])
		assert.Equal(t, "print('Hello')", payload["source_code"])
		fmt.Fprint(w, `{"token":"tok-1"}`)
	})
	mux.HandleFunc("/submissions/tok-1", func(w http.ResponseWriter, r *http.Request) {
		// time 有的部署返回字符串，memory 返回数字
		fmt.Fprint(w, `{"stdout":"Hello\n","time":"0.002","memory":3456,"status":{"id":3,"description":"Accepted"}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	// 语言名大小写与空白都应被归一化
	result := newTestExecutor(srv.URL).Execute(context.Background(), "print('Hello')", " Python ", "", "")

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.StatusID)
	assert.Equal(t, "Hello", result.Stdout)
	assert.InDelta(t, 0.002, result.Time, 1e-9)
	assert.Equal(t, 3456, result.Memory)
	assert.Equal(t, "代码执行成功", result.Message)
	assert.False(t, result.Failed())
}

func TestJudge0ExecuteSendsRapidAPIHeaders(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "judge0-ce.p.rapidapi.com", r.Header.Get("X-RapidAPI-Host"))
		fmt.Fprint(w, `{"token":"tok-h"}`)
	})
	mux.HandleFunc("/submissions/tok-h", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":{"id":3,"description":"Accepted"}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	executor := NewJudge0Service(config.Judge0Config{
		URL:             srv.URL,
		APIKey:          "secret",
		Host:            "judge0-ce.p.rapidapi.com",
		PollIntervalMS:  1,
		MaxPollAttempts: 5,
	})
	result := executor.Execute(context.Background(), "print(1)", "python", "", "")
	assert.True(t, result.Success)
}

func TestJudge0ExecutePollsUntilTerminal(t *testing.T) {
	var polls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"token":"tok-2"}`)
	})
	mux.HandleFunc("/submissions/tok-2", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&polls, 1) < 3 {
			fmt.Fprint(w, `{"status":{"id":2,"description":"Processing"}}`)
			return
		}
		fmt.Fprint(w, `{"stdout":"done","status":{"id":3,"description":"Accepted"}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	result := newTestExecutor(srv.URL).Execute(context.Background(), "print(1)", "python", "", "")

	assert.True(t, result.Success)
	assert.Equal(t, "done", result.Stdout)
	assert.EqualValues(t, 3, atomic.LoadInt32(&polls))
}

func TestJudge0ExecutePollExhaustion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"token":"tok-3"}`)
	})
	mux.HandleFunc("/submissions/tok-3", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":{"id":1,"description":"In Queue"}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	result := newTestExecutor(srv.URL).Execute(context.Background(), "print(1)", "python", "", "")

	assert.False(t, result.Success)
	assert.Equal(t, "execution timeout", result.Error)
	assert.Equal(t, "代码执行时间过长", result.Message)
}

func TestJudge0ExecuteCompileError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"token":"tok-4"}`)
	})
	mux.HandleFunc("/submissions/tok-4", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"compile_output":"error: expected ';'\n","status":{"id":6,"description":"Compilation Error"}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	result := newTestExecutor(srv.URL).Execute(context.Background(), "int main() { return 0 }", "c", "", "")

	assert.False(t, result.Success)
	assert.Equal(t, 6, result.StatusID)
	assert.Equal(t, "编译错误", result.Message)
	assert.Equal(t, "error: expected ';'", result.CompileOutput)
}

func TestJudge0ExecuteRuntimeError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"token":"tok-5"}`)
	})
	mux.HandleFunc("/submissions/tok-5", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"stderr":"ZeroDivisionError: division by zero","status":{"id":11,"description":"Runtime Error (NZEC)"}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	result := newTestExecutor(srv.URL).Execute(context.Background(), "print(1/0)", "python", "", "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "运行时错误")
	assert.Contains(t, result.Message, "Runtime Error (NZEC)")
	assert.Contains(t, result.Stderr, "ZeroDivisionError")
}

func TestJudge0ExecuteNormalizesNullFields(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"token":"tok-6"}`)
	})
	mux.HandleFunc("/submissions/tok-6", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"stdout":null,"stderr":null,"compile_output":null,"time":null,"memory":null,"status":{"id":4,"description":"Wrong Answer"}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	result := newTestExecutor(srv.URL).Execute(context.Background(), "print(2)", "python", "", "1")

	assert.False(t, result.Success)
	assert.Equal(t, "", result.Stdout)
	assert.Equal(t, "", result.Stderr)
	assert.Equal(t, "", result.CompileOutput)
	assert.Zero(t, result.Time)
	assert.Zero(t, result.Memory)
	assert.Equal(t, "输出结果不正确", result.Message)
}

func TestJudge0ExecuteTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // 连接被拒绝

	result := newTestExecutor(srv.URL).Execute(context.Background(), "print(1)", "python", "", "")

	assert.False(t, result.Success)
	assert.True(t, result.Failed())
	assert.NotEmpty(t, result.Error)
	assert.NotEmpty(t, result.Message)
}

func TestJudge0ValidateSolution(t *testing.T) {
	var pollBody atomic.Value
	pollBody.Store(`{"stdout":"42\n","status":{"id":3,"description":"Accepted"}}`)

	mux := http.NewServeMux()
	mux.HandleFunc("/submissions", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"token":"tok-7"}`)
	})
	mux.HandleFunc("/submissions/tok-7", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pollBody.Load().(string))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	executor := newTestExecutor(srv.URL)

	t.Run("matching output", func(t *testing.T) {
		result := executor.ValidateSolution(context.Background(), "print(42)", "python", "42", "")
		require.NotNil(t, result.Validated)
		assert.True(t, *result.Validated)
		assert.Equal(t, "42", result.ActualOutput)
		assert.Equal(t, "42", result.ExpectedOutput)
		assert.Equal(t, "回答正确！输出与期望一致", result.Message)
	})

	t.Run("mismatched output", func(t *testing.T) {
		result := executor.ValidateSolution(context.Background(), "print(42)", "python", "43", "")
		require.NotNil(t, result.Validated)
		assert.False(t, *result.Validated)
		assert.Equal(t, "输出结果不正确", result.Message)
	})

	t.Run("execution failure is returned as-is", func(t *testing.T) {
		// 执行失败时不做输出比对
		pollBody.Store(`{"compile_output":"boom","status":{"id":6,"description":"Compilation Error"}}`)
		result := executor.ValidateSolution(context.Background(), "print(", "python", "42", "")
		assert.False(t, result.Success)
		assert.Nil(t, result.Validated)
	})
}

func TestJudge0UpdateConfig(t *testing.T) {
	executor := NewJudge0Service(config.Judge0Config{URL: "http://old"})
	executor.UpdateConfig(config.Judge0Config{URL: "http://new"})

	cfg := executor.config()
	assert.Equal(t, "http://new", cfg.URL)
	// 非法取值回退到默认
	assert.Equal(t, 1000, cfg.PollIntervalMS)
	assert.Equal(t, 10, cfg.MaxPollAttempts)
}
