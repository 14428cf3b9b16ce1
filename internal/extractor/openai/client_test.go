package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prokura/internal/config"
	"prokura/internal/domain"
	"prokura/internal/extractor/openai"
)

func newTestClient(serverURL string) *openai.Client {
	cfg := &config.ExtractorConfig{
		APIKey:      "test-key",
		Model:       "gpt-4o",
		TimeoutSecs: 5,
		MaxRetries:  1,
		BackoffSecs: 1,
	}
	return openai.NewClientWithEndpoint(cfg, serverURL)
}

func successResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	}
}

func testPrompt() domain.ExtractionPrompt {
	return domain.ExtractionPrompt{System: "extract", User: "Document Text:\noffer", Version: "v1"}
}

func TestComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "gpt-4o", reqBody["model"])
		assert.Equal(t, float64(0), reqBody["temperature"])

		rf := reqBody["response_format"].(map[string]interface{})
		assert.Equal(t, "json_object", rf["type"])

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 2)
		sys := messages[0].(map[string]interface{})
		assert.Equal(t, "system", sys["role"])
		assert.Equal(t, "extract", sys["content"])

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(`{"vendor_name":"Acme"}`))
	}))
	defer server.Close()

	out, err := newTestClient(server.URL).Complete(context.Background(), testPrompt())

	require.NoError(t, err)
	assert.Equal(t, `{"vendor_name":"Acme"}`, out)
}

func TestComplete_RetriesOnceOn5xx(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse("ok"))
	}))
	defer server.Close()

	out, err := newTestClient(server.URL).Complete(context.Background(), testPrompt())

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestComplete_SecondFailureIsServiceUnavailable(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), testPrompt())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "exactly one retry")
}

func TestComplete_ZeroRetriesMeansSingleAttempt(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := &config.ExtractorConfig{APIKey: "k", TimeoutSecs: 5, MaxRetries: 0, BackoffSecs: 1}
	client := openai.NewClientWithEndpoint(cfg, server.URL)

	_, err := client.Complete(context.Background(), testPrompt())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "explicit zero disables the retry")
}

func TestComplete_RateLimitRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse("ok"))
	}))
	defer server.Close()

	start := time.Now()
	out, err := newTestClient(server.URL).Complete(context.Background(), testPrompt())

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.GreaterOrEqual(t, time.Since(start), time.Second, "backoff honors Retry-After")
}

func TestComplete_TimeoutOnBothAttempts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	defer server.Close()

	cfg := &config.ExtractorConfig{APIKey: "k", TimeoutSecs: 1, MaxRetries: 1, BackoffSecs: 1}
	client := openai.NewClientWithEndpoint(cfg, server.URL)

	_, err := client.Complete(context.Background(), testPrompt())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.NotErrorIs(t, err, domain.ErrServiceUnavailable)
}

func TestComplete_CancellationAbandonsCall(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := newTestClient(server.URL).Complete(ctx, testPrompt())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), testPrompt())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}

func TestComplete_TruncatedOutputIsError(t *testing.T) {
	body := map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message":       map[string]interface{}{"content": `{"partial":`},
				"finish_reason": "length",
			},
		},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), testPrompt())

	require.Error(t, err)
}
