package node

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestIsTransientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"503 子串", errors.New("rpc error: code 503 from upstream"), true},
		{"unavailable 子串", errors.New("the model is currently UNAVAILABLE"), true},
		{"overloaded 子串", errors.New("The model is overloaded. Please try again later."), true},
		{"结构化 503", genai.APIError{Code: 503, Message: "Service Unavailable"}, true},
		{"包装后的结构化 503", fmt.Errorf("generate: %w", genai.APIError{Code: 503}), true},
		{"结构化 500 不重试", genai.APIError{Code: 500, Message: "internal"}, false},
		{"结构化 400 不重试", genai.APIError{Code: 400, Message: "invalid argument"}, false},
		{"普通错误", errors.New("invalid prompt"), false},
		{"网络类错误不在瞬时清单", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransientError(tt.err))
		})
	}
}

func TestIsQuotaExhaustedError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"429 子串", errors.New("got 429 from provider"), true},
		{"RESOURCE_EXHAUSTED", errors.New("rpc error: RESOURCE_EXHAUSTED: daily quota"), true},
		{"exhausted 长句", errors.New("Resource has been exhausted (e.g. check quota)."), true},
		{"结构化 429", genai.APIError{Code: 429, Message: "Too Many Requests"}, true},
		{"包装后的结构化 429", fmt.Errorf("generate: %w", genai.APIError{Code: 429}), true},
		{"503 不是配额", errors.New("503 unavailable"), false},
		{"普通错误", errors.New("bad request"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsQuotaExhaustedError(tt.err))
		})
	}
}

// 配额耗尽是终止错误，绝不能同时被判成瞬时错误进入重试
func TestQuotaIsNotTransient(t *testing.T) {
	quotaErr := genai.APIError{Code: 429, Message: "quota exceeded"}
	assert.True(t, IsQuotaExhaustedError(quotaErr))
	assert.False(t, IsTransientError(quotaErr))
}
