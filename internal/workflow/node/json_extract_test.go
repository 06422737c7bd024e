package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"裸 JSON", `{"a":1}`, `{"a":1}`},
		{"json 栅栏", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"无语言标记栅栏", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"前后空白", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"空串", "", ""},
		{"纯文本", "hello", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"裸对象", `{"slug":"x"}`, `{"slug":"x"}`},
		{"栅栏对象", "```json\n{\"slug\":\"x\"}\n```", `{"slug":"x"}`},
		{"前后夹杂文本", "Here is the result:\n{\"slug\":\"x\"}\nHope this helps!", `{"slug":"x"}`},
		{"数组", `[1,2,3]`, `[1,2,3]`},
		{"数组夹杂文本", "result: [1,2,3] done", `[1,2,3]`},
		{"空串", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONObject(tt.in))
		})
	}
}
