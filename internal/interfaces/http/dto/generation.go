// Package dto 提供 HTTP 层数据传输对象
package dto

// GenerateResponse 文书生成响应
type GenerateResponse struct {
	HTML   string        `json:"html"`
	Model  string        `json:"model"`
	Tokens *TokensDetail `json:"tokens,omitempty"`
}

// TokensDetail Token 用量明细
type TokensDetail struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
	Total      int `json:"total"`
}
