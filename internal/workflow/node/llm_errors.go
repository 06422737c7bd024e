package node

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// 瞬时错误的消息特征。模型方过载/不可用值得有限次退避重试，
// 其余一律终止。改动这组子串会悄悄改变重试语义，务必连同测试一起改。
var transientIndicators = []string{
	"503",
	"unavailable",
	"overloaded",
}

// 配额耗尽的消息特征。配额是硬性日限/账单上限，重试无济于事，
// 必须立即以独立信号上抛。
var quotaIndicators = []string{
	"429",
	"resource_exhausted",
	"resource has been exhausted",
}

// IsTransientError 判断生成调用的失败是否为瞬时（可重试）错误。
// 优先使用 SDK 的结构化状态码，消息子串匹配只做兜底。
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusServiceUnavailable
	}

	msg := strings.ToLower(err.Error())
	for _, ind := range transientIndicators {
		if strings.Contains(msg, ind) {
			return true
		}
	}
	return false
}

// IsQuotaExhaustedError 判断失败是否为模型方配额耗尽。
// 配额耗尽属于终止错误，且需要独立于一般失败的稳定信号。
func IsQuotaExhaustedError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, ind := range quotaIndicators {
		if strings.Contains(msg, ind) {
			return true
		}
	}
	return false
}
