// Package entity 定义领域实体
package entity

// Language 输出语言。阿拉伯语是默认语言，
// 英语输出通过提示词中的显式指令控制。
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

// ParseLanguage 解析语言标识，未知值回退到阿拉伯语
func ParseLanguage(s string) Language {
	if s == string(LanguageEnglish) {
		return LanguageEnglish
	}
	return LanguageArabic
}
