package prompt

import (
	"embed"
	"fmt"
	"strings"

	"qanoni-ai-api/internal/domain/entity"
)

// 结构化 HTML 输出模板按语言各有一份。两份文本不同（示例语言不同），
// 但表达同一个结构契约：标题、引言段、正文段落/列表、结尾免责声明。
// 下游渲染依赖这个契约，改模板时不得破坏段落结构。
//
//go:embed templates/*.txt
var templatesFS embed.FS

var templateFiles = map[entity.Language]string{
	entity.LanguageArabic:  "templates/structured_html_ar.txt",
	entity.LanguageEnglish: "templates/structured_html_en.txt",
}

// StructuredHTMLTemplate 返回指定语言的结构化输出模板文本
func StructuredHTMLTemplate(lang entity.Language) (string, error) {
	path, ok := templateFiles[lang]
	if !ok {
		path = templateFiles[entity.LanguageArabic]
	}
	content, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt template %s: %w", path, err)
	}
	return strings.TrimSpace(string(content)), nil
}
