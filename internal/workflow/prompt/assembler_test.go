package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qanoni-ai-api/internal/domain/entity"
	wfmodel "qanoni-ai-api/internal/workflow/model"
	pkgerrors "qanoni-ai-api/pkg/errors"
)

func testService() *entity.Service {
	return &entity.Service{
		ID:      "svc-1",
		Slug:    "employment-contract",
		TitleAr: "عقد عمل",
		TitleEn: "Employment Contract",
		Fields: []entity.FormField{
			{Key: "employer", LabelAr: "صاحب العمل", LabelEn: "Employer", Type: entity.FieldTypeText, Required: true},
			{Key: "employee", LabelAr: "الموظف", LabelEn: "Employee", Type: entity.FieldTypeText, Required: true},
			{Key: "notes", LabelAr: "ملاحظات", LabelEn: "Notes", Type: entity.FieldTypeTextarea},
			{Key: "contract_file", LabelAr: "ملف العقد", LabelEn: "Contract file", Type: entity.FieldTypeFile},
		},
		InstructionAr: "أنت مساعد قانوني.",
		InstructionEn: "You are a legal assistant.",
	}
}

func TestBuildRequest_PromptFieldOrder(t *testing.T) {
	a := NewAssembler()

	req, err := a.BuildRequest(BuildInput{
		Service: testService(),
		Values: map[string]string{
			// 故意乱序传入，输出必须跟随字段定义顺序
			"notes":    "probation 3 months",
			"employee": "Sara",
			"employer": "Acme LLC",
		},
		Language:     entity.LanguageEnglish,
		Tier:         wfmodel.LengthTierDefault,
		Jurisdiction: "Jordan",
		DefaultModel: "gemini-2.5-flash",
	})
	require.NoError(t, err)

	want := "Employment Contract\n\n" +
		"Employer: Acme LLC\n" +
		"Employee: Sara\n" +
		"Notes: probation 3 months\n" +
		"\nApplicable jurisdiction: Jordan. Base the answer on the laws of this jurisdiction unless the request specifies otherwise.\n" +
		"\nRespond in English only. Do not include any Arabic text in your answer.\n"
	assert.Equal(t, want, req.PromptText)
	assert.Equal(t, "gemini-2.5-flash", req.Model)
}

func TestBuildRequest_Deterministic(t *testing.T) {
	a := NewAssembler()
	in := BuildInput{
		Service:      testService(),
		Values:       map[string]string{"employer": "Acme", "employee": "Sara"},
		Language:     entity.LanguageArabic,
		Tier:         wfmodel.LengthTierShort,
		Jurisdiction: "Egypt",
		DefaultModel: "gemini-2.5-flash",
	}

	first, err := a.BuildRequest(in)
	require.NoError(t, err)
	second, err := a.BuildRequest(in)
	require.NoError(t, err)

	assert.Equal(t, first.PromptText, second.PromptText)
	assert.Equal(t, first.Config.SystemInstruction, second.Config.SystemInstruction)
}

func TestBuildRequest_ArabicHasNoEnglishDirective(t *testing.T) {
	a := NewAssembler()

	req, err := a.BuildRequest(BuildInput{
		Service:  testService(),
		Values:   map[string]string{"employer": "Acme", "employee": "Sara"},
		Language: entity.LanguageArabic,
	})
	require.NoError(t, err)

	assert.NotContains(t, req.PromptText, "Respond in English only")
}

func TestBuildRequest_MissingRequiredField(t *testing.T) {
	a := NewAssembler()

	_, err := a.BuildRequest(BuildInput{
		Service:  testService(),
		Values:   map[string]string{"employer": "Acme"},
		Language: entity.LanguageArabic,
	})
	require.Error(t, err)

	appErr := pkgerrors.AsAppError(err)
	assert.Equal(t, pkgerrors.CodeValidationFailed, appErr.Code)
	assert.Contains(t, appErr.Message, "employee")
}

func TestBuildRequest_EmptyOptionalFieldSkipped(t *testing.T) {
	a := NewAssembler()

	req, err := a.BuildRequest(BuildInput{
		Service:  testService(),
		Values:   map[string]string{"employer": "Acme", "employee": "Sara", "notes": "   "},
		Language: entity.LanguageArabic,
	})
	require.NoError(t, err)

	assert.NotContains(t, req.PromptText, "Notes:")
}

func TestBuildRequest_MultipleFileFieldsRejected(t *testing.T) {
	svc := testService()
	svc.Fields = append(svc.Fields, entity.FormField{
		Key: "second_file", LabelAr: "ملف ثان", LabelEn: "Second file", Type: entity.FieldTypeFile,
	})

	_, err := NewAssembler().BuildRequest(BuildInput{
		Service:  svc,
		Values:   map[string]string{"employer": "Acme", "employee": "Sara"},
		Language: entity.LanguageArabic,
	})
	require.Error(t, err)

	appErr := pkgerrors.AsAppError(err)
	assert.Equal(t, pkgerrors.CodeValidationFailed, appErr.Code)
}

func TestBuildRequest_AttachmentMustTargetFileField(t *testing.T) {
	a := NewAssembler()

	_, err := a.BuildRequest(BuildInput{
		Service: testService(),
		Values:  map[string]string{"employer": "Acme", "employee": "Sara"},
		Attachment: &wfmodel.Attachment{
			FieldKey: "employer", // 文本字段不能挂附件
			MIMEType: "application/pdf",
			Data:     []byte("%PDF"),
		},
		Language: entity.LanguageArabic,
	})
	require.Error(t, err)

	// 挂到真正的文件字段则通过
	req, err := a.BuildRequest(BuildInput{
		Service: testService(),
		Values:  map[string]string{"employer": "Acme", "employee": "Sara"},
		Attachment: &wfmodel.Attachment{
			FieldKey: "contract_file",
			MIMEType: "application/pdf",
			Data:     []byte("%PDF"),
		},
		Language: entity.LanguageArabic,
	})
	require.NoError(t, err)
	require.NotNil(t, req.Attachment)
	assert.Equal(t, "contract_file", req.Attachment.FieldKey)
	// 文件字段绝不进入提示词文本
	assert.NotContains(t, req.PromptText, "Contract file")
}

func TestBuildRequest_TierOverridesDefaults(t *testing.T) {
	svc := testService()
	maxTokens := int32(9000)
	temp := float32(0.3)
	svc.Defaults = &entity.GenerationDefaults{MaxOutputTokens: &maxTokens, Temperature: &temp}

	a := NewAssembler()

	// short 档覆盖服务基底的输出上限，但保留温度
	req, err := a.BuildRequest(BuildInput{
		Service:  svc,
		Values:   map[string]string{"employer": "Acme", "employee": "Sara"},
		Language: entity.LanguageArabic,
		Tier:     wfmodel.LengthTierShort,
	})
	require.NoError(t, err)
	require.NotNil(t, req.Config.MaxOutputTokens)
	assert.Equal(t, int32(512), *req.Config.MaxOutputTokens)
	require.NotNil(t, req.Config.ThinkingBudget)
	assert.Equal(t, int32(256), *req.Config.ThinkingBudget)
	require.NotNil(t, req.Config.Temperature)
	assert.Equal(t, float32(0.3), *req.Config.Temperature)

	// default 档不触碰基底
	req, err = a.BuildRequest(BuildInput{
		Service:  svc,
		Values:   map[string]string{"employer": "Acme", "employee": "Sara"},
		Language: entity.LanguageArabic,
		Tier:     wfmodel.LengthTierDefault,
	})
	require.NoError(t, err)
	require.NotNil(t, req.Config.MaxOutputTokens)
	assert.Equal(t, int32(9000), *req.Config.MaxOutputTokens)
	assert.Nil(t, req.Config.ThinkingBudget)

	// 组装不得改写服务自身的基底配置
	assert.Equal(t, int32(9000), *svc.Defaults.MaxOutputTokens)
}

func TestBuildRequest_SystemInstruction(t *testing.T) {
	a := NewAssembler()

	req, err := a.BuildRequest(BuildInput{
		Service:  testService(),
		Values:   map[string]string{"employer": "Acme", "employee": "Sara"},
		Language: entity.LanguageEnglish,
	})
	require.NoError(t, err)

	// 服务指令在前，格式模板在分隔行之后
	assert.True(t, strings.HasPrefix(req.Config.SystemInstruction, "You are a legal assistant."))
	assert.Contains(t, req.Config.SystemInstruction, "\n\n---\n\n")

	// 无服务指令时只剩格式模板
	svc := testService()
	svc.InstructionAr = ""
	svc.InstructionEn = ""
	req, err = a.BuildRequest(BuildInput{
		Service:  svc,
		Values:   map[string]string{"employer": "Acme", "employee": "Sara"},
		Language: entity.LanguageEnglish,
	})
	require.NoError(t, err)
	assert.NotContains(t, req.Config.SystemInstruction, "---")
}

func TestBuildRequest_TemplateFollowsLanguage(t *testing.T) {
	a := NewAssembler()

	// 模板内容里各语言独有的提示语
	const arMarker = "جزء HTML واحد فقط"
	const enMarker = "a single HTML fragment only"

	req, err := a.BuildRequest(BuildInput{
		Service:  testService(),
		Values:   map[string]string{"employer": "Acme", "employee": "Sara"},
		Language: entity.LanguageArabic,
	})
	require.NoError(t, err)
	assert.Contains(t, req.Config.SystemInstruction, arMarker)
	assert.NotContains(t, req.Config.SystemInstruction, enMarker)

	req, err = a.BuildRequest(BuildInput{
		Service:  testService(),
		Values:   map[string]string{"employer": "Acme", "employee": "Sara"},
		Language: entity.LanguageEnglish,
	})
	require.NoError(t, err)
	assert.Contains(t, req.Config.SystemInstruction, enMarker)
	assert.NotContains(t, req.Config.SystemInstruction, arMarker)
}

func TestBuildRequest_ServiceModelWins(t *testing.T) {
	svc := testService()
	svc.Model = "gemini-2.5-pro"

	req, err := NewAssembler().BuildRequest(BuildInput{
		Service:      svc,
		Values:       map[string]string{"employer": "Acme", "employee": "Sara"},
		Language:     entity.LanguageArabic,
		DefaultModel: "gemini-2.5-flash",
	})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", req.Model)
}
