package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"qanoni-ai-api/internal/config"
	"qanoni-ai-api/internal/domain/entity"
	"qanoni-ai-api/internal/domain/service"
	wfmodel "qanoni-ai-api/internal/workflow/model"
	"qanoni-ai-api/internal/workflow/prompt"
	pkgerrors "qanoni-ai-api/pkg/errors"
)

type fakeClient struct {
	requests []*wfmodel.GenerationRequest
	result   *wfmodel.GenerationResult
	err      error
}

func (f *fakeClient) Generate(_ context.Context, req *wfmodel.GenerationRequest) (*wfmodel.GenerationResult, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type recordedUsage struct {
	inputs []service.LLMUsageInput
}

func (r *recordedUsage) Record(_ context.Context, in service.LLMUsageInput) {
	r.inputs = append(r.inputs, in)
}

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{DefaultModel: "gemini-2.5-flash"},
	}
}

func contractService() *entity.Service {
	return &entity.Service{
		ID:      "svc-1",
		TitleEn: "Employment Contract",
		Fields: []entity.FormField{
			{Key: "employer", LabelEn: "Employer name", Type: entity.FieldTypeText, Required: true},
		},
	}
}

func memberUser() *entity.User {
	return &entity.User{ID: "user-1", Role: entity.UserRoleMember, TokenBalance: 100}
}

func TestGenerate_Success(t *testing.T) {
	client := &fakeClient{result: &wfmodel.GenerationResult{
		Text:     "<h1>Contract</h1>",
		Model:    "gemini-2.5-flash",
		Usage:    wfmodel.Usage{PromptTokens: 50, CompletionTokens: 200, TotalTokens: 250},
		Duration: 800 * time.Millisecond,
	}}
	recorder := &recordedUsage{}
	g := NewGenerator(prompt.NewAssembler(), client, recorder, testConfig())

	out, err := g.Generate(context.Background(), &GenerateInput{
		User:     memberUser(),
		Service:  contractService(),
		Values:   map[string]string{"employer": "Acme LLC"},
		Language: entity.LanguageArabic,
		Tier:     wfmodel.LengthTierDefault,
	})
	require.NoError(t, err)
	assert.Equal(t, "<h1>Contract</h1>", out.HTML)
	assert.Equal(t, "gemini-2.5-flash", out.Model)
	assert.Equal(t, 250, out.Usage.TotalTokens)

	require.Len(t, recorder.inputs, 1)
	rec := recorder.inputs[0]
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, "svc-1", rec.ServiceID)
	assert.False(t, rec.Privileged)
	assert.Equal(t, 250, rec.TotalTokens)
	assert.Equal(t, 800, rec.DurationMs)
	assert.False(t, rec.ResultEmpty)
}

func TestGenerate_PrivilegedUserFlagged(t *testing.T) {
	client := &fakeClient{result: &wfmodel.GenerationResult{Text: "ok", Model: "m"}}
	recorder := &recordedUsage{}
	g := NewGenerator(prompt.NewAssembler(), client, recorder, testConfig())

	_, err := g.Generate(context.Background(), &GenerateInput{
		User:    &entity.User{ID: "admin", Role: entity.UserRoleAdmin},
		Service: contractService(),
		Values:  map[string]string{"employer": "Acme LLC"},
	})
	require.NoError(t, err)
	require.Len(t, recorder.inputs, 1)
	assert.True(t, recorder.inputs[0].Privileged)
}

func TestGenerate_EmptyResultFlagged(t *testing.T) {
	client := &fakeClient{result: &wfmodel.GenerationResult{Text: "  \n ", Model: "m"}}
	recorder := &recordedUsage{}
	g := NewGenerator(prompt.NewAssembler(), client, recorder, testConfig())

	_, err := g.Generate(context.Background(), &GenerateInput{
		User:    memberUser(),
		Service: contractService(),
		Values:  map[string]string{"employer": "Acme LLC"},
	})
	require.NoError(t, err)
	require.Len(t, recorder.inputs, 1)
	assert.True(t, recorder.inputs[0].ResultEmpty)
}

func TestGenerate_QuotaErrorNormalized(t *testing.T) {
	client := &fakeClient{err: genai.APIError{Code: 429, Message: "quota exceeded"}}
	g := NewGenerator(prompt.NewAssembler(), client, nil, testConfig())

	_, err := g.Generate(context.Background(), &GenerateInput{
		User:    memberUser(),
		Service: contractService(),
		Values:  map[string]string{"employer": "Acme LLC"},
	})
	require.ErrorIs(t, err, pkgerrors.ErrQuotaExhausted)
	// 配额错误不可重试，只应调用一次
	assert.Len(t, client.requests, 1)
}

func TestGenerate_ProviderErrorWrapped(t *testing.T) {
	client := &fakeClient{err: errors.New("invalid argument")}
	g := NewGenerator(prompt.NewAssembler(), client, nil, testConfig())

	_, err := g.Generate(context.Background(), &GenerateInput{
		User:    memberUser(),
		Service: contractService(),
		Values:  map[string]string{"employer": "Acme LLC"},
	})
	require.Error(t, err)
	appErr := pkgerrors.AsAppError(err)
	assert.Equal(t, pkgerrors.CodeLLMProviderError, appErr.Code)
	assert.Len(t, client.requests, 1)
}

func TestGenerate_ValidationErrorBeforeCall(t *testing.T) {
	client := &fakeClient{}
	g := NewGenerator(prompt.NewAssembler(), client, nil, testConfig())

	_, err := g.Generate(context.Background(), &GenerateInput{
		User:    memberUser(),
		Service: contractService(),
		Values:  map[string]string{},
	})
	require.Error(t, err)
	appErr := pkgerrors.AsAppError(err)
	assert.Equal(t, pkgerrors.CodeValidationFailed, appErr.Code)
	assert.Empty(t, client.requests)
}

func TestGenerate_NilInput(t *testing.T) {
	g := NewGenerator(prompt.NewAssembler(), &fakeClient{}, nil, testConfig())

	_, err := g.Generate(context.Background(), nil)
	require.Error(t, err)
	_, err = g.Generate(context.Background(), &GenerateInput{User: memberUser()})
	require.Error(t, err)
}

func TestGenerateJSON(t *testing.T) {
	type draft struct {
		TitleEn string `json:"title_en"`
	}
	schema := &genai.Schema{Type: genai.TypeObject}

	t.Run("plain json", func(t *testing.T) {
		client := &fakeClient{result: &wfmodel.GenerationResult{Text: `{"title_en":"NDA"}`, Model: "m"}}
		g := NewGenerator(prompt.NewAssembler(), client, nil, testConfig())

		var out draft
		require.NoError(t, g.GenerateJSON(context.Background(), "", "synthesize", schema, &out))
		assert.Equal(t, "NDA", out.TitleEn)
		// 未指定模型时回退到默认模型
		require.Len(t, client.requests, 1)
		assert.Equal(t, "gemini-2.5-flash", client.requests[0].Model)
		assert.Equal(t, "application/json", client.requests[0].Config.ResponseMIMEType)
	})

	t.Run("fenced json", func(t *testing.T) {
		client := &fakeClient{result: &wfmodel.GenerationResult{
			Text: "```json\n{\"title_en\":\"NDA\"}\n```", Model: "m"}}
		g := NewGenerator(prompt.NewAssembler(), client, nil, testConfig())

		var out draft
		require.NoError(t, g.GenerateJSON(context.Background(), "", "synthesize", schema, &out))
		assert.Equal(t, "NDA", out.TitleEn)
	})

	t.Run("json surrounded by prose", func(t *testing.T) {
		client := &fakeClient{result: &wfmodel.GenerationResult{
			Text: "Here is the draft:\n{\"title_en\":\"NDA\"}\nLet me know.", Model: "m"}}
		g := NewGenerator(prompt.NewAssembler(), client, nil, testConfig())

		var out draft
		require.NoError(t, g.GenerateJSON(context.Background(), "", "synthesize", schema, &out))
		assert.Equal(t, "NDA", out.TitleEn)
	})

	t.Run("invalid json", func(t *testing.T) {
		client := &fakeClient{result: &wfmodel.GenerationResult{Text: "not json at all", Model: "m"}}
		g := NewGenerator(prompt.NewAssembler(), client, nil, testConfig())

		var out draft
		err := g.GenerateJSON(context.Background(), "", "synthesize", schema, &out)
		require.Error(t, err)
		appErr := pkgerrors.AsAppError(err)
		assert.Equal(t, pkgerrors.CodeGenerationFailed, appErr.Code)
	})
}
