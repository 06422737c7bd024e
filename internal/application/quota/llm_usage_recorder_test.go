package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qanoni-ai-api/internal/domain/entity"
	"qanoni-ai-api/internal/domain/repository"
	"qanoni-ai-api/internal/domain/service"
)

type fakeServiceRepo struct {
	repository.ServiceRepository
	incremented []string
	incErr      error
}

func (f *fakeServiceRepo) IncrementUsage(_ context.Context, id string) error {
	f.incremented = append(f.incremented, id)
	return f.incErr
}

type fakeUserRepo struct {
	repository.UserRepository
	consumed   map[string]int64
	consumeErr error
	users      map[string]*entity.User
}

func (f *fakeUserRepo) ConsumeTokens(_ context.Context, id string, tokens int64) error {
	if f.consumed == nil {
		f.consumed = make(map[string]int64)
	}
	f.consumed[id] += tokens
	return f.consumeErr
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return f.users[id], nil
}

type fakeUsageRepo struct {
	events    []*entity.LLMUsageEvent
	createErr error
}

func (f *fakeUsageRepo) Create(_ context.Context, e *entity.LLMUsageEvent) error {
	f.events = append(f.events, e)
	return f.createErr
}

func (f *fakeUsageRepo) ListByUser(context.Context, string, repository.Pagination) (*repository.PagedResult[*entity.LLMUsageEvent], error) {
	return &repository.PagedResult[*entity.LLMUsageEvent]{}, nil
}

func (f *fakeUsageRepo) GetTokenUsage(context.Context, string, time.Time, time.Time) (int64, error) {
	return 0, nil
}

type fakePublisher struct {
	published []*entity.LLMUsageEvent
	err       error
}

func (f *fakePublisher) PublishUsage(_ context.Context, e *entity.LLMUsageEvent) error {
	f.published = append(f.published, e)
	return f.err
}

func TestRecord_FullAccounting(t *testing.T) {
	svcRepo := &fakeServiceRepo{}
	userRepo := &fakeUserRepo{}
	usageRepo := &fakeUsageRepo{}
	pub := &fakePublisher{}
	r := NewLLMUsageRecorder(svcRepo, userRepo, usageRepo, pub)

	r.Record(context.Background(), service.LLMUsageInput{
		UserID:           "user-1",
		ServiceID:        "svc-1",
		Model:            "gemini-2.5-flash",
		PromptTokens:     100,
		CompletionTokens: 400,
		TotalTokens:      500,
		DurationMs:       1200,
	})

	assert.Equal(t, []string{"svc-1"}, svcRepo.incremented)
	assert.Equal(t, int64(500), userRepo.consumed["user-1"])
	require.Len(t, usageRepo.events, 1)
	event := usageRepo.events[0]
	assert.Equal(t, 100, event.TokensPrompt)
	assert.Equal(t, 400, event.TokensCompletion)
	assert.Equal(t, 500, event.TokensTotal)
	assert.Equal(t, 1200, event.DurationMs)
	assert.Len(t, pub.published, 1)
}

func TestRecord_PrivilegedSkipsConsumption(t *testing.T) {
	svcRepo := &fakeServiceRepo{}
	userRepo := &fakeUserRepo{}
	usageRepo := &fakeUsageRepo{}
	r := NewLLMUsageRecorder(svcRepo, userRepo, usageRepo, nil)

	r.Record(context.Background(), service.LLMUsageInput{
		UserID:      "admin-1",
		ServiceID:   "svc-1",
		Privileged:  true,
		TotalTokens: 500,
	})

	// 特权账号不扣余额，但流水照常落库
	assert.Empty(t, userRepo.consumed)
	assert.Len(t, usageRepo.events, 1)
}

func TestRecord_TotalFallsBackToSum(t *testing.T) {
	userRepo := &fakeUserRepo{}
	usageRepo := &fakeUsageRepo{}
	r := NewLLMUsageRecorder(&fakeServiceRepo{}, userRepo, usageRepo, nil)

	// 模型方未回报总量时按 prompt+completion 计
	r.Record(context.Background(), service.LLMUsageInput{
		UserID:           "user-1",
		ServiceID:        "svc-1",
		PromptTokens:     120,
		CompletionTokens: 80,
	})

	assert.Equal(t, int64(200), userRepo.consumed["user-1"])
	require.Len(t, usageRepo.events, 1)
	assert.Equal(t, 200, usageRepo.events[0].TokensTotal)
}

func TestRecord_EmptyResultSkipsUsageCount(t *testing.T) {
	svcRepo := &fakeServiceRepo{}
	r := NewLLMUsageRecorder(svcRepo, &fakeUserRepo{}, &fakeUsageRepo{}, nil)

	r.Record(context.Background(), service.LLMUsageInput{
		UserID:      "user-1",
		ServiceID:   "svc-1",
		TotalTokens: 10,
		ResultEmpty: true,
	})

	assert.Empty(t, svcRepo.incremented)
}

func TestRecord_ZeroTokensSkipsConsumption(t *testing.T) {
	userRepo := &fakeUserRepo{}
	r := NewLLMUsageRecorder(&fakeServiceRepo{}, userRepo, &fakeUsageRepo{}, nil)

	r.Record(context.Background(), service.LLMUsageInput{
		UserID:    "user-1",
		ServiceID: "svc-1",
	})

	assert.Empty(t, userRepo.consumed)
}

// 记账是 best-effort：任何子步骤失败都不能 panic，也不能阻断其余步骤
func TestRecord_FailuresAreSwallowed(t *testing.T) {
	svcRepo := &fakeServiceRepo{incErr: errors.New("db down")}
	userRepo := &fakeUserRepo{consumeErr: errors.New("db down")}
	usageRepo := &fakeUsageRepo{createErr: errors.New("db down")}
	pub := &fakePublisher{err: errors.New("redis down")}
	r := NewLLMUsageRecorder(svcRepo, userRepo, usageRepo, pub)

	require.NotPanics(t, func() {
		r.Record(context.Background(), service.LLMUsageInput{
			UserID:      "user-1",
			ServiceID:   "svc-1",
			TotalTokens: 100,
		})
	})

	// 每个步骤都被尝试过
	assert.Len(t, svcRepo.incremented, 1)
	assert.Equal(t, int64(100), userRepo.consumed["user-1"])
	assert.Len(t, usageRepo.events, 1)
	assert.Len(t, pub.published, 1)
}

func TestTokenBalanceChecker(t *testing.T) {
	users := map[string]*entity.User{
		"rich":  {ID: "rich", TokenBalance: 100, Role: entity.UserRoleMember},
		"broke": {ID: "broke", TokenBalance: 0, Role: entity.UserRoleMember},
		"admin": {ID: "admin", TokenBalance: 0, Role: entity.UserRoleAdmin},
	}
	checker := NewTokenBalanceChecker(&fakeUserRepo{users: users})

	u, err := checker.Check(context.Background(), "rich")
	require.NoError(t, err)
	assert.Equal(t, "rich", u.ID)

	// 余额为零拒绝
	_, err = checker.Check(context.Background(), "broke")
	require.Error(t, err)

	// 特权账号余额为零也放行
	u, err = checker.Check(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.ID)

	// 未知用户
	_, err = checker.Check(context.Background(), "ghost")
	require.Error(t, err)
}
