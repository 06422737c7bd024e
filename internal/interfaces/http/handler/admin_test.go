package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qanoni-ai-api/internal/domain/entity"
	"qanoni-ai-api/internal/domain/repository"
	"qanoni-ai-api/internal/infrastructure/messaging"
)

type fakeCategoryRepo struct {
	repository.CategoryRepository
	created []*entity.Category
}

func (f *fakeCategoryRepo) Create(_ context.Context, cat *entity.Category) error {
	cat.ID = "cat-1"
	f.created = append(f.created, cat)
	return nil
}

type fakeAuditPublisher struct {
	logs []*messaging.AuditLogMessage
	err  error
}

func (f *fakeAuditPublisher) PublishAuditLog(_ context.Context, log *messaging.AuditLogMessage) (string, error) {
	f.logs = append(f.logs, log)
	return "1-0", f.err
}

func adminTestContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/admin/categories", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", "admin-1")
	c.Set("request_id", "req-1")
	return c, w
}

const createCategoryBody = `{"slug":"contracts","name_ar":"عقود","name_en":"Contracts"}`

func TestCreateCategory_PublishesAudit(t *testing.T) {
	repo := &fakeCategoryRepo{}
	auditor := &fakeAuditPublisher{}
	h := NewAdminHandler(repo, nil, nil, nil, nil, nil, nil, auditor)

	c, w := adminTestContext(t, createCategoryBody)
	h.CreateCategory(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.created, 1)
	require.Len(t, auditor.logs, 1)
	log := auditor.logs[0]
	assert.Equal(t, "category.create", log.Action)
	assert.Equal(t, "category", log.ResourceType)
	assert.Equal(t, "cat-1", log.ResourceID)
	assert.Equal(t, "admin-1", log.UserID)
	assert.Equal(t, "req-1", log.RequestID)
}

// 审计流写失败不能影响已经落库的变更
func TestCreateCategory_AuditFailureDoesNotFailRequest(t *testing.T) {
	repo := &fakeCategoryRepo{}
	auditor := &fakeAuditPublisher{err: errors.New("redis down")}
	h := NewAdminHandler(repo, nil, nil, nil, nil, nil, nil, auditor)

	c, w := adminTestContext(t, createCategoryBody)
	h.CreateCategory(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, repo.created, 1)
	assert.Len(t, auditor.logs, 1)
}

func TestCreateCategory_NilAuditor(t *testing.T) {
	repo := &fakeCategoryRepo{}
	h := NewAdminHandler(repo, nil, nil, nil, nil, nil, nil, nil)

	c, w := adminTestContext(t, createCategoryBody)
	h.CreateCategory(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, repo.created, 1)
}

func TestValidateServiceFields(t *testing.T) {
	ok := []entity.FormField{
		{Key: "employer", Type: entity.FieldTypeText},
		{Key: "terms", Type: entity.FieldTypeSelect, Options: []string{"a", "b"}},
		{Key: "doc", Type: entity.FieldTypeFile},
	}
	assert.NoError(t, validateServiceFields(ok))

	dup := []entity.FormField{
		{Key: "employer", Type: entity.FieldTypeText},
		{Key: "employer", Type: entity.FieldTypeText},
	}
	assert.Error(t, validateServiceFields(dup))

	noOptions := []entity.FormField{
		{Key: "terms", Type: entity.FieldTypeSelect},
	}
	assert.Error(t, validateServiceFields(noOptions))

	twoFiles := []entity.FormField{
		{Key: "doc1", Type: entity.FieldTypeFile},
		{Key: "doc2", Type: entity.FieldTypeFile},
	}
	assert.Error(t, validateServiceFields(twoFiles))
}
