package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"qanoni-ai-api/internal/domain/repository"
)

// 缓存键不含分页参数，所以只有默认分页的第一页允许读写缓存；
// 自定义 page_size 的首页一旦写入会污染默认读者看到的列表
func TestCacheableListing(t *testing.T) {
	tests := []struct {
		name string
		page int
		size int
		want bool
	}{
		{"默认分页首页", 1, 20, true},
		{"未指定参数回退默认", 0, 0, true},
		{"第二页", 2, 20, false},
		{"首页单条", 1, 1, false},
		{"首页自定义页大小", 1, 50, false},
		{"首页最大页大小", 1, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := repository.NewPagination(tt.page, tt.size)
			assert.Equal(t, tt.want, cacheableListing(p))
		})
	}
}
