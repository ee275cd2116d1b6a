// 查询增强规则测试。
package websearch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnhanceQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantAdd bool
	}{
		{"short grammar query", "时态的用法", true},
		{"short yingyu query", "英语冠词", true},
		{"trigger at 19 runes", strings.Repeat("语", 19), true},
		{"trigger but 20 runes", "语法" + strings.Repeat("啊", 18), false},
		{"no trigger", "how are you", false},
		{"english only", "present perfect", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnhanceQuery(tt.query)
			if tt.wantAdd {
				assert.Equal(t, tt.query+enhanceSuffix, got)
			} else {
				assert.Equal(t, tt.query, got)
			}
		})
	}
}

func TestEnhanceQuery_Deterministic(t *testing.T) {
	q := "语法问题"
	assert.Equal(t, EnhanceQuery(q), EnhanceQuery(q))
}
