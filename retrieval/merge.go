package retrieval

import "github.com/lingorag/lingorag/types"

// MergeCap 合并结果集的总量上限。
const MergeCap = 8

// Merge 合并本地和网络片段：本地片段在前（保持索引顺序），网络片段在
// 后（保持各引擎扫描顺序，不按分数重排），按内容前 100 字符去重，先见
// 者保留，总量封顶 8 条。
//
// 去重键不做大小写或空白归一化；仅首部空白或大小写不同的近重复片段会
// 被视为不同片段。
func Merge(local, web []types.Passage) []types.Passage {
	merged := make([]types.Passage, 0, MergeCap)
	seen := make(map[string]bool, len(local)+len(web))

	appendUnique := func(passages []types.Passage) {
		for _, p := range passages {
			if len(merged) >= MergeCap {
				return
			}
			key := p.DedupKey()
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, p)
		}
	}

	appendUnique(local)
	appendUnique(web)
	return merged
}
