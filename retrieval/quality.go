package retrieval

import (
	"unicode/utf8"

	"github.com/lingorag/lingorag/types"
)

// 质量评分构成：数量分 + 长度分（混合报告再加来源多样性分），上限 100。
const (
	qualityBaseCap      = 50.0
	qualityPerResult    = 10.0
	qualityLengthCap    = 30.0
	qualityLengthDiv    = 50.0
	qualityDiversityCap = 20.0
	qualityPerSource    = 5.0

	minResultsThreshold = 3
	shortContentLength  = 100.0
	lowQualityThreshold = 60.0
)

// 建议文案，按固定优先级追加。
const (
	recNoDocuments  = "未检索到文档，请检查查询或知识库"
	recFewResults   = "检索结果较少，考虑降低相似度阈值"
	recShortContent = "文档片段较短，可能缺乏上下文"
	recLowQuality   = "检索质量偏低，建议优化查询或检索策略"
	recNoLocalDocs  = "本地知识库未找到相关内容，考虑添加更多学习资料"
	recNoWebDocs    = "网络搜索未返回结果，检查网络连接或尝试不同关键词"
)

// Analyze 对本地检索结果集生成质量报告。纯函数：无副作用，相同输入
// 产出相同报告。
func Analyze(query string, passages []types.Passage) types.QualityReport {
	return analyze(query, passages, false, false, false)
}

// AnalyzeCombined 对本地+网络混合结果集生成质量报告。长度分之外再计
// 入来源多样性分，并按请求的来源给出缺失建议。
func AnalyzeCombined(query string, passages []types.Passage, useLocal, useWeb bool) types.QualityReport {
	return analyze(query, passages, true, useLocal, useWeb)
}

func analyze(query string, passages []types.Passage, combined, useLocal, useWeb bool) types.QualityReport {
	report := types.QualityReport{
		Query:      query,
		NumResults: len(passages),
	}

	if len(passages) == 0 {
		report.QualityScore = 0
		report.Recommendations = []string{recNoDocuments}
		return report
	}

	totalLen := 0
	for _, p := range passages {
		totalLen += utf8.RuneCountInString(p.Content)
		switch p.Metadata.SourceType {
		case types.SourceLocal:
			report.Breakdown.NumLocal++
		case types.SourceWeb:
			report.Breakdown.NumWeb++
		}
	}
	report.AvgContentLength = float64(totalLen) / float64(len(passages))

	base := min(qualityBaseCap, float64(len(passages))*qualityPerResult)
	length := min(qualityLengthCap, report.AvgContentLength/qualityLengthDiv)
	score := base + length

	if combined {
		diversity := min(qualityDiversityCap,
			float64(report.Breakdown.NumLocal)*qualityPerSource+float64(report.Breakdown.NumWeb)*qualityPerSource)
		score += diversity
	}
	report.QualityScore = min(100, score)

	recs := []string{}
	if len(passages) < minResultsThreshold {
		recs = append(recs, recFewResults)
	}
	if report.AvgContentLength < shortContentLength {
		recs = append(recs, recShortContent)
	}
	if report.QualityScore < lowQualityThreshold {
		recs = append(recs, recLowQuality)
	}
	if combined {
		if useLocal && report.Breakdown.NumLocal == 0 {
			recs = append(recs, recNoLocalDocs)
		}
		if useWeb && report.Breakdown.NumWeb == 0 {
			recs = append(recs, recNoWebDocs)
		}
	}
	report.Recommendations = recs
	return report
}
