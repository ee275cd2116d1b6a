// Package retrieval 实现混合检索与排序引擎：按策略（相似度 / 多样性 /
// 混合 / 增强）从本地索引选取片段，融合 BM25 词法信号，合并本地与网络
// 结果并去重，最后对结果集做质量分析。
//
// 向量索引本身由 PassageStore 接口外置，本包只负责候选的选取、打分与
// 排序。
package retrieval
