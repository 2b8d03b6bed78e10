package search

import "github.com/sbercal/sbercal/core"

// RankMonitor provides hooks to observe the ranking process.
// Implement this interface to track intermediate steps and results during ranking.
type RankMonitor interface {
	Start(query string)
	AfterQueryEmbedding(dim int)
	AfterScoring(scores []float32)
	KeywordFiltered(record *core.EventRecord, keyword string)
	GeoFiltered(record *core.EventRecord)
	Finish(results []*core.RankedResult)
}

// noopMonitor is a no-op implementation of RankMonitor
type noopMonitor struct{}

var _ RankMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                 {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)                      {}
func (n *noopMonitor) AfterScoring(_ []float32)                       {}
func (n *noopMonitor) KeywordFiltered(_ *core.EventRecord, _ string)  {}
func (n *noopMonitor) GeoFiltered(_ *core.EventRecord)                {}
func (n *noopMonitor) Finish(_ []*core.RankedResult)                  {}
