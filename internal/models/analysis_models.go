package models

// AnalysisResult is the full output of one analyze call. Reviews keep
// the catalog's fetch order. Never mutated once built.
type AnalysisResult struct {
	AppInfo   AppInfo          `json:"appInfo"`
	Sentiment SentimentSummary `json:"sentiment"`
	Reviews   []AnalyzedReview `json:"reviews"`
}

// HistoryRecord is the compact ledger entry kept per successful
// analysis. IDs are monotonic from 1 and never reused.
type HistoryRecord struct {
	ID             int     `json:"id"`
	AppName        string  `json:"appName"`
	SentimentScore float64 `json:"sentimentScore"`
	GeneratedAt    string  `json:"date"`
	AppIcon        string  `json:"appIcon,omitempty"`
}
