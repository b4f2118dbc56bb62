package models

// AppInfo is an immutable snapshot of the catalog's app detail page,
// captured at analysis time.
type AppInfo struct {
	Name        string `json:"name"`
	PackageName string `json:"packageName"`
	Developer   string `json:"developer"`
	Icon        string `json:"icon"`
	Rating      string `json:"rating"`
}

// PlayStoreApp mirrors the catalog service's app detail payload.
type PlayStoreApp struct {
	AppID     string  `json:"appId"`
	Title     string  `json:"title"`
	Developer string  `json:"developer"`
	Icon      string  `json:"icon"`
	Score     float64 `json:"score"`
	ScoreText string  `json:"scoreText"`
	Installs  string  `json:"installs,omitempty"`
	Free      bool    `json:"free,omitempty"`
}

type PlayStoreSearchResponse struct {
	Results []PlayStoreApp `json:"results"`
}

type PlayStoreReviewsResponse struct {
	Results []RawReview `json:"results"`
}

// AppSuggestion is one search hit surfaced by the suggestions endpoint.
type AppSuggestion struct {
	AppID     string `json:"appId"`
	Name      string `json:"name"`
	Developer string `json:"developer"`
	Icon      string `json:"icon"`
}
