package dto

// UsageResponse is returned by GET /api/usage
type UsageResponse struct {
	Runs   int64 `json:"runs"`
	Tokens int64 `json:"tokens"`
}
