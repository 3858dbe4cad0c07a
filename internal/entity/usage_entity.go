package entity

// Usage is the running total of recommendation runs and model tokens of one user.
type Usage struct {
	UserId string
	Runs   int64
	Tokens int64
}
