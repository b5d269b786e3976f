package models

// Quote is a motivational quote from the quotes provider
type Quote struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

// HealthTip is a short fact from the facts provider
type HealthTip struct {
	Fact     string `json:"fact"`
	Category string `json:"category"`
}
