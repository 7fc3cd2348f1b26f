package dto

// FeedItemDTO 信息流中的单条内容
type FeedItemDTO struct {
	ID             uint64   `json:"id"`
	Title          string   `json:"title"`
	RelevanceScore int      `json:"relevance_score"`
	PublishedAt    string   `json:"published_at"`
	Topics         []string `json:"topics"`
}

// FeedDTO 一次信息流响应
type FeedDTO struct {
	UserID uint64        `json:"user_id"`
	Items  []FeedItemDTO `json:"items"`
}
