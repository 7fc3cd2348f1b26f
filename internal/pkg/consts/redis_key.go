package consts

const (
	FeedDailyKey     = "feed:daily:"
	FeedActiveSetKey = "feed:active:dirty"
)

const (
	FeedWarmLock = "lock:feed:warm"
)
