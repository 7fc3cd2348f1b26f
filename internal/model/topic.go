package model

// Topic 主题参考数据，由运营侧维护
type Topic struct {
	ID   uint64 `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(64);not null;uniqueIndex" json:"name"`
}

func (Topic) TableName() string {
	return "topics"
}
