package models

// EntryMedia is an additional medium attached to an entry, stored in the
// 'entry_media' table. SortOrder starts at 1; the entry's own file is 0.
type EntryMedia struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	EntryID   uint   `gorm:"not null;index" json:"entry_id"`
	Filename  string `gorm:"not null" json:"filename"`
	MediaType string `gorm:"not null" json:"media_type"`
	SortOrder int    `gorm:"not null" json:"sort_order"`
}

// TableName explicitly sets the table name for GORM.
func (EntryMedia) TableName() string {
	return "entry_media"
}
