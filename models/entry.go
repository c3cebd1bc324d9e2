package models

const (
	CategoryFood    = "food"
	CategoryScenery = "scenery"
	CategoryMoments = "moments"

	DefaultCategory = CategoryMoments
)

// DateLayout is the storage format of Entry.Date.
const DateLayout = "2006-01-02"

// IsValidCategory checks if a string is one of the known categories
func IsValidCategory(c string) bool {
	switch c {
	case CategoryFood, CategoryScenery, CategoryMoments:
		return true
	default:
		return false
	}
}

// Entry represents one diary post. It corresponds to the 'entries' table.
// Filename and MediaType describe the primary medium; extras live in Media.
type Entry struct {
	ID           uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Filename     string   `gorm:"not null" json:"filename"`
	MediaType    string   `gorm:"not null" json:"media_type"`
	Caption      string   `gorm:"not null" json:"caption"`
	LocationName string   `gorm:"not null" json:"location_name"`
	Latitude     *float64 `gorm:"" json:"latitude"`  // Nullable
	Longitude    *float64 `gorm:"" json:"longitude"` // Nullable
	Category     string   `gorm:"not null" json:"category"`
	Date         string   `gorm:"not null;index" json:"date"` // YYYY-MM-DD

	// Relationships
	Media []EntryMedia `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (Entry) TableName() string {
	return "entries"
}
