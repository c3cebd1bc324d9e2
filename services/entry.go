package services

import (
	"sort"

	"github.com/camden-git/traveldiary/media"
	"github.com/camden-git/traveldiary/models"
)

// Entry is a diary post with its media as one ordered list. Media[0] is the
// primary medium; the entries row keeps a copy of it for older clients.
type Entry struct {
	ID           uint
	Caption      string
	LocationName string
	Latitude     *float64
	Longitude    *float64
	Category     string
	Date         string
	Media        []media.Item
}

// Primary returns the medium at position 0.
func (e Entry) Primary() media.Item {
	if len(e.Media) == 0 {
		return media.Item{}
	}
	return e.Media[0]
}

func entryFromModel(m *models.Entry) Entry {
	items := make([]media.Item, 0, len(m.Media)+1)
	items = append(items, media.Item{
		Ref:       media.ParseRef(m.Filename),
		Type:      media.Type(m.MediaType),
		SortOrder: 0,
	})

	extras := append([]models.EntryMedia(nil), m.Media...)
	sort.SliceStable(extras, func(i, j int) bool { return extras[i].SortOrder < extras[j].SortOrder })
	for _, em := range extras {
		items = append(items, media.Item{
			Ref:       media.ParseRef(em.Filename),
			Type:      media.Type(em.MediaType),
			SortOrder: em.SortOrder,
		})
	}

	return Entry{
		ID:           m.ID,
		Caption:      m.Caption,
		LocationName: m.LocationName,
		Latitude:     m.Latitude,
		Longitude:    m.Longitude,
		Category:     m.Category,
		Date:         m.Date,
		Media:        items,
	}
}

// toModel flattens the ordered list into the primary columns plus child rows.
func (e Entry) toModel() *models.Entry {
	primary := e.Primary()
	m := &models.Entry{
		ID:           e.ID,
		Filename:     primary.Ref.String(),
		MediaType:    string(primary.Type),
		Caption:      e.Caption,
		LocationName: e.LocationName,
		Latitude:     e.Latitude,
		Longitude:    e.Longitude,
		Category:     e.Category,
		Date:         e.Date,
	}
	for i := 1; i < len(e.Media); i++ {
		m.Media = append(m.Media, models.EntryMedia{
			EntryID:   e.ID,
			Filename:  e.Media[i].Ref.String(),
			MediaType: string(e.Media[i].Type),
			SortOrder: i,
		})
	}
	return m
}
