package services

import (
	"bytes"
	"context"
	"fmt"
	"image/color"

	"github.com/camden-git/traveldiary/media"
	"github.com/camden-git/traveldiary/utils"
)

type seedEntry struct {
	name         string
	top, bottom  color.NRGBA
	caption      string
	locationName string
	lat, long    float64
	category     string
	date         string
}

var seedEntries = []seedEntry{
	{
		name:         "seed-aquarium.png",
		top:          color.NRGBA{R: 80, G: 160, B: 225, A: 255},
		bottom:       color.NRGBA{R: 20, G: 60, B: 140, A: 255},
		caption:      "Whale sharks gliding past the big tank at Churaumi.",
		locationName: "Churaumi Aquarium, Motobu",
		lat:          26.6938,
		long:         127.8777,
		category:     "scenery",
		date:         "2026-02-24",
	},
	{
		name:         "seed-food.png",
		top:          color.NRGBA{R: 248, G: 170, B: 140, A: 255},
		bottom:       color.NRGBA{R: 220, G: 120, B: 150, A: 255},
		caption:      "Okinawa soba in a side alley off Kokusai-dori.",
		locationName: "Kokusai-dori, Naha",
		lat:          26.2124,
		long:         127.6809,
		category:     "food",
		date:         "2026-02-25",
	},
	{
		name:         "seed-sunset.png",
		top:          color.NRGBA{R: 190, G: 155, B: 230, A: 255},
		bottom:       color.NRGBA{R: 250, G: 200, B: 120, A: 255},
		caption:      "Golden hour over the rock at Cape Manzamo.",
		locationName: "Cape Manzamo, Onna",
		lat:          26.5052,
		long:         127.8748,
		category:     "moments",
		date:         "2026-02-26",
	},
}

// Seed creates placeholder entries through the configured store so a fresh
// install has something to show. It does nothing when entries already exist.
func (s *EntryService) Seed(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Infow("database already has entries, skipping seed", "count", n)
		return 0, nil
	}

	created := 0
	for _, se := range seedEntries {
		png, err := utils.GradientPNG(se.top, se.bottom)
		if err != nil {
			return created, err
		}
		lat, long := se.lat, se.long
		_, err = s.Create(ctx, CreateInput{
			Files: []media.Upload{{
				Name: se.name,
				Size: int64(len(png)),
				Body: bytes.NewReader(png),
			}},
			Caption:      se.caption,
			LocationName: se.locationName,
			Latitude:     &lat,
			Longitude:    &long,
			Category:     se.category,
			Date:         se.date,
		})
		if err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", se.name, err)
		}
		created++
	}

	s.logger.Infow("seed complete", "entries", created)
	return created, nil
}
