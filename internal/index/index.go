// Package index derives the City and Artist rollups and the GeoJSON
// projection from the canonical event list. Builders are pure
// functions and are re-run in full on every pipeline run.
package index

import (
	"log"
	"sort"

	"github.com/exebyp-rgb/celebgo/internal/model"
)

// byStartTime sorts slugs ascending by the referenced event's
// startDateTime using an index built once per run. A slug missing from
// the index is equal-rank and the stable sort leaves it in place.
func byStartTime(slugs []string, bySlug map[string]model.Event) {
	sort.SliceStable(slugs, func(i, j int) bool {
		a, okA := bySlug[slugs[i]]
		b, okB := bySlug[slugs[j]]
		if !okA || !okB {
			return false
		}
		return a.StartDateTime < b.StartDateTime
	})
}

func slugIndex(events []model.Event) map[string]model.Event {
	bySlug := make(map[string]model.Event, len(events))
	for _, ev := range events {
		bySlug[ev.Slug] = ev
	}
	return bySlug
}

// Cities groups events by citySlug. Display fields and lat/lng come
// from the first observed event of each city.
func Cities(events []model.Event) []model.City {
	byCity := make(map[string]*model.City)
	var order []string
	for _, ev := range events {
		c, ok := byCity[ev.CitySlug]
		if !ok {
			c = &model.City{
				Slug:        ev.CitySlug,
				Name:        ev.CityName,
				CountryCode: ev.CountryCode,
				Lat:         ev.Lat,
				Lng:         ev.Lng,
			}
			byCity[ev.CitySlug] = c
			order = append(order, ev.CitySlug)
		}
		c.EventsCount++
		c.UpcomingEventSlugs = append(c.UpcomingEventSlugs, ev.Slug)
	}

	bySlug := slugIndex(events)
	cities := make([]model.City, 0, len(order))
	for _, key := range order {
		c := byCity[key]
		byStartTime(c.UpcomingEventSlugs, bySlug)
		cities = append(cities, *c)
	}
	log.Printf("built cities index: %d cities", len(cities))
	return cities
}

// Artists groups events by artistSlug. The image comes from the first
// event carrying a non-empty one; genres stay empty until a source
// supplies that granularity.
func Artists(events []model.Event) []model.Artist {
	byArtist := make(map[string]*model.Artist)
	var order []string
	for _, ev := range events {
		a, ok := byArtist[ev.ArtistSlug]
		if !ok {
			a = &model.Artist{
				Slug:     ev.ArtistSlug,
				Name:     ev.ArtistName,
				ImageURL: ev.ImageURL,
				Genres:   []string{},
			}
			byArtist[ev.ArtistSlug] = a
			order = append(order, ev.ArtistSlug)
		}
		a.EventsCount++
		a.UpcomingEventSlugs = append(a.UpcomingEventSlugs, ev.Slug)
		if a.ImageURL == "" && ev.ImageURL != "" {
			a.ImageURL = ev.ImageURL
		}
	}

	bySlug := slugIndex(events)
	artists := make([]model.Artist, 0, len(order))
	for _, key := range order {
		a := byArtist[key]
		byStartTime(a.UpcomingEventSlugs, bySlug)
		artists = append(artists, *a)
	}
	log.Printf("built artists index: %d artists", len(artists))
	return artists
}

// GeoJSON projects the event list 1:1 into an order-preserving Point
// feature collection. Coordinates are [lng, lat].
func GeoJSON(events []model.Event) model.GeoJSONFeatureCollection {
	features := make([]model.GeoJSONFeature, 0, len(events))
	for _, ev := range events {
		features = append(features, model.GeoJSONFeature{
			Type: "Feature",
			Geometry: model.GeoJSONGeometry{
				Type:        "Point",
				Coordinates: []float64{ev.Lng, ev.Lat},
			},
			Properties: model.GeoJSONProperties{
				Slug:          ev.Slug,
				StartDateTime: ev.StartDateTime,
				Importance:    ev.Importance,
				Category:      ev.Category,
				ArtistName:    ev.ArtistName,
				CityName:      ev.CityName,
				VenueName:     ev.VenueName,
				ImageURL:      ev.ImageURL,
			},
		})
	}
	log.Printf("built geojson with %d features", len(features))
	return model.GeoJSONFeatureCollection{Type: "FeatureCollection", Features: features}
}
