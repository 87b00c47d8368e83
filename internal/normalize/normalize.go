// Package normalize maps one upstream Ticketmaster record into the
// canonical Event shape, or rejects it. Rejections are logged with the
// upstream id and never abort the surrounding batch.
package normalize

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/exebyp-rgb/celebgo/internal/model"
	"github.com/exebyp-rgb/celebgo/internal/slug"
)

// Record is the loosely structured upstream event as decoded from the
// Discovery API. Venue coordinates arrive as strings.
type Record struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Dates           Dates            `json:"dates"`
	Classifications []Classification `json:"classifications"`
	Embedded        *Embedded        `json:"_embedded"`
	Images          []Image          `json:"images"`
	URL             string           `json:"url"`
	Info            string           `json:"info"`
}

type Dates struct {
	Start    DateSpec  `json:"start"`
	End      *DateSpec `json:"end"`
	Timezone string    `json:"timezone"`
}

type DateSpec struct {
	LocalDate string `json:"localDate"`
	LocalTime string `json:"localTime"`
	DateTime  string `json:"dateTime"`
}

type Embedded struct {
	Venues      []Venue      `json:"venues"`
	Attractions []Attraction `json:"attractions"`
}

type Classification struct {
	Segment *Named `json:"segment"`
	Genre   *Named `json:"genre"`
}

type Named struct {
	Name string `json:"name"`
}

type Venue struct {
	Name     string    `json:"name"`
	Address  *Address  `json:"address"`
	City     *Named    `json:"city"`
	Country  *Country  `json:"country"`
	Location *Location `json:"location"`
}

type Address struct {
	Line1 string `json:"line1"`
}

type Country struct {
	CountryCode string `json:"countryCode"`
}

type Location struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type Attraction struct {
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

var (
	errNoVenueLocation = errors.New("missing venue or location")
	errNoCityCountry   = errors.New("missing city or country")
	errBadCoordinates  = errors.New("invalid coordinates")
)

// categoryRules is the ordered keyword table matched case-insensitively
// against the first classification's segment+genre text. First match
// wins; no classification or no match falls back to music.
var categoryRules = []struct {
	keyword  string
	category model.Category
}{
	{"music", model.CategoryMusic},
	{"festival", model.CategoryFestival},
	{"award", model.CategoryAward},
	{"film", model.CategoryFilm},
	{"fashion", model.CategoryFashion},
}

// importanceRules are evaluated in priority order against the lowered
// venue name; the first matching rule decides. Festival/award events
// are major regardless of venue and are handled before this table.
var importanceRules = []struct {
	keywords   []string
	importance model.Importance
}{
	{[]string{"stadium", "arena", "amphitheatre", "amphitheater", "festival", "bowl", "center", "centre", "palace"}, model.ImportanceMajor},
	{[]string{"club", "bar", "pub", "cafe", "lounge", "restaurant"}, model.ImportanceLocal},
}

const maxDescriptionLen = 600

// Event normalizes one upstream record. The returned error marks a
// per-record rejection; it is already logged and must not fail the
// batch. A panic while deriving fields is converted into a rejection.
func Event(rec Record) (ev model.Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("normalize panic: %v", r)
			log.Printf("event %s: %v, skipping", rec.ID, err)
		}
	}()

	var venue *Venue
	var attraction *Attraction
	if rec.Embedded != nil {
		if len(rec.Embedded.Venues) > 0 {
			venue = &rec.Embedded.Venues[0]
		}
		if len(rec.Embedded.Attractions) > 0 {
			attraction = &rec.Embedded.Attractions[0]
		}
	}
	if venue == nil || venue.Location == nil {
		log.Printf("event %s: %v, skipping", rec.ID, errNoVenueLocation)
		return model.Event{}, errNoVenueLocation
	}

	var cityName, countryCode string
	if venue.City != nil {
		cityName = venue.City.Name
	}
	if venue.Country != nil {
		countryCode = venue.Country.CountryCode
	}
	if cityName == "" || countryCode == "" {
		log.Printf("event %s: %v, skipping", rec.ID, errNoCityCountry)
		return model.Event{}, errNoCityCountry
	}

	lat, latErr := strconv.ParseFloat(venue.Location.Latitude, 64)
	lng, lngErr := strconv.ParseFloat(venue.Location.Longitude, 64)
	if latErr != nil || lngErr != nil || !isFinite(lat) || !isFinite(lng) {
		log.Printf("event %s: %v, skipping", rec.ID, errBadCoordinates)
		return model.Event{}, errBadCoordinates
	}

	artistName := artistFor(rec, attraction)
	start := startFor(rec)
	var end string
	if rec.Dates.End != nil {
		end = rec.Dates.End.DateTime
	}

	category := categoryFor(rec.Classifications)

	images := rec.Images
	if len(images) == 0 && attraction != nil {
		images = attraction.Images
	}

	var address string
	if venue.Address != nil {
		address = venue.Address.Line1
	}

	return model.Event{
		ID:            rec.ID,
		Slug:          slug.ForEvent(artistName, cityName, start, rec.ID),
		Name:          rec.Name,
		ArtistName:    artistName,
		ArtistSlug:    slug.Slugify(artistName),
		CityName:      cityName,
		CitySlug:      slug.Slugify(cityName),
		CountryCode:   countryCode,
		VenueName:     venue.Name,
		VenueAddress:  address,
		Lat:           lat,
		Lng:           lng,
		StartDateTime: start,
		EndDateTime:   end,
		Timezone:      rec.Dates.Timezone,
		Category:      category,
		Source:        "ticketmaster",
		TicketURL:     rec.URL,
		ImageURL:      bestImage(images),
		Description:   truncate(rec.Info, maxDescriptionLen),
		Importance:    importanceFor(venue.Name, category),
		Confidence:    model.ConfidenceConfirmed,
	}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// artistFor prefers the first attraction name, then the portion of the
// event name before " at ", then the full event name.
func artistFor(rec Record, attraction *Attraction) string {
	if attraction != nil && attraction.Name != "" {
		return attraction.Name
	}
	if name, _, found := strings.Cut(rec.Name, " at "); found && name != "" {
		return name
	}
	return rec.Name
}

// startFor prefers the explicit combined timestamp, else combines the
// local date with the local time, defaulting to 20:00:00.
func startFor(rec Record) string {
	if rec.Dates.Start.DateTime != "" {
		return rec.Dates.Start.DateTime
	}
	t := rec.Dates.Start.LocalTime
	if t == "" {
		t = "20:00:00"
	}
	return rec.Dates.Start.LocalDate + "T" + t
}

func categoryFor(classifications []Classification) model.Category {
	if len(classifications) == 0 {
		return model.CategoryMusic
	}
	var text strings.Builder
	if s := classifications[0].Segment; s != nil {
		text.WriteString(strings.ToLower(s.Name))
	}
	text.WriteByte(' ')
	if g := classifications[0].Genre; g != nil {
		text.WriteString(strings.ToLower(g.Name))
	}
	for _, rule := range categoryRules {
		if strings.Contains(text.String(), rule.keyword) {
			return rule.category
		}
	}
	return model.CategoryMusic
}

// bestImage picks the candidate maximizing width*height; ties keep the
// earliest. Empty when there are no candidates.
func bestImage(images []Image) string {
	best := ""
	bestArea := -1
	for _, img := range images {
		area := img.Width * img.Height
		if area > bestArea {
			best = img.URL
			bestArea = area
		}
	}
	return best
}

func importanceFor(venueName string, category model.Category) model.Importance {
	if category == model.CategoryFestival || category == model.CategoryAward {
		return model.ImportanceMajor
	}
	lower := strings.ToLower(venueName)
	for _, rule := range importanceRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.importance
			}
		}
	}
	return model.ImportanceMedium
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
