package normalize

import (
	"strings"
	"testing"

	"github.com/exebyp-rgb/celebgo/internal/model"
)

func validRecord() Record {
	rec := Record{
		ID:   "G5vYZ9K8TkPax",
		Name: "Taylor Swift at Madison Square Garden",
	}
	rec.Dates.Start.DateTime = "2026-09-15T00:00:00Z"
	rec.Dates.Start.LocalDate = "2026-09-14"
	rec.Dates.Timezone = "America/New_York"
	rec.Embedded = &Embedded{
		Venues: []Venue{{
			Name:     "Madison Square Garden",
			Address:  &Address{Line1: "4 Pennsylvania Plaza"},
			City:     &Named{Name: "New York"},
			Country:  &Country{CountryCode: "US"},
			Location: &Location{Latitude: "40.7505", Longitude: "-73.9934"},
		}},
		Attractions: []Attraction{{Name: "Taylor Swift"}},
	}
	rec.URL = "https://tickets.example.com/123"
	return rec
}

func TestEventValidRecord(t *testing.T) {
	ev, err := Event(validRecord())
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if ev.ArtistName != "Taylor Swift" {
		t.Errorf("ArtistName = %q", ev.ArtistName)
	}
	if ev.ArtistSlug != "taylor-swift" || ev.CitySlug != "new-york" {
		t.Errorf("slugs = %q / %q", ev.ArtistSlug, ev.CitySlug)
	}
	if ev.Slug != "taylor-swift-new-york-2026-09-15-8TkPax" {
		t.Errorf("Slug = %q", ev.Slug)
	}
	if ev.Lat != 40.7505 || ev.Lng != -73.9934 {
		t.Errorf("coords = %v, %v", ev.Lat, ev.Lng)
	}
	if ev.Category != model.CategoryMusic {
		t.Errorf("Category = %q", ev.Category)
	}
	if ev.Confidence != model.ConfidenceConfirmed {
		t.Errorf("Confidence = %q", ev.Confidence)
	}
	if ev.Source != "ticketmaster" {
		t.Errorf("Source = %q", ev.Source)
	}
	if ev.VenueAddress != "4 Pennsylvania Plaza" {
		t.Errorf("VenueAddress = %q", ev.VenueAddress)
	}
	if ev.EndDateTime != "" {
		t.Errorf("EndDateTime = %q, want empty without explicit end", ev.EndDateTime)
	}
}

func TestEventRejections(t *testing.T) {
	noVenue := validRecord()
	noVenue.Embedded = nil

	noLocation := validRecord()
	noLocation.Embedded.Venues[0].Location = nil

	noCity := validRecord()
	noCity.Embedded.Venues[0].City = nil

	noCountry := validRecord()
	noCountry.Embedded.Venues[0].Country = nil

	badLat := validRecord()
	badLat.Embedded.Venues[0].Location.Latitude = "not-a-number"

	cases := []struct {
		name string
		rec  Record
	}{
		{"no venue", noVenue},
		{"no location", noLocation},
		{"no city", noCity},
		{"no country", noCountry},
		{"unparseable latitude", badLat},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Event(c.rec); err == nil {
				t.Errorf("expected rejection")
			}
		})
	}
}

// Out-of-range but parseable coordinates pass: only non-finite values
// are rejected. Tightening this is a tracked follow-up, not a bug.
func TestEventOutOfRangeCoordinatesAccepted(t *testing.T) {
	rec := validRecord()
	rec.Embedded.Venues[0].Location.Latitude = "91"
	rec.Embedded.Venues[0].Location.Longitude = "200"
	ev, err := Event(rec)
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if ev.Lat != 91 || ev.Lng != 200 {
		t.Errorf("coords = %v, %v", ev.Lat, ev.Lng)
	}
}

func TestEventNonFiniteCoordinatesRejected(t *testing.T) {
	rec := validRecord()
	rec.Embedded.Venues[0].Location.Latitude = "Inf"
	if _, err := Event(rec); err == nil {
		t.Errorf("expected rejection for infinite latitude")
	}
}

func TestArtistNameFallbacks(t *testing.T) {
	rec := validRecord()
	rec.Embedded.Attractions = nil
	ev, err := Event(rec)
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if ev.ArtistName != "Taylor Swift" {
		t.Errorf("ArtistName from name split = %q", ev.ArtistName)
	}

	rec.Name = "Some Standalone Show"
	ev, err = Event(rec)
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if ev.ArtistName != "Some Standalone Show" {
		t.Errorf("ArtistName full fallback = %q", ev.ArtistName)
	}
}

func TestStartDateTimeFallbacks(t *testing.T) {
	rec := validRecord()
	rec.Dates.Start.DateTime = ""
	rec.Dates.Start.LocalDate = "2026-09-14"
	rec.Dates.Start.LocalTime = "19:30:00"
	ev, err := Event(rec)
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if ev.StartDateTime != "2026-09-14T19:30:00" {
		t.Errorf("StartDateTime = %q", ev.StartDateTime)
	}

	rec.Dates.Start.LocalTime = ""
	ev, err = Event(rec)
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if ev.StartDateTime != "2026-09-14T20:00:00" {
		t.Errorf("StartDateTime default time = %q", ev.StartDateTime)
	}
}

func TestEndDateTimeOnlyExplicit(t *testing.T) {
	rec := validRecord()
	rec.Dates.End = &DateSpec{LocalDate: "2026-09-16"}
	ev, err := Event(rec)
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if ev.EndDateTime != "" {
		t.Errorf("EndDateTime inferred from local date: %q", ev.EndDateTime)
	}

	rec.Dates.End = &DateSpec{DateTime: "2026-09-16T02:00:00Z"}
	ev, err = Event(rec)
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if ev.EndDateTime != "2026-09-16T02:00:00Z" {
		t.Errorf("EndDateTime = %q", ev.EndDateTime)
	}
}

func TestCategoryFor(t *testing.T) {
	cases := []struct {
		segment, genre string
		want           model.Category
	}{
		{"Music", "Rock", model.CategoryMusic},
		{"Arts & Theatre", "Festival", model.CategoryFestival},
		{"Film", "", model.CategoryFilm},
		{"Miscellaneous", "Award Show", model.CategoryAward},
		{"Miscellaneous", "Fashion", model.CategoryFashion},
		{"Sports", "Basketball", model.CategoryMusic}, // no match -> default
	}
	for _, c := range cases {
		var cl Classification
		if c.segment != "" {
			cl.Segment = &Named{Name: c.segment}
		}
		if c.genre != "" {
			cl.Genre = &Named{Name: c.genre}
		}
		if got := categoryFor([]Classification{cl}); got != c.want {
			t.Errorf("categoryFor(%q, %q) = %q, want %q", c.segment, c.genre, got, c.want)
		}
	}
	if got := categoryFor(nil); got != model.CategoryMusic {
		t.Errorf("categoryFor(nil) = %q", got)
	}
}

func TestImportanceFor(t *testing.T) {
	cases := []struct {
		venue    string
		category model.Category
		want     model.Importance
	}{
		{"Madison Square Garden Arena", model.CategoryMusic, model.ImportanceMajor},
		{"The Blue Note Jazz Club", model.CategoryMusic, model.ImportanceLocal},
		{"Community Hall", model.CategoryMusic, model.ImportanceMedium},
		{"Community Hall", model.CategoryFestival, model.ImportanceMajor},
		{"Tiny Shack", model.CategoryAward, model.ImportanceMajor},
		{"Hollywood Bowl", model.CategoryMusic, model.ImportanceMajor},
		{"Corner Cafe", model.CategoryMusic, model.ImportanceLocal},
	}
	for _, c := range cases {
		if got := importanceFor(c.venue, c.category); got != c.want {
			t.Errorf("importanceFor(%q, %q) = %q, want %q", c.venue, c.category, got, c.want)
		}
	}
}

func TestBestImage(t *testing.T) {
	images := []Image{
		{URL: "small", Width: 100, Height: 56},
		{URL: "big", Width: 1024, Height: 576},
		{URL: "big-twin", Width: 1024, Height: 576},
		{URL: "medium", Width: 640, Height: 360},
	}
	if got := bestImage(images); got != "big" {
		t.Errorf("bestImage = %q, want first of the largest", got)
	}
	if got := bestImage(nil); got != "" {
		t.Errorf("bestImage(nil) = %q", got)
	}
}

func TestAttractionImageFallback(t *testing.T) {
	rec := validRecord()
	rec.Images = nil
	rec.Embedded.Attractions[0].Images = []Image{{URL: "from-attraction", Width: 10, Height: 10}}
	ev, err := Event(rec)
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if ev.ImageURL != "from-attraction" {
		t.Errorf("ImageURL = %q", ev.ImageURL)
	}
}

func TestDescriptionTruncated(t *testing.T) {
	rec := validRecord()
	rec.Info = strings.Repeat("x", 1000)
	ev, err := Event(rec)
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if len(ev.Description) != 600 {
		t.Errorf("Description length = %d, want 600", len(ev.Description))
	}
}
