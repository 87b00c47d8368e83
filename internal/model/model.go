package model

// Category classifies an event. Closed set; unknown upstream
// classifications fall back to CategoryMusic during normalization.
type Category string

const (
	CategoryMusic    Category = "music"
	CategoryFestival Category = "festival"
	CategoryAward    Category = "award"
	CategoryFilm     Category = "film"
	CategoryFashion  Category = "fashion"
)

// Importance is a coarse size/visibility tier derived from the venue
// name and category.
type Importance string

const (
	ImportanceMajor  Importance = "major"
	ImportanceMedium Importance = "medium"
	ImportanceLocal  Importance = "local"
)

// Confidence reflects how firm the listing is. Ticketmaster only gives
// us confirmed listings today; "scheduled" is reserved for sources that
// model provisional dates.
type Confidence string

const (
	ConfidenceConfirmed Confidence = "confirmed"
	ConfidenceScheduled Confidence = "scheduled"
)

// Event is the normalized representation for all sources. Immutable
// once written into a snapshot. Temporal fields are ISO 8601 strings as
// delivered upstream (a mix of explicit-UTC and local forms); ordering
// is lexicographic.
type Event struct {
	ID            string     `json:"id"`
	Slug          string     `json:"slug"`
	Name          string     `json:"name"`
	ArtistName    string     `json:"artistName"`
	ArtistSlug    string     `json:"artistSlug"`
	CityName      string     `json:"cityName"`
	CitySlug      string     `json:"citySlug"`
	CountryCode   string     `json:"countryCode"`
	VenueName     string     `json:"venueName"`
	VenueAddress  string     `json:"venueAddress,omitempty"`
	Lat           float64    `json:"lat"`
	Lng           float64    `json:"lng"`
	StartDateTime string     `json:"startDateTime"`
	EndDateTime   string     `json:"endDateTime,omitempty"`
	Timezone      string     `json:"timezone,omitempty"`
	Category      Category   `json:"category"`
	Source        string     `json:"source"`
	TicketURL     string     `json:"ticketUrl,omitempty"`
	ImageURL      string     `json:"imageUrl,omitempty"`
	Description   string     `json:"description,omitempty"`
	Importance    Importance `json:"importance"`
	Confidence    Confidence `json:"confidence"`
}

// City is a derived rollup keyed by citySlug. Rebuilt in full on every
// run; display fields and lat/lng come from the first observed event.
type City struct {
	Slug               string   `json:"slug"`
	Name               string   `json:"name"`
	CountryCode        string   `json:"countryCode"`
	Lat                float64  `json:"lat"`
	Lng                float64  `json:"lng"`
	EventsCount        int      `json:"eventsCount"`
	UpcomingEventSlugs []string `json:"upcomingEventSlugs"`
}

// Artist is a derived rollup keyed by artistSlug. Genres is always
// empty for now: the upstream classification has no per-artist genre
// granularity.
type Artist struct {
	Slug               string   `json:"slug"`
	Name               string   `json:"name"`
	ImageURL           string   `json:"imageUrl,omitempty"`
	Genres             []string `json:"genres"`
	EventsCount        int      `json:"eventsCount"`
	UpcomingEventSlugs []string `json:"upcomingEventSlugs"`
}

// Manifest summarizes one snapshot generation. Fully replaced each run.
type Manifest struct {
	UpdatedAt    string   `json:"updatedAt"`
	DaysAhead    int      `json:"daysAhead"`
	EventsCount  int      `json:"eventsCount"`
	CitiesCount  int      `json:"citiesCount"`
	ArtistsCount int      `json:"artistsCount"`
	Source       []string `json:"source"`
}

// GeoJSON projection of the event list. Coordinates are [lng, lat].
type GeoJSONGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type GeoJSONProperties struct {
	Slug          string     `json:"slug"`
	StartDateTime string     `json:"startDateTime"`
	Importance    Importance `json:"importance"`
	Category      Category   `json:"category"`
	ArtistName    string     `json:"artistName"`
	CityName      string     `json:"cityName"`
	VenueName     string     `json:"venueName"`
	ImageURL      string     `json:"imageUrl,omitempty"`
}

type GeoJSONFeature struct {
	Type       string            `json:"type"`
	Geometry   GeoJSONGeometry   `json:"geometry"`
	Properties GeoJSONProperties `json:"properties"`
}

type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
}
