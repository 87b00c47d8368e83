// Package sink persists one snapshot generation as static JSON
// artifacts. Every artifact is a full replacement of its predecessor.
// Each file is written to a temp path and renamed into place, which
// narrows but does not close the cross-artifact atomicity window.
package sink

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/exebyp-rgb/celebgo/internal/model"
)

const (
	eventsFile   = "events.json"
	geojsonFile  = "events.geojson"
	citiesFile   = "cities.json"
	artistsFile  = "artists.json"
	manifestFile = "manifest.json"
)

// Files writes snapshot artifacts into a directory.
type Files struct {
	Dir string
}

func NewFiles(dir string) *Files { return &Files{Dir: dir} }

// WriteSnapshot persists all artifacts of one generation.
func (f *Files) WriteSnapshot(events []model.Event, geo model.GeoJSONFeatureCollection, cities []model.City, artists []model.Artist, manifest model.Manifest) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", f.Dir, err)
	}
	steps := []struct {
		name string
		v    any
		n    int
	}{
		{eventsFile, events, len(events)},
		{geojsonFile, geo, len(geo.Features)},
		{citiesFile, cities, len(cities)},
		{artistsFile, artists, len(artists)},
		{manifestFile, manifest, 1},
	}
	for _, st := range steps {
		if err := f.writeJSON(st.name, st.v); err != nil {
			return err
		}
		log.Printf("wrote %d record(s) to %s", st.n, filepath.Join(f.Dir, st.name))
	}
	return nil
}

func (f *Files) writeJSON(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(f.Dir, name+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(f.Dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// ReadEvents loads the canonical event list from a prior snapshot.
// A missing file is an empty list, not an error.
func (f *Files) ReadEvents() ([]model.Event, error) {
	b, err := os.ReadFile(filepath.Join(f.Dir, eventsFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var events []model.Event
	if err := json.Unmarshal(b, &events); err != nil {
		return nil, fmt.Errorf("decode %s: %w", eventsFile, err)
	}
	return events, nil
}
