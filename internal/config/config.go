package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultCountries is the fixed shard list swept on every run.
var DefaultCountries = []string{
	"US", "CA", "GB", "DE", "FR", "ES", "IT", "NL", "SE", "NO", "DK", "PL", "UA",
}

// Duration decodes YAML strings like "250ms" or plain integer
// nanoseconds into a time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		var i int64
		if err2 := n.Decode(&i); err2 == nil {
			*d = Duration(i)
			return nil
		}
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type APIConfig struct {
	BaseURL string   `yaml:"base_url"` // default https://app.ticketmaster.com/discovery/v2
	Key     string   `yaml:"key"`      // or TICKETMASTER_API_KEY env
	Timeout Duration `yaml:"timeout"`  // per-request transport timeout
}

type FetchConfig struct {
	Countries     []string `yaml:"countries"`      // country shards
	DaysAhead     int      `yaml:"days_ahead"`     // future window size
	PageSize      int      `yaml:"page_size"`      // upstream max 200
	MaxPages      int      `yaml:"max_pages"`      // safety cap per shard
	MaxConcurrent int      `yaml:"max_concurrent"` // in-flight request bound
	MinInterval   Duration `yaml:"min_interval"`   // spacing between call starts
	MaxRetries    int      `yaml:"max_retries"`    // retries after first attempt
	RetryBackoff  Duration `yaml:"retry_backoff"`  // initial backoff, doubles
}

type OutputConfig struct {
	Dir string `yaml:"dir"` // snapshot directory, default "data"
}

type MetricsConfig struct {
	Enable bool   `yaml:"enable"` // dump counters to the log at end of run
	Listen string `yaml:"listen"` // optional /metrics listen address
}

type Config struct {
	API     APIConfig     `yaml:"api"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Output  OutputConfig  `yaml:"output"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// Load reads the YAML config at path and applies defaults. A missing
// file is not an error (env-only deployments run with defaults), but a
// missing API credential is: the run must fail before any network
// activity. TICKETMASTER_API_KEY overrides the file value.
func Load(path string) (Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, err
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return Config{}, err
	}

	if k := strings.TrimSpace(os.Getenv("TICKETMASTER_API_KEY")); k != "" {
		c.API.Key = k
	}
	c.applyDefaults()

	if strings.TrimSpace(c.API.Key) == "" {
		return Config{}, errors.New("ticketmaster api key not set (api.key or TICKETMASTER_API_KEY)")
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		c.API.BaseURL = "https://app.ticketmaster.com/discovery/v2"
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = Duration(15 * time.Second)
	}
	if len(c.Fetch.Countries) == 0 {
		c.Fetch.Countries = append([]string(nil), DefaultCountries...)
	}
	if c.Fetch.DaysAhead <= 0 {
		c.Fetch.DaysAhead = 30
	}
	if c.Fetch.PageSize <= 0 {
		c.Fetch.PageSize = 200
	}
	if c.Fetch.MaxPages <= 0 {
		c.Fetch.MaxPages = 50
	}
	if c.Fetch.MaxConcurrent <= 0 {
		c.Fetch.MaxConcurrent = 5
	}
	if c.Fetch.MinInterval <= 0 {
		c.Fetch.MinInterval = Duration(250 * time.Millisecond)
	}
	if c.Fetch.MaxRetries <= 0 {
		c.Fetch.MaxRetries = 3
	}
	if c.Fetch.RetryBackoff <= 0 {
		c.Fetch.RetryBackoff = Duration(time.Second)
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = "data"
	}
}
