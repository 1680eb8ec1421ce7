package cfg

import "time"

type Cfg struct {
	// Storage configuration
	DBPath      string
	FixturesDir string

	// Application configuration
	Port         string
	FetchTimeout time.Duration
	FetchWorkers int
	APIAccessKey string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
