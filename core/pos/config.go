package pos

// Config holds configuration for the PoS source API.
type Config struct {
	// URL is the base URL of the PoS site, e.g. https://pos.driver-project.eu.
	URL string `mapstructure:"url" default:""`
}
