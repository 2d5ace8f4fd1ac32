package cmine

// Config holds configuration for the CMINE target API.
type Config struct {
	// URL is the base URL of the CMINE instance.
	URL string `mapstructure:"url" default:""`
	// Email is the admin account used for the password grant.
	Email string `mapstructure:"email" default:""`
	// Password is the admin account password.
	Password string `mapstructure:"password" default:""`
	// Owner is the email of the user whose ventures are managed.
	Owner string `mapstructure:"owner" default:""`
	// ClientID is the OAuth application UID.
	ClientID string `mapstructure:"client_id" default:""`
	// ClientSecret is the OAuth application secret.
	ClientSecret string `mapstructure:"client_secret" default:""`
	// TRLPattern selects the customizable attribute holding the technology readiness level.
	TRLPattern string `mapstructure:"trl_pattern" default:"(Trl)"`
}
