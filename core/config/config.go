package config

import (
	"fmt"
	"reflect"
	"strings"

	"pos2cmine/core/cmine"
	"pos2cmine/core/database"
	"pos2cmine/core/httpx"
	"pos2cmine/core/logger"
	"pos2cmine/core/mapping"
	"pos2cmine/core/pos"
	"pos2cmine/core/report"
	"pos2cmine/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Pos holds the source API settings.
	Pos pos.Config `mapstructure:"pos"`
	// Cmine holds the target API settings and credentials.
	Cmine cmine.Config `mapstructure:"cmine"`
	// Mapping holds the fixed values written to every venture.
	Mapping mapping.Config `mapstructure:"mapping"`
	// HTTP holds the outgoing HTTP client settings.
	HTTP httpx.Config `mapstructure:"http"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Storage holds configuration for the object storage receiving run reports.
	Storage storage.Config `mapstructure:"storage"`
	// Database holds configuration for the optional run journal.
	Database database.Config `mapstructure:"database"`
	// Report holds configuration for the run report.
	Report report.Config `mapstructure:"report"`
}

// FlagKeys maps command line flags to configuration keys.
// A flag that was set wins over the environment and the .env file.
var FlagKeys = map[string]string{
	"pos-url":             "pos.url",
	"cmine-url":           "cmine.url",
	"cmine-email":         "cmine.email",
	"cmine-password":      "cmine.password",
	"cmine-owner":         "cmine.owner",
	"cmine-client-id":     "cmine.client_id",
	"cmine-client-secret": "cmine.client_secret",
}

// LoadConfig loads configuration from flags, environment variables and the .env file.
// flags may be nil.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. CMINE_CLIENT_ID -> cmine.client_id)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind flag --%s: %w", name, err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// MissingError lists required values that were not provided.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	hints := make([]string, 0, len(e.Keys))
	for _, key := range e.Keys {
		hints = append(hints, Hint(key))
	}
	return "missing required configuration: " + strings.Join(hints, ", ")
}

// Hint names the flag and the environment variable that set key.
func Hint(key string) string {
	env := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	for name, k := range FlagKeys {
		if k == key {
			return fmt.Sprintf("--%s (or %s)", name, env)
		}
	}
	return env
}

// Validate checks the values a sync run cannot do without.
// Keys are reported in flag order.
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"pos.url", c.Pos.URL},
		{"cmine.url", c.Cmine.URL},
		{"cmine.email", c.Cmine.Email},
		{"cmine.password", c.Cmine.Password},
		{"cmine.owner", c.Cmine.Owner},
		{"cmine.client_id", c.Cmine.ClientID},
		{"cmine.client_secret", c.Cmine.ClientSecret},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return &MissingError{Keys: missing}
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
