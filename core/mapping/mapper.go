package mapping

import (
	"fmt"
	"strings"

	"pos2cmine/core/cmine"
	"pos2cmine/core/pos"
)

const (
	// BlankProduct replaces an empty summary; CMINE requires a product text.
	BlankProduct = "Blank"
	// BusinessStage is always "unknown": CMINE rejects the PoS innovation stages.
	BusinessStage = "unknown"

	videoTemplate = `<iframe class="embedly-embed" src="%s" width="854" height="480" scrolling="no" frameborder="0" allow="autoplay; fullscreen" allowfullscreen="true"></iframe>`
)

// Config holds the fixed values written to every venture.
type Config struct {
	// CompanyName is used when a solution has no provider.
	CompanyName string `mapstructure:"company_name" default:"DRIVER+"`
	// Logo is the image URL set on every venture.
	Logo string `mapstructure:"logo" default:"https://s3-eu-west-1.amazonaws.com/kit-eu-preprod/assets/networks/550/picture/-original.jpg?1567692929"`
	// Address, City and CountryCode form the single location sent on create.
	Address     string `mapstructure:"address" default:"Giefinggasse 4"`
	City        string `mapstructure:"city" default:"Vienna"`
	CountryCode string `mapstructure:"country_code" default:"AT"`
}

// Mapper turns PoS solutions into CMINE venture payloads.
type Mapper struct {
	cfg Config
	// UserID owns every mapped venture.
	UserID int64
	// TRLAttribute is the customizable attribute receiving the TRL label.
	// Empty disables the attribute.
	TRLAttribute string
}

// NewMapper creates a mapper for ventures owned by userID.
func NewMapper(cfg Config, userID int64, trlAttribute string) *Mapper {
	return &Mapper{cfg: cfg, UserID: userID, TRLAttribute: trlAttribute}
}

// Map converts one solution. The result always carries the default location;
// the CMINE client drops it on update.
func (m *Mapper) Map(rec pos.Record) cmine.VenturePayload {
	v := cmine.VentureFields{
		HighLevelPitch: rec.Title,
		Product:        orDefault(rec.Summary, BlankProduct),
		CompanyName:    orDefault(rec.Provider, m.cfg.CompanyName),
		CompanyWebsite: rec.BaseURL + rec.GroupURI,
		UserID:         m.UserID,
		Logo:           m.cfg.Logo,
		BusinessStage:  BusinessStage,
		Locations: []cmine.Location{{
			Address:     m.cfg.Address,
			City:        m.cfg.City,
			CountryCode: m.cfg.CountryCode,
		}},
	}

	if rec.IllustrationURI != "" {
		v.CoverPicture = strings.TrimSpace(rec.BaseURL + rec.IllustrationURI)
	}
	if rec.VideoURL != "" {
		v.VideoHTML = EmbedVideo(rec.VideoURL)
	}
	if m.TRLAttribute != "" && rec.TRL != "" {
		v.CustomizableAttributes = []map[string][]string{
			{m.TRLAttribute: {rec.TRL}},
		}
	}

	return cmine.VenturePayload{Venture: v}
}

// EmbedVideo wraps a video URL into the iframe CMINE renders on the venture page.
func EmbedVideo(videoURL string) string {
	return fmt.Sprintf(videoTemplate, videoURL)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
