package cmine

// Venture is the subset of a CMINE venture needed for reconciliation.
type Venture struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"user_id"`
	HighLevelPitch string `json:"high_level_pitch"`
	// UpdatedAt is the server timestamp, e.g. "2019-09-04T12:08:09Z".
	UpdatedAt string `json:"updated_at"`
}

// User is a CMINE platform user.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// CustomizableAttribute describes an instance specific venture attribute.
type CustomizableAttribute struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// Location is a physical address attached to a venture.
type Location struct {
	Address     string `json:"address"`
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
}

// VentureFields is the writable part of a venture.
type VentureFields struct {
	HighLevelPitch         string                `json:"high_level_pitch"`
	Product                string                `json:"product"`
	CompanyName            string                `json:"company_name"`
	CompanyWebsite         string                `json:"company_website"`
	UserID                 int64                 `json:"user_id"`
	Logo                   string                `json:"logo"`
	BusinessStage          string                `json:"business_stage"`
	Locations              []Location            `json:"locations,omitempty"`
	CoverPicture           string                `json:"cover_picture,omitempty"`
	VideoHTML              string                `json:"video_html,omitempty"`
	CustomizableAttributes []map[string][]string `json:"customizable_attributes,omitempty"`
}

// VenturePayload is the request body for venture create and update.
type VenturePayload struct {
	Venture VentureFields `json:"venture"`
}

// withoutLocations returns a copy of p without locations.
// CMINE rejects location updates that lack a location id it never exposes.
func (p VenturePayload) withoutLocations() VenturePayload {
	p.Venture.Locations = nil
	return p
}

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	Scope        string `json:"scope"`
	AdminEmail   string `json:"admin_email"`
	Password     string `json:"password"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type meResponse struct {
	Admin struct {
		ID int64 `json:"id"`
	} `json:"admin"`
}

type usersResponse struct {
	Users []User `json:"users"`
}

type attributesResponse struct {
	CustomizableAttributes []CustomizableAttribute `json:"customizable_attributes"`
}

type venturesResponse struct {
	Ventures []Venture `json:"ventures"`
}
