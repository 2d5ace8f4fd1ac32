package pos

// Record is one solution as delivered by the PoS group export.
// Title is the natural key shared with CMINE ventures.
type Record struct {
	ID              string `json:"id"`
	Language        string `json:"language,omitempty"`
	BaseURL         string `json:"base_url"`
	Title           string `json:"title"`
	GroupURI        string `json:"group_uri"`
	Type            string `json:"type,omitempty"`
	Provider        string `json:"provider"`
	SummaryShort    string `json:"summary_short,omitempty"`
	Summary         string `json:"summary"`
	InnovationStage string `json:"innovation_stage,omitempty"`
	TRL             string `json:"trl,omitempty"`
	IllustrationURI string `json:"illustration_uri,omitempty"`
	VideoURL        string `json:"video_url,omitempty"`
	// Changed is the last modification time, e.g. "2019-09-10T17:07:26+0200".
	Changed string `json:"changed"`
}
