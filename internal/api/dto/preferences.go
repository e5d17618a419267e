package dto

type FocusBody struct {
	Lng  float64 `json:"lng"`
	Lat  float64 `json:"lat"`
	Zoom float64 `json:"zoom"`
}

type PreferencesResponse struct {
	FollowRoads         bool      `json:"follow_roads"`
	UseMetric           bool      `json:"use_metric"`
	MapStyle            string    `json:"map_style"`
	Focus               FocusBody `json:"focus"`
	HasAcknowledgedHelp bool      `json:"has_acknowledged_help"`
}

// Absent fields are left unchanged.
type UpdatePreferencesRequest struct {
	FollowRoads         *bool      `json:"follow_roads"`
	UseMetric           *bool      `json:"use_metric"`
	MapStyle            *string    `json:"map_style"`
	Focus               *FocusBody `json:"focus"`
	HasAcknowledgedHelp *bool      `json:"has_acknowledged_help"`
}
