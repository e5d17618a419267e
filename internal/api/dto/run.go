package dto

import "encoding/json"

type AddPointRequest struct {
	Lng *float64 `json:"lng"`
	Lat *float64 `json:"lat"`
}

type FormattedDistanceResponse struct {
	Distance string `json:"distance"`
	Units    string `json:"units"`
}

type RunResponse struct {
	State          string                    `json:"state"`
	DistanceMeters float64                   `json:"distance_meters"`
	Formatted      FormattedDistanceResponse `json:"formatted"`
	FollowRoads    bool                      `json:"follow_roads"`
	Document       json.RawMessage           `json:"document"`
}

type RemoveLastResponse struct {
	Removed string      `json:"removed"`
	Run     RunResponse `json:"run"`
}
