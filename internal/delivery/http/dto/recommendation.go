package dto

type RecommendationRequest struct {
	Profile         string `json:"profile"`
	ExperienceLevel string `json:"experience_level"`
	Location        string `json:"location"`
	WorkType        string `json:"work_type"`
}

type RecommendationResponse struct {
	Recommendations []RecommendationItemResponse `json:"recommendations"`
	Filters         RecommendationFilters        `json:"filters"`
	Degraded        bool                         `json:"degraded"`
	DegradedReason  string                       `json:"degraded_reason,omitempty"`
}

// RecommendationFilters echoes the display-only inputs back to the
// caller; they do not influence ranking.
type RecommendationFilters struct {
	ExperienceLevel string `json:"experience_level,omitempty"`
	Location        string `json:"location,omitempty"`
	WorkType        string `json:"work_type,omitempty"`
}

type RecommendationItemResponse struct {
	Title        string                  `json:"title"`
	MatchPercent int                     `json:"match_percent"`
	DetailsFound bool                    `json:"details_found"`
	Details      []PostingDetailResponse `json:"details"`
}

type PostingDetailResponse struct {
	Title           string   `json:"title"`
	CompanyName     string   `json:"company_name"`
	Location        string   `json:"location"`
	Description     string   `json:"description"`
	SkillsDesc      string   `json:"skills_desc"`
	ExperienceLevel string   `json:"experience_level"`
	WorkType        string   `json:"work_type"`
	RemoteAllowed   string   `json:"remote_allowed"`
	MinSalary       *float64 `json:"min_salary"`
	MaxSalary       *float64 `json:"max_salary"`
	AvgMinSalary    *float64 `json:"avg_min_salary"`
	AvgMaxSalary    *float64 `json:"avg_max_salary"`
	Views           *int64   `json:"views"`
	Applies         *int64   `json:"applies"`
}
