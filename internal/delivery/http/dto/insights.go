package dto

type MarketInsightsResponse struct {
	Overview MarketOverviewResponse `json:"overview"`
	Levels   []InsightLevelResponse `json:"levels"`
}

type MarketOverviewResponse struct {
	TotalJobs         int64    `json:"total_jobs"`
	AvgSalary         *float64 `json:"avg_salary"`
	TotalApplications int64    `json:"total_applications"`
}

type InsightLevelResponse struct {
	ExperienceLevel    string   `json:"experience_level"`
	AvgSalary          *float64 `json:"avg_salary"`
	JobCount           int64    `json:"job_count"`
	AvgViews           *float64 `json:"avg_views"`
	AvgApplies         *float64 `json:"avg_applies"`
	ApplicationsPerJob *float64 `json:"applications_per_job"`
}
