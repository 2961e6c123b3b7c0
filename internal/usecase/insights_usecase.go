package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	"career-compass/internal/repository"
)

var ErrNoInsights = errors.New("No market data available")

type InsightItem struct {
	ExperienceLevel    string
	AvgSalary          *float64
	JobCount           int64
	AvgViews           *float64
	AvgApplies         *float64
	ApplicationsPerJob *float64
}

// InsightsOverview is the market-wide summary derived from the
// per-level records: total openings, mean of the per-level salary
// averages, and the estimated application volume.
type InsightsOverview struct {
	TotalJobs         int64
	AvgSalary         *float64
	TotalApplications int64
}

type InsightsResult struct {
	Levels   []InsightItem
	Overview InsightsOverview
}

type InsightsUsecase interface {
	MarketInsights(ctx context.Context) (InsightsResult, error)
}

type Insights struct {
	postings repository.PostingRepository
}

func NewInsightsUsecase(postings repository.PostingRepository) *Insights {
	return &Insights{postings: postings}
}

func (u *Insights) MarketInsights(ctx context.Context) (InsightsResult, error) {
	if u == nil || u.postings == nil {
		return InsightsResult{}, ErrStoreUnavailable
	}

	rows, err := u.postings.MarketInsights(ctx)
	if err != nil {
		return InsightsResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(rows) == 0 {
		return InsightsResult{}, ErrNoInsights
	}

	res := InsightsResult{Levels: make([]InsightItem, 0, len(rows))}

	var salarySum float64
	var salaryCount int64
	var applicationsTotal float64

	for _, r := range rows {
		item := InsightItem{
			ExperienceLevel: r.ExperienceLevel,
			AvgSalary:       r.AvgSalary,
			JobCount:        r.JobCount,
			AvgViews:        r.AvgViews,
			AvgApplies:      r.AvgApplies,
		}
		// Grouping guarantees JobCount >= 1, but a zero count must
		// leave the derived metric undefined, not divide by zero.
		if r.AvgApplies != nil && r.JobCount > 0 {
			v := round2(*r.AvgApplies / float64(r.JobCount))
			item.ApplicationsPerJob = &v
			applicationsTotal += *r.AvgApplies * float64(r.JobCount)
		}

		res.Overview.TotalJobs += r.JobCount
		if r.AvgSalary != nil {
			salarySum += *r.AvgSalary
			salaryCount++
		}

		res.Levels = append(res.Levels, item)
	}

	if salaryCount > 0 {
		v := round2(salarySum / float64(salaryCount))
		res.Overview.AvgSalary = &v
	}
	res.Overview.TotalApplications = int64(applicationsTotal)

	return res, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
