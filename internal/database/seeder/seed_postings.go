package seeder

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"career-compass/internal/database"
)

type PostingsSeeder struct{}

func (PostingsSeeder) Name() string { return "postings" }

// Run loads a small labeled sample into an empty store so training and
// title lookups work out of the box. A store that already has postings
// is left untouched.
func (PostingsSeeder) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}

	row := db.QueryRow(ctx, `SELECT COUNT(*) FROM postings`)
	var count int64
	if err := row.Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := []struct {
		Title       string
		Description string
		MinSalary   float64
		MaxSalary   float64
		MedSalary   float64
		Location    string
		Company     string
		Skills      string
		Experience  string
		WorkType    string
		Views       int64
		Applies     int64
	}{
		{"Software Engineer", "Build and ship backend services in Go and Python, design REST APIs, own deployments.", 95000, 140000, 117500, "Austin, TX", "Nimbus Labs", "Go, Python, PostgreSQL, Docker", "Mid-Senior level", "Full-time", 430, 38},
		{"Software Engineer", "Develop web applications, write unit tests, review code, collaborate with product.", 90000, 130000, 110000, "Remote", "Brightline", "JavaScript, TypeScript, React", "Mid-Senior level", "Full-time", 510, 45},
		{"Senior Software Engineer", "Lead service architecture, mentor engineers, drive reliability and performance work.", 140000, 185000, 162500, "Seattle, WA", "Cascade Systems", "Go, Kubernetes, AWS", "Senior", "Full-time", 620, 52},
		{"Data Analyst", "Write SQL to build dashboards and reports, analyze product metrics, present findings.", 65000, 90000, 77500, "Chicago, IL", "Lakeview Analytics", "SQL, Excel, Tableau", "Entry level", "Full-time", 350, 61},
		{"Data Analyst", "Query warehouses, clean datasets, automate weekly reporting for operations teams.", 60000, 85000, 72500, "Remote", "Fieldstone", "SQL, Python, Looker", "Entry level", "Full-time", 290, 48},
		{"Data Scientist", "Build statistical models and machine learning pipelines on customer behavior data.", 110000, 155000, 132500, "New York, NY", "Harborview", "Python, scikit-learn, SQL", "Mid-Senior level", "Full-time", 480, 40},
		{"Product Manager", "Own the roadmap, gather requirements from stakeholders, prioritize the backlog.", 105000, 150000, 127500, "San Francisco, CA", "Nimbus Labs", "Roadmapping, Analytics, Agile", "Mid-Senior level", "Full-time", 540, 55},
		{"Product Manager", "Define product strategy, run discovery interviews, coordinate launches with marketing.", 100000, 145000, 122500, "Boston, MA", "Brightline", "Strategy, User Research", "Mid-Senior level", "Full-time", 410, 37},
		{"Marketing Intern", "Support campaign planning, draft social content, track engagement metrics.", 35000, 45000, 40000, "Denver, CO", "Fieldstone", "Social Media, Copywriting", "Internship", "Internship", 150, 72},
	}

	for _, it := range items {
		id := uuid.NewString()
		if _, err := db.Exec(ctx, `
			INSERT INTO postings (job_id, title, description, min_salary, max_salary, med_salary,
				location, company_name, skills_desc, formatted_experience_level,
				formatted_work_type, remote_allowed, views, applies)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			id, it.Title, it.Description, it.MinSalary, it.MaxSalary, it.MedSalary,
			it.Location, it.Company, it.Skills, it.Experience,
			it.WorkType, "true", it.Views, it.Applies,
		); err != nil {
			return err
		}
		if _, err := db.Exec(ctx, `
			INSERT INTO salaries (job_id, min_salary, max_salary) VALUES ($1, $2, $3)`,
			id, it.MinSalary, it.MaxSalary,
		); err != nil {
			return err
		}
	}
	return nil
}
