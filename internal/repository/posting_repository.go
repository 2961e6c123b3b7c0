package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"career-compass/internal/database"
)

var (
	// ErrNoPostings is the explicit "no data" marker for a title lookup
	// that matched nothing. Recoverable; not a store failure.
	ErrNoPostings = errors.New("no postings found")

	ErrSchemaMismatch = errors.New("posting store schema mismatch")
)

// MaxTitleGroups caps how many title groups a lookup returns.
const MaxTitleGroups = 5

// PostingDetail is one title group: a representative posting plus the
// group's salary averages.
type PostingDetail struct {
	Title           string
	Description     string
	Location        string
	CompanyName     string
	SkillsDesc      string
	ExperienceLevel string
	WorkType        string
	RemoteAllowed   string
	MinSalary       *float64
	MaxSalary       *float64
	AvgMinSalary    *float64
	AvgMaxSalary    *float64
	Views           *int64
	Applies         *int64
}

// ExperienceInsight is one per-experience-level aggregate row. Averages
// are nil when every contributing value was NULL.
type ExperienceInsight struct {
	ExperienceLevel string
	AvgSalary       *float64
	JobCount        int64
	AvgViews        *float64
	AvgApplies      *float64
}

// TrainingRow is one labeled example drawn from the store.
type TrainingRow struct {
	Title       string
	Description string
	MinSalary   *float64
	MaxSalary   *float64
}

type PostingRepository interface {
	// EnsureSchema validates the column contract once, up front, so a
	// missing column surfaces as ErrSchemaMismatch instead of a vague
	// failure deep inside a later query.
	EnsureSchema(ctx context.Context) error
	TrainingRows(ctx context.Context) ([]TrainingRow, error)
	ResolveTitle(ctx context.Context, title string) ([]PostingDetail, error)
	MarketInsights(ctx context.Context) ([]ExperienceInsight, error)
}

type SQLPostingRepository struct {
	db database.DB
}

func NewSQLPostingRepository(db database.DB) *SQLPostingRepository {
	return &SQLPostingRepository{db: db}
}

func (r *SQLPostingRepository) EnsureSchema(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("nil db")
	}

	checks := []struct {
		table string
		query string
	}{
		{"postings", `SELECT job_id, title, description, min_salary, max_salary, med_salary,
			location, company_name, skills_desc, formatted_experience_level,
			formatted_work_type, remote_allowed, views, applies
			FROM postings WHERE 1=0`},
		{"salaries", `SELECT job_id, min_salary, max_salary FROM salaries WHERE 1=0`},
	}

	for _, c := range checks {
		rows, err := r.db.Query(ctx, c.query)
		if err != nil {
			return fmt.Errorf("%w: table %s: %v", ErrSchemaMismatch, c.table, err)
		}
		rows.Close()
	}
	return nil
}

// TrainingRows loads (title, description) pairs joined with salaries,
// the dataset the classifier is trained on. Postings without a title
// are unusable as labeled examples and are skipped at the source.
func (r *SQLPostingRepository) TrainingRows(ctx context.Context) ([]TrainingRow, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("nil db")
	}

	rows, err := r.db.Query(ctx, `
		SELECT p.title, p.description, s.min_salary, s.max_salary
		FROM postings p
		LEFT JOIN salaries s ON p.job_id = s.job_id
		WHERE p.title IS NOT NULL AND p.title <> ''
		ORDER BY p.job_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TrainingRow, 0)
	for rows.Next() {
		var (
			t    TrainingRow
			desc *string
		)
		if err := rows.Scan(&t.Title, &desc, &t.MinSalary, &t.MaxSalary); err != nil {
			return nil, err
		}
		if desc != nil {
			t.Description = *desc
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveTitle finds postings whose title contains, or is contained in,
// the given title, grouped by exact stored title. Each group carries
// one representative posting (the lowest job_id) plus the group salary
// averages. The SQL LIKE is only a coarse filter: SQLite compares
// ASCII case-insensitively, so the case-sensitive containment contract
// is enforced here before grouping caps at MaxTitleGroups.
func (r *SQLPostingRepository) ResolveTitle(ctx context.Context, title string) ([]PostingDetail, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("nil db")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrNoPostings
	}

	rows, err := r.db.Query(ctx, `
		SELECT p.title,
		       p.description, p.location, p.company_name, p.skills_desc,
		       p.formatted_experience_level, p.formatted_work_type, p.remote_allowed,
		       p.min_salary, p.max_salary,
		       g.avg_min_salary, g.avg_max_salary,
		       p.views, p.applies
		FROM postings p
		JOIN (
			SELECT title, MIN(job_id) AS rep_job_id,
			       AVG(min_salary) AS avg_min_salary, AVG(max_salary) AS avg_max_salary
			FROM postings
			WHERE title LIKE '%' || $1 || '%' ESCAPE '\' OR $2 LIKE '%' || title || '%'
			GROUP BY title
		) g ON p.job_id = g.rep_job_id
		ORDER BY p.title ASC`,
		escapeLike(title), title)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PostingDetail, 0, MaxTitleGroups)
	for rows.Next() {
		var d PostingDetail
		var desc, loc, company, skills, exp, work, remote *string
		if err := rows.Scan(&d.Title, &desc, &loc, &company, &skills, &exp, &work, &remote,
			&d.MinSalary, &d.MaxSalary, &d.AvgMinSalary, &d.AvgMaxSalary, &d.Views, &d.Applies); err != nil {
			return nil, err
		}
		if !strings.Contains(d.Title, title) && !strings.Contains(title, d.Title) {
			continue
		}

		d.Description = deref(desc)
		d.Location = deref(loc)
		d.CompanyName = deref(company)
		d.SkillsDesc = deref(skills)
		d.ExperienceLevel = deref(exp)
		d.WorkType = deref(work)
		d.RemoteAllowed = deref(remote)
		d.AvgMinSalary = round2(d.AvgMinSalary)
		d.AvgMaxSalary = round2(d.AvgMaxSalary)

		out = append(out, d)
		if len(out) == MaxTitleGroups {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(out) == 0 {
		return nil, ErrNoPostings
	}
	return out, nil
}

// MarketInsights aggregates the full store by experience level. Rows
// with a NULL level are excluded outright, never grouped as "unknown";
// SQL AVG already leaves NULL salaries out of the denominator.
func (r *SQLPostingRepository) MarketInsights(ctx context.Context) ([]ExperienceInsight, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("nil db")
	}

	rows, err := r.db.Query(ctx, `
		SELECT formatted_experience_level,
		       AVG(med_salary), COUNT(*), AVG(views), AVG(applies)
		FROM postings
		WHERE formatted_experience_level IS NOT NULL
		GROUP BY formatted_experience_level`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ExperienceInsight, 0)
	for rows.Next() {
		var in ExperienceInsight
		if err := rows.Scan(&in.ExperienceLevel, &in.AvgSalary, &in.JobCount, &in.AvgViews, &in.AvgApplies); err != nil {
			return nil, err
		}
		in.AvgSalary = round2(in.AvgSalary)
		in.AvgViews = round2(in.AvgViews)
		in.AvgApplies = round2(in.AvgApplies)
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ExperienceLevel < out[j].ExperienceLevel
	})
	return out, nil
}

// escapeLike neutralizes LIKE metacharacters in a lookup title so the
// coarse SQL filter matches them literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// round2 is done Go-side because ROUND(double precision, int) is not
// portable between Postgres and SQLite.
func round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*100) / 100
	return &r
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
