package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"career-compass/internal/repository"
)

var (
	// ErrMissingColumns is the fatal configuration error raised when a
	// training input does not carry the required columns.
	ErrMissingColumns = errors.New("required columns missing")

	ErrNoExamples = errors.New("no labeled examples")
)

// Example is one labeled training pair: free text mapped to the job
// title (or demand class) it should predict.
type Example struct {
	Text  string
	Label string
}

// LoadFromStore pulls labeled examples out of the posting store. The
// schema contract is validated first so a missing column aborts the run
// as a configuration error rather than surfacing mid-query. Missing
// description text becomes the empty string, never a dropped row.
func LoadFromStore(ctx context.Context, repo repository.PostingRepository) ([]Example, error) {
	if repo == nil {
		return nil, fmt.Errorf("nil posting repository")
	}

	if err := repo.EnsureSchema(ctx); err != nil {
		if errors.Is(err, repository.ErrSchemaMismatch) {
			return nil, fmt.Errorf("%w: %v", ErrMissingColumns, err)
		}
		return nil, err
	}

	rows, err := repo.TrainingRows(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Example, 0, len(rows))
	for _, r := range rows {
		out = append(out, Example{Text: r.Description, Label: r.Title})
	}
	if len(out) == 0 {
		return nil, ErrNoExamples
	}
	return out, nil
}

// LoadSkillCSV reads a labeled (skill, demand) dataset. Both columns
// are required by header name; anything else in the file is ignored.
func LoadSkillCSV(path string) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	return readSkillCSV(f, path)
}

func readSkillCSV(r io.Reader, name string) ([]Example, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", name, err)
	}

	skillIdx, demandIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "skill":
			skillIdx = i
		case "demand":
			demandIdx = i
		}
	}

	var missing []string
	if skillIdx < 0 {
		missing = append(missing, "skill")
	}
	if demandIdx < 0 {
		missing = append(missing, "demand")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrMissingColumns, strings.Join(missing, ", "), name)
	}

	out := make([]Example, 0)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if skillIdx >= len(rec) || demandIdx >= len(rec) {
			continue
		}

		label := strings.TrimSpace(rec[demandIdx])
		if label == "" {
			continue
		}
		// Blank skill text stays in as an empty-string example.
		out = append(out, Example{Text: strings.TrimSpace(rec[skillIdx]), Label: label})
	}

	if len(out) == 0 {
		return nil, ErrNoExamples
	}
	return out, nil
}
