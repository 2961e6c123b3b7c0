package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"career-compass/internal/model"
	"career-compass/internal/repository"
)

type mockPostingRepo struct {
	rows      []repository.TrainingRow
	schemaErr error
	rowsErr   error
}

func (m mockPostingRepo) EnsureSchema(context.Context) error { return m.schemaErr }
func (m mockPostingRepo) TrainingRows(context.Context) ([]repository.TrainingRow, error) {
	return m.rows, m.rowsErr
}
func (m mockPostingRepo) ResolveTitle(context.Context, string) ([]repository.PostingDetail, error) {
	return nil, repository.ErrNoPostings
}
func (m mockPostingRepo) MarketInsights(context.Context) ([]repository.ExperienceInsight, error) {
	return nil, nil
}

func TestLoadFromStore_SchemaMismatchIsConfigurationError(t *testing.T) {
	repo := mockPostingRepo{schemaErr: repository.ErrSchemaMismatch}
	_, err := LoadFromStore(context.Background(), repo)
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
}

func TestLoadFromStore_BlankFillsMissingText(t *testing.T) {
	repo := mockPostingRepo{rows: []repository.TrainingRow{
		{Title: "Software Engineer", Description: "python web"},
		{Title: "Data Analyst"},
	}}
	examples, err := LoadFromStore(context.Background(), repo)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(examples) != 2 {
		t.Fatalf("expected 2 examples, got %d", len(examples))
	}
	if examples[1].Text != "" {
		t.Fatalf("expected empty text, got %q", examples[1].Text)
	}
	if examples[1].Label != "Data Analyst" {
		t.Fatalf("unexpected label %q", examples[1].Label)
	}
}

func TestReadSkillCSV_MissingColumns(t *testing.T) {
	in := strings.NewReader("skill,level\npython,high\n")
	_, err := readSkillCSV(in, "skill_data.csv")
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
	if !strings.Contains(err.Error(), "demand") {
		t.Fatalf("expected offending column in error, got %v", err)
	}
}

func TestReadSkillCSV_ReadsLabeledPairs(t *testing.T) {
	in := strings.NewReader("skill,demand,extra\npython backend,High,x\n,Low,y\nsql,,z\n")
	examples, err := readSkillCSV(in, "skill_data.csv")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// Blank skill is kept as an empty-text example; blank demand is not
	// a usable label and the row is dropped.
	if len(examples) != 2 {
		t.Fatalf("expected 2 examples, got %+v", examples)
	}
	if examples[0].Text != "python backend" || examples[0].Label != "High" {
		t.Fatalf("unexpected first example %+v", examples[0])
	}
	if examples[1].Text != "" || examples[1].Label != "Low" {
		t.Fatalf("unexpected second example %+v", examples[1])
	}
}

func trainerForTest(t *testing.T) *Trainer {
	t.Helper()
	return &Trainer{
		NumTrees:  10,
		Seed:      42,
		Stratify:  true,
		Artifacts: model.NewStore(t.TempDir()),
	}
}

func TestTrainer_StratifiedNeedsTwoPerLabel(t *testing.T) {
	tr := trainerForTest(t)
	_, err := tr.Train(context.Background(), []Example{
		{Text: "python developer 2 years web", Label: "Software Engineer"},
		{Text: "sql analysis reporting dashboards", Label: "Data Analyst"},
		{Text: "python developer 2 years web", Label: "Software Engineer"},
	})
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if !strings.Contains(err.Error(), "Data Analyst") {
		t.Fatalf("expected offending label in error, got %v", err)
	}
}

func TestTrainer_NoExamples(t *testing.T) {
	tr := trainerForTest(t)
	if _, err := tr.Train(context.Background(), nil); !errors.Is(err, ErrNoExamples) {
		t.Fatalf("expected ErrNoExamples, got %v", err)
	}
}

func TestTrainer_TrainPersistsLoadableArtifacts(t *testing.T) {
	dir := t.TempDir()
	tr := &Trainer{
		NumTrees:  10,
		Seed:      42,
		Stratify:  true,
		Artifacts: model.NewStore(dir),
	}

	res, err := tr.Train(context.Background(), []Example{
		{Text: "python developer web services", Label: "Software Engineer"},
		{Text: "python backend api development", Label: "Software Engineer"},
		{Text: "sql analysis reporting dashboards", Label: "Data Analyst"},
		{Text: "data analysis sql queries", Label: "Data Analyst"},
	})
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if res.Version == "" {
		t.Fatalf("expected a version")
	}
	if res.Labels != 2 {
		t.Fatalf("expected 2 labels, got %d", res.Labels)
	}
	if res.TrainCount+res.HeldOutCount != 4 {
		t.Fatalf("split lost examples: train=%d held_out=%d", res.TrainCount, res.HeldOutCount)
	}

	reg, err := model.LoadRegistry(dir)
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	vecVersion, clfVersion := reg.Versions()
	if vecVersion != res.Version || clfVersion != res.Version {
		t.Fatalf("artifact versions diverge: %q, %q, want %q", vecVersion, clfVersion, res.Version)
	}

	vec, err := reg.Vectorizer().TransformOne("python web developer")
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	probs, err := reg.Classifier().PredictProba(vec)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if probs["Software Engineer"] <= probs["Data Analyst"] {
		t.Fatalf("expected Software Engineer above Data Analyst, got %v", probs)
	}
}

func TestTrainer_RetrainOverwritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	tr := &Trainer{NumTrees: 5, Seed: 42, Artifacts: model.NewStore(dir)}

	first, err := tr.Train(context.Background(), []Example{
		{Text: "python developer", Label: "Software Engineer"},
		{Text: "sql dashboards", Label: "Data Analyst"},
		{Text: "python services", Label: "Software Engineer"},
		{Text: "sql reporting", Label: "Data Analyst"},
	})
	if err != nil {
		t.Fatalf("first train: %v", err)
	}

	second, err := tr.Train(context.Background(), []Example{
		{Text: "kubernetes clusters", Label: "DevOps Engineer"},
		{Text: "terraform pipelines", Label: "DevOps Engineer"},
		{Text: "sql dashboards", Label: "Data Analyst"},
		{Text: "sql reporting", Label: "Data Analyst"},
	})
	if err != nil {
		t.Fatalf("second train: %v", err)
	}
	if first.Version == second.Version {
		t.Fatalf("retrain reused version %q", first.Version)
	}

	reg, err := model.LoadRegistry(dir)
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	vecVersion, _ := reg.Versions()
	if vecVersion != second.Version {
		t.Fatalf("expected latest artifacts, got %q", vecVersion)
	}
}

func TestSplit_StratifiedKeepsEveryLabelInTraining(t *testing.T) {
	labels := []string{"A", "A", "A", "A", "A", "B", "B", "B", "B", "B"}
	train, test, err := split(labels, 0.2, 42, true)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(train)+len(test) != len(labels) {
		t.Fatalf("split lost indexes: %d + %d != %d", len(train), len(test), len(labels))
	}

	counts := map[string]int{}
	for _, i := range train {
		counts[labels[i]]++
	}
	if counts["A"] == 0 || counts["B"] == 0 {
		t.Fatalf("a label vanished from the training partition: %v", counts)
	}
	if len(test) != 2 {
		t.Fatalf("expected 1 held-out per label, got %d", len(test))
	}
}

func TestSplit_SameSeedSamePartition(t *testing.T) {
	labels := []string{"A", "B", "A", "B", "A", "B", "A", "B"}
	train1, test1, err := split(labels, 0.25, 7, true)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	train2, test2, err := split(labels, 0.25, 7, true)
	if err != nil {
		t.Fatalf("split: %v", err)
	}

	if len(train1) != len(train2) || len(test1) != len(test2) {
		t.Fatalf("partition sizes differ across runs")
	}
	for i := range train1 {
		if train1[i] != train2[i] {
			t.Fatalf("training partition differs across runs")
		}
	}
	for i := range test1 {
		if test1[i] != test2[i] {
			t.Fatalf("held-out partition differs across runs")
		}
	}
}
