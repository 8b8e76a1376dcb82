package dashboard

import (
	"context"
	"reflect"
	"testing"
	"time"

	"roadmap-service/internal/model"
	"roadmap-service/internal/repository"

	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func datePtr(year int, month time.Month, day int) *model.Date {
	d := model.DateOf(year, month, day)
	return &d
}

func goalWithProgress(id, progress int) model.Goal {
	return model.Goal{
		ID:       id,
		Type:     "feature",
		Title:    "goal",
		Year:     2026,
		Progress: progress,
	}
}

// ---------------------------------------------------------------------------
// buildSummary
// ---------------------------------------------------------------------------

func TestBuildSummary_OverallProgressIsMean(t *testing.T) {
	goals := []model.Goal{
		goalWithProgress(1, 40),
		goalWithProgress(2, 60),
	}

	s := buildSummary(goals)

	if s.TotalGoals != 2 {
		t.Errorf("expected 2 goals, got %d", s.TotalGoals)
	}
	if s.OverallProgress != 50 {
		t.Errorf("expected overall progress 50, got %v", s.OverallProgress)
	}
}

func TestBuildSummary_EmptySetHasZeroProgress(t *testing.T) {
	s := buildSummary(nil)

	if s.TotalGoals != 0 || s.TotalMilestones != 0 || s.TotalTasks != 0 {
		t.Errorf("expected zero totals, got %+v", s)
	}
	if s.OverallProgress != 0 {
		t.Errorf("expected overall progress 0 on empty set, got %v", s.OverallProgress)
	}
}

func TestBuildSummary_ByTypeAlwaysHasFixedKeys(t *testing.T) {
	s := buildSummary([]model.Goal{
		{ID: 1, Type: "feature", Year: 2026, Progress: 80},
	})

	for _, key := range []string{"issue", "feature", "feedback"} {
		if _, ok := s.ByType[key]; !ok {
			t.Errorf("expected by_type to contain %q", key)
		}
	}
	if len(s.ByType) != 3 {
		t.Errorf("expected exactly 3 by_type keys, got %d", len(s.ByType))
	}
	if s.ByType["feature"].Count != 1 || s.ByType["feature"].Progress != 80 {
		t.Errorf("unexpected feature bucket: %+v", s.ByType["feature"])
	}
	if s.ByType["issue"].Count != 0 || s.ByType["issue"].Progress != 0 {
		t.Errorf("empty bucket should stay zeroed: %+v", s.ByType["issue"])
	}
}

func TestBuildSummary_BucketProgressIsMeanPerBucket(t *testing.T) {
	goals := []model.Goal{
		{ID: 1, Type: "issue", Team: strPtr("Core"), Progress: 20},
		{ID: 2, Type: "issue", Team: strPtr("Core"), Progress: 40},
		{ID: 3, Type: "feature", Progress: 90},
	}

	s := buildSummary(goals)

	if got := s.ByType["issue"]; got.Count != 2 || got.Progress != 30 {
		t.Errorf("issue bucket: expected count 2 progress 30, got %+v", got)
	}
	if got := s.ByTeam["Core"]; got.Count != 2 || got.Progress != 30 {
		t.Errorf("Core bucket: expected count 2 progress 30, got %+v", got)
	}
	if got := s.ByTeam["Unassigned"]; got.Count != 1 || got.Progress != 90 {
		t.Errorf("Unassigned bucket: expected count 1 progress 90, got %+v", got)
	}
}

func TestBuildSummary_ChildTotalsAreDerivedFromGoals(t *testing.T) {
	goals := []model.Goal{
		{
			ID: 1, Type: "feature", Progress: 10,
			Milestones: []model.Milestone{
				{ID: 1, Tasks: []model.Task{{ID: 1}, {ID: 2}}},
				{ID: 2, Tasks: []model.Task{{ID: 3}}},
			},
		},
		{
			ID: 2, Type: "issue", Progress: 20,
			Milestones: []model.Milestone{
				{ID: 3, Tasks: []model.Task{}},
			},
		},
	}

	s := buildSummary(goals)

	if s.TotalMilestones != 3 {
		t.Errorf("expected 3 milestones, got %d", s.TotalMilestones)
	}
	if s.TotalTasks != 3 {
		t.Errorf("expected 3 tasks, got %d", s.TotalTasks)
	}
}

// ---------------------------------------------------------------------------
// mergeYears
// ---------------------------------------------------------------------------

func TestMergeYears_UnionSortedDescending(t *testing.T) {
	years := mergeYears([]int{2025, 2026}, []int{2024, 2026}, []int{2025})

	want := []int{2026, 2025, 2024}
	if !reflect.DeepEqual(years, want) {
		t.Errorf("expected %v, got %v", want, years)
	}
}

func TestMergeYears_EmptyFallsBackToDefault(t *testing.T) {
	years := mergeYears(nil, nil, nil)

	if !reflect.DeepEqual(years, []int{2026}) {
		t.Errorf("expected fallback [2026], got %v", years)
	}
}

// ---------------------------------------------------------------------------
// buildGanttRows
// ---------------------------------------------------------------------------

func TestBuildGanttRows_PreOrderWithDependencies(t *testing.T) {
	goals := []model.Goal{
		{
			ID: 1, Type: "feature", Title: "Launch", Progress: 50,
			StartDate: datePtr(2026, time.January, 1),
			EndDate:   datePtr(2026, time.June, 30),
			Milestones: []model.Milestone{
				{
					ID: 5, Title: "Beta", Progress: 70,
					StartDate: datePtr(2026, time.February, 1),
					DueDate:   datePtr(2026, time.March, 31),
					Tasks: []model.Task{
						{ID: 9, Title: "Ship it", Progress: 90,
							DueDate: datePtr(2026, time.March, 15)},
					},
				},
			},
		},
	}

	rows := buildGanttRows(goals)

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	if rows[0].ID != "goal-1" || rows[1].ID != "milestone-5" || rows[2].ID != "task-9" {
		t.Errorf("unexpected row order: %s, %s, %s", rows[0].ID, rows[1].ID, rows[2].ID)
	}
	if rows[0].Dependencies != "" {
		t.Errorf("goal row should have no dependencies, got %q", rows[0].Dependencies)
	}
	if rows[1].Dependencies != "goal-1" {
		t.Errorf("milestone should depend on goal-1, got %q", rows[1].Dependencies)
	}
	if rows[2].Dependencies != "milestone-5" {
		t.Errorf("task should depend on milestone-5, got %q", rows[2].Dependencies)
	}

	if rows[0].GoalType != "feature" {
		t.Errorf("expected goal row to carry goal type, got %q", rows[0].GoalType)
	}
	if rows[1].Name != "  Beta" {
		t.Errorf("milestone name should be indented two spaces, got %q", rows[1].Name)
	}
	if rows[2].Name != "    Ship it" {
		t.Errorf("task name should be indented four spaces, got %q", rows[2].Name)
	}

	if rows[0].Start == nil || *rows[0].Start != "2026-01-01" {
		t.Errorf("expected ISO start date, got %v", rows[0].Start)
	}
	if rows[2].Start != nil {
		t.Errorf("unset start should be nil, got %v", rows[2].Start)
	}
	if rows[2].End == nil || *rows[2].End != "2026-03-15" {
		t.Errorf("expected task end 2026-03-15, got %v", rows[2].End)
	}
}

func TestBuildGanttRows_EmptyGoalsYieldNoRows(t *testing.T) {
	rows := buildGanttRows(nil)
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

// ---------------------------------------------------------------------------
// buildMemberSummary
// ---------------------------------------------------------------------------

func memberFixture(id int, name, role, typ string) model.Member {
	return model.Member{ID: id, Name: name, Role: role, Type: typ, Year: 2026}
}

func TestBuildMemberSummary_CountsAndRoles(t *testing.T) {
	members := []model.Member{
		memberFixture(1, "Ann", "Developer", "existing"),
		memberFixture(2, "Ben", "Developer", "new"),
		memberFixture(3, "Cleo", "PM", "existing"),
		{ID: 4, Name: "Dee", Type: "new", Year: 2026}, // no role
	}

	s := buildMemberSummary(members, nil)

	if s.Total != 4 || s.Existing != 2 || s.New != 2 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if got := s.ByRole["Developer"]; got.Total != 2 || got.Existing != 1 || got.New != 1 {
		t.Errorf("Developer bucket: %+v", got)
	}
	if got := s.ByRole["Other"]; got.Total != 1 || got.New != 1 {
		t.Errorf("members without a role should land in Other: %+v", got)
	}
}

func TestBuildMemberSummary_ProductDerivedFromTaskAssignment(t *testing.T) {
	ann := memberFixture(1, "Ann", "Developer", "existing")
	ben := memberFixture(2, "Ben", "QA", "new")
	members := []model.Member{ann, ben}

	goals := []model.Goal{
		{
			ID: 1, Type: "feature", Product: strPtr("Payments"), Year: 2026,
			Milestones: []model.Milestone{
				{
					ID: 1,
					Tasks: []model.Task{
						{ID: 1, Assignee: &ann},
						{ID: 2, Assignee: &ann}, // second assignment, same product
					},
				},
			},
		},
		{
			ID: 2, Type: "issue", Year: 2026, // no product
			Milestones: []model.Milestone{
				{ID: 2, Tasks: []model.Task{{ID: 3, Assignee: &ann}}},
			},
		},
	}

	s := buildMemberSummary(members, goals)

	payments := s.ByProduct["Payments"]
	if payments.Count != 1 || len(payments.Members) != 1 {
		t.Errorf("Ann should appear once under Payments despite two tasks: %+v", payments)
	}
	if payments.Members[0].Name != "Ann" {
		t.Errorf("expected Ann in Payments, got %+v", payments.Members[0])
	}

	unassignedProduct := s.ByProduct["Unassigned"]
	if unassignedProduct.Count != 1 {
		t.Errorf("goal without product should bucket as Unassigned: %+v", unassignedProduct)
	}

	if s.Unassigned.Count != 1 || s.Unassigned.Members[0].Name != "Ben" {
		t.Errorf("Ben has no assignment and should be unassigned: %+v", s.Unassigned)
	}
}

func TestBuildMemberSummary_NoGoalsMeansEveryoneUnassigned(t *testing.T) {
	members := []model.Member{
		memberFixture(1, "Ann", "Developer", "existing"),
		memberFixture(2, "Ben", "QA", "new"),
	}

	s := buildMemberSummary(members, nil)

	if s.Unassigned.Count != 2 {
		t.Errorf("expected 2 unassigned members, got %d", s.Unassigned.Count)
	}
	if len(s.ByProduct) != 0 {
		t.Errorf("expected no product buckets, got %+v", s.ByProduct)
	}
}

// ---------------------------------------------------------------------------
// Service wiring
// ---------------------------------------------------------------------------

type fakeGoalSource struct {
	goals []model.Goal
	years []int
}

func (f *fakeGoalSource) List(ctx context.Context, filter repository.GoalFilter) ([]model.Goal, error) {
	if filter.Year == 0 {
		return f.goals, nil
	}
	var out []model.Goal
	for _, g := range f.goals {
		if g.Year == filter.Year {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGoalSource) DistinctYears(ctx context.Context) ([]int, error) {
	return f.years, nil
}

type fakeMemberSource struct {
	members []model.Member
	years   []int
}

func (f *fakeMemberSource) List(ctx context.Context, filter repository.MemberFilter) ([]model.Member, error) {
	return f.members, nil
}

func (f *fakeMemberSource) DistinctYears(ctx context.Context) ([]int, error) {
	return f.years, nil
}

type fakeIdeaSource struct {
	years []int
}

func (f *fakeIdeaSource) DistinctYears(ctx context.Context) ([]int, error) {
	return f.years, nil
}

func TestService_SummaryFiltersByYear(t *testing.T) {
	goals := &fakeGoalSource{goals: []model.Goal{
		{ID: 1, Type: "feature", Year: 2026, Progress: 40},
		{ID: 2, Type: "feature", Year: 2026, Progress: 60},
		{ID: 3, Type: "feature", Year: 2025, Progress: 100},
	}}
	svc := NewService(goals, &fakeMemberSource{}, &fakeIdeaSource{}, zap.NewNop())

	s, err := svc.Summary(context.Background(), 2026)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if s.TotalGoals != 2 {
		t.Errorf("expected 2 goals for 2026, got %d", s.TotalGoals)
	}
	if s.OverallProgress != 50 {
		t.Errorf("expected overall progress 50, got %v", s.OverallProgress)
	}
}

func TestService_YearsUnionAcrossSources(t *testing.T) {
	svc := NewService(
		&fakeGoalSource{years: []int{2026}},
		&fakeMemberSource{years: []int{2024}},
		&fakeIdeaSource{years: []int{2025, 2026}},
		zap.NewNop(),
	)

	years, err := svc.Years(context.Background())
	if err != nil {
		t.Fatalf("Years failed: %v", err)
	}
	want := []int{2026, 2025, 2024}
	if !reflect.DeepEqual(years, want) {
		t.Errorf("expected %v, got %v", want, years)
	}
}

func TestService_YearsEmptyStoreFallsBack(t *testing.T) {
	svc := NewService(&fakeGoalSource{}, &fakeMemberSource{}, &fakeIdeaSource{}, zap.NewNop())

	years, err := svc.Years(context.Background())
	if err != nil {
		t.Fatalf("Years failed: %v", err)
	}
	if !reflect.DeepEqual(years, []int{2026}) {
		t.Errorf("expected [2026], got %v", years)
	}
}
