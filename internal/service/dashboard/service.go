// Package dashboard computes the cross-cutting summaries behind the
// dashboard endpoints. Every call works on a snapshot fetched fresh from the
// store; nothing is cached between requests.
package dashboard

import (
	"context"
	"sort"
	"strconv"

	"roadmap-service/internal/model"
	"roadmap-service/internal/repository"

	"go.uber.org/zap"
)

// fallbackYear is returned by Years when no entity carries a year yet.
const fallbackYear = 2026

type GoalSource interface {
	List(ctx context.Context, f repository.GoalFilter) ([]model.Goal, error)
	DistinctYears(ctx context.Context) ([]int, error)
}

type MemberSource interface {
	List(ctx context.Context, f repository.MemberFilter) ([]model.Member, error)
	DistinctYears(ctx context.Context) ([]int, error)
}

type IdeaSource interface {
	DistinctYears(ctx context.Context) ([]int, error)
}

type Service struct {
	goals   GoalSource
	members MemberSource
	ideas   IdeaSource
	logger  *zap.Logger
}

func NewService(goals GoalSource, members MemberSource, ideas IdeaSource, logger *zap.Logger) *Service {
	return &Service{
		goals:   goals,
		members: members,
		ideas:   ideas,
		logger:  logger,
	}
}

// GroupStats is one bucket of a grouped summary: how many goals fell into
// the bucket and their mean progress.
type GroupStats struct {
	Count    int     `json:"count"`
	Progress float64 `json:"progress"`
}

type Summary struct {
	TotalGoals      int                   `json:"total_goals"`
	TotalMilestones int                   `json:"total_milestones"`
	TotalTasks      int                   `json:"total_tasks"`
	OverallProgress float64               `json:"overall_progress"`
	ByType          map[string]GroupStats `json:"by_type"`
	ByTeam          map[string]GroupStats `json:"by_team"`
	ByProduct       map[string]GroupStats `json:"by_product"`
}

// Summary aggregates the goal tree for one year, or for all years when
// year is zero.
func (s *Service) Summary(ctx context.Context, year int) (*Summary, error) {
	goals, err := s.goals.List(ctx, repository.GoalFilter{Year: year})
	if err != nil {
		return nil, err
	}

	summary := buildSummary(goals)
	s.logger.Debug("Dashboard summary computed",
		zap.Int("year", year),
		zap.Int("total_goals", summary.TotalGoals),
	)
	return summary, nil
}

// buildSummary reduces a hydrated goal snapshot into a Summary. Bucket
// progress is accumulated as a sum first and divided once all goals have
// been seen.
func buildSummary(goals []model.Goal) *Summary {
	summary := &Summary{
		TotalGoals: len(goals),
		ByType: map[string]GroupStats{
			"issue":    {},
			"feature":  {},
			"feedback": {},
		},
		ByTeam:    map[string]GroupStats{},
		ByProduct: map[string]GroupStats{},
	}

	progressSum := 0
	for _, g := range goals {
		summary.TotalMilestones += len(g.Milestones)
		for _, m := range g.Milestones {
			summary.TotalTasks += len(m.Tasks)
		}
		progressSum += g.Progress

		if stats, ok := summary.ByType[g.Type]; ok {
			stats.Count++
			stats.Progress += float64(g.Progress)
			summary.ByType[g.Type] = stats
		}

		team := labelOr(g.Team, "Unassigned")
		stats := summary.ByTeam[team]
		stats.Count++
		stats.Progress += float64(g.Progress)
		summary.ByTeam[team] = stats

		product := labelOr(g.Product, "Unassigned")
		stats = summary.ByProduct[product]
		stats.Count++
		stats.Progress += float64(g.Progress)
		summary.ByProduct[product] = stats
	}

	if summary.TotalGoals > 0 {
		summary.OverallProgress = float64(progressSum) / float64(summary.TotalGoals)
	}
	averageBuckets(summary.ByType)
	averageBuckets(summary.ByTeam)
	averageBuckets(summary.ByProduct)

	return summary
}

func averageBuckets(buckets map[string]GroupStats) {
	for key, stats := range buckets {
		if stats.Count > 0 {
			stats.Progress /= float64(stats.Count)
			buckets[key] = stats
		}
	}
}

func labelOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

// Years returns every year that appears on a member, goal or idea,
// descending. An empty store yields the fallback year so the dashboard
// always has something to select.
func (s *Service) Years(ctx context.Context) ([]int, error) {
	memberYears, err := s.members.DistinctYears(ctx)
	if err != nil {
		return nil, err
	}
	goalYears, err := s.goals.DistinctYears(ctx)
	if err != nil {
		return nil, err
	}
	ideaYears, err := s.ideas.DistinctYears(ctx)
	if err != nil {
		return nil, err
	}

	return mergeYears(memberYears, goalYears, ideaYears), nil
}

func mergeYears(yearSets ...[]int) []int {
	seen := make(map[int]struct{})
	for _, set := range yearSets {
		for _, y := range set {
			seen[y] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return []int{fallbackYear}
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// GanttRow is one line of the timeline view. Milestone and task names carry
// the indent prefix the frontend relies on to render hierarchy.
type GanttRow struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Start        *string `json:"start"`
	End          *string `json:"end"`
	Progress     int     `json:"progress"`
	Type         string  `json:"type"`
	GoalType     string  `json:"goal_type,omitempty"`
	Dependencies string  `json:"dependencies"`
}

// GanttRows projects the goal tree into timeline rows for one year, or all
// years when year is zero.
func (s *Service) GanttRows(ctx context.Context, year int) ([]GanttRow, error) {
	goals, err := s.goals.List(ctx, repository.GoalFilter{Year: year})
	if err != nil {
		return nil, err
	}
	return buildGanttRows(goals), nil
}

// buildGanttRows walks goals depth-first so every parent row precedes its
// children and children point back via Dependencies.
func buildGanttRows(goals []model.Goal) []GanttRow {
	rows := []GanttRow{}

	for _, g := range goals {
		goalID := ganttID("goal", g.ID)
		rows = append(rows, GanttRow{
			ID:           goalID,
			Name:         g.Title,
			Start:        isoDate(g.StartDate),
			End:          isoDate(g.EndDate),
			Progress:     g.Progress,
			Type:         "goal",
			GoalType:     g.Type,
			Dependencies: "",
		})

		for _, m := range g.Milestones {
			milestoneID := ganttID("milestone", m.ID)
			rows = append(rows, GanttRow{
				ID:           milestoneID,
				Name:         "  " + m.Title,
				Start:        isoDate(m.StartDate),
				End:          isoDate(m.DueDate),
				Progress:     m.Progress,
				Type:         "milestone",
				Dependencies: goalID,
			})

			for _, t := range m.Tasks {
				rows = append(rows, GanttRow{
					ID:           ganttID("task", t.ID),
					Name:         "    " + t.Title,
					Start:        isoDate(t.StartDate),
					End:          isoDate(t.DueDate),
					Progress:     t.Progress,
					Type:         "task",
					Dependencies: milestoneID,
				})
			}
		}
	}

	return rows
}

func ganttID(kind string, id int) string {
	return kind + "-" + strconv.Itoa(id)
}

func isoDate(d *model.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

// RoleStats counts members of one role by their type.
type RoleStats struct {
	Total    int `json:"total"`
	Existing int `json:"existing"`
	New      int `json:"new"`
}

// MemberRef is the compact member shape embedded in summaries.
type MemberRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
	Type string `json:"type"`
}

type ProductMembers struct {
	Members []MemberRef `json:"members"`
	Count   int         `json:"count"`
}

type UnassignedMembers struct {
	Count   int         `json:"count"`
	Members []MemberRef `json:"members"`
}

type MemberSummary struct {
	Total      int                       `json:"total"`
	Existing   int                       `json:"existing"`
	New        int                       `json:"new"`
	ByRole     map[string]RoleStats      `json:"by_role"`
	ByProduct  map[string]ProductMembers `json:"by_product"`
	Unassigned UnassignedMembers         `json:"unassigned"`
}

// MemberSummary aggregates the member roster for one year, or all years when
// year is zero. Product membership is derived from task assignments: a
// member belongs to a product when a task under one of that product's goals
// is assigned to them, not through any attribute on the member itself.
func (s *Service) MemberSummary(ctx context.Context, year int) (*MemberSummary, error) {
	members, err := s.members.List(ctx, repository.MemberFilter{Year: year})
	if err != nil {
		return nil, err
	}
	goals, err := s.goals.List(ctx, repository.GoalFilter{Year: year})
	if err != nil {
		return nil, err
	}

	return buildMemberSummary(members, goals), nil
}

func buildMemberSummary(members []model.Member, goals []model.Goal) *MemberSummary {
	summary := &MemberSummary{
		Total:     len(members),
		ByRole:    map[string]RoleStats{},
		ByProduct: map[string]ProductMembers{},
	}

	for _, m := range members {
		if m.Type == "existing" {
			summary.Existing++
		} else {
			summary.New++
		}

		role := m.Role
		if role == "" {
			role = "Other"
		}
		stats := summary.ByRole[role]
		stats.Total++
		if m.Type == "existing" {
			stats.Existing++
		} else {
			stats.New++
		}
		summary.ByRole[role] = stats
	}

	// Walk the goal tree and bucket task assignees by the owning goal's
	// product. A member counts once per product no matter how many tasks
	// they hold under it.
	assigned := make(map[int]struct{})
	seenPerProduct := make(map[string]map[int]struct{})

	for _, g := range goals {
		product := labelOr(g.Product, "Unassigned")
		for _, ms := range g.Milestones {
			for _, t := range ms.Tasks {
				if t.Assignee == nil {
					continue
				}
				assigned[t.Assignee.ID] = struct{}{}

				if seenPerProduct[product] == nil {
					seenPerProduct[product] = make(map[int]struct{})
				}
				if _, dup := seenPerProduct[product][t.Assignee.ID]; dup {
					continue
				}
				seenPerProduct[product][t.Assignee.ID] = struct{}{}

				group := summary.ByProduct[product]
				group.Members = append(group.Members, memberRef(*t.Assignee))
				group.Count++
				summary.ByProduct[product] = group
			}
		}
	}

	unassigned := []MemberRef{}
	for _, m := range members {
		if _, ok := assigned[m.ID]; !ok {
			unassigned = append(unassigned, MemberRef{
				ID:   m.ID,
				Name: m.Name,
				Role: m.Role,
				Type: m.Type,
			})
		}
	}
	summary.Unassigned = UnassignedMembers{
		Count:   len(unassigned),
		Members: unassigned,
	}

	return summary
}

func memberRef(m model.Member) MemberRef {
	return MemberRef{
		ID:   m.ID,
		Name: m.Name,
		Role: m.Role,
		Type: m.Type,
	}
}
