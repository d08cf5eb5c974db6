package engine

import (
	"sort"

	"sahara-be/models"
)

const maxAssignmentAlternatives = 3

// DepartmentScore pairs a department with its workload fitness score.
type DepartmentScore struct {
	Department models.User `json:"department"`
	Score      float64     `json:"score"`
}

// AssignmentSuggestion is the selected department plus runner-ups, with
// scores exposed for transparency.
type AssignmentSuggestion struct {
	Selected     DepartmentScore   `json:"selected"`
	Alternatives []DepartmentScore `json:"alternatives"`
}

// WorkloadScore rates a department's fitness to take another case: a base
// of 100, penalized per active case and boosted by completion rate,
// floored at 0. A department without a workload snapshot scores the base.
func WorkloadScore(dept models.User) float64 {
	score := 100.0
	if dept.Workload != nil {
		score -= 5 * float64(dept.Workload.ActiveCases)
		score += 20 * dept.Workload.CompletionRate
	}
	if score < 0 {
		return 0
	}
	return score
}

// SelectDepartment picks the best-loaded department for a problem from the
// given directory snapshot. Candidates must match the problem's category
// and municipality; the highest workload score wins, ties broken by fewer
// active cases and then by input order.
func SelectDepartment(problem models.Problem, departments []models.User) (AssignmentSuggestion, error) {
	var scored []DepartmentScore
	for i := range departments {
		d := departments[i]
		if d.Role != models.RoleDepartment {
			continue
		}
		if d.Department != problem.Category || d.Location.Municipality != problem.Location.Municipality {
			continue
		}
		scored = append(scored, DepartmentScore{Department: d, Score: WorkloadScore(d)})
	}
	if len(scored) == 0 {
		return AssignmentSuggestion{}, ErrNoCandidate
	}

	activeCases := func(s DepartmentScore) int {
		if s.Department.Workload == nil {
			return 0
		}
		return s.Department.Workload.ActiveCases
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return activeCases(scored[i]) < activeCases(scored[j])
	})

	alternatives := scored[1:]
	if len(alternatives) > maxAssignmentAlternatives {
		alternatives = alternatives[:maxAssignmentAlternatives]
	}

	return AssignmentSuggestion{Selected: scored[0], Alternatives: alternatives}, nil
}
