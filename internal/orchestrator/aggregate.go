package orchestrator

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ferg-cod3s/rq-challenge/internal/core/domain"
	apperrors "github.com/ferg-cod3s/rq-challenge/internal/core/errors"
)

// MaxEmployees is the ceiling applied to an upstream list-all payload.
const MaxEmployees = 10000

// TopEarnersLimit is how many names TopTenNames returns at most.
const TopEarnersLimit = 10

// Truncate returns the first limit records and whether anything was dropped.
func Truncate(employees []domain.Employee, limit int) ([]domain.Employee, bool) {
	if limit < 0 || len(employees) <= limit {
		return employees, false
	}
	return employees[:limit:limit], true
}

// SearchByName returns the records whose name contains query, ignoring case.
// Records without a name never match.
func SearchByName(employees []domain.Employee, query string) []domain.Employee {
	needle := strings.ToLower(query)
	matches := make([]domain.Employee, 0)
	for _, e := range employees {
		if e.Name == "" {
			continue
		}
		if strings.Contains(strings.ToLower(e.Name), needle) {
			matches = append(matches, e)
		}
	}
	return matches
}

// MaxSalary returns the highest salary, or ErrNoEmployees for an empty collection.
func MaxSalary(employees []domain.Employee) (int, error) {
	if len(employees) == 0 {
		return 0, apperrors.ErrNoEmployees
	}
	highest := employees[0].Salary
	for _, e := range employees[1:] {
		if e.Salary > highest {
			highest = e.Salary
		}
	}
	return highest, nil
}

// TopEarners returns up to n names ordered by salary descending. Equal
// salaries keep their upstream order. The input slice is not modified.
func TopEarners(employees []domain.Employee, n int) []string {
	sorted := slices.Clone(employees)
	slices.SortStableFunc(sorted, func(a, b domain.Employee) int {
		return cmp.Compare(b.Salary, a.Salary)
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	if n < 0 {
		n = 0
	}

	names := make([]string, 0, n)
	for _, e := range sorted[:n] {
		names = append(names, e.Name)
	}
	return names
}
