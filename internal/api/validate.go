package api

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ferg-cod3s/rq-challenge/internal/core/domain"
	apperrors "github.com/ferg-cod3s/rq-challenge/internal/core/errors"
)

var (
	lettersAndSpaces = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	idPattern        = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)
)

const (
	minSalary = 1
	maxSalary = 10_000_000
	minAge    = 16
	maxAge    = 75
	maxText   = 100
)

func invalid(format string, args ...any) error {
	return apperrors.New(apperrors.KindInvalidInput, fmt.Sprintf(format, args...))
}

func validateCreate(in domain.CreateInput) error {
	name := strings.TrimSpace(in.Name)
	switch n := utf8.RuneCountInString(name); {
	case n < 2 || n > maxText:
		return invalid("name must be between 2 and %d characters", maxText)
	case !lettersAndSpaces.MatchString(name):
		return invalid("name can only contain letters and spaces")
	}

	title := strings.TrimSpace(in.Title)
	if n := utf8.RuneCountInString(title); n < 2 || n > maxText {
		return invalid("title must be between 2 and %d characters", maxText)
	}
	if in.Salary < minSalary || in.Salary > maxSalary {
		return invalid("salary must be between %d and %d", minSalary, maxSalary)
	}
	if in.Age < minAge || in.Age > maxAge {
		return invalid("age must be between %d and %d", minAge, maxAge)
	}
	return nil
}

func validateID(id string) error {
	if id == "" || !idPattern.MatchString(id) {
		return invalid("invalid employee id format")
	}
	return nil
}

func validateSearch(q string) error {
	if n := utf8.RuneCountInString(q); n < 1 || n > maxText {
		return invalid("search string must be between 1 and %d characters", maxText)
	}
	return nil
}
