package domain

import (
	"errors"
	"strings"
)

// EmailDomain is appended to every derived contact address.
const EmailDomain = "@company.com"

// Employee is a point-in-time copy of an upstream employee record.
// The upstream service owns it; the gateway only reads and forwards it.
type Employee struct {
	ID     string `json:"id"`
	Name   string `json:"employee_name"`
	Salary int    `json:"employee_salary"`
	Age    int    `json:"employee_age"`
	Title  string `json:"employee_title"`
	Email  string `json:"employee_email"`
}

// CreateInput is the caller-supplied part of a new employee.
// ID and Email are assigned server side.
type CreateInput struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Salary int    `json:"salary"`
	Age    int    `json:"age"`
}

// Employee builds the upstream create payload, deriving the contact address.
func (in CreateInput) Employee() (Employee, error) {
	email, err := EmailFromName(in.Name)
	if err != nil {
		return Employee{}, err
	}
	return Employee{
		Name:   in.Name,
		Salary: in.Salary,
		Age:    in.Age,
		Title:  in.Title,
		Email:  email,
	}, nil
}

// DeleteRequest identifies an employee to remove. ID is authoritative,
// Name is only a hint.
type DeleteRequest struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// EmailFromName derives "first name + last initial" at EmailDomain.
func EmailFromName(name string) (string, error) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", errors.New("name cannot be empty")
	}

	local := strings.ToLower(parts[0])
	if len(parts) > 1 {
		last := []rune(parts[len(parts)-1])
		local += strings.ToLower(string(last[0]))
	}
	return local + EmailDomain, nil
}
