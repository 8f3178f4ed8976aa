package model

import (
	"sort"
	"strings"
)

// Sections lists the sections offered for each course.
var Sections = map[string][]string{
	"CSE": {"A", "B", "C", "D", "E", "F"},
	"CSM": {"A", "B"},
}

// Courses returns the course names in a stable order.
func Courses() []string {
	names := make([]string, 0, len(Sections))
	for name := range Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type User struct {
	ID       string `json:"-"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Course   string `json:"course"`
	Section  string `json:"section"`
}

func (u User) Validate() error {
	if err := required("username", u.ID); err != nil {
		return err
	}
	if err := required("password", u.Password); err != nil {
		return err
	}
	if err := required("name", u.Name); err != nil {
		return err
	}
	if err := required("email", u.Email); err != nil {
		return err
	}
	sections, ok := Sections[u.Course]
	if !ok {
		return invalid("course", "must be one of "+strings.Join(Courses(), ", "))
	}
	for _, section := range sections {
		if section == u.Section {
			return nil
		}
	}
	return invalid("section", "must be one of "+strings.Join(sections, ", ")+" for "+u.Course)
}
