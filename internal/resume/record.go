// Package resume holds the structured record extracted from a resume and the
// assembly logic turning validated field values into one.
package resume

import (
	"fmt"
	"strings"
)

// Record is the final structured output of a parse. All fields are present
// once assembly succeeds; immutable afterwards.
type Record struct {
	Name   string   `mapstructure:"name"`
	Email  string   `mapstructure:"email"`
	Skills []string `mapstructure:"skills"`
}

// String renders the record as a three-line key/value display.
func (r *Record) String() string {
	skills := "N/A"
	if len(r.Skills) > 0 {
		skills = strings.Join(r.Skills, ", ")
	}

	return fmt.Sprintf("Name:   %s\nEmail:  %s\nSkills: %s", r.Name, r.Email, skills)
}
