package reservation

import (
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
)

// Form is the submission payload. The same schema validates it on the
// registration form (inline field errors) and on the server endpoint (400
// details), so the two surfaces can never disagree about what is acceptable.
type Form struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Interests []string `json:"interests"`
}

// InterestOption is one selectable interest category.
type InterestOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// InterestOptions is the interest catalog shared by the form, validation and
// the admin dashboard.
var InterestOptions = []InterestOption{
	{ID: "habit", Label: "Habit-building program"},
	{ID: "work", Label: "Co-working streams"},
	{ID: "event", Label: "Community events"},
	{ID: "content", Label: "Learning content"},
	{ID: "project", Label: "Collaborative projects"},
}

// InterestLabel resolves a category id to its display label, falling back to
// the id itself for unknown categories.
func InterestLabel(id string) string {
	for _, opt := range InterestOptions {
		if opt.ID == id {
			return opt.Label
		}
	}
	return id
}

// ValidateForm checks a submission and returns field-level error messages,
// keyed by field name. An empty map means the form is valid.
func ValidateForm(form Form) map[string]string {
	errs := make(map[string]string)

	switch n := utf8.RuneCountInString(form.Name); {
	case n == 0:
		errs["name"] = "Please enter your name"
	case n < 2:
		errs["name"] = "Name must be at least 2 characters"
	case n > 50:
		errs["name"] = "Name must be 50 characters or less"
	}

	switch {
	case form.Email == "":
		errs["email"] = "Please enter your email address"
	case !govalidator.IsEmail(form.Email):
		errs["email"] = "Please enter a valid email address"
	}

	if len(form.Interests) == 0 {
		errs["interests"] = "Please select at least one area of interest"
	}

	return errs
}
