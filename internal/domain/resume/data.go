package resume

import "strings"

// Data is the structured input of a generated resume.
type Data struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
	Summary  string `json:"summary"`

	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Projects   []Project    `json:"projects"`
}

type Experience struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// Period is the end of the date range as printed on the resume.
func (e Experience) Period() string {
	if e.Current {
		return "Present"
	}
	return e.EndDate
}

type Education struct {
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Institution string `json:"institution"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	GPA         string `json:"gpa"`
}

type Project struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
	Link         string `json:"link"`
}

// MissingRequired lists the required fields that are blank.
func (d Data) MissingRequired() []string {
	var missing []string
	if strings.TrimSpace(d.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(d.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(d.Summary) == "" {
		missing = append(missing, "summary")
	}
	return missing
}
