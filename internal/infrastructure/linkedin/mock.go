package linkedin

import (
	"fmt"
	"time"

	"job-portal/internal/domain/job"
)

type mockSeed struct {
	id, title, company, defaultLocation, salary, applicationURL string
	description                                                 string
	skills, requirements, benefits                              []string
}

var mockSeeds = []mockSeed{
	{
		id: "linkedin_1", title: "Senior Software Engineer", company: "Tech Solutions Inc.",
		defaultLocation: "Remote", salary: "$120,000 - $150,000",
		description: "We are looking for a Senior Software Engineer to join our team. " +
			"You will be responsible for developing and maintaining web applications using modern technologies. " +
			"Requirements: %s experience, strong problem-solving skills, team collaboration.",
		skills:         []string{"JavaScript", "React", "Node.js", "MongoDB"},
		requirements:   []string{"5+ years experience", "Bachelor's degree"},
		benefits:       []string{"Health insurance", "401k", "Remote work"},
		applicationURL: "https://linkedin.com/jobs/view/123",
	},
	{
		id: "linkedin_2", title: "Frontend Developer", company: "Digital Innovations",
		defaultLocation: "New York, NY", salary: "$80,000 - $100,000",
		description: "Join our dynamic team as a Frontend Developer. " +
			"You will work on creating beautiful and responsive user interfaces. " +
			"Skills needed: %s, modern frameworks, responsive design.",
		skills:         []string{"React", "TypeScript", "CSS", "HTML"},
		requirements:   []string{"3+ years experience", "Portfolio required"},
		benefits:       []string{"Flexible hours", "Professional development"},
		applicationURL: "https://linkedin.com/jobs/view/124",
	},
	{
		id: "linkedin_3", title: "Data Scientist", company: "AI Analytics Corp",
		defaultLocation: "San Francisco, CA", salary: "$130,000 - $160,000",
		description: "Exciting opportunity for a Data Scientist to work on cutting-edge projects. " +
			"You will analyze data and build machine learning models. " +
			"Expertise in %s and statistical analysis required.",
		skills:         []string{"Python", "Machine Learning", "SQL", "Statistics"},
		requirements:   []string{"PhD or MS in related field", "Research experience"},
		benefits:       []string{"Competitive salary", "Stock options", "Health benefits"},
		applicationURL: "https://linkedin.com/jobs/view/125",
	},
	{
		id: "linkedin_4", title: "DevOps Engineer", company: "Cloud Solutions",
		defaultLocation: "Austin, TX", salary: "$110,000 - $140,000",
		description: "We need a DevOps Engineer to help us scale our infrastructure. " +
			"You will work on CI/CD pipelines and cloud infrastructure. " +
			"Experience with %s and cloud platforms required.",
		skills:         []string{"Docker", "Kubernetes", "AWS", "Jenkins"},
		requirements:   []string{"4+ years DevOps experience", "Cloud certifications"},
		benefits:       []string{"Remote work", "Flexible schedule", "Health insurance"},
		applicationURL: "https://linkedin.com/jobs/view/126",
	},
	{
		id: "linkedin_5", title: "Product Manager", company: "Innovation Labs",
		defaultLocation: "Seattle, WA", salary: "$140,000 - $180,000",
		description: "Join us as a Product Manager to drive product strategy and development. " +
			"You will work with cross-functional teams to deliver amazing products. " +
			"Background in %s and product development preferred.",
		skills:         []string{"Product Strategy", "Agile", "User Research", "Analytics"},
		requirements:   []string{"5+ years PM experience", "Technical background"},
		benefits:       []string{"Competitive benefits", "Career growth", "Stock options"},
		applicationURL: "https://linkedin.com/jobs/view/127",
	},
}

// MockJobs returns the development fixtures used when the LinkedIn API cannot
// be reached. The keywords are woven into each description and a non-empty
// location replaces the fixture's own.
func MockJobs(q Query, now time.Time) []Job {
	q = q.normalized()
	posted := now.UTC()

	out := make([]Job, 0, len(mockSeeds))
	for _, s := range mockSeeds {
		if len(out) == q.Limit {
			break
		}
		loc := s.defaultLocation
		if q.Location != "" {
			loc = q.Location
		}
		out = append(out, Job{
			ExternalID:     s.id,
			Title:          s.title,
			Description:    fmt.Sprintf(s.description, q.Keywords),
			Company:        s.company,
			Location:       loc,
			Salary:         s.salary,
			Type:           job.TypeFullTime,
			Skills:         append([]string(nil), s.skills...),
			Requirements:   append([]string(nil), s.requirements...),
			Benefits:       append([]string(nil), s.benefits...),
			ApplicationURL: s.applicationURL,
			PostedDate:     &posted,
		})
	}
	return out
}
