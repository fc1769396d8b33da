package layout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jonathan/resume-layout/internal/fonts"
	"github.com/jonathan/resume-layout/internal/style"
	"github.com/jonathan/resume-layout/internal/types"
	"github.com/stretchr/testify/require"
)

const achievement = "Led the migration of a monolithic billing platform to event-driven services, cutting invoice latency by 43% in two quarters."

func janeDoe() *types.ResumeRecord {
	return &types.ResumeRecord{
		Basics: types.Basics{Name: "Jane Doe"},
		Sections: []types.Section{{
			Title: "Experience",
			Body: &types.Experience{Items: []types.ExperienceItem{{
				Company:   "Acme Corp",
				Role:      "Staff Engineer",
				StartDate: "2019",
				EndDate:   "Present",
				Achievements: []string{
					achievement, achievement, achievement, achievement, achievement,
				},
			}}},
		}},
	}
}

func fullRecord() *types.ResumeRecord {
	var jobs []types.ExperienceItem
	for i := 0; i < 4; i++ {
		jobs = append(jobs, types.ExperienceItem{
			Company:      fmt.Sprintf("Company %d", i+1),
			Role:         "Senior Software Engineer",
			StartDate:    fmt.Sprintf("Jan %d", 2010+i*3),
			EndDate:      fmt.Sprintf("Dec %d", 2012+i*3),
			Location:     "Berlin, Germany",
			Achievements: []string{achievement, "Mentored six engineers.", achievement},
		})
	}

	return &types.ResumeRecord{
		Basics: types.Basics{
			Name:     "Jane Doe",
			Email:    "jane@example.com",
			Phone:    "+49 30 1234 5678",
			Location: "Berlin",
			Link:     "https://www.janedoe.dev/",
			Summary:  "Engineer focused on reliable distributed systems.\nOpen to relocation.",
		},
		CustomFields: types.CustomFields{
			{ID: "github", Title: "GitHub", Content: "https://github.com/janedoe", IsLink: true},
			{ID: "secret", Title: "Salary", Content: "private", Hidden: true},
			{ID: "visa", Title: "Work authorization", Content: "EU citizen"},
		},
		Sections: []types.Section{
			{Title: "Experience", Body: &types.Experience{Items: jobs}},
			{Title: "Education", Body: &types.Education{Items: []types.EducationItem{{
				Institution: "TU Berlin",
				Degree:      "MSc Computer Science",
				StartDate:   "2006",
				EndDate:     "2009",
				Highlights:  []string{"Thesis on consensus protocols."},
			}}}},
			{Title: "Skills", Body: &types.StringList{Of: types.KindSkills, Items: []string{"Go", "Kubernetes", "PostgreSQL", "Kafka"}}},
			{Title: "Certifications", Body: &types.StringList{Of: types.KindCertifications, Items: []string{"CKA", "AWS Solutions Architect"}}},
			{Title: "Projects", Body: &types.Projects{Items: []types.ProjectItem{{
				Name:        "pgwatch",
				Link:        "https://pgwatch.dev",
				Repository:  "https://github.com/janedoe/pgwatch",
				Description: []string{"Postgres monitoring agent with " + strings.Repeat("pluggable ", 12) + "collectors."},
			}}}},
			{Title: "Volunteering", Body: &types.Custom{Paragraphs: []string{"Code club mentor.", "Meetup organizer."}}},
		},
	}
}

func build(t *testing.T, p *style.Profile, rec *types.ResumeRecord) *Document {
	t.Helper()
	doc, err := NewBuilder(p, fonts.Default()).Build(rec)
	require.NoError(t, err)
	return doc
}

func blocksOf[T Block](doc *Document) []T {
	var out []T
	for _, b := range doc.Blocks {
		if v, ok := b.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func builtin(t *testing.T, name string) *style.Profile {
	t.Helper()
	p, err := style.Builtin(name)
	require.NoError(t, err)
	return p
}
