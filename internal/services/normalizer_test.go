package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `John Smith
Senior Software Developer

Contact: john.smith@example.com | 555-123-4567

Experienced developer with 6 years of experience building web applications.
Proficient in Python, Django, PostgreSQL, Docker and AWS.

Education: Bachelor of Computer Science, State University`

func TestNormalize(t *testing.T) {
	n := NewNormalizer()
	rec := n.Normalize("file-1", "john_smith.pdf", sampleResume)

	assert.Equal(t, "file-1", rec.FileID)
	assert.Equal(t, "john_smith.pdf", rec.Filename)
	assert.Equal(t, sampleResume, rec.RawText)

	require.Len(t, rec.Contact.Emails, 1)
	assert.Equal(t, "john.smith@example.com", rec.Contact.Emails[0])

	require.NotEmpty(t, rec.Contact.Phones)
	assert.Contains(t, rec.Contact.Phones[0], "555")

	require.NotEmpty(t, rec.Contact.PotentialNames)
	assert.Equal(t, "John Smith", rec.Contact.PotentialNames[0])

	assert.Contains(t, rec.Skills, "Python")
	assert.Contains(t, rec.Skills, "Django")
	assert.Contains(t, rec.Skills, "Postgresql")
	assert.Contains(t, rec.Skills, "Docker")
	assert.Contains(t, rec.Skills, "Aws")

	assert.Equal(t, 6, rec.Experience.MaxYears)
	assert.Contains(t, rec.Experience.JobTitles, "Developer")
	assert.Contains(t, rec.Experience.JobTitles, "Senior")

	assert.Contains(t, rec.Education, "Bachelor")
	assert.Contains(t, rec.Education, "Computer Science")
}

func TestNormalizeContactCaps(t *testing.T) {
	n := NewNormalizer()
	text := `a@x.com b@x.com c@x.com d@x.com
555-111-2222 555-333-4444 555-555-6666`

	rec := n.Normalize("id", "f.txt", text)
	assert.Len(t, rec.Contact.Emails, 3)
	assert.Len(t, rec.Contact.Phones, 2)
}

func TestNormalizePotentialNamesOnlyInFirstLines(t *testing.T) {
	n := NewNormalizer()
	text := "line one here\nanother line entirely\nthird line text\nfourth line text\nfifth line text\nJane Doe"

	rec := n.Normalize("id", "f.txt", text)
	assert.Empty(t, rec.Contact.PotentialNames, "two-word line past the first five lines is not a name candidate")
}

func TestNormalizeSkillsDeterministicOrder(t *testing.T) {
	n := NewNormalizer()
	text := "Java and Python and SQL, also python again"

	first := n.Normalize("a", "a.txt", text)
	second := n.Normalize("b", "b.txt", text)

	assert.Equal(t, first.Skills, second.Skills)
	// vocabulary order, not appearance order
	assert.Equal(t, []string{"Python", "Java", "Sql"}, first.Skills)
}

func TestNormalizeExperiencePatterns(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		text  string
		years int
	}{
		{"3 years of experience", 3},
		{"5+ years experience", 5},
		{"experience of 7 years", 7},
		{"10 yrs experience", 10},
		{"2 Years Of Experience in retail", 2},
		{"no experience mentions", 0},
	}

	for _, tt := range tests {
		rec := n.Normalize("id", "f.txt", tt.text)
		assert.Equal(t, tt.years, rec.Experience.MaxYears, tt.text)
	}
}

func TestNormalizeMaxYearsPicksLargest(t *testing.T) {
	n := NewNormalizer()
	rec := n.Normalize("id", "f.txt", "2 years of experience in sales, then 8 years of experience in tech")
	assert.Equal(t, []int{2, 8}, rec.Experience.YearsMentioned)
	assert.Equal(t, 8, rec.Experience.MaxYears)
}
