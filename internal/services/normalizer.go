package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// CandidateRecord is the normalized, structured view of one resume. It is
// built once per input file and never mutated afterwards.
type CandidateRecord struct {
	FileID     string
	Filename   string
	RawText    string
	Contact    ContactInfo
	Skills     []string
	Experience ExperienceInfo
	Education  []string
}

type ContactInfo struct {
	Emails         []string
	Phones         []string
	PotentialNames []string
}

type ExperienceInfo struct {
	YearsMentioned []int
	MaxYears       int
	JobTitles      []string
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

	experiencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*of\s*experience`),
		regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*experience`),
		regexp.MustCompile(`(?i)experience\s*of\s*(\d+)\+?\s*years?`),
		regexp.MustCompile(`(?i)(\d+)\+?\s*yrs?\s*experience`),
	}
)

// skillVocabulary is the fixed skill list candidates are matched against.
var skillVocabulary = []string{
	"python", "java", "javascript", "react", "angular", "vue", "node.js", "express",
	"django", "flask", "spring", "hibernate", "sql", "mysql", "postgresql", "mongodb",
	"redis", "elasticsearch", "docker", "kubernetes", "aws", "azure", "gcp",
	"git", "jenkins", "ci/cd", "agile", "scrum", "html", "css", "sass", "less",
	"typescript", "php", "ruby", "go", "rust", "c++", "c#", ".net", "swift",
	"kotlin", "flutter", "react native", "ios", "android", "machine learning",
	"artificial intelligence", "data science", "pandas", "numpy", "tensorflow",
	"pytorch", "scikit-learn", "tableau", "power bi", "excel", "r", "stata",
}

var jobTitleKeywords = []string{
	"developer", "engineer", "manager", "analyst", "consultant", "specialist",
	"coordinator", "administrator", "architect", "lead", "senior", "junior",
	"intern", "associate", "director", "vice president", "ceo", "cto", "cfo",
}

var educationKeywords = []string{
	"bachelor", "master", "phd", "doctorate", "mba", "bs", "ms", "ba", "ma",
	"computer science", "engineering", "business", "mathematics", "physics",
	"chemistry", "biology", "economics", "finance", "marketing", "psychology",
}

// Normalizer turns raw resume text into a CandidateRecord using fixed
// heuristics: regex contact extraction plus keyword membership tests.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) Normalize(fileID, filename, rawText string) *CandidateRecord {
	return &CandidateRecord{
		FileID:     fileID,
		Filename:   filename,
		RawText:    rawText,
		Contact:    n.extractContactInfo(rawText),
		Skills:     n.extractSkills(rawText),
		Experience: n.extractExperience(rawText),
		Education:  n.extractEducation(rawText),
	}
}

func (n *Normalizer) extractContactInfo(text string) ContactInfo {
	info := ContactInfo{}

	emails := emailPattern.FindAllString(text, -1)
	if len(emails) > 3 {
		emails = emails[:3]
	}
	info.Emails = emails

	phones := phonePattern.FindAllString(text, -1)
	if len(phones) > 2 {
		phones = phones[:2]
	}
	info.Phones = phones

	// Candidate names: among the first 5 lines, lines made of exactly two
	// alphabetic tokens
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		fields := strings.Fields(line)
		if len(fields) == 2 && isAlphabetic(fields[0]) && isAlphabetic(fields[1]) {
			info.PotentialNames = append(info.PotentialNames, line)
		}
		if len(info.PotentialNames) == 3 {
			break
		}
	}

	return info
}

func (n *Normalizer) extractSkills(text string) []string {
	textLower := strings.ToLower(text)

	var found []string
	seen := make(map[string]struct{})
	for _, skill := range skillVocabulary {
		if strings.Contains(textLower, skill) {
			titled := titleCase(skill)
			if _, ok := seen[titled]; ok {
				continue
			}
			seen[titled] = struct{}{}
			found = append(found, titled)
		}
	}

	return found
}

func (n *Normalizer) extractExperience(text string) ExperienceInfo {
	info := ExperienceInfo{}

	for _, pattern := range experiencePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			if years, err := strconv.Atoi(match[1]); err == nil {
				info.YearsMentioned = append(info.YearsMentioned, years)
			}
		}
	}

	for _, years := range info.YearsMentioned {
		if years > info.MaxYears {
			info.MaxYears = years
		}
	}

	textLower := strings.ToLower(text)
	seen := make(map[string]struct{})
	for _, title := range jobTitleKeywords {
		if strings.Contains(textLower, title) {
			titled := titleCase(title)
			if _, ok := seen[titled]; ok {
				continue
			}
			seen[titled] = struct{}{}
			info.JobTitles = append(info.JobTitles, titled)
		}
	}

	return info
}

func (n *Normalizer) extractEducation(text string) []string {
	textLower := strings.ToLower(text)

	var found []string
	seen := make(map[string]struct{})
	for _, keyword := range educationKeywords {
		if strings.Contains(textLower, keyword) {
			titled := titleCase(keyword)
			if _, ok := seen[titled]; ok {
				continue
			}
			seen[titled] = struct{}{}
			found = append(found, titled)
		}
	}

	return found
}

func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func titleCase(s string) string {
	fields := strings.Fields(s)
	for i, field := range fields {
		runes := []rune(field)
		runes[0] = unicode.ToUpper(runes[0])
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}
