package models

import (
	"path/filepath"
	"strings"
)

// FileType is the declared type of an uploaded résumé, taken from its extension.
type FileType string

const (
	PDF  FileType = "pdf"
	DOCX FileType = "docx"
	TXT  FileType = "txt"
)

var SupportedTypes = []FileType{PDF, DOCX, TXT}

// FileTypeOf returns the lower-cased extension of filename without the dot
// and whether it is one of SupportedTypes.
func FileTypeOf(filename string) (FileType, bool) {
	ext := FileType(strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")))
	for _, t := range SupportedTypes {
		if t == ext {
			return ext, true
		}
	}
	return ext, false
}

// Sentinels stored instead of NULL.
const (
	Unknown = "Unknown"
	None    = "NONE"
)

// Keys of the JSON object returned by the extraction model.
const (
	KeyName        = "Name"
	KeyEmail       = "Email address"
	KeyPhone       = "Phone number"
	KeyITSkills    = "IT Skills"
	KeyProgramming = "Programming"
	KeyFrontEnd    = "Front End"
	KeyBackEnd     = "Back End"
	KeyDatabase    = "Database"
	KeyAIML        = "AI/ML"
	KeyOtherSkills = "Other Skills"
	KeyExperience  = "Experience"
)

// Fields holds the normalized string values of an extraction response,
// keyed by the Key* constants. Absent keys stay absent.
type Fields map[string]string

func (f Fields) valueOr(key, fallback string) string {
	if v, ok := f[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

// ResumeRecord is one persisted row. Records are never updated in place.
type ResumeRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	ITSkills    string `json:"it_skills"`
	Programming string `json:"programming"`
	FrontEnd    string `json:"front_end"`
	BackEnd     string `json:"back_end"`
	Database    string `json:"database"`
	AIML        string `json:"ai_ml"`
	OtherSkills string `json:"other_skills"`
	Experience  string `json:"experience"`
}

// NewResumeRecord maps extracted fields onto a record, substituting Unknown
// for missing contact fields and None for everything else.
func NewResumeRecord(f Fields) *ResumeRecord {
	return &ResumeRecord{
		Name:        f.valueOr(KeyName, Unknown),
		Email:       f.valueOr(KeyEmail, Unknown),
		Phone:       f.valueOr(KeyPhone, Unknown),
		ITSkills:    f.valueOr(KeyITSkills, None),
		Programming: f.valueOr(KeyProgramming, None),
		FrontEnd:    f.valueOr(KeyFrontEnd, None),
		BackEnd:     f.valueOr(KeyBackEnd, None),
		Database:    f.valueOr(KeyDatabase, None),
		AIML:        f.valueOr(KeyAIML, None),
		OtherSkills: f.valueOr(KeyOtherSkills, None),
		Experience:  f.valueOr(KeyExperience, None),
	}
}

// ExperienceLines splits Experience into its "Title at Organization, Duration"
// entries. None yields no lines.
func (r *ResumeRecord) ExperienceLines() []string {
	if r.Experience == None {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(r.Experience, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
