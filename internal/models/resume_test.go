package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileTypeOf(t *testing.T) {
	cases := []struct {
		name string
		want FileType
		ok   bool
	}{
		{"cv.pdf", PDF, true},
		{"CV.PDF", PDF, true},
		{"resume.Docx", DOCX, true},
		{"notes.txt", TXT, true},
		{"archive.tar.txt", TXT, true},
		{"photo.png", "png", false},
		{"resume.doc", "doc", false},
		{"noextension", "", false},
	}
	for _, tc := range cases {
		got, ok := FileTypeOf(tc.name)
		assert.Equal(t, tc.want, got, tc.name)
		assert.Equal(t, tc.ok, ok, tc.name)
	}
}

func TestNewResumeRecordCopiesValues(t *testing.T) {
	f := Fields{
		KeyName:        "Jane Roe",
		KeyEmail:       "jane@example.com",
		KeyPhone:       "5550000",
		KeyITSkills:    "Go, SQL",
		KeyProgramming: "Go",
		KeyFrontEnd:    "React",
		KeyBackEnd:     "Gin",
		KeyDatabase:    "PostgreSQL",
		KeyAIML:        "PyTorch",
		KeyOtherSkills: "Leadership",
		KeyExperience:  "Engineer at Acme, 2020 - 2023",
	}
	r := NewResumeRecord(f)
	assert.Equal(t, &ResumeRecord{
		Name:        "Jane Roe",
		Email:       "jane@example.com",
		Phone:       "5550000",
		ITSkills:    "Go, SQL",
		Programming: "Go",
		FrontEnd:    "React",
		BackEnd:     "Gin",
		Database:    "PostgreSQL",
		AIML:        "PyTorch",
		OtherSkills: "Leadership",
		Experience:  "Engineer at Acme, 2020 - 2023",
	}, r)
}

func TestNewResumeRecordSentinels(t *testing.T) {
	r := NewResumeRecord(Fields{KeyName: "John Doe", KeyFrontEnd: "  ", KeyEmail: "", KeyAIML: ""})
	assert.Equal(t, "John Doe", r.Name)
	// empty strings count as absent, same as whitespace
	assert.Equal(t, Unknown, r.Email)
	assert.Equal(t, Unknown, r.Phone)
	assert.Equal(t, None, r.AIML)
	assert.Equal(t, None, r.FrontEnd)
	assert.Equal(t, None, r.Experience)

	r = NewResumeRecord(Fields{KeyName: ""})
	assert.Equal(t, Unknown, r.Name)
}

func TestExperienceLines(t *testing.T) {
	r := &ResumeRecord{Experience: "Dev at A, 2019\n\n  Lead at B, 2021  \n"}
	assert.Equal(t, []string{"Dev at A, 2019", "Lead at B, 2021"}, r.ExperienceLines())

	r.Experience = None
	assert.Empty(t, r.ExperienceLines())
}
