package model

import (
	"fmt"
	"time"
)

// Participant is the primary export record: one row per program participant.
// The pipeline reads these rows as a snapshot; they are created and updated
// by the CRUD routes outside this service.
type Participant struct {
	ID               int64     `db:"id" json:"id"`
	ProgramCode      string    `db:"program_code" json:"programCode"`
	FirstName        string    `db:"first_name" json:"firstName"`
	LastName         string    `db:"last_name" json:"lastName"`
	FullName         string    `db:"full_name" json:"fullName"`
	Gender           string    `db:"gender" json:"gender"`
	YearOfBirth      int       `db:"year_of_birth" json:"yearOfBirth"`
	Age              int       `db:"age" json:"age"`
	MaritalStatus    string    `db:"marital_status" json:"maritalStatus"`
	Region           string    `db:"region" json:"region"`
	District         string    `db:"district" json:"district"`
	Town             string    `db:"town" json:"town"`
	Community        string    `db:"community" json:"community"`
	Phone            string    `db:"phone" json:"phone"`
	Email            string    `db:"email" json:"email"`
	ProgramModel     string    `db:"program_model" json:"programModel"`
	TrainingStatus   string    `db:"training_status" json:"trainingStatus"`
	ProgramStatus    string    `db:"program_status" json:"programStatus"`
	SkillsSummary    string    `db:"skills_summary" json:"skillsSummary"`
	BusinessInterest string    `db:"business_interest" json:"businessInterest"`
	WorkHistory      string    `db:"work_history" json:"workHistory"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}

// Owned is implemented by every related-collection row type. The owner id
// is the participant the row belongs to.
type Owned interface {
	OwnerID() int64
}

type EducationRecord struct {
	ID            int64  `db:"id" json:"id"`
	YouthID       int64  `db:"youth_id" json:"youthId"`
	SchoolName    string `db:"school_name" json:"schoolName"`
	Qualification string `db:"qualification" json:"qualification"`
	FieldOfStudy  string `db:"field_of_study" json:"fieldOfStudy"`
	YearCompleted int    `db:"year_completed" json:"yearCompleted"`
}

func (e EducationRecord) OwnerID() int64 { return e.YouthID }

func (e EducationRecord) Summary() string {
	return fmt.Sprintf("%s - %s", e.SchoolName, e.Qualification)
}

type SkillAssignment struct {
	ID          int64  `db:"id" json:"id"`
	YouthID     int64  `db:"youth_id" json:"youthId"`
	SkillName   string `db:"skill_name" json:"skillName"`
	Proficiency string `db:"proficiency" json:"proficiency"`
}

func (s SkillAssignment) OwnerID() int64 { return s.YouthID }

func (s SkillAssignment) Summary() string { return s.SkillName }

type Certification struct {
	ID                  int64  `db:"id" json:"id"`
	YouthID             int64  `db:"youth_id" json:"youthId"`
	CertificationName   string `db:"certification_name" json:"certificationName"`
	IssuingOrganization string `db:"issuing_organization" json:"issuingOrganization"`
	IssuedYear          int    `db:"issued_year" json:"issuedYear"`
}

func (c Certification) OwnerID() int64 { return c.YouthID }

// Summary renders "<certificationName> - <issuingOrganization>". Report
// consumers depend on this exact text.
func (c Certification) Summary() string {
	return fmt.Sprintf("%s - %s", c.CertificationName, c.IssuingOrganization)
}

type TrainingAssignment struct {
	ID          int64     `db:"id" json:"id"`
	YouthID     int64     `db:"youth_id" json:"youthId"`
	ProgramID   int64     `db:"program_id" json:"programId"`
	ProgramName string    `db:"program_name" json:"programName"`
	Status      string    `db:"status" json:"status"`
	EnrolledAt  time.Time `db:"enrolled_at" json:"enrolledAt"`
}

func (t TrainingAssignment) OwnerID() int64 { return t.YouthID }

func (t TrainingAssignment) Summary() string {
	return fmt.Sprintf("%s (%s)", t.ProgramName, t.Status)
}

type BusinessLink struct {
	ID           int64  `db:"id" json:"id"`
	YouthID      int64  `db:"youth_id" json:"youthId"`
	BusinessName string `db:"business_name" json:"businessName"`
	Role         string `db:"role" json:"role"`
}

func (b BusinessLink) OwnerID() int64 { return b.YouthID }

func (b BusinessLink) Summary() string { return b.BusinessName }

type PortfolioProject struct {
	ID          int64  `db:"id" json:"id"`
	YouthID     int64  `db:"youth_id" json:"youthId"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	URL         string `db:"url" json:"url"`
}

func (p PortfolioProject) OwnerID() int64 { return p.YouthID }

func (p PortfolioProject) Summary() string { return p.Title }

type SocialLink struct {
	ID       int64  `db:"id" json:"id"`
	YouthID  int64  `db:"youth_id" json:"youthId"`
	Platform string `db:"platform" json:"platform"`
	URL      string `db:"url" json:"url"`
}

func (s SocialLink) OwnerID() int64 { return s.YouthID }

func (s SocialLink) Summary() string {
	return fmt.Sprintf("%s: %s", s.Platform, s.URL)
}
