package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/youthtrack/backend/internal/export/domain"
	"github.com/youthtrack/backend/internal/export/model"
	"github.com/youthtrack/backend/shared/postgresql"
)

// Storage runs the read-only export queries against PostgreSQL. The export
// pipeline never writes to the relational store.
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewStorage(pg *postgresql.Client, logger *slog.Logger) *Storage {
	return &Storage{
		db:     pg.GetDB(),
		logger: logger,
	}
}

const participantColumns = `
	id, program_code, first_name, last_name, full_name, gender,
	year_of_birth, age, marital_status, region, district, town, community,
	phone, email, program_model, training_status, program_status,
	skills_summary, business_interest, work_history, created_at
`

// SelectParticipants builds and runs the primary query: every present
// filter predicate is AND-ed, categorical lists expand to IN, and the
// resolved sort from the allow-list is applied.
func (s *Storage) SelectParticipants(ctx context.Context, filter *domain.Filter) ([]model.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE 1=1`
	args := []interface{}{}

	if len(filter.Districts) > 0 {
		query += " AND district IN (?)"
		args = append(args, filter.Districts)
	}

	if len(filter.Genders) > 0 {
		query += " AND gender IN (?)"
		args = append(args, filter.Genders)
	}

	if len(filter.ProgramModels) > 0 {
		query += " AND program_model IN (?)"
		args = append(args, filter.ProgramModels)
	}

	if len(filter.TrainingStatuses) > 0 {
		query += " AND training_status IN (?)"
		args = append(args, filter.TrainingStatuses)
	}

	if filter.MinAge != nil {
		query += " AND age >= ?"
		args = append(args, *filter.MinAge)
	}

	if filter.MaxAge != nil {
		query += " AND age <= ?"
		args = append(args, *filter.MaxAge)
	}

	if filter.CreatedFrom != nil {
		query += " AND created_at >= ?"
		args = append(args, *filter.CreatedFrom)
	}

	if filter.CreatedTo != nil {
		query += " AND created_at <= ?"
		args = append(args, *filter.CreatedTo)
	}

	if filter.Keyword != "" {
		query += " AND (full_name ILIKE ? OR program_code ILIKE ? OR skills_summary ILIKE ? OR business_interest ILIKE ?)"
		pattern := "%" + filter.Keyword + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}

	// OrderBy only ever yields allow-listed column names.
	query += " ORDER BY " + filter.OrderBy() + ", id ASC"

	query, expanded, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build participants query: %w", err)
	}

	var participants []model.Participant
	if err := s.db.SelectContext(ctx, &participants, s.db.Rebind(query), expanded...); err != nil {
		return nil, fmt.Errorf("failed to select participants: %w", err)
	}

	s.logger.Debug("Primary query executed",
		slog.Int("matched", len(participants)),
	)

	return participants, nil
}

// selectOwned runs one secondary query scoped by the matched owner ids and
// scans the rows into dest (a pointer to a slice of row structs).
func (s *Storage) selectOwned(ctx context.Context, dest interface{}, query string, ownerIDs []int64) error {
	query, args, err := sqlx.In(query, ownerIDs)
	if err != nil {
		return fmt.Errorf("failed to build secondary query: %w", err)
	}

	if err := s.db.SelectContext(ctx, dest, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to select related rows: %w", err)
	}

	return nil
}

func (s *Storage) SelectEducation(ctx context.Context, ownerIDs []int64) ([]model.EducationRecord, error) {
	query := `
		SELECT id, youth_id, school_name, qualification, field_of_study, year_completed
		FROM education_records
		WHERE youth_id IN (?)
		ORDER BY youth_id, id
	`
	var rows []model.EducationRecord
	if err := s.selectOwned(ctx, &rows, query, ownerIDs); err != nil {
		return nil, err
	}
	return rows, nil
}

// SelectSkills resolves the skill display name at query time rather than
// post-processing.
func (s *Storage) SelectSkills(ctx context.Context, ownerIDs []int64) ([]model.SkillAssignment, error) {
	query := `
		SELECT sa.id, sa.youth_id, sk.name AS skill_name, sa.proficiency
		FROM skill_assignments sa
		JOIN skills sk ON sk.id = sa.skill_id
		WHERE sa.youth_id IN (?)
		ORDER BY sa.youth_id, sa.id
	`
	var rows []model.SkillAssignment
	if err := s.selectOwned(ctx, &rows, query, ownerIDs); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Storage) SelectCertifications(ctx context.Context, ownerIDs []int64) ([]model.Certification, error) {
	query := `
		SELECT id, youth_id, certification_name, issuing_organization, issued_year
		FROM certifications
		WHERE youth_id IN (?)
		ORDER BY youth_id, id
	`
	var rows []model.Certification
	if err := s.selectOwned(ctx, &rows, query, ownerIDs); err != nil {
		return nil, err
	}
	return rows, nil
}

// SelectTraining joins the training-program label in so the export carries
// the program name, not just its id.
func (s *Storage) SelectTraining(ctx context.Context, ownerIDs []int64) ([]model.TrainingAssignment, error) {
	query := `
		SELECT ta.id, ta.youth_id, ta.program_id, tp.name AS program_name, ta.status, ta.enrolled_at
		FROM training_assignments ta
		JOIN training_programs tp ON tp.id = ta.program_id
		WHERE ta.youth_id IN (?)
		ORDER BY ta.youth_id, ta.id
	`
	var rows []model.TrainingAssignment
	if err := s.selectOwned(ctx, &rows, query, ownerIDs); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Storage) SelectBusinesses(ctx context.Context, ownerIDs []int64) ([]model.BusinessLink, error) {
	query := `
		SELECT id, youth_id, business_name, role
		FROM business_links
		WHERE youth_id IN (?)
		ORDER BY youth_id, id
	`
	var rows []model.BusinessLink
	if err := s.selectOwned(ctx, &rows, query, ownerIDs); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Storage) SelectPortfolio(ctx context.Context, ownerIDs []int64) ([]model.PortfolioProject, error) {
	query := `
		SELECT id, youth_id, title, description, url
		FROM portfolio_projects
		WHERE youth_id IN (?)
		ORDER BY youth_id, id
	`
	var rows []model.PortfolioProject
	if err := s.selectOwned(ctx, &rows, query, ownerIDs); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Storage) SelectSocials(ctx context.Context, ownerIDs []int64) ([]model.SocialLink, error) {
	query := `
		SELECT id, youth_id, platform, url
		FROM social_links
		WHERE youth_id IN (?)
		ORDER BY youth_id, id
	`
	var rows []model.SocialLink
	if err := s.selectOwned(ctx, &rows, query, ownerIDs); err != nil {
		return nil, err
	}
	return rows, nil
}
