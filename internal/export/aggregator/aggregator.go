package aggregator

import (
	"context"
	"log/slog"

	"github.com/youthtrack/backend/internal/export/domain"
	"github.com/youthtrack/backend/internal/export/model"
)

// Store is the relational query surface the aggregator consumes. Every
// secondary query is scoped by the owner ids matched by the primary query.
type Store interface {
	SelectParticipants(ctx context.Context, filter *domain.Filter) ([]model.Participant, error)
	SelectEducation(ctx context.Context, ownerIDs []int64) ([]model.EducationRecord, error)
	SelectSkills(ctx context.Context, ownerIDs []int64) ([]model.SkillAssignment, error)
	SelectCertifications(ctx context.Context, ownerIDs []int64) ([]model.Certification, error)
	SelectTraining(ctx context.Context, ownerIDs []int64) ([]model.TrainingAssignment, error)
	SelectBusinesses(ctx context.Context, ownerIDs []int64) ([]model.BusinessLink, error)
	SelectPortfolio(ctx context.Context, ownerIDs []int64) ([]model.PortfolioProject, error)
	SelectSocials(ctx context.Context, ownerIDs []int64) ([]model.SocialLink, error)
}

// Aggregator assembles one hierarchical document per matched participant:
// one primary query, then exactly one secondary query per requested
// collection type, never one per row.
type Aggregator struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		store:  store,
		logger: logger,
	}
}

// Aggregate runs the primary and secondary queries for the filter and
// merges the results. Any query failure aborts the whole aggregation with
// an AggregationError; partial document sets are never returned.
func (a *Aggregator) Aggregate(ctx context.Context, filter *domain.Filter) ([]model.AggregatedDocument, error) {
	participants, err := a.store.SelectParticipants(ctx, filter)
	if err != nil {
		return nil, &domain.AggregationError{Query: "participants", Err: err}
	}

	docs := make([]model.AggregatedDocument, len(participants))
	for i, p := range participants {
		docs[i] = model.AggregatedDocument{Participant: p}
	}

	// No matches: skip the secondary queries entirely so we never issue an
	// IN () query.
	if len(docs) == 0 {
		a.logger.Debug("Aggregation matched no participants, skipping secondary queries")
		return docs, nil
	}

	ownerIDs := make([]int64, len(participants))
	for i, p := range participants {
		ownerIDs[i] = p.ID
	}

	if filter.Include.Education {
		err := attach(ctx, docs, model.CollectionEducation, ownerIDs, a.store.SelectEducation,
			func(d *model.AggregatedDocument, rows []model.EducationRecord) { d.Education = rows })
		if err != nil {
			return nil, err
		}
	}

	if filter.Include.Skills {
		err := attach(ctx, docs, model.CollectionSkills, ownerIDs, a.store.SelectSkills,
			func(d *model.AggregatedDocument, rows []model.SkillAssignment) { d.Skills = rows })
		if err != nil {
			return nil, err
		}
	}

	if filter.Include.Certifications {
		err := attach(ctx, docs, model.CollectionCertifications, ownerIDs, a.store.SelectCertifications,
			func(d *model.AggregatedDocument, rows []model.Certification) { d.Certifications = rows })
		if err != nil {
			return nil, err
		}
	}

	if filter.Include.Training {
		err := attach(ctx, docs, model.CollectionTraining, ownerIDs, a.store.SelectTraining,
			func(d *model.AggregatedDocument, rows []model.TrainingAssignment) { d.Training = rows })
		if err != nil {
			return nil, err
		}
	}

	if filter.Include.Businesses {
		err := attach(ctx, docs, model.CollectionBusinesses, ownerIDs, a.store.SelectBusinesses,
			func(d *model.AggregatedDocument, rows []model.BusinessLink) { d.Businesses = rows })
		if err != nil {
			return nil, err
		}
	}

	if filter.Include.Portfolio {
		err := attach(ctx, docs, model.CollectionPortfolio, ownerIDs, a.store.SelectPortfolio,
			func(d *model.AggregatedDocument, rows []model.PortfolioProject) { d.Portfolio = rows })
		if err != nil {
			return nil, err
		}
	}

	if filter.Include.Socials {
		err := attach(ctx, docs, model.CollectionSocials, ownerIDs, a.store.SelectSocials,
			func(d *model.AggregatedDocument, rows []model.SocialLink) { d.Socials = rows })
		if err != nil {
			return nil, err
		}
	}

	a.logger.Info("Aggregation complete",
		slog.Int("participants", len(docs)),
		slog.Int("collections", filter.Include.Count()),
	)

	return docs, nil
}

// attach runs one secondary query, groups the rows by owner id, and wires
// each group into its document. Participants with no rows get a non-nil
// empty slice; rows whose owner is not in the matched set are dropped.
func attach[T model.Owned](
	ctx context.Context,
	docs []model.AggregatedDocument,
	name string,
	ownerIDs []int64,
	fetch func(context.Context, []int64) ([]T, error),
	set func(*model.AggregatedDocument, []T),
) error {
	rows, err := fetch(ctx, ownerIDs)
	if err != nil {
		return &domain.AggregationError{Query: name, Err: err}
	}

	byOwner := make(map[int64][]T)
	for _, row := range rows {
		byOwner[row.OwnerID()] = append(byOwner[row.OwnerID()], row)
	}

	for i := range docs {
		group := byOwner[docs[i].Participant.ID]
		if group == nil {
			group = []T{}
		}
		set(&docs[i], group)
	}

	return nil
}
