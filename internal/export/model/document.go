package model

import (
	"encoding/json"
	"strings"
)

// Collection names as they appear in include flags, JSON output, and
// flattened column names (<name>Count / <name>Summary).
const (
	CollectionEducation      = "education"
	CollectionSkills         = "skills"
	CollectionCertifications = "certifications"
	CollectionTraining       = "training"
	CollectionBusinesses     = "businesses"
	CollectionPortfolio      = "portfolio"
	CollectionSocials        = "socials"
)

// CollectionNames lists every related-collection type in a fixed order.
var CollectionNames = []string{
	CollectionEducation,
	CollectionSkills,
	CollectionCertifications,
	CollectionTraining,
	CollectionBusinesses,
	CollectionPortfolio,
	CollectionSocials,
}

// AggregatedDocument is one participant plus the related-collection rows
// that were requested for the export. A nil slice means the collection was
// not requested; a non-nil empty slice means it was requested and the
// participant has no rows. Documents exist in memory only.
type AggregatedDocument struct {
	Participant    Participant
	Education      []EducationRecord
	Skills         []SkillAssignment
	Certifications []Certification
	Training       []TrainingAssignment
	Businesses     []BusinessLink
	Portfolio      []PortfolioProject
	Socials        []SocialLink
}

// CollectionView is a format-agnostic read view over one attached
// collection, used by the serializers. Items is nil when the collection was
// not requested for the export.
type CollectionView struct {
	Name      string
	Items     any
	Len       int
	Summaries []string
}

// SummaryText joins the per-row digests with the fixed "; " delimiter.
func (v CollectionView) SummaryText() string {
	return strings.Join(v.Summaries, "; ")
}

func collectionView[T interface{ Summary() string }](name string, items []T) CollectionView {
	v := CollectionView{Name: name}
	if items == nil {
		return v
	}
	v.Items = items
	v.Len = len(items)
	v.Summaries = make([]string, len(items))
	for i, item := range items {
		v.Summaries[i] = item.Summary()
	}
	return v
}

// Collections returns a view per related-collection type, in the fixed
// CollectionNames order, including the ones that were not requested.
func (d *AggregatedDocument) Collections() []CollectionView {
	return []CollectionView{
		collectionView(CollectionEducation, d.Education),
		collectionView(CollectionSkills, d.Skills),
		collectionView(CollectionCertifications, d.Certifications),
		collectionView(CollectionTraining, d.Training),
		collectionView(CollectionBusinesses, d.Businesses),
		collectionView(CollectionPortfolio, d.Portfolio),
		collectionView(CollectionSocials, d.Socials),
	}
}

// MarshalJSON flattens the document into a single object: the participant's
// fields plus one named array per requested collection. Collections that
// were not requested are omitted entirely.
func (d AggregatedDocument) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(d.Participant)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}

	for _, c := range d.Collections() {
		if c.Items == nil {
			continue
		}
		encoded, err := json.Marshal(c.Items)
		if err != nil {
			return nil, err
		}
		merged[c.Name] = encoded
	}

	return json.Marshal(merged)
}
