package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"ivix-ratings/internal/domain"
	"ivix-ratings/internal/validation"
)

// DefaultCoverImage is used when a submission carries no cover image.
const DefaultCoverImage = "https://images.unsplash.com/photo-1550745165-9bc0b252726f?auto=format&fit=crop&w=600"

// Submission is a candidate game entry posted by a signed-in user.
type Submission struct {
	Title       string   `json:"title" validate:"required,min=2,max=200"`
	Genre       string   `json:"genre" validate:"required,genre"`
	Platforms   []string `json:"platform" validate:"min=1,dive,platform"`
	ReleaseYear int      `json:"releaseYear" validate:"gte=1970"`
	Description string   `json:"description" validate:"max=2000"`
	Image       string   `json:"image" validate:"omitempty,weburl"`
	Website     string   `json:"website" validate:"omitempty,weburl"`
	Trailer     string   `json:"trailer" validate:"omitempty,weburl"`
}

// Normalize trims text fields and drops blank or repeated platforms.
func (s Submission) Normalize() Submission {
	s.Title = strings.TrimSpace(s.Title)
	s.Genre = strings.TrimSpace(s.Genre)
	s.Description = strings.TrimSpace(s.Description)
	s.Image = strings.TrimSpace(s.Image)
	s.Website = strings.TrimSpace(s.Website)
	s.Trailer = strings.TrimSpace(s.Trailer)

	seen := make(map[string]struct{}, len(s.Platforms))
	platforms := make([]string, 0, len(s.Platforms))
	for _, p := range s.Platforms {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		platforms = append(platforms, p)
	}
	s.Platforms = platforms
	return s
}

// ValidateSubmission checks every field rule and reports all failures at once.
func ValidateSubmission(s Submission, now time.Time) error {
	errs := validation.FieldErrors{}
	if err := validation.Struct(s); err != nil {
		for k, v := range validation.ToDetails(err) {
			errs[k] = v
		}
	}
	if _, failed := errs["releaseYear"]; !failed && s.ReleaseYear > now.Year() {
		errs["releaseYear"] = "must be less than or equal to " + strconv.Itoa(now.Year())
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// NewGame validates s and builds a fresh catalog entry attributed to actor.
func NewGame(s Submission, actor *domain.User, now time.Time) (domain.Game, error) {
	if actor == nil {
		return domain.Game{}, ErrUnauthenticated
	}
	s = s.Normalize()
	if err := ValidateSubmission(s, now); err != nil {
		return domain.Game{}, err
	}

	image := s.Image
	if image == "" {
		image = DefaultCoverImage
	}
	submittedAt := now.UTC()
	return domain.Game{
		ID:          uuid.NewString(),
		Title:       s.Title,
		Genre:       s.Genre,
		Platforms:   s.Platforms,
		Rating:      0,
		ReviewCount: 0,
		Description: s.Description,
		ReleaseYear: s.ReleaseYear,
		Image:       image,
		Website:     s.Website,
		Trailer:     s.Trailer,
		SubmittedBy: actor.Username,
		SubmittedAt: &submittedAt,
		Reviews:     []domain.Review{},
	}, nil
}
