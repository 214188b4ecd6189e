package entity

import (
	"slices"
	"strings"
	"time"
)

// Profile is one-to-one with User. Optional string fields use "" for unset.
type Profile struct {
	ID             string       `json:"id"`
	UserID         string       `json:"-"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	Status         string       `json:"status"`
	GitHubUsername string       `json:"githubusername,omitempty"`
	Skills         []string     `json:"skills"`
	Social         Social       `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	CreatedAt      time.Time    `json:"date"`
	UpdatedAt      time.Time    `json:"-"`

	Version int64 `json:"-"`
}

type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// DateRange is open-ended: To is nil while Current is true or unknown.
type DateRange struct {
	From    time.Time  `json:"from"`
	To      *time.Time `json:"to,omitempty"`
	Current bool       `json:"current"`
}

type Experience struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	DateRange
}

type Education struct {
	ID           string `json:"id"`
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	Description  string `json:"description,omitempty"`
	DateRange
}

// ProfilePatch is a sparse update: nil pointers and nil slices leave the
// stored value untouched.
type ProfilePatch struct {
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GitHubUsername *string
	Skills         []string
	Social         SocialPatch
}

type SocialPatch struct {
	YouTube   *string
	Twitter   *string
	Facebook  *string
	LinkedIn  *string
	Instagram *string
}

// StrField returns a pointer to s, or nil when s is empty, so falsy input is
// omitted from a patch instead of clearing the stored value.
func StrField(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ParseSkills splits a comma separated list and trims each entry.
func ParseSkills(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func (p *Profile) Apply(patch ProfilePatch) {
	set(&p.Company, patch.Company)
	set(&p.Website, patch.Website)
	set(&p.Location, patch.Location)
	set(&p.Bio, patch.Bio)
	set(&p.Status, patch.Status)
	set(&p.GitHubUsername, patch.GitHubUsername)
	if patch.Skills != nil {
		p.Skills = slices.Clone(patch.Skills)
	}
	set(&p.Social.YouTube, patch.Social.YouTube)
	set(&p.Social.Twitter, patch.Social.Twitter)
	set(&p.Social.Facebook, patch.Social.Facebook)
	set(&p.Social.LinkedIn, patch.Social.LinkedIn)
	set(&p.Social.Instagram, patch.Social.Instagram)
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (p *Profile) Normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
}

func (p *Profile) AddExperience(e Experience) {
	p.Experience = slices.Insert(p.Experience, 0, e)
}

func (p *Profile) RemoveExperience(id string) error {
	idx := slices.IndexFunc(p.Experience, func(e Experience) bool { return e.ID == id })
	if idx == -1 {
		return ErrExperienceNotFound
	}
	p.Experience = slices.Delete(p.Experience, idx, idx+1)
	return nil
}

func (p *Profile) AddEducation(e Education) {
	p.Education = slices.Insert(p.Education, 0, e)
}

func (p *Profile) RemoveEducation(id string) error {
	idx := slices.IndexFunc(p.Education, func(e Education) bool { return e.ID == id })
	if idx == -1 {
		return ErrEducationNotFound
	}
	p.Education = slices.Delete(p.Education, idx, idx+1)
	return nil
}

func (p *Profile) Clone() *Profile {
	cp := *p
	cp.Skills = slices.Clone(p.Skills)
	cp.Experience = cloneWithRange(p.Experience, func(e *Experience) *DateRange { return &e.DateRange })
	cp.Education = cloneWithRange(p.Education, func(e *Education) *DateRange { return &e.DateRange })
	cp.Normalize()
	return &cp
}

// cloneWithRange copies entries and detaches each DateRange.To pointer.
func cloneWithRange[T any](in []T, rng func(*T) *DateRange) []T {
	out := slices.Clone(in)
	for i := range out {
		r := rng(&out[i])
		if r.To != nil {
			to := *r.To
			r.To = &to
		}
	}
	return out
}
