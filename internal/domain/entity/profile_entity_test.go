package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSkills(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, ParseSkills("a, b ,c"))
	assert.Equal(t, []string{"Go"}, ParseSkills("Go"))
	assert.Nil(t, ParseSkills(""))
}

func TestStrField(t *testing.T) {
	assert.Nil(t, StrField(""))
	require.NotNil(t, StrField("x"))
	assert.Equal(t, "x", *StrField("x"))
}

func TestProfileApply(t *testing.T) {
	p := &Profile{}
	p.Apply(ProfilePatch{
		Status: StrField("Developer"),
		Skills: ParseSkills("a, b ,c"),
		Social: SocialPatch{Twitter: StrField("https://twitter.com/me")},
	})
	assert.Equal(t, "Developer", p.Status)
	assert.Equal(t, []string{"a", "b", "c"}, p.Skills)
	assert.Equal(t, "https://twitter.com/me", p.Social.Twitter)
	assert.Empty(t, p.Company)

	t.Run("absent fields keep their stored value", func(t *testing.T) {
		p.Apply(ProfilePatch{Bio: StrField("hi"), Social: SocialPatch{YouTube: StrField("yt")}})
		assert.Equal(t, "hi", p.Bio)
		assert.Equal(t, "Developer", p.Status)
		assert.Equal(t, []string{"a", "b", "c"}, p.Skills)
		assert.Equal(t, "https://twitter.com/me", p.Social.Twitter)
		assert.Equal(t, "yt", p.Social.YouTube)
	})
}

func TestProfileExperience(t *testing.T) {
	p := &Profile{}
	p.Normalize()
	p.AddExperience(Experience{ID: "e1", Title: "Dev"})
	p.AddExperience(Experience{ID: "e2", Title: "Lead"})
	require.Equal(t, "e2", p.Experience[0].ID)

	require.ErrorIs(t, p.RemoveExperience("missing"), ErrExperienceNotFound)
	assert.Len(t, p.Experience, 2)

	require.NoError(t, p.RemoveExperience("e1"))
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "e2", p.Experience[0].ID)
}

func TestProfileEducation(t *testing.T) {
	p := &Profile{}
	p.AddEducation(Education{ID: "d1", School: "MIT"})

	require.ErrorIs(t, p.RemoveEducation("missing"), ErrEducationNotFound)
	require.NoError(t, p.RemoveEducation("d1"))
	assert.Empty(t, p.Education)
}

func TestProfileCloneDetachesDates(t *testing.T) {
	to := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &Profile{Skills: []string{"go"}}
	p.AddExperience(Experience{ID: "e1", DateRange: DateRange{From: to.AddDate(-1, 0, 0), To: &to}})

	cp := p.Clone()
	*cp.Experience[0].To = to.AddDate(5, 0, 0)
	cp.Skills[0] = "rust"

	assert.Equal(t, to, *p.Experience[0].To)
	assert.Equal(t, "go", p.Skills[0])
}

func TestProfileJSONOmitsUnsetOptionalFields(t *testing.T) {
	p := &Profile{ID: "p1", UserID: "u1", Status: "Developer", Skills: []string{"a"}}
	p.Normalize()

	b, err := json.Marshal(p)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{"company", "website", "location", "bio", "githubusername"} {
		assert.NotContains(t, m, k)
	}
	assert.NotContains(t, m, "user_id")
	assert.Equal(t, map[string]any{}, m["social"])
	assert.Equal(t, []any{}, m["experience"])
}
