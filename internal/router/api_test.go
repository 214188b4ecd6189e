package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/oksasatya/devconnector/internal/application"
	ghinfra "github.com/oksasatya/devconnector/internal/infrastructure/github"
	"github.com/oksasatya/devconnector/internal/interface/middleware"
	"github.com/oksasatya/devconnector/pkg/helpers"
	"github.com/oksasatya/devconnector/pkg/metrics"
	"github.com/oksasatya/devconnector/pkg/validation"
)

type stubRepos struct{}

func (stubRepos) Repos(_ context.Context, username string) (json.RawMessage, error) {
	if username == "octocat" {
		return json.RawMessage(`[{"name":"hello-world"}]`), nil
	}
	return nil, ghinfra.ErrNotFound
}

type envelope struct {
	Status    int               `json:"status"`
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	RequestID string            `json:"request_id"`
	Error     map[string]string `json:"error"`
}

type APISuite struct {
	suite.Suite
	engine  *gin.Engine
	metrics *metrics.Metrics
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

func (s *APISuite) SetupTest() {
	logger := helpers.NewDiscardLogger()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	stores := MemoryStores()
	s.metrics = metrics.New()

	svcs := Services{
		Users:    application.NewUserService(stores.Users, jwt, nil, nil, logger, "devconnector"),
		Profiles: application.NewProfileService(stores.Profiles, stores.Users, s.metrics, logger),
		Posts:    application.NewPostService(stores.Posts, stores.Users, nil, nil, s.metrics, logger, "devconnector"),
		GitHub:   stubRepos{},
	}

	s.engine = gin.New()
	s.engine.Use(middleware.RequestIDMiddleware(), middleware.Metrics(s.metrics))
	reg := NewRegistry(s.engine)
	RegisterModules(reg, NewDeps(svcs, jwt, nil, s.metrics, logger))
	reg.RegisterAll()
}

func (s *APISuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) decode(rec *httptest.ResponseRecorder, dst any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func (s *APISuite) expectError(rec *httptest.ResponseRecorder, status int, message string) envelope {
	s.Require().Equal(status, rec.Code, rec.Body.String())
	var env envelope
	s.decode(rec, &env)
	s.Equal(status, env.Status)
	s.False(env.Success)
	s.Equal(message, env.Message)
	s.NotEmpty(env.RequestID)
	return env
}

func (s *APISuite) register(name, email string) string {
	rec := s.do(http.MethodPost, "/api/users", "", map[string]string{"name": name, "email": email, "password": "secret1"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	s.decode(rec, &out)
	s.Require().NotEmpty(out.Token)
	return out.Token
}

func (s *APISuite) userID(token string) string {
	rec := s.do(http.MethodGet, "/api/auth", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var u struct {
		ID string `json:"id"`
	}
	s.decode(rec, &u)
	return u.ID
}

func (s *APISuite) createProfile(token string) {
	rec := s.do(http.MethodPost, "/api/profile", token, map[string]any{"status": "Developer", "skills": "go"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
}

func (s *APISuite) TestRegisterAndLogin() {
	token := s.register("Ann", "Ann@Example.com")

	s.expectError(s.do(http.MethodPost, "/api/users", "", map[string]string{"name": "Ann", "email": "ann@example.com", "password": "secret1"}),
		http.StatusBadRequest, "User already exists")

	env := s.expectError(s.do(http.MethodPost, "/api/users", "", map[string]string{"name": " ", "email": "nope", "password": "123"}),
		http.StatusBadRequest, "invalid payload")
	s.Contains(env.Error, "name")
	s.Contains(env.Error, "email")
	s.Contains(env.Error, "password")

	rec := s.do(http.MethodPost, "/api/auth", "", map[string]string{"email": "ann@example.com", "password": "secret1"})
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"token"`)

	s.expectError(s.do(http.MethodPost, "/api/auth", "", map[string]string{"email": "ann@example.com", "password": "wrong!!"}),
		http.StatusBadRequest, "Invalid Credentials")
	s.expectError(s.do(http.MethodPost, "/api/auth", "", map[string]string{"email": "bob@example.com", "password": "secret1"}),
		http.StatusBadRequest, "Invalid Credentials")

	rec = s.do(http.MethodGet, "/api/auth", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var me map[string]any
	s.decode(rec, &me)
	s.Equal("ann@example.com", me["email"])
	s.NotContains(me, "password")
	s.True(strings.HasPrefix(me["avatar"].(string), "https://www.gravatar.com/avatar/"))
}

func (s *APISuite) TestAuthRequired() {
	s.expectError(s.do(http.MethodGet, "/api/auth", "", nil), http.StatusUnauthorized, "No token, authorization denied!")
	s.expectError(s.do(http.MethodGet, "/api/posts", "bogus", nil), http.StatusUnauthorized, "Invalid Token, Access Denied!")
	s.expectError(s.do(http.MethodPost, "/api/profile", "", map[string]string{}), http.StatusUnauthorized, "No token, authorization denied!")
}

func (s *APISuite) TestMalformedJSON() {
	env := s.expectError(s.do(http.MethodPost, "/api/users", "", `{"name":`), http.StatusBadRequest, "invalid payload")
	s.Equal("invalid json", env.Error["payload"])
}

func (s *APISuite) TestProfileLifecycle() {
	token := s.register("Ann", "ann@example.com")
	uid := s.userID(token)

	s.expectError(s.do(http.MethodGet, "/api/profile/me", token, nil), http.StatusBadRequest, "There is no profile for this user")

	env := s.expectError(s.do(http.MethodPost, "/api/profile", token, map[string]string{"skills": "go"}), http.StatusBadRequest, "invalid payload")
	s.Contains(env.Error, "status")

	rec := s.do(http.MethodPost, "/api/profile", token, map[string]string{
		"status": "Developer", "skills": " go ,sql", "website": "https://ann.dev", "twitter": "@ann",
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var p struct {
		Status  string            `json:"status"`
		Website string            `json:"website"`
		Skills  []string          `json:"skills"`
		Social  map[string]string `json:"social"`
		User    struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
	}
	s.decode(rec, &p)
	s.Equal([]string{"go", "sql"}, p.Skills)
	s.Equal("Ann", p.User.Name)
	s.Equal(uid, p.User.ID)

	// Omitted fields keep their stored values on update.
	rec = s.do(http.MethodPost, "/api/profile", token, map[string]string{"status": "Lead", "skills": "rust"})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &p)
	s.Equal("Lead", p.Status)
	s.Equal("https://ann.dev", p.Website)
	s.Equal("@ann", p.Social["twitter"])
	s.Equal([]string{"rust"}, p.Skills)

	rec = s.do(http.MethodGet, "/api/profile", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var all []map[string]any
	s.decode(rec, &all)
	s.Len(all, 1)

	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/profile/user/"+uid, "", nil).Code)
	s.expectError(s.do(http.MethodGet, "/api/profile/user/nobody", "", nil), http.StatusBadRequest, "Profile not found")
}

func (s *APISuite) TestExperienceAndEducation() {
	token := s.register("Ann", "ann@example.com")

	exp := map[string]any{"title": "Engineer", "company": "Acme", "from": "2020-01-01", "to": "2021-01-01", "current": true}
	s.expectError(s.do(http.MethodPut, "/api/profile/experience", token, exp), http.StatusNotFound, "Profile not found")

	s.createProfile(token)

	env := s.expectError(s.do(http.MethodPut, "/api/profile/experience", token, map[string]any{"title": "Engineer", "company": "Acme", "from": "soon"}),
		http.StatusBadRequest, "invalid payload")
	s.Contains(env.Error, "from")

	rec := s.do(http.MethodPut, "/api/profile/experience", token, exp)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var p struct {
		Experience []map[string]any `json:"experience"`
		Education  []map[string]any `json:"education"`
	}
	s.decode(rec, &p)
	s.Require().Len(p.Experience, 1)
	s.NotContains(p.Experience[0], "to")
	s.Equal(true, p.Experience[0]["current"])
	expID := p.Experience[0]["id"].(string)

	rec = s.do(http.MethodPut, "/api/profile/experience", token, map[string]any{"title": "Intern", "company": "Beta", "from": "2018-06-01", "to": "2019-06-01"})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &p)
	s.Require().Len(p.Experience, 2)
	s.Equal("Intern", p.Experience[0]["title"])

	s.expectError(s.do(http.MethodDelete, "/api/profile/experience/missing", token, nil), http.StatusNotFound, "Experience not found")
	rec = s.do(http.MethodDelete, "/api/profile/experience/"+expID, token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &p)
	s.Require().Len(p.Experience, 1)
	s.Equal("Intern", p.Experience[0]["title"])

	edu := map[string]any{"school": "MIT", "degree": "BSc", "fieldofstudy": "CS", "from": "2014-09-01T00:00:00Z"}
	rec = s.do(http.MethodPut, "/api/profile/education", token, edu)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.decode(rec, &p)
	s.Require().Len(p.Education, 1)
	eduID := p.Education[0]["id"].(string)

	s.expectError(s.do(http.MethodDelete, "/api/profile/education/missing", token, nil), http.StatusNotFound, "Education not found")
	rec = s.do(http.MethodDelete, "/api/profile/education/"+eduID, token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &p)
	s.Empty(p.Education)
}

func (s *APISuite) TestGitHubRepos() {
	rec := s.do(http.MethodGet, "/api/profile/github/octocat", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[{"name":"hello-world"}]`, rec.Body.String())

	s.expectError(s.do(http.MethodGet, "/api/profile/github/ghost", "", nil), http.StatusNotFound, "No Github profile found")
}

// Two users: the author posts, the other likes, tries to delete and comments.
func (s *APISuite) TestPostInteractions() {
	alice := s.register("Alice", "alice@example.com")
	bob := s.register("Bob", "bob@example.com")
	bobID := s.userID(bob)

	s.expectError(s.do(http.MethodPost, "/api/posts", alice, map[string]string{"text": "  "}), http.StatusBadRequest, "invalid payload")

	rec := s.do(http.MethodPost, "/api/posts", alice, map[string]string{"text": "Hello devs"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var post struct {
		ID       string           `json:"id"`
		Name     string           `json:"name"`
		Likes    []map[string]any `json:"likes"`
		Comments []map[string]any `json:"comments"`
	}
	s.decode(rec, &post)
	s.Equal("Alice", post.Name)
	s.NotNil(post.Likes)
	s.NotNil(post.Comments)

	rec = s.do(http.MethodPut, "/api/posts/like/"+post.ID, bob, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var likes []map[string]any
	s.decode(rec, &likes)
	s.Require().Len(likes, 1)
	s.Equal(bobID, likes[0]["user"])

	s.expectError(s.do(http.MethodPut, "/api/posts/like/"+post.ID, bob, nil), http.StatusBadRequest, "Post already liked")
	s.expectError(s.do(http.MethodDelete, "/api/posts/"+post.ID, bob, nil), http.StatusUnauthorized, "User not authorized")

	rec = s.do(http.MethodGet, "/api/posts/"+post.ID, bob, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &post)
	s.Len(post.Likes, 1)

	rec = s.do(http.MethodPut, "/api/posts/unlike/"+post.ID, bob, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &likes)
	s.Empty(likes)
	s.expectError(s.do(http.MethodPut, "/api/posts/unlike/"+post.ID, bob, nil), http.StatusBadRequest, "Post has not yet been liked")

	rec = s.do(http.MethodPost, "/api/posts/comment/"+post.ID, bob, map[string]string{"text": "Nice"})
	s.Require().Equal(http.StatusOK, rec.Code)
	var comments []map[string]any
	s.decode(rec, &comments)
	s.Require().Len(comments, 1)
	s.Equal("Bob", comments[0]["name"])
	commentID := comments[0]["id"].(string)

	s.expectError(s.do(http.MethodDelete, "/api/posts/comment/"+post.ID+"/"+commentID, alice, nil), http.StatusUnauthorized, "User not authorized")
	s.expectError(s.do(http.MethodDelete, "/api/posts/comment/"+post.ID+"/missing", bob, nil), http.StatusBadRequest, "Comment does not exist")
	rec = s.do(http.MethodDelete, "/api/posts/comment/"+post.ID+"/"+commentID, bob, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &comments)
	s.Empty(comments)

	rec = s.do(http.MethodDelete, "/api/posts/"+post.ID, alice, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"msg":"Post removed"}`, rec.Body.String())

	s.expectError(s.do(http.MethodGet, "/api/posts/"+post.ID, alice, nil), http.StatusBadRequest, "Post not found")
	s.expectError(s.do(http.MethodPut, "/api/posts/like/"+post.ID, bob, nil), http.StatusNotFound, "Post not found")
	s.expectError(s.do(http.MethodDelete, "/api/posts/"+post.ID, alice, nil), http.StatusNotFound, "Post not found")
}

func (s *APISuite) TestPostListNewestFirst() {
	token := s.register("Ann", "ann@example.com")
	for _, text := range []string{"first", "second"} {
		s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/posts", token, map[string]string{"text": text}).Code)
		time.Sleep(2 * time.Millisecond)
	}

	rec := s.do(http.MethodGet, "/api/posts", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var posts []struct {
		Text string `json:"text"`
	}
	s.decode(rec, &posts)
	s.Require().Len(posts, 2)
	s.Equal("second", posts[0].Text)
}

func (s *APISuite) TestSearchWithoutIndex() {
	token := s.register("Ann", "ann@example.com")
	for _, q := range []string{"", "?q=go"} {
		rec := s.do(http.MethodGet, "/api/posts/search"+q, token, nil)
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`[]`, rec.Body.String())
	}
}

func (s *APISuite) TestDeleteAccountKeepsPosts() {
	ann := s.register("Ann", "ann@example.com")
	bob := s.register("Bob", "bob@example.com")
	s.createProfile(ann)
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/posts", ann, map[string]string{"text": "still here"}).Code)

	rec := s.do(http.MethodDelete, "/api/profile", ann, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"msg":"User deleted"}`, rec.Body.String())

	// The token still verifies but the account is gone.
	s.expectError(s.do(http.MethodGet, "/api/auth", ann, nil), http.StatusNotFound, "User not found")
	s.expectError(s.do(http.MethodPost, "/api/posts", ann, map[string]string{"text": "again"}), http.StatusUnauthorized, "User not found")

	rec = s.do(http.MethodGet, "/api/profile", "", nil)
	s.JSONEq(`[]`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/posts", bob, nil)
	var posts []map[string]any
	s.decode(rec, &posts)
	s.Len(posts, 1)

	// Deleting twice is harmless.
	s.Equal(http.StatusOK, s.do(http.MethodDelete, "/api/profile", ann, nil).Code)
}

func (s *APISuite) TestProfileUpsertAfterAccountDeleted() {
	ann := s.register("Ann", "ann@example.com")
	s.Require().Equal(http.StatusOK, s.do(http.MethodDelete, "/api/profile", ann, nil).Code)

	body := map[string]string{"status": "Developer", "skills": "go"}
	s.expectError(s.do(http.MethodPost, "/api/profile", ann, body), http.StatusUnauthorized, "User not found")

	rec := s.do(http.MethodGet, "/api/profile", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())
}

func (s *APISuite) TestAvatarUploadWithoutStorage() {
	token := s.register("Ann", "ann@example.com")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="avatar"; filename="me.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := w.CreatePart(hdr)
	s.Require().NoError(err)
	_, _ = part.Write([]byte("\x89PNG"))
	s.Require().NoError(w.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/users/avatar", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set(middleware.TokenHeader, token)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	s.expectError(rec, http.StatusServiceUnavailable, "Avatar storage is not configured")
}

func (s *APISuite) TestAvatarUploadTooLarge() {
	token := s.register("Ann", "ann@example.com")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="avatar"; filename="big.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := w.CreatePart(hdr)
	s.Require().NoError(err)
	_, _ = part.Write(bytes.Repeat([]byte{0}, 3<<20))
	s.Require().NoError(w.Close())
	body := buf.Bytes()

	for _, length := range []int64{int64(len(body)), -1} {
		req := httptest.NewRequest(http.MethodPut, "/api/users/avatar", bytes.NewReader(body))
		req.ContentLength = length // -1 reads like a chunked upload
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set(middleware.TokenHeader, token)
		rec := httptest.NewRecorder()
		s.engine.ServeHTTP(rec, req)

		s.expectError(rec, http.StatusBadRequest, "avatar must be at most 2MB")
	}
}

func (s *APISuite) TestMetricsEndpoint() {
	token := s.register("Ann", "ann@example.com")
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/posts", token, map[string]string{"text": "hi"}).Code)

	rec := s.do(http.MethodGet, "/api/metrics", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "devconnector_posts_created_total 1")
	s.Contains(rec.Body.String(), `route="/api/posts"`)
}

func (s *APISuite) TestUnknownRoute() {
	s.expectError(s.do(http.MethodGet, "/api/nowhere", "", nil), http.StatusNotFound, "Route not found")
}
