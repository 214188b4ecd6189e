package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/internal/application"
	"github.com/oksasatya/devconnector/internal/domain/entity"
	"github.com/oksasatya/devconnector/internal/interface/middleware"
	"github.com/oksasatya/devconnector/pkg/helpers"
	"github.com/oksasatya/devconnector/pkg/response"
)

// RepoLister fetches a GitHub user's repositories as raw JSON.
type RepoLister interface {
	Repos(ctx context.Context, username string) (json.RawMessage, error)
}

type ProfileHandler struct {
	Svc    *application.ProfileService
	GitHub RepoLister
	Logger *logrus.Logger
}

func NewProfileHandler(svc *application.ProfileService, gh RepoLister, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, GitHub: gh, Logger: logger}
}

type profileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" binding:"required,notblank"`
	GitHubUsername string `json:"githubusername"`
	Skills         string `json:"skills" binding:"required,notblank"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

// patch keeps only the fields that carry a value.
func (r profileRequest) patch() entity.ProfilePatch {
	return entity.ProfilePatch{
		Company:        entity.StrField(r.Company),
		Website:        entity.StrField(r.Website),
		Location:       entity.StrField(r.Location),
		Bio:            entity.StrField(r.Bio),
		Status:         entity.StrField(r.Status),
		GitHubUsername: entity.StrField(r.GitHubUsername),
		Skills:         entity.ParseSkills(r.Skills),
		Social: entity.SocialPatch{
			YouTube:   entity.StrField(r.YouTube),
			Twitter:   entity.StrField(r.Twitter),
			Facebook:  entity.StrField(r.Facebook),
			LinkedIn:  entity.StrField(r.LinkedIn),
			Instagram: entity.StrField(r.Instagram),
		},
	}
}

// DateRangeRequest is embedded by experience and education payloads.
type DateRangeRequest struct {
	From    string `json:"from" binding:"required,flexdate"`
	To      string `json:"to" binding:"omitempty,flexdate"`
	Current bool   `json:"current"`
}

// dateRange converts already validated dates. A current entry has no end.
func (r DateRangeRequest) dateRange() (entity.DateRange, error) {
	from, err := helpers.ParseDate(r.From)
	if err != nil {
		return entity.DateRange{}, err
	}
	dr := entity.DateRange{From: from, Current: r.Current}
	if !r.Current {
		if dr.To, err = helpers.ParseOptionalDate(r.To); err != nil {
			return entity.DateRange{}, err
		}
	}
	return dr, nil
}

type experienceRequest struct {
	Title       string `json:"title" binding:"required,notblank"`
	Company     string `json:"company" binding:"required,notblank"`
	Location    string `json:"location"`
	Description string `json:"description"`
	DateRangeRequest
}

type educationRequest struct {
	School       string `json:"school" binding:"required,notblank"`
	Degree       string `json:"degree" binding:"required,notblank"`
	FieldOfStudy string `json:"fieldofstudy" binding:"required,notblank"`
	Description  string `json:"description"`
	DateRangeRequest
}

func (h *ProfileHandler) profileFailure(c *gin.Context, err error, missingStatus int, missingMsg string) {
	switch {
	case errors.Is(err, application.ErrProfileNotFound):
		response.Error(c, missingStatus, missingMsg, nil)
	case errors.Is(err, entity.ErrExperienceNotFound):
		response.Error(c, http.StatusNotFound, "Experience not found", nil)
	case errors.Is(err, entity.ErrEducationNotFound):
		response.Error(c, http.StatusNotFound, "Education not found", nil)
	default:
		unexpected(c, h.Logger, err)
	}
}

// Me GET /api/profile/me
func (h *ProfileHandler) Me(c *gin.Context) {
	p, err := h.Svc.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.profileFailure(c, err, http.StatusBadRequest, "There is no profile for this user")
		return
	}
	response.JSON(c, p)
}

// Upsert POST /api/profile
func (h *ProfileHandler) Upsert(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	p, err := h.Svc.Upsert(c.Request.Context(), middleware.UserID(c), req.patch())
	if errors.Is(err, application.ErrUserNotFound) {
		response.Error(c, http.StatusUnauthorized, "User not found", nil)
		return
	}
	if err != nil {
		unexpected(c, h.Logger, err)
		return
	}
	response.JSON(c, p)
}

// List GET /api/profile
func (h *ProfileHandler) List(c *gin.Context) {
	ps, err := h.Svc.List(c.Request.Context())
	if err != nil {
		unexpected(c, h.Logger, err)
		return
	}
	response.JSON(c, ps)
}

// GetByUserID GET /api/profile/user/:user_id
func (h *ProfileHandler) GetByUserID(c *gin.Context) {
	p, err := h.Svc.GetByUserID(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		h.profileFailure(c, err, http.StatusBadRequest, "Profile not found")
		return
	}
	response.JSON(c, p)
}

// Delete DELETE /api/profile
func (h *ProfileHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteAccount(c.Request.Context(), middleware.UserID(c)); err != nil {
		unexpected(c, h.Logger, err)
		return
	}
	response.Ack(c, "User deleted")
}

// AddExperience PUT /api/profile/experience
func (h *ProfileHandler) AddExperience(c *gin.Context) {
	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	dr, err := req.dateRange()
	if err != nil {
		invalidPayload(c, err)
		return
	}
	p, err := h.Svc.AddExperience(c.Request.Context(), middleware.UserID(c), entity.Experience{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Description: req.Description,
		DateRange:   dr,
	})
	if err != nil {
		h.profileFailure(c, err, http.StatusNotFound, "Profile not found")
		return
	}
	response.JSON(c, p)
}

// RemoveExperience DELETE /api/profile/experience/:exp_id
func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	p, err := h.Svc.RemoveExperience(c.Request.Context(), middleware.UserID(c), c.Param("exp_id"))
	if err != nil {
		h.profileFailure(c, err, http.StatusNotFound, "Profile not found")
		return
	}
	response.JSON(c, p)
}

// AddEducation PUT /api/profile/education
func (h *ProfileHandler) AddEducation(c *gin.Context) {
	var req educationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	dr, err := req.dateRange()
	if err != nil {
		invalidPayload(c, err)
		return
	}
	p, err := h.Svc.AddEducation(c.Request.Context(), middleware.UserID(c), entity.Education{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		Description:  req.Description,
		DateRange:    dr,
	})
	if err != nil {
		h.profileFailure(c, err, http.StatusNotFound, "Profile not found")
		return
	}
	response.JSON(c, p)
}

// RemoveEducation DELETE /api/profile/education/:edu_id
func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	p, err := h.Svc.RemoveEducation(c.Request.Context(), middleware.UserID(c), c.Param("edu_id"))
	if err != nil {
		h.profileFailure(c, err, http.StatusNotFound, "Profile not found")
		return
	}
	response.JSON(c, p)
}

// GitHubRepos GET /api/profile/github/:username
func (h *ProfileHandler) GitHubRepos(c *gin.Context) {
	body, err := h.GitHub.Repos(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "No Github profile found", nil)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
