package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vidscope/internal/auth"
	"vidscope/internal/models"
	"vidscope/internal/service"
	"vidscope/internal/store"
	"vidscope/shared/logger"
	"vidscope/shared/pagination"
	"vidscope/shared/platform"
)

// Users is the slice of the store the auth handler needs.
type Users interface {
	UserByEmail(email string) (*models.User, error)
}

type Handlers struct {
	svc    *service.Service
	users  Users
	tokens TokenIssuer
	log    *logger.Logger
}

// TokenIssuer issues session tokens after a successful login.
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}

func NewHandlers(svc *service.Service, users Users, tokens TokenIssuer, log *logger.Logger) *Handlers {
	return &Handlers{svc: svc, users: users, tokens: tokens, log: log.With("component", "http")}
}

func (h *Handlers) health(c *gin.Context) {
	respondOK(c, gin.H{"status": "ok"})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", "email and password are required")
		return
	}

	user, err := h.users.UserByEmail(req.Email)
	if err != nil || !checkPassword(user, req.Password) {
		respondError(c, http.StatusUnauthorized, "unauthenticated", "invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		h.log.Error("token issue failed", "error", err)
		respondError(c, http.StatusInternalServerError, "internal", "something went wrong")
		return
	}

	respondOK(c, gin.H{"token": token, "user": models.OwnerDirectoryEntry{
		ID: user.ID, Email: user.Email, Name: user.Name,
	}})
}

type createRoundRequest struct {
	Keyword string `json:"keyword" binding:"required"`
	Limit   int64  `json:"limit"`
}

func (h *Handlers) createRound(c *gin.Context) {
	var req createRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", "keyword is required")
		return
	}

	round, videos, err := h.svc.RunRound(c.Request.Context(), c.GetString(ctxUserID), req.Keyword, req.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}

	respondOK(c, gin.H{"round": round, "videos": videos})
}

func (h *Handlers) listRounds(c *gin.Context) {
	page, limit := pageParams(c)
	rounds, meta, err := h.svc.Rounds(c.GetString(ctxUserID), page, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondOK(c, gin.H{"rounds": rounds, "pagination": meta})
}

func (h *Handlers) listVideos(c *gin.Context) {
	page, limit := pageParams(c)
	videos, meta, err := h.svc.AnnotatedVideos(c.GetString(ctxUserID), false, page, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondOK(c, gin.H{"videos": videos, "pagination": meta})
}

func (h *Handlers) listAllVideos(c *gin.Context) {
	page, limit := pageParams(c)
	videos, meta, err := h.svc.AnnotatedVideos("", true, page, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondOK(c, gin.H{"videos": videos, "pagination": meta})
}

func (h *Handlers) videoDetail(c *gin.Context) {
	id, ok := videoID(c)
	if !ok {
		return
	}
	detail, err := h.svc.VideoDetail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondOK(c, detail)
}

func (h *Handlers) videoTranscript(c *gin.Context) {
	id, ok := videoID(c)
	if !ok {
		return
	}
	result, err := h.svc.Transcript(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondOK(c, result)
}

func (h *Handlers) videoNarrative(c *gin.Context) {
	id, ok := videoID(c)
	if !ok {
		return
	}
	result, err := h.svc.Narrative(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondOK(c, result)
}

// fail maps pipeline errors onto the response taxonomy: missing records and
// upstream 404s become 404, everything else a generic 500. Degraded
// sub-fetches never reach here; they are placeholders by the time the
// service returns.
func (h *Handlers) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, platform.ErrNotFound):
		respondError(c, http.StatusNotFound, "not_found", "resource not found")
	default:
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, "internal", "something went wrong")
	}
}

func pageParams(c *gin.Context) (page, limit int) {
	p := pagination.FromQuery(c.Query("page"), c.Query("limit"), 0)
	return p.Page, p.Limit
}

func checkPassword(user *models.User, password string) bool {
	return user != nil && auth.CheckPassword(user.PasswordHash, password)
}

func videoID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", "invalid video id")
		return 0, false
	}
	return uint(id), true
}
