package http

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/WalesndWebs/project-prodigyloan/internal/domain"
	"github.com/WalesndWebs/project-prodigyloan/internal/identity"
	"github.com/WalesndWebs/project-prodigyloan/internal/log"
	"github.com/WalesndWebs/project-prodigyloan/internal/metrics"
	"github.com/WalesndWebs/project-prodigyloan/internal/queue"
	"github.com/WalesndWebs/project-prodigyloan/internal/repo"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type Handler struct {
	Store           *repo.Store
	Provider        *identity.LocalProvider
	Redis           *repo.Redis
	RateLimitPerMin int
	Events          queue.Publisher
	Exchange        string
}

func NewHandler(store *repo.Store, provider *identity.LocalProvider, rds *repo.Redis, rlPerMin int, pub queue.Publisher, exchange string) *Handler {
	return &Handler{
		Store:           store,
		Provider:        provider,
		Redis:           rds,
		RateLimitPerMin: rlPerMin,
		Events:          pub,
		Exchange:        exchange,
	}
}

type signupReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	IsBorrower  bool   `json:"is_borrower"`
	IsInvestor  bool   `json:"is_investor"`
	InviteToken string `json:"invite_token"`
}

type sessionResp struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
}

// Signup godoc
// @Summary Sign up as borrower and/or investor; an invite token onboards an admin
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body signupReq true "signup"
// @Success 201 {object} sessionResp
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var in signupReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !emailRegex.MatchString(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		return
	}
	if len(in.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
		return
	}
	if !in.IsBorrower && !in.IsInvestor && in.InviteToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "select at least one role"})
		return
	}

	ctx := c.Request.Context()

	sess, err := h.Provider.SignUp(ctx, email, in.Password)
	if err == domain.ErrEmailTaken {
		// the account may already exist from an earlier, interrupted signup;
		// accept it if the supplied credentials check out
		sess, err = h.Provider.SignInWithPassword(ctx, email, in.Password)
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": domain.ErrEmailTaken.Error()})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		return
	}
	uid := sess.Identity.ID

	// invite redemption: consumed at most once, only by the invited email,
	// binding role=admin and the invite's department to this signup
	var invite *domain.AdminInvite
	if in.InviteToken != "" {
		invite, err = h.Store.ConsumeInvite(ctx, in.InviteToken, email)
		if err == domain.ErrInviteInvalid {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "invite lookup failed"})
			return
		}
	}

	profile, err := h.mergeProfile(c, uid, email, &in, invite)
	if err != nil {
		if invite != nil {
			// the admin grant did not land; put the invite back so the
			// invitee can retry
			if relErr := h.Store.ReleaseInvite(ctx, invite.ID); relErr != nil {
				log.L().Error("invite release failed",
					zap.String("invite", invite.ID), zap.Error(relErr))
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile save failed"})
		return
	}

	go h.Events.Publish(ctx, h.Exchange, queue.KeyUserRegistered,
		queue.UserRegistered{UserID: uid, Email: email}, requestID(c))

	log.L().Info("user signed up",
		zap.String("uid", uid), zap.String("role", string(profile.Role)))
	c.JSON(http.StatusCreated, sessionResp{
		Access: sess.Access, Refresh: sess.Refresh, UserID: uid, Email: email,
	})
}

// mergeProfile upserts the profile row, OR-ing capability flags with any
// existing row and keeping an existing admin role sticky.
func (h *Handler) mergeProfile(c *gin.Context, uid, email string, in *signupReq, invite *domain.AdminInvite) (*domain.Profile, error) {
	ctx := c.Request.Context()
	existing, err := h.Store.ProfileByID(ctx, uid)
	if err != nil && err != domain.ErrNotFound {
		return nil, err
	}

	p := &domain.Profile{
		ID:         uid,
		Email:      email,
		FullName:   strings.TrimSpace(in.FullName),
		Phone:      strings.TrimSpace(in.Phone),
		IsBorrower: in.IsBorrower,
		IsInvestor: in.IsInvestor,
	}
	if existing != nil {
		p.IsBorrower = p.IsBorrower || existing.IsBorrower
		p.IsInvestor = p.IsInvestor || existing.IsInvestor
		p.Role = existing.Role
		p.Department = existing.Department
	}
	switch {
	case invite != nil:
		p.Role = domain.RoleAdmin
		if invite.Department != "" {
			p.Department = invite.Department
		}
	case p.Role != "":
		// keep what the row already had
	case in.IsBorrower:
		p.Role = domain.RoleBorrower
	case in.IsInvestor:
		p.Role = domain.RoleInvestor
	default:
		p.Role = domain.RoleBorrower
	}

	if err := h.Store.UpsertProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginResp struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginReq true "login"
// @Success 200 {object} loginResp
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	sess, viaFallback, err := identity.SignInWithFallback(c.Request.Context(), h.Provider, email, in.Password)
	if err != nil {
		metrics.SignInAttempts.WithLabelValues("failed").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if viaFallback {
		metrics.SignInAttempts.WithLabelValues("fallback_ok").Inc()
	} else {
		metrics.SignInAttempts.WithLabelValues("ok").Inc()
	}

	go h.Events.Publish(c.Request.Context(), h.Exchange, queue.KeyUserLoggedIn,
		queue.UserLoggedIn{UserID: sess.Identity.ID, Email: email}, requestID(c))

	c.JSON(http.StatusOK, loginResp{Access: sess.Access, Refresh: sess.Refresh})
}

type refreshReq struct {
	Refresh string `json:"refresh"`
}

func (h *Handler) Refresh(c *gin.Context) {
	var in refreshReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Refresh == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	sess, err := h.Provider.Refresh(c.Request.Context(), in.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": sess.Access})
}

type logoutReq struct {
	Refresh string `json:"refresh"`
}

func (h *Handler) Logout(c *gin.Context) {
	var in logoutReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Refresh == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := h.Provider.SignOut(c.Request.Context(), in.Refresh); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign out failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary Current profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.Profile
// @Failure 401 {object} map[string]string
// @Router /api/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	st := currentState(c)
	c.JSON(http.StatusOK, st.Profile)
}

func (h *Handler) Healthz(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
