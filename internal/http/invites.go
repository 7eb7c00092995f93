package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/WalesndWebs/project-prodigyloan/internal/domain"
	"github.com/WalesndWebs/project-prodigyloan/internal/queue"
)

type createInviteReq struct {
	Email      string `json:"email"`
	Department string `json:"department"`
}

// CreateInvite godoc
// @Summary Issue a single-use admin invite (7-day expiry)
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body createInviteReq true "invite"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /api/admin/invites [post]
func (h *Handler) CreateInvite(c *gin.Context) {
	var in createInviteReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !emailRegex.MatchString(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		return
	}
	var dept domain.Department
	if in.Department != "" {
		d, ok := domain.ParseDepartment(in.Department)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown department"})
			return
		}
		dept = d
	}

	st := currentState(c)
	inv := &domain.AdminInvite{
		ID:         uuid.NewString(),
		Email:      email,
		Token:      uuid.NewString() + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10),
		Department: dept,
		InvitedBy:  st.Identity.ID,
	}
	if err := h.Store.CreateInvite(c.Request.Context(), inv); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invite create failed"})
		return
	}

	go h.Events.Publish(c.Request.Context(), h.Exchange, queue.KeyInviteCreated,
		queue.InviteCreated{InviteID: inv.ID, Email: inv.Email, InvitedBy: inv.InvitedBy, ExpiresAt: inv.ExpiresAt},
		requestID(c))

	c.JSON(http.StatusCreated, gin.H{
		"invite":     inv,
		"invite_url": "/signup?invite=" + inv.Token,
	})
}

func (h *Handler) ListInvites(c *gin.Context) {
	invites, err := h.Store.ListInvites(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invite list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invites": invites})
}

// RevokeInvite deletes an unconsumed invite; the token stops working
// immediately.
func (h *Handler) RevokeInvite(c *gin.Context) {
	err := h.Store.DeleteInvite(c.Request.Context(), c.Param("id"))
	if err == domain.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "invite not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invite delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}
