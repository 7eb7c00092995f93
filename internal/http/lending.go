package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/WalesndWebs/project-prodigyloan/internal/domain"
	"github.com/WalesndWebs/project-prodigyloan/internal/log"
	"github.com/WalesndWebs/project-prodigyloan/internal/queue"
)

func (h *Handler) ListLoanProducts(c *gin.Context) {
	products, err := h.Store.ListLoanProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "product list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

type applyLoanReq struct {
	LoanProductID string  `json:"loan_product_id"`
	Amount        float64 `json:"amount"`
	Purpose       string  `json:"purpose"`
}

// ApplyLoan godoc
// @Summary Submit a loan application
// @Tags loans
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body applyLoanReq true "application"
// @Success 201 {object} domain.LoanApplication
// @Failure 400 {object} map[string]string
// @Router /api/loans [post]
func (h *Handler) ApplyLoan(c *gin.Context) {
	var in applyLoanReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if in.Amount <= 0 || strings.TrimSpace(in.Purpose) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount and purpose are required"})
		return
	}

	st := currentState(c)
	app := &domain.LoanApplication{
		ID:            uuid.NewString(),
		UserID:        st.Identity.ID,
		LoanProductID: in.LoanProductID,
		Amount:        in.Amount,
		Purpose:       strings.TrimSpace(in.Purpose),
	}
	if err := h.Store.CreateLoanApplication(c.Request.Context(), app); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "application save failed"})
		return
	}

	go h.Events.Publish(c.Request.Context(), h.Exchange, queue.KeyLoanApplied,
		queue.LoanApplied{
			ApplicationID: app.ID,
			UserID:        app.UserID,
			Email:         st.Identity.Email,
			Amount:        app.Amount,
			Purpose:       app.Purpose,
		}, requestID(c))

	c.JSON(http.StatusCreated, app)
}

func (h *Handler) MyLoans(c *gin.Context) {
	st := currentState(c)
	apps, err := h.Store.ListLoanApplications(c.Request.Context(), st.Identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "loan list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

func (h *Handler) AdminListLoans(c *gin.Context) {
	apps, err := h.Store.ListLoanApplications(c.Request.Context(), "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "loan list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

type loanStatusReq struct {
	Status string `json:"status"`
}

// AdminUpdateLoanStatus moves an application through
// pending → approved/rejected → disbursed. Disbursement writes the payout
// transaction.
func (h *Handler) AdminUpdateLoanStatus(c *gin.Context) {
	var in loanStatusReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	status, ok := domain.ParseLoanStatus(in.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	ctx := c.Request.Context()
	app, err := h.Store.LoanApplicationByID(ctx, c.Param("id"))
	if err == domain.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "application lookup failed"})
		return
	}
	if err := h.Store.UpdateLoanStatus(ctx, app.ID, status); err != nil {
		if err == domain.ErrBadTransition {
			c.JSON(http.StatusConflict, gin.H{
				"error": "cannot move a " + string(app.Status) + " application to " + string(status)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status update failed"})
		return
	}

	if status == domain.LoanDisbursed {
		tx := &domain.Transaction{
			ID:          uuid.NewString(),
			UserID:      app.UserID,
			Type:        domain.TxDisbursement,
			Amount:      app.Amount,
			Status:      domain.TxCompleted,
			Description: "Loan disbursement for application " + app.ID,
		}
		if err := h.Store.CreateTransaction(ctx, tx); err != nil {
			log.L().Error("disbursement transaction write failed",
				zap.String("application", app.ID), zap.Error(err))
		}
	}

	app.Status = status
	c.JSON(http.StatusOK, app)
}

func (h *Handler) ListInvestmentProducts(c *gin.Context) {
	products, err := h.Store.ListInvestmentProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "product list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

type investReq struct {
	InvestmentProductID string  `json:"investment_product_id"`
	Amount              float64 `json:"amount"`
}

func (h *Handler) CreateInvestment(c *gin.Context) {
	var in investReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if in.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	ctx := c.Request.Context()
	st := currentState(c)
	inv := &domain.Investment{
		ID:                  uuid.NewString(),
		UserID:              st.Identity.ID,
		InvestmentProductID: in.InvestmentProductID,
		Amount:              in.Amount,
	}
	if err := h.Store.CreateInvestment(ctx, inv); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "investment save failed"})
		return
	}

	tx := &domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      inv.UserID,
		Type:        domain.TxInvestment,
		Amount:      inv.Amount,
		Status:      domain.TxCompleted,
		Description: "Investment " + inv.ID,
	}
	if err := h.Store.CreateTransaction(ctx, tx); err != nil {
		log.L().Error("investment transaction write failed",
			zap.String("investment", inv.ID), zap.Error(err))
	}

	c.JSON(http.StatusCreated, inv)
}

func (h *Handler) MyInvestments(c *gin.Context) {
	st := currentState(c)
	invs, err := h.Store.ListInvestments(c.Request.Context(), st.Identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "investment list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"investments": invs})
}

func (h *Handler) MyTransactions(c *gin.Context) {
	st := currentState(c)
	txs, err := h.Store.ListTransactions(c.Request.Context(), st.Identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func (h *Handler) AdminListUsers(c *gin.Context) {
	profiles, err := h.Store.ListProfiles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": profiles})
}
