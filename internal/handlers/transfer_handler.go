package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/netbank/transfer-service/internal/api/dto"
	"github.com/netbank/transfer-service/internal/corebank"
	"github.com/netbank/transfer-service/internal/models"
	"github.com/netbank/transfer-service/internal/transfer"
)

// ==============================================
// SERVICE INTERFACE (for testing)
// ==============================================

type TransferService interface {
	OpenSession(ctx context.Context, userID int64) (*transfer.Session, error)
	Session(id string) (*transfer.Session, error)
	CloseSession(id string) error
	ListTransfers(ctx context.Context, userID int64) ([]models.Transfer, error)
}

// ==============================================
// HANDLER (HTTP Layer ONLY)
// ==============================================

type TransferHandler struct {
	service TransferService
	log     *zap.SugaredLogger
}

func NewTransferHandler(service TransferService, log *zap.SugaredLogger) *TransferHandler {
	return &TransferHandler{service: service, log: log}
}

// ==============================================
// SESSION ENDPOINTS
// ==============================================

// OpenSession handles POST /api/v1/transfer-sessions
func (h *TransferHandler) OpenSession(c *gin.Context) {
	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	sess, err := h.service.OpenSession(c.Request.Context(), req.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sessionResponse(sess))
}

// CloseSession handles DELETE /api/v1/transfer-sessions/:sid
func (h *TransferHandler) CloseSession(c *gin.Context) {
	if err := h.service.CloseSession(c.Param("sid")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetMethod handles PUT /api/v1/transfer-sessions/:sid/method
func (h *TransferHandler) SetMethod(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.SetMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if err := sess.SetMethod(transfer.Side(req.Side), models.PaymentMethod(req.Method)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess))
}

// SetInstrument handles PUT /api/v1/transfer-sessions/:sid/instrument
func (h *TransferHandler) SetInstrument(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.SetInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	var err error
	switch transfer.Side(req.Side) {
	case transfer.SidePayer:
		err = sess.SetPayerInstrument(c.Request.Context(), models.PaymentMethod(req.Method), req.Value)
	case transfer.SidePayee:
		err = sess.SetPayeeManual(models.PaymentMethod(req.Method), req.Value)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess))
}

// ChooseBeneficiary handles PUT /api/v1/transfer-sessions/:sid/beneficiary
func (h *TransferHandler) ChooseBeneficiary(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.ChooseBeneficiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if err := sess.ChooseBeneficiary(c.Request.Context(), req.BeneficiaryID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess))
}

// SetDetails handles PUT /api/v1/transfer-sessions/:sid/details
func (h *TransferHandler) SetDetails(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.SetDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if err := sess.SetDetails(req.Amount, req.Description, req.Pin); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess))
}

// ListInstruments handles GET /api/v1/transfer-sessions/:sid/instruments
func (h *TransferHandler) ListInstruments(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	accounts, err := sess.Accounts(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	upis, err := sess.UPIs(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	cards, err := sess.Cards(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	beneficiaries, err := sess.Beneficiaries(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.InstrumentsResponse{
		Accounts:      accounts,
		UPIs:          upis,
		Cards:         cards,
		Beneficiaries: beneficiaries,
	})
}

// Submit handles POST /api/v1/transfer-sessions/:sid/submit
func (h *TransferHandler) Submit(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	created, err := sess.Submit(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitResponse{
		Transfer: created,
		Message:  "Transfer created successfully",
	})
}

// ListTransfers handles GET /api/v1/transfers?user_id=N
func (h *TransferHandler) ListTransfers(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid user_id", errors.New("user_id must be a positive number"))
		return
	}

	transfers, err := h.service.ListTransfers(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TransferListResponse{
		Transfers: transfers,
		Total:     len(transfers),
	})
}

// ==============================================
// ROUTE REGISTRATION
// ==============================================

func (h *TransferHandler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.POST("/transfer-sessions", h.OpenSession)
		v1.DELETE("/transfer-sessions/:sid", h.CloseSession)
		v1.PUT("/transfer-sessions/:sid/method", h.SetMethod)
		v1.PUT("/transfer-sessions/:sid/instrument", h.SetInstrument)
		v1.PUT("/transfer-sessions/:sid/beneficiary", h.ChooseBeneficiary)
		v1.PUT("/transfer-sessions/:sid/details", h.SetDetails)
		v1.GET("/transfer-sessions/:sid/instruments", h.ListInstruments)
		v1.POST("/transfer-sessions/:sid/submit", h.Submit)
		v1.GET("/transfers", h.ListTransfers)
	}
}

// ==============================================
// HELPER FUNCTIONS
// ==============================================

func (h *TransferHandler) session(c *gin.Context) (*transfer.Session, bool) {
	sess, err := h.service.Session(c.Param("sid"))
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	return sess, true
}

func sessionResponse(sess *transfer.Session) dto.SessionResponse {
	return dto.SessionResponse{
		SessionID:       sess.ID,
		UserID:          sess.UserID,
		SelectedAccount: sess.SelectedAccount(),
		PinState:        sess.PinState().String(),
		Draft:           sess.Draft(),
	}
}

// respondError sends an error JSON response
func respondError(c *gin.Context, statusCode int, message string, err error) {
	c.JSON(statusCode, dto.ErrorResponse{
		Error:   message,
		Message: err.Error(),
	})
}

// respondServiceError maps service errors to appropriate HTTP status codes and responses
func respondServiceError(c *gin.Context, err error) {
	var fieldErr *models.FieldError
	if errors.As(err, &fieldErr) {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, transfer.ErrInstrumentLocked) {
			status = http.StatusLocked
		}
		c.JSON(status, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: fieldErr.Message,
			Field:   fieldErr.Field,
		})
		return
	}

	statusCode, message := mapServiceError(err)
	c.JSON(statusCode, dto.ErrorResponse{
		Error:   message,
		Message: err.Error(),
	})
}

// mapServiceError maps service errors to HTTP status codes and user-friendly messages
func mapServiceError(err error) (int, string) {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "TRANSFER_REJECTED":
			return http.StatusUnprocessableEntity, appErr.Message
		default:
			return http.StatusBadGateway, appErr.Message
		}
	}

	var apiErr *corebank.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway, "Core banking request failed"
	}

	switch {
	// Validation errors (400 Bad Request)
	case errors.Is(err, transfer.ErrInvalidAmount),
		errors.Is(err, transfer.ErrPayerInstrument),
		errors.Is(err, transfer.ErrPayeeInstrument),
		errors.Is(err, transfer.ErrUnknownMethod):
		return http.StatusBadRequest, "Invalid transfer draft"

	// Not found errors (404 Not Found)
	case errors.Is(err, transfer.ErrSessionNotFound):
		return http.StatusNotFound, "Session not found"

	// Conflicts (409)
	case errors.Is(err, transfer.ErrSessionClosed):
		return http.StatusConflict, "Session is closed"
	case errors.Is(err, transfer.ErrSubmissionInFlight):
		return http.StatusConflict, "A submission is already in flight"
	case errors.Is(err, transfer.ErrInstrumentUnavailable):
		return http.StatusConflict, "Instrument is not selectable"

	// Lockout (423 Locked)
	case errors.Is(err, transfer.ErrInstrumentLocked):
		return http.StatusLocked, "Payment method deactivated"

	// Default (500 Internal Server Error)
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
