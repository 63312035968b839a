package api

import (
	"errors"
	"net/http"

	"hotelier/internal/domain/reservation"
	reqdto "hotelier/internal/handler/dto/request"
	resdto "hotelier/internal/handler/dto/response"
	"hotelier/internal/handler/httperr"
	"hotelier/internal/handler/middleware"
	"hotelier/internal/infra"
	"hotelier/internal/infra/gateway"
	"hotelier/internal/usecase/commands"
	"hotelier/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	reservationCommands commands.ReservationCommands
	captureCommands     commands.CaptureCommands
	reservationQueries  queries.ReservationQueries
}

func NewReservationHandler(
	reservationCommands commands.ReservationCommands,
	captureCommands commands.CaptureCommands,
	reservationQueries queries.ReservationQueries,
) *ReservationHandler {
	return &ReservationHandler{
		reservationCommands: reservationCommands,
		captureCommands:     captureCommands,
		reservationQueries:  reservationQueries,
	}
}

func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	var reservedBy *uuid.UUID
	if userID, ok := middleware.GetUserID(c); ok {
		reservedBy = &userID
	}

	params, err := req.ToParams(reservedBy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid amount or payment mode",
		})
		return
	}

	view, err := h.reservationCommands.CreateReservation(c.Request.Context(), params)
	if err != nil {
		h.respondCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReservationView(view))
}

func (h *ReservationHandler) respondCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrHotelNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Hotel not found",
		})
	case errors.Is(err, commands.ErrDuplicateReservation):
		c.JSON(http.StatusConflict, gin.H{
			"error": "A matching reservation already exists",
		})
	case errors.Is(err, commands.ErrCardIncomplete),
		errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Reservation details failed validation",
		})
	case errors.Is(err, commands.ErrAuthorizationDeclined):
		httperr.AbortWithError(c, http.StatusPaymentRequired, err,
			"Card authorization declined", declineDetail(err))
	case errors.Is(err, commands.ErrGatewayUnreachable):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Payment gateway unavailable, please retry",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func (h *ReservationHandler) Capture(c *gin.Context) {
	var req reqdto.CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	amount, err := req.ParseAmount()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid amount format",
		})
		return
	}

	number, err := h.confirmationNumberParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid confirmation number format",
		})
		return
	}

	view, err := h.captureCommands.Capture(c.Request.Context(), commands.CaptureParams{
		ConfirmationNumber: number,
		Amount:             amount,
	})
	if err != nil {
		h.respondCaptureError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

func (h *ReservationHandler) respondCaptureError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Reservation not found",
		})
	case errors.Is(err, commands.ErrInvalidCaptureAmount):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Capture amount must be positive",
		})
	case errors.Is(err, commands.ErrCaptureInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": "A capture is already in progress for this reservation",
		})
	case errors.Is(err, commands.ErrCaptureConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Reservation was modified concurrently, please retry",
		})
	case errors.Is(err, commands.ErrCaptureDeclined):
		httperr.AbortWithError(c, http.StatusPaymentRequired, err,
			"Capture declined", declineDetail(err))
	case errors.Is(err, commands.ErrGatewayUnreachable):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Payment gateway unavailable, please retry",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func (h *ReservationHandler) GetReservation(c *gin.Context) {
	number := c.Param("number")

	view, err := h.reservationQueries.GetByConfirmationNumber(c.Request.Context(), number)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

func (h *ReservationHandler) ListHotelReservations(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Query("hotel_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "A valid hotel_id query parameter is required",
		})
		return
	}

	items, err := h.reservationQueries.ListByHotel(c.Request.Context(), hotelID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.ReservationListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromReservationListItem(item)
	}
	c.JSON(http.StatusOK, response)
}

func (h *ReservationHandler) confirmationNumberParam(c *gin.Context) (reservation.ConfirmationNumber, error) {
	return reservation.ParseConfirmationNumber(c.Param("number"))
}

// declineDetail surfaces the gateway's verbatim decline reason to the caller.
func declineDetail(err error) any {
	var declined *gateway.DeclinedError
	if errors.As(err, &declined) {
		return gin.H{"reason": declined.Reason}
	}
	return nil
}
