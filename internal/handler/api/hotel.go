package api

import (
	"net/http"

	resdto "hotelier/internal/handler/dto/response"
	"hotelier/internal/infra"
	"hotelier/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type HotelHandler struct {
	hotelQueries queries.HotelQueries
}

func NewHotelHandler(hotelQueries queries.HotelQueries) *HotelHandler {
	return &HotelHandler{hotelQueries: hotelQueries}
}

func (h *HotelHandler) ListHotels(c *gin.Context) {
	hotels, err := h.hotelQueries.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.HotelResponse, len(hotels))
	for i, view := range hotels {
		response[i] = resdto.FromHotelView(view)
	}
	c.JSON(http.StatusOK, response)
}

func (h *HotelHandler) GetHotel(c *gin.Context) {
	view, err := h.hotelQueries.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Hotel not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromHotelView(view))
}
