package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pjbl-tracker-api/internal/service"
	"github.com/noah-isme/pjbl-tracker-api/pkg/response"
)

// CatalogHandler exposes instrument and dimension lookups.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// InstrumentQuestions godoc
// @Summary List instrument questions
// @Tags Catalog
// @Produce json
// @Param id path string true "Instrument id"
// @Success 200 {object} response.Envelope
// @Router /instruments/{id}/questions [get]
func (h *CatalogHandler) InstrumentQuestions(c *gin.Context) {
	instrument, questions, err := h.catalog.InstrumentQuestions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"instrument": instrument, "questions": questions}, nil)
}

// Dimensions godoc
// @Summary List scoring dimensions
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dimensions [get]
func (h *CatalogHandler) Dimensions(c *gin.Context) {
	dimensions, err := h.catalog.Dimensions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dimensions, nil)
}
