package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"cartilha-backend/database"
	"cartilha-backend/web/types"

	apperrors "cartilha-backend/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PublicHandler serves the read-only pass-throughs behind the
// presentational pages: country list, per-country cartilha, stats and
// the comparison view.
type PublicHandler struct {
	store  *database.PostgresStore
	logger *zap.Logger
}

func NewPublicHandler(store *database.PostgresStore, logger *zap.Logger) *PublicHandler {
	return &PublicHandler{store: store, logger: logger}
}

func (h *PublicHandler) ListCountries(c *gin.Context) {
	countries, err := h.store.ListCountries(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list countries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar países"})
		return
	}
	if countries == nil {
		countries = []types.Country{}
	}
	c.JSON(http.StatusOK, gin.H{"countries": countries})
}

// CountryCartilha returns a country's approved entries.
func (h *PublicHandler) CountryCartilha(c *gin.Context) {
	code := c.Param("code")
	country, err := h.store.GetCountry(c.Request.Context(), code)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "País não encontrado"})
			return
		}
		h.logger.Error("Failed to fetch country", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar país"})
		return
	}

	entries, err := h.store.ListEntries(c.Request.Context(), country.Code, types.ModerationApproved)
	if err != nil {
		h.logger.Error("Failed to fetch country entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar entradas"})
		return
	}
	if entries == nil {
		entries = []types.LegalEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"country": country, "entries": entries})
}

func (h *PublicHandler) CountryStats(c *gin.Context) {
	stats, err := h.store.GetCountryStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch country stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar estatísticas"})
		return
	}
	if stats == nil {
		stats = []types.CountryStats{}
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *PublicHandler) ListCategories(c *gin.Context) {
	categories, err := h.store.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar categorias"})
		return
	}
	if categories == nil {
		categories = []types.Category{}
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Compare returns entries for a comma-separated list of country
// codes, optionally narrowed to one category.
func (h *PublicHandler) Compare(c *gin.Context) {
	codesParam := c.Query("codes")
	if codesParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parâmetro codes é obrigatório"})
		return
	}
	codes := strings.Split(codesParam, ",")

	var categoryID *int
	if raw := c.Query("category"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Categoria inválida"})
			return
		}
		categoryID = &id
	}

	entries, err := h.store.CompareEntries(c.Request.Context(), codes, categoryID)
	if err != nil {
		h.logger.Error("Failed to fetch comparison entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao comparar países"})
		return
	}
	if entries == nil {
		entries = []types.LegalEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
