package handlers

import (
	"net/http"
	"strings"

	"cartilha-backend/database"
	"cartilha-backend/similarity"
	"cartilha-backend/validate"
	"cartilha-backend/web/types"

	apperrors "cartilha-backend/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminHandler struct {
	finder    *similarity.Finder
	validator *validate.Validator
	store     *database.PostgresStore
	search    *database.SearchService
	logger    *zap.Logger
}

func NewAdminHandler(finder *similarity.Finder, validator *validate.Validator, store *database.PostgresStore, search *database.SearchService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{finder: finder, validator: validator, store: store, search: search, logger: logger}
}

type checkSimilarityRequest struct {
	CountryCode      string `json:"country_code"`
	CategoryID       int    `json:"category_id"`
	Topic            string `json:"topic"`
	PlainExplanation string `json:"plain_explanation"`
	LegalBasis       string `json:"legal_basis"`
	// Seq is a caller-chosen monotonic number echoed back so the UI
	// can discard out-of-order responses from debounced edits.
	Seq int64 `json:"seq"`
}

// CheckSimilarity scores the in-progress form against existing
// entries in the same country (and category, when given). Called on
// debounced keystrokes.
func (h *AdminHandler) CheckSimilarity(c *gin.Context) {
	var req checkSimilarityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requisição inválida"})
		return
	}
	if req.CountryCode == "" || req.Topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "País e tópico são obrigatórios"})
		return
	}

	proposed := similarity.ProposedEntry{
		CountryCode:      req.CountryCode,
		Topic:            req.Topic,
		PlainExplanation: req.PlainExplanation,
		LegalBasis:       req.LegalBasis,
	}
	if req.CategoryID > 0 {
		proposed.CategoryID = &req.CategoryID
	}

	candidates := h.finder.CheckEntry(c.Request.Context(), proposed)
	c.JSON(http.StatusOK, gin.H{
		"similar":    candidates,
		"hasSimilar": len(candidates) > 0,
		"seq":        req.Seq,
	})
}

// ValidateEntry runs field validation and standard-topic suggestion.
func (h *AdminHandler) ValidateEntry(c *gin.Context) {
	var input validate.EntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requisição inválida"})
		return
	}

	result := h.validator.Validate(c.Request.Context(), input)
	c.JSON(http.StatusOK, result)
}

type entryRequest struct {
	CountryCode      string  `json:"country_code"`
	CategoryID       int     `json:"category_id"`
	Topic            string  `json:"topic"`
	Status           string  `json:"status"`
	LegalBasis       string  `json:"legal_basis"`
	PlainExplanation string  `json:"plain_explanation"`
	CulturalNote     *string `json:"cultural_note"`
	Moderated        bool    `json:"moderated"`
}

func (r entryRequest) toEntry() types.LegalEntry {
	moderation := types.ModerationApproved
	if r.Moderated {
		moderation = types.ModerationPending
	}
	return types.LegalEntry{
		CountryCode:      r.CountryCode,
		CategoryID:       r.CategoryID,
		Topic:            r.Topic,
		Status:           r.Status,
		LegalBasis:       r.LegalBasis,
		PlainExplanation: r.PlainExplanation,
		CulturalNote:     r.CulturalNote,
		ModerationStatus: moderation,
	}
}

// ListEntries returns entries filtered by optional country and
// moderation status query params.
func (h *AdminHandler) ListEntries(c *gin.Context) {
	entries, err := h.store.ListEntries(c.Request.Context(), c.Query("country"), c.Query("moderation"))
	if err != nil {
		h.logger.Error("Failed to list entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar entradas"})
		return
	}
	if entries == nil {
		entries = []types.LegalEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// CreateEntry validates and persists a new entry. Validation errors
// block the insert; the moderated creation path lands as pending.
func (h *AdminHandler) CreateEntry(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requisição inválida"})
		return
	}

	result := h.validator.Validate(c.Request.Context(), validate.EntryInput{
		CountryCode:      req.CountryCode,
		CategoryID:       req.CategoryID,
		Topic:            req.Topic,
		Status:           req.Status,
		LegalBasis:       req.LegalBasis,
		PlainExplanation: req.PlainExplanation,
	})
	if !result.Valid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": result.Errors, "warnings": result.Warnings})
		return
	}

	id, err := h.store.CreateEntry(c.Request.Context(), req.toEntry())
	if err != nil {
		h.logger.Error("Failed to create entry", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao salvar entrada"})
		return
	}

	h.embedEntry(c, id, req)

	c.JSON(http.StatusCreated, gin.H{"id": id, "warnings": result.Warnings})
}

// embedEntry refreshes the entry's search embedding. Best effort: the
// hybrid search ranks the entry lexically until an embedding lands.
func (h *AdminHandler) embedEntry(c *gin.Context, id uuid.UUID, req entryRequest) {
	text := req.Topic + " " + req.PlainExplanation
	if err := h.search.EmbedEntry(c.Request.Context(), id, text); err != nil {
		h.logger.Warn("Failed to embed entry, semantic ranking skipped for it",
			zap.Error(err),
			zap.String("entry_id", id.String()))
	}
}

// GetEntry returns one entry for the admin edit form.
func (h *AdminHandler) GetEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador inválido"})
		return
	}

	entry, err := h.store.GetEntry(c.Request.Context(), id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entrada não encontrada"})
			return
		}
		h.logger.Error("Failed to fetch entry", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar entrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// UpdateEntry overwrites an existing entry, the target of the
// duplicate-candidate "overwrite" affordance.
func (h *AdminHandler) UpdateEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador inválido"})
		return
	}

	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requisição inválida"})
		return
	}

	result := h.validator.Validate(c.Request.Context(), validate.EntryInput{
		CountryCode:      req.CountryCode,
		CategoryID:       req.CategoryID,
		Topic:            req.Topic,
		Status:           req.Status,
		LegalBasis:       req.LegalBasis,
		PlainExplanation: req.PlainExplanation,
	})
	if !result.Valid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": result.Errors, "warnings": result.Warnings})
		return
	}

	if err := h.store.UpdateEntry(c.Request.Context(), id, req.toEntry()); err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entrada não encontrada"})
			return
		}
		h.logger.Error("Failed to update entry", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atualizar entrada"})
		return
	}

	h.embedEntry(c, id, req)

	c.JSON(http.StatusOK, gin.H{"id": id, "warnings": result.Warnings})
}

func (h *AdminHandler) DeleteEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador inválido"})
		return
	}

	if err := h.store.DeleteEntry(c.Request.Context(), id); err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entrada não encontrada"})
			return
		}
		h.logger.Error("Failed to delete entry", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao remover entrada"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ListModeration returns entries waiting for review.
func (h *AdminHandler) ListModeration(c *gin.Context) {
	entries, err := h.store.ListEntries(c.Request.Context(), "", types.ModerationPending)
	if err != nil {
		h.logger.Error("Failed to list pending entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar moderação"})
		return
	}
	if entries == nil {
		entries = []types.LegalEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

type moderationRequest struct {
	Status string `json:"status"`
}

// Moderate applies an approve/reject decision to a pending entry.
func (h *AdminHandler) Moderate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador inválido"})
		return
	}

	var req moderationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requisição inválida"})
		return
	}

	if err := h.store.SetModerationStatus(c.Request.Context(), id, req.Status); err != nil {
		switch {
		case apperrors.IsNotFound(err):
			c.JSON(http.StatusNotFound, gin.H{"error": "Entrada não encontrada"})
		case apperrors.IsInvalidInput(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status de moderação inválido"})
		default:
			h.logger.Error("Failed to apply moderation decision", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao moderar entrada"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

// ListStandardTopics returns curated topics, optionally per category.
func (h *AdminHandler) ListStandardTopics(c *gin.Context) {
	topics, err := h.store.GetStandardTopics(c.Request.Context(), nil)
	if err != nil {
		h.logger.Error("Failed to list standard topics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar tópicos padrão"})
		return
	}
	if topics == nil {
		topics = []types.StandardTopic{}
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// UpsertStandardTopic creates or renames a curated topic label.
func (h *AdminHandler) UpsertStandardTopic(c *gin.Context) {
	var topic types.StandardTopic
	if err := c.ShouldBindJSON(&topic); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requisição inválida"})
		return
	}
	if strings.TrimSpace(topic.TopicName) == "" || topic.CategoryID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nome do tópico e categoria são obrigatórios"})
		return
	}

	if err := h.store.UpsertStandardTopic(c.Request.Context(), topic); err != nil {
		h.logger.Error("Failed to upsert standard topic", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao salvar tópico padrão"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"topic": topic.TopicName})
}
