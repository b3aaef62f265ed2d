package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"cartilha-backend/llmclient"
	"cartilha-backend/rag"
	"cartilha-backend/web/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatHandler struct {
	pipeline *rag.Pipeline
	llm      *llmclient.Client
	logger   *zap.Logger
}

type ChatRequest struct {
	Message string             `json:"message"`
	Context *types.ChatContext `json:"context"`
}

type ChatResponse struct {
	Message string              `json:"message"`
	Sources []types.EntrySource `json:"sources"`
}

func NewChatHandler(pipeline *rag.Pipeline, llm *llmclient.Client, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{pipeline: pipeline, llm: llm, logger: logger}
}

// SendMessage answers one chat turn. The user always gets some reply:
// retrieval and completion failures degrade to answers built from
// whatever was retrieved, never to a raw internal error.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mensagem é obrigatória"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mensagem é obrigatória"})
		return
	}

	ctx := c.Request.Context()
	prompt, ragResult := h.pipeline.Perform(ctx, req.Message, req.Context)
	sources := sourcesFrom(ragResult.Entries)

	if !h.llm.Configured() {
		c.JSON(http.StatusOK, ChatResponse{
			Message: fallbackAnswer(req.Message, ragResult),
			Sources: sources,
		})
		return
	}

	answer, err := h.llm.Chat(ctx, []types.ChatMessage{{Role: "user", Content: prompt}})
	if err != nil {
		h.logger.Warn("Completion call failed, answering from retrieved entries",
			zap.Error(err))
		c.JSON(http.StatusOK, ChatResponse{
			Message: fallbackAnswer(req.Message, ragResult),
			Sources: sources,
		})
		return
	}

	cleaned := cleanAssistantMessage(answer)
	if len(cleaned) < 5 {
		cleaned = "Olá! Como posso ajudar você hoje? Pergunte sobre leis e direitos em qualquer país!"
	}

	c.JSON(http.StatusOK, ChatResponse{Message: cleaned, Sources: sources})
}

func sourcesFrom(entries []types.RetrievedEntry) []types.EntrySource {
	sources := make([]types.EntrySource, 0, len(entries))
	for _, e := range entries {
		sources = append(sources, types.EntrySource{
			CountryCode: e.CountryCode,
			Topic:       e.Topic,
			Status:      e.Status,
		})
	}
	return sources
}

func statusIcon(status string) string {
	switch status {
	case types.StatusGreen:
		return "✅"
	case types.StatusYellow:
		return "⚠️"
	default:
		return "🚫"
	}
}

// fallbackAnswer builds a direct reply from the RAG result when no
// completion is available.
func fallbackAnswer(message string, ragResult types.RAGResult) string {
	if len(ragResult.Entries) == 0 {
		if len(ragResult.DetectedCountries) > 0 {
			return fmt.Sprintf(
				"Encontrei o país %s na sua pergunta, mas não consegui buscar os dados. Tente explorar o país diretamente no app.",
				strings.Join(ragResult.DetectedCountries, ", "))
		}
		return fmt.Sprintf(
			"Não encontrei informações específicas sobre %q. Tente explorar os países diretamente no app para encontrar o que procura.",
			message)
	}

	var b strings.Builder
	b.WriteString("Com base nos dados disponíveis:\n\n")
	shown := ragResult.Entries
	if len(shown) > 3 {
		shown = shown[:3]
	}
	for _, entry := range shown {
		b.WriteString(fmt.Sprintf("**%s** (%s): %s %s\n%s\n\n",
			entry.Topic, entry.CountryName, statusIcon(entry.Status),
			rag.StatusLabel(entry.Status), entry.PlainExplanation))
	}
	b.WriteString("⚠️ *Esta é uma informação educacional e não constitui aconselhamento jurídico.*")
	return b.String()
}

var (
	instTagPattern    = regexp.MustCompile(`\[/?INST\]`)
	sysBlockPattern   = regexp.MustCompile(`(?s)<<SYS>>.*?<</SYS>>`)
	leakedCtxPattern  = regexp.MustCompile(`(?s)Pergunta do usuário:.*`)
	disclaimerPattern = regexp.MustCompile(`(?i)⚠️.*?(jurídico|legal)\.?\s*$`)
)

// cleanAssistantMessage strips model artifacts and leaked prompt
// context from a completion before it reaches the user.
func cleanAssistantMessage(message string) string {
	cleaned := instTagPattern.ReplaceAllString(message, "")
	cleaned = sysBlockPattern.ReplaceAllString(cleaned, "")
	cleaned = leakedCtxPattern.ReplaceAllString(cleaned, "")
	cleaned = disclaimerPattern.ReplaceAllString(cleaned, "")

	// Some models echo the question back under a shortened label
	if idx := strings.Index(cleaned, "Pergunta:"); idx >= 0 {
		cleaned = cleaned[:idx]
	}

	return strings.TrimSpace(cleaned)
}
