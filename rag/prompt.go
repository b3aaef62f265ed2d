package rag

import (
	"fmt"
	"strings"

	"cartilha-backend/web/types"
)

// personaPrompt is the fixed system block: tone, capabilities, output
// language and the status legend. Carries no retrieved data.
const personaPrompt = `Você é um assistente especializado em informações sobre leis e direitos em diferentes países.
Responda sempre em português, de forma clara, concisa e educativa.
Use os dados fornecidos como base para suas respostas.
Legenda de status: ✅ Permitido, ⚠️ Restrições, 🚫 Proibido.
Se não tiver informações suficientes, sugira que o usuário explore o app manualmente.
Sempre mencione que as informações são educacionais e não constituem aconselhamento jurídico.`

// userQuestionLabel prefixes the literal user message; the chat
// handler also uses it to strip leaked context from completions.
const userQuestionLabel = "Pergunta do usuário:"

const noDataFound = "Não foram encontrados dados específicos para esta pergunta."

// StatusLabel maps an entry status to its display label.
func StatusLabel(status string) string {
	switch status {
	case types.StatusGreen:
		return "Permitido"
	case types.StatusYellow:
		return "Restrições"
	default:
		return "Proibido"
	}
}

// BuildPrompt renders the complete, self-contained prompt for one
// chat turn: persona, context block, user question. The structure is
// always present; only the context content varies with retrieval.
func BuildPrompt(userMessage string, entries []types.RetrievedEntry, chatCtx *types.ChatContext) string {
	var b strings.Builder
	b.WriteString(personaPrompt)

	if len(entries) > 0 {
		b.WriteString("\n\nDados relevantes encontrados:\n")
		for _, entry := range entries {
			b.WriteString(fmt.Sprintf("- %s (%s): %s. %s\n",
				entry.Topic, entry.CountryName, StatusLabel(entry.Status), entry.PlainExplanation))
		}
	} else {
		b.WriteString("\n\n")
		b.WriteString(noDataFound)
	}

	if chatCtx != nil && chatCtx.CountryName != "" {
		b.WriteString(fmt.Sprintf("\n\nContexto: O usuário está visualizando informações sobre %s.", chatCtx.CountryName))
	}

	b.WriteString("\n\n")
	b.WriteString(userQuestionLabel)
	b.WriteString(" ")
	b.WriteString(userMessage)

	return b.String()
}
