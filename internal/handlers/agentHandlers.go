package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"notely/internal/middlewares"
	"notely/internal/services"
	"notely/internal/utils"
)

type AgentHandler struct {
	agentService *services.AgentService
}

func NewAgentHandler(agentService *services.AgentService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

func (h *AgentHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}

	noteID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	summary, err := h.agentService.SummarizeNote(r.Context(), user.ID, noteID)
	if err != nil {
		log.Error().Err(err).Str("note_id", noteID.Hex()).Msg("Error generating note summary")
		writeServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"summary": summary})
}
