package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"notely/internal/middlewares"
	"notely/internal/models"
	"notely/internal/services"
	"notely/internal/utils"
)

type NoteHandler struct {
	service services.NoteService
}

func NewNoteHandler(service services.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

func (h *NoteHandler) GetNotes(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}

	notes, err := h.service.GetNotes(r.Context(), user.ID)
	if err != nil {
		log.Error().Err(err).Msg("Error getting notes from service")
		writeServiceError(w, err)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"notes": notes})
}

func (h *NoteHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}

	var reqBody models.NoteRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	note, err := h.service.AddNote(r.Context(), user.ID, reqBody)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) GetNoteByID(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}

	noteID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	note, err := h.service.GetNoteByID(r.Context(), user.ID, noteID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}

	noteID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var reqBody models.NoteRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	note, err := h.service.UpdateNote(r.Context(), user.ID, noteID, reqBody)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}

	noteID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.service.DeleteNote(r.Context(), user.ID, noteID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Note deleted successfully"})
}
