package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"notely/internal/metrics"
	"notely/internal/repositories"
)

// AgentService generates and persists LLM summaries for a user's notes.
type AgentService struct {
	noteRepo repositories.NoteRepository
}

func NewAgentService(noteRepo repositories.NoteRepository) *AgentService {
	return &AgentService{noteRepo: noteRepo}
}

func (s *AgentService) SummarizeNote(ctx context.Context, userID, noteID primitive.ObjectID) (string, error) {
	filter := bson.M{"_id": noteID, "user_id": userID}
	note, err := s.noteRepo.FindOne(ctx, filter)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", ErrNoteNotFound
		}
		log.Error().Err(err).Str("note_id", noteID.Hex()).Msg("Failed to retrieve note for summary")
		return "", err
	}

	summary, err := LLMSummarize(ctx, note.Title, note.Content)
	if err != nil {
		log.Error().Err(err).Str("note_id", noteID.Hex()).Msg("Failed to generate note summary")
		return "", err
	}

	update := bson.M{"$set": bson.M{"summary": summary}}
	if _, err := s.noteRepo.UpdateOne(ctx, filter, update); err != nil {
		log.Error().Err(err).Str("note_id", noteID.Hex()).Msg("Failed to persist note summary")
		return "", err
	}

	metrics.SummaryGeneratedTotal.Inc()
	return summary, nil
}
