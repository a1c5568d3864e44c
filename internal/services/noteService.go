package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"notely/internal/metrics"
	"notely/internal/models"
	"notely/internal/repositories"
)

const (
	maxTitleLength   = 100
	maxContentLength = 5000
)

type NoteService interface {
	GetNotes(ctx context.Context, userID primitive.ObjectID) ([]models.Note, error)
	AddNote(ctx context.Context, userID primitive.ObjectID, reqBody models.NoteRequestBody) (*models.Note, error)
	GetNoteByID(ctx context.Context, userID, noteID primitive.ObjectID) (*models.Note, error)
	UpdateNote(ctx context.Context, userID, noteID primitive.ObjectID, reqBody models.NoteRequestBody) (*models.Note, error)
	DeleteNote(ctx context.Context, userID, noteID primitive.ObjectID) error
}

type noteServiceImpl struct {
	noteRepo repositories.NoteRepository
}

func NewNoteService(noteRepo repositories.NoteRepository) NoteService {
	return &noteServiceImpl{noteRepo: noteRepo}
}

func validateNoteBody(reqBody models.NoteRequestBody) error {
	if reqBody.Title == "" || reqBody.Content == "" {
		return fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}
	if len(reqBody.Title) > maxTitleLength {
		return fmt.Errorf("%w: title must be less than %d characters", ErrInvalidInput, maxTitleLength)
	}
	if len(reqBody.Content) > maxContentLength {
		return fmt.Errorf("%w: content must be less than %d characters", ErrInvalidInput, maxContentLength)
	}
	return nil
}

func (s *noteServiceImpl) GetNotes(ctx context.Context, userID primitive.ObjectID) ([]models.Note, error) {
	notes, err := s.noteRepo.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		log.Error().Err(err).Str("userID", userID.Hex()).Msg("Error finding notes")
		return nil, err
	}
	return notes, nil
}

func (s *noteServiceImpl) AddNote(ctx context.Context, userID primitive.ObjectID, reqBody models.NoteRequestBody) (*models.Note, error) {
	if err := validateNoteBody(reqBody); err != nil {
		return nil, err
	}

	note := &models.Note{
		UserID:    userID,
		Title:     reqBody.Title,
		Content:   reqBody.Content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	created, err := s.noteRepo.Create(ctx, note)
	if err != nil {
		return nil, err
	}

	metrics.NoteCreatedTotal.Inc()
	log.Info().Str("note_id", created.ID.Hex()).Str("user_id", userID.Hex()).Msg("Note created")
	return created, nil
}

func (s *noteServiceImpl) GetNoteByID(ctx context.Context, userID, noteID primitive.ObjectID) (*models.Note, error) {
	note, err := s.noteRepo.FindOne(ctx, bson.M{"_id": noteID, "user_id": userID})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}

func (s *noteServiceImpl) UpdateNote(ctx context.Context, userID, noteID primitive.ObjectID, reqBody models.NoteRequestBody) (*models.Note, error) {
	if err := validateNoteBody(reqBody); err != nil {
		return nil, err
	}

	filter := bson.M{"_id": noteID, "user_id": userID}
	update := bson.M{"$set": bson.M{
		"title":      reqBody.Title,
		"content":    reqBody.Content,
		"updated_at": time.Now(),
	}}

	result, err := s.noteRepo.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ErrNoteNotFound
	}

	return s.GetNoteByID(ctx, userID, noteID)
}

func (s *noteServiceImpl) DeleteNote(ctx context.Context, userID, noteID primitive.ObjectID) error {
	result, err := s.noteRepo.DeleteOne(ctx, bson.M{"_id": noteID, "user_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNoteNotFound
	}

	log.Info().Str("note_id", noteID.Hex()).Str("user_id", userID.Hex()).Msg("Note deleted")
	return nil
}
