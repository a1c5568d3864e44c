package repositories

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"notely/internal/database"
	"notely/internal/models"
	"notely/internal/utils"
)

type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	Find(ctx context.Context, filter bson.M) ([]models.Note, error)
	FindOne(ctx context.Context, filter bson.M) (*models.Note, error)
	UpdateOne(ctx context.Context, filter bson.M, update bson.M) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter bson.M) (*mongo.DeleteResult, error)
}

type noteRepository struct {
	db database.Service
}

func NewNoteRepository(db database.Service) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) collection() *mongo.Collection {
	return r.db.Client().Database(database.Name).Collection("notes")
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	queryType := "create"
	repository := "note"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	result, err := r.collection().InsertOne(ctx, note)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to add note: %w", err)
	}
	note.ID = result.InsertedID.(primitive.ObjectID)
	return note, nil
}

func (r *noteRepository) Find(ctx context.Context, filter bson.M) ([]models.Note, error) {
	queryType := "find"
	repository := "note"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.M{"updated_at": -1})

	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to retrieve notes: %w", err)
	}
	defer cursor.Close(ctx)

	var notes []models.Note
	if err := cursor.All(ctx, &notes); err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("error decoding notes: %w", err)
	}
	return notes, nil
}

func (r *noteRepository) FindOne(ctx context.Context, filter bson.M) (*models.Note, error) {
	queryType := "findOne"
	repository := "note"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var note models.Note
	err := r.collection().FindOne(ctx, filter).Decode(&note)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) UpdateOne(ctx context.Context, filter bson.M, update bson.M) (*mongo.UpdateResult, error) {
	queryType := "updateOne"
	repository := "note"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	result, err := r.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return result, nil
}

func (r *noteRepository) DeleteOne(ctx context.Context, filter bson.M) (*mongo.DeleteResult, error) {
	queryType := "deleteOne"
	repository := "note"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	deleteResult, err := r.collection().DeleteOne(ctx, filter)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to delete note: %w", err)
	}
	return deleteResult, nil
}
