package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"notely/internal/database"
	"notely/internal/models"
)

type OTPRepository interface {
	Put(ctx context.Context, otp *models.OTP) (*models.OTP, error)
	FindByEmail(ctx context.Context, email string) (*models.OTP, error)
	Consume(ctx context.Context, email, code string) (*models.OTP, error)
	DeleteByEmail(ctx context.Context, email string) error
	EnsureIndexes(ctx context.Context) error
}

type otpRepository struct {
	collection *mongo.Collection
}

func NewOTPRepository(db database.Service) OTPRepository {
	return &otpRepository{collection: db.Client().Database(database.Name).Collection("otps")}
}

// EnsureIndexes enforces one live code per email and lets Mongo expire
// stale records on its own.
func (r *otpRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.M{"email": 1},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.M{"expires_at": 1},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	return err
}

// Put stores a code for the email, replacing any outstanding one. Last
// write wins when two issuance requests race.
func (r *otpRepository) Put(ctx context.Context, otp *models.OTP) (*models.OTP, error) {
	otp.ID = primitive.NewObjectID()
	otp.CreatedAt = time.Now()

	filter := bson.M{"email": otp.Email}
	_, err := r.collection.ReplaceOne(ctx, filter, otp, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, err
	}
	return otp, nil
}

func (r *otpRepository) FindByEmail(ctx context.Context, email string) (*models.OTP, error) {
	var otp models.OTP
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&otp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &otp, nil
}

// Consume atomically removes the record matching both email and code.
// Two concurrent verification attempts cannot both succeed: only the one
// whose delete matches observes the record.
func (r *otpRepository) Consume(ctx context.Context, email, code string) (*models.OTP, error) {
	var otp models.OTP
	err := r.collection.FindOneAndDelete(ctx, bson.M{"email": email, "code": code}).Decode(&otp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &otp, nil
}

func (r *otpRepository) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"email": email})
	return err
}
