package services

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"notely/internal/models"
)

// In-memory repository fakes used by the service tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, errors.New("duplicate key error")
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.GoogleID != "" && u.GoogleID == googleID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, userID primitive.ObjectID, updateFields bson.M) (*mongo.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return &mongo.UpdateResult{}, nil
	}
	for k, v := range updateFields {
		switch k {
		case "is_verified":
			u.IsVerified = v.(bool)
		case "google_id":
			u.GoogleID = v.(string)
		case "auth_method":
			u.AuthMethod = v.(string)
		}
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (r *fakeUserRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type fakeOTPRepo struct {
	mu   sync.Mutex
	otps map[string]*models.OTP
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{otps: make(map[string]*models.OTP)}
}

func (r *fakeOTPRepo) Put(ctx context.Context, otp *models.OTP) (*models.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	otp.ID = primitive.NewObjectID()
	cp := *otp
	r.otps[otp.Email] = &cp
	return otp, nil
}

func (r *fakeOTPRepo) FindByEmail(ctx context.Context, email string) (*models.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if otp, ok := r.otps[email]; ok {
		cp := *otp
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeOTPRepo) Consume(ctx context.Context, email, code string) (*models.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	otp, ok := r.otps[email]
	if !ok || otp.Code != code {
		return nil, nil
	}
	delete(r.otps, email)
	return otp, nil
}

func (r *fakeOTPRepo) DeleteByEmail(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.otps, email)
	return nil
}

func (r *fakeOTPRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeOTPRepo) get(email string) *models.OTP {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.otps[email]
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (m *fakeMailer) SendEmail(to, subject, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: msg})
	return nil
}

type fakeNoteRepo struct {
	mu    sync.Mutex
	notes map[primitive.ObjectID]*models.Note
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: make(map[primitive.ObjectID]*models.Note)}
}

func noteMatches(n *models.Note, filter bson.M) bool {
	if id, ok := filter["_id"]; ok && n.ID != id.(primitive.ObjectID) {
		return false
	}
	if uid, ok := filter["user_id"]; ok && n.UserID != uid.(primitive.ObjectID) {
		return false
	}
	return true
}

func (r *fakeNoteRepo) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	note.ID = primitive.NewObjectID()
	cp := *note
	r.notes[note.ID] = &cp
	return note, nil
}

func (r *fakeNoteRepo) Find(ctx context.Context, filter bson.M) ([]models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Note
	for _, n := range r.notes {
		if noteMatches(n, filter) {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNoteRepo) FindOne(ctx context.Context, filter bson.M) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notes {
		if noteMatches(n, filter) {
			cp := *n
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeNoteRepo) UpdateOne(ctx context.Context, filter bson.M, update bson.M) (*mongo.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, _ := update["$set"].(bson.M)
	for _, n := range r.notes {
		if noteMatches(n, filter) {
			if title, ok := set["title"]; ok {
				n.Title = title.(string)
			}
			if content, ok := set["content"]; ok {
				n.Content = content.(string)
			}
			if summary, ok := set["summary"]; ok {
				n.Summary = summary.(string)
			}
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &mongo.UpdateResult{}, nil
}

func (r *fakeNoteRepo) DeleteOne(ctx context.Context, filter bson.M) (*mongo.DeleteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range r.notes {
		if noteMatches(n, filter) {
			delete(r.notes, id)
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &mongo.DeleteResult{}, nil
}
