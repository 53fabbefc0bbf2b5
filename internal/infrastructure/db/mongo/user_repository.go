package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusunify/campus-api/internal/core/domain"
)

const userCollection = "users"

// UserRepository implements ports.UserRepository on the users collection.
// A unique index on email is expected; duplicate-key violations surface as
// domain.ErrEmailTaken.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(userCollection)}
}

type userDoc struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	Name                 string             `bson:"name"`
	Email                string             `bson:"email"`
	Role                 string             `bson:"role"`
	Avatar               string             `bson:"avatar,omitempty"`
	PasswordHash         string             `bson:"password_hash"`
	PasswordChangedAt    time.Time          `bson:"password_changed_at,omitempty"`
	IsVerified           bool               `bson:"is_verified"`
	Active               bool               `bson:"active"`
	OTP                  string             `bson:"otp,omitempty"`
	OTPExpires           time.Time          `bson:"otp_expires,omitempty"`
	PasswordResetToken   string             `bson:"password_reset_token,omitempty"`
	PasswordResetExpires time.Time          `bson:"password_reset_expires,omitempty"`
	CreatedAt            time.Time          `bson:"created_at"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		Name:                 u.Name,
		Email:                u.Email,
		Role:                 u.Role,
		Avatar:               u.Avatar,
		PasswordHash:         u.PasswordHash,
		PasswordChangedAt:    u.PasswordChangedAt,
		IsVerified:           u.IsVerified,
		Active:               u.Active,
		OTP:                  u.OTP,
		OTPExpires:           u.OTPExpires,
		PasswordResetToken:   u.PasswordResetToken,
		PasswordResetExpires: u.PasswordResetExpires,
		CreatedAt:            u.CreatedAt,
	}
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:                   d.ID.Hex(),
		Name:                 d.Name,
		Email:                d.Email,
		Role:                 d.Role,
		Avatar:               d.Avatar,
		PasswordHash:         d.PasswordHash,
		PasswordChangedAt:    d.PasswordChangedAt,
		IsVerified:           d.IsVerified,
		Active:               d.Active,
		OTP:                  d.OTP,
		OTPExpires:           d.OTPExpires,
		PasswordResetToken:   d.PasswordResetToken,
		PasswordResetExpires: d.PasswordResetExpires,
		CreatedAt:            d.CreatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	res, err := r.coll.InsertOne(ctx, toUserDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid, "active": true})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "active": true})
}

func (r *UserRepository) FindByEmailAndOTP(ctx context.Context, email, otp string, now time.Time) (*domain.User, error) {
	if otp == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{
		"email":       email,
		"otp":         otp,
		"otp_expires": bson.M{"$gt": now},
		"active":      true,
	})
}

func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"password_reset_token":   tokenHash,
		"password_reset_expires": bson.M{"$gt": now},
		"active":                 true,
	})
}

// Update replaces the stored document. Cleared fields carry omitempty so they
// are removed rather than written as zero values.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, toUserDoc(user))
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	_, err = r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"active": false}})
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}
