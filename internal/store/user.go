package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vgb-web/apiserver/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository handles persistence for user accounts in MongoDB.
type UserRepository struct {
	c *mongo.Collection
}

func NewUserRepository(database *mongo.Database) *UserRepository {
	return &UserRepository{c: database.Collection("users")}
}

// NormalizeEmail lowercases and trims an email so lookups and the unique
// index compare case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return types.User{}, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return r.findOne(ctx, bson.M{"email": NormalizeEmail(email)})
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (types.User, error) {
	return r.findOne(ctx, bson.M{"password_reset_token": token})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (types.User, error) {
	var user types.User
	if err := r.c.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.Email = NormalizeEmail(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.c.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return types.User{}, ErrDuplicateEmail
		}
		return types.User{}, err
	}
	return user, nil
}

// SetVerificationOTP stores a fresh OTP and its expiry in one update so
// the pair is never half-written.
func (r *UserRepository) SetVerificationOTP(ctx context.Context, id, otp string, expires time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"email_verification_otp":         otp,
			"email_verification_otp_expires": expires,
			"updated_at":                     time.Now(),
		},
	})
}

// MarkEmailVerified flips the verified flag and clears the consumed OTP
// pair in the same update.
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"email_verified": true,
			"updated_at":     time.Now(),
		},
		"$unset": bson.M{
			"email_verification_otp":         "",
			"email_verification_otp_expires": "",
		},
	})
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"password_reset_token":   token,
			"password_reset_expires": expires,
			"updated_at":             time.Now(),
		},
	})
}

// ReplacePassword swaps in a new password hash and clears the consumed
// reset token pair in the same update.
func (r *UserRepository) ReplacePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		},
		"$unset": bson.M{
			"password_reset_token":   "",
			"password_reset_expires": "",
		},
	})
}

func (r *UserRepository) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{"last_login_at": at},
	})
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, upd types.ProfileUpdate) (types.User, error) {
	set := bson.M{"updated_at": time.Now()}
	if upd.Name != nil {
		set["name"] = strings.TrimSpace(*upd.Name)
	}
	if upd.Company != nil {
		set["company"] = strings.TrimSpace(*upd.Company)
	}
	if upd.Profession != nil {
		set["profession"] = strings.TrimSpace(*upd.Profession)
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (r *UserRepository) UpdateMembership(ctx context.Context, id, status, membershipType string) (types.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$set": bson.M{
			"membership_status": status,
			"membership_type":   membershipType,
			"updated_at":        time.Now(),
		},
	})
}

func (r *UserRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (types.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return types.User{}, ErrNotFound
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user types.User
	if err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}
