package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorny/user-api/internal/core/domain"
	"github.com/mentorny/user-api/internal/core/ports"
)

const userCollection = "users"

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

// EnsureIndexes creates the unique email index. Email uniqueness is
// case-sensitive: the index compares the stored value byte for byte.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}
	return nil
}

type mongoUser struct {
	ID                    primitive.ObjectID   `bson:"_id,omitempty"`
	Email                 string               `bson:"email"`
	PasswordHash          string               `bson:"password_hash"`
	Name                  string               `bson:"name"`
	Age                   int                  `bson:"age"`
	Roles                 []string             `bson:"roles"`
	RefreshTokenHash      string               `bson:"refresh_token_hash"`
	RefreshTokenExpiresAt int64                `bson:"refresh_token_expires_at"`
	SkillIDs              []primitive.ObjectID `bson:"skill_ids,omitempty"`
	CreatedAt             int64                `bson:"created_at"`
	UpdatedAt             int64                `bson:"updated_at"`
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		Email:                 user.Email,
		PasswordHash:          user.PasswordHash,
		Name:                  user.Name,
		Age:                   user.Age,
		Roles:                 rolesToStrings(user.Roles),
		RefreshTokenHash:      user.RefreshTokenHash,
		RefreshTokenExpiresAt: user.RefreshTokenExpiresAt.Unix(),
		CreatedAt:             user.CreatedAt.Unix(),
		UpdatedAt:             user.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	return r.FindByID(ctx, id.Hex())
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, mu.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepository) Update(ctx context.Context, id string, fields ports.UpdateUserFields) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if fields.Email != nil {
		set["email"] = *fields.Email
	}
	if fields.Name != nil {
		set["name"] = *fields.Name
	}
	if fields.Age != nil {
		set["age"] = *fields.Age
	}
	if fields.PasswordHash != nil {
		set["password_hash"] = *fields.PasswordHash
	}
	if fields.Roles != nil {
		set["roles"] = rolesToStrings(fields.Roles)
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateRefreshToken rotates the single refresh-token slot in one document
// update, the atomic unit of consistency for the refresh workflow.
func (r *MongoUserRepository) UpdateRefreshToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"refresh_token_hash":       tokenHash,
		"refresh_token_expires_at": expiresAt.Unix(),
	}})
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}
	return nil
}

// ClearRefreshToken resets the slot to the empty sentinel and an already-past
// expiry so every future match and expiry check fails closed. Clearing a
// user that has no token (or no longer exists) is a no-op.
func (r *MongoUserRepository) ClearRefreshToken(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"refresh_token_hash":       "",
		"refresh_token_expires_at": int64(0),
	}})
	if err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) FindWithRefreshToken(ctx context.Context) ([]*domain.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{"refresh_token_hash": bson.M{"$ne": ""}})
	if err != nil {
		return nil, fmt.Errorf("list refresh-token holders: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, mu.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list refresh-token holders: %w", err)
	}
	return users, nil
}

// AddSkills links skill ids via $addToSet, so re-associating an existing
// skill is a no-op.
func (r *MongoUserRepository) AddSkills(ctx context.Context, id string, skillIDs []string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	oids := make([]primitive.ObjectID, 0, len(skillIDs))
	for _, sid := range skillIDs {
		soid, err := primitive.ObjectIDFromHex(sid)
		if err != nil {
			return fmt.Errorf("add skills: bad skill id %q", sid)
		}
		oids = append(oids, soid)
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$addToSet": bson.M{"skill_ids": bson.M{"$each": oids}},
	})
	if err != nil {
		return fmt.Errorf("add skills: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (mu *mongoUser) toDomain() *domain.User {
	roles := make([]domain.Role, 0, len(mu.Roles))
	for _, r := range mu.Roles {
		roles = append(roles, domain.Role(r))
	}
	skillIDs := make([]string, 0, len(mu.SkillIDs))
	for _, sid := range mu.SkillIDs {
		skillIDs = append(skillIDs, sid.Hex())
	}
	return &domain.User{
		ID:                    mu.ID.Hex(),
		Email:                 mu.Email,
		PasswordHash:          mu.PasswordHash,
		Name:                  mu.Name,
		Age:                   mu.Age,
		Roles:                 roles,
		RefreshTokenHash:      mu.RefreshTokenHash,
		RefreshTokenExpiresAt: unixToTime(mu.RefreshTokenExpiresAt),
		SkillIDs:              skillIDs,
		CreatedAt:             unixToTime(mu.CreatedAt),
		UpdatedAt:             unixToTime(mu.UpdatedAt),
	}
}

func rolesToStrings(roles []domain.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
