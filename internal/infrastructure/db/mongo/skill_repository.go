package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mentorny/user-api/internal/core/domain"
)

const skillCollection = "skills"

type MongoSkillRepository struct {
	coll *mongo.Collection
}

func NewSkillRepository(db *mongo.Database) *MongoSkillRepository {
	return &MongoSkillRepository{coll: db.Collection(skillCollection)}
}

type mongoSkill struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (r *MongoSkillRepository) FindByNames(ctx context.Context, names []string) ([]*domain.Skill, error) {
	if len(names) == 0 {
		return nil, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"name": bson.M{"$in": names}})
	if err != nil {
		return nil, fmt.Errorf("find skills: %w", err)
	}
	defer cur.Close(ctx)

	var skills []*domain.Skill
	for cur.Next(ctx) {
		var ms mongoSkill
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode skill: %w", err)
		}
		skills = append(skills, ms.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("find skills: %w", err)
	}
	return skills, nil
}

func (r *MongoSkillRepository) CreateMany(ctx context.Context, names []string) ([]*domain.Skill, error) {
	if len(names) == 0 {
		return nil, nil
	}

	now := time.Now().UTC().Unix()
	docs := make([]interface{}, 0, len(names))
	for _, name := range names {
		docs = append(docs, mongoSkill{
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("insert skills: %w", err)
	}

	skills := make([]*domain.Skill, 0, len(names))
	for i, id := range res.InsertedIDs {
		oid, _ := id.(primitive.ObjectID)
		skills = append(skills, &domain.Skill{
			ID:        oid.Hex(),
			Name:      names[i],
			CreatedAt: unixToTime(now),
			UpdatedAt: unixToTime(now),
		})
	}
	return skills, nil
}

func (r *MongoSkillRepository) FindAll(ctx context.Context) ([]*domain.Skill, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer cur.Close(ctx)

	var skills []*domain.Skill
	for cur.Next(ctx) {
		var ms mongoSkill
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode skill: %w", err)
		}
		skills = append(skills, ms.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return skills, nil
}

func (ms *mongoSkill) toDomain() *domain.Skill {
	return &domain.Skill{
		ID:        ms.ID.Hex(),
		Name:      ms.Name,
		CreatedAt: unixToTime(ms.CreatedAt),
		UpdatedAt: unixToTime(ms.UpdatedAt),
	}
}
