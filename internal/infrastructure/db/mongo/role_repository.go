package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/securebase/auth-service/internal/core/domain"
)

const rolesCollection = "roles"

// MongoRoleRepository stores the seeded role table. Roles are written once at
// startup and read-only afterwards.
type MongoRoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{coll: db.Collection(rolesCollection)}
}

type roleDoc struct {
	ID   int    `bson:"_id"`
	Name string `bson:"name"`
}

func (r *MongoRoleRepository) FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	var doc roleDoc
	if err := r.coll.FindOne(ctx, bson.M{"name": string(name)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{ID: doc.ID, Name: domain.RoleName(doc.Name)}, nil
}

func (r *MongoRoleRepository) Create(ctx context.Context, role *domain.Role) error {
	doc := roleDoc{ID: role.ID, Name: string(role.Name)}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}
