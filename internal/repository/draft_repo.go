package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Werneck0live/cadastro-parceiros/internal/form"
)

const draftsCollection = "bp_drafts"

var (
	ErrNotFound        = errors.New("draft not found")
	ErrDuplicate       = errors.New("a draft is already open for this partner")
	ErrVersionConflict = errors.New("draft was modified concurrently")
)

type DraftRepository struct {
	coll *mongo.Collection
}

func NewDraftRepository(db *mongo.Database) *DraftRepository {
	return &DraftRepository{coll: db.Collection(draftsCollection)}
}

func (r *DraftRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "org_id", Value: 1}, {Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("org_updated"),
		},
		{
			// um rascunho aberto por parceiro já existente
			Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "bp_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_org_bp").
				SetPartialFilterExpression(bson.M{"bp_id": bson.M{"$type": "string"}}),
		},
	}
	for _, m := range models {
		if err := r.createIndex(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *DraftRepository) createIndex(ctx context.Context, model mongo.IndexModel) error {
	_, err := r.coll.Indexes().CreateOne(ctx, model)
	if err == nil {
		return nil
	}
	// Se já existir com outra opção, tenta dropar e recriar
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 85 { // IndexOptionsConflict
		name := *model.Options.Name
		if _, dropErr := r.coll.Indexes().DropOne(ctx, name); dropErr != nil {
			return fmt.Errorf("drop index %s: %w", name, dropErr)
		}
		_, err = r.coll.Indexes().CreateOne(ctx, model)
	}
	return err
}

// Insert grava um rascunho novo na versão 1.
func (r *DraftRepository) Insert(ctx context.Context, d *form.Draft) error {
	d.Version = 1
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *DraftRepository) Get(ctx context.Context, id string) (*form.Draft, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByBP devolve o rascunho aberto para um parceiro já existente.
func (r *DraftRepository) FindByBP(ctx context.Context, orgID, bpID string) (*form.Draft, error) {
	return r.findOne(ctx, bson.M{"org_id": orgID, "bp_id": bpID})
}

func (r *DraftRepository) findOne(ctx context.Context, filter bson.M) (*form.Draft, error) {
	var d form.Draft
	err := r.coll.FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DraftRepository) List(ctx context.Context, orgID string, limit, skip int64) ([]form.Draft, error) {
	opts := options.Find().SetLimit(limit).SetSkip(skip).SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"org_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []form.Draft{}
	for cur.Next(ctx) {
		var d form.Draft
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, cur.Err()
}

// Update substitui o documento se a versão lida ainda for a atual
// e avança d.Version.
func (r *DraftRepository) Update(ctx context.Context, d *form.Draft) error {
	read := d.Version
	d.Version = read + 1
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": d.ID, "version": read}, d)
	if err != nil {
		d.Version = read
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		d.Version = read
		n, err := r.coll.CountDocuments(ctx, bson.M{"_id": d.ID})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

func (r *DraftRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
