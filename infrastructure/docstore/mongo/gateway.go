// Package mongo implementa o docstore.Gateway sobre MongoDB
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var operators = map[docstore.Operator]string{
	docstore.OpEq:  "$eq",
	docstore.OpGte: "$gte",
	docstore.OpLte: "$lte",
	docstore.OpLt:  "$lt",
}

type Gateway struct {
	client   *mongo.Client
	database *mongo.Database
	timeout  time.Duration
}

// Connect abre o cliente e valida a conexão com um ping
func Connect(ctx context.Context, cfg config.DocStore) (*Gateway, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, errors.Wrap(err, "erro ao conectar ao MongoDB")
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "erro ao testar conexão com MongoDB")
	}

	logrus.WithField("database", cfg.MongoDatabase).Info("Conexão com MongoDB estabelecida com sucesso")

	return &Gateway{
		client:   client,
		database: client.Database(cfg.MongoDatabase),
		timeout:  cfg.QueryTimeout,
	}, nil
}

func (g *Gateway) Close(ctx context.Context) error {
	return g.client.Disconnect(ctx)
}

func (g *Gateway) Find(ctx context.Context, q docstore.Query) ([]docstore.Document, error) {
	filter, err := buildFilter(q.Filters)
	if err != nil {
		return nil, docstore.NewQueryError(q.Collection, err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	cursor, err := g.database.Collection(q.Collection).Find(ctx, filter, findOptions(q))
	if err != nil {
		return nil, docstore.NewQueryError(q.Collection, errors.Wrap(err, "erro ao executar a consulta"))
	}
	defer cursor.Close(ctx)

	docs := make([]docstore.Document, 0)
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, docstore.NewQueryError(q.Collection, errors.Wrap(err, "erro ao decodificar documento"))
		}
		docs = append(docs, toDocument(raw))
	}

	if err := cursor.Err(); err != nil {
		return nil, docstore.NewQueryError(q.Collection, errors.Wrap(err, "erro durante a iteração do cursor"))
	}

	return docs, nil
}

// buildFilter agrupa os predicados por campo: {campo: {$gte: a, $lte: b}}
func buildFilter(filters []docstore.Filter) (bson.D, error) {
	filter := bson.D{}
	index := make(map[string]int)

	for _, f := range filters {
		op, ok := operators[f.Op]
		if !ok {
			return nil, fmt.Errorf("operador não suportado: %s", f.Op)
		}

		value := f.Value
		if f.Field == docstore.FieldID {
			value = idValue(value)
		}

		i, exists := index[f.Field]
		if !exists {
			index[f.Field] = len(filter)
			filter = append(filter, bson.E{Key: f.Field, Value: bson.D{{Key: op, Value: value}}})
			continue
		}

		conditions := filter[i].Value.(bson.D)
		filter[i].Value = append(conditions, bson.E{Key: op, Value: value})
	}

	return filter, nil
}

// idValue usa ObjectID quando o id informado é um hex válido, senão mantém a string
func idValue(value any) any {
	if s, ok := value.(string); ok {
		if oid, err := primitive.ObjectIDFromHex(s); err == nil {
			return oid
		}
	}
	return value
}

func findOptions(q docstore.Query) *options.FindOptions {
	opts := options.Find()
	if q.OrderBy != "" {
		direction := 1
		if q.Descending {
			direction = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: direction}})
	}
	return opts
}

func toDocument(raw bson.M) docstore.Document {
	doc := docstore.Document{Fields: make(map[string]any, len(raw))}

	for key, value := range raw {
		if key == "_id" {
			doc.ID = idString(value)
			continue
		}
		doc.Fields[key] = plain(value)
	}

	return doc
}

func idString(value any) string {
	switch id := value.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

// plain converte os tipos do driver para map/slice comuns, como o normalizador espera
func plain(value any) any {
	switch v := value.(type) {
	case bson.M:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = plain(item)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(v))
		for _, e := range v {
			out[e.Key] = plain(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = plain(item)
		}
		return out
	case primitive.DateTime:
		return docstore.ToISO(v.Time())
	case primitive.ObjectID:
		return v.Hex()
	default:
		return v
	}
}
