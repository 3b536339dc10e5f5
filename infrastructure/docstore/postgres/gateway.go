// Package postgres implementa o docstore.Gateway sobre uma tabela jsonb
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/docstore"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	documentsTable = "documents d"
)

// Gateway lê documentos de documents(collection, id, data jsonb).
// As comparações usam COLLATE "C" para seguir a ordem por code point do sentinel.
type Gateway struct {
	conn    Queryer
	timeout time.Duration
}

func NewGateway(conn Queryer, timeout time.Duration) *Gateway {
	return &Gateway{
		conn:    conn,
		timeout: timeout,
	}
}

func (g *Gateway) Find(ctx context.Context, q docstore.Query) ([]docstore.Document, error) {
	query, args, err := buildFindQuery(q)
	if err != nil {
		return nil, docstore.NewQueryError(q.Collection, errors.Wrap(err, "erro ao construir a query"))
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	rows, err := g.conn.QueryContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			err = fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return nil, docstore.NewQueryError(q.Collection, errors.Wrap(err, "erro ao executar a query"))
	}
	defer rows.Close()

	docs := make([]docstore.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, docstore.NewQueryError(q.Collection, errors.Wrap(err, "erro ao escanear documento"))
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, docstore.NewQueryError(q.Collection, errors.Wrap(err, "erro durante a iteração de linhas"))
	}

	return docs, nil
}

func buildFindQuery(q docstore.Query) (string, []any, error) {
	builder := squirrel.
		Select("d.id", "d.data").
		From(documentsTable).
		Where(squirrel.Eq{"d.collection": q.Collection}).
		PlaceholderFormat(squirrel.Dollar)

	for _, f := range q.Filters {
		pred, args, err := filterPredicate(f)
		if err != nil {
			return "", nil, err
		}
		builder = builder.Where(pred, args...)
	}

	if q.OrderBy != "" {
		direction := "ASC"
		if q.Descending {
			direction = "DESC"
		}
		builder = builder.OrderByClause(`(d.data->>(?::text)) COLLATE "C" `+direction, q.OrderBy)
	}

	return builder.ToSql()
}

func filterPredicate(f docstore.Filter) (string, []any, error) {
	if f.Field == docstore.FieldID {
		return idPredicate(f)
	}

	switch f.Op {
	case docstore.OpEq:
		containment, err := json.Marshal(map[string]any{f.Field: f.Value})
		if err != nil {
			return "", nil, err
		}
		return "d.data @> ?::jsonb", []any{string(containment)}, nil
	case docstore.OpGte, docstore.OpLte, docstore.OpLt:
		return fmt.Sprintf(`(d.data->>(?::text)) COLLATE "C" %s ?`, f.Op), []any{f.Field, fmt.Sprint(f.Value)}, nil
	default:
		return "", nil, fmt.Errorf("operador não suportado: %s", f.Op)
	}
}

func idPredicate(f docstore.Filter) (string, []any, error) {
	switch f.Op {
	case docstore.OpEq:
		return "d.id = ?", []any{fmt.Sprint(f.Value)}, nil
	case docstore.OpGte, docstore.OpLte, docstore.OpLt:
		return fmt.Sprintf(`d.id COLLATE "C" %s ?`, f.Op), []any{fmt.Sprint(f.Value)}, nil
	default:
		return "", nil, fmt.Errorf("operador não suportado: %s", f.Op)
	}
}

func scanDocument(rows *sql.Rows) (docstore.Document, error) {
	var (
		id   string
		data []byte
	)

	if err := rows.Scan(&id, &data); err != nil {
		return docstore.Document{}, err
	}

	fields := make(map[string]any)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &fields); err != nil {
			return docstore.Document{}, fmt.Errorf("erro ao deserializar JSON do documento %s: %w", id, err)
		}
	}

	return docstore.Document{ID: id, Fields: fields}, nil
}
