// Package docstore define o contrato de leitura do document store externo.
package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

//go:generate mockgen -source=gateway.go -destination=mocks/mock_gateway.go -package=mocks

// ISOLayout reproduz o formato gravado nos documentos (toISOString)
const ISOLayout = "2006-01-02T15:04:05.000Z"

// HighSentinel é o maior code point reconhecido pela ordenação do store como "qualquer sufixo"
const HighSentinel = "\uf8ff"

// ErrQuery é a causa de todo QueryError
var ErrQuery = errors.New("falha ao consultar o document store")

type Operator string

const (
	OpEq  Operator = "=="
	OpGte Operator = ">="
	OpLte Operator = "<="
	OpLt  Operator = "<"
)

// FieldID filtra pelo id do documento em vez de um campo do corpo
const FieldID = "_id"

type Filter struct {
	Field string
	Op    Operator
	Value any
}

// Query é uma consulta a uma coleção. Filtros são combinados com AND.
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string
	Descending bool
}

// Document é um registro bruto retornado pelo store
type Document struct {
	ID     string
	Fields map[string]any
}

type Gateway interface {
	// Find executa a consulta sem cache; cada chamada é uma ida ao store.
	Find(ctx context.Context, query Query) ([]Document, error)
}

// QueryError indica store inacessível ou consulta rejeitada
type QueryError struct {
	Collection string
	Err        error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s (coleção %s): %v", ErrQuery.Error(), e.Collection, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func (e *QueryError) Is(target error) bool {
	return target == ErrQuery
}

// NewQueryError envolve err num QueryError, preservando um QueryError existente
func NewQueryError(collection string, err error) error {
	if err == nil {
		return nil
	}
	var qe *QueryError
	if errors.As(err, &qe) {
		return err
	}
	return &QueryError{Collection: collection, Err: err}
}

func ToISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// RangeFilters monta field >= ISO(start) AND field <= ISO(end)
func RangeFilters(field string, start, end time.Time) []Filter {
	return []Filter{
		{Field: field, Op: OpGte, Value: ToISO(start)},
		{Field: field, Op: OpLte, Value: ToISO(end)},
	}
}

// PrefixFilters monta o intervalo [prefix, prefix + HighSentinel)
func PrefixFilters(field, prefix string) []Filter {
	return []Filter{
		{Field: field, Op: OpGte, Value: prefix},
		{Field: field, Op: OpLt, Value: prefix + HighSentinel},
	}
}

// RangeQuery descreve fetchByRange: data no intervalo, igualdades extras e ordenação opcional
type RangeQuery struct {
	Collection  string
	DateField   string
	Start       time.Time
	End         time.Time
	ExtraEquals map[string]any
	OrderBy     string
	Descending  bool
}

// FetchByRange consulta os documentos cujo DateField está no intervalo fechado [Start, End]
func FetchByRange(ctx context.Context, gw Gateway, rq RangeQuery) ([]Document, error) {
	filters := RangeFilters(rq.DateField, rq.Start, rq.End)
	for field, value := range rq.ExtraEquals {
		filters = append(filters, Filter{Field: field, Op: OpEq, Value: value})
	}

	docs, err := gw.Find(ctx, Query{
		Collection: rq.Collection,
		Filters:    filters,
		OrderBy:    rq.OrderBy,
		Descending: rq.Descending,
	})
	if err != nil {
		return nil, NewQueryError(rq.Collection, err)
	}

	return docs, nil
}
