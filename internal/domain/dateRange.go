package domain

import (
	"time"

	"github.com/jinzhu/now"
)

// DateRange é o filtro de período usado por todas as visões de agregação.
// Invariante: Start <= End.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DefaultDateRange vai do primeiro instante do mês corrente até o fim do dia
func DefaultDateRange(reference time.Time) DateRange {
	n := now.With(reference)
	return DateRange{
		Start: n.BeginningOfMonth(),
		End:   n.EndOfDay(),
	}
}

// NewDateRange normaliza start para o início do dia e end para o fim do dia,
// ajustando end quando ele fica antes de start.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{}.WithStart(start).WithEnd(end)
}

// WithStart troca o início do período. Se o fim ficar antes do novo início,
// o fim passa a ser o fim do dia inicial.
func (r DateRange) WithStart(start time.Time) DateRange {
	r.Start = now.With(start).BeginningOfDay()
	if r.End.Before(r.Start) {
		r.End = now.With(start).EndOfDay()
	}
	return r
}

// WithEnd troca o fim do período, respeitando o mínimo igual ao início
func (r DateRange) WithEnd(end time.Time) DateRange {
	r.End = now.With(end).EndOfDay()
	if r.End.Before(r.Start) {
		r.End = now.With(r.Start).EndOfDay()
	}
	return r
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}
