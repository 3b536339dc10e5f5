package session

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
)

// State é o conteúdo exibível de uma view do painel
type State[T any] struct {
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	Value     T         `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ticket identifica uma requisição disparada para uma view
type Ticket struct {
	Ctx context.Context
	seq uint64
}

// View guarda o último resultado de uma consulta assíncrona.
// Só o resultado do ticket mais recente é aplicado; respostas de tickets anteriores são descartadas.
type View[T any] struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	state  State[T]
}

func NewView[T any](initial T) *View[T] {
	return &View[T]{state: State[T]{Value: initial}}
}

// Begin invalida o ticket anterior, cancelando seu contexto, e marca a view como carregando
func (v *View[T]) Begin(parent context.Context) Ticket {
	ctx, cancel := context.WithCancel(parent)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancel != nil {
		v.cancel()
	}
	v.seq++
	v.cancel = cancel
	v.state.Loading = true

	return Ticket{Ctx: ctx, seq: v.seq}
}

// Apply grava o resultado se o ticket ainda for o mais recente. Em erro a view fica vazia.
func (v *View[T]) Apply(t Ticket, value T, err error) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if t.seq != v.seq {
		return false
	}

	var zero T
	v.state = State[T]{Value: value, UpdatedAt: time.Now()}
	if err != nil {
		v.state.Value = zero
		v.state.Error = apiErrors.FailedToLoadMessage
	}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}

	return true
}

// Run executa fn com o contexto do ticket e aplica o resultado
func (v *View[T]) Run(t Ticket, fn func(ctx context.Context) (T, error)) bool {
	if t.Ctx.Err() != nil {
		return false
	}
	value, err := fn(t.Ctx)
	return v.Apply(t, value, err)
}

// Reset substitui o conteúdo sem consulta, invalidando qualquer ticket em andamento
func (v *View[T]) Reset(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.seq++
	v.state = State[T]{Value: value, UpdatedAt: time.Now()}
}

func (v *View[T]) State() State[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Stop cancela o ticket em andamento sem alterar o conteúdo
func (v *View[T]) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.seq++
	v.state.Loading = false
}
