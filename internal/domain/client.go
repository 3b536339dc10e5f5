package domain

import "strings"

// Campos da coleção Client
const (
	ClientFieldGivenNames = "nombres"
	ClientFieldSurnames   = "apellidos"
)

type Client struct {
	ID         string `json:"id"`
	GivenNames string `json:"given_names"`
	Surnames   string `json:"surnames"`
}

// DisplayName é titleCase(nombres + " " + apellidos)
func (c Client) DisplayName() string {
	return TitleCase(strings.TrimSpace(c.GivenNames + " " + c.Surnames))
}

// ClientMatch é um resultado da busca de clientes
type ClientMatch struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// ClientOfTheRange é o cliente com maior receita no período
type ClientOfTheRange struct {
	ClientID    string  `json:"client_id"`
	DisplayName string  `json:"display_name"`
	TotalValue  float64 `json:"total_value"`
	OrderCount  int     `json:"order_count"`
}

// TitleCase coloca em maiúscula a primeira letra de cada palavra separada por espaço
// e em minúscula o restante.
func TitleCase(s string) string {
	words := strings.Split(strings.ToLower(s), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		runes := []rune(word)
		words[i] = strings.ToUpper(string(runes[0])) + string(runes[1:])
	}
	return strings.Join(words, " ")
}
