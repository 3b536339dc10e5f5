package utils

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var currencySymbols = map[string]string{
	"COP": "$",
	"USD": "US$",
	"EUR": "€",
}

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// MoneyFormatter formata valores monetários com agrupamento do locale e sem casas decimais
type MoneyFormatter struct {
	printer *message.Printer
	symbol  string
}

func NewMoneyFormatter(tag, currencyCode string) *MoneyFormatter {
	lang, err := language.Parse(tag)
	if err != nil {
		lang = language.MustParse("es-CO")
	}

	symbol, ok := currencySymbols[currencyCode]
	if !ok {
		symbol = currencyCode
	}

	return &MoneyFormatter{
		printer: message.NewPrinter(lang),
		symbol:  symbol,
	}
}

// Format arredonda para inteiro e aplica o separador de milhar do locale
func (f *MoneyFormatter) Format(value float64) string {
	rounded := decimal.NewFromFloat(value).Round(0).IntPart()
	return f.symbol + " " + f.printer.Sprintf("%d", rounded)
}
