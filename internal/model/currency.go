package model

import (
	"strings"

	"github.com/Rhymond/go-money"
)

// SupportedCurrencies are the codes offered by the calculator.
var SupportedCurrencies = []string{money.USD, money.EUR, money.GBP, money.JPY, money.INR, money.IDR}

// CurrencyFor returns the display currency for an ISO code. Unknown codes
// keep the code as their symbol.
func CurrencyFor(code string) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = money.USD
	}
	c := money.GetCurrency(code)
	if c == nil {
		return Currency{Code: code, Symbol: code}
	}
	return Currency{Code: c.Code, Symbol: c.Grapheme}
}
