package models

import (
	"fmt"
	"strings"
)

// BankName identifies a supported statement issuer.
type BankName string

const (
	BankSberbank BankName = "sberbank"
	BankTinkoff  BankName = "tinkoff"
	BankAlfa     BankName = "alfabank"
	BankVTB      BankName = "vtb"
)

var bankDisplayNames = map[BankName]string{
	BankSberbank: "Сбербанк",
	BankTinkoff:  "Т-Банк",
	BankAlfa:     "Альфа-Банк",
	BankVTB:      "ВТБ",
}

// DisplayName is the human-facing bank name, used for suggested account names.
func (b BankName) DisplayName() string {
	if name, ok := bankDisplayNames[b]; ok {
		return name
	}
	return string(b)
}

// ParseBank accepts a bank identifier in any case.
func ParseBank(s string) (BankName, error) {
	b := BankName(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := bankDisplayNames[b]; !ok {
		return "", fmt.Errorf("unknown bank %q", s)
	}
	return b, nil
}

// AccountRequisites is the identity metadata pulled from a requisites PDF.
// CardLastFour is mandatory; parsers return nil instead of a record without it.
type AccountRequisites struct {
	BankName      BankName `json:"bank_name"`
	DisplayName   string   `json:"display_name"`
	CardLastFour  string   `json:"card_last_four"`
	AccountNumber string   `json:"account_number,omitempty"`
	Currency      string   `json:"currency"`
	OwnerName     string   `json:"owner_name,omitempty"`
}
