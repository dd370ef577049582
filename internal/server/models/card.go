package models

import "github.com/shopspring/decimal"

// CashCard is a monetary record owned by exactly one user for its entire
// lifetime. ID is assigned by the database on insert and never changes;
// Owner always holds the username of the authenticated caller that created
// the card, never a client-supplied value.
type CashCard struct {
	ID     int64
	Amount decimal.Decimal
	Owner  string
}
