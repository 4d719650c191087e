package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the on-disk and wire format of transaction dates.
const DateLayout = "2006-01-02"

// MonthLayout is the format of year-month keys used by rollups.
const MonthLayout = "2006-01"

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

const (
	INR Currency = "INR"
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"

	DefaultCurrency = INR
)

// Currencies lists the supported currencies in display order.
var Currencies = []Currency{INR, USD, EUR, GBP}

var currencySymbols = map[Currency]string{
	INR: "₹",
	USD: "$",
	EUR: "€",
	GBP: "£",
}

// Category presets offered to users when entering a transaction.
var (
	IncomeCategories  = []string{"Salary", "Freelance", "Investment", "Gift", "Other Income"}
	ExpenseCategories = []string{"Food", "Transportation", "Housing", "Entertainment",
		"Healthcare", "Shopping", "Utilities", "Other Expense"}
)

type (
	Kind     string
	Currency string

	Contact struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Email string `json:"email"`
	}

	Transaction struct {
		ID          int64
		Date        string // YYYY-MM-DD
		Kind        Kind
		Category    string
		Amount      decimal.Decimal
		Currency    Currency
		Description string
		CreatedAt   time.Time
	}

	// Budget and SavingsGoal are persisted by the schema but no operation fills them
	// yet; ClearAll removes them together with the transactions.
	Budget struct {
		ID        int64
		Month     string // YYYY-MM
		Category  string
		Allocated decimal.Decimal
		Spent     decimal.Decimal
	}

	SavingsGoal struct {
		ID       int64
		Name     string
		Target   decimal.Decimal
		Current  decimal.Decimal
		Deadline string // optional YYYY-MM-DD
	}
)

// ParseKind accepts "income" or "expense" in any case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", ErrInvalidKind
	}
	return k, nil
}

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

func (k Kind) String() string {
	return string(k)
}

// Categories returns the preset categories for the kind.
func (k Kind) Categories() []string {
	if k == KindIncome {
		return append([]string(nil), IncomeCategories...)
	}
	return append([]string(nil), ExpenseCategories...)
}

// ParseCurrency normalizes a currency code and checks it against Currencies.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", ErrInvalidCurrency
	}
	return c, nil
}

func (c Currency) Valid() bool {
	_, ok := currencySymbols[c]
	return ok
}

// Symbol returns the display symbol, falling back to the code itself.
func (c Currency) Symbol() string {
	if s, ok := currencySymbols[c]; ok {
		return s
	}
	return string(c)
}

func (c Currency) String() string {
	return string(c)
}

// ValidateDate reports whether s is a real calendar date in DateLayout.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// ValidateMonth reports whether s is a year-month in MonthLayout.
func ValidateMonth(s string) error {
	if _, err := time.Parse(MonthLayout, s); err != nil {
		return ErrInvalidMonth
	}
	return nil
}

// Month returns the YYYY-MM prefix of the transaction date.
func (t Transaction) Month() string {
	if len(t.Date) < len(MonthLayout) {
		return t.Date
	}
	return t.Date[:len(MonthLayout)]
}

func (t Transaction) Validate() error {
	if err := ValidateDate(t.Date); err != nil {
		return err
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !t.Currency.Valid() {
		return ErrInvalidCurrency
	}
	return nil
}

// Normalize trims surrounding whitespace from every field.
func (c Contact) Normalize() Contact {
	return Contact{
		Name:  strings.TrimSpace(c.Name),
		Phone: strings.TrimSpace(c.Phone),
		Email: strings.TrimSpace(c.Email),
	}
}

func (c Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(c.Phone) == "" {
		return ErrEmptyPhone
	}
	return nil
}
