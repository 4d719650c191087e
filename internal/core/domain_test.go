package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-01-01", true},
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"2025-13-01", false},
		{"2025-1-5", false},
		{"01/02/2025", false},
		{"", false},
	}
	for _, tc := range cases {
		err := ValidateDate(tc.in)
		if tc.ok {
			assert.NoError(t, err, tc.in)
		} else {
			assert.ErrorIs(t, err, ErrValidation, tc.in)
		}
	}
}

func TestValidateMonth(t *testing.T) {
	assert.NoError(t, ValidateMonth("2025-01"))
	assert.ErrorIs(t, ValidateMonth("2025-1"), ErrInvalidMonth)
	assert.ErrorIs(t, ValidateMonth("2025-01-01"), ErrInvalidMonth)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Income ")
	require.NoError(t, err)
	assert.Equal(t, KindIncome, k)

	_, err = ParseKind("transfer")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency("usd")
	require.NoError(t, err)
	assert.Equal(t, USD, c)
	assert.Equal(t, "$", c.Symbol())

	_, err = ParseCurrency("JPY")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
	assert.Equal(t, "JPY", Currency("JPY").Symbol())
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:     "2024-12-01",
		Kind:     KindIncome,
		Category: "Salary",
		Amount:   decimal.NewFromInt(3000),
		Currency: INR,
	}
	require.NoError(t, good.Validate())
	assert.Equal(t, "2024-12", good.Month())

	bad := func(mut func(*Transaction)) Transaction {
		tx := good
		mut(&tx)
		return tx
	}
	cases := map[string]struct {
		tx   Transaction
		want error
	}{
		"zero amount":     {bad(func(t *Transaction) { t.Amount = decimal.Zero }), ErrInvalidAmount},
		"negative amount": {bad(func(t *Transaction) { t.Amount = decimal.NewFromInt(-5) }), ErrInvalidAmount},
		"bad date":        {bad(func(t *Transaction) { t.Date = "2024-02-30" }), ErrInvalidDate},
		"bad kind":        {bad(func(t *Transaction) { t.Kind = "transfer" }), ErrInvalidKind},
		"empty category":  {bad(func(t *Transaction) { t.Category = "  " }), ErrEmptyCategory},
		"bad currency":    {bad(func(t *Transaction) { t.Currency = "XYZ" }), ErrInvalidCurrency},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.tx.Validate()
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestContactValidate(t *testing.T) {
	c := Contact{Name: "  Ada ", Phone: " 123 ", Email: " a@b.c "}.Normalize()
	assert.Equal(t, Contact{Name: "Ada", Phone: "123", Email: "a@b.c"}, c)
	assert.NoError(t, c.Validate())

	assert.ErrorIs(t, Contact{Name: " ", Phone: "1"}.Validate(), ErrEmptyName)
	assert.ErrorIs(t, Contact{Name: "Ada", Phone: ""}.Validate(), ErrEmptyPhone)
}

func TestStorageError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("save contacts", cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "save contacts")
	assert.NoError(t, NewStorageError("noop", nil))

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "save contacts", se.Op)
}
