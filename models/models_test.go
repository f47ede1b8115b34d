package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwner(t *testing.T) {
	assert.Equal(t, Owner("user:3"), UserOwner(3))
	assert.Equal(t, Owner("group:12"), GroupOwner(12))

	kind, id, err := GroupOwner(12).Parse()
	require.NoError(t, err)
	assert.Equal(t, "group", kind)
	assert.Equal(t, 12, id)

	for _, bad := range []Owner{"", "user", "user:", "user:x", "team:1", "user:0", "user:-4"} {
		assert.False(t, bad.Valid(), string(bad))
	}
}

func TestDate_JSON(t *testing.T) {
	var v struct {
		Due Date `json:"due"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2024-03-31"}`), &v))
	assert.Equal(t, NewDate(2024, time.March, 31), v.Due)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2024-03-31"}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"due":null}`), &v))
	assert.True(t, v.Due.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"due":"31/03/2024"}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"due":20240331}`), &v))
}

func TestDate_Scan(t *testing.T) {
	want := NewDate(2024, time.January, 5)

	tests := []struct {
		name string
		src  any
	}{
		{"text date", "2024-01-05"},
		{"bytes date", []byte("2024-01-05")},
		{"text timestamp", "2024-01-05T00:00:00Z"},
		{"time value", time.Date(2024, time.January, 5, 13, 45, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, want, d)
		})
	}

	var d Date
	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
	assert.Error(t, d.Scan(42))

	v, err := want.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", v)
}

func TestTransactionInput_Validate(t *testing.T) {
	valid := func() TransactionInput {
		return TransactionInput{
			AccountID:   1,
			Description: "  Groceries ",
			Amount:      12.345,
			Type:        Expense,
			DueDate:     NewDate(2024, time.May, 1),
		}
	}

	in := valid()
	require.Equal(t, "", in.Validate())
	assert.Equal(t, "Groceries", in.Description)
	assert.Equal(t, 12.35, in.Amount)

	zero := 0
	tests := []struct {
		name   string
		mutate func(*TransactionInput)
		want   string
	}{
		{"missing account", func(i *TransactionInput) { i.AccountID = 0 }, "account_id is required"},
		{"negative amount", func(i *TransactionInput) { i.Amount = -1 }, "amount must be non-negative"},
		{"bad type", func(i *TransactionInput) { i.Type = "transfer" }, "type must be one of: income, expense"},
		{"missing due date", func(i *TransactionInput) { i.DueDate = Date{} }, "due_date is required"},
		{"bad category", func(i *TransactionInput) { i.CategoryID = &zero }, "category_id must be positive"},
		{"bad payment type", func(i *TransactionInput) { i.PaymentTypeID = &zero }, "payment_type_id must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			assert.Equal(t, tt.want, in.Validate())
		})
	}
}

func TestCredentials_Validate(t *testing.T) {
	c := Credentials{Username: "  ana ", Password: "correct horse"}
	assert.Equal(t, "", c.Validate())
	assert.Equal(t, "ana", c.Username)

	short := Credentials{Username: "an", Password: "correct horse"}
	assert.NotEmpty(t, short.Validate())

	weak := Credentials{Username: "ana", Password: "1234"}
	assert.NotEmpty(t, weak.Validate())
}

func TestDeleteAccountInput_Validate(t *testing.T) {
	in := DeleteAccountInput{}
	assert.Equal(t, "new_account_id is required", in.Validate())
	in.NewAccountID = 2
	assert.Equal(t, "", in.Validate())
}

func TestAccountInput_Validate(t *testing.T) {
	in := AccountInput{Name: "  Checking "}
	assert.Equal(t, "", in.Validate())
	assert.Equal(t, "Checking", in.Name)

	for _, name := range []string{"", "   ", "\t\n"} {
		in := AccountInput{Name: name}
		assert.Equal(t, "name is required", in.Validate(), "%q", name)
	}

	long := AccountInput{Name: strings.Repeat("x", 101)}
	assert.NotEmpty(t, long.Validate())
}
