package ledger

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/satheeshds/fintrack/db"
	"github.com/satheeshds/fintrack/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a migrated SQLite database in a temp dir.
func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()

	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(context.Background(), conn, db.SQLite))

	return NewStore(conn, db.SQLite), conn
}

// newOwner registers a user and returns its owner reference along with the
// id of the default account.
func newOwner(t *testing.T, s *Store, username string) (models.Owner, int) {
	t.Helper()

	u, err := s.CreateUser(context.Background(), username, "hash")
	require.NoError(t, err)
	accounts, err := s.ListAccounts(context.Background(), u.Owner())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	return u.Owner(), accounts[0].ID
}

func createAccount(t *testing.T, s *Store, owner models.Owner, name string) models.Account {
	t.Helper()
	a, err := s.CreateAccount(context.Background(), owner, models.AccountInput{Name: name})
	require.NoError(t, err)
	return a
}

func createTxn(t *testing.T, s *Store, owner models.Owner, accountID int, typ models.TransactionType, amount float64) models.Transaction {
	t.Helper()
	in := models.TransactionInput{
		AccountID:   accountID,
		Description: string(typ),
		Amount:      amount,
		Type:        typ,
		DueDate:     models.NewDate(2024, time.March, 1),
	}
	require.Equal(t, "", in.Validate())
	txn, err := s.CreateTransaction(context.Background(), owner, in)
	require.NoError(t, err)
	return txn
}

func countByAccount(t *testing.T, conn *sql.DB, accountID int) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM transactions WHERE account_id = ?", accountID).Scan(&n))
	return n
}

// snapshot captures every transaction and account row for before/after
// comparisons.
func snapshot(t *testing.T, s *Store, owner models.Owner) ([]models.Account, []models.Transaction) {
	t.Helper()
	ctx := context.Background()
	accounts, err := s.ListAccounts(ctx, owner)
	require.NoError(t, err)
	txns, err := s.ListTransactions(ctx, owner, TransactionFilter{})
	require.NoError(t, err)
	return accounts, txns
}

// ---------------------------------------------------------------------------
// DeleteAccount
// ---------------------------------------------------------------------------

func TestDeleteAccount_ReassignsTransactions(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()
	owner, wallet := newOwner(t, s, "ana")

	checking, err := s.RenameAccount(ctx, owner, wallet, models.AccountInput{Name: "Checking"})
	require.NoError(t, err)
	savings := createAccount(t, s, owner, "Savings")

	t10 := createTxn(t, s, owner, checking.ID, models.Income, 100)
	t11 := createTxn(t, s, owner, checking.ID, models.Expense, 40)
	createTxn(t, s, owner, savings.ID, models.Income, 50)

	moved, err := s.DeleteAccount(ctx, checking.ID, savings.ID, "Checking", owner)
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved)

	for _, id := range []int{t10.ID, t11.ID} {
		got, err := s.GetTransaction(ctx, owner, id)
		require.NoError(t, err)
		require.NotNil(t, got.AccountID)
		assert.Equal(t, savings.ID, *got.AccountID)
		require.NotNil(t, got.OriginalAccountName)
		assert.Equal(t, "Checking", *got.OriginalAccountName)
	}

	_, err = s.GetAccount(ctx, owner, checking.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, countByAccount(t, conn, checking.ID))
	assert.Equal(t, 3, countByAccount(t, conn, savings.ID))
}

func TestDeleteAccount_CountsMoveExactly(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()
	owner, first := newOwner(t, s, "ana")
	second := createAccount(t, s, owner, "Second")
	third := createAccount(t, s, owner, "Third")

	for i := 0; i < 7; i++ {
		createTxn(t, s, owner, first, models.Expense, float64(i))
	}
	for i := 0; i < 3; i++ {
		createTxn(t, s, owner, second.ID, models.Income, float64(i))
	}
	createTxn(t, s, owner, third.ID, models.Income, 1)

	before := countByAccount(t, conn, second.ID)
	deleted := countByAccount(t, conn, first)

	_, err := s.DeleteAccount(ctx, first, second.ID, "", owner)
	require.NoError(t, err)

	assert.Zero(t, countByAccount(t, conn, first))
	assert.Equal(t, before+deleted, countByAccount(t, conn, second.ID))
	assert.Equal(t, 1, countByAccount(t, conn, third.ID))
}

func TestDeleteAccount_BlankNameUsesStoredName(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	owner, wallet := newOwner(t, s, "ana")
	other := createAccount(t, s, owner, "Other")
	txn := createTxn(t, s, owner, wallet, models.Expense, 5)

	_, err := s.DeleteAccount(ctx, wallet, other.ID, "   ", owner)
	require.NoError(t, err)

	got, err := s.GetTransaction(ctx, owner, txn.ID)
	require.NoError(t, err)
	require.NotNil(t, got.OriginalAccountName)
	assert.Equal(t, DefaultAccountName, *got.OriginalAccountName)
}

func TestDeleteAccount_KeepsFirstOriginalName(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	owner, wallet := newOwner(t, s, "ana")
	b := createAccount(t, s, owner, "B")
	c := createAccount(t, s, owner, "C")
	txn := createTxn(t, s, owner, wallet, models.Expense, 5)

	_, err := s.DeleteAccount(ctx, wallet, b.ID, "Wallet", owner)
	require.NoError(t, err)
	_, err = s.DeleteAccount(ctx, b.ID, c.ID, "B", owner)
	require.NoError(t, err)

	got, err := s.GetTransaction(ctx, owner, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, *got.AccountID)
	assert.Equal(t, "Wallet", *got.OriginalAccountName)
}

func TestDeleteAccount_LastAccount(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	owner, wallet := newOwner(t, s, "ana")
	createTxn(t, s, owner, wallet, models.Income, 10)
	accountsBefore, txnsBefore := snapshot(t, s, owner)

	_, err := s.DeleteAccount(ctx, wallet, wallet+1, "Wallet", owner)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLastAccount)

	accountsAfter, txnsAfter := snapshot(t, s, owner)
	assert.Equal(t, accountsBefore, accountsAfter)
	assert.Equal(t, txnsBefore, txnsAfter)
}

func TestDeleteAccount_SelfTransfer(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	owner, wallet := newOwner(t, s, "ana")
	createAccount(t, s, owner, "Other")
	createTxn(t, s, owner, wallet, models.Income, 10)
	accountsBefore, txnsBefore := snapshot(t, s, owner)

	_, err := s.DeleteAccount(ctx, wallet, wallet, "Wallet", owner)
	assert.ErrorIs(t, err, ErrSelfTransfer)

	accountsAfter, txnsAfter := snapshot(t, s, owner)
	assert.Equal(t, accountsBefore, accountsAfter)
	assert.Equal(t, txnsBefore, txnsAfter)
}

func TestDeleteAccount_ValidationOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	owner, wallet := newOwner(t, s, "ana")

	// Self-transfer is reported before the last-account check.
	_, err := s.DeleteAccount(ctx, wallet, wallet, "", owner)
	assert.ErrorIs(t, err, ErrSelfTransfer)

	// Last-account is reported before existence of the account.
	_, err = s.DeleteAccount(ctx, 9999, wallet, "", owner)
	assert.ErrorIs(t, err, ErrLastAccount)
}

func TestDeleteAccount_NotFoundOrForeign(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	ana, anaWallet := newOwner(t, s, "ana")
	anaOther := createAccount(t, s, ana, "Other")
	bob, bobWallet := newOwner(t, s, "bob")
	createAccount(t, s, bob, "Bob Other")
	bobTxn := createTxn(t, s, bob, bobWallet, models.Income, 10)

	tests := []struct {
		name        string
		accountID   int
		replacement int
	}{
		{"missing account", 9999, anaWallet},
		{"foreign account", bobWallet, anaWallet},
		{"missing replacement", anaOther.ID, 9999},
		{"foreign replacement", anaOther.ID, bobWallet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.DeleteAccount(ctx, tt.accountID, tt.replacement, "x", ana)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotFound)

			var nf *NotFoundError
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, "account", nf.Resource)
		})
	}

	got, err := s.GetTransaction(ctx, bob, bobTxn.ID)
	require.NoError(t, err)
	assert.Equal(t, bobWallet, *got.AccountID)
	assert.Nil(t, got.OriginalAccountName)
}

func TestDeleteAccount_RollsBackOnStorageFailure(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()
	owner, wallet := newOwner(t, s, "ana")
	other := createAccount(t, s, owner, "Other")
	createTxn(t, s, owner, wallet, models.Income, 10)
	createTxn(t, s, owner, wallet, models.Expense, 3)

	// Fail the account delete after the reassignment has already run.
	_, err := conn.Exec(`CREATE TRIGGER fail_account_delete BEFORE DELETE ON accounts
		BEGIN SELECT RAISE(ABORT, 'disk on fire'); END`)
	require.NoError(t, err)

	accountsBefore, txnsBefore := snapshot(t, s, owner)

	_, err = s.DeleteAccount(ctx, wallet, other.ID, "Wallet", owner)
	require.Error(t, err)
	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, err.Error(), "disk on fire")

	accountsAfter, txnsAfter := snapshot(t, s, owner)
	assert.Equal(t, accountsBefore, accountsAfter)
	assert.Equal(t, txnsBefore, txnsAfter)
	assert.Zero(t, countByAccount(t, conn, other.ID))
}

// ---------------------------------------------------------------------------
// Transactions
// ---------------------------------------------------------------------------

func TestTransactions_CRUD(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	owner, wallet := newOwner(t, s, "ana")
	category, err := s.CreateCategory(ctx, owner, models.NameInput{Name: "Groceries"})
	require.NoError(t, err)
	card, err := s.CreatePaymentType(ctx, owner, models.NameInput{Name: "Credit card"})
	require.NoError(t, err)

	in := models.TransactionInput{
		AccountID:     wallet,
		Description:   "Market",
		Amount:        80.5,
		Type:          models.Expense,
		DueDate:       models.NewDate(2024, time.April, 10),
		CategoryID:    &category.ID,
		PaymentTypeID: &card.ID,
	}
	created, err := s.CreateTransaction(ctx, owner, in)
	require.NoError(t, err)
	assert.False(t, created.IsConfirmed)
	assert.Nil(t, created.ConfirmedAt)
	assert.Equal(t, owner, created.Owner)
	assert.Equal(t, models.NewDate(2024, time.April, 10), created.DueDate)
	require.NotNil(t, created.AccountName)
	assert.Equal(t, DefaultAccountName, *created.AccountName)
	assert.Equal(t, "Groceries", *created.CategoryName)
	assert.Equal(t, "Credit card", *created.PaymentTypeName)

	in.Amount = 99
	in.Type = models.Income
	in.CategoryID = nil
	updated, err := s.UpdateTransaction(ctx, owner, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 99.0, updated.Amount)
	assert.Equal(t, models.Income, updated.Type)
	assert.Nil(t, updated.CategoryID)

	require.NoError(t, s.DeleteTransaction(ctx, owner, created.ID))
	_, err = s.GetTransaction(ctx, owner, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteTransaction(ctx, owner, created.ID), ErrNotFound)
}

func TestTransactions_ForeignReferences(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	ana, anaWallet := newOwner(t, s, "ana")
	bob, bobWallet := newOwner(t, s, "bob")
	bobCategory, err := s.CreateCategory(ctx, bob, models.NameInput{Name: "Rent"})
	require.NoError(t, err)

	in := models.TransactionInput{AccountID: bobWallet, Amount: 1, Type: models.Income, DueDate: models.Today()}
	_, err = s.CreateTransaction(ctx, ana, in)
	assert.ErrorIs(t, err, ErrNotFound)

	in.AccountID = anaWallet
	in.CategoryID = &bobCategory.ID
	_, err = s.CreateTransaction(ctx, ana, in)
	assert.ErrorIs(t, err, ErrNotFound)

	in.CategoryID = nil
	txn, err := s.CreateTransaction(ctx, ana, in)
	require.NoError(t, err)

	_, err = s.GetTransaction(ctx, bob, txn.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.UpdateTransaction(ctx, bob, txn.ID, models.TransactionInput{AccountID: bobWallet, Amount: 1, Type: models.Income, DueDate: models.Today()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTransaction_MissingTransactionReportedFirst(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	ana, _ := newOwner(t, s, "ana")
	_, bobWallet := newOwner(t, s, "bob")

	_, err := s.UpdateTransaction(ctx, ana, 9999, models.TransactionInput{
		AccountID: bobWallet, Amount: 1, Type: models.Income, DueDate: models.Today(),
	})
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf), "got %v", err)
	assert.Equal(t, "transaction", nf.Resource)
	assert.Equal(t, 9999, nf.ID)
}

func TestConfirmTransaction_OneWay(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	owner, wallet := newOwner(t, s, "ana")
	txn := createTxn(t, s, owner, wallet, models.Expense, 12)

	confirmed, err := s.ConfirmTransaction(ctx, owner, txn.ID)
	require.NoError(t, err)
	assert.True(t, confirmed.IsConfirmed)
	assert.NotNil(t, confirmed.ConfirmedAt)

	_, err = s.ConfirmTransaction(ctx, owner, txn.ID)
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)

	// Editing never clears confirmation.
	updated, err := s.UpdateTransaction(ctx, owner, txn.ID, models.TransactionInput{
		AccountID: wallet, Amount: 13, Type: models.Expense, DueDate: models.Today(),
	})
	require.NoError(t, err)
	assert.True(t, updated.IsConfirmed)

	_, err = s.ConfirmTransaction(ctx, owner, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTransactions_Filters(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	owner, wallet := newOwner(t, s, "ana")
	other := createAccount(t, s, owner, "Other")

	mk := func(accountID int, typ models.TransactionType, due models.Date) models.Transaction {
		txn, err := s.CreateTransaction(ctx, owner, models.TransactionInput{
			AccountID: accountID, Amount: 1, Type: typ, DueDate: due,
		})
		require.NoError(t, err)
		return txn
	}
	jan := mk(wallet, models.Income, models.NewDate(2024, time.January, 15))
	feb := mk(wallet, models.Expense, models.NewDate(2024, time.February, 15))
	mar := mk(other.ID, models.Expense, models.NewDate(2024, time.March, 15))
	_, err := s.ConfirmTransaction(ctx, owner, feb.ID)
	require.NoError(t, err)

	ids := func(f TransactionFilter) []int {
		txns, err := s.ListTransactions(ctx, owner, f)
		require.NoError(t, err)
		out := []int{}
		for _, txn := range txns {
			out = append(out, txn.ID)
		}
		return out
	}
	yes := true

	assert.Equal(t, []int{mar.ID, feb.ID, jan.ID}, ids(TransactionFilter{}))
	assert.Equal(t, []int{feb.ID, jan.ID}, ids(TransactionFilter{AccountID: &wallet}))
	assert.Equal(t, []int{mar.ID, feb.ID}, ids(TransactionFilter{Type: models.Expense}))
	assert.Equal(t, []int{feb.ID}, ids(TransactionFilter{Confirmed: &yes}))
	assert.Equal(t, []int{feb.ID}, ids(TransactionFilter{
		From: models.NewDate(2024, time.February, 1),
		To:   models.NewDate(2024, time.February, 29),
	}))

	_, bobWallet := newOwner(t, s, "bob")
	assert.Empty(t, ids(TransactionFilter{AccountID: &bobWallet}))
}

// ---------------------------------------------------------------------------
// Catalog, users and groups
// ---------------------------------------------------------------------------

func TestCategories(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	owner, wallet := newOwner(t, s, "ana")

	c, err := s.CreateCategory(ctx, owner, models.NameInput{Name: "Rent"})
	require.NoError(t, err)
	_, err = s.CreateCategory(ctx, owner, models.NameInput{Name: "rent"})
	assert.ErrorIs(t, err, ErrDuplicateName)

	txn, err := s.CreateTransaction(ctx, owner, models.TransactionInput{
		AccountID: wallet, Amount: 900, Type: models.Expense, DueDate: models.Today(), CategoryID: &c.ID,
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(ctx, owner, c.ID))
	got, err := s.GetTransaction(ctx, owner, txn.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)

	list, err := s.ListCategories(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.ErrorIs(t, s.DeleteCategory(ctx, owner, c.ID), ErrNotFound)
}

func TestPaymentTypes(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	owner, _ := newOwner(t, s, "ana")
	bob, _ := newOwner(t, s, "bob")

	for _, name := range []string{"Pix", "Cash"} {
		_, err := s.CreatePaymentType(ctx, owner, models.NameInput{Name: name})
		require.NoError(t, err)
	}
	list, err := s.ListPaymentTypes(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Cash", list[0].Name)

	assert.ErrorIs(t, s.DeletePaymentType(ctx, bob, list[0].ID), ErrNotFound)
}

func TestCreateUser(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "ana", "hash")
	require.NoError(t, err)
	assert.Equal(t, "ana", u.Username)

	_, err = s.CreateUser(ctx, "ana", "other")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	byName, err := s.GetUserByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, "hash", byName.PasswordHash)

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGroups(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	ana, err := s.CreateUser(ctx, "ana", "hash")
	require.NoError(t, err)
	bob, err := s.CreateUser(ctx, "bob", "hash")
	require.NoError(t, err)
	eve, err := s.CreateUser(ctx, "eve", "hash")
	require.NoError(t, err)

	g, err := s.CreateGroup(ctx, ana.ID, models.NameInput{Name: "Household"})
	require.NoError(t, err)
	assert.Equal(t, models.GroupOwner(g.ID), g.Owner)

	accounts, err := s.ListAccounts(ctx, g.Owner)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, DefaultAccountName, accounts[0].Name)

	require.NoError(t, s.AddGroupMember(ctx, g.ID, ana.ID, "bob"))
	assert.ErrorIs(t, s.AddGroupMember(ctx, g.ID, ana.ID, "bob"), ErrAlreadyMember)
	assert.ErrorIs(t, s.AddGroupMember(ctx, g.ID, eve.ID, "eve"), ErrNotFound)
	assert.ErrorIs(t, s.AddGroupMember(ctx, g.ID, ana.ID, "nobody"), ErrNotFound)

	ok, err := s.IsGroupMember(ctx, g.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.IsGroupMember(ctx, g.ID, eve.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	groups, err := s.ListGroups(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Household", groups[0].Name)
}

// ---------------------------------------------------------------------------
// ImportInvoice
// ---------------------------------------------------------------------------

func TestImportInvoice(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	owner, wallet := newOwner(t, s, "ana")
	_, err := s.CreateCategory(ctx, owner, models.NameInput{Name: "Food"})
	require.NoError(t, err)

	lines := []models.InvoiceLine{
		{Row: 2, Date: models.NewDate(2024, time.May, 2), Description: "Bakery", Amount: 12.3, Category: "food"},
		{Row: 3, Date: models.NewDate(2024, time.May, 3), Description: "Fuel", Amount: 200, Category: "Transport"},
		{Row: 4, Date: models.NewDate(2024, time.May, 4), Description: "Misc", Amount: 1.005},
	}
	due := models.NewDate(2024, time.June, 10)

	result, err := s.ImportInvoice(ctx, owner, wallet, lines, due)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	require.Len(t, result.TransactionIDs, 3)

	for _, id := range result.TransactionIDs {
		txn, err := s.GetTransaction(ctx, owner, id)
		require.NoError(t, err)
		assert.Equal(t, models.Expense, txn.Type)
		assert.False(t, txn.IsConfirmed)
		assert.Equal(t, due, txn.DueDate)
	}

	categories, err := s.ListCategories(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}

func TestImportInvoice_ForeignAccountImportsNothing(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	owner, _ := newOwner(t, s, "ana")
	_, bobWallet := newOwner(t, s, "bob")

	_, err := s.ImportInvoice(ctx, owner, bobWallet, []models.InvoiceLine{
		{Row: 2, Date: models.Today(), Description: "x", Amount: 1, Category: "New"},
	}, models.Date{})
	assert.ErrorIs(t, err, ErrNotFound)

	txns, err := s.ListTransactions(ctx, owner, TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns)
	categories, err := s.ListCategories(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, categories)
}
