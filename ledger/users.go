package ledger

import (
	"context"
	"database/sql"
	"errors"

	"github.com/satheeshds/fintrack/models"
)

// DefaultAccountName is the account created for every new owner, so that an
// owner never exists without an account.
const DefaultAccountName = "Wallet"

func scanUser(scanner interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := scanner.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// CreateUser registers a user together with the user's default account.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (models.User, error) {
	var id int
	err := s.inTx(ctx, "create user", func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, s.q("SELECT COUNT(*) FROM users WHERE username = ?"), username).Scan(&exists)
		if err != nil {
			return storageErr("check username", err)
		}
		if exists > 0 {
			return ErrUsernameTaken
		}

		err = tx.QueryRowContext(ctx, s.q("INSERT INTO users (username, password_hash) VALUES (?, ?) RETURNING id"),
			username, passwordHash).Scan(&id)
		if err != nil {
			return storageErr("insert user", err)
		}
		_, err = s.insertAccount(ctx, tx, models.UserOwner(id), DefaultAccountName)
		return err
	})
	if err != nil {
		return models.User{}, err
	}
	return s.GetUser(ctx, id)
}

func (s *Store) GetUser(ctx context.Context, id int) (models.User, error) {
	u, err := scanUser(s.conn.QueryRowContext(ctx,
		s.q("SELECT id, username, password_hash, created_at FROM users WHERE id = ?"), id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, notFound("user", id)
	}
	if err != nil {
		return models.User{}, storageErr("get user", err)
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	u, err := scanUser(s.conn.QueryRowContext(ctx,
		s.q("SELECT id, username, password_hash, created_at FROM users WHERE username = ?"), username))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, &NotFoundError{Resource: "user " + username}
	}
	if err != nil {
		return models.User{}, storageErr("get user", err)
	}
	return u, nil
}

func scanGroup(scanner interface{ Scan(...any) error }) (models.Group, error) {
	var g models.Group
	err := scanner.Scan(&g.ID, &g.Name, &g.CreatedAt)
	g.Owner = models.GroupOwner(g.ID)
	return g, err
}

// CreateGroup creates a group with userID as its first member and gives the
// group its default account.
func (s *Store) CreateGroup(ctx context.Context, userID int, in models.NameInput) (models.Group, error) {
	var g models.Group
	err := s.inTx(ctx, "create group", func(tx *sql.Tx) error {
		var id int
		err := tx.QueryRowContext(ctx, s.q("INSERT INTO owner_groups (name) VALUES (?) RETURNING id"), in.Name).Scan(&id)
		if err != nil {
			return storageErr("insert group", err)
		}
		if _, err := tx.ExecContext(ctx, s.q("INSERT INTO group_members (group_id, user_id) VALUES (?, ?)"), id, userID); err != nil {
			return storageErr("insert group member", err)
		}
		if _, err := s.insertAccount(ctx, tx, models.GroupOwner(id), DefaultAccountName); err != nil {
			return err
		}

		g, err = scanGroup(tx.QueryRowContext(ctx, s.q("SELECT id, name, created_at FROM owner_groups WHERE id = ?"), id))
		if err != nil {
			return storageErr("get group", err)
		}
		return nil
	})
	return g, err
}

// ListGroups returns the groups userID belongs to.
func (s *Store) ListGroups(ctx context.Context, userID int) ([]models.Group, error) {
	rows, err := s.conn.QueryContext(ctx, s.q(`SELECT g.id, g.name, g.created_at
		FROM owner_groups g JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = ? ORDER BY g.name, g.id`), userID)
	if err != nil {
		return nil, storageErr("list groups", err)
	}
	defer rows.Close()

	groups := []models.Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, storageErr("scan group", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list groups", err)
	}
	return groups, nil
}

func (s *Store) isMember(ctx context.Context, q querier, groupID, userID int) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, s.q("SELECT COUNT(*) FROM group_members WHERE group_id = ? AND user_id = ?"), groupID, userID).Scan(&n)
	if err != nil {
		return false, storageErr("check group member", err)
	}
	return n > 0, nil
}

// IsGroupMember reports whether userID may act as the group's owner.
func (s *Store) IsGroupMember(ctx context.Context, groupID, userID int) (bool, error) {
	return s.isMember(ctx, s.conn, groupID, userID)
}

// AddGroupMember adds username to the group. Only existing members may add
// members; for anyone else the group does not exist.
func (s *Store) AddGroupMember(ctx context.Context, groupID, actingUserID int, username string) error {
	return s.inTx(ctx, "add group member", func(tx *sql.Tx) error {
		ok, err := s.isMember(ctx, tx, groupID, actingUserID)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("group", groupID)
		}

		var userID int
		err = tx.QueryRowContext(ctx, s.q("SELECT id FROM users WHERE username = ?"), username).Scan(&userID)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Resource: "user " + username}
		}
		if err != nil {
			return storageErr("get user", err)
		}

		already, err := s.isMember(ctx, tx, groupID, userID)
		if err != nil {
			return err
		}
		if already {
			return ErrAlreadyMember
		}
		if _, err := tx.ExecContext(ctx, s.q("INSERT INTO group_members (group_id, user_id) VALUES (?, ?)"), groupID, userID); err != nil {
			return storageErr("insert group member", err)
		}
		return nil
	})
}
