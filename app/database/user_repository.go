package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type SQLUserRepository struct {
	db     *DB
	now    func() time.Time
	newKey func() string
}

var _ UserRepository = (*SQLUserRepository)(nil)

func NewUserRepository(db *DB) *SQLUserRepository {
	return &SQLUserRepository{db: db, now: time.Now, newKey: NewAPIKey}
}

const userColumns = `id, name, email, role, is_approved, assigned_filters, api_key, registration_date, last_active`

func scanUser(row rowScanner) (User, error) {
	var u User
	var assigned, registered string
	var apiKey, lastActive sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.IsApproved, &assigned, &apiKey, &registered, &lastActive)
	if err != nil {
		return User{}, err
	}
	if err := json.Unmarshal([]byte(assigned), &u.AssignedFilters); err != nil {
		return User{}, fmt.Errorf("failed to decode assigned filters: %w", err)
	}
	u.APIKey = parseNullString(apiKey)
	if u.RegistrationDate, err = parseTime(registered); err != nil {
		return User{}, err
	}
	u.LastActive, err = parseNullTime(lastActive)
	return u, err
}

func (r *SQLUserRepository) List(query UserQuery) ([]User, error) {
	rows, err := r.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		if matchesUserQuery(u, query) {
			users = append(users, u)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

func (r *SQLUserRepository) GetByID(id int) (*User, error) {
	u, err := scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &u, nil
}

func (r *SQLUserRepository) Create(user User) (*User, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := nextID(tx, "users")
	if err != nil {
		return nil, err
	}

	created := prepareUser(user, id, r.now().UTC())
	if err := ValidateUser(created); err != nil {
		return nil, err
	}
	if err := insertUser(tx, created); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit user: %w", err)
	}
	return &created, nil
}

func insertUser(tx *sql.Tx, u User) error {
	assigned, err := json.Marshal(nonNilInts(u.AssignedFilters))
	if err != nil {
		return fmt.Errorf("failed to encode assigned filters: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO users (id, name, email, role, is_approved, assigned_filters, api_key, registration_date, last_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Name, u.Email, u.Role, u.IsApproved, string(assigned), nullString(u.APIKey),
		formatTime(u.RegistrationDate), nullTime(u.LastActive))
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *SQLUserRepository) Update(id int, patch UserPatch) (*User, error) {
	return r.modify(id, func(u *User) error {
		applyUserPatch(u, patch)
		return ValidateUser(*u)
	})
}

func (r *SQLUserRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return checkAffected(res)
}

func (r *SQLUserRepository) Approve(id int) (*User, error) {
	return r.modify(id, func(u *User) error {
		key := r.newKey()
		u.IsApproved = true
		u.APIKey = &key
		return nil
	})
}

func (r *SQLUserRepository) GenerateAPIKey(id int) (*User, error) {
	return r.modify(id, func(u *User) error {
		key := r.newKey()
		u.APIKey = &key
		return nil
	})
}

func (r *SQLUserRepository) modify(id int, fn func(u *User) error) (*User, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if err := fn(&updated); err != nil {
		return nil, err
	}

	assigned, err := json.Marshal(nonNilInts(updated.AssignedFilters))
	if err != nil {
		return nil, fmt.Errorf("failed to encode assigned filters: %w", err)
	}

	res, err := r.db.Exec(`
		UPDATE users
		SET name = ?, email = ?, role = ?, is_approved = ?, assigned_filters = ?, api_key = ?, last_active = ?
		WHERE id = ?
	`, updated.Name, updated.Email, updated.Role, updated.IsApproved, string(assigned),
		nullString(updated.APIKey), nullTime(updated.LastActive), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return nil, err
	}
	return &updated, nil
}

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}
