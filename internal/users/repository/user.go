package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/craftline/craftline-backend/pkg/database"
	"github.com/craftline/craftline-backend/pkg/errors"
)

var dialect = goqu.Dialect("postgres")

// Roles a user may hold
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an application user, keyed by the upstream identity
// provider's open ID.
type User struct {
	ID           int       `db:"id" json:"id"`
	OpenID       string    `db:"open_id" json:"open_id"`
	Name         *string   `db:"name" json:"name,omitempty"`
	Email        *string   `db:"email" json:"email,omitempty"`
	LoginMethod  *string   `db:"login_method" json:"login_method,omitempty"`
	Role         string    `db:"role" json:"role"`
	LastSignedIn time.Time `db:"last_signed_in" json:"last_signed_in"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UpsertParams carries the caller-supplied fields for a user upsert.
// Only non-nil fields touch the row, on insert and on conflict alike.
type UpsertParams struct {
	OpenID       string
	Name         *string
	Email        *string
	LoginMethod  *string
	Role         *string
	LastSignedIn *time.Time
}

const userColumns = `id, open_id, name, email, login_method, role, last_signed_in, created_at, updated_at`

// UserRepository handles user persistence
type UserRepository struct {
	db          *database.DB
	ownerOpenID string
}

// NewUserRepository creates a new user repository. ownerOpenID is the
// configured owner identity; upserting it without an explicit role
// forces the admin role.
func NewUserRepository(db *database.DB, ownerOpenID string) *UserRepository {
	return &UserRepository{db: db, ownerOpenID: ownerOpenID}
}

// Upsert inserts or updates a user keyed by open ID. Fields the caller
// did not supply are left untouched on conflict. LastSignedIn defaults
// to the current time when absent.
func (r *UserRepository) Upsert(ctx context.Context, params *UpsertParams) (*User, error) {
	if params.OpenID == "" {
		return nil, errors.Validation(map[string]string{
			"open_id": "this field is required",
		})
	}

	if err := r.db.RequireStore(); err != nil {
		return nil, err
	}

	signedIn := time.Now()
	if params.LastSignedIn != nil {
		signedIn = *params.LastSignedIn
	}

	insert := goqu.Record{"open_id": params.OpenID, "last_signed_in": signedIn}
	update := goqu.Record{"last_signed_in": signedIn, "updated_at": goqu.L("NOW()")}

	if params.Name != nil {
		insert["name"], update["name"] = *params.Name, *params.Name
	}
	if params.Email != nil {
		insert["email"], update["email"] = *params.Email, *params.Email
	}
	if params.LoginMethod != nil {
		insert["login_method"], update["login_method"] = *params.LoginMethod, *params.LoginMethod
	}

	role := params.Role
	if role == nil && r.ownerOpenID != "" && params.OpenID == r.ownerOpenID {
		admin := RoleAdmin
		role = &admin
	}
	if role != nil {
		insert["role"], update["role"] = *role, *role
	}

	query, args, err := dialect.Insert("users").
		Rows(insert).
		OnConflict(goqu.DoUpdate("open_id", update)).
		Returning("id", "open_id", "name", "email", "login_method", "role", "last_signed_in", "created_at", "updated_at").
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var user User
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&user); err != nil {
		if mapped := database.MapPQError(err); mapped != nil {
			return nil, mapped
		}
		return nil, err
	}
	return &user, nil
}

// GetByOpenID returns the user or nil when absent.
func (r *UserRepository) GetByOpenID(ctx context.Context, openID string) (*User, error) {
	if !r.db.Available() {
		return nil, nil
	}

	var user User
	query := `SELECT ` + userColumns + ` FROM users WHERE open_id = $1`
	err := r.db.GetContext(ctx, &user, query, openID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users, newest first.
func (r *UserRepository) List(ctx context.Context) ([]*User, error) {
	if !r.db.Available() {
		return []*User{}, nil
	}

	users := []*User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}
	return users, nil
}
