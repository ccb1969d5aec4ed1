package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aleksvarts/classroom-auth/internal/common"
	"github.com/aleksvarts/classroom-auth/internal/dbx"
	"github.com/aleksvarts/classroom-auth/internal/server/models"
)

// PostgresRepository reads user accounts over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByEmail loads the account row and its role/permission set.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, status, created_at
		FROM users
		WHERE email = $1
	`
	user := &models.User{}
	if err := r.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Status, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	roles, err := r.loadRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles

	return user, nil
}

// loadRoles fetches the role/permission rows for a user. Ordering by role
// then permission name keeps the derived scope string stable between calls.
func (r *PostgresRepository) loadRoles(ctx context.Context, userID string) ([]models.Role, error) {
	query := `
		SELECT r.name, p.name
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		LEFT JOIN role_permissions rp ON rp.role_id = r.id
		LEFT JOIN permissions p ON p.id = rp.permission_id
		WHERE ur.user_id = $1
		ORDER BY r.name, p.name
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var roleName string
		var permName sql.NullString
		if err := rows.Scan(&roleName, &permName); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		if len(roles) == 0 || roles[len(roles)-1].Name != roleName {
			roles = append(roles, models.Role{Name: roleName})
		}
		if permName.Valid {
			last := &roles[len(roles)-1]
			last.Permissions = append(last.Permissions, models.Permission{Name: permName.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return roles, nil
}
