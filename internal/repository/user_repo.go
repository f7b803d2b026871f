package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/models"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role, trainer_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, points, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role, user.TrainerID,
	).Scan(&user.ID, &user.Points, &user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `
		SELECT id, username, email, password_hash, role, trainer_id, points, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `
		SELECT id, username, email, password_hash, role, trainer_id, points, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)
}

// GetTrainerByID resolves an id only if it belongs to a trainer account.
func (r *UserRepository) GetTrainerByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `
		SELECT id, username, email, password_hash, role, trainer_id, points, created_at, updated_at
		FROM users
		WHERE id = $1 AND role = 'trainer'
	`, id)
}

// GetStudent resolves a member only when they are assigned to the given
// trainer. Trainer-facing routes use this as their ownership check.
func (r *UserRepository) GetStudent(ctx context.Context, studentID, trainerID int64) (*models.User, error) {
	return r.getOne(ctx, `
		SELECT id, username, email, password_hash, role, trainer_id, points, created_at, updated_at
		FROM users
		WHERE id = $1 AND trainer_id = $2 AND role = 'member'
	`, studentID, trainerID)
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.TrainerID,
		&user.Points,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ListStudents(ctx context.Context, trainerID int64) ([]models.User, error) {
	return r.list(ctx, `
		SELECT id, username, email, password_hash, role, trainer_id, points, created_at, updated_at
		FROM users
		WHERE trainer_id = $1 AND role = 'member'
		ORDER BY username ASC, id ASC
	`, trainerID)
}

func (r *UserRepository) ListTrainers(ctx context.Context) ([]models.User, error) {
	return r.list(ctx, `
		SELECT id, username, email, password_hash, role, trainer_id, points, created_at, updated_at
		FROM users
		WHERE role = 'trainer'
		ORDER BY username ASC, id ASC
	`)
}

// GetByIDs returns the users that exist among the given ids; missing ids are
// simply absent from the result.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return r.list(ctx, `
		SELECT id, username, email, password_hash, role, trainer_id, points, created_at, updated_at
		FROM users
		WHERE id = ANY($1)
	`, ids)
}

func (r *UserRepository) list(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.TrainerID,
			&user.Points,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, username, email string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET username = $2, email = $3, updated_at = NOW()
		WHERE id = $1
	`, id, username, email)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1
	`, id, passwordHash)
	return err
}

func (r *UserRepository) AddPoints(ctx context.Context, id int64, delta int) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET points = points + $2, updated_at = NOW()
		WHERE id = $1
	`, id, delta)
	return err
}
