package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quorail/orgauth/internal/domain"
)

// Compile-time interface assertions.
var (
	_ UserRepository         = (*PostgresUserRepo)(nil)
	_ OrganisationRepository = (*PostgresOrganisationRepo)(nil)
	_ MembershipRepository   = (*PostgresMembershipRepo)(nil)
	_ Registrar              = (*PostgresRegistrar)(nil)
)

const (
	insertUserSQL = `INSERT INTO users (user_id, first_name, last_name, email, password_hash, phone, created_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
RETURNING created_at`

	selectUserByIDSQL = `SELECT user_id, first_name, last_name, email, password_hash, phone, created_at
FROM users WHERE user_id = $1`

	selectUserByEmailSQL = `SELECT user_id, first_name, last_name, email, password_hash, phone, created_at
FROM users WHERE email = $1`

	insertOrgSQL = `INSERT INTO organisations (org_id, name, description, created_at)
VALUES ($1, $2, $3, now())
RETURNING created_at`

	selectOrgByIDSQL = `SELECT org_id, name, description, created_at
FROM organisations WHERE org_id = $1`

	insertMembershipSQL = `INSERT INTO user_organisations (user_id, org_id, created_at)
VALUES ($1, $2, now())
ON CONFLICT (user_id, org_id) DO NOTHING`

	selectMembershipSQL = `SELECT EXISTS (
SELECT 1 FROM user_organisations WHERE user_id = $1 AND org_id = $2)`

	selectOrgsOfUserSQL = `SELECT o.org_id, o.name, o.description, o.created_at
FROM organisations o
JOIN user_organisations m ON m.org_id = o.org_id
WHERE m.user_id = $1
ORDER BY o.created_at`

	selectUsersOfOrgSQL = `SELECT u.user_id, u.first_name, u.last_name, u.email, u.password_hash, u.phone, u.created_at
FROM users u
JOIN user_organisations m ON m.user_id = u.user_id
WHERE m.org_id = $1
ORDER BY u.created_at`
)

// PostgresUserRepo implements UserRepository on a pgx pool.
type PostgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{db: pool}
}

func (r *PostgresUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	err := r.db.QueryRow(ctx, insertUserSQL,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Phone,
	).Scan(&user.CreatedAt)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", mapConstraintError(err))
	}
	return user, nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, userID string) (domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, selectUserByIDSQL, userID))
}

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, selectUserByEmailSQL, email))
}

// PostgresOrganisationRepo implements OrganisationRepository.
type PostgresOrganisationRepo struct {
	db *pgxpool.Pool
}

func NewPostgresOrganisationRepo(pool *pgxpool.Pool) *PostgresOrganisationRepo {
	return &PostgresOrganisationRepo{db: pool}
}

func (r *PostgresOrganisationRepo) Create(ctx context.Context, org domain.Organisation) (domain.Organisation, error) {
	err := r.db.QueryRow(ctx, insertOrgSQL, org.ID, org.Name, org.Description).Scan(&org.CreatedAt)
	if err != nil {
		return domain.Organisation{}, fmt.Errorf("create organisation: %w", mapConstraintError(err))
	}
	return org, nil
}

func (r *PostgresOrganisationRepo) GetByID(ctx context.Context, orgID string) (domain.Organisation, error) {
	var org domain.Organisation
	err := r.db.QueryRow(ctx, selectOrgByIDSQL, orgID).Scan(&org.ID, &org.Name, &org.Description, &org.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Organisation{}, domain.ErrOrgNotFound
		}
		return domain.Organisation{}, fmt.Errorf("get organisation: %w", err)
	}
	return org, nil
}

// PostgresMembershipRepo implements MembershipRepository.
type PostgresMembershipRepo struct {
	db *pgxpool.Pool
}

func NewPostgresMembershipRepo(pool *pgxpool.Pool) *PostgresMembershipRepo {
	return &PostgresMembershipRepo{db: pool}
}

func (r *PostgresMembershipRepo) Add(ctx context.Context, userID, orgID string) error {
	if _, err := r.db.Exec(ctx, insertMembershipSQL, userID, orgID); err != nil {
		return fmt.Errorf("add membership: %w", mapConstraintError(err))
	}
	return nil
}

func (r *PostgresMembershipRepo) Exists(ctx context.Context, userID, orgID string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, selectMembershipSQL, userID, orgID).Scan(&exists); err != nil {
		return false, fmt.Errorf("membership exists: %w", err)
	}
	return exists, nil
}

func (r *PostgresMembershipRepo) OrganisationsOf(ctx context.Context, userID string) ([]domain.Organisation, error) {
	rows, err := r.db.Query(ctx, selectOrgsOfUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("organisations of user: %w", err)
	}
	defer rows.Close()

	var orgs []domain.Organisation
	for rows.Next() {
		var org domain.Organisation
		if err := rows.Scan(&org.ID, &org.Name, &org.Description, &org.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan organisation: %w", err)
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func (r *PostgresMembershipRepo) UsersOf(ctx context.Context, orgID string) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, selectUsersOfOrgSQL, orgID)
	if err != nil {
		return nil, fmt.Errorf("users of organisation: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash, &user.Phone, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// PostgresRegistrar performs the multi-record creation units inside a single
// transaction; any failure rolls the whole unit back.
type PostgresRegistrar struct {
	db *pgxpool.Pool
}

func NewPostgresRegistrar(pool *pgxpool.Pool) *PostgresRegistrar {
	return &PostgresRegistrar{db: pool}
}

func (r *PostgresRegistrar) RegisterUser(ctx context.Context, user domain.User, org domain.Organisation) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertUserSQL, user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Phone); err != nil {
			return fmt.Errorf("register user: %w", mapConstraintError(err))
		}
		if _, err := tx.Exec(ctx, insertOrgSQL, org.ID, org.Name, org.Description); err != nil {
			return fmt.Errorf("register default organisation: %w", mapConstraintError(err))
		}
		if _, err := tx.Exec(ctx, insertMembershipSQL, user.ID, org.ID); err != nil {
			return fmt.Errorf("register membership: %w", mapConstraintError(err))
		}
		return nil
	})
}

func (r *PostgresRegistrar) CreateOrganisationWithOwner(ctx context.Context, org domain.Organisation, ownerID string) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertOrgSQL, org.ID, org.Name, org.Description); err != nil {
			return fmt.Errorf("create organisation: %w", mapConstraintError(err))
		}
		if _, err := tx.Exec(ctx, insertMembershipSQL, ownerID, org.ID); err != nil {
			return fmt.Errorf("create owner membership: %w", mapConstraintError(err))
		}
		return nil
	})
}

func (r *PostgresRegistrar) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash, &user.Phone, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// mapConstraintError translates Postgres constraint violations into the
// domain taxonomy: unique violations become DuplicateIdentity, foreign key
// violations become the not-found error of the missing side.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		return domain.ErrDuplicateIdentity
	case "23503":
		if strings.Contains(pgErr.ConstraintName, "user") {
			return domain.ErrUserNotFound
		}
		return domain.ErrOrgNotFound
	}
	return err
}
