package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/craftci/gatekeeper/internal/auth/domain"
)

type accountsRepo struct {
	db querier
}

const accountColumns = `id, github_id, login, name, avatar_url, created_at, updated_at`

func scanAccount(row *sql.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.GitHubID, &a.Login, &a.Name, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *accountsRepo) GetAccountByGitHubID(ctx context.Context, githubID int64) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE github_id = ?`, githubID)
	return scanAccount(row)
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, github_id, login, name, avatar_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.GitHubID, a.Login, a.Name, a.AvatarURL, a.CreatedAt, a.UpdatedAt)
	return mapConstraint(err)
}

func (r *accountsRepo) UpdateAccountProfile(ctx context.Context, id, login, name, avatarURL string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET login = ?, name = ?, avatar_url = ?, updated_at = ? WHERE id = ?`,
		login, name, avatarURL, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
