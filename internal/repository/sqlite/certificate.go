package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/quizcert/internal/domain"
)

// certificateRepo implements the append-only certificate ledger.
// The schema rejects UPDATE and DELETE on the certificates table.
type certificateRepo struct {
	db *sql.DB
}

const certificateColumns = `seq, id, recipient_name, recipient_email, quiz_title, score, verification_url, issued_at`

func (r *certificateRepo) Append(ctx context.Context, cert *domain.Certificate) error {
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w: %w", domain.ErrPersistence, err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO certificates
		   (id, recipient_name, recipient_email, name_key, email_key, quiz_title, score, verification_url, issued_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cert.ID, cert.RecipientName, cert.RecipientEmail,
		domain.FoldKey(cert.RecipientName), domain.FoldKey(cert.RecipientEmail),
		cert.QuizTitle, cert.Score, cert.VerificationURL, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateCertificate
		}
		return fmt.Errorf("insert certificate: %w: %w", domain.ErrPersistence, err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get certificate seq: %w: %w", domain.ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit certificate: %w: %w", domain.ErrPersistence, err)
	}

	cert.Seq = seq
	cert.IssuedAt = now
	return nil
}

func (r *certificateRepo) GetByID(ctx context.Context, id string) (*domain.Certificate, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+certificateColumns+` FROM certificates WHERE id = ?`, id)
	cert, err := scanCertificate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query certificate by id: %w", err)
	}
	return cert, nil
}

func (r *certificateRepo) FindByNameEmail(ctx context.Context, name, email string) (*domain.Certificate, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+certificateColumns+` FROM certificates
		 WHERE name_key = ? AND email_key = ?
		 ORDER BY seq ASC LIMIT 1`,
		domain.FoldKey(name), domain.FoldKey(email))
	cert, err := scanCertificate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query certificate by name and email: %w", err)
	}
	return cert, nil
}

func (r *certificateRepo) ListByEmail(ctx context.Context, email string) ([]domain.Certificate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+certificateColumns+` FROM certificates
		 WHERE email_key = ? ORDER BY seq DESC`, domain.FoldKey(email))
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()

	var certs []domain.Certificate
	for rows.Next() {
		cert, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		certs = append(certs, *cert)
	}
	return certs, rows.Err()
}

func (r *certificateRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM certificates").Scan(&n); err != nil {
		return 0, fmt.Errorf("count certificates: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCertificate(row rowScanner) (*domain.Certificate, error) {
	c := &domain.Certificate{}
	err := row.Scan(&c.Seq, &c.ID, &c.RecipientName, &c.RecipientEmail,
		&c.QuizTitle, &c.Score, &c.VerificationURL, &c.IssuedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}
