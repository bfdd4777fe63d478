package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
	"github.com/collinsceleb/idempotent-wallet/internal/gateway"
	"github.com/collinsceleb/idempotent-wallet/internal/money"
)

type InterestLogRepository struct {
	pool querier
}

func NewInterestLogRepository(pool *pgxpool.Pool) *InterestLogRepository {
	return &InterestLogRepository{pool: poolQuerier{pool}}
}

func (r *InterestLogRepository) Insert(ctx context.Context, log *domain.InterestLog) error {
	const q = `
		INSERT INTO interest_logs (id, account_id, calculation_date, principal_balance, interest_amount, new_balance, annual_rate, days_in_year, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, q,
		log.ID, log.AccountID, log.CalculationDate,
		money.ToFixed(log.PrincipalBalance, domain.AccountScale),
		money.ToFixed(log.InterestAmount, domain.AccountScale),
		money.ToFixed(log.NewBalance, domain.AccountScale),
		money.ToFixed(log.AnnualRate, domain.InterestRateScale),
		log.DaysInYear, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert interest log for account %s: %w", log.AccountID, translateError(err))
	}
	return nil
}

func (r *InterestLogRepository) FindByAccountAndDate(ctx context.Context, accountID string, date time.Time) (*domain.InterestLog, error) {
	const q = `
		SELECT id, account_id, calculation_date, principal_balance, interest_amount, new_balance, annual_rate, days_in_year, created_at
		FROM interest_logs WHERE account_id = $1 AND calculation_date = $2`

	log, err := scanInterestLog(r.pool.QueryRow(ctx, q, accountID, date))
	if err != nil {
		return nil, translateError(err)
	}
	return log, nil
}

func (r *InterestLogRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]*domain.InterestLog, error) {
	const q = `
		SELECT id, account_id, calculation_date, principal_balance, interest_amount, new_balance, annual_rate, days_in_year, created_at
		FROM interest_logs
		WHERE account_id = $1
		ORDER BY calculation_date DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, q, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list interest logs for account %s: %w", accountID, translateError(err))
	}
	defer rows.Close()

	var logs []*domain.InterestLog
	for rows.Next() {
		log, err := scanInterestLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interest log row: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (r *InterestLogRepository) WithTx(tx gateway.TransactionObject) gateway.InterestLogRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &InterestLogRepository{pool: txQuerier{pgTx}}
}

func scanInterestLog(row rowScanner) (*domain.InterestLog, error) {
	var (
		log                                                             domain.InterestLog
		principalText, interestText, newBalanceText, annualRateText string
	)
	if err := row.Scan(
		&log.ID, &log.AccountID, &log.CalculationDate,
		&principalText, &interestText, &newBalanceText, &annualRateText,
		&log.DaysInYear, &log.CreatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if log.PrincipalBalance, err = money.FromString(principalText); err != nil {
		return nil, fmt.Errorf("parse principal_balance: %w", err)
	}
	if log.InterestAmount, err = money.FromString(interestText); err != nil {
		return nil, fmt.Errorf("parse interest_amount: %w", err)
	}
	if log.NewBalance, err = money.FromString(newBalanceText); err != nil {
		return nil, fmt.Errorf("parse new_balance: %w", err)
	}
	if log.AnnualRate, err = money.FromString(annualRateText); err != nil {
		return nil, fmt.Errorf("parse annual_rate: %w", err)
	}
	log.CalculationDate = log.CalculationDate.UTC()
	return &log, nil
}
