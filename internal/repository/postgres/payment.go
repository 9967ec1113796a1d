package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rental-portal-backend/internal/domain"
	"rental-portal-backend/internal/logger"
	"rental-portal-backend/internal/repository"
	"rental-portal-backend/internal/utils"

	"github.com/lib/pq"
)

type paymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentSelect = `
	SELECT pm.id, pm.lease_id, pm.due_date, pm.amount, pm.status, pm.paid_on, pm.method, pm.late_fee_applied
	FROM payments pm
	JOIN leases l ON l.id = pm.lease_id
	JOIN properties p ON p.id = l.property_id
`

// CreateBatch inserts a lease's schedule in one statement. Due dates are
// unique within a schedule, so returned ids are matched back by due date.
func (r *paymentRepository) CreateBatch(ctx context.Context, payments []*domain.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	logger.EnterMethod("paymentRepository.CreateBatch", "leaseID", payments[0].LeaseID, "count", len(payments))

	var sb strings.Builder
	sb.WriteString(`INSERT INTO payments (lease_id, due_date, amount, status, late_fee_applied) VALUES `)
	args := make([]any, 0, len(payments)*5)
	byDue := make(map[string]*domain.Payment, len(payments))
	for i, p := range payments {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5)
		args = append(args, p.LeaseID, p.DueDate, p.Amount, p.Status, p.LateFeeApplied)
		byDue[utils.FormatDate(p.DueDate)] = p
	}
	sb.WriteString(` RETURNING id, due_date`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		logger.ExitMethodWithError("paymentRepository.CreateBatch", err, "leaseID", payments[0].LeaseID)
		return mapError(err)
	}
	defer rows.Close()

	inserted := 0
	for rows.Next() {
		var id int32
		var due time.Time
		if err := rows.Scan(&id, &due); err != nil {
			return err
		}
		if p, ok := byDue[utils.FormatDate(due)]; ok {
			p.ID = id
			inserted++
		}
	}
	if err := rows.Err(); err != nil {
		return mapError(err)
	}
	if inserted != len(payments) {
		return fmt.Errorf("payment batch returned %d ids for %d rows", inserted, len(payments))
	}

	logger.ExitMethod("paymentRepository.CreateBatch", "leaseID", payments[0].LeaseID, "count", inserted)
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	p := &domain.Payment{}
	if err := scanPayment(r.db.QueryRowContext(ctx, paymentSelect+` WHERE pm.id = $1`, id), p); err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *paymentRepository) List(ctx context.Context, scope repository.Scope, statuses []domain.PaymentStatus) ([]domain.Payment, error) {
	query := paymentSelect + `
		WHERE ($1 = 0 OR p.landlord_id = $1) AND ($2 = 0 OR l.tenant_id = $2)
		  AND (cardinality($3::text[]) = 0 OR pm.status = ANY($3))
		ORDER BY pm.due_date, pm.id
	`
	filter := make([]string, len(statuses))
	for i, s := range statuses {
		filter[i] = string(s)
	}
	landlordID, tenantID := scopeArgs(scope)
	return r.list(ctx, query, landlordID, tenantID, pq.Array(filter))
}

func (r *paymentRepository) ListDueBefore(ctx context.Context, scope repository.Scope, cutoff time.Time) ([]domain.Payment, error) {
	query := paymentSelect + `
		WHERE ($1 = 0 OR p.landlord_id = $1) AND ($2 = 0 OR l.tenant_id = $2)
		  AND pm.status = 'DUE' AND pm.due_date < $3
		ORDER BY pm.due_date, pm.id
	`
	landlordID, tenantID := scopeArgs(scope)
	return r.list(ctx, query, landlordID, tenantID, cutoff)
}

func (r *paymentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// MarkOverdue only wins against a row that is still DUE, so the on-read check
// and the scheduled sweep can never both add a late fee.
func (r *paymentRepository) MarkOverdue(ctx context.Context, p *domain.Payment) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = $1, amount = $2, late_fee_applied = $3 WHERE id = $4 AND status = 'DUE'`,
		p.Status, p.Amount, p.LateFeeApplied, p.ID,
	)
	if err != nil {
		logger.DatabaseResult("UPDATE payments overdue", 0, err, "paymentID", p.ID)
		return false, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	logger.DatabaseResult("UPDATE payments overdue", n, nil, "paymentID", p.ID)
	return n == 1, nil
}

func (r *paymentRepository) MarkPaid(ctx context.Context, p *domain.Payment) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = $1, paid_on = $2, method = $3 WHERE id = $4 AND status IN ('DUE', 'OVERDUE')`,
		p.Status, p.PaidOn, p.Method, p.ID,
	)
	if err != nil {
		logger.DatabaseResult("UPDATE payments paid", 0, err, "paymentID", p.ID)
		return false, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	logger.DatabaseResult("UPDATE payments paid", n, nil, "paymentID", p.ID)
	return n == 1, nil
}

func (r *paymentRepository) ListOverdueReminders(ctx context.Context) ([]domain.OverdueReminder, error) {
	query := `
		SELECT pm.id, pm.lease_id, u.email, u.name, p.title, pm.due_date, pm.amount
		FROM payments pm
		JOIN leases l ON l.id = pm.lease_id
		JOIN properties p ON p.id = l.property_id
		JOIN users u ON u.id = l.tenant_id
		WHERE pm.status = 'OVERDUE' AND l.is_active
		ORDER BY pm.due_date, pm.id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []domain.OverdueReminder
	for rows.Next() {
		var rm domain.OverdueReminder
		if err := rows.Scan(&rm.PaymentID, &rm.LeaseID, &rm.TenantEmail, &rm.TenantName, &rm.PropertyTitle, &rm.DueDate, &rm.Amount); err != nil {
			return nil, err
		}
		reminders = append(reminders, rm)
	}
	return reminders, rows.Err()
}

func scanPayment(s scanner, p *domain.Payment) error {
	return s.Scan(&p.ID, &p.LeaseID, &p.DueDate, &p.Amount, &p.Status, &p.PaidOn, &p.Method, &p.LateFeeApplied)
}
