// AngelaMos | 2026
// records.go

package admin

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
)

type RecordCounts struct {
	Users           int64 `json:"users"            db:"users"`
	Staff           int64 `json:"staff"            db:"staff"`
	Customers       int64 `json:"customers"        db:"customers"`
	ActiveCustomers int64 `json:"active_customers" db:"active_customers"`
	Employees       int64 `json:"employees"        db:"employees"`
	ActiveEmployees int64 `json:"active_employees" db:"active_employees"`
	Products        int64 `json:"products"         db:"products"`
	OpenTasks       int64 `json:"open_tasks"       db:"open_tasks"`
	Tasks           int64 `json:"tasks"            db:"tasks"`
	ActiveSessions  int64 `json:"active_sessions"  db:"active_sessions"`
}

type sqlRecordCounter struct {
	db core.DBTX
}

func NewRecordCounter(db core.DBTX) RecordCounter {
	return &sqlRecordCounter{db: db}
}

func (c *sqlRecordCounter) CountRecords(ctx context.Context) (*RecordCounts, error) {
	query, args, err := core.SQL.
		Select().
		Column("(SELECT COUNT(*) FROM users) AS users").
		Column("(SELECT COUNT(*) FROM users WHERE is_staff) AS staff").
		Column("(SELECT COUNT(*) FROM customers) AS customers").
		Column("(SELECT COUNT(*) FROM customers WHERE is_active) AS active_customers").
		Column("(SELECT COUNT(*) FROM employees) AS employees").
		Column("(SELECT COUNT(*) FROM employees WHERE is_active) AS active_employees").
		Column("(SELECT COUNT(*) FROM products) AS products").
		Column("(SELECT COUNT(*) FROM tasks WHERE status <> 'done') AS open_tasks").
		Column("(SELECT COUNT(*) FROM tasks) AS tasks").
		Column(`(SELECT COUNT(*) FROM refresh_tokens
			WHERE revoked_at IS NULL AND NOT is_used AND expires_at > NOW()) AS active_sessions`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build record counts: %w", err)
	}

	var counts RecordCounts
	if err := c.db.GetContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	return &counts, nil
}
