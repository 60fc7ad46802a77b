package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/makerspace/internal/model"
)

// PostgresVisitRepo はPostgreSQLを使用した訪問リポジトリ。
type PostgresVisitRepo struct {
	db *sql.DB
}

// NewPostgresVisitRepo はPostgresVisitRepoを生成する。
func NewPostgresVisitRepo(db *sql.DB) *PostgresVisitRepo {
	return &PostgresVisitRepo{db: db}
}

// Create は訪問を作成する。
func (r *PostgresVisitRepo) Create(ctx context.Context, visit *model.Visit) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO visits (visit_id, visitor_id, is_new, visit_time, visit_duration)
		 VALUES ($1, $2, $3, $4, $5)`,
		visit.ID, visit.VisitorID, visit.IsNew, visit.VisitTime, visit.VisitDuration,
	)
	if err != nil {
		return fmt.Errorf("failed to insert visit: %w", err)
	}
	return nil
}

// FindLatestOpenByVisitorID は指定訪問者の未退館の訪問のうち最新のものを返す。
// 見つからない場合はnilを返す。
func (r *PostgresVisitRepo) FindLatestOpenByVisitorID(ctx context.Context, visitorID string) (*model.Visit, error) {
	visit := &model.Visit{}
	err := r.db.QueryRowContext(ctx,
		`SELECT visit_id, visitor_id, is_new, visit_time, visit_duration
		 FROM visits
		 WHERE visitor_id = $1 AND visit_duration = 0
		 ORDER BY visit_time DESC
		 LIMIT 1`,
		visitorID,
	).Scan(&visit.ID, &visit.VisitorID, &visit.IsNew, &visit.VisitTime, &visit.VisitDuration)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find open visit: %w", err)
	}

	return visit, nil
}

// UpdateDuration は訪問の滞在時間を更新する。
func (r *PostgresVisitRepo) UpdateDuration(ctx context.Context, visitID string, duration int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE visits SET visit_duration = $2 WHERE visit_id = $1`,
		visitID, duration,
	)
	if err != nil {
		return fmt.Errorf("failed to update visit duration: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("visit not found: %s", visitID)
	}
	return nil
}

// ListInWindow はvisit_timeが [start, end] に含まれる訪問を時刻昇順で返す。
func (r *PostgresVisitRepo) ListInWindow(ctx context.Context, start, end int64) ([]*model.Visit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT visit_id, visitor_id, is_new, visit_time, visit_duration
		 FROM visits
		 WHERE visit_time >= $1 AND visit_time <= $2
		 ORDER BY visit_time`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	defer rows.Close()

	var visits []*model.Visit
	for rows.Next() {
		visit := &model.Visit{}
		if err := rows.Scan(&visit.ID, &visit.VisitorID, &visit.IsNew, &visit.VisitTime, &visit.VisitDuration); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, visit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate visits: %w", err)
	}

	return visits, nil
}

// compile-time interface check
var _ VisitRepository = (*PostgresVisitRepo)(nil)
