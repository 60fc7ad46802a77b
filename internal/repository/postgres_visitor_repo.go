package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/makerspace/internal/model"
)

// PostgresVisitorRepo はPostgreSQLを使用した訪問者リポジトリ。
type PostgresVisitorRepo struct {
	db *sql.DB
}

// NewPostgresVisitorRepo はPostgresVisitorRepoを生成する。
func NewPostgresVisitorRepo(db *sql.DB) *PostgresVisitorRepo {
	return &PostgresVisitorRepo{db: db}
}

// Create は訪問者を作成する。
func (r *PostgresVisitorRepo) Create(ctx context.Context, visitor *model.Visitor) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO visitors (visitor_id, hardware_id, first_name, last_name, major, degree_type, visitor_email)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		visitor.ID, visitor.HardwareID, visitor.FirstName, visitor.LastName,
		visitor.Major, visitor.DegreeType, visitor.Email,
	)
	if err != nil {
		return fmt.Errorf("failed to insert visitor: %w", err)
	}
	return nil
}

// FindByHardwareID はhardware_idで訪問者を検索する。見つからない場合はnilを返す。
func (r *PostgresVisitorRepo) FindByHardwareID(ctx context.Context, hardwareID string) (*model.Visitor, error) {
	visitor := &model.Visitor{}
	err := r.db.QueryRowContext(ctx,
		`SELECT visitor_id, hardware_id, first_name, last_name, major, degree_type, visitor_email
		 FROM visitors WHERE hardware_id = $1 ORDER BY visitor_id LIMIT 1`,
		hardwareID,
	).Scan(&visitor.ID, &visitor.HardwareID, &visitor.FirstName, &visitor.LastName,
		&visitor.Major, &visitor.DegreeType, &visitor.Email)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find visitor by hardware ID: %w", err)
	}

	return visitor, nil
}

// ListAll は全訪問者を返す。
func (r *PostgresVisitorRepo) ListAll(ctx context.Context) ([]*model.Visitor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT visitor_id, hardware_id, first_name, last_name, major, degree_type, visitor_email
		 FROM visitors ORDER BY last_name, first_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list visitors: %w", err)
	}
	defer rows.Close()

	var visitors []*model.Visitor
	for rows.Next() {
		visitor := &model.Visitor{}
		if err := rows.Scan(&visitor.ID, &visitor.HardwareID, &visitor.FirstName, &visitor.LastName,
			&visitor.Major, &visitor.DegreeType, &visitor.Email); err != nil {
			return nil, fmt.Errorf("failed to scan visitor: %w", err)
		}
		visitors = append(visitors, visitor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate visitors: %w", err)
	}

	return visitors, nil
}

// compile-time interface check
var _ VisitorRepository = (*PostgresVisitorRepo)(nil)
