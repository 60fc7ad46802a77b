// Package visitor は訪問者の登録と入退館の記録を提供する。
package visitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/makerspace/internal/identity"
	"github.com/hitoshi/makerspace/internal/model"
	"github.com/hitoshi/makerspace/internal/repository"
)

// Service は訪問者に関するビジネスロジックを提供する。
type Service struct {
	visitors  repository.VisitorRepository
	visits    repository.VisitRepository
	directory identity.Directory

	// 訪問者プールのクライアントID
	poolClientID string

	now func() time.Time
}

// NewService はServiceを生成する。
func NewService(
	visitors repository.VisitorRepository,
	visits repository.VisitRepository,
	directory identity.Directory,
	poolClientID string,
) *Service {
	return &Service{
		visitors:     visitors,
		visits:       visits,
		directory:    directory,
		poolClientID: poolClientID,
		now:          time.Now,
	}
}

// SignInResult は入館処理の結果。
type SignInResult struct {
	Visitor *model.Visitor
	Visit   *model.Visit

	// IsNew は同一hardware_idでの初回訪問かどうか。
	IsNew bool

	// Warning は処理自体は成功したが付随処理が失敗した場合の警告メッセージ。
	Warning string
}

// SignIn はhardware_idで入館を記録する。
// 未知のhardware_idの場合は訪問者を新規登録し、IDディレクトリの訪問者プールにも
// 初期パスワード=hardware_idで登録する。プール登録の失敗は入館自体を妨げない。
func (s *Service) SignIn(ctx context.Context, hardwareID, degreeType, firstName, lastName, major, email string) (*SignInResult, error) {
	if hardwareID == "" {
		return nil, model.NewInvalidRequestError("hardware_id is required")
	}

	existing, err := s.visitors.FindByHardwareID(ctx, hardwareID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up visitor: %w", err)
	}

	if existing != nil {
		visit, err := model.NewVisit(existing.ID, model.VisitRepeat)
		if err != nil {
			return nil, fmt.Errorf("failed to build visit: %w", err)
		}
		if err := s.visits.Create(ctx, visit); err != nil {
			return nil, fmt.Errorf("failed to record visit: %w", err)
		}

		slog.Info("再訪問を記録",
			slog.String("visitor_id", existing.ID),
			slog.String("visit_id", visit.ID),
		)

		return &SignInResult{Visitor: existing, Visit: visit, IsNew: false}, nil
	}

	// 初回訪問: 訪問者登録
	if firstName == "" || lastName == "" {
		return nil, model.NewInvalidRequestError("first_name and last_name are required for a new visitor")
	}

	visitor, err := model.NewVisitor(hardwareID, degreeType, firstName, lastName, major, email)
	if err != nil {
		return nil, fmt.Errorf("failed to build visitor: %w", err)
	}

	if err := s.visitors.Create(ctx, visitor); err != nil {
		return nil, fmt.Errorf("failed to create visitor: %w", err)
	}

	visit, err := model.NewVisit(visitor.ID, model.VisitFirst)
	if err != nil {
		return nil, fmt.Errorf("failed to build visit: %w", err)
	}
	if err := s.visits.Create(ctx, visit); err != nil {
		return nil, fmt.Errorf("failed to record visit: %w", err)
	}

	result := &SignInResult{Visitor: visitor, Visit: visit, IsNew: true}

	// 訪問者プールへの登録は付随処理。失敗しても訪問者レコードは巻き戻さない。
	if email != "" {
		attrs := identity.SignUpAttributes{
			Email:     email,
			FirstName: firstName,
			LastName:  lastName,
		}
		outcome, reason, err := s.directory.SignUp(ctx, s.poolClientID, email, hardwareID, attrs)
		if err != nil || outcome != identity.SignUpOK {
			result.Warning = "visitor account enrollment failed"
			slog.Warn("訪問者プールへの登録に失敗",
				slog.String("visitor_id", visitor.ID),
				slog.String("reason", reason),
				slog.Any("error", err),
			)
		}
	}

	slog.Info("新規訪問者を登録",
		slog.String("visitor_id", visitor.ID),
		slog.String("visit_id", visit.ID),
	)

	return result, nil
}

// SignOut はhardware_idで退館を記録する。
// 最新の未退館訪問のvisit_durationに経過秒数を設定する。
func (s *Service) SignOut(ctx context.Context, hardwareID string) (*model.Visit, error) {
	if hardwareID == "" {
		return nil, model.NewInvalidRequestError("hardware_id is required")
	}

	visitor, err := s.visitors.FindByHardwareID(ctx, hardwareID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up visitor: %w", err)
	}
	if visitor == nil {
		return nil, model.NewVisitorNotFoundError()
	}

	visit, err := s.visits.FindLatestOpenByVisitorID(ctx, visitor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up open visit: %w", err)
	}
	if visit == nil {
		return nil, model.NewNoOpenVisitError()
	}

	duration := s.now().Unix() - visit.VisitTime
	if duration < 0 {
		duration = 0
	}

	if err := s.visits.UpdateDuration(ctx, visit.ID, duration); err != nil {
		return nil, fmt.Errorf("failed to close visit: %w", err)
	}

	visit.VisitDuration = duration

	slog.Info("退館を記録",
		slog.String("visitor_id", visitor.ID),
		slog.String("visit_id", visit.ID),
		slog.Int64("duration", duration),
	)

	return visit, nil
}

// ListVisits は指定時間帯の訪問を返す。endが0の場合は現在時刻を終端とする。
func (s *Service) ListVisits(ctx context.Context, start, end int64) ([]*model.Visit, error) {
	if end == 0 {
		end = s.now().Unix()
	}
	if start > end {
		return nil, model.NewInvalidRequestError("start must not be after end")
	}

	visits, err := s.visits.ListInWindow(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

// ListVisitors は全訪問者を返す。
func (s *Service) ListVisitors(ctx context.Context) ([]*model.Visitor, error) {
	visitors, err := s.visitors.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list visitors: %w", err)
	}
	return visitors, nil
}
