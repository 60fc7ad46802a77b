// Package cleanup は期限切れ検証トークンの自動削除ジョブを提供する。
// 有効期限（デフォルト24時間）を超過したトークンを定期バッチで削除する。
// 期限切れトークンは検証時にも拒否されるため、このジョブはテーブルの肥大化を防ぐ掃除役。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/makerspace/internal/metrics"
)

// TokenSweeper は期限切れトークンの一括削除を抽象化するインターフェース。
// token.Service を受け付けることができる。
type TokenSweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// SweepJob は期限切れ検証トークンの自動削除ジョブ。
// 定期実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type SweepJob struct {
	tokens  TokenSweeper
	logger  *slog.Logger
	metrics metrics.MetricsCollector // nil可
}

// NewSweepJob は新しいSweepJobを生成する。collectorはnilでもよい。
func NewSweepJob(tokens TokenSweeper, logger *slog.Logger, collector metrics.MetricsCollector) *SweepJob {
	return &SweepJob{
		tokens:  tokens,
		logger:  logger,
		metrics: collector,
	}
}

// RunOnce は期限切れトークンを1回削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *SweepJob) RunOnce(ctx context.Context) error {
	start := time.Now()

	deletedCount, err := j.tokens.DeleteExpired(ctx)
	if err != nil {
		j.logger.Error("期限切れトークンの削除に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("期限切れトークンの削除に失敗: %w", err)
	}

	if j.metrics != nil {
		j.metrics.RecordTokensSwept(deletedCount)
	}

	duration := time.Since(start)
	j.logger.Info("トークン掃除ジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// Run は指定間隔でRunOnceを繰り返し実行する。
// 起動直後にも1回実行する。コンテキストのキャンセルで停止する。
// 1回の失敗はログに記録するのみで、ループは継続する。
func (j *SweepJob) Run(ctx context.Context, interval time.Duration) {
	if err := j.RunOnce(ctx); err != nil {
		j.logger.Error("トークン掃除ジョブでエラーが発生しました",
			slog.String("error", err.Error()),
		)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := j.RunOnce(ctx); err != nil {
				j.logger.Error("トークン掃除ジョブでエラーが発生しました",
					slog.String("error", err.Error()),
				)
			}
		case <-ctx.Done():
			j.logger.Info("トークン掃除ジョブを停止します")
			return
		}
	}
}
