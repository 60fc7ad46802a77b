package model

import (
	"fmt"
	"time"
)

// IsNewの値。同一hardware_idでの初回訪問のみ"1"となる。
const (
	VisitFirst  = "1"
	VisitRepeat = "0"
)

// Visit は1回の来館イベントを表す。
// VisitDurationは入館時点では0で、退館処理で経過秒数が設定される。
type Visit struct {
	ID            string
	VisitorID     string
	IsNew         string
	VisitTime     int64
	VisitDuration int64
}

// NewVisit は新しいVisitを生成する。
// IDを採番し、visit_timeに現在時刻、visit_durationに0を設定する。
func NewVisit(visitorID, isNew string) (*Visit, error) {
	id, err := NewVisitID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate visit ID: %w", err)
	}

	return &Visit{
		ID:            id,
		VisitorID:     visitorID,
		IsNew:         isNew,
		VisitTime:     time.Now().Unix(),
		VisitDuration: 0,
	}, nil
}
