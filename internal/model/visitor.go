package model

import "fmt"

// Visitor はMakerSpaceの訪問者を表す。
// hardware_idは入館バッジ等の外部発行デバイス識別子。
// emailはIDディレクトリへの登録に使用され、初期パスワードはhardware_idとなる。
type Visitor struct {
	ID         string
	HardwareID string
	FirstName  string
	LastName   string
	Major      string
	DegreeType string
	Email      string
}

// NewVisitor は新しいVisitorを生成し、IDを採番する。
func NewVisitor(hardwareID, degreeType, firstName, lastName, major, email string) (*Visitor, error) {
	id, err := NewVisitorID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate visitor ID: %w", err)
	}

	return &Visitor{
		ID:         id,
		HardwareID: hardwareID,
		FirstName:  firstName,
		LastName:   lastName,
		Major:      major,
		DegreeType: degreeType,
		Email:      email,
	}, nil
}
