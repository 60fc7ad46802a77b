// Package model はドメインモデルを定義する。
package model

// MachineStatusOperational は稼働中を表すステータス値。0以外は休止・故障等を表す。
const MachineStatusOperational = 0

// UnboundMachineTag はタスクが特定のマシンに紐付かないことを示す番兵値。
// Task.Tagsの先頭要素として使用される。
const UnboundMachineTag = "*"

// Machine はMakerSpaceの設備を表す。machine_nameが主キー。
type Machine struct {
	Name   string
	Status int
}
