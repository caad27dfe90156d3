package model

// 採番カウンター（sequence名ごとに1行）。
// valueは単調増加、削除しない。
type Counter struct {
	SequenceName string `gorm:"primaryKey;type:varchar(100)" json:"sequence_name"`
	Value        int64  `gorm:"not null" json:"value"`
}
