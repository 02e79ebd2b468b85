package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisRun records one round trip to the remote voice-analysis
// endpoint, plus the report that was registered for it.
type AnalysisRun struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Prediction   string     `gorm:"column:prediction" json:"prediction"`
	PlotPath     string     `gorm:"column:plot_path" json:"plot_path"`
	ReportPath   string     `gorm:"column:report_path" json:"report_path"`
	ReportID     *uuid.UUID `gorm:"type:uuid;column:report_id" json:"report_id,omitempty"`
	RecordingKey string     `gorm:"column:recording_key" json:"recording_key,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (AnalysisRun) TableName() string { return "analysis_run" }
