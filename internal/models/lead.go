package models

import (
	"time"

	"gorm.io/gorm"
)

// LeadScore rates how promising a submitted questionnaire is for sales
type LeadScore struct {
	BudgetRangeScore int `json:"budgetRangeScore"`
	TimelineScore    int `json:"timelineScore"`
	EngagementScore  int `json:"engagementScore"`
	DataQualityScore int `json:"dataQualityScore"`
	TotalScore       int `json:"totalScore"`
}

// Submission is a completed questionnaire as handed to the backend
type Submission struct {
	ID          string        `json:"id" gorm:"primaryKey;type:uuid"`
	SessionID   string        `json:"sessionId" gorm:"index"`
	FormData    FormData      `json:"formData" gorm:"serializer:json"`
	LeadScore   LeadScore     `json:"leadScore" gorm:"embedded;embeddedPrefix:score_"`
	SubmittedAt time.Time     `json:"submittedAt"`
	Duration    time.Duration `json:"duration"`
}

// TableName keeps submissions in the weddings namespace of the backend.
func (Submission) TableName() string {
	return "wedding_submissions"
}

// BeforeCreate stamps a submission that arrives without a timestamp.
func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now()
	}
	return nil
}
