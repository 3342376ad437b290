package model

import "time"

// AnsweredQuestion is a question together with the answer it received at
// submission time. Visibility was already decided when the report was
// persisted, so reports carry only the questions that were visible.
type AnsweredQuestion struct {
	ID        string  `json:"id" bson:"id"`
	Text      string  `json:"text" bson:"text"`
	Answer    string  `json:"answer" bson:"answer"`
	IsFatal   bool    `json:"isFatal" bson:"isFatal"`
	Weightage float64 `json:"weightage" bson:"weightage"`
}

// SectionAnswers is one section of a persisted report, current shape.
type SectionAnswers struct {
	SectionID   string             `json:"sectionId" bson:"sectionId"`
	SectionName string             `json:"sectionName" bson:"sectionName"`
	Answers     []AnsweredQuestion `json:"answers" bson:"answers"`
}

// LegacySectionAnswers is the older persisted shape in which sections were
// stored under "answers" with their question/answer pairs under "questions".
// Reports written before the format change still carry it.
type LegacySectionAnswers struct {
	SectionName string             `json:"sectionName" bson:"sectionName"`
	Questions   []AnsweredQuestion `json:"questions" bson:"questions"`
}

// EditRecord is one entry in a report's edit trail.
type EditRecord struct {
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Editor    string    `json:"editor" bson:"editor"`
	Action    string    `json:"action" bson:"action"`
}

// Edit actions recorded in EditHistory.
const (
	EditActionSubmit     = "submit"
	EditActionAdminEdit  = "admin_edit"
	EditActionATARescore = "ata_rescore"
)

// AuditReport is the persisted audit artifact. Score and answers are only
// ever replaced together; partial mutation would let a reader observe a
// score that does not match its answer set.
type AuditReport struct {
	AuditID        string                 `json:"auditId" bson:"_id,omitempty"`
	FormID         string                 `json:"formId" bson:"formId"`
	FormName       string                 `json:"formName" bson:"formName"`
	Agent          string                 `json:"agent" bson:"agent"`
	Auditor        string                 `json:"auditor" bson:"auditor"`
	SectionAnswers []SectionAnswers       `json:"sectionAnswers,omitempty" bson:"sectionAnswers,omitempty"`
	LegacyAnswers  []LegacySectionAnswers `json:"answers,omitempty" bson:"answers,omitempty"`
	Score          int                    `json:"score" bson:"score"`
	MaxScore       int                    `json:"maxScore" bson:"maxScore"`
	HasFatal       bool                   `json:"hasFatal" bson:"hasFatal"`
	EditHistory    []EditRecord           `json:"editHistory" bson:"editHistory"`
	SubmittedAt    time.Time              `json:"submittedAt" bson:"submittedAt"`
}
