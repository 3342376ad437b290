package model

import (
	"errors"
	"fmt"
	"time"
)

// SectionType categorizes the sections of an audit form
type SectionType string

const (
	SectionTypeAgent         SectionType = "agent"
	SectionTypeQuestionnaire SectionType = "questionnaire"
	SectionTypeCustom        SectionType = "custom"
	SectionTypeInteraction   SectionType = "interaction"
)

// QuestionType selects the input widget the UI renders for a question.
// The engine only dispatches on it; rendering is the client's concern.
type QuestionType string

const (
	QuestionTypeText        QuestionType = "text"
	QuestionTypeDropdown    QuestionType = "dropdown"
	QuestionTypeMultiSelect QuestionType = "multiSelect"
	QuestionTypeNumber      QuestionType = "number"
	QuestionTypeDate        QuestionType = "date"
	QuestionTypePartner     QuestionType = "partner"
)

// Question is a single form question. A question can control the visibility
// of a whole section (ControlsSection + ControlledSectionID), the visibility
// of sibling questions (those reference it via their own ControlledBy), or
// trigger cloning of a repeatable section (TriggersRepetition).
type Question struct {
	ID        string       `json:"id" bson:"id"`
	Text      string       `json:"text" bson:"text"`
	Type      QuestionType `json:"type" bson:"type"`
	Options   []string     `json:"options,omitempty" bson:"options,omitempty"`
	Weightage float64      `json:"weightage" bson:"weightage"`
	Mandatory bool         `json:"mandatory" bson:"mandatory"`
	IsFatal   bool         `json:"isFatal" bson:"isFatal"`

	// Section control (this question decides whether another section shows)
	ControlsSection     bool     `json:"controlsSection,omitempty" bson:"controlsSection,omitempty"`
	ControlledSectionID string   `json:"controlledSectionId,omitempty" bson:"controlledSectionId,omitempty"`
	VisibleOnValues     []string `json:"visibleOnValues,omitempty" bson:"visibleOnValues,omitempty"`

	// Question control (this question is shown only when its controller's
	// answer is in the controller's VisibleOnValues)
	ControlsVisibility bool   `json:"controlsVisibility,omitempty" bson:"controlsVisibility,omitempty"`
	ControlledBy       string `json:"controlledBy,omitempty" bson:"controlledBy,omitempty"`

	// Repetition trigger
	TriggersRepetition bool     `json:"triggersRepetition,omitempty" bson:"triggersRepetition,omitempty"`
	RepeatOnValues     []string `json:"repeatOnValues,omitempty" bson:"repeatOnValues,omitempty"`
}

// Section groups questions. A section with IsRepeatable set is a template:
// the engine clones it into numbered instances as the trigger question is
// answered. RepetitionIndex is zero for templates and static sections.
type Section struct {
	ID                string      `json:"id" bson:"id"`
	Name              string      `json:"name" bson:"name"`
	Type              SectionType `json:"type" bson:"type"`
	Questions         []Question  `json:"questions" bson:"questions"`
	ControlledBy      string      `json:"controlledBy,omitempty" bson:"controlledBy,omitempty"`
	IsRepeatable      bool        `json:"isRepeatable,omitempty" bson:"isRepeatable,omitempty"`
	RepeatableGroupID string      `json:"repeatableGroupId,omitempty" bson:"repeatableGroupId,omitempty"`
	MaxRepetitions    int         `json:"maxRepetitions,omitempty" bson:"maxRepetitions,omitempty"`
	RepetitionIndex   int         `json:"repetitionIndex,omitempty" bson:"repetitionIndex,omitempty"`
}

// FormDefinition is the audit form template, immutable once an audit begins.
type FormDefinition struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Sections  []Section `json:"sections" bson:"sections"`
	CreatedBy string    `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

var ErrInvalidForm = errors.New("invalid form definition")

// ValidateForm checks a form definition at the parse boundary. This is the
// only place a malformed form is rejected; past this point the engine is
// lenient and never errors on form content.
func ValidateForm(form *FormDefinition) error {
	if form == nil {
		return fmt.Errorf("%w: nil form", ErrInvalidForm)
	}
	if form.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidForm)
	}
	sectionIDs := make(map[string]bool)
	questionIDs := make(map[string]bool)
	for _, section := range form.Sections {
		if section.ID == "" {
			return fmt.Errorf("%w: section %q has no id", ErrInvalidForm, section.Name)
		}
		if sectionIDs[section.ID] {
			return fmt.Errorf("%w: duplicate section id %q", ErrInvalidForm, section.ID)
		}
		sectionIDs[section.ID] = true
		if section.IsRepeatable && section.RepeatableGroupID == "" {
			return fmt.Errorf("%w: repeatable section %q has no repeatableGroupId", ErrInvalidForm, section.ID)
		}
		for _, q := range section.Questions {
			if q.ID == "" {
				return fmt.Errorf("%w: question %q in section %q has no id", ErrInvalidForm, q.Text, section.ID)
			}
			if questionIDs[q.ID] {
				return fmt.Errorf("%w: duplicate question id %q", ErrInvalidForm, q.ID)
			}
			questionIDs[q.ID] = true
			if q.Weightage < 0 {
				return fmt.Errorf("%w: question %q has negative weightage", ErrInvalidForm, q.ID)
			}
		}
	}
	return nil
}
