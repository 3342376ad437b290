package engine

import (
	"fmt"
	"time"

	"solvextra/internal/model"
)

// legacyRepeatPrompt is the question text older forms used to mark the
// repetition trigger before the triggersRepetition flag existed. Matched
// only when the flag is absent.
const legacyRepeatPrompt = "Was there another interaction?"

// Answer values that drive the repetition lifecycle when the trigger
// question carries no explicit repeatOnValues.
const (
	repeatAnswer   = "Yes"
	collapseAnswer = "No"
)

// Session is the working state of one in-progress audit: the immutable form,
// the dynamic repetition instances, and the growing answer map. A session
// belongs to exactly one auditor; it is never shared across audits.
type Session struct {
	ID        string               `json:"id"`
	FormID    string               `json:"formId"`
	Agent     string               `json:"agent"`
	Auditor   string               `json:"auditor"`
	Form      model.FormDefinition `json:"form"`
	Dynamic   []model.Section      `json:"dynamic,omitempty"`
	Answers   model.AnswerMap      `json:"answers"`
	StartedAt time.Time            `json:"startedAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// NewSession opens a session against a form definition.
func NewSession(id string, form *model.FormDefinition, agent, auditor string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		FormID:    form.ID,
		Agent:     agent,
		Auditor:   auditor,
		Form:      *form,
		Answers:   make(model.AnswerMap),
		StartedAt: now,
		UpdatedAt: now,
	}
}

// SetAnswer records an answer and runs the repeatable-section lifecycle.
// Answers accumulate monotonically; answering a question that is currently
// hidden is allowed and the value is simply retained.
func (s *Session) SetAnswer(questionID, value string) {
	s.Answers[questionID] = value
	s.UpdatedAt = time.Now()

	owner, question := s.findQuestion(questionID)
	if owner == nil || !isRepeatTrigger(question) {
		return
	}

	current := owner.RepetitionIndex
	if current == 0 {
		current = 1
	}

	if triggersRepeat(question, value) {
		s.materialize(owner.RepeatableGroupID, current+1)
		return
	}
	if value == collapseAnswer {
		s.collapse(owner.RepeatableGroupID, current)
	}
}

// Visible resolves the current visible layout of the session.
func (s *Session) Visible() VisibleLayout {
	return ResolveVisible(&s.Form, s.Dynamic, s.Answers)
}

// Snapshot returns a deep copy, so callers can resolve and score against a
// stable view while the live session keeps moving.
func (s *Session) Snapshot() *Session {
	cp := *s
	cp.Answers = s.Answers.Clone()
	cp.Dynamic = make([]model.Section, len(s.Dynamic))
	copy(cp.Dynamic, s.Dynamic)
	cp.Form.Sections = make([]model.Section, len(s.Form.Sections))
	copy(cp.Form.Sections, s.Form.Sections)
	return &cp
}

// findQuestion locates a question and its owning section across the static
// sections and the dynamic instances.
func (s *Session) findQuestion(questionID string) (*model.Section, *model.Question) {
	for si := range s.Form.Sections {
		for qi := range s.Form.Sections[si].Questions {
			if s.Form.Sections[si].Questions[qi].ID == questionID {
				return &s.Form.Sections[si], &s.Form.Sections[si].Questions[qi]
			}
		}
	}
	for si := range s.Dynamic {
		for qi := range s.Dynamic[si].Questions {
			if s.Dynamic[si].Questions[qi].ID == questionID {
				return &s.Dynamic[si], &s.Dynamic[si].Questions[qi]
			}
		}
	}
	return nil, nil
}

// isRepeatTrigger identifies the repetition trigger question. The structural
// flag is authoritative; the legacy prompt text is a compatibility fallback
// for forms authored before the flag existed.
func isRepeatTrigger(q *model.Question) bool {
	if q.TriggersRepetition {
		return true
	}
	return q.Text == legacyRepeatPrompt
}

// triggersRepeat reports whether the answer asks for another instance.
// Explicit repeatOnValues widen the canonical "Yes".
func triggersRepeat(q *model.Question, value string) bool {
	if len(q.RepeatOnValues) > 0 {
		for _, v := range q.RepeatOnValues {
			if v == value {
				return true
			}
		}
		return false
	}
	return value == repeatAnswer
}

// materialize clones the template of the group into the instance with the
// given index. Re-triggering for an index that already exists is a no-op.
func (s *Session) materialize(groupID string, index int) {
	if groupID == "" {
		return
	}
	for _, inst := range s.Dynamic {
		if inst.RepeatableGroupID == groupID && inst.RepetitionIndex == index {
			return
		}
	}

	template := s.findTemplate(groupID)
	if template == nil {
		return
	}
	if template.MaxRepetitions > 0 && index > template.MaxRepetitions {
		return
	}

	s.Dynamic = append(s.Dynamic, cloneInstance(template, index))
}

// collapse removes every instance of the group beyond the given index. The
// cascade is strictly downstream: lower-index instances are never removed
// implicitly.
func (s *Session) collapse(groupID string, after int) {
	if groupID == "" {
		return
	}
	kept := s.Dynamic[:0]
	for _, inst := range s.Dynamic {
		if inst.RepeatableGroupID == groupID && inst.RepetitionIndex > after {
			continue
		}
		kept = append(kept, inst)
	}
	s.Dynamic = kept
}

// findTemplate returns the repeatable template section of a group. Only the
// original (IsRepeatable, index 0 or 1) qualifies; instances are never
// cloned from other instances.
func (s *Session) findTemplate(groupID string) *model.Section {
	for i := range s.Form.Sections {
		sec := &s.Form.Sections[i]
		if sec.IsRepeatable && sec.RepeatableGroupID == groupID && sec.RepetitionIndex <= 1 {
			return sec
		}
	}
	return nil
}

// cloneInstance builds repetition instance n from the template: suffixed
// ids, numbered name, same group. Intra-section controlledBy references are
// re-pointed at the suffixed ids so sibling visibility keeps working inside
// the clone.
func cloneInstance(template *model.Section, n int) model.Section {
	suffix := fmt.Sprintf("_repeat_%d", n)

	inst := *template
	inst.ID = template.ID + suffix
	inst.Name = fmt.Sprintf("%s %d", template.Name, n)
	inst.IsRepeatable = false
	inst.RepetitionIndex = n
	inst.Questions = make([]model.Question, len(template.Questions))

	for i, q := range template.Questions {
		q.ID = q.ID + suffix
		if q.ControlledBy != "" {
			q.ControlledBy = q.ControlledBy + suffix
		}
		inst.Questions[i] = q
	}
	return inst
}
