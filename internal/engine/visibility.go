package engine

import "solvextra/internal/model"

// VisibleLayout is the resolver output: the sections currently shown, in
// render order, and the visible questions of each. It carries data only;
// widget choice and layout belong to the rendering client.
type VisibleLayout struct {
	Sections           []model.Section             `json:"sections"`
	QuestionsBySection map[string][]model.Question `json:"questionsBySection"`
}

// ResolveVisible computes the visible working set for a form given the
// current answers. Static sections keep their authored order; dynamic
// repetition instances are slotted after their template in creation order.
//
// Visibility is fail-open throughout: a section or question whose
// controlling question cannot be located is shown, never hidden. Hiding
// data on a misconfigured control would silently drop audit evidence.
func ResolveVisible(form *model.FormDefinition, dynamic []model.Section, answers model.AnswerMap) VisibleLayout {
	ordered := orderSections(form.Sections, dynamic)

	layout := VisibleLayout{
		Sections:           make([]model.Section, 0, len(ordered)),
		QuestionsBySection: make(map[string][]model.Question),
	}

	for _, section := range ordered {
		if !sectionVisible(section, ordered, answers) {
			continue
		}
		layout.Sections = append(layout.Sections, section)
		layout.QuestionsBySection[section.ID] = visibleQuestions(section, answers)
	}
	return layout
}

// orderSections interleaves dynamic instances after their template section.
// Instances whose template no longer exists go at the end rather than being
// dropped.
func orderSections(static, dynamic []model.Section) []model.Section {
	ordered := make([]model.Section, 0, len(static)+len(dynamic))
	placed := make([]bool, len(dynamic))

	for _, section := range static {
		ordered = append(ordered, section)
		if !section.IsRepeatable {
			continue
		}
		for i, inst := range dynamic {
			if !placed[i] && inst.RepeatableGroupID == section.RepeatableGroupID {
				ordered = append(ordered, inst)
				placed[i] = true
			}
		}
	}
	for i, inst := range dynamic {
		if !placed[i] {
			ordered = append(ordered, inst)
		}
	}
	return ordered
}

func sectionVisible(section model.Section, all []model.Section, answers model.AnswerMap) bool {
	if section.ControlledBy == "" {
		return true
	}
	controller := findSectionController(section.ID, all)
	if controller == nil {
		// No question claims control of this section: show it.
		return true
	}
	return answerIn(answers[controller.ID], controller.VisibleOnValues)
}

// findSectionController searches every section's questions for the one
// marked as controlling the given section.
func findSectionController(sectionID string, all []model.Section) *model.Question {
	for si := range all {
		for qi := range all[si].Questions {
			q := &all[si].Questions[qi]
			if q.ControlsSection && q.ControlledSectionID == sectionID {
				return q
			}
		}
	}
	return nil
}

// visibleQuestions filters a visible section's questions. Question-level
// control is resolved within the owning section only; cross-section question
// control is not supported.
func visibleQuestions(section model.Section, answers model.AnswerMap) []model.Question {
	visible := make([]model.Question, 0, len(section.Questions))
	for _, q := range section.Questions {
		if q.ControlledBy == "" {
			visible = append(visible, q)
			continue
		}
		controller := findQuestionInSection(section, q.ControlledBy)
		if controller == nil {
			visible = append(visible, q)
			continue
		}
		if answerIn(answers[controller.ID], controller.VisibleOnValues) {
			visible = append(visible, q)
		}
	}
	return visible
}

func findQuestionInSection(section model.Section, questionID string) *model.Question {
	for i := range section.Questions {
		if section.Questions[i].ID == questionID {
			return &section.Questions[i]
		}
	}
	return nil
}

func answerIn(answer string, values []string) bool {
	for _, v := range values {
		if v == answer {
			return true
		}
	}
	return false
}
