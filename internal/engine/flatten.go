package engine

import "solvextra/internal/model"

// FlattenReport normalizes a persisted report into the evaluator's input
// shape. Reports exist in two formats: the current one stores sections under
// sectionAnswers with their pairs under answers, the legacy one stores
// sections under answers with pairs under questions. All shape sniffing
// happens here so the scoring code sees exactly one shape.
func FlattenReport(report *model.AuditReport) []model.ScoredAnswer {
	if report == nil {
		return nil
	}

	if len(report.SectionAnswers) > 0 {
		var flat []model.ScoredAnswer
		for _, section := range report.SectionAnswers {
			for _, a := range section.Answers {
				flat = append(flat, model.ScoredAnswer{
					QuestionText: a.Text,
					Answer:       a.Answer,
					IsFatal:      a.IsFatal,
					Weightage:    a.Weightage,
				})
			}
		}
		return flat
	}

	var flat []model.ScoredAnswer
	for _, section := range report.LegacyAnswers {
		for _, a := range section.Questions {
			flat = append(flat, model.ScoredAnswer{
				QuestionText: a.Text,
				Answer:       a.Answer,
				IsFatal:      a.IsFatal,
				Weightage:    a.Weightage,
			})
		}
	}
	return flat
}

// FlattenVisible flattens the currently visible question set for live
// scoring. Unanswered questions flatten with an empty answer and still carry
// their weightage, so they count toward the scoring denominator.
func FlattenVisible(layout VisibleLayout, answers model.AnswerMap) []model.ScoredAnswer {
	var flat []model.ScoredAnswer
	for _, section := range layout.Sections {
		for _, q := range layout.QuestionsBySection[section.ID] {
			flat = append(flat, model.ScoredAnswer{
				QuestionText: q.Text,
				Answer:       answers[q.ID],
				IsFatal:      q.IsFatal,
				Weightage:    q.Weightage,
			})
		}
	}
	return flat
}

// BuildSectionAnswers materializes the persisted sectionAnswers shape from
// the visible layout at submission time. Visibility is decided here, once;
// review-time scoring reads the persisted pairs without re-resolving.
func BuildSectionAnswers(layout VisibleLayout, answers model.AnswerMap) []model.SectionAnswers {
	out := make([]model.SectionAnswers, 0, len(layout.Sections))
	for _, section := range layout.Sections {
		sa := model.SectionAnswers{
			SectionID:   section.ID,
			SectionName: section.Name,
		}
		for _, q := range layout.QuestionsBySection[section.ID] {
			sa.Answers = append(sa.Answers, model.AnsweredQuestion{
				ID:        q.ID,
				Text:      q.Text,
				Answer:    answers[q.ID],
				IsFatal:   q.IsFatal,
				Weightage: q.Weightage,
			})
		}
		out = append(out, sa)
	}
	return out
}
