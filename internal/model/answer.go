package model

// AnswerMap maps question id to the raw answer string. It grows
// monotonically during an audit; answers for questions that later become
// hidden are retained but excluded from visibility and scoring.
type AnswerMap map[string]string

// Clone returns an independent copy of the map.
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ScoredAnswer is the flattened evaluator input unit: one answered, weighted
// question. Adapters produce these from live sessions and persisted reports
// so the evaluator never sees either storage shape.
type ScoredAnswer struct {
	QuestionText string  `json:"questionText"`
	Answer       string  `json:"answer"`
	IsFatal      bool    `json:"isFatal"`
	Weightage    float64 `json:"weightage"`
}

// ScoreResult is the evaluator output consumed by submission and review.
type ScoreResult struct {
	Score    int  `json:"score"`
	HasFatal bool `json:"hasFatal"`
}
