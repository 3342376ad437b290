package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solvextra/internal/model"
)

func sa(text, answer string, fatal bool, weightage float64) model.ScoredAnswer {
	return model.ScoredAnswer{QuestionText: text, Answer: answer, IsFatal: fatal, Weightage: weightage}
}

func TestLiveScore_SingleQuestion(t *testing.T) {
	tests := []struct {
		name      string
		answer    string
		wantScore int
	}{
		{"answered No scores zero", "No", 0},
		{"answered Yes scores full", "Yes", 100},
		{"answered NA scores full", "NA", 100},
		{"numeric one scores full", "1", 100},
		{"numeric zero deducts", "0", 0},
		{"lowercase false deducts", "false", 0},
		{"capitalized False deducts", "False", 0},
		{"lowercase true passes", "true", 100},
		{"capitalized True passes", "True", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := LiveScore([]model.ScoredAnswer{sa("Q1", tt.answer, false, 10)})
			assert.Equal(t, tt.wantScore, result.Score)
			assert.False(t, result.HasFatal)
		})
	}
}

func TestLiveScore_FatalAnswerZeroesEverything(t *testing.T) {
	// Fatal dominance: the literal "Fatal" zeroes the score no matter how
	// well the rest of the audit went.
	answered := []model.ScoredAnswer{
		sa("Fatal check", FatalAnswer, true, 10),
		sa("Greeting", "Yes", false, 90),
	}
	result := LiveScore(answered)
	assert.Equal(t, 0, result.Score)
	assert.True(t, result.HasFatal)
}

func TestLiveScore_TwoTierFatalPolicy(t *testing.T) {
	// A fatal question answered "No" (not the literal "Fatal") deducts its
	// weight but does not zero the audit.
	answered := []model.ScoredAnswer{
		sa("Fatal check", "No", true, 50),
		sa("Greeting", "Yes", false, 50),
	}
	result := LiveScore(answered)
	assert.Equal(t, 50, result.Score)
	assert.False(t, result.HasFatal)
}

func TestLiveScore_UnrecognizedAnswersAreInformational(t *testing.T) {
	answered := []model.ScoredAnswer{
		sa("Notes", "customer was upset", false, 10),
		sa("Outcome", "Escalated", false, 10),
		sa("Greeting", "Yes", false, 10),
	}
	result := LiveScore(answered)
	assert.Equal(t, 100, result.Score)
}

func TestLiveScore_UnansweredCountsInDenominator(t *testing.T) {
	// An empty answer is outside the recognized sets: it joins the
	// denominator but deducts nothing.
	answered := []model.ScoredAnswer{
		sa("Q1", "Yes", false, 50),
		sa("Q2", "", false, 50),
	}
	result := LiveScore(answered)
	assert.Equal(t, 100, result.Score, "blank is informational, not a deduction")

	answered = []model.ScoredAnswer{
		sa("Q1", "Yes", false, 50),
		sa("Q2", "No", false, 50),
	}
	assert.Equal(t, 50, LiveScore(answered).Score)
}

func TestLiveScore_ZeroWeightQuestionsExcluded(t *testing.T) {
	answered := []model.ScoredAnswer{
		sa("Unweighted", "No", false, 0),
		sa("Weighted", "Yes", false, 10),
	}
	result := LiveScore(answered)
	assert.Equal(t, 100, result.Score)
}

func TestLiveScore_NoWeightedQuestions(t *testing.T) {
	result := LiveScore([]model.ScoredAnswer{sa("Notes", "fine", false, 0)})
	assert.Equal(t, 0, result.Score)
	assert.False(t, result.HasFatal)

	result = LiveScore(nil)
	assert.Equal(t, 0, result.Score)
}

func TestLiveScore_Rounding(t *testing.T) {
	// 2 of 3 equally weighted questions pass: 100 - 1/3*100 = 66.67 -> 67
	answered := []model.ScoredAnswer{
		sa("Q1", "Yes", false, 10),
		sa("Q2", "Yes", false, 10),
		sa("Q3", "No", false, 10),
	}
	assert.Equal(t, 67, LiveScore(answered).Score)
}

func TestLiveScore_BoundsProperty(t *testing.T) {
	answers := []string{"Yes", "No", "Fatal", "NA", "1", "0", "true", "False", "", "whatever"}
	weights := []float64{0, 1, 10, 99.5}
	var answered []model.ScoredAnswer
	for i, a := range answers {
		for j, w := range weights {
			answered = append(answered, sa("Q", a, (i+j)%2 == 0, w))
		}
	}
	result := LiveScore(answered)
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
}

func TestLiveScore_Idempotent(t *testing.T) {
	answered := []model.ScoredAnswer{
		sa("Q1", "Yes", false, 30),
		sa("Q2", "No", true, 20),
		sa("Q3", "maybe", false, 50),
	}
	first := LiveScore(answered)
	second := LiveScore(answered)
	assert.Equal(t, first, second)
}

func TestLiveScore_DoesNotMutateInput(t *testing.T) {
	answered := []model.ScoredAnswer{sa("Q1", "No", true, 10)}
	before := answered[0]
	LiveScore(answered)
	assert.Equal(t, before, answered[0])
}

func TestLiveScore_CompliantAnswersInterchangeable(t *testing.T) {
	// Swapping one no-deduction answer for another never moves the score.
	base := []model.ScoredAnswer{
		sa("Q1", "Yes", false, 40),
		sa("Q2", "No", false, 60),
	}
	baseScore := LiveScore(base).Score

	for _, alt := range []string{"NA", "1", "true", "True"} {
		swapped := []model.ScoredAnswer{
			sa("Q1", alt, false, 40),
			sa("Q2", "No", false, 60),
		}
		assert.Equal(t, baseScore, LiveScore(swapped).Score, "answer %q", alt)
	}
}

func TestLiveScore_YesToNoNeverIncreases(t *testing.T) {
	answered := []model.ScoredAnswer{
		sa("Q1", "Yes", false, 25),
		sa("Q2", "Yes", false, 25),
		sa("Q3", "No", false, 50),
	}
	before := LiveScore(answered).Score
	answered[1].Answer = "No"
	after := LiveScore(answered).Score
	assert.LessOrEqual(t, after, before)
}

func TestAuditedFatalCheck_StricterThanLiveScore(t *testing.T) {
	// The review-time check treats "No" on a fatal question as fully
	// disqualifying; live scoring only deducts for it. The divergence is
	// long-standing product behavior and both rules are kept as-is.
	report := &model.AuditReport{
		SectionAnswers: []model.SectionAnswers{
			{
				SectionID:   "s1",
				SectionName: "Compliance",
				Answers: []model.AnsweredQuestion{
					{ID: "q1", Text: "Verified identity?", Answer: "No", IsFatal: true, Weightage: 50},
					{ID: "q2", Text: "Greeting", Answer: "Yes", IsFatal: false, Weightage: 50},
				},
			},
		},
	}

	live := LiveScore(FlattenReport(report))
	assert.False(t, live.HasFatal)
	assert.Equal(t, 50, live.Score)

	assert.True(t, AuditedFatalCheck(report))
}

func TestAuditedFatalCheck_LiteralFatal(t *testing.T) {
	report := &model.AuditReport{
		SectionAnswers: []model.SectionAnswers{
			{Answers: []model.AnsweredQuestion{
				{Text: "Q1", Answer: FatalAnswer, IsFatal: true, Weightage: 10},
			}},
		},
	}
	assert.True(t, AuditedFatalCheck(report))
}

func TestAuditedFatalCheck_NonFatalNoDoesNotTrip(t *testing.T) {
	report := &model.AuditReport{
		SectionAnswers: []model.SectionAnswers{
			{Answers: []model.AnsweredQuestion{
				{Text: "Q1", Answer: "No", IsFatal: false, Weightage: 10},
				{Text: "Q2", Answer: "Yes", IsFatal: true, Weightage: 10},
			}},
		},
	}
	assert.False(t, AuditedFatalCheck(report))
}

func TestAuditedFatalCheck_LegacyShape(t *testing.T) {
	report := &model.AuditReport{
		LegacyAnswers: []model.LegacySectionAnswers{
			{
				SectionName: "Compliance",
				Questions: []model.AnsweredQuestion{
					{Text: "Verified identity?", Answer: "No", IsFatal: true, Weightage: 10},
				},
			},
		},
	}
	assert.True(t, AuditedFatalCheck(report))
}

func TestAuditedFatalCheck_NilReport(t *testing.T) {
	assert.False(t, AuditedFatalCheck(nil))
}

func TestTotalWeightage(t *testing.T) {
	answered := []model.ScoredAnswer{
		sa("Q1", "Yes", false, 10),
		sa("Q2", "No", false, 0),
		sa("Q3", "", false, 15.5),
	}
	require.InDelta(t, 25.5, TotalWeightage(answered), 1e-9)
}
