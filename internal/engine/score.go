package engine

import (
	"math"

	"solvextra/internal/model"
)

// FatalAnswer is the literal answer value that zeroes an entire audit when
// given on a fatal-flagged question.
const FatalAnswer = "Fatal"

// Answer values that leave the score untouched. NA counts as compliant.
var noDeductionAnswers = map[string]bool{
	"Yes":  true,
	"1":    true,
	"true": true,
	"True": true,
	"NA":   true,
}

// Answer values that deduct the question's full weightage.
var deductionAnswers = map[string]bool{
	"No":    true,
	"0":     true,
	"false": true,
	"False": true,
}

// LiveScore computes the audit score with the deduct-from-100 model.
//
// Every question with positive weightage counts toward the denominator,
// answered or not, so an unanswered weighted question costs its full weight.
// A fatal question answered with the literal "Fatal" zeroes the whole score;
// a fatal question answered negatively but not "Fatal" only deducts its
// weight. Answer values outside the recognized yes/no sets are informational
// and never deduct.
//
// Pure function: no mutation of the input, identical output for identical
// input.
func LiveScore(answered []model.ScoredAnswer) model.ScoreResult {
	var totalWeightage, deducted float64
	hasFatal := false

	for _, a := range answered {
		if a.Weightage <= 0 {
			continue
		}
		totalWeightage += a.Weightage

		switch {
		case a.IsFatal && a.Answer == FatalAnswer:
			hasFatal = true
		case deductionAnswers[a.Answer]:
			deducted += a.Weightage
		case noDeductionAnswers[a.Answer]:
			// compliant, no deduction
		default:
			// unrecognized value: informational, not scored
		}
	}

	if hasFatal || totalWeightage == 0 {
		return model.ScoreResult{Score: 0, HasFatal: hasFatal}
	}

	score := int(math.Round(100 - deducted/totalWeightage*100))
	if score < 0 {
		score = 0
	}
	return model.ScoreResult{Score: score, HasFatal: false}
}

// TotalWeightage sums the positive weightages of the answer set. It is the
// denominator LiveScore uses and doubles as the report's max score.
func TotalWeightage(answered []model.ScoredAnswer) float64 {
	var total float64
	for _, a := range answered {
		if a.Weightage > 0 {
			total += a.Weightage
		}
	}
	return total
}

// AuditedFatalCheck is the master-auditor (ATA) fatal re-detection run over
// a persisted report. It is deliberately more permissive than LiveScore: a
// fatal question answered "No" disqualifies here, while live scoring only
// deducts its weight. The two rules have always differed in the product and
// reviewers depend on the stricter one, so they are kept as separately named
// operations rather than unified.
func AuditedFatalCheck(report *model.AuditReport) bool {
	for _, a := range FlattenReport(report) {
		if a.IsFatal && (a.Answer == FatalAnswer || a.Answer == "No") {
			return true
		}
	}
	return false
}
