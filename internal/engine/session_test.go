package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solvextra/internal/model"
)

func interactionForm() *model.FormDefinition {
	return &model.FormDefinition{
		ID:   "form1",
		Name: "Chat Audit",
		Sections: []model.Section{
			{
				ID:   "agent",
				Name: "Agent Details",
				Type: model.SectionTypeAgent,
				Questions: []model.Question{
					{ID: "agent_name", Text: "Agent name", Type: model.QuestionTypeText},
				},
			},
			{
				ID:                "interaction",
				Name:              "Interaction",
				Type:              model.SectionTypeInteraction,
				IsRepeatable:      true,
				RepeatableGroupID: "interactions",
				Questions: []model.Question{
					{ID: "resolved", Text: "Issue resolved?", Weightage: 10},
					{ID: "more", Text: "Any further interaction?", TriggersRepetition: true},
				},
			},
		},
	}
}

func dynamicIndexes(s *Session) []int {
	indexes := make([]int, 0, len(s.Dynamic))
	for _, inst := range s.Dynamic {
		indexes = append(indexes, inst.RepetitionIndex)
	}
	return indexes
}

func TestSession_TriggerCreatesInstance(t *testing.T) {
	s := NewSession("a1", interactionForm(), "agent-7", "auditor-1")

	s.SetAnswer("more", "Yes")

	require.Len(t, s.Dynamic, 1)
	inst := s.Dynamic[0]
	assert.Equal(t, "interaction_repeat_2", inst.ID)
	assert.Equal(t, "Interaction 2", inst.Name)
	assert.Equal(t, 2, inst.RepetitionIndex)
	assert.Equal(t, "interactions", inst.RepeatableGroupID)
	assert.False(t, inst.IsRepeatable)

	require.Len(t, inst.Questions, 2)
	assert.Equal(t, "resolved_repeat_2", inst.Questions[0].ID)
	assert.Equal(t, "more_repeat_2", inst.Questions[1].ID)
	assert.True(t, inst.Questions[1].TriggersRepetition)
}

func TestSession_RetriggerIsIdempotent(t *testing.T) {
	s := NewSession("a1", interactionForm(), "agent-7", "auditor-1")

	s.SetAnswer("more", "Yes")
	s.SetAnswer("more", "Yes")

	assert.Equal(t, []int{2}, dynamicIndexes(s))
}

func TestSession_InstanceTriggerChainsNextInstance(t *testing.T) {
	s := NewSession("a1", interactionForm(), "agent-7", "auditor-1")

	s.SetAnswer("more", "Yes")
	s.SetAnswer("more_repeat_2", "Yes")

	assert.Equal(t, []int{2, 3}, dynamicIndexes(s))
}

func TestSession_CollapseCascadesDownstreamOnly(t *testing.T) {
	// Instances 2 and 3 exist; flipping instance 2's trigger to No removes
	// instance 3 but leaves instance 2 (and the template) alone.
	s := NewSession("a1", interactionForm(), "agent-7", "auditor-1")
	s.SetAnswer("more", "Yes")
	s.SetAnswer("more_repeat_2", "Yes")

	s.SetAnswer("more_repeat_2", "No")

	assert.Equal(t, []int{2}, dynamicIndexes(s))
}

func TestSession_TemplateTriggerNoRemovesAllInstances(t *testing.T) {
	s := NewSession("a1", interactionForm(), "agent-7", "auditor-1")
	s.SetAnswer("more", "Yes")
	s.SetAnswer("more_repeat_2", "Yes")

	s.SetAnswer("more", "No")

	assert.Empty(t, s.Dynamic)
}

func TestSession_AnswersRetainedAfterCollapse(t *testing.T) {
	// Answers grow monotonically; collapsing instances never deletes the
	// values that were recorded against them.
	s := NewSession("a1", interactionForm(), "agent-7", "auditor-1")
	s.SetAnswer("more", "Yes")
	s.SetAnswer("resolved_repeat_2", "Yes")

	s.SetAnswer("more", "No")

	assert.Equal(t, "Yes", s.Answers["resolved_repeat_2"])
	assert.Empty(t, s.Dynamic)
}

func TestSession_MaxRepetitionsHonored(t *testing.T) {
	form := interactionForm()
	form.Sections[1].MaxRepetitions = 2

	s := NewSession("a1", form, "agent-7", "auditor-1")
	s.SetAnswer("more", "Yes")
	s.SetAnswer("more_repeat_2", "Yes")

	assert.Equal(t, []int{2}, dynamicIndexes(s), "third instance exceeds maxRepetitions")
}

func TestSession_LegacyPromptTextFallback(t *testing.T) {
	form := interactionForm()
	// Older forms mark the trigger by its exact prompt text, not the flag.
	form.Sections[1].Questions[1].TriggersRepetition = false
	form.Sections[1].Questions[1].Text = "Was there another interaction?"

	s := NewSession("a1", form, "agent-7", "auditor-1")
	s.SetAnswer("more", "Yes")

	assert.Equal(t, []int{2}, dynamicIndexes(s))
}

func TestSession_PlainQuestionNeverTriggers(t *testing.T) {
	s := NewSession("a1", interactionForm(), "agent-7", "auditor-1")

	s.SetAnswer("resolved", "Yes")
	s.SetAnswer("agent_name", "Yes")

	assert.Empty(t, s.Dynamic)
}

func TestSession_RepeatOnValuesWidenTheTrigger(t *testing.T) {
	form := interactionForm()
	form.Sections[1].Questions[1].RepeatOnValues = []string{"Yes", "One more"}

	s := NewSession("a1", form, "agent-7", "auditor-1")
	s.SetAnswer("more", "One more")

	assert.Equal(t, []int{2}, dynamicIndexes(s))
}

func TestSession_InformationalTriggerAnswerIsNoOp(t *testing.T) {
	s := NewSession("a1", interactionForm(), "agent-7", "auditor-1")
	s.SetAnswer("more", "Yes")

	s.SetAnswer("more", "Unsure")

	assert.Equal(t, []int{2}, dynamicIndexes(s), "only No collapses")
}

func TestSession_ClonedControlledByStaysInsideInstance(t *testing.T) {
	form := interactionForm()
	form.Sections[1].Questions = append(form.Sections[1].Questions, model.Question{
		ID:           "details",
		Text:         "Resolution details",
		ControlledBy: "resolved",
	})
	form.Sections[1].Questions[0].VisibleOnValues = []string{"Yes"}

	s := NewSession("a1", form, "agent-7", "auditor-1")
	s.SetAnswer("more", "Yes")

	require.Len(t, s.Dynamic, 1)
	var cloned *model.Question
	for i := range s.Dynamic[0].Questions {
		if s.Dynamic[0].Questions[i].ID == "details_repeat_2" {
			cloned = &s.Dynamic[0].Questions[i]
		}
	}
	require.NotNil(t, cloned)
	assert.Equal(t, "resolved_repeat_2", cloned.ControlledBy)

	// Answering the clone's controller shows the clone's controlled question
	// without touching the template's.
	s.SetAnswer("resolved_repeat_2", "Yes")
	layout := s.Visible()
	ids := make([]string, 0)
	for _, q := range layout.QuestionsBySection["interaction_repeat_2"] {
		ids = append(ids, q.ID)
	}
	assert.Contains(t, ids, "details_repeat_2")
}

func TestSession_SnapshotIsIndependent(t *testing.T) {
	s := NewSession("a1", interactionForm(), "agent-7", "auditor-1")
	s.SetAnswer("more", "Yes")

	snap := s.Snapshot()
	s.SetAnswer("resolved", "No")
	s.SetAnswer("more", "No")

	assert.NotContains(t, snap.Answers, "resolved")
	assert.Equal(t, []int{2}, dynamicIndexes(snap))
	assert.Empty(t, s.Dynamic)
}

func TestSession_EndToEndScoring(t *testing.T) {
	// One repeated interaction, both resolved: full marks.
	s := NewSession("a1", interactionForm(), "agent-7", "auditor-1")
	s.SetAnswer("resolved", "Yes")
	s.SetAnswer("more", "Yes")
	s.SetAnswer("resolved_repeat_2", "No")

	flat := FlattenVisible(s.Visible(), s.Answers)
	result := LiveScore(flat)
	assert.Equal(t, 50, result.Score)
	assert.False(t, result.HasFatal)
}
