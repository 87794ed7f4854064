package cadence

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/beneficlub/backoffice/internal/domain/cadence/valueobjects"
)

var welcome = Cadence{
	Name: vo.CadenceWelcome,
	Steps: []Step{
		{Delay: 0, Template: "hi"},
		{Delay: 24 * time.Hour, Template: "tips"},
		{Delay: 72 * time.Hour, Template: "survey"},
	},
}

func TestPlanRun(t *testing.T) {
	trigger := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	msgs, err := PlanRun(7, welcome, trigger, "5511987654321", []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	runID := msgs[0].RunID()
	for i, m := range msgs {
		assert.Equal(t, runID, m.RunID())
		assert.Equal(t, i, m.StepIndex())
		assert.Equal(t, vo.MessageStatusPending, m.Status())
	}
	assert.Equal(t, trigger, msgs[0].SendAt())
	assert.Equal(t, trigger.Add(24*time.Hour), msgs[1].SendAt())
	assert.Equal(t, trigger.Add(96*time.Hour), msgs[2].SendAt())
}

func TestPlanRun_WithoutPhoneSkipsEverything(t *testing.T) {
	msgs, err := PlanRun(7, welcome, time.Now(), "", []string{"a", "b", "c"})
	require.NoError(t, err)

	for _, m := range msgs {
		assert.Equal(t, vo.MessageStatusSkipped, m.Status())
		assert.Equal(t, OutcomeNoPhone, m.LastError())
	}
}

func TestPlanRun_Validation(t *testing.T) {
	_, err := PlanRun(7, welcome, time.Now(), "55", []string{"a"})
	assert.Error(t, err)

	_, err = PlanRun(7, Cadence{Name: "empty"}, time.Now(), "55", nil)
	assert.Error(t, err)
}

func TestMessage_RetryThenTerminalFailure(t *testing.T) {
	msgs, err := PlanRun(7, welcome, time.Now(), "5511987654321", []string{"a", "b", "c"})
	require.NoError(t, err)
	m := msgs[0]
	now := time.Now().UTC()

	retryAt := now.Add(2 * time.Minute)
	m.MarkAttemptFailed(errors.New("503"), &retryAt, now)
	assert.True(t, m.IsPending())
	assert.Equal(t, retryAt, m.SendAt())
	assert.Equal(t, 1, m.Attempts())

	m.MarkAttemptFailed(errors.New("503"), nil, now)
	assert.Equal(t, vo.MessageStatusFailed, m.Status())
	assert.True(t, m.Status().IsTerminal())
	assert.NotNil(t, m.CompletedAt())

	assert.False(t, m.Cancel("late"), "terminal messages cannot be cancelled")
}

func TestMessage_LongErrorFitsColumn(t *testing.T) {
	msgs, err := PlanRun(7, welcome, time.Now(), "5511987654321", []string{"a", "b", "c"})
	require.NoError(t, err)

	m := msgs[0]
	m.MarkAttemptFailed(errors.New(strings.Repeat("número inválido ", 60)), nil, time.Now())
	assert.LessOrEqual(t, len(m.LastError()), maxLastErrorLength)
	assert.True(t, utf8.ValidString(m.LastError()))
}

func TestMessage_Reanchor(t *testing.T) {
	msgs, err := PlanRun(7, welcome, time.Now(), "5511987654321", []string{"a", "b", "c"})
	require.NoError(t, err)

	sentAt := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	msgs[0].MarkSent("wamid.1", sentAt)
	msgs[1].Reanchor(*msgs[0].CompletedAt())

	assert.Equal(t, sentAt.Add(24*time.Hour), msgs[1].SendAt())
	assert.Equal(t, "wamid.1", msgs[0].ProviderMessageID())
}
