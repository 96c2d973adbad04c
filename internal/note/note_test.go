package note

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/deathnote/internal/testutil"
)

const (
	daniloPianini = "Danilo Pianini"
	lightYagami   = "Light Yagami"
)

// newTestNote returns a note driven by a manual clock reading 0.
func newTestNote(t *testing.T) (*Note, *testutil.ManualClock) {
	t.Helper()
	clock := testutil.NewManualClock(0)
	return New(WithClock(clock)), clock
}

// requireNonBlankMessage checks the error carries a usable message.
func requireNonBlankMessage(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var ne *Error
	require.ErrorAs(t, err, &ne)
	assert.NotEmpty(t, strings.TrimSpace(ne.Message))
}

func TestNote_GetRule_OutOfRange(t *testing.T) {
	n := New()
	for _, index := range []int{-1, 0, n.Rulebook().Len() + 1} {
		t.Run(fmt.Sprintf("index=%d", index), func(t *testing.T) {
			_, err := n.GetRule(index)
			assert.True(t, IsInvalidArgument(err), "got %v", err)
			requireNonBlankMessage(t, err)
		})
	}
}

func TestNote_GetRule_AllRulesNonBlank(t *testing.T) {
	n := New()
	for i := 1; i <= n.Rulebook().Len(); i++ {
		rule, err := n.GetRule(i)
		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(rule), "rule %d is blank", i)
	}
}

func TestNote_WriteName(t *testing.T) {
	n, _ := newTestNote(t)

	assert.False(t, n.IsNameWritten(daniloPianini))
	require.NoError(t, n.WriteName(daniloPianini))
	assert.True(t, n.IsNameWritten(daniloPianini))
	assert.False(t, n.IsNameWritten(lightYagami))
	assert.False(t, n.IsNameWritten(""))
}

func TestNote_WriteName_Empty(t *testing.T) {
	n, _ := newTestNote(t)

	err := n.WriteName("")
	assert.True(t, IsInvalidArgument(err))
	requireNonBlankMessage(t, err)

	_, ok := n.Last()
	assert.False(t, ok, "failed write must not move the cursor")
	assert.Empty(t, n.Names())
}

func TestNote_WriteName_Defaults(t *testing.T) {
	n, _ := newTestNote(t)
	require.NoError(t, n.WriteName(lightYagami))

	cause, err := n.DeathCause(lightYagami)
	require.NoError(t, err)
	assert.Equal(t, "heart attack", cause)

	details, err := n.DeathDetails(lightYagami)
	require.NoError(t, err)
	assert.Equal(t, "", details)
}

func TestNote_AmendBeforeAnyWrite(t *testing.T) {
	n, _ := newTestNote(t)

	_, err := n.WriteDeathCause("spontaneous combustion")
	assert.True(t, IsInvalidState(err), "got %v", err)
	requireNonBlankMessage(t, err)

	_, err = n.WriteDetails(lightYagami)
	assert.True(t, IsInvalidState(err), "got %v", err)
	requireNonBlankMessage(t, err)
}

func TestNote_QueryNeverWritten(t *testing.T) {
	n, _ := newTestNote(t)
	require.NoError(t, n.WriteName(lightYagami))

	_, err := n.DeathCause(daniloPianini)
	assert.True(t, IsInvalidArgument(err))
	requireNonBlankMessage(t, err)

	_, err = n.DeathDetails(daniloPianini)
	assert.True(t, IsInvalidArgument(err))
	requireNonBlankMessage(t, err)
}

func TestNote_DeathCause_Scenario(t *testing.T) {
	n, clock := newTestNote(t)

	require.NoError(t, n.WriteName(lightYagami))
	cause, err := n.DeathCause(lightYagami)
	require.NoError(t, err)
	assert.Equal(t, "heart attack", cause)

	require.NoError(t, n.WriteName(daniloPianini))
	ok, err := n.WriteDeathCause("karting accident")
	require.NoError(t, err)
	assert.True(t, ok)

	cause, err = n.DeathCause(daniloPianini)
	require.NoError(t, err)
	assert.Equal(t, "karting accident", cause)

	clock.Advance(100 * time.Millisecond)
	ok, err = n.WriteDeathCause("Spontaneous human combustion")
	require.NoError(t, err)
	assert.False(t, ok)

	cause, err = n.DeathCause(daniloPianini)
	require.NoError(t, err)
	assert.Equal(t, "karting accident", cause)
}

func TestNote_DeathDetails_Scenario(t *testing.T) {
	n, clock := newTestNote(t)

	require.NoError(t, n.WriteName(lightYagami))
	details, err := n.DeathDetails(lightYagami)
	require.NoError(t, err)
	assert.Equal(t, "", details)

	ok, err := n.WriteDetails("ran for too long")
	require.NoError(t, err)
	assert.True(t, ok)

	details, err = n.DeathDetails(lightYagami)
	require.NoError(t, err)
	assert.Equal(t, "ran for too long", details)

	require.NoError(t, n.WriteName(daniloPianini))
	clock.Advance(6100 * time.Millisecond)
	ok, err = n.WriteDetails("wrote many tests before dying")
	require.NoError(t, err)
	assert.False(t, ok)

	details, err = n.DeathDetails(daniloPianini)
	require.NoError(t, err)
	assert.Equal(t, "", details)
}

func TestNote_WindowBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		amend   func(*Note) (bool, error)
		want    bool
	}{
		{"cause at 0ms", 0, func(n *Note) (bool, error) { return n.WriteDeathCause("x") }, true},
		{"cause at 39ms", 39 * time.Millisecond, func(n *Note) (bool, error) { return n.WriteDeathCause("x") }, true},
		{"cause at 40ms", 40 * time.Millisecond, func(n *Note) (bool, error) { return n.WriteDeathCause("x") }, false},
		{"details at 6039ms", 6039 * time.Millisecond, func(n *Note) (bool, error) { return n.WriteDetails("x") }, true},
		{"details at 6040ms", 6040 * time.Millisecond, func(n *Note) (bool, error) { return n.WriteDetails("x") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, clock := newTestNote(t)
			require.NoError(t, n.WriteName(lightYagami))
			clock.Advance(tt.elapsed)

			got, err := tt.amend(n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNote_RejectedAmendmentLeavesRecordUnchanged(t *testing.T) {
	n, clock := newTestNote(t)
	require.NoError(t, n.WriteName(lightYagami))
	before, err := n.Record(lightYagami)
	require.NoError(t, err)

	clock.Advance(CauseWindow)
	ok, err := n.WriteDeathCause("stroke")
	require.NoError(t, err)
	require.False(t, ok)

	after, err := n.Record(lightYagami)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestNote_AcceptedAmendmentRestartsWindow(t *testing.T) {
	n, clock := newTestNote(t)
	require.NoError(t, n.WriteName(lightYagami))

	clock.Advance(39 * time.Millisecond)
	ok, err := n.WriteDeathCause("stroke")
	require.NoError(t, err)
	require.True(t, ok)

	rec, err := n.Record(lightYagami)
	require.NoError(t, err)
	assert.Equal(t, int64(39), rec.CreatedAt())

	// 78ms after the name, 39ms after the amendment.
	clock.Advance(39 * time.Millisecond)
	ok, err = n.WriteDeathCause("drowning")
	require.NoError(t, err)
	assert.True(t, ok)

	clock.Advance(CauseWindow)
	ok, err = n.WriteDeathCause("falling piano")
	require.NoError(t, err)
	assert.False(t, ok)

	cause, err := n.DeathCause(lightYagami)
	require.NoError(t, err)
	assert.Equal(t, "drowning", cause)
}

func TestNote_AmendmentKeepsOtherField(t *testing.T) {
	n, _ := newTestNote(t)
	require.NoError(t, n.WriteName(lightYagami))

	ok, err := n.WriteDetails("in a warehouse")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = n.WriteDeathCause("gunshot")
	require.NoError(t, err)
	require.True(t, ok)

	rec, err := n.Record(lightYagami)
	require.NoError(t, err)
	assert.Equal(t, "gunshot", rec.Cause())
	assert.Equal(t, "in a warehouse", rec.Details())
}

func TestNote_AmendmentTargetsMostRecentName(t *testing.T) {
	n, _ := newTestNote(t)
	require.NoError(t, n.WriteName(lightYagami))
	require.NoError(t, n.WriteName(daniloPianini))

	ok, err := n.WriteDeathCause("karting accident")
	require.NoError(t, err)
	require.True(t, ok)

	cause, err := n.DeathCause(lightYagami)
	require.NoError(t, err)
	assert.Equal(t, DefaultCause, cause)

	last, ok := n.Last()
	assert.True(t, ok)
	assert.Equal(t, daniloPianini, last)
}

func TestNote_RewriteResetsRecordAndKeepsOrder(t *testing.T) {
	n, clock := newTestNote(t)
	require.NoError(t, n.WriteName(lightYagami))
	ok, err := n.WriteDeathCause("stroke")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, n.WriteName(daniloPianini))

	clock.Advance(time.Second)
	require.NoError(t, n.WriteName(lightYagami))

	rec, err := n.Record(lightYagami)
	require.NoError(t, err)
	assert.Equal(t, DefaultCause, rec.Cause())
	assert.Equal(t, int64(1000), rec.CreatedAt())
	assert.Equal(t, []string{lightYagami, daniloPianini}, n.Names())

	// Windows restart with the rewrite.
	ok, err = n.WriteDeathCause("heart failure")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNote_NamesIsACopy(t *testing.T) {
	n, _ := newTestNote(t)
	require.NoError(t, n.WriteName(lightYagami))

	names := n.Names()
	names[0] = "tampered"
	assert.Equal(t, []string{lightYagami}, n.Names())
}

func TestNote_WithRulebook(t *testing.T) {
	rb, err := NewRulebook("only rule")
	require.NoError(t, err)
	n := New(WithRulebook(rb))

	rule, err := n.GetRule(1)
	require.NoError(t, err)
	assert.Equal(t, "only rule", rule)

	_, err = n.GetRule(2)
	assert.True(t, IsInvalidArgument(err))
}

// TestNote_SystemClock_CauseWindow exercises the real clock with a sleep
// well past the cause window.
func TestNote_SystemClock_CauseWindow(t *testing.T) {
	n := New()
	require.NoError(t, n.WriteName(daniloPianini))
	ok, err := n.WriteDeathCause("karting accident")
	require.NoError(t, err)
	// Assumes the two calls above take less than 40ms.
	require.True(t, ok)

	time.Sleep(100 * time.Millisecond)
	ok, err = n.WriteDeathCause("Spontaneous human combustion")
	require.NoError(t, err)
	assert.False(t, ok)

	cause, err := n.DeathCause(daniloPianini)
	require.NoError(t, err)
	assert.Equal(t, "karting accident", cause)
}

func TestNote_SystemClock_DetailsWindow(t *testing.T) {
	if testing.Short() {
		t.Skip("sleeps past the 6040ms details window")
	}
	n := New()
	require.NoError(t, n.WriteName(daniloPianini))

	time.Sleep(6100 * time.Millisecond)
	ok, err := n.WriteDetails("wrote many tests before dying")
	require.NoError(t, err)
	assert.False(t, ok)

	details, err := n.DeathDetails(daniloPianini)
	require.NoError(t, err)
	assert.Equal(t, "", details)
}
