package template

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRenderUnknownTokensPassThrough(t *testing.T) {
	in := `{"foo": "{{notAToken}}", "bar": 1}`
	require.Equal(t, in, Render(in, 1))
}

func TestRenderIteration(t *testing.T) {
	out := Render(`{"n": {{iteration}}}`, 7)
	require.Equal(t, `{"n": 7}`, out)
}

func TestRenderDeterministicTokensMatchAcrossCalls(t *testing.T) {
	a := Render("{{iteration}}", 42)
	b := Render("{{iteration}}", 42)
	require.Equal(t, a, b)
}

func TestRenderSubstitutesAllKnownTokens(t *testing.T) {
	tokens := []string{
		"{{iteration}}", "{{timestamp}}", "{{timestampIso}}", "{{randomInt}}",
		"{{amount}}", "{{nationalId}}", "{{accountNumber}}", "{{iban}}",
		"{{userId}}", "{{profile}}", "{{activity}}", "{{senderName}}",
		"{{receiverName}}", "{{comment}}", "{{activityCode}}", "{{channel}}",
		"{{bankCode}}", "{{transactionDate}}", "{{amountScoreFlag}}",
		"{{zScoreFlag}}", "{{highAmount}}", "{{newActivityCode}}",
		"{{newAccountFrom}}", "{{newAccountTo}}", "{{outsideUsualDay}}",
		"{{wlFromAccount}}", "{{wlFromName}}", "{{wlToAccount}}",
		"{{wlToName}}", "{{wlToBank}}", "{{wlIp}}",
	}
	out := Render(strings.Join(tokens, "|"), 3)
	require.NotContains(t, out, "{{")
	require.NotContains(t, out, "}}")
	for _, part := range strings.Split(out, "|") {
		require.NotEmpty(t, part)
	}
}

func TestRenderFlagsAreYesNo(t *testing.T) {
	for i := 0; i < 50; i++ {
		out := Render("{{highAmount}}", 1)
		require.Contains(t, []string{"Yes", "No"}, out)
	}
}

func TestRenderTransactionDateWithinTrailingMonth(t *testing.T) {
	out := Render("{{transactionDate}}", 1)
	ts, err := time.Parse(time.RFC3339, out)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.True(t, ts.Before(now.Add(time.Minute)))
	require.True(t, ts.After(now.Add(-30*24*time.Hour-time.Minute)))
}

func TestRenderDigitsShape(t *testing.T) {
	out := Render("{{nationalId}}", 1)
	require.Len(t, out, 11)
	for _, c := range out {
		require.True(t, c >= '0' && c <= '9')
	}

	require.True(t, strings.HasPrefix(Render("{{iban}}", 1), "FI"))
}
