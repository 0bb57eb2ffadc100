// Package template renders scenario body templates into concrete payloads.
//
// Substitution is purely textual: known {{token}} placeholders are replaced,
// everything else passes through unchanged. Apart from {{iteration}} and the
// two timestamp tokens, every token draws fresh randomness on each call;
// varied traffic is the point, so values are never cached across calls.
package template

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Probability of each "Yes" answer for the risk-context flags.
const (
	pAmountScore     = 0.15
	pZScore          = 0.15
	pHighAmount      = 0.10
	pNewActivityCode = 0.20
	pNewAccountFrom  = 0.20
	pNewAccountTo    = 0.20
	pOutsideUsualDay = 0.25
)

// Probability of each "Yes" answer for the watchlist indicator flags.
const pWatchlist = 0.05

// Render substitutes all known tokens in tmpl for the given 1-based
// iteration. Tokens:
//
//	{{iteration}}        iteration number
//	{{timestamp}}        current UTC time, human-readable
//	{{timestampIso}}     current UTC time, RFC3339Nano
//	{{randomInt}}        integer in [1,100)
//	{{amount}}           monetary amount in [1.00, 10000.00)
//	{{nationalId}}       synthetic 11-digit national ID
//	{{accountNumber}}    synthetic 14-digit account number
//	{{iban}}             synthetic IBAN-style string
//	{{userId}}           random UUID
//	{{profile}} {{activity}} {{senderName}} {{receiverName}} {{comment}}
//	{{activityCode}} {{channel}} {{bankCode}}
//	{{transactionDate}}  RFC3339 datetime within the trailing 30 days
//	{{amountScoreFlag}} {{zScoreFlag}} {{highAmount}} {{newActivityCode}}
//	{{newAccountFrom}} {{newAccountTo}} {{outsideUsualDay}}   "Yes"/"No"
//	{{wlFromAccount}} {{wlFromName}} {{wlToAccount}} {{wlToName}}
//	{{wlToBank}} {{wlIp}}                                     "Yes"/"No"
func Render(tmpl string, iteration int) string {
	now := time.Now().UTC()

	r := strings.NewReplacer(
		"{{iteration}}", strconv.Itoa(iteration),
		"{{timestamp}}", now.Format("02 Jan 2006 15:04:05"),
		"{{timestampIso}}", now.Format(time.RFC3339Nano),
		"{{randomInt}}", strconv.Itoa(1+rand.Intn(99)),
		"{{amount}}", fmt.Sprintf("%.2f", 1+rand.Float64()*9999),
		"{{nationalId}}", digits(11),
		"{{accountNumber}}", digits(14),
		"{{iban}}", "FI"+digits(16),
		"{{userId}}", uuid.NewString(),
		"{{profile}}", pick(profiles),
		"{{activity}}", pick(activities),
		"{{senderName}}", pick(senderNames),
		"{{receiverName}}", pick(receiverNames),
		"{{comment}}", pick(comments),
		"{{activityCode}}", pick(activityCodes),
		"{{channel}}", pick(channels),
		"{{bankCode}}", pick(bankCodes),
		"{{transactionDate}}", recentDate(now).Format(time.RFC3339),
		"{{amountScoreFlag}}", yesNo(pAmountScore),
		"{{zScoreFlag}}", yesNo(pZScore),
		"{{highAmount}}", yesNo(pHighAmount),
		"{{newActivityCode}}", yesNo(pNewActivityCode),
		"{{newAccountFrom}}", yesNo(pNewAccountFrom),
		"{{newAccountTo}}", yesNo(pNewAccountTo),
		"{{outsideUsualDay}}", yesNo(pOutsideUsualDay),
		"{{wlFromAccount}}", yesNo(pWatchlist),
		"{{wlFromName}}", yesNo(pWatchlist),
		"{{wlToAccount}}", yesNo(pWatchlist),
		"{{wlToName}}", yesNo(pWatchlist),
		"{{wlToBank}}", yesNo(pWatchlist),
		"{{wlIp}}", yesNo(pWatchlist),
	)
	return r.Replace(tmpl)
}

func pick(pool []string) string { return pool[rand.Intn(len(pool))] }

func digits(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + rand.Intn(10)))
	}
	return b.String()
}

func yesNo(p float64) string {
	if rand.Float64() < p {
		return "Yes"
	}
	return "No"
}

// recentDate returns a random instant within the trailing 30 days.
func recentDate(now time.Time) time.Time {
	back := time.Duration(rand.Int63n(int64(30 * 24 * time.Hour)))
	return now.Add(-back)
}
