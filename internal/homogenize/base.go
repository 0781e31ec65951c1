package homogenize

import "regexp"

type baseRule struct {
	re   *regexp.Regexp
	repl string
}

// baseRules is the fixed vocabulary shipped with the tool. Order
// matters: variant rules run before the catch-all normalizers so that
// multiple spellings converge on one key. Not user-editable.
var baseRules = []baseRule{
	{regexp.MustCompile(`\b(pol|plcy|polcy)_?(no|num|nbr|id)\b`), "policy_number"},
	{regexp.MustCompile(`\bpolicy_?(no|num|nbr)\b`), "policy_number"},
	{regexp.MustCompile(`\b(clm|claim)_?(no|num|nbr|id)\b`), "claim_number"},
	{regexp.MustCompile(`\b(acct|account)_?(no|num|nbr|id)\b`), "account_id"},
	{regexp.MustCompile(`\b(dol|loss_dt|date_of_loss)\b`), "loss_date"},
	{regexp.MustCompile(`\b(rpt|report)_?(dt|date)\b`), "report_date"},
	{regexp.MustCompile(`\b(eff|effective)_?(dt|date)\b`), "effective_date"},
	{regexp.MustCompile(`\b(exp|expiry|expiration)_?(dt|date)\b`), "expiration_date"},
	{regexp.MustCompile(`\b(insd|insured)_?(nm|name)\b`), "insured_name"},
	{regexp.MustCompile(`\b(prem|premium)_(amt|amount)\b`), "premium_amount"},
}

// BaseHomogenize applies the fixed rule table to a canonical key. Later
// rules see the output of earlier ones.
func BaseHomogenize(key string) string {
	out := key
	for _, r := range baseRules {
		out = r.re.ReplaceAllString(out, r.repl)
	}
	return collapseKey(out)
}
