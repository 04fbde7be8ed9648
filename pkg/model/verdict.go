package model

// Verdict is the discrete trading recommendation derived from the
// composite score.
type Verdict string

const (
	VerdictStrongBuy  Verdict = "STRONG BUY"
	VerdictBuy        Verdict = "BUY"
	VerdictHold       Verdict = "HOLD"
	VerdictAvoid      Verdict = "AVOID"
	VerdictStrongSell Verdict = "STRONG SELL"

	// VerdictRelWeakness is the kill-switch verdict. It overrides the
	// score bands whenever relative weakness disqualifies the ticker.
	VerdictRelWeakness Verdict = "AVOID (Rel. Weakness)"
)
