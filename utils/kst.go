package utils

import "time"

// KST is the fixed zone used for all site-facing timestamps. A fixed offset
// avoids a tzdata dependency on the CI runners.
var KST = time.FixedZone("KST", 9*60*60)

// NowKST returns the current time in KST.
func NowKST() time.Time {
	return time.Now().In(KST)
}
