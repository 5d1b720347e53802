package model

// maxComposite caps the composite so a single viral outlier cannot dominate
// per-label averages.
const maxComposite = 10000

// Composite folds raw engagement into the ground-truth score recorded
// against a post: likes plus double-weighted retweets, capped. Monotonic
// non-decreasing in both inputs.
func Composite(likes, retweets int) int {
	c := likes + 2*retweets
	if c > maxComposite {
		c = maxComposite
	}
	return c
}
