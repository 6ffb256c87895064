package domain

// WordCategory is a named topic: a flat word list for random mode plus
// relative pairs (semantically close word pairs) for relative mode. The
// commercial flags drive shop visibility, not gameplay.
type WordCategory struct {
	ID            int
	Name          string
	Words         []string
	RelativePairs [][2]string
	Price         int
	IsFree        bool
	IsDailyOffer  bool
	IsWeeklyGuest bool
	IsLimitedTime bool
}
