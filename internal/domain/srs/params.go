package srs

// Params holds the weights used to order a review session.
type Params struct {
	// RecentEasyWeight puts cards rated Easy since the deck was last opened
	// in front, so a fresh "easy" is confirmed once more.
	RecentEasyWeight int
	// UnratedWeight is given to cards that were never rated.
	UnratedWeight int
	// AgeBuckets splits the age span of the deck for the remaining cards,
	// which are weighted by rating plus age bucket.
	AgeBuckets int
}

// ParamsConfig overrides the defaults; non-positive values keep them.
type ParamsConfig struct {
	RecentEasyWeight int
	UnratedWeight    int
	AgeBuckets       int
}

// NewDefaultParams returns the standard weights.
func NewDefaultParams() *Params {
	return &Params{
		RecentEasyWeight: 1_000_000,
		UnratedWeight:    100_000,
		AgeBuckets:       4,
	}
}

// NewParams applies config on top of the defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.RecentEasyWeight > 0 {
		params.RecentEasyWeight = config.RecentEasyWeight
	}
	if config.UnratedWeight > 0 {
		params.UnratedWeight = config.UnratedWeight
	}
	if config.AgeBuckets > 0 {
		params.AgeBuckets = config.AgeBuckets
	}

	return params
}
