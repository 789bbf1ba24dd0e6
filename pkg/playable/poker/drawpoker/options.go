package drawpoker

import "errors"

// Options configures how a round is played
type Options struct {
	Ante           int
	StartingSanity int
	MaxDiscards    int
	RevealOnFold   bool
	// Seed makes every deck reproducible when non-zero
	Seed int64
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Ante:           10,
		StartingSanity: 100,
		MaxDiscards:    3,
		RevealOnFold:   true,
	}
}

func validateOptions(opts Options) error {
	if opts.Ante <= 0 {
		return errors.New("ante must be > 0")
	}

	if opts.StartingSanity < opts.Ante {
		return errors.New("starting sanity must cover the ante")
	}

	if opts.MaxDiscards < 0 || opts.MaxDiscards > handSize {
		return errors.New("max discards must be between 0 and 5")
	}

	return nil
}
