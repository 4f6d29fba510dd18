package numtheory

// ─────────────────────────────────────────────────────────────────────────────
// Algorithm Tuning Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// DefaultPrimalityRounds is the number of Miller-Rabin rounds per
	// probable-prime test. The false-positive probability of a composite
	// passing is at most 4^-rounds.
	DefaultPrimalityRounds = 20

	// DefaultMaxRhoIterations bounds the total number of tortoise/hare rounds
	// Pollard's rho may spend on one integer, summed over all restarts.
	DefaultMaxRhoIterations = 10_000

	// DefaultRhoConstantMax is the upper bound of the increment constant c in
	// the iteration map x -> x² + c (mod n). c is drawn from [1, max].
	DefaultRhoConstantMax = 100

	// DefaultTrialDivisionLimit is the largest prime tried by the trial
	// division pass that runs before Pollard's rho. Factors below this bound
	// are far cheaper to strip by division than by a rho walk.
	DefaultTrialDivisionLimit = 1000

	// MaxTrialDivisionLimit caps the sieve behind trial division. Larger
	// limits are clamped.
	MaxTrialDivisionLimit = 1 << 24
)

// Options configures an Engine. Zero values of PrimalityRounds,
// MaxRhoIterations and RhoConstantMax select their defaults; a zero
// TrialDivisionLimit disables trial division.
type Options struct {
	PrimalityRounds    int
	MaxRhoIterations   int
	RhoConstantMax     int64
	TrialDivisionLimit uint64
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		PrimalityRounds:    DefaultPrimalityRounds,
		MaxRhoIterations:   DefaultMaxRhoIterations,
		RhoConstantMax:     DefaultRhoConstantMax,
		TrialDivisionLimit: DefaultTrialDivisionLimit,
	}
}

func (o Options) normalize() Options {
	if o.PrimalityRounds <= 0 {
		o.PrimalityRounds = DefaultPrimalityRounds
	}
	if o.MaxRhoIterations <= 0 {
		o.MaxRhoIterations = DefaultMaxRhoIterations
	}
	if o.RhoConstantMax <= 0 {
		o.RhoConstantMax = DefaultRhoConstantMax
	}
	o.TrialDivisionLimit = min(o.TrialDivisionLimit, MaxTrialDivisionLimit)
	return o
}
