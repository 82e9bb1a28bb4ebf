package readpref

// Mode specifies which members of a deployment are eligible to serve a
// read.
type Mode uint8

const (
	// PrimaryMode routes reads to the primary only. This is the
	// default.
	PrimaryMode Mode = iota
	// PrimaryPreferredMode routes reads to the primary when it is
	// available and to an eligible secondary otherwise.
	PrimaryPreferredMode
	// SecondaryMode routes reads to secondaries only.
	SecondaryMode
	// SecondaryPreferredMode routes reads to an eligible secondary when
	// one is available and to the primary otherwise.
	SecondaryPreferredMode
	// NearestMode routes reads to any member, primary or secondary.
	NearestMode
)
