package forcefield

// MinZeroLength is the floor applied to automatically captured zero lengths.
const MinZeroLength = 1e-9

// Latch tracks whether a spring's zero length has been captured.
type Latch uint8

const (
	// Uncaptured springs take their current length as zero length on the next evaluation.
	Uncaptured Latch = iota
	// Captured springs keep their zero length.
	Captured
)

func (l Latch) String() string {
	if l == Captured {
		return "captured"
	}
	return "uncaptured"
}
