package genparse

// Stats counts what a parse session did. It is cheap to maintain and is
// reported by the CLI with --stats.
type Stats struct {
	Sections          int
	Backtracks        int
	MaxLevel          int
	VariantsRecorded  int
	VariantsEvicted   int
	VariantsAllocated int
	FramesAllocated   int
	HooksRun          int
	ErrorsReported    int
}
