package exitcode

const (
	Success        = 0
	UsageError     = 1
	ExtractError   = 2
	DBConnError    = 3
	TransformError = 4
	LoadError      = 5
	PartialSuccess = 6
)
