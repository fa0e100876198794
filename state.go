package jobswarm

// State is the lifecycle position of a submitted job.
//
//	Pending ──► Running ──► Completed
//	   │           └──────► Failed
//	   └──────────────────► Cancelled
//
// There is no transition from Running to Cancelled: once a worker has
// started Process, the job always runs to the end.
type State int32

const (
	Pending State = iota
	Running
	Completed
	Cancelled
	Failed
)

// Terminal reports whether the job has been resolved and awaits its callback.
func (s State) Terminal() bool {
	return s == Completed || s == Cancelled || s == Failed
}

func (s State) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Running:
		return "Running"
	case Completed:
		return "Completed"
	case Cancelled:
		return "Cancelled"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}
