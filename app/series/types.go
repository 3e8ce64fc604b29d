package series

// Record is one accepted data point: Unix seconds and a finite value.
type Record struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// Series is an ordered run of records with strictly increasing timestamps.
type Series struct {
	Name    string   `json:"name"`
	Records []Record `json:"records"`
}

// Len returns the number of records.
func (s *Series) Len() int {
	return len(s.Records)
}

// First returns the earliest timestamp. The series must not be empty.
func (s *Series) First() int64 {
	return s.Records[0].Timestamp
}

// Last returns the latest timestamp. The series must not be empty.
func (s *Series) Last() int64 {
	return s.Records[len(s.Records)-1].Timestamp
}

// Input is the raw text of one source, one record per line.
type Input struct {
	Name  string
	Lines []string
}

// Window limits accepted timestamps to [Min, Max]; an unset side is open.
type Window struct {
	HasMin bool
	Min    int64
	HasMax bool
	Max    int64
}

// Contains reports whether ts lies inside the window, bounds included.
func (w Window) Contains(ts int64) bool {
	if w.HasMin && ts < w.Min {
		return false
	}
	if w.HasMax && ts > w.Max {
		return false
	}
	return true
}

// Outcome classifies how a line was handled.
type Outcome int

const (
	Accepted Outcome = iota
	Blank
	InvalidTimestamp
	InvalidValue
	OutOfRange
	OutOfOrder
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Blank:
		return "blank"
	case InvalidTimestamp:
		return "invalid_timestamp"
	case InvalidValue:
		return "invalid_value"
	case OutOfRange:
		return "out_of_range"
	case OutOfOrder:
		return "out_of_order"
	default:
		return "unknown"
	}
}
