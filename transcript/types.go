package transcript

// Segment is one timed unit of raw transcript data as returned by the
// upstream service. Never mutated after decode.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Format selects the output shape of an assembled transcript.
type Format string

const (
	FormatText  Format = "text"
	FormatLines Format = "lines"
	FormatJSON  Format = "json"
)

// ParseFormat normalizes a user-supplied format string, defaulting to text.
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case FormatText, FormatLines, FormatJSON:
		return Format(s), true
	case "":
		return FormatText, true
	}
	return FormatText, false
}

// Request describes one transcript fetch. Read-only for the duration of
// the call.
type Request struct {
	Input      string
	Language   string
	MaxRetries int
	Format     Format
}

// Result is the assembled transcript in the requested shape. Exactly one
// of the fields is populated, matching Format.
type Result struct {
	Format   Format    `json:"format"`
	Text     string    `json:"text,omitempty"`
	Lines    []Segment `json:"lines,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
}
