package transcript

import "strings"

// Assemble converts raw timed segments into the requested output shape.
// Pure and order-preserving: no reordering, filtering, or language
// inference happens here.
func Assemble(segments []Segment, format Format) Result {
	switch format {
	case FormatLines:
		lines := make([]Segment, len(segments))
		for i, seg := range segments {
			lines[i] = Segment{
				Text:     strings.TrimSpace(seg.Text),
				Start:    seg.Start,
				Duration: seg.Duration,
			}
		}
		return Result{Format: FormatLines, Lines: lines}

	case FormatJSON:
		return Result{Format: FormatJSON, Segments: segments}

	default:
		var sb strings.Builder
		for _, seg := range segments {
			text := strings.TrimSpace(seg.Text)
			if text == "" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(text)
		}
		return Result{Format: FormatText, Text: sb.String()}
	}
}
