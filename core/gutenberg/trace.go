package gutenberg

// EventKind identifies a diagnostic emitted while parsing.
type EventKind int

// Event kinds.
const (
	EventBookAccepted EventKind = iota
	EventBookReencountered
	EventBookSuppressed
	EventBookDropped
	EventChapterOpened
	EventChapterDropped
	EventVerseOpened
	EventLineDropped
	EventDivision
	EventContentsOpened
	EventContentsEntry
	EventBodyStarted
	EventBodyEnded

	numEventKinds
)

var eventKindNames = [numEventKinds]string{
	EventBookAccepted:      "book_accepted",
	EventBookReencountered: "book_reencountered",
	EventBookSuppressed:    "book_suppressed",
	EventBookDropped:       "book_dropped",
	EventChapterOpened:     "chapter_opened",
	EventChapterDropped:    "chapter_dropped",
	EventVerseOpened:       "verse_opened",
	EventLineDropped:       "line_dropped",
	EventDivision:          "division",
	EventContentsOpened:    "contents_opened",
	EventContentsEntry:     "contents_entry",
	EventBodyStarted:       "body_started",
	EventBodyEnded:         "body_ended",
}

func (k EventKind) String() string {
	if k >= 0 && k < numEventKinds {
		return eventKindNames[k]
	}
	return "unknown"
}

// Event describes one state transition or dropped line.
type Event struct {
	Kind EventKind

	// Line is the 1-based line number in the input.
	Line int

	// Text is the trimmed source line.
	Text string

	Book    string
	Chapter string
	Verse   string

	// Reason explains suppressed books and dropped lines.
	Reason string
}

// Tracer receives parse diagnostics. Implementations must not retain the
// assembler or call back into it.
type Tracer interface {
	Trace(Event)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(Event)

// Trace implements Tracer.
func (f TracerFunc) Trace(e Event) { f(e) }

// MultiTracer fans events out to every non-nil tracer.
func MultiTracer(tracers ...Tracer) Tracer {
	var ts []Tracer
	for _, t := range tracers {
		if t != nil {
			ts = append(ts, t)
		}
	}
	return multiTracer(ts)
}

type multiTracer []Tracer

func (m multiTracer) Trace(e Event) {
	for _, t := range m {
		t.Trace(e)
	}
}

// Stats counts events by kind and remembers which books were suppressed.
type Stats struct {
	counts     [numEventKinds]int
	Suppressed []Event
}

// Trace implements Tracer.
func (s *Stats) Trace(e Event) {
	if e.Kind >= 0 && e.Kind < numEventKinds {
		s.counts[e.Kind]++
	}
	if e.Kind == EventBookSuppressed {
		s.Suppressed = append(s.Suppressed, e)
	}
}

// Count returns how many events of kind k were seen.
func (s *Stats) Count(k EventKind) int {
	if k < 0 || k >= numEventKinds {
		return 0
	}
	return s.counts[k]
}

// Counts returns the non-zero counts keyed by event name.
func (s *Stats) Counts() map[string]int {
	out := make(map[string]int)
	for k, n := range s.counts {
		if n > 0 {
			out[EventKind(k).String()] = n
		}
	}
	return out
}
