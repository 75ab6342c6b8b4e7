package domain

// Stream identifies one output collection.
type Stream int

const (
	StreamJSONLD Stream = iota
	StreamGeo
	StreamGeoRegion
	StreamHTML
	StreamCalendar

	streamCount
)

var streamNames = [streamCount]string{
	StreamJSONLD:    "jsonld",
	StreamGeo:       "geo",
	StreamGeoRegion: "geo-region",
	StreamHTML:      "html",
	StreamCalendar:  "calendar",
}

func (s Stream) String() string {
	if s < 0 || s >= streamCount {
		return "unknown"
	}
	return streamNames[s]
}

// AllStreams lists every stream in declaration order.
func AllStreams() []Stream {
	out := make([]Stream, 0, streamCount)
	for s := Stream(0); s < streamCount; s++ {
		out = append(out, s)
	}
	return out
}

// Streams is the inclusion table. Records reaching it are already active;
// the source filters on active = true.
//
// The HTML listing keeps cancelled levees (they are marked in the row) while
// every machine-readable artifact drops them.
var Streams = [streamCount]func(Levee) bool{
	StreamJSONLD:    notCancelled,
	StreamGeo:       notCancelled,
	StreamGeoRegion: func(l Levee) bool { return !l.Cancelled && l.InRegionOfInterest },
	StreamHTML:      func(Levee) bool { return true },
	StreamCalendar:  notCancelled,
}

func notCancelled(l Levee) bool { return !l.Cancelled }

// Admission records, per stream, whether a levee was admitted and at which
// 1-based position. Zero means not admitted.
type Admission struct {
	index [streamCount]int
}

// In reports whether the levee was admitted to s.
func (a Admission) In(s Stream) bool {
	return a.Index(s) > 0
}

// Index returns the levee's 1-based position in s, or 0.
func (a Admission) Index(s Stream) int {
	if s < 0 || s >= streamCount {
		return 0
	}
	return a.index[s]
}

// Indexer owns one counter per stream. Counters only advance when a levee is
// admitted to that stream and never reset during a run.
type Indexer struct {
	count [streamCount]int
}

// NewIndexer returns an Indexer with every counter at zero.
func NewIndexer() *Indexer {
	return &Indexer{}
}

// Admit evaluates the inclusion table for l and assigns the next index in
// every stream that admits it.
func (x *Indexer) Admit(l Levee) Admission {
	var a Admission
	for s, admits := range Streams {
		if !admits(l) {
			continue
		}
		x.count[s]++
		a.index[s] = x.count[s]
	}
	return a
}

// Count returns how many levees s has admitted so far.
func (x *Indexer) Count(s Stream) int {
	if s < 0 || s >= streamCount {
		return 0
	}
	return x.count[s]
}
