package health

import "time"

// LatestMap holds the most recent sample timestamp per kind. Kinds a
// payload did not report are absent.
type LatestMap map[Kind]time.Time

// LatestPerKind computes the latest timestamp of every kind present in
// one payload. The per-kind reduction is a left fold with a
// strictly-newer comparison, so the first-seen value wins on exact
// ties.
func LatestPerKind(payload IngestPayload, now time.Time) LatestMap {
	fallback := ResolvePayloadTimestamp(payload, now)

	latest := make(LatestMap)
	for _, kind := range payload.Kinds() {
		for _, sample := range payload.SamplesFor(kind) {
			ts, _ := ResolveTimestamp(sample, kind, fallback, now)
			current, seen := latest[kind]
			if !seen || ts.After(current) {
				latest[kind] = ts
			}
		}
	}
	return latest
}

// MergeLatest folds src into dst, keeping the chronological maximum
// per kind. A source that omits a kind never erases a value already
// present in dst.
func MergeLatest(dst, src LatestMap) LatestMap {
	if dst == nil {
		dst = make(LatestMap, len(src))
	}
	for kind, ts := range src {
		current, seen := dst[kind]
		if !seen || ts.After(current) {
			dst[kind] = ts
		}
	}
	return dst
}
