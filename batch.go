package calculator

import "strings"

// BatchEntry is the outcome of one segment of a batch. Exactly one of Result
// and Err is non-nil.
type BatchEntry struct {
	// Index is the segment's 0-based position in the batch.
	Index int
	// Source is the trimmed segment text.
	Source string
	Result *Result
	Err    error
}

// RunBatch splits text at each top-level ; and calculates each non-empty
// segment independently. The error is non-nil only if the batch as a whole is
// invalid: it has no segments, or it is too long. Errors in individual
// segments are recorded in their entries.
func RunBatch(text, variable string, opts ...ParseOption) ([]BatchEntry, error) {
	p := newparsectx(opts)
	if err := p.checklen(text); err != nil {
		return nil, err
	}
	var segs []string
	for _, s := range splitTopLevel(text, ';') {
		if s = strings.TrimSpace(s); s != "" {
			segs = append(segs, s)
		}
	}
	return RunSegments(segs, variable, opts...)
}

// RunSegments calculates each of segs independently, as a batch that has
// already been split. If any segment is itself a batch, the result is a
// *ClassificationError and no segment is calculated.
func RunSegments(segs []string, variable string, opts ...ParseOption) ([]BatchEntry, error) {
	if len(segs) == 0 {
		return nil, &ClassificationError{Kind: EmptyBatch}
	}
	if variable == "" {
		variable = "x"
	}
	kinds := make([]Kind, len(segs))
	errs := make([]error, len(segs))
	for i, s := range segs {
		kinds[i], errs[i] = Classify(s)
		if kinds[i] == KindBatch {
			return nil, &ClassificationError{Kind: NestedBatch, Segment: s}
		}
	}
	r := make([]BatchEntry, len(segs))
	for i, s := range segs {
		s = strings.TrimSpace(s)
		r[i] = BatchEntry{Index: i, Source: s}
		if errs[i] != nil {
			r[i].Err = errs[i]
			continue
		}
		r[i].Result, r[i].Err = calculateOne(s, kinds[i], variable, opts)
	}
	return r, nil
}
