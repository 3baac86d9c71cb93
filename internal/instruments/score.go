package instruments

import "sort"

// ValidateAnswer checks a single raw answer against the instrument's bank.
// Boundaries (tool handlers, HTTP handlers) call this before accepting an
// update; the scorer applies the same check and never clamps.
func ValidateAnswer(in *Instrument, itemID string, value int) error {
	if _, ok := in.Item(itemID); !ok {
		return &AnswerError{Instrument: in.ID, ItemID: itemID, Value: value, Min: in.ScaleMin, Max: in.ScaleMax, Err: ErrUnknownItem}
	}
	if value < in.ScaleMin || value > in.ScaleMax {
		return &AnswerError{Instrument: in.ID, ItemID: itemID, Value: value, Min: in.ScaleMin, Max: in.ScaleMax, Err: ErrOutOfRange}
	}
	return nil
}

// Reverse applies the reverse-coding transform (max + 1) - raw.
func Reverse(in *Instrument, raw int) int {
	return in.ScaleMax + 1 - raw
}

// Score maps an AnswerSet to per-tag means.
//
// Reverse-flagged items are transformed before averaging. A tag with no
// answered items receives the instrument's neutral default, so partial and
// empty answer sets always produce a usable score. Answers outside the
// scale or for unknown items are rejected with an *AnswerError.
func Score(in *Instrument, answers AnswerSet) (Result, error) {
	// Validate in sorted order so the reported error is deterministic.
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := ValidateAnswer(in, id, answers[id]); err != nil {
			return Result{}, err
		}
	}

	sums := make(map[Tag]int, len(in.Tags))
	counts := make(map[Tag]int, len(in.Tags))
	total, answered := 0, 0

	for _, it := range in.Items {
		raw, ok := answers[it.ID]
		if !ok {
			continue
		}
		v := raw
		if it.Reverse {
			v = Reverse(in, raw)
		}
		sums[it.Tag] += v
		counts[it.Tag]++
		total += v
		answered++
	}

	res := Result{
		Instrument: in.ID,
		Subscales:  make(map[Tag]float64, len(in.Tags)),
		Overall:    in.Neutral,
		Answered:   answered,
		Total:      len(in.Items),
	}
	for _, t := range in.Tags {
		if counts[t] == 0 {
			res.Subscales[t] = in.Neutral
			res.Defaulted = append(res.Defaulted, t)
			continue
		}
		res.Subscales[t] = float64(sums[t]) / float64(counts[t])
	}
	if answered > 0 {
		res.Overall = float64(total) / float64(answered)
	}

	return res, nil
}
