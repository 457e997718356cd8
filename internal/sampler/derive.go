package sampler

import (
	"math"
	"strconv"

	"codeberg.org/mutker/mysqlstatus/internal/model"
)

// QueriesPerSecond returns the query rate between prev and cur. Without a
// previous snapshot it falls back to the lifetime average of cur. Missing
// counters and a zero elapsed time yield 0.
func QueriesPerSecond(cur, prev *model.StatusSnapshot) float64 {
	if cur == nil {
		return 0
	}

	curUptime, ok1 := counter(cur, model.KeyUptime)
	curQuestions, ok2 := counter(cur, model.KeyQuestions)
	if !ok1 || !ok2 {
		return 0
	}

	if prev == nil {
		return ratio(curQuestions, curUptime)
	}

	prevUptime, ok1 := counter(prev, model.KeyUptime)
	prevQuestions, ok2 := counter(prev, model.KeyQuestions)
	if !ok1 || !ok2 {
		return 0
	}

	// Both differences are taken previous minus current, so the signs cancel.
	return ratio(prevQuestions-curQuestions, prevUptime-curUptime)
}

// BufferHitRatio returns the percentage of buffer pool read requests that
// did not go to disk.
func BufferHitRatio(cur *model.StatusSnapshot) float64 {
	if cur == nil {
		return 0
	}

	requests, ok1 := counter(cur, model.KeyBufferReadRequests)
	reads, ok2 := counter(cur, model.KeyBufferReads)
	if !ok1 || !ok2 {
		return 0
	}

	return ratio(requests, requests+reads) * 100
}

// Derive merges QPS and Buffer_hit into cur. The raw buffer pool counters
// are kept.
func Derive(cur, prev *model.StatusSnapshot) (qps, bufferHit float64) {
	qps = QueriesPerSecond(cur, prev)
	bufferHit = BufferHitRatio(cur)

	if cur != nil && cur.Values != nil {
		cur.Values[model.KeyQPS] = formatMetric(qps)
		cur.Values[model.KeyBufferHit] = formatMetric(bufferHit)
	}

	return qps, bufferHit
}

func counter(s *model.StatusSnapshot, name string) (float64, bool) {
	raw, ok := s.Values[name]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}

	return r
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
