package pipeline

// HotEvent describes an engagement jump between two observations of the
// same URL.
type HotEvent struct {
	Old   int `json:"old"`
	New   int `json:"new"`
	Delta int `json:"delta"`
}

// DetectJump returns a HotEvent when current engagement has grown to at
// least threshold times the previous observation (inclusive). A zero or
// negative previous value never produces an event.
func DetectJump(old, current int, threshold float64) *HotEvent {
	if old <= 0 {
		return nil
	}
	if float64(current) < float64(old)*threshold {
		return nil
	}
	return &HotEvent{Old: old, New: current, Delta: current - old}
}
