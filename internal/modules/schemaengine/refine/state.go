package refine

type State int

const (
	StateStart State = iota
	StateLLMAttempt
	StateValidateRetry
	StateValidateOK
	StateLLMFailed
	StateDeterministicFallback
	StateDone
)

var stateNames = [...]string{
	StateStart:                 "start",
	StateLLMAttempt:            "llm_attempt",
	StateValidateRetry:         "validate_retry",
	StateValidateOK:            "validate_ok",
	StateLLMFailed:             "llm_failed",
	StateDeterministicFallback: "deterministic_fallback",
	StateDone:                  "done",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}
