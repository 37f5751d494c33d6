package execution

import "wct/internal/domain"

// Classify compares an invocation result against an expected exit code.
// Only an exact exit code match passes; execution failures always fail.
func Classify(expected int, result domain.InvocationResult) domain.Verdict {
	if result.Kind == domain.Exited && result.ExitCode == expected {
		return domain.Pass
	}
	return domain.Fail
}
