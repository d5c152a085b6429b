package review

import (
	"github.com/dshills/ccw/internal/modes"
	"github.com/dshills/ccw/internal/providers"
)

const (
	criteriaLabel = "Here are the acceptance criteria: "
	codeLabel     = "Here is the code: "

	// baseContext is the headroom reserved for the reply.
	baseContext   = 4096
	bytesPerToken = 4
)

// Assemble builds the ordered message sequence for def. Instructional texts
// come first as system messages, then the criteria document, the question
// and finally the code body. It performs no I/O and always yields the same
// messages for the same inputs.
func Assemble(def modes.Definition, in Input) ([]providers.Message, error) {
	if def.RequiresQuestion && in.Question == "" {
		return nil, &UsageError{Mode: def.ID, Missing: "question"}
	}
	if def.RequiresCriteria && in.Criteria == "" {
		return nil, &UsageError{Mode: def.ID, Missing: "criteria document"}
	}

	msgs := make([]providers.Message, 0, len(def.Prompts)+3)
	for _, p := range def.Prompts {
		msgs = append(msgs, providers.Message{Role: providers.RoleSystem, Content: p})
	}
	if in.Criteria != "" {
		msgs = append(msgs, providers.Message{Role: providers.RoleSystem, Content: criteriaLabel + in.Criteria})
	}
	if in.Question != "" && def.QuestionLabel != "" {
		msgs = append(msgs, providers.Message{Role: providers.RoleUser, Content: def.QuestionLabel + in.Question})
	}
	if def.UsesBody() {
		msgs = append(msgs, providers.Message{Role: providers.RoleUser, Content: codeLabel + in.Body})
	}
	return msgs, nil
}

// EstimateContext returns the context window to request for msgs: a quarter
// of their total byte length plus fixed headroom. Byte length is never less
// than the character count, so the estimate never undercounts.
func EstimateContext(msgs []providers.Message) int {
	total := 0
	for _, m := range msgs {
		total += len(m.Content)
	}
	return total/bytesPerToken + baseContext
}

// Admit reports whether a request with the given context window may be
// dispatched. A ceiling of zero or less admits everything.
func Admit(window, ceiling int) bool {
	return ceiling <= 0 || window <= ceiling
}
