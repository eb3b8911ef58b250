package summarizer

import "github.com/iksnae/webex-summarizer/internal"

// Chunk is a contiguous run of messages sent to the model as one request.
type Chunk struct {
	Messages []internal.Message
	Tokens   int
}

// Partition splits messages into chunks whose estimated size stays within budget.
//
// Messages are scanned in order and appended to the running chunk; the running
// chunk is closed first when it is non-empty and the next message would push it
// over budget. A message that alone exceeds the budget ends up as a singleton
// chunk. Concatenating the chunks reproduces messages exactly.
func Partition(messages []internal.Message, budget int, est Estimator) []Chunk {
	var chunks []Chunk
	var current Chunk

	for _, msg := range messages {
		tokens := est.Message(msg)
		if len(current.Messages) > 0 && current.Tokens+tokens > budget {
			chunks = append(chunks, current)
			current = Chunk{}
		}
		current.Messages = append(current.Messages, msg)
		current.Tokens += tokens
	}

	if len(current.Messages) > 0 {
		chunks = append(chunks, current)
	}

	return chunks
}
