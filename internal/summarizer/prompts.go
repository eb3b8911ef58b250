package summarizer

import (
	"fmt"
	"strings"

	"github.com/iksnae/webex-summarizer/internal"
)

// IrrelevantMarker is the phrase a chunk answer must contain when the chunk
// holds nothing relevant to the question. Matching is case-insensitive.
const IrrelevantMarker = "NO_RELEVANT_INFORMATION"

// NoMessagesSummary is returned by Summarize when there is nothing to summarize.
const NoMessagesSummary = "No messages to summarize."

const timeLayout = "2006-01-02 15:04:05"

const summaryInstruction = "Please provide a concise summary of the following conversation from the Webex room %q. " +
	"Focus on the key points, decisions made, action items, and significant information shared. " +
	"Structure your response to highlight the main topics discussed."

const chunkSummaryInstruction = "The following is part %d of %d of a conversation from the Webex room %q. " +
	"Summarize this part, keeping the key points, decisions made, action items, and significant information shared. " +
	"Another step will combine the summaries of all parts."

const synthesisInstruction = "The conversation from the Webex room %q was too long to process at once, " +
	"so it was summarized in %d parts. Combine the part summaries below into a single coherent summary " +
	"with these sections:\n" +
	"1. Overview\n" +
	"2. Key Topics\n" +
	"3. Decisions\n" +
	"4. Action Items\n" +
	"Remove repetition between parts and keep the chronology of the discussion."

const answerInstruction = "Answer the question below using only the following conversation from the Webex room %q. " +
	"Give a direct answer first, then cite the supporting messages with their sender and time. " +
	"If the conversation does not contain the answer, say that you don't have enough information.\n\n" +
	"Question: %s"

const chunkAnswerInstruction = "The following is part %d of %d of a conversation from the Webex room %q. " +
	"Extract only the information from this part that is relevant to the question below, citing sender and time. " +
	"If nothing in this part is relevant, reply with exactly %s and nothing else.\n\n" +
	"Question: %s"

const answerSynthesisInstruction = "The conversation from the Webex room %q was searched in parts for information " +
	"relevant to the question below. Using only the extracts that follow, give a direct answer to the question, " +
	"then list the supporting evidence. Do not add information that is not in the extracts.\n\n" +
	"Question: %s"

const insufficientInformation = "I don't have enough information in the conversation %q to answer the question: %q"

// InsufficientInformation is the fallback answer when no part of the conversation is relevant.
func InsufficientInformation(question, roomLabel string) string {
	return fmt.Sprintf(insufficientInformation, roomLabel, question)
}

// RenderMessages writes messages in the form every prompt uses.
func RenderMessages(messages []internal.Message) string {
	var sb strings.Builder
	for _, msg := range messages {
		sb.WriteString("Time: ")
		sb.WriteString(msg.Created.Format(timeLayout))
		sb.WriteString("\nFrom: ")
		sb.WriteString(msg.PersonEmail)
		sb.WriteString("\nMessage: ")
		sb.WriteString(msg.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func withContent(instruction, content string) string {
	return instruction + "\n\n" + content
}

func summaryPrompt(roomLabel string, messages []internal.Message) string {
	return withContent(fmt.Sprintf(summaryInstruction, roomLabel), RenderMessages(messages))
}

func chunkSummaryPrompt(roomLabel string, part, total int, messages []internal.Message) string {
	return withContent(fmt.Sprintf(chunkSummaryInstruction, part, total, roomLabel), RenderMessages(messages))
}

func answerPrompt(roomLabel, question string, messages []internal.Message) string {
	return withContent(fmt.Sprintf(answerInstruction, roomLabel, question), RenderMessages(messages))
}

func chunkAnswerPrompt(roomLabel, question string, part, total int, messages []internal.Message) string {
	return withContent(fmt.Sprintf(chunkAnswerInstruction, part, total, roomLabel, IrrelevantMarker, question),
		RenderMessages(messages))
}

// partResult is one map-phase output kept with its 1-based position.
type partResult struct {
	Part int
	Text string
}

func labelParts(label string, parts []partResult) string {
	var sb strings.Builder
	for _, p := range parts {
		fmt.Fprintf(&sb, "%s %d:\n%s\n\n", label, p.Part, strings.TrimSpace(p.Text))
	}
	return sb.String()
}

func synthesisPrompt(roomLabel string, parts []partResult) string {
	return withContent(fmt.Sprintf(synthesisInstruction, roomLabel, len(parts)), labelParts("Summary of Part", parts))
}

func answerSynthesisPrompt(roomLabel, question string, parts []partResult) string {
	return withContent(fmt.Sprintf(answerSynthesisInstruction, roomLabel, question), labelParts("Extract from Part", parts))
}

// isIrrelevant reports whether a chunk answer signals that nothing was found.
func isIrrelevant(answer string) bool {
	return strings.Contains(strings.ToLower(answer), strings.ToLower(IrrelevantMarker))
}
