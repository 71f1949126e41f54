package ai

import "fmt"

const (
	chatTemperature      = 0.7
	summarizeTemperature = 0.5
	summarizeMaxTokens   = 500
	geminiChatMaxTokens  = 1024
)

func summarizeSystemPrompt(subjectName string) string {
	if subjectName == "" {
		return "You are a helpful assistant that summarizes educational content. Provide clear, concise summaries focusing on key points, main ideas, and important details."
	}
	return fmt.Sprintf("You are an expert educational assistant helping a student studying %s for AL exams. "+
		"Summarize the following text clearly and concisely, focusing on key concepts, main ideas, important facts, "+
		"and how concepts relate to %s. Keep the summary educational and easy to understand.", subjectName, subjectName)
}

func summarizeUserPrompt(text string) string {
	return "Please summarize the following text:\n\n" + text
}
