package ai

import (
	"fmt"
	"strings"

	"github.com/ObiAU/newsdigest/internal/models"
)

const systemPrompt = "You are the editor of a Telegram news channel. You write short, accurate and lively digests of the latest headlines."

const pingPrompt = "Hello"

// BuildDigestPrompt lists the headlines and asks for a channel-ready digest
// of the three most significant ones.
func BuildDigestPrompt(topic string, items []models.NewsItem) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Here are the latest %s news headlines:\n", topic))
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", item.Title, item.Link))
	}

	sb.WriteString("\nPlease select the top 3 most significant stories.\n")
	sb.WriteString("Summarize them into 3 short paragraphs with date and time, engaging paragraphs suitable for a Telegram channel update.\n")
	sb.WriteString("Use fun emojis (🤖, 🚀, 🧠, etc.) to make it lively.\n")
	sb.WriteString("Start with a catchy headline.\n")
	sb.WriteString("At the end, list the links to the 3 selected stories in a clean format like: '🔗 [Title](Link)'.")

	return sb.String()
}
