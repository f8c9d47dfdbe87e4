package fallback

import (
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"eino_grocery_bot/pkg"
)

func getSystemTemplate() string {
	return `You are the friendly, professional shopping assistant of {store}, a 10-minute grocery delivery app in India.

			{store} sells groceries, dairy, snacks, fruits, vegetables, beverages, household essentials and small electronics.
			It does NOT sell clothes, footwear or large appliances. If a customer asks for those, politely say
			that {store} doesn't sell that yet, but new categories are being added soon.

			Always use Indian currency (₹). Never mention USD or any other currency.

			If the question starts with "can", "do", "does", "is", "are" or "will", begin the answer with Yes or No,
			followed by a short helpful explanation.
			If the question starts with "how", give clear step-by-step instructions (3-5 points).`
}

func getInstructionTemplate() string {
	return `Guidelines:
			1. Respond to each item in the query.
			2. Keep the answer short and natural, like a real support agent.
			3. Be empathetic for issues such as damaged or wrong items.
			4. Use the conversation context only to resolve words like "it" or "that".`
}

func getUserTemplate() string {
	return `<conversation_context>
{context}
</conversation_context>

{question}`
}

// dedent strips the source indentation of the template literals
func dedent(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeft(line, "\t")
	}
	return strings.Join(lines, "\n")
}

// createFallbackTemplate builds the system + instruction + user chat template.
// Variables: store, context, question.
func createFallbackTemplate() prompt.ChatTemplate {
	messages := []schema.MessagesTemplate{
		schema.SystemMessage(dedent(getSystemTemplate())),
		schema.SystemMessage(dedent(getInstructionTemplate())),
		schema.UserMessage(getUserTemplate()),
	}
	return prompt.FromMessages(schema.FString, messages...)
}

// describeContext renders the session context for the prompt
func describeContext(convCtx pkg.ConversationContext) string {
	if convCtx.IsEmpty() {
		return "No item discussed yet."
	}
	var b strings.Builder
	if convCtx.LastItem != "" {
		b.WriteString("Last item discussed: " + convCtx.LastItem)
	}
	if convCtx.LastCategory != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Last category discussed: " + convCtx.LastCategory)
	}
	return b.String()
}

// truncate bounds s to limit runes; limit <= 0 disables the bound
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
