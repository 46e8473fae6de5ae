package domain

import "fmt"

// SystemMessage frames the model as a playful teacher.
const SystemMessage = "You are a creative and humorous teacher who makes explanations enjoyable and accessible. Keep it under 300 tokens."

const userTemplate = `You are a fun and engaging AI assistant.
Your task:
1. Define the topic **%[1]s** briefly in one sentence (about 15%% of the total).
2. Then explain it creatively, humorously, and conversationally (about 75%% of the total).
3. Present the explanation %[2]s.

Format:
- Use short paragraphs or playful tone when suitable.
- Avoid sounding robotic or overly academic.
- End with a suitable %[2]s closing line.

Now, define and explain the topic: **%[1]s**.`

// BuildPrompt renders the system and user messages for topic in the given
// style. The caller decides whether an empty topic is acceptable.
func BuildPrompt(topic, style string) Prompt {
	return Prompt{
		System: SystemMessage,
		User:   fmt.Sprintf(userTemplate, topic, style),
	}
}
