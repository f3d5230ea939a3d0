package service

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const promptTemplate = `Сгенерируй 5 вопросов по теме %s на уровне %s. ` +
	`Ответ должен быть строго на русском языке в формате JSON. Каждый вопрос должен быть объектом с ключами:

- 'question': текст вопроса
- 'correct_answer': правильный ответ
- 'incorrect_answers': список из трёх неправильных ответов

Пример правильного ответа:

[
    {
        "question": "Сколько будет 2 + 2?",
        "correct_answer": "4",
        "incorrect_answers": ["3", "5", "6"]
    },
    {
        "question": "Сколько градусов в прямом угле?",
        "correct_answer": "90",
        "incorrect_answers": ["45", "180", "360"]
    }
]

Сгенерируй только 5 объектов в указанном формате JSON. ` +
	`Если формат не соблюдается, повтори попытку и исправь ошибки.`

// Generator генерирует вопросы через OpenRouter (OpenAI-совместимый API)
type Generator struct {
	client *openai.Client
	model  string
}

func NewGenerator(apiKey, baseURL, model string) *Generator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &Generator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Generate запрашивает у модели вопросы по предмету и уровню сложности
// и возвращает сырой текст ответа. Повторных попыток не делает.
func (g *Generator) Generate(ctx context.Context, subject, difficulty string) (string, error) {
	prompt := fmt.Sprintf(promptTemplate, subject, difficulty)

	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: g.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	content := resp.Choices[0].Message.Content
	logrus.WithFields(logrus.Fields{
		"subject":    subject,
		"difficulty": difficulty,
	}).Infof("LLM response:\n%s", content)

	return content, nil
}
