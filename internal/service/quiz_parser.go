package service

import (
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"
)

// generatedQuestion — сырой объект вопроса из ответа модели
type generatedQuestion struct {
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// ParseGeneratedQuiz разбирает JSON-ответ модели в список вопросов.
// Некорректные вопросы пропускаются, при ошибке парсинга всего ответа
// возвращается пустой список. Ошибка наружу не поднимается.
func ParseGeneratedQuiz(raw string) []QuizItem {
	cleaned := stripCodeFences(raw)

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &elements); err != nil {
		logrus.WithError(err).Error("Failed to parse generated quiz JSON")
		return nil
	}

	var quiz []QuizItem
	for _, element := range elements {
		var item generatedQuestion
		if err := json.Unmarshal(element, &item); err != nil {
			logrus.WithError(err).WithField("item", string(element)).Warn("Skipping unreadable question object")
			continue
		}

		question := strings.TrimSpace(item.Question)
		correct := strings.TrimSpace(item.CorrectAnswer)

		if question == "" || correct == "" || len(item.IncorrectAnswers) != 3 {
			logrus.WithField("item", item).Warn("Skipping malformed question object")
			continue
		}

		// Вопрос, в котором правильный ответ дословно совпадает с одним
		// из неправильных, неразрешим для игрока — отбрасываем целиком
		if containsString(item.IncorrectAnswers, correct) {
			logrus.WithField("item", item).Warn("Skipping question with duplicated correct answer")
			continue
		}

		answers, correctIndex := ShuffleAnswers(correct, item.IncorrectAnswers)
		quiz = append(quiz, QuizItem{
			Question:     question,
			Answers:      answers,
			CorrectIndex: correctIndex,
		})
	}

	return quiz
}

// stripCodeFences убирает обрамление ```json ... ```, которое модели
// часто добавляют вокруг JSON
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
