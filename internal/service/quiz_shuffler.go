package service

import (
	"math/rand"
	"time"
)

// ShuffleAnswers собирает правильный и неправильные ответы в один список,
// перемешивает его и возвращает новый индекс правильного ответа
func ShuffleAnswers(correct string, incorrect []string) ([]string, int) {
	answers := make([]string, 0, len(incorrect)+1)
	answers = append(answers, correct)
	answers = append(answers, incorrect...)

	// Инициализируем генератор случайных чисел
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Перемешиваем ответы используя алгоритм Фишера-Йейтса,
	// отслеживая позицию правильного ответа через обмены
	correctIndex := 0
	for i := len(answers) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		answers[i], answers[j] = answers[j], answers[i]
		switch correctIndex {
		case i:
			correctIndex = j
		case j:
			correctIndex = i
		}
	}

	return answers, correctIndex
}
