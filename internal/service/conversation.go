package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Option — кнопка с подписью и callback-данными
type Option struct {
	Label string
	Data  string
}

// Reply — исходящее сообщение с необязательной inline-клавиатурой.
// Controller возвращает Reply, а транспортный слой сам решает,
// как их отрисовать и отправить.
type Reply struct {
	Text     string
	Keyboard [][]Option
}

// QuizGenerator абстрагирует вызов модели, чтобы Controller
// можно было тестировать без сети
type QuizGenerator interface {
	Generate(ctx context.Context, subject, difficulty string) (string, error)
}

type choice struct {
	Key   string
	Label string
}

var subjects = []choice{
	{"math", "Математика"},
	{"russian", "Русский язык"},
	{"informatics", "Информатика"},
	{"english", "Английский язык"},
}

var difficulties = []choice{
	{"easy", "Легкий"},
	{"medium", "Средний"},
	{"hard", "Сложный"},
}

// Controller ведет диалог пользователя: выбор предмета и сложности,
// генерация теста, проверка ответов, статистика
type Controller struct {
	store     SessionStore
	generator QuizGenerator
}

func NewController(store SessionStore, generator QuizGenerator) *Controller {
	return &Controller{
		store:     store,
		generator: generator,
	}
}

// Start сбрасывает текущий тест пользователя и предлагает выбрать предмет
func (c *Controller) Start(userID int64) []Reply {
	session := c.store.Get(userID)
	resetRun(session)

	return []Reply{subjectPrompt()}
}

// Stats отвечает накопленной статистикой, не меняя состояние диалога
func (c *Controller) Stats(userID int64) []Reply {
	session := c.store.Get(userID)

	return []Reply{statsReply(session)}
}

// HandleText обрабатывает обычное текстовое сообщение пользователя
func (c *Controller) HandleText(ctx context.Context, userID int64, text string) []Reply {
	session := c.store.Get(userID)
	text = strings.TrimSpace(text)

	switch session.State {
	case StateSelectSubject:
		if label, ok := labelFor(subjects, keyByLabel(subjects, text)); ok {
			return c.selectSubject(session, label)
		}
		return []Reply{subjectPrompt()}

	case StateSelectDifficulty:
		if label, ok := labelFor(difficulties, keyByLabel(difficulties, text)); ok {
			return c.startQuiz(ctx, session, label)
		}
		return []Reply{difficultyPrompt()}

	case StateQuiz:
		// Во время теста текст игнорируем и повторяем текущий вопрос
		return []Reply{questionReply(session)}

	default: // StateEnd
		replies := []Reply{statsReply(session)}
		resetRun(session)
		return append(replies, subjectPrompt())
	}
}

// HandleSelection обрабатывает нажатие inline-кнопки. Некорректные или
// устаревшие callback-данные никогда не приводят к ошибке: ответы по
// чужому вопросу завершают тест, остальное возвращает текущий запрос.
func (c *Controller) HandleSelection(ctx context.Context, userID int64, data string) []Reply {
	session := c.store.Get(userID)

	switch {
	case data == "stats":
		return []Reply{statsReply(session)}

	case data == "restart":
		resetRun(session)
		return []Reply{subjectPrompt()}

	case strings.HasPrefix(data, "subj:"):
		key := strings.TrimPrefix(data, "subj:")
		label, ok := labelFor(subjects, key)
		if !ok {
			return []Reply{subjectPrompt()}
		}
		return c.selectSubject(session, label)

	case strings.HasPrefix(data, "diff:"):
		key := strings.TrimPrefix(data, "diff:")
		label, ok := labelFor(difficulties, key)
		if !ok || session.Subject == "" {
			return []Reply{subjectPrompt()}
		}
		return c.startQuiz(ctx, session, label)

	case strings.HasPrefix(data, "ans:"):
		return c.handleAnswer(session, data)

	default:
		logrus.WithField("data", data).Warn("Unknown callback data")
		return c.reprompt(session)
	}
}

func (c *Controller) selectSubject(session *Session, label string) []Reply {
	session.Subject = label
	session.State = StateSelectDifficulty

	return []Reply{
		{Text: fmt.Sprintf("Вы выбрали предмет: %s. Теперь выберите уровень сложности.", label)},
		difficultyPrompt(),
	}
}

func (c *Controller) startQuiz(ctx context.Context, session *Session, label string) []Reply {
	session.Difficulty = label

	var quiz []QuizItem
	raw, err := c.generator.Generate(ctx, session.Subject, label)
	if err != nil {
		logrus.WithError(err).Error("Quiz generation failed")
	} else {
		quiz = ParseGeneratedQuiz(raw)
	}

	// Остаемся в выборе сложности, чтобы пользователь мог повторить
	if len(quiz) == 0 {
		return []Reply{{
			Text:     "Не удалось сгенерировать тесты. Попробуйте ещё раз.",
			Keyboard: difficultyKeyboard(),
		}}
	}

	session.Quiz = quiz
	session.Current = 0
	session.State = StateQuiz

	return []Reply{
		{Text: fmt.Sprintf("Вы выбрали уровень сложности: %s. Начинаем тест!", label)},
		questionReply(session),
	}
}

func (c *Controller) handleAnswer(session *Session, data string) []Reply {
	parts := strings.Split(data, ":")
	if len(parts) != 3 {
		return c.concludeQuiz(session)
	}

	questionIndex, err := strconv.Atoi(parts[1])
	if err != nil {
		return c.concludeQuiz(session)
	}
	answerIndex, err := strconv.Atoi(parts[2])
	if err != nil {
		return c.concludeQuiz(session)
	}

	// Ответ не на текущий вопрос — считаем тест уже завершенным
	if session.State != StateQuiz ||
		questionIndex != session.Current ||
		questionIndex >= len(session.Quiz) {
		return c.concludeQuiz(session)
	}

	item := session.Quiz[questionIndex]
	if answerIndex < 0 || answerIndex >= len(item.Answers) {
		return c.concludeQuiz(session)
	}

	var feedback Reply
	if answerIndex == item.CorrectIndex {
		session.Stats.Correct++
		feedback = Reply{Text: "✅ Правильно! 🎉"}
	} else {
		session.Stats.Wrong++
		feedback = Reply{Text: fmt.Sprintf("❌ Неправильно. 😢\nПравильный ответ: %s",
			item.Answers[item.CorrectIndex])}
	}

	session.Current++
	if session.Current < len(session.Quiz) {
		return []Reply{feedback, questionReply(session)}
	}

	session.State = StateEnd
	return []Reply{feedback, finishReply(session)}
}

func (c *Controller) concludeQuiz(session *Session) []Reply {
	session.State = StateEnd

	return []Reply{finishReply(session)}
}

func (c *Controller) reprompt(session *Session) []Reply {
	switch session.State {
	case StateSelectDifficulty:
		return []Reply{difficultyPrompt()}
	case StateQuiz:
		return []Reply{questionReply(session)}
	case StateEnd:
		return []Reply{finishReply(session)}
	default:
		return []Reply{subjectPrompt()}
	}
}

func resetRun(session *Session) {
	session.State = StateSelectSubject
	session.Subject = ""
	session.Difficulty = ""
	session.Quiz = nil
	session.Current = 0
}

func subjectPrompt() Reply {
	return Reply{
		Text: "Выберите предмет:",
		Keyboard: [][]Option{
			{
				{Label: subjects[0].Label, Data: "subj:" + subjects[0].Key},
				{Label: subjects[1].Label, Data: "subj:" + subjects[1].Key},
			},
			{
				{Label: subjects[2].Label, Data: "subj:" + subjects[2].Key},
				{Label: subjects[3].Label, Data: "subj:" + subjects[3].Key},
			},
		},
	}
}

func difficultyPrompt() Reply {
	return Reply{
		Text:     "Выберите уровень сложности:",
		Keyboard: difficultyKeyboard(),
	}
}

func difficultyKeyboard() [][]Option {
	row := make([]Option, 0, len(difficulties))
	for _, d := range difficulties {
		row = append(row, Option{Label: d.Label, Data: "diff:" + d.Key})
	}
	return [][]Option{row}
}

func questionReply(session *Session) Reply {
	item := session.Quiz[session.Current]

	keyboard := make([][]Option, 0, len(item.Answers))
	for i, answer := range item.Answers {
		keyboard = append(keyboard, []Option{{
			Label: answer,
			Data:  fmt.Sprintf("ans:%d:%d", session.Current, i),
		}})
	}

	return Reply{
		Text: fmt.Sprintf("❓ Вопрос %d/%d\n\n%s",
			session.Current+1, len(session.Quiz), item.Question),
		Keyboard: keyboard,
	}
}

func finishReply(session *Session) Reply {
	return Reply{
		Text: fmt.Sprintf(
			"🏁 Тест завершён!\n\n✅ Правильных ответов: %d\n❌ Неправильных ответов: %d",
			session.Stats.Correct, session.Stats.Wrong),
		Keyboard: [][]Option{{
			{Label: "🎯 Ещё вопросы", Data: "restart"},
			{Label: "📊 Статистика", Data: "stats"},
		}},
	}
}

func statsReply(session *Session) Reply {
	return Reply{
		Text: fmt.Sprintf(
			"📊 Ваша статистика:\n✅ Правильных ответов: %d\n❌ Неправильных ответов: %d",
			session.Stats.Correct, session.Stats.Wrong),
	}
}

func keyByLabel(choices []choice, label string) string {
	for _, ch := range choices {
		if strings.EqualFold(ch.Label, label) {
			return ch.Key
		}
	}
	return ""
}

func labelFor(choices []choice, key string) (string, bool) {
	for _, ch := range choices {
		if ch.Key == key {
			return ch.Label, true
		}
	}
	return "", false
}
