package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	raw string
	err error
}

func (g *stubGenerator) Generate(ctx context.Context, subject, difficulty string) (string, error) {
	return g.raw, g.err
}

// quizJSON строит корректный ответ модели из n вопросов
func quizJSON(n int) string {
	items := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, fmt.Sprintf(
			`{"question":"Вопрос %d?","correct_answer":"Верно %d","incorrect_answers":["А%d","Б%d","В%d"]}`,
			i, i, i, i, i))
	}
	return "[" + strings.Join(items, ",") + "]"
}

func newTestController(gen QuizGenerator) (*Controller, *MemorySessionStore) {
	store := NewMemorySessionStore()
	return NewController(store, gen), store
}

// startedQuiz доводит пользователя до состояния quiz через выбор
// предмета и сложности
func startedQuiz(t *testing.T, c *Controller, store *MemorySessionStore, userID int64) *Session {
	t.Helper()
	ctx := context.Background()

	c.Start(userID)
	c.HandleSelection(ctx, userID, "subj:math")
	c.HandleSelection(ctx, userID, "diff:easy")

	session := store.Get(userID)
	require.Equal(t, StateQuiz, session.State)
	return session
}

func answerData(session *Session, correct bool) string {
	item := session.Quiz[session.Current]
	index := item.CorrectIndex
	if !correct {
		index = (item.CorrectIndex + 1) % len(item.Answers)
	}
	return fmt.Sprintf("ans:%d:%d", session.Current, index)
}

func TestController_SubjectAndDifficultySelection(t *testing.T) {
	c, store := newTestController(&stubGenerator{raw: quizJSON(5)})
	ctx := context.Background()

	replies := c.Start(1)
	require.Len(t, replies, 1)
	assert.Equal(t, "Выберите предмет:", replies[0].Text)
	assert.NotEmpty(t, replies[0].Keyboard)

	replies = c.HandleSelection(ctx, 1, "subj:math")
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, "Математика")

	session := store.Get(1)
	assert.Equal(t, StateSelectDifficulty, session.State)
	assert.Equal(t, "Математика", session.Subject)

	replies = c.HandleSelection(ctx, 1, "diff:easy")
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, "Легкий")
	assert.Contains(t, replies[1].Text, "Вопрос 1/5")

	// По кнопке на каждый вариант ответа
	require.Len(t, replies[1].Keyboard, 4)
	assert.Equal(t, "ans:0:0", replies[1].Keyboard[0][0].Data)

	assert.Equal(t, StateQuiz, session.State)
	assert.Equal(t, "Легкий", session.Difficulty)
	assert.Len(t, session.Quiz, 5)
	assert.Equal(t, 0, session.Current)
}

func TestController_TextSubjectSelection(t *testing.T) {
	c, store := newTestController(&stubGenerator{raw: quizJSON(5)})
	ctx := context.Background()

	c.Start(1)
	replies := c.HandleText(ctx, 1, "Математика")
	require.Len(t, replies, 2)
	assert.Equal(t, StateSelectDifficulty, store.Get(1).State)
}

func TestController_UnknownTextReprompts(t *testing.T) {
	c, store := newTestController(&stubGenerator{raw: quizJSON(5)})
	ctx := context.Background()

	c.Start(1)
	replies := c.HandleText(ctx, 1, "хочу викторину")

	require.Len(t, replies, 1)
	assert.Equal(t, "Выберите предмет:", replies[0].Text)
	assert.Equal(t, StateSelectSubject, store.Get(1).State)
}

func TestController_CorrectAnswerScoring(t *testing.T) {
	c, store := newTestController(&stubGenerator{raw: quizJSON(5)})
	ctx := context.Background()

	session := startedQuiz(t, c, store, 1)

	replies := c.HandleSelection(ctx, 1, answerData(session, true))
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, "Правильно")
	assert.Contains(t, replies[1].Text, "Вопрос 2/5")

	assert.Equal(t, Stats{Correct: 1, Wrong: 0}, session.Stats)
	assert.Equal(t, 1, session.Current)
}

func TestController_WrongAnswerRevealsCorrect(t *testing.T) {
	c, store := newTestController(&stubGenerator{raw: quizJSON(5)})
	ctx := context.Background()

	session := startedQuiz(t, c, store, 1)
	correctText := session.Quiz[0].Answers[session.Quiz[0].CorrectIndex]

	replies := c.HandleSelection(ctx, 1, answerData(session, false))
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, "Неправильно")
	assert.Contains(t, replies[0].Text, correctText)

	assert.Equal(t, Stats{Correct: 0, Wrong: 1}, session.Stats)
}

func TestController_QuizTermination(t *testing.T) {
	c, store := newTestController(&stubGenerator{raw: quizJSON(5)})
	ctx := context.Background()

	session := startedQuiz(t, c, store, 1)

	var replies []Reply
	for i := 0; i < 5; i++ {
		replies = c.HandleSelection(ctx, 1, answerData(session, true))
	}

	assert.Equal(t, StateEnd, session.State)
	assert.Equal(t, Stats{Correct: 5, Wrong: 0}, session.Stats)
	require.Len(t, replies, 2)
	assert.Contains(t, replies[1].Text, "Тест завершён")

	// Любой текст после завершения — статистика и возврат к выбору предмета
	replies = c.HandleText(ctx, 1, "что дальше?")
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, "Правильных ответов: 5")
	assert.Equal(t, "Выберите предмет:", replies[1].Text)
	assert.Equal(t, StateSelectSubject, session.State)
	assert.Empty(t, session.Quiz)
}

func TestController_StatsCumulativeAcrossRuns(t *testing.T) {
	c, store := newTestController(&stubGenerator{raw: quizJSON(2)})
	ctx := context.Background()

	for run := 0; run < 2; run++ {
		session := startedQuiz(t, c, store, 1)
		c.HandleSelection(ctx, 1, answerData(session, true))
		c.HandleSelection(ctx, 1, answerData(session, false))
	}

	assert.Equal(t, Stats{Correct: 2, Wrong: 2}, store.Get(1).Stats)
}

func TestController_StaleAnswerConcludesQuiz(t *testing.T) {
	c, store := newTestController(&stubGenerator{raw: quizJSON(5)})
	ctx := context.Background()

	session := startedQuiz(t, c, store, 1)

	// Ответ на вопрос, который не является текущим
	replies := c.HandleSelection(ctx, 1, "ans:3:0")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Тест завершён")
	assert.Equal(t, StateEnd, session.State)
	assert.Equal(t, Stats{}, session.Stats)
}

func TestController_MalformedCallbackData(t *testing.T) {
	c, store := newTestController(&stubGenerator{raw: quizJSON(5)})
	ctx := context.Background()

	session := startedQuiz(t, c, store, 1)

	for _, data := range []string{"ans:не:число", "ans:0", "ans:0:99", "ans:0:-1"} {
		session.State = StateQuiz
		replies := c.HandleSelection(ctx, 1, data)
		require.NotEmpty(t, replies, "data=%q", data)
		assert.Equal(t, StateEnd, session.State, "data=%q", data)
	}
}

func TestController_GenerationFailureKeepsDifficultyState(t *testing.T) {
	gen := &stubGenerator{err: errors.New("api down")}
	c, store := newTestController(gen)
	ctx := context.Background()

	c.Start(1)
	c.HandleSelection(ctx, 1, "subj:math")
	replies := c.HandleSelection(ctx, 1, "diff:easy")

	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Не удалось сгенерировать")
	assert.NotEmpty(t, replies[0].Keyboard)
	assert.Equal(t, StateSelectDifficulty, store.Get(1).State)

	// После восстановления сервиса повторный выбор сложности работает
	gen.err = nil
	gen.raw = quizJSON(5)
	c.HandleSelection(ctx, 1, "diff:easy")
	assert.Equal(t, StateQuiz, store.Get(1).State)
}

func TestController_UnparsableGenerationKeepsDifficultyState(t *testing.T) {
	c, store := newTestController(&stubGenerator{raw: "модель вернула прозу"})
	ctx := context.Background()

	c.Start(1)
	c.HandleSelection(ctx, 1, "subj:math")
	replies := c.HandleSelection(ctx, 1, "diff:easy")

	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Не удалось сгенерировать")
	assert.Equal(t, StateSelectDifficulty, store.Get(1).State)
}

func TestController_StatsDoesNotChangeState(t *testing.T) {
	c, store := newTestController(&stubGenerator{raw: quizJSON(5)})

	c.Start(1)
	replies := c.Stats(1)

	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Ваша статистика")
	assert.Equal(t, StateSelectSubject, store.Get(1).State)
}

func TestController_RestartButton(t *testing.T) {
	c, store := newTestController(&stubGenerator{raw: quizJSON(2)})
	ctx := context.Background()

	session := startedQuiz(t, c, store, 1)
	c.HandleSelection(ctx, 1, answerData(session, true))
	c.HandleSelection(ctx, 1, answerData(session, true))
	require.Equal(t, StateEnd, session.State)

	replies := c.HandleSelection(ctx, 1, "restart")
	require.Len(t, replies, 1)
	assert.Equal(t, "Выберите предмет:", replies[0].Text)
	assert.Equal(t, StateSelectSubject, session.State)
	assert.Equal(t, Stats{Correct: 2}, session.Stats)
}

func TestController_SessionsAreIndependent(t *testing.T) {
	c, store := newTestController(&stubGenerator{raw: quizJSON(2)})
	ctx := context.Background()

	first := startedQuiz(t, c, store, 1)
	c.HandleSelection(ctx, 1, answerData(first, true))

	second := store.Get(2)
	assert.Equal(t, StateSelectSubject, second.State)
	assert.Equal(t, Stats{}, second.Stats)
}
