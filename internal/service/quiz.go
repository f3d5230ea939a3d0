package service

// Состояния диалога с пользователем
const (
	StateSelectSubject    = "select_subject"
	StateSelectDifficulty = "select_difficulty"
	StateQuiz             = "quiz"
	StateEnd              = "end"
)

// QuizItem — один сгенерированный вопрос с вариантами ответов
type QuizItem struct {
	Question     string
	Answers      []string
	CorrectIndex int
}

// Stats — накопленная статистика пользователя за все тесты
type Stats struct {
	Correct int
	Wrong   int
}

// Session хранит состояние диалога и текущий тест пользователя.
// Quiz, Current, Subject и Difficulty заменяются целиком при каждом
// новом тесте; Stats живет, пока живет процесс.
type Session struct {
	UserID     int64
	State      string
	Subject    string
	Difficulty string
	Quiz       []QuizItem
	Current    int
	Stats      Stats
}
