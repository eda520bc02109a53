package bot

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/model"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/recognize"
)

// State is the per-chat conversation state. One enum instead of the ad hoc
// string flags the bot's earlier versions used.
type State int

const (
	StateIdle State = iota
	StateAskSex
	StateAskAge
	StateAskHeight
	StateAskWeight
	StateAskActivity
	StateAskGoal
	StateAwaitFoodText
	StateAwaitConfirm
	StateAwaitAdvice
	StateAwaitWeight
	StateAwaitPromo
)

// Mode selects which onboarding flow and target formula a chat uses.
const (
	ModeQuick = "quick"
	ModePlan  = "plan"
)

// Session is the in-memory conversation state for one chat.
type Session struct {
	State   State
	Mode    string
	Pending *recognize.Estimate

	// Onboarding answers collected so far.
	Sex      string
	Age      int
	HeightCm float64
	WeightKg float64
	Activity int
	Goal     string
}

type sessions struct {
	mu sync.Mutex
	m  map[int64]*Session
}

func newSessions() *sessions {
	return &sessions{m: map[int64]*Session{}}
}

func (s *sessions) get(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.m[chatID]
	if sess == nil {
		sess = &Session{Mode: ModeQuick}
		s.m[chatID] = sess
	}
	return sess
}

// Onboarding prompts, in ask order.
const (
	promptSex      = "Пол? Напиши m (муж) или f (жен)"
	promptAge      = "Возраст?"
	promptHeight   = "Рост (см)?"
	promptWeight   = "Вес (кг)?"
	promptActivity = "Активность?\n1 — почти нет\n2 — 1-3 тренировки\n3 — 3-5\n4 — 6-7\n5 — очень высокая"
	promptGoal     = "Цель? lose / maintain / gain / health"
)

// advanceOnboarding consumes one answer, stores it in the session, and
// moves to the next question. done is true once every answer the session's
// mode needs has been collected; quick mode stops after activity, plan mode
// also asks for a goal. A recoverable parse error keeps the state so the
// same question can be asked again.
func advanceOnboarding(sess *Session, answer string) (prompt string, done bool, err error) {
	answer = strings.TrimSpace(answer)
	switch sess.State {
	case StateAskSex:
		sex, ok := parseSex(answer)
		if !ok {
			return promptSex, false, fmt.Errorf("непонятный пол %q", answer)
		}
		sess.Sex = sex
		sess.State = StateAskAge
		return promptAge, false, nil
	case StateAskAge:
		age, convErr := strconv.Atoi(answer)
		if convErr != nil || age <= 0 {
			return promptAge, false, fmt.Errorf("возраст должен быть положительным числом")
		}
		sess.Age = age
		sess.State = StateAskHeight
		return promptHeight, false, nil
	case StateAskHeight:
		h, convErr := parsePositive(answer)
		if convErr != nil {
			return promptHeight, false, fmt.Errorf("рост должен быть положительным числом")
		}
		sess.HeightCm = h
		sess.State = StateAskWeight
		return promptWeight, false, nil
	case StateAskWeight:
		w, convErr := parsePositive(answer)
		if convErr != nil {
			return promptWeight, false, fmt.Errorf("вес должен быть положительным числом")
		}
		sess.WeightKg = w
		sess.State = StateAskActivity
		return promptActivity, false, nil
	case StateAskActivity:
		level, convErr := strconv.Atoi(answer)
		if convErr != nil || level < 1 || level > 5 {
			return promptActivity, false, fmt.Errorf("активность — число от 1 до 5")
		}
		sess.Activity = level
		if sess.Mode == ModePlan {
			sess.State = StateAskGoal
			return promptGoal, false, nil
		}
		sess.State = StateIdle
		return "", true, nil
	case StateAskGoal:
		goal := strings.ToLower(answer)
		switch goal {
		case model.GoalLose, model.GoalMaintain, model.GoalGain, model.GoalHealth:
		default:
			return promptGoal, false, fmt.Errorf("цель — lose, maintain, gain или health")
		}
		sess.Goal = goal
		sess.State = StateIdle
		return "", true, nil
	default:
		return "", false, fmt.Errorf("not in onboarding")
	}
}

func parseSex(answer string) (string, bool) {
	switch strings.ToLower(answer) {
	case "m", "м", "male", "муж":
		return model.SexMale, true
	case "f", "ж", "female", "жен":
		return model.SexFemale, true
	default:
		return "", false
	}
}

func parsePositive(answer string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(answer, ",", "."), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("not a positive number: %q", answer)
	}
	return v, nil
}
