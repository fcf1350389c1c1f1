package handlers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/health-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/health-tracker/internal/bot/menus"
	"github.com/vladimiradmaev/health-tracker/internal/bot/state"
	"github.com/vladimiradmaev/health-tracker/internal/calculator"
	"github.com/vladimiradmaev/health-tracker/internal/repository"
	"github.com/vladimiradmaev/health-tracker/internal/services"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.MessageConfig
	requests int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, fmt.Errorf("unexpected chattable %T", c)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		t.Fatal("nothing was sent")
	}
	return f.sent[len(f.sent)-1]
}

const userID = 42

type botFixture struct {
	t       *testing.T
	api     *fakeSender
	handler *UpdateHandler
	nextID  int
}

func newBotFixture(t *testing.T) *botFixture {
	t.Helper()
	store := repository.NewMemoryStore()
	weather := services.NewWeatherService("", "", time.Second)
	ledger := services.NewLedgerService(store, nil)
	onboarding := services.NewOnboardingService(state.NewManager(), store, weather, nil)
	tracker := services.NewTrackerService(ledger, onboarding, calculator.NewFoodCalorieResolver(nil), weather)

	api := &fakeSender{}
	return &botFixture{
		t:       t,
		api:     api,
		handler: NewUpdateHandler(api, Dependencies{Tracker: tracker}),
	}
}

func textUpdate(id int, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		MessageID: id,
		From:      &tgbotapi.User{ID: userID},
		Chat:      &tgbotapi.Chat{ID: userID},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		cmd := strings.Fields(text)[0]
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	}
	return tgbotapi.Update{UpdateID: id, Message: msg}
}

func callbackUpdate(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: userID},
		Message: &tgbotapi.Message{MessageID: 1, Chat: &tgbotapi.Chat{ID: userID}},
		Data:    data,
	}}
}

// say sends text as a new message and returns the reply
func (f *botFixture) say(text string) string {
	f.t.Helper()
	f.nextID++
	return f.replay(f.nextID, text)
}

// replay sends text with an explicit message id
func (f *botFixture) replay(id int, text string) string {
	f.t.Helper()
	if err := f.handler.Handle(context.Background(), textUpdate(id, text)); err != nil {
		f.t.Fatalf("Handle(%q): %v", text, err)
	}
	return f.api.last(f.t).Text
}

func (f *botFixture) press(data string) string {
	f.t.Helper()
	if err := f.handler.Handle(context.Background(), callbackUpdate(data)); err != nil {
		f.t.Fatalf("Handle(callback %q): %v", data, err)
	}
	return f.api.last(f.t).Text
}

func (f *botFixture) onboard() {
	f.t.Helper()
	f.say("/setprofile")
	for _, answer := range []string{"70", "175", "25", "45", "Москва"} {
		f.say(answer)
	}
}

func assertContains(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("reply %q does not contain %q", got, w)
		}
	}
}

func TestRoute(t *testing.T) {
	tests := []struct {
		name         string
		update       tgbotapi.Update
		inOnboarding bool
		want         Destination
	}{
		{"empty update", tgbotapi.Update{}, false, ToNothing},
		{"control command", textUpdate(1, "/start"), false, ToControl},
		{"control during onboarding", textUpdate(1, "/cancel"), true, ToControl},
		{"control with bot name", textUpdate(1, "/reset@health_bot"), true, ToControl},
		{"ledger command", textUpdate(1, "/water 500"), false, ToCommand},
		{"ledger command during onboarding", textUpdate(1, "/water 500"), true, ToOnboarding},
		{"answer", textUpdate(1, "70"), true, ToOnboarding},
		{"plain text", textUpdate(1, "привет"), false, ToHint},
		{"button", callbackUpdate(keyboards.CallbackProgress), false, ToCallback},
		{"button during onboarding", callbackUpdate(keyboards.CallbackTips), true, ToPrompt},
		{"cancel button during onboarding", callbackUpdate(keyboards.CallbackCancel), true, ToCallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Route(tt.update, tt.inOnboarding); got != tt.want {
				t.Errorf("Route = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseFood(t *testing.T) {
	tests := []struct {
		args   string
		name   string
		grams  int
		wantOK bool
	}{
		{"яблоко 200", "яблоко", 200, true},
		{"яблоко", "яблоко", services.DefaultFoodGrams, true},
		{"куриная грудка 150", "куриная грудка", 150, true},
		{"  овсяная   каша  ", "овсяная каша", services.DefaultFoodGrams, true},
		{"рис -5", "рис", -5, true},
		{"200", "", 0, false},
		{"", "", 0, false},
	}
	for _, tt := range tests {
		name, grams, ok := parseFood(tt.args)
		if name != tt.name || grams != tt.grams || ok != tt.wantOK {
			t.Errorf("parseFood(%q) = %q, %d, %v", tt.args, name, grams, ok)
		}
	}
}

func TestParseWorkout(t *testing.T) {
	tests := []struct {
		args    string
		typ     string
		minutes int
		wantOK  bool
	}{
		{"бег 30", "бег", 30, true},
		{"скандинавская ходьба 45", "скандинавская ходьба", 45, true},
		{"бег", "", 0, false},
		{"бег полчаса", "", 0, false},
		{"", "", 0, false},
	}
	for _, tt := range tests {
		typ, minutes, ok := parseWorkout(tt.args)
		if typ != tt.typ || minutes != tt.minutes || ok != tt.wantOK {
			t.Errorf("parseWorkout(%q) = %q, %d, %v", tt.args, typ, minutes, ok)
		}
	}
}

func TestParseWaterAndHistory(t *testing.T) {
	if ml, ok := parseWater("250,5"); !ok || ml != 250.5 {
		t.Errorf("parseWater(250,5) = %v, %v", ml, ok)
	}
	for _, bad := range []string{"", "много", "1 2"} {
		if _, ok := parseWater(bad); ok {
			t.Errorf("parseWater(%q) accepted", bad)
		}
	}

	if days, ok := parseHistoryDays(""); !ok || days != 0 {
		t.Errorf("parseHistoryDays(\"\") = %d, %v", days, ok)
	}
	if days, ok := parseHistoryDays("14"); !ok || days != 14 {
		t.Errorf("parseHistoryDays(14) = %d, %v", days, ok)
	}
	for _, bad := range []string{"0", "-3", "неделя", "1 2"} {
		if _, ok := parseHistoryDays(bad); ok {
			t.Errorf("parseHistoryDays(%q) accepted", bad)
		}
	}
	if historyWindow(0) != services.DefaultHistoryDays || historyWindow(90) != services.MaxHistoryDays {
		t.Error("historyWindow does not apply the limits")
	}
}

func TestLedgerCommandsRequireProfile(t *testing.T) {
	f := newBotFixture(t)
	for _, cmd := range []string{"/water 500", "/food яблоко", "/workout бег 30", "/progress", "/tips", "/profile", "/history"} {
		if got := f.say(cmd); got != menus.CreateProfileFirstText {
			t.Errorf("%s: reply %q", cmd, got)
		}
	}
}

func TestOnboardingDialogue(t *testing.T) {
	f := newBotFixture(t)

	assertContains(t, f.say("/setprofile"), "Создание профиля", "Шаг 1 из 5")
	if f.api.last(t).ReplyMarkup == nil {
		t.Error("onboarding prompt must carry the cancel button")
	}

	assertContains(t, f.say("семьдесят"), "Вес должен быть", "Шаг 1 из 5")
	assertContains(t, f.say("/water 500"), "Вес должен быть", "Шаг 1 из 5")
	assertContains(t, f.press(keyboards.CallbackProgress), "Сначала завершите", "Шаг 1 из 5")

	assertContains(t, f.say("70,5"), "Принято", "Шаг 2 из 5")
	assertContains(t, f.say("175"), "Шаг 3 из 5")
	assertContains(t, f.say("25"), "Шаг 4 из 5")
	assertContains(t, f.say("45"), "Шаг 5 из 5")
	assertContains(t, f.say("М"), "хотя бы 2 символа", "Шаг 5 из 5")
	assertContains(t, f.say("Москва"), "Профиль сохранен", "Вес: 70.5 кг", "Город: Москва", "Температура: 20.0°C")

	assertContains(t, f.say("привет"), menus.HintText)
}

func TestCancelOnboarding(t *testing.T) {
	f := newBotFixture(t)

	if got := f.say("/cancel"); got != menus.NothingToCancelText {
		t.Errorf("cancel without dialogue: %q", got)
	}
	f.say("/setprofile")
	f.say("70")
	if got := f.press(keyboards.CallbackCancel); got != menus.CancelledText {
		t.Errorf("cancel button: %q", got)
	}
	if got := f.say("175"); got != menus.HintText {
		t.Errorf("answer after cancel: %q", got)
	}
}

func TestLedgerCommands(t *testing.T) {
	f := newBotFixture(t)
	f.onboard()

	assertContains(t, f.replay(100, "/water 500"), "Записано: 500 мл", "500/2300 мл")
	assertContains(t, f.replay(100, "/water 500"), "500/2300 мл")
	assertContains(t, f.say("/water"), "Используйте: /water 500")

	assertContains(t, f.say("/food яблоко 200"), "яблоко", "52 ккал/100г", "200г = 104 ккал")
	assertContains(t, f.say("/food"), "Используйте: /food")
	assertContains(t, f.say("/food рис 9000"), "Вес порции должен быть")

	assertContains(t, f.say("/workout бег 30"), "бег", "30 минут", "Сожжено: 280 ккал")
	assertContains(t, f.say("/workout паркур 10"), "Тип тренировки не найден")
	assertContains(t, f.say("/workout бег 0"), "Длительность должна быть")

	assertContains(t, f.say("/progress"), "500/2300 мл", "Съедено: 104 ккал", "Приемов пищи: 1", "Тренировок: 2")
	assertContains(t, f.say("/tips"), "Персональные рекомендации")
	assertContains(t, f.say("/profile"), "Вес: 70 кг", "Вода: 2300 мл", "Калории: 2350 ккал")
	assertContains(t, f.say("/history"), "История за 7 дн.", "яблоко", "вода: 500 мл")
	assertContains(t, f.say("/history 0"), "Используйте: /history")
	assertContains(t, f.say("/dance"), "Неизвестная команда")
}

func TestSameMessageIDInAnotherChatIsLogged(t *testing.T) {
	f := newBotFixture(t)
	f.onboard()

	assertContains(t, f.replay(100, "/water 500"), "500/2300 мл")

	group := textUpdate(100, "/water 300")
	group.Message.Chat = &tgbotapi.Chat{ID: -1001234567890, Type: "supergroup"}
	if err := f.handler.Handle(context.Background(), group); err != nil {
		t.Fatalf("Handle(group water): %v", err)
	}
	assertContains(t, f.api.last(t).Text, "800/2300 мл")

	assertContains(t, f.replay(100, "/water 500"), "800/2300 мл")
}

func TestResetKeepsProfile(t *testing.T) {
	f := newBotFixture(t)
	f.onboard()
	f.say("/water 700")

	if got := f.say("/reset"); got != menus.ResetDoneText {
		t.Errorf("reset reply %q", got)
	}
	assertContains(t, f.say("/progress"), "0/2300 мл", "Приемов пищи: 0")
	assertContains(t, f.say("/history"), "записей нет")
}

func TestMenuButtons(t *testing.T) {
	f := newBotFixture(t)
	f.onboard()

	assertContains(t, f.press(keyboards.CallbackProgress), "Прогресс за")
	assertContains(t, f.press(keyboards.CallbackTips), "Персональные рекомендации")
	assertContains(t, f.press(keyboards.CallbackProfile), "Ваш профиль")
	assertContains(t, f.press(keyboards.CallbackHelp), "Помощь по командам")
	assertContains(t, f.press(keyboards.CallbackMainMenu), "Бот для контроля здоровья")
	assertContains(t, f.press("analyze_food"), menus.HintText)

	if f.api.requests != 6 {
		t.Errorf("answered %d callbacks, want 6", f.api.requests)
	}
}
