package dispatch

import (
	"fmt"
	"strings"
)

type tourStep struct {
	title   string
	content string
}

var tour = []tourStep{
	{
		title:   "Добро пожаловать в Chatty Orange! 🍊",
		content: "Здесь можно делиться мыслями, читать посты и общаться с авторами.\nДавай покажу основные возможности.",
	},
	{
		title:   "Создание постов ✍️",
		content: "Нажми «Новый пост», добавь заголовок, текст и картинку.\nЯ помогу придумать идею и проверю текст перед публикацией.",
	},
	{
		title:   "Подписки и лента 📰",
		content: "Подписывайся на интересных авторов, и их посты появятся в твоей ленте.\nСпроси меня «кого почитать?», и я подскажу.",
	},
	{
		title:   "Всё готово! 🎉",
		content: "Теперь Chatty Orange готов к использованию.\nПопробуй: «найди пост Django», «найди пользователя Orange», «расскажи о посте 1».",
	},
}

// TourStep renders a step of the onboarding tour. Missing or unknown steps
// show the first and the last step respectively.
func TourStep(step *int) string {
	n := 1
	if step != nil {
		n = *step
	}
	if n < 1 || n > len(tour) {
		n = len(tour)
	}
	s := tour[n-1]
	return fmt.Sprintf("<h5>%s</h5><p>%s</p>", s.title, strings.ReplaceAll(s.content, "\n", "<br>"))
}
