package repo

import (
	"context"
	"fmt"
	"time"
)

// Seed fills an empty store with a small demo community. It is a no-op when
// users already exist.
func Seed(ctx context.Context, s *ContentStore, now time.Time) error {
	var users int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&users); err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if users > 0 {
		return nil
	}

	ids := map[string]int64{}
	for _, u := range []struct{ name, bio string }{
		{"Orange", "Основатель Chatty Orange. Пишу о Go и веб-разработке."},
		{"admin", "Администратор сайта"},
		{"python_dev", "Python, Django и машинное обучение"},
		{"traveler", "Путешествия и фотография"},
	} {
		id, err := s.CreateUser(ctx, u.name, u.bio)
		if err != nil {
			return fmt.Errorf("creating user %s: %w", u.name, err)
		}
		ids[u.name] = id
	}

	posts := []struct {
		author, title, body string
		age                 time.Duration
	}{
		{"Orange", "Hello World", "Первый пост на Chatty Orange. Добро пожаловать!", 72 * time.Hour},
		{"Orange", "Веб-разработка на Go", "Роутеры, middleware и graceful shutdown.", 48 * time.Hour},
		{"Orange", "QLED телевизоры", "Сравнение QLED и OLED телевизоров.", 24 * time.Hour},
		{"python_dev", "Django для начинающих", "Модели, представления и шаблоны в Django.", 36 * time.Hour},
		{"python_dev", "Машинное обучение", "Заметки о машинном обучении и нейросетях.", 12 * time.Hour},
		{"traveler", "Путешествия по Грузии", "Маршрут на две недели.", 6 * time.Hour},
	}
	postIDs := make([]int64, 0, len(posts))
	for _, p := range posts {
		id, err := s.CreatePost(ctx, ids[p.author], p.title, p.body, now.Add(-p.age))
		if err != nil {
			return fmt.Errorf("creating post %q: %w", p.title, err)
		}
		postIDs = append(postIDs, id)
	}

	if _, err := s.AddComment(ctx, postIDs[0], ids["admin"], "Отличное начало!", now.Add(-70*time.Hour)); err != nil {
		return err
	}
	if _, err := s.AddComment(ctx, postIDs[0], ids["traveler"], "Рад быть здесь", now.Add(-60*time.Hour)); err != nil {
		return err
	}
	for _, liker := range []string{"admin", "traveler"} {
		if err := s.Like(ctx, postIDs[0], ids[liker]); err != nil {
			return err
		}
	}
	if err := s.Subscribe(ctx, ids["admin"], ids["Orange"]); err != nil {
		return err
	}
	return s.Subscribe(ctx, ids["traveler"], ids["Orange"])
}
