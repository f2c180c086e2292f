package dispatch

import (
	"context"
	"fmt"

	"github.com/chatty-orange/server/internal/assistant/model"
)

const (
	maxUserPosts       = 10
	maxSearchResults   = 10
	maxPostComments    = 5
	maxActivityItems   = 3
	maxRecommendations = 5
)

// Lookup answers the content intents. A miss is a normal answer; only
// collaborator failures return an error.
func (d *Dispatcher) Lookup(ctx context.Context, c model.Classification, req model.AssistantRequest) (string, error) {
	if !c.Resolved() {
		return helpFor(c.Intent), nil
	}

	ctx, cancel := d.lookupContext(ctx)
	defer cancel()

	switch c.Intent {
	case model.IntentUserPostsQuery:
		return d.userPosts(ctx, c.Entity.Text)
	case model.IntentFindPostByKeyword:
		return d.searchPosts(ctx, c.Entity.Text)
	case model.IntentFindUserByUsername:
		return d.userProfile(ctx, c.Entity.Text)
	case model.IntentGetPostDetails:
		return d.postDetails(ctx, c.Entity.ID)
	case model.IntentGetUserActivity:
		return d.userActivity(ctx, c.Entity)
	case model.IntentSubscriptionRecommendations:
		return d.recommendations(ctx, req.Caller)
	}
	return "", fmt.Errorf("intent %s is not a lookup", c.Intent)
}

func helpFor(intent model.Intent) string {
	switch intent {
	case model.IntentUserPostsQuery:
		return helpUserPosts
	case model.IntentFindPostByKeyword:
		return helpKeyword
	case model.IntentFindUserByUsername:
		return helpUsername
	case model.IntentGetPostDetails:
		return helpPostID
	default:
		return helpActivity
	}
}

func (d *Dispatcher) userPosts(ctx context.Context, username string) (string, error) {
	user, found, err := d.repo.FindUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if !found {
		return fmt.Sprintf(userNotFoundFmt, username), nil
	}

	posts, err := d.repo.ListRecentPostsByAuthor(ctx, user.ID, maxUserPosts)
	if err != nil {
		return "", err
	}
	if len(posts) == 0 {
		return fmt.Sprintf("📭 У пользователя @%s пока нет постов.", user.Username), nil
	}

	var b builder
	b.line("📚 **Посты пользователя @%s:**", user.Username)
	b.blank()
	for _, p := range posts {
		b.line("• **%s**", p.Title)
		b.line("  Ссылка: %s", p.Permalink())
	}
	return b.text(), nil
}

func (d *Dispatcher) searchPosts(ctx context.Context, keyword string) (string, error) {
	posts, err := d.repo.FindPostsByTitleOrBodyContains(ctx, keyword, maxSearchResults)
	if err != nil {
		return "", err
	}
	if len(posts) == 0 {
		return fmt.Sprintf(postsNotFoundFmt, keyword), nil
	}

	var b builder
	b.line("🔍 **Найденные посты по запросу \"%s\":**", keyword)
	b.blank()
	for _, p := range posts {
		b.line("• **%s** от @%s", p.Title, p.AuthorUsername)
		b.line("  Ссылка: %s", p.Permalink())
	}
	return b.text(), nil
}

func (d *Dispatcher) userProfile(ctx context.Context, username string) (string, error) {
	user, found, err := d.repo.FindUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if !found {
		return fmt.Sprintf(userNotFoundFmt, username), nil
	}

	var b builder
	b.line("👤 **Найден пользователь @%s!**", user.Username)
	b.blank()
	if user.Bio != "" {
		b.line("📝 **О себе:** %s", clip(user.Bio, 200))
		b.blank()
	}
	b.line("📊 **Статистика:**")
	b.line("• Постов: %d", user.PostCount)
	b.line("• Подписчиков: %d", user.SubscriberCount)
	if user.MostRecentPostTitle != "" {
		b.blank()
		b.line("📰 Последний пост: \"%s\"", user.MostRecentPostTitle)
	}
	return b.text(), nil
}

func (d *Dispatcher) postDetails(ctx context.Context, id int64) (string, error) {
	post, found, err := d.repo.GetPostByID(ctx, id, maxPostComments)
	if err != nil {
		return "", err
	}
	if !found {
		return postNotFound, nil
	}

	var b builder
	b.line("🎯 **Вот что я нашел:**")
	b.blank()
	b.line("📰 **%s**", post.Title)
	b.line("✍️ Автор: @%s", post.AuthorUsername)
	b.line("👍 Лайков: %d", post.LikeCount)
	if post.Body != "" {
		b.blank()
		b.line("%s", clip(post.Body, 500))
	}
	b.blank()
	if len(post.RecentComments) == 0 {
		b.line(noCommentsYet)
		return b.text(), nil
	}
	b.line("**Последние комментарии:**")
	for _, c := range post.RecentComments {
		b.line("💬 @%s: %s", c.AuthorUsername, clip(c.Text, 100))
	}
	return b.text(), nil
}

func (d *Dispatcher) userActivity(ctx context.Context, target model.Entity) (string, error) {
	id := target.ID
	if target.Kind == model.EntityUsername {
		user, found, err := d.repo.FindUserByUsername(ctx, target.Text)
		if err != nil {
			return "", err
		}
		if !found {
			return activityNotFound, nil
		}
		id = user.ID
	}

	activity, found, err := d.repo.GetUserByID(ctx, id, maxActivityItems)
	if err != nil {
		return "", err
	}
	if !found {
		return activityNotFound, nil
	}

	var b builder
	b.line("📊 **Последняя активность @%s:**", activity.Username)
	b.blank()
	b.line("**Недавние посты:**")
	if len(activity.RecentPosts) == 0 {
		b.line(noPostsYet)
	}
	for _, p := range activity.RecentPosts {
		b.line("📝 **%s**", p.Title)
		b.line("Ссылка: %s", p.Permalink())
	}
	b.blank()
	b.line("**Недавние комментарии:**")
	if len(activity.RecentComments) == 0 {
		b.line(noCommentsYet)
	}
	for _, c := range activity.RecentComments {
		b.line("💬 Прокомментировал: \"%s\"", clip(c.Text, 60))
		b.line("Ссылка: %s", c.Permalink())
	}
	return b.text(), nil
}

func (d *Dispatcher) recommendations(ctx context.Context, caller model.CallerInfo) (string, error) {
	var (
		exclude  int64
		followed []int64
		err      error
	)
	if caller.IsAuthenticated && caller.UserID != nil {
		exclude = *caller.UserID
		if followed, err = d.repo.ListFollowedIDs(ctx, exclude); err != nil {
			return "", err
		}
	}

	authors, err := d.repo.RankActiveAuthors(ctx, exclude, followed, maxRecommendations)
	if err != nil {
		return "", err
	}
	if len(authors) == 0 {
		return recommendationsNone, nil
	}

	var b builder
	b.line("🌟 **Рекомендации подписок для @%s:**", caller.DisplayName())
	b.blank()
	b.line("Рекомендую подписаться на этих авторов:")
	b.blank()
	for _, a := range authors {
		b.line("🔸 **@%s** (%d постов)", a.Username, a.PostCount)
		if a.Bio != "" {
			b.line("   %s", clip(a.Bio, 80))
		}
		if a.MostRecentPostTitle != "" {
			b.line("   📰 Последний пост: \"%s\"", clip(a.MostRecentPostTitle, 30))
		}
	}
	return b.text(), nil
}
