package dispatch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/chatty-orange/server/internal/assistant/model"
)

type fakeRepo struct {
	users     map[string]model.UserProfile
	posts     map[int64]model.PostDetails
	byAuthor  map[int64][]model.PostSummary
	activity  map[int64]model.UserActivity
	followed  map[int64][]int64
	authors   []model.AuthorCandidate
	stats     model.ProfileStats
	err       error
	delay     time.Duration
	rankCalls []rankCall
}

type rankCall struct {
	exclude  int64
	excludes []int64
}

func (f *fakeRepo) wait(ctx context.Context) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

func (f *fakeRepo) FindPostsByTitleOrBodyContains(ctx context.Context, sub string, limit int) ([]model.PostSummary, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	var out []model.PostSummary
	for _, list := range f.byAuthor {
		for _, p := range list {
			if strings.Contains(strings.ToLower(p.Title), sub) && len(out) < limit {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) GetPostByID(ctx context.Context, id int64, _ int) (model.PostDetails, bool, error) {
	if err := f.wait(ctx); err != nil {
		return model.PostDetails{}, false, err
	}
	p, ok := f.posts[id]
	return p, ok, nil
}

func (f *fakeRepo) FindUserByUsername(ctx context.Context, name string) (model.UserProfile, bool, error) {
	if err := f.wait(ctx); err != nil {
		return model.UserProfile{}, false, err
	}
	u, ok := f.users[strings.ToLower(name)]
	return u, ok, nil
}

func (f *fakeRepo) GetUserByID(ctx context.Context, id int64, _ int) (model.UserActivity, bool, error) {
	if err := f.wait(ctx); err != nil {
		return model.UserActivity{}, false, err
	}
	a, ok := f.activity[id]
	return a, ok, nil
}

func (f *fakeRepo) ListRecentPostsByAuthor(ctx context.Context, id int64, limit int) ([]model.PostSummary, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	list := f.byAuthor[id]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (f *fakeRepo) ListFollowedIDs(ctx context.Context, id int64) ([]int64, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.followed[id], nil
}

func (f *fakeRepo) RankActiveAuthors(ctx context.Context, exclude int64, excludes []int64, limit int) ([]model.AuthorCandidate, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.rankCalls = append(f.rankCalls, rankCall{exclude: exclude, excludes: excludes})
	if len(f.authors) > limit {
		return f.authors[:limit], nil
	}
	return f.authors, nil
}

func (f *fakeRepo) GetProfileStats(ctx context.Context, _ int64) (model.ProfileStats, error) {
	if err := f.wait(ctx); err != nil {
		return model.ProfileStats{}, err
	}
	return f.stats, nil
}

type fakeGen struct {
	mu      sync.Mutex
	reply   string
	err     error
	delay   time.Duration
	prompts []string
}

func (g *fakeGen) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.reply, g.err
}

func (g *fakeGen) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

var errBoom = errors.New("boom")

func orangeRepo() *fakeRepo {
	return &fakeRepo{
		users: map[string]model.UserProfile{
			"orange": {ID: 1, Username: "Orange", Bio: "Пишу о Go", PostCount: 3, SubscriberCount: 2, MostRecentPostTitle: "QLED"},
			"empty":  {ID: 2, Username: "empty"},
		},
		byAuthor: map[int64][]model.PostSummary{
			1: {
				{ID: 3, Title: "QLED", AuthorUsername: "Orange"},
				{ID: 2, Title: "Go", AuthorUsername: "Orange"},
				{ID: 1, Title: "Hello World", AuthorUsername: "Orange"},
			},
		},
		posts: map[int64]model.PostDetails{
			1: {ID: 1, Title: "Hello World", AuthorUsername: "Orange", Body: strings.Repeat("б", 600), LikeCount: 2,
				RecentComments: []model.CommentView{{PostID: 1, AuthorUsername: "admin", Text: strings.Repeat("к", 150)}}},
			2: {ID: 2, Title: "Go", AuthorUsername: "Orange"},
		},
		activity: map[int64]model.UserActivity{
			1: {ID: 1, Username: "Orange",
				RecentPosts:    []model.PostSummary{{ID: 3, Title: "QLED"}},
				RecentComments: []model.CommentView{{PostID: 9, Text: "Отличный пост, спасибо"}}},
		},
		followed: map[int64][]int64{5: {1}},
		authors: []model.AuthorCandidate{
			{ID: 3, Username: "python_dev", PostCount: 2, Bio: strings.Repeat("b", 100), MostRecentPostTitle: strings.Repeat("t", 40)},
		},
	}
}
