package assistant

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatty-orange/server/internal/assistant/classify"
	"github.com/chatty-orange/server/internal/assistant/dispatch"
	"github.com/chatty-orange/server/internal/assistant/graph"
	"github.com/chatty-orange/server/internal/assistant/llm"
	"github.com/chatty-orange/server/internal/assistant/metrics"
	"github.com/chatty-orange/server/internal/assistant/model"
	"github.com/chatty-orange/server/internal/assistant/ratelimit"
	"github.com/chatty-orange/server/internal/assistant/repo"
	errx "github.com/chatty-orange/server/internal/core/error"
)

var seedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newService(t *testing.T, clock *testClock) *Service {
	t.Helper()
	ctx := context.Background()

	store, err := repo.OpenContentStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, repo.Seed(ctx, store, seedNow))

	runner, err := graph.Build(ctx, graph.Config{
		Classifier: classify.New(),
		Dispatcher: dispatch.New(store, llm.Static{Reply: "Я помощник Chatty Orange."}, model.DefaultDispatchConfig()),
		Now:        clock.Now,
	})
	require.NoError(t, err)

	limiter := ratelimit.New(
		ratelimit.NewMemoryStore(ratelimit.WithStoreClock(clock.Now)),
		ratelimit.WithClock(clock.Now),
	)
	return NewService(limiter, runner, model.DefaultLimiterConfig(), metrics.New(prometheus.NewRegistry()))
}

func guest(ip string) model.CallerInfo {
	return model.CallerInfo{IP: ip}
}

func TestHandleFindUser(t *testing.T) {
	s := newService(t, &testClock{now: seedNow})

	resp, err := s.Handle(context.Background(), model.AssistantRequest{
		RawText: "Найди пользователя Orange",
		Caller:  guest("10.0.0.1"),
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "@Orange")
	assert.Contains(t, resp.Text, "Постов: 3")
	assert.Equal(t, "2024-05-01T12:00:00Z", resp.Timestamp)
}

func TestHandleUserPostsIsNotKeywordSearch(t *testing.T) {
	s := newService(t, &testClock{now: seedNow})

	resp, err := s.Handle(context.Background(), model.AssistantRequest{
		RawText: "какие статьи у Orange",
		Caller:  guest("10.0.0.1"),
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "Orange")
	assert.Contains(t, resp.Text, "Hello World")
	assert.NotContains(t, resp.Text, "ключевым словом")
}

func TestHandleMissingPostIsStillAnAnswer(t *testing.T) {
	s := newService(t, &testClock{now: seedNow})

	resp, err := s.Handle(context.Background(), model.AssistantRequest{
		RawText: "расскажи о посте 99999",
		Caller:  guest("10.0.0.1"),
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "не найден")
}

func TestHandleRateLimitsSixteenthCall(t *testing.T) {
	clock := &testClock{now: seedNow}
	s := newService(t, clock)
	req := model.AssistantRequest{RawText: "привет", Caller: guest("10.0.0.2")}

	for i := 0; i < 15; i++ {
		_, err := s.Handle(context.Background(), req)
		require.NoError(t, err, "call %d", i+1)
		clock.now = clock.now.Add(time.Second)
	}

	_, err := s.Handle(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, http.StatusTooManyRequests, errx.StatusOf(err))
	assert.Contains(t, errx.MessageOf(err), "15 запросов в минуту")

	var appErr *errx.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 45*time.Second, appErr.RetryAfter)

	// A different address is unaffected.
	_, err = s.Handle(context.Background(), model.AssistantRequest{RawText: "привет", Caller: guest("10.0.0.3")})
	assert.NoError(t, err)
}

func TestHandleGeneralChatLengthBoundary(t *testing.T) {
	s := newService(t, &testClock{now: seedNow})

	_, err := s.Handle(context.Background(), model.AssistantRequest{
		ExplicitIntent: "general_chat",
		RawText:        strings.Repeat("а", 2000),
		Caller:         guest("10.0.0.4"),
	})
	require.NoError(t, err)

	_, err = s.Handle(context.Background(), model.AssistantRequest{
		ExplicitIntent: "general_chat",
		RawText:        strings.Repeat("а", 2001),
		Caller:         guest("10.0.0.4"),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errx.StatusOf(err))
	assert.Contains(t, errx.MessageOf(err), "2000")
}

func TestHandleUnknownIntent(t *testing.T) {
	s := newService(t, &testClock{now: seedNow})

	_, err := s.Handle(context.Background(), model.AssistantRequest{
		ExplicitIntent: "delete_everything",
		Caller:         guest("10.0.0.5"),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errx.StatusOf(err))
	assert.Contains(t, errx.MessageOf(err), "delete_everything")
}

func TestIdentityKind(t *testing.T) {
	assert.Equal(t, "user", identityKind("user_5"))
	assert.Equal(t, "ip", identityKind("ip_1.2.3.4"))
	assert.Equal(t, "anonymous", identityKind("anonymous"))
}

func TestIntentLabel(t *testing.T) {
	assert.Equal(t, "general_chat", intentLabel(""))
	assert.Equal(t, "faq", intentLabel("faq"))
	assert.Equal(t, "unknown", intentLabel("drop table"))
}
