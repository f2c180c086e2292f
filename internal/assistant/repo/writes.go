package repo

import (
	"context"
	"strings"
	"time"

	errx "github.com/chatty-orange/server/internal/core/error"
)

// Write helpers back the seed command and tests. The assistant itself only
// reads.

func (s *ContentStore) CreateUser(ctx context.Context, username, bio string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, username_lc, bio, joined_at) VALUES (?, ?, ?, ?)`,
		username, strings.ToLower(username), bio, time.Now().UnixMilli())
	if err != nil {
		return 0, errx.WrapSQL(err)
	}
	return res.LastInsertId()
}

func (s *ContentStore) CreatePost(ctx context.Context, authorID int64, title, body string, pubDate time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (author_id, title, title_lc, body, body_lc, pub_date) VALUES (?, ?, ?, ?, ?, ?)`,
		authorID, title, strings.ToLower(title), body, strings.ToLower(body), pubDate.UnixMilli())
	if err != nil {
		return 0, errx.WrapSQL(err)
	}
	return res.LastInsertId()
}

func (s *ContentStore) AddComment(ctx context.Context, postID, authorID int64, body string, at time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO comments (post_id, author_id, body, created_at) VALUES (?, ?, ?, ?)`,
		postID, authorID, body, at.UnixMilli())
	if err != nil {
		return 0, errx.WrapSQL(err)
	}
	return res.LastInsertId()
}

func (s *ContentStore) Like(ctx context.Context, postID, userID int64) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO post_likes (post_id, user_id) VALUES (?, ?)`, postID, userID)
	return errx.WrapSQL(err)
}

func (s *ContentStore) Subscribe(ctx context.Context, subscriberID, authorID int64) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO subscriptions (subscriber_id, author_id) VALUES (?, ?)`, subscriberID, authorID)
	return errx.WrapSQL(err)
}
