package repo

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chatty-orange/server/internal/assistant/model"
	errx "github.com/chatty-orange/server/internal/core/error"
	logx "github.com/chatty-orange/server/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ContentStore is the SQLite-backed ContentRepository. Lower-cased shadow
// columns carry case-insensitive matching because SQLite folds ASCII only.
type ContentStore struct {
	db *sql.DB
}

type SQLiteConfig struct {
	// Path is a database file or ":memory:".
	Path string `envconfig:"SQLITE_PATH" default:"data/assistant.db"`
}

// OpenContentStore opens the database and applies pending migrations.
func OpenContentStore(path string) (*ContentStore, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and avoids
	// "database is locked" errors.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA foreign_keys = ON"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	s := &ContentStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *ContentStore) Close() error {
	return s.db.Close()
}

func (s *ContentStore) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		version, err := strconv.Atoi(strings.SplitN(name, "_", 2)[0])
		if err != nil {
			return fmt.Errorf("invalid migration filename %q: %w", name, err)
		}

		var applied int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&applied); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if applied > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version, applied_at) VALUES (?, ?)", version, time.Now().UnixMilli()); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		logx.Debug().Int("version", version).Msg("applied migration")
	}
	return nil
}

// ================ reads ================

func (s *ContentStore) FindPostsByTitleOrBodyContains(ctx context.Context, substring string, limit int) ([]model.PostSummary, error) {
	needle := strings.ToLower(strings.TrimSpace(substring))
	if needle == "" {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.title, u.username, p.pub_date
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE instr(p.title_lc, ?) > 0 OR instr(p.body_lc, ?) > 0
		ORDER BY p.pub_date DESC, p.id DESC
		LIMIT ?`, needle, needle, limit)
	if err != nil {
		logx.Error().Err(err).Str("substring", needle).Msg("failed to search posts")
		return nil, errx.WrapSQL(err)
	}
	return scanPostSummaries(rows)
}

func (s *ContentStore) GetPostByID(ctx context.Context, id int64, commentLimit int) (model.PostDetails, bool, error) {
	var (
		d   model.PostDetails
		pub int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.title, u.username, p.body, p.pub_date,
		       (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id)
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.id = ?`, id).Scan(&d.ID, &d.Title, &d.AuthorUsername, &d.Body, &pub, &d.LikeCount)
	if err == sql.ErrNoRows {
		return model.PostDetails{}, false, nil
	}
	if err != nil {
		logx.Error().Err(err).Int64("post_id", id).Msg("failed to load post")
		return model.PostDetails{}, false, errx.WrapSQL(err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.post_id, u.username, c.body, c.created_at
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT ?`, id, commentLimit)
	if err != nil {
		logx.Error().Err(err).Int64("post_id", id).Msg("failed to load comments")
		return model.PostDetails{}, false, errx.WrapSQL(err)
	}
	d.RecentComments, err = scanComments(rows)
	if err != nil {
		return model.PostDetails{}, false, err
	}
	return d, true, nil
}

func (s *ContentStore) FindUserByUsername(ctx context.Context, username string) (model.UserProfile, bool, error) {
	var p model.UserProfile
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.bio,
		       (SELECT COUNT(*) FROM posts WHERE author_id = u.id),
		       (SELECT COUNT(*) FROM subscriptions WHERE author_id = u.id),
		       COALESCE((SELECT title FROM posts WHERE author_id = u.id ORDER BY pub_date DESC, id DESC LIMIT 1), '')
		FROM users u WHERE u.username_lc = ?`,
		strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@")),
	).Scan(&p.ID, &p.Username, &p.Bio, &p.PostCount, &p.SubscriberCount, &p.MostRecentPostTitle)
	if err == sql.ErrNoRows {
		return model.UserProfile{}, false, nil
	}
	if err != nil {
		logx.Error().Err(err).Str("username", username).Msg("failed to load user")
		return model.UserProfile{}, false, errx.WrapSQL(err)
	}
	return p, true, nil
}

func (s *ContentStore) GetUserByID(ctx context.Context, id int64, limit int) (model.UserActivity, bool, error) {
	a := model.UserActivity{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT username FROM users WHERE id = ?`, id).Scan(&a.Username)
	if err == sql.ErrNoRows {
		return model.UserActivity{}, false, nil
	}
	if err != nil {
		logx.Error().Err(err).Int64("user_id", id).Msg("failed to load user")
		return model.UserActivity{}, false, errx.WrapSQL(err)
	}

	if a.RecentPosts, err = s.ListRecentPostsByAuthor(ctx, id, limit); err != nil {
		return model.UserActivity{}, false, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.post_id, u.username, c.body, c.created_at
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.author_id = ?
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT ?`, id, limit)
	if err != nil {
		logx.Error().Err(err).Int64("user_id", id).Msg("failed to load user comments")
		return model.UserActivity{}, false, errx.WrapSQL(err)
	}
	if a.RecentComments, err = scanComments(rows); err != nil {
		return model.UserActivity{}, false, err
	}
	return a, true, nil
}

func (s *ContentStore) ListRecentPostsByAuthor(ctx context.Context, authorID int64, limit int) ([]model.PostSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.title, u.username, p.pub_date
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.author_id = ?
		ORDER BY p.pub_date DESC, p.id DESC
		LIMIT ?`, authorID, limit)
	if err != nil {
		logx.Error().Err(err).Int64("author_id", authorID).Msg("failed to list posts")
		return nil, errx.WrapSQL(err)
	}
	return scanPostSummaries(rows)
}

func (s *ContentStore) ListFollowedIDs(ctx context.Context, subscriberID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT author_id FROM subscriptions WHERE subscriber_id = ? ORDER BY author_id`, subscriberID)
	if err != nil {
		logx.Error().Err(err).Int64("subscriber_id", subscriberID).Msg("failed to list subscriptions")
		return nil, errx.WrapSQL(err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, errx.WrapSQL(err)
		}
		ids = append(ids, id)
	}
	return ids, errx.WrapSQL(rows.Err())
}

// RankActiveAuthors orders authors with at least one post by post count,
// then latest publication, then id.
func (s *ContentStore) RankActiveAuthors(ctx context.Context, excludeUserID int64, excludeIDs []int64, limit int) ([]model.AuthorCandidate, error) {
	args := []any{excludeUserID}
	exclude := ""
	if len(excludeIDs) > 0 {
		exclude = " AND u.id NOT IN (" + strings.TrimSuffix(strings.Repeat("?,", len(excludeIDs)), ",") + ")"
		for _, id := range excludeIDs {
			args = append(args, id)
		}
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.username, u.bio, COUNT(p.id) AS post_count, MAX(p.pub_date) AS last_pub,
		       (SELECT title FROM posts WHERE author_id = u.id ORDER BY pub_date DESC, id DESC LIMIT 1)
		FROM users u JOIN posts p ON p.author_id = u.id
		WHERE u.id != ?`+exclude+`
		GROUP BY u.id
		ORDER BY post_count DESC, last_pub DESC, u.id ASC
		LIMIT ?`, args...)
	if err != nil {
		logx.Error().Err(err).Msg("failed to rank authors")
		return nil, errx.WrapSQL(err)
	}
	defer rows.Close()

	var out []model.AuthorCandidate
	for rows.Next() {
		var (
			c    model.AuthorCandidate
			last int64
		)
		if err := rows.Scan(&c.ID, &c.Username, &c.Bio, &c.PostCount, &last, &c.MostRecentPostTitle); err != nil {
			return nil, errx.WrapSQL(err)
		}
		out = append(out, c)
	}
	return out, errx.WrapSQL(rows.Err())
}

func (s *ContentStore) GetProfileStats(ctx context.Context, userID int64) (model.ProfileStats, error) {
	var st model.ProfileStats
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM posts WHERE author_id = ?),
		       (SELECT COUNT(*) FROM subscriptions WHERE author_id = ?),
		       (SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = ?)`,
		userID, userID, userID).Scan(&st.PostCount, &st.SubscriberCount, &st.SubscriptionCount)
	if err != nil {
		logx.Error().Err(err).Int64("user_id", userID).Msg("failed to load profile stats")
		return model.ProfileStats{}, errx.WrapSQL(err)
	}
	return st, nil
}

func scanPostSummaries(rows *sql.Rows) ([]model.PostSummary, error) {
	defer rows.Close()
	var out []model.PostSummary
	for rows.Next() {
		var (
			p   model.PostSummary
			pub int64
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.AuthorUsername, &pub); err != nil {
			return nil, errx.WrapSQL(err)
		}
		p.PubDate = time.UnixMilli(pub).UTC()
		out = append(out, p)
	}
	return out, errx.WrapSQL(rows.Err())
}

func scanComments(rows *sql.Rows) ([]model.CommentView, error) {
	defer rows.Close()
	var out []model.CommentView
	for rows.Next() {
		var (
			c  model.CommentView
			at int64
		)
		if err := rows.Scan(&c.PostID, &c.AuthorUsername, &c.Text, &at); err != nil {
			return nil, errx.WrapSQL(err)
		}
		c.CreatedAt = time.UnixMilli(at).UTC()
		out = append(out, c)
	}
	return out, errx.WrapSQL(rows.Err())
}
