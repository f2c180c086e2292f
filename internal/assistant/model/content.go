package model

import (
	"fmt"
	"time"
)

// Permalink returns the public URL of a post.
func Permalink(postID int64) string {
	return fmt.Sprintf("/posts/%d/", postID)
}

type PostSummary struct {
	ID             int64
	Title          string
	AuthorUsername string
	PubDate        time.Time
}

func (p PostSummary) Permalink() string { return Permalink(p.ID) }

type CommentView struct {
	PostID         int64
	AuthorUsername string
	Text           string
	CreatedAt      time.Time
}

func (c CommentView) Permalink() string { return Permalink(c.PostID) }

type PostDetails struct {
	ID             int64
	Title          string
	AuthorUsername string
	Body           string
	LikeCount      int
	RecentComments []CommentView
}

type UserProfile struct {
	ID                  int64
	Username            string
	Bio                 string
	PostCount           int
	SubscriberCount     int
	MostRecentPostTitle string
}

type UserActivity struct {
	ID             int64
	Username       string
	RecentPosts    []PostSummary
	RecentComments []CommentView
}

type AuthorCandidate struct {
	ID                  int64
	Username            string
	Bio                 string
	PostCount           int
	MostRecentPostTitle string
}

type ProfileStats struct {
	PostCount         int
	SubscriberCount   int
	SubscriptionCount int
}
