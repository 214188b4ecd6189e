package entity

import (
	"slices"
	"time"
)

// Post is authored content with embedded likes and comments.
// Name and AvatarURL are a snapshot of the author taken at creation and are
// never re-resolved when the author later changes them.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"date"`

	// Version backs optimistic concurrency; bumped by the store on each write.
	Version int64 `json:"-"`
}

type Like struct {
	ID     string `json:"id"`
	UserID string `json:"user"`
}

// Comment carries the same immutable author snapshot as Post.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}

// Normalize replaces nil sequences with empty ones so they persist and
// serialize as [] rather than null.
func (p *Post) Normalize() {
	if p.Likes == nil {
		p.Likes = []Like{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}

func (p *Post) OwnedBy(userID string) bool {
	return p.UserID == userID
}

func (p *Post) likeIndex(userID string) int {
	return slices.IndexFunc(p.Likes, func(l Like) bool { return l.UserID == userID })
}

func (p *Post) LikedBy(userID string) bool {
	return p.likeIndex(userID) != -1
}

// Like prepends a like for like.UserID unless that user already liked the post.
func (p *Post) Like(like Like) error {
	if p.LikedBy(like.UserID) {
		return ErrAlreadyLiked
	}
	p.Likes = slices.Insert(p.Likes, 0, like)
	return nil
}

// Unlike removes the caller's like by index. Only the first match goes, which
// is the only match while the one-like-per-user invariant holds.
func (p *Post) Unlike(userID string) error {
	idx := p.likeIndex(userID)
	if idx == -1 {
		return ErrNotLiked
	}
	p.Likes = slices.Delete(p.Likes, idx, idx+1)
	return nil
}

func (p *Post) AddComment(c Comment) {
	p.Comments = slices.Insert(p.Comments, 0, c)
}

// RemoveComment deletes the comment with the given id if it was written by
// userID.
func (p *Post) RemoveComment(commentID, userID string) error {
	idx := slices.IndexFunc(p.Comments, func(c Comment) bool { return c.ID == commentID })
	if idx == -1 {
		return ErrCommentNotFound
	}
	if p.Comments[idx].UserID != userID {
		return ErrNotOwner
	}
	p.Comments = slices.Delete(p.Comments, idx, idx+1)
	return nil
}

// Clone returns a deep copy so callers can mutate without aliasing store state.
func (p *Post) Clone() *Post {
	cp := *p
	cp.Likes = slices.Clone(p.Likes)
	cp.Comments = slices.Clone(p.Comments)
	cp.Normalize()
	return &cp
}
