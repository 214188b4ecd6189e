package templates

import "time"

// Data builders return plain maps so jobs survive the JSON round trip
// through the queue unchanged.

func NewWelcomeData(appName, name, email string) map[string]any {
	return map[string]any{
		"AppName": appName,
		"Name":    name,
		"Email":   email,
	}
}

func NewCommentNotificationData(appName, authorName, commenterName, postID, postText, commentText string, at time.Time) map[string]any {
	return map[string]any{
		"AppName":       appName,
		"Name":          authorName,
		"CommenterName": commenterName,
		"PostID":        postID,
		"PostExcerpt":   excerpt(postText, 80),
		"CommentText":   commentText,
		"Time":          at.UTC().Format("02 January 2006, 15:04"),
	}
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
