package entity

import "errors"

// Policy violations raised by aggregate mutations. None of them mutate state.
var (
	ErrAlreadyLiked       = errors.New("post already liked")
	ErrNotLiked           = errors.New("post has not yet been liked")
	ErrCommentNotFound    = errors.New("comment does not exist")
	ErrExperienceNotFound = errors.New("experience not found")
	ErrEducationNotFound  = errors.New("education not found")
	ErrNotOwner           = errors.New("user not authorized")
)
