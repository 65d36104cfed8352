package domain

import "errors"

var (
	ErrEmptyBatch        = errors.New("post batch is empty")
	ErrTopicNotPublished = errors.New("topic has never been published")
)
