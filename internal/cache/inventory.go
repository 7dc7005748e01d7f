package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	QuestionKeyPrefix = "question:%d"
	AnswerKeyPrefix   = "answer:%d"
	TagListKey        = "tags:all"
)

const (
	UserTTL     = 5 * time.Minute
	QuestionTTL = 10 * time.Minute
	AnswerTTL   = 10 * time.Minute
	TagListTTL  = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func QuestionKey(questionID uint) string {
	return fmt.Sprintf(QuestionKeyPrefix, questionID)
}

func AnswerKey(answerID uint) string {
	return fmt.Sprintf(AnswerKeyPrefix, answerID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateQuestion(ctx context.Context, questionID uint) {
	Invalidate(ctx, QuestionKey(questionID))
}

func InvalidateAnswer(ctx context.Context, answerID uint) {
	Invalidate(ctx, AnswerKey(answerID))
}

func InvalidateTagList(ctx context.Context) {
	Invalidate(ctx, TagListKey)
}
