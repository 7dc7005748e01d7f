// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"quorum/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// tagPool is the vocabulary demo questions draw their tags from.
var tagPool = []string{
	"go", "postgresql", "redis", "docker", "kubernetes", "linux",
	"networking", "testing", "performance", "security", "rest", "grpc",
	"c++", "c#", "python", "javascript",
}

// Options tunes seeding behavior.
type Options struct {
	// SkipBcrypt stores a plaintext password instead of hashing. Dev only,
	// makes large seeds much faster.
	SkipBcrypt bool
	// MaxDays spreads created_at timestamps over this many days back.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rnd  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	// #nosec G404: acceptable for seeding
	return &Factory{db: db, opts: opts, rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (f *Factory) spreadCreatedAt() time.Time {
	daysBack := f.rnd.Intn(f.opts.MaxDays)
	hoursBack := f.rnd.Intn(24)
	minsBack := f.rnd.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Role:     models.RoleUser,
	}

	if f.opts.SkipBcrypt {
		user.Password = "Password12345"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Password12345"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateQuestion constructs and persists a sample question with 1-4 tags
// drawn from the tag pool.
func (f *Factory) CreateQuestion(author *models.User, overrides ...func(*models.Question)) (*models.Question, error) {
	question := &models.Question{
		Title:       "How do I " + strings.ToLower(strings.TrimSuffix(gofakeit.Sentence(6), ".")) + "?",
		Description: gofakeit.Paragraph(1, 3, 8, "\n"),
		AuthorID:    author.ID,
		CreatedAt:   f.spreadCreatedAt(),
	}

	for _, override := range overrides {
		override(question)
	}

	if err := f.db.Create(question).Error; err != nil {
		return nil, err
	}

	count := 1 + f.rnd.Intn(4)
	picked := f.rnd.Perm(len(tagPool))[:count]
	names := make([]string, 0, count)
	for _, idx := range picked {
		name := tagPool[idx]
		if err := f.db.Create(&models.QuestionTag{QuestionID: question.ID, Name: name}).Error; err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	question.TagNames = names
	return question, nil
}

// CreateAnswer constructs and persists a sample answer on the provided
// question authored by the provided user.
func (f *Factory) CreateAnswer(author *models.User, question *models.Question, overrides ...func(*models.Answer)) (*models.Answer, error) {
	answer := &models.Answer{
		Content:    gofakeit.Paragraph(1, 2, 10, "\n"),
		QuestionID: question.ID,
		AuthorID:   author.ID,
		CreatedAt:  f.spreadCreatedAt(),
	}

	for _, override := range overrides {
		override(answer)
	}

	if err := f.db.Create(answer).Error; err != nil {
		return nil, err
	}
	return answer, nil
}

// CreateVote persists a vote edge from `voter` on the target.
func (f *Factory) CreateVote(voter *models.User, targetType models.TargetType, targetID uint, value int) error {
	vote := &models.Vote{
		UserID:     voter.ID,
		TargetType: targetType,
		TargetID:   targetID,
		Value:      value,
	}
	return f.db.Create(vote).Error
}

// CreateNotification persists a notification record directly, bypassing the
// dispatcher. Used to produce realistic inboxes.
func (f *Factory) CreateNotification(recipient, actor *models.User, question *models.Question, overrides ...func(*models.Notification)) (*models.Notification, error) {
	notification := &models.Notification{
		RecipientID: recipient.ID,
		ActorID:     actor.ID,
		Kind:        models.NotificationUpvote,
		Message:     fmt.Sprintf("%s upvoted your question: %q", actor.Username, question.Title),
		QuestionID:  question.ID,
	}

	for _, override := range overrides {
		override(notification)
	}

	if err := f.db.Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}
