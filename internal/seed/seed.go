package seed

import (
	"fmt"
	"log"

	"quorum/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ClearAll wipes all seeded tables. Child tables first so foreign keys hold.
func ClearAll(db *gorm.DB) error {
	for _, model := range []interface{}{
		&models.Notification{},
		&models.Vote{},
		&models.QuestionTag{},
		&models.Answer{},
		&models.Question{},
		&models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Seed populates the database with a mesh of users, questions, answers and
// votes. Votes are written as ledger edges, so the computed tallies are
// consistent by construction.
func Seed(db *gorm.DB, numUsers, numQuestions int, opts Options) error {
	log.Println("Starting database seeding...")
	f := NewFactory(db, opts)

	users := make([]*models.User, 0, numUsers+1)

	// A known admin account for local workflows.
	hashed, _ := bcrypt.GenerateFromPassword([]byte("AdminPassword1"), bcrypt.DefaultCost)
	admin, err := f.CreateUser(func(u *models.User) {
		u.Username = "admin"
		u.Email = "admin@quorum.local"
		u.Password = string(hashed)
		u.Role = models.RoleAdmin
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	users = append(users, admin)

	for i := 0; i < numUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	questions := make([]*models.Question, 0, numQuestions)
	for i := 0; i < numQuestions; i++ {
		author := users[f.rnd.Intn(len(users))]
		question, err := f.CreateQuestion(author)
		if err != nil {
			return fmt.Errorf("create question: %w", err)
		}
		questions = append(questions, question)

		numAnswers := f.rnd.Intn(4)
		for j := 0; j < numAnswers; j++ {
			answerer := users[f.rnd.Intn(len(users))]
			answer, err := f.CreateAnswer(answerer, question)
			if err != nil {
				return fmt.Errorf("create answer: %w", err)
			}

			if answerer.ID != author.ID {
				if _, err := f.CreateNotification(author, answerer, question, func(n *models.Notification) {
					n.Kind = models.NotificationAnswer
					n.Message = fmt.Sprintf("%s answered your question: %q", answerer.Username, question.Title)
					n.AnswerID = &answer.ID
				}); err != nil {
					return fmt.Errorf("create notification: %w", err)
				}
			}

			// A few votes per answer; one edge per (voter, answer).
			for _, voter := range pickVoters(f, users, 3) {
				if err := f.CreateVote(voter, models.TargetAnswer, answer.ID, voteValue(f)); err != nil {
					return fmt.Errorf("create answer vote: %w", err)
				}
			}
		}

		for _, voter := range pickVoters(f, users, 5) {
			value := voteValue(f)
			if err := f.CreateVote(voter, models.TargetQuestion, question.ID, value); err != nil {
				return fmt.Errorf("create question vote: %w", err)
			}
			if value == models.VoteUp && voter.ID != author.ID {
				if _, err := f.CreateNotification(author, voter, question); err != nil {
					return fmt.Errorf("create notification: %w", err)
				}
			}
		}
	}
	log.Printf("Created %d questions", len(questions))
	log.Println("Seeding complete")
	return nil
}

// pickVoters selects up to max distinct users.
func pickVoters(f *Factory, users []*models.User, max int) []*models.User {
	count := f.rnd.Intn(max + 1)
	if count > len(users) {
		count = len(users)
	}
	picked := f.rnd.Perm(len(users))[:count]
	out := make([]*models.User, 0, count)
	for _, idx := range picked {
		out = append(out, users[idx])
	}
	return out
}

// voteValue skews roughly 3:1 toward upvotes.
func voteValue(f *Factory) int {
	if f.rnd.Intn(4) == 0 {
		return models.VoteDown
	}
	return models.VoteUp
}
