package assistant

import (
	"context"

	"tutorhub/internal/domain"
)

type TutorReader interface {
	List(ctx context.Context, limit int) ([]domain.Tutor, error)
}

// ChatClient forwards a message list to the language model and returns the
// assistant's reply text.
type ChatClient interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
