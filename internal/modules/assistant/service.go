package assistant

import (
	"context"
	"fmt"
	"strings"

	"tutorhub/internal/pkg/apperr"
)

// tutorSnapshotLimit bounds how many profiles get embedded into the system
// prompt.
const tutorSnapshotLimit = 10

type Service struct {
	tutors TutorReader
	chat   ChatClient
}

func NewService(tutors TutorReader, chat ChatClient) *Service {
	return &Service{tutors: tutors, chat: chat}
}

// Recommend forwards the caller's conversation to the model with a snapshot
// of tutor profiles prepended. Nothing is kept between calls; the caller
// resends the full history every time.
func (s *Service) Recommend(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if len(req.Messages) == 0 {
		return nil, apperr.Validation("Messages array is required")
	}

	tutors, err := s.tutors.List(ctx, tutorSnapshotLimit)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(tutors))
	for _, t := range tutors {
		name := ""
		if t.User != nil {
			name = t.User.FullName
		}
		lines = append(lines, fmt.Sprintf("Nama: %s, Subjek: %s, Gaya: %s", name, t.Subjects, t.Style))
	}

	system := Message{
		Role: "system",
		Content: fmt.Sprintf(
			"Berikut adalah daftar tutor:\n%s\nGunakan data ini untuk merekomendasikan tutor yang cocok berdasarkan preferensi user.",
			strings.Join(lines, "\n"),
		),
	}

	messages := append([]Message{system}, req.Messages...)
	reply, err := s.chat.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	return &ChatResponse{Reply: reply}, nil
}
