package person

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/teamcal/teamcal/pkg/event"
)

type Service interface {
	ListPeople(ctx context.Context) ([]Person, error)
	GetPerson(ctx context.Context, id string) (Person, error)
	CreatePerson(ctx context.Context, p Person) (Person, error)
	DeletePerson(ctx context.Context, id string) error
	// Participants returns the roster as organizer participants.
	Participants(ctx context.Context) ([]event.Participant, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// IdFromName derives a roster id such as "person-priya-patel".
func IdFromName(name string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		return "person-" + uuid.NewString()
	}
	return "person-" + slug
}

func (s *ServiceImpl) ListPeople(ctx context.Context) ([]Person, error) {
	return s.repo.GetPeople(ctx)
}

func (s *ServiceImpl) GetPerson(ctx context.Context, id string) (Person, error) {
	return s.repo.GetPerson(ctx, id)
}

func (s *ServiceImpl) CreatePerson(ctx context.Context, p Person) (Person, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	if p.Name == "" {
		return Person{}, &event.ValidationError{Problems: []string{"Name is required."}}
	}
	if p.Id == "" {
		p.Id = IdFromName(p.Name)
		if _, err := s.repo.GetPerson(ctx, p.Id); err == nil {
			p.Id = p.Id + "-" + uuid.NewString()[:8]
		}
	}
	stored, err := s.repo.StorePerson(ctx, p)
	if err != nil {
		return Person{}, fmt.Errorf("failed to store person: %w", err)
	}
	return stored, nil
}

func (s *ServiceImpl) DeletePerson(ctx context.Context, id string) error {
	return s.repo.DeletePerson(ctx, id)
}

func (s *ServiceImpl) Participants(ctx context.Context) ([]event.Participant, error) {
	people, err := s.repo.GetPeople(ctx)
	if err != nil {
		return nil, err
	}
	participants := make([]event.Participant, 0, len(people))
	for _, p := range people {
		participants = append(participants, ToParticipant(p, event.Organizer))
	}
	return participants, nil
}
