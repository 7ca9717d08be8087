package person

import "github.com/teamcal/teamcal/pkg/event"

type Person struct {
	Id    string
	Name  string
	Role  string
	Email string
	Team  string
}

// ToParticipant links p into an event with the given role.
func ToParticipant(p Person, role event.Role) event.Participant {
	return event.Participant{
		Id:       p.Id,
		PersonId: p.Id,
		Name:     p.Name,
		Email:    p.Email,
		Role:     role,
	}
}
