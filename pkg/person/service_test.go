package person

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamcal/teamcal/pkg/event"
)

func TestIdFromName(t *testing.T) {
	assert.Equal(t, "person-priya-patel", IdFromName("Priya Patel"))
	assert.Equal(t, "person-lucas-mart-nez", IdFromName("Lucas Martínez"))
	assert.Contains(t, IdFromName("!!!"), "person-")
}

func TestServiceImpl_CreatePerson(t *testing.T) {
	t.Run("should derive id from name", func(t *testing.T) {
		// given
		service := NewService(NewRepositoryStub())

		// when
		created, err := service.CreatePerson(context.Background(), Person{Name: " Emily Chen ", Role: "Finance Lead"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "person-emily-chen", created.Id)
		assert.Equal(t, "Emily Chen", created.Name)
	})

	t.Run("should not overwrite person with the same name", func(t *testing.T) {
		service := NewService(NewRepositoryStub(Person{Id: "person-emily-chen", Name: "Emily Chen"}))

		created, err := service.CreatePerson(context.Background(), Person{Name: "Emily Chen"})

		require.NoError(t, err)
		assert.NotEqual(t, "person-emily-chen", created.Id)
		people, _ := service.ListPeople(context.Background())
		assert.Len(t, people, 2)
	})

	t.Run("should require name", func(t *testing.T) {
		service := NewService(NewRepositoryStub())

		_, err := service.CreatePerson(context.Background(), Person{Name: " "})

		assert.True(t, event.IsValidationError(err))
	})

	t.Run("should reject duplicate email", func(t *testing.T) {
		service := NewService(NewRepositoryStub(Person{Id: "person-a", Name: "A", Email: "a@warp.dev"}))

		_, err := service.CreatePerson(context.Background(), Person{Name: "B", Email: "A@warp.dev"})

		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})
}

func TestServiceImpl_Participants(t *testing.T) {
	service := NewService(NewRepositoryStub(
		Person{Id: "person-b", Name: "Bella", Email: "bella@warp.dev"},
		Person{Id: "person-a", Name: "Adam"},
	))

	participants, err := service.Participants(context.Background())

	require.NoError(t, err)
	require.Len(t, participants, 2)
	assert.Equal(t, event.Participant{Id: "person-a", PersonId: "person-a", Name: "Adam", Role: event.Organizer}, participants[0])
	assert.Equal(t, "bella@warp.dev", participants[1].Email)
}
