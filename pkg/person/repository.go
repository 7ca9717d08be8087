package person

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrPersonNotFound = errors.New("person not found")
var ErrDuplicateEmail = errors.New("person with this email already exists")

type Repository interface {
	GetPeople(ctx context.Context) ([]Person, error)
	GetPerson(ctx context.Context, id string) (Person, error)
	StorePerson(ctx context.Context, p Person) (Person, error)
	DeletePerson(ctx context.Context, id string) error
}

type repositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetPeople(ctx context.Context) ([]Person, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, role, email, team FROM person ORDER BY name, id`)
	if err != nil {
		err := fmt.Errorf("could not query people: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	people := make([]Person, 0, 16)
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.Id, &p.Name, &p.Role, &p.Email, &p.Team); err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

func (r *repositoryImpl) GetPerson(ctx context.Context, id string) (Person, error) {
	var p Person
	err := r.db.QueryRow(ctx, `SELECT id, name, role, email, team FROM person WHERE id = $1`, id).
		Scan(&p.Id, &p.Name, &p.Role, &p.Email, &p.Team)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Person{}, ErrPersonNotFound
		}
		return Person{}, fmt.Errorf("could not get person: %w", err)
	}
	return p, nil
}

func (r *repositoryImpl) StorePerson(ctx context.Context, p Person) (Person, error) {
	query := `INSERT INTO person (id, name, role, email, team) VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role,
			      email = EXCLUDED.email, team = EXCLUDED.team`
	if _, err := r.db.Exec(ctx, query, p.Id, p.Name, p.Role, p.Email, p.Team); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Person{}, ErrDuplicateEmail
		}
		err := fmt.Errorf("could not store person: %w", err)
		log.Error(err)
		return Person{}, err
	}
	return p, nil
}

func (r *repositoryImpl) DeletePerson(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM person WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("could not delete person: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPersonNotFound
	}
	return nil
}
