package ics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// FeedState remembers the last successful import of a feed.
type FeedState struct {
	FeedId       string
	ETag         string
	LastSyncedAt *time.Time
	EventCount   int
}

type Repository interface {
	// GetState returns an empty state for feeds that were never imported.
	GetState(ctx context.Context, feedId string) (FeedState, error)
	GetStates(ctx context.Context) ([]FeedState, error)
	StoreState(ctx context.Context, state FeedState) error
}

type repositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetState(ctx context.Context, feedId string) (FeedState, error) {
	state := FeedState{FeedId: feedId}
	err := r.db.QueryRow(ctx, `SELECT etag, last_synced_at, event_count FROM ics_feed_state WHERE feed_id = $1`, feedId).
		Scan(&state.ETag, &state.LastSyncedAt, &state.EventCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return state, nil
		}
		err := fmt.Errorf("could not get feed state: %w", err)
		log.Error(err)
		return FeedState{}, err
	}
	return state, nil
}

func (r *repositoryImpl) GetStates(ctx context.Context) ([]FeedState, error) {
	rows, err := r.db.Query(ctx, `SELECT feed_id, etag, last_synced_at, event_count FROM ics_feed_state ORDER BY feed_id`)
	if err != nil {
		err := fmt.Errorf("could not query feed states: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	states := make([]FeedState, 0)
	for rows.Next() {
		var s FeedState
		if err := rows.Scan(&s.FeedId, &s.ETag, &s.LastSyncedAt, &s.EventCount); err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		states = append(states, s)
	}
	return states, rows.Err()
}

func (r *repositoryImpl) StoreState(ctx context.Context, state FeedState) error {
	query := `INSERT INTO ics_feed_state (feed_id, etag, last_synced_at, event_count) VALUES ($1, $2, $3, $4)
			  ON CONFLICT (feed_id) DO UPDATE SET etag = EXCLUDED.etag, last_synced_at = EXCLUDED.last_synced_at,
			      event_count = EXCLUDED.event_count`
	if _, err := r.db.Exec(ctx, query, state.FeedId, state.ETag, state.LastSyncedAt, state.EventCount); err != nil {
		err := fmt.Errorf("could not store feed state: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
