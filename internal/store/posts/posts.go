// Package posts persists published posts with their predicted and actual
// engagement. It is the only state shared between the decision loop and the
// feedback reconciler.
package posts

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"wicketwire/internal/model"
)

// DB wraps the SQLite learning store.
type DB struct{ sql *sql.DB }

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS posts (
	  id TEXT PRIMARY KEY,
	  text TEXT NOT NULL,
	  emotion TEXT NOT NULL,
	  narrative TEXT NOT NULL,
	  score INTEGER NOT NULL DEFAULT 0,
	  predicted_score INTEGER,
	  actual_likes INTEGER,
	  actual_retweets INTEGER,
	  engagement_fetched_at TEXT,
	  created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at);
	`)
	return err
}

// InsertPost records a freshly published post with its predicted score.
// Engagement fields stay NULL until the reconciler backfills them.
func (d *DB) InsertPost(ctx context.Context, p model.PostRecord) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO posts(id, text, emotion, narrative, predicted_score, created_at) VALUES(?,?,?,?,?,?)`,
		p.ID, p.Text, string(p.Emotion), string(p.Narrative), p.PredictedScore, time.Now().UTC().Unix())
	return err
}

// UnresolvedIDs returns ids of posts with no engagement backfill yet,
// most recently created first.
func (d *DB) UnresolvedIDs(ctx context.Context, limit int) ([]string, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id FROM posts WHERE engagement_fetched_at IS NULL ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// BackfillEngagement writes actual engagement and the composite score
// exactly once per post; the NULL predicate makes a second write a no-op.
func (d *DB) BackfillEngagement(ctx context.Context, id string, likes, retweets int) error {
	_, err := d.sql.ExecContext(ctx,
		`UPDATE posts SET actual_likes=?, actual_retweets=?, score=?, engagement_fetched_at=? WHERE id=? AND engagement_fetched_at IS NULL`,
		likes, retweets, model.Composite(likes, retweets), time.Now().UTC().Format(time.RFC3339Nano), id)
	return err
}

// AvgScoreByEmotion maps each label to its average composite score.
func (d *DB) AvgScoreByEmotion(ctx context.Context) (map[model.Label]float64, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT emotion, AVG(score) FROM posts GROUP BY emotion`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[model.Label]float64)
	for rows.Next() {
		var emotion string
		var avg float64
		if err := rows.Scan(&emotion, &avg); err != nil {
			return nil, err
		}
		out[model.Label(emotion)] = avg
	}
	return out, rows.Err()
}

// GetPost loads one post by id.
func (d *DB) GetPost(ctx context.Context, id string) (model.PostRecord, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT id, text, emotion, narrative, score, predicted_score, actual_likes, actual_retweets, engagement_fetched_at FROM posts WHERE id=?`, id)
	var p model.PostRecord
	var emotion, narrative string
	var predicted, likes, retweets sql.NullInt64
	var fetchedAt sql.NullString
	if err := row.Scan(&p.ID, &p.Text, &emotion, &narrative, &p.CompositeScore, &predicted, &likes, &retweets, &fetchedAt); err != nil {
		return p, err
	}
	p.Emotion = model.Label(emotion)
	p.Narrative = model.Label(narrative)
	if predicted.Valid {
		v := int(predicted.Int64)
		p.PredictedScore = &v
	}
	if likes.Valid {
		v := int(likes.Int64)
		p.ActualLikes = &v
	}
	if retweets.Valid {
		v := int(retweets.Int64)
		p.ActualRetweets = &v
	}
	if fetchedAt.Valid {
		if ts, err := time.Parse(time.RFC3339Nano, fetchedAt.String); err == nil {
			p.EngagementFetchedAt = &ts
		}
	}
	return p, nil
}
