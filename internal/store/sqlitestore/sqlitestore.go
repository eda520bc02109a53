// Package sqlitestore persists diary state in an embedded SQLite database.
// Each Update runs in one transaction: the user's full state is read,
// mutated, and written back, which gives the same lost-update protection
// as the JSON store's lock without holding it across users.
package sqlitestore

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/model"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store"
)

func init() {
	store.Register(store.BackendSQLite, func(path string) (store.Store, error) {
		return Open(path)
	})
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := applyMigrations(db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Users() ([]int64, error) {
	rows, err := s.db.Query(`
SELECT user_id FROM profiles
UNION
SELECT user_id FROM days
ORDER BY user_id
`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user ids: %w", err)
	}
	return ids, nil
}

func (s *Store) View(userID int64, fn func(*model.User) error) error {
	u, err := loadUser(s.db, userID)
	if err != nil {
		return err
	}
	return fn(u)
}

func (s *Store) Update(userID int64, fn func(*model.User) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	u, err := loadUser(tx, userID)
	if err != nil {
		return err
	}
	if err := fn(u); err != nil {
		return err
	}
	if err := writeUser(tx, userID, u); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func loadUser(q querier, userID int64) (*model.User, error) {
	u := &model.User{Days: map[string]*model.Day{}}

	var subEnd sql.NullString
	err := q.QueryRow(`
SELECT age, sex, height_cm, weight_kg, activity_factor, goal, kcal_target, protein_target, fat_target, carbs_target, subscription_end, trial_used
FROM profiles WHERE user_id = ?
`, userID).Scan(
		&u.Profile.Age, &u.Profile.Sex, &u.Profile.HeightCm, &u.Profile.WeightKg,
		&u.Profile.ActivityFactor, &u.Profile.Goal, &u.Profile.KcalTarget,
		&u.Profile.ProteinTarget, &u.Profile.FatTarget, &u.Profile.CarbsTarget,
		&subEnd, &u.Profile.TrialUsed,
	)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("load profile for user %d: %w", userID, err)
	}
	if subEnd.Valid {
		if end, err := time.Parse(time.RFC3339, subEnd.String); err == nil {
			u.Profile.SubscriptionEnd = &end
		}
	}

	promoRows, err := q.Query(`SELECT code FROM promo_redemptions WHERE user_id = ? ORDER BY code`, userID)
	if err != nil {
		return nil, fmt.Errorf("load promo redemptions for user %d: %w", userID, err)
	}
	defer promoRows.Close()
	for promoRows.Next() {
		var code string
		if err := promoRows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan promo code: %w", err)
		}
		u.Profile.UsedPromos = append(u.Profile.UsedPromos, code)
	}
	if err := promoRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promo codes: %w", err)
	}

	weightRows, err := q.Query(`SELECT date, weight_kg FROM weigh_ins WHERE user_id = ? ORDER BY position`, userID)
	if err != nil {
		return nil, fmt.Errorf("load weigh-ins for user %d: %w", userID, err)
	}
	defer weightRows.Close()
	for weightRows.Next() {
		var w model.WeightRecord
		if err := weightRows.Scan(&w.Date, &w.WeightKg); err != nil {
			return nil, fmt.Errorf("scan weigh-in: %w", err)
		}
		u.Weights = append(u.Weights, w)
	}
	if err := weightRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weigh-ins: %w", err)
	}

	rows, err := q.Query(`SELECT date, calories, protein_g, fat_g, carbs_g FROM days WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("load days for user %d: %w", userID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var date string
		d := &model.Day{}
		if err := rows.Scan(&date, &d.Calories, &d.ProteinG, &d.FatG, &d.CarbsG); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		u.Days[date] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate days: %w", err)
	}

	entryRows, err := q.Query(`
SELECT date, calories, protein_g, fat_g, carbs_g, IFNULL(description, ''), kcal, added_at
FROM entries WHERE user_id = ?
ORDER BY date, position
`, userID)
	if err != nil {
		return nil, fmt.Errorf("load entries for user %d: %w", userID, err)
	}
	defer entryRows.Close()
	for entryRows.Next() {
		var date string
		var e model.Entry
		var addedAt sql.NullString
		if err := entryRows.Scan(&date, &e.Calories, &e.ProteinG, &e.FatG, &e.CarbsG, &e.Description, &e.Kcal, &addedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if addedAt.Valid {
			if t, err := time.Parse(time.RFC3339, addedAt.String); err == nil {
				e.AddedAt = t
			}
		}
		d := u.Days[date]
		if d == nil {
			d = &model.Day{}
			u.Days[date] = d
		}
		d.History = append(d.History, e)
	}
	if err := entryRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return u, nil
}

// writeUser replaces the user's rows with the mutated state. State per user
// is small (days of one person), so a full rewrite keeps the write path
// identical to the JSON backend's.
func writeUser(q querier, userID int64, u *model.User) error {
	for _, table := range []string{"entries", "days", "promo_redemptions", "weigh_ins", "profiles"} {
		if _, err := q.Exec(`DELETE FROM `+table+` WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("clear %s for user %d: %w", table, userID, err)
		}
	}

	p := u.Profile
	var subEnd any
	if p.SubscriptionEnd != nil {
		subEnd = p.SubscriptionEnd.Format(time.RFC3339)
	}
	if _, err := q.Exec(`
INSERT INTO profiles(user_id, age, sex, height_cm, weight_kg, activity_factor, goal, kcal_target, protein_target, fat_target, carbs_target, subscription_end, trial_used)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, userID, p.Age, p.Sex, p.HeightCm, p.WeightKg, p.ActivityFactor, p.Goal, p.KcalTarget, p.ProteinTarget, p.FatTarget, p.CarbsTarget, subEnd, p.TrialUsed); err != nil {
		return fmt.Errorf("write profile for user %d: %w", userID, err)
	}

	for _, code := range p.UsedPromos {
		if _, err := q.Exec(`INSERT INTO promo_redemptions(user_id, code) VALUES(?, ?)`, userID, code); err != nil {
			return fmt.Errorf("write promo redemption %q for user %d: %w", code, userID, err)
		}
	}
	for i, w := range u.Weights {
		if _, err := q.Exec(`INSERT INTO weigh_ins(user_id, position, date, weight_kg) VALUES(?, ?, ?, ?)`, userID, i, w.Date, w.WeightKg); err != nil {
			return fmt.Errorf("write weigh-in %d for user %d: %w", i, userID, err)
		}
	}

	for date, d := range u.Days {
		if _, err := q.Exec(`
INSERT INTO days(user_id, date, calories, protein_g, fat_g, carbs_g)
VALUES(?, ?, ?, ?, ?, ?)
`, userID, date, d.Calories, d.ProteinG, d.FatG, d.CarbsG); err != nil {
			return fmt.Errorf("write day %s for user %d: %w", date, userID, err)
		}
		for i, e := range d.History {
			var addedAt any
			if !e.AddedAt.IsZero() {
				addedAt = e.AddedAt.Format(time.RFC3339)
			}
			if _, err := q.Exec(`
INSERT INTO entries(user_id, date, position, calories, protein_g, fat_g, carbs_g, description, kcal, added_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, userID, date, i, e.Calories, e.ProteinG, e.FatG, e.CarbsG, e.Description, e.Kcal, addedAt); err != nil {
				return fmt.Errorf("write entry %d of %s for user %d: %w", i, date, userID, err)
			}
		}
	}
	return nil
}
