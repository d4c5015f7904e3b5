package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"leadtrack/internal/models"
)

var _ models.MappingStore = (*Store)(nil)

// Store wraps the read/write queries against the SQLite tables. Timestamps
// are stored as unix milliseconds so the matcher can break created_at ties
// at full precision before falling back to the insertion id.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Leads returns the lead-record view of the store.
func (s *Store) Leads() models.LeadStore { return leadView{s} }

// Checks returns the check-record view of the store.
func (s *Store) Checks() models.CheckStore { return checkView{s} }

const leadColumns = `id, app_id, sub1, sub2, sub3, sub4, sub5, sub6, sub7, sub8, sub9,
	camp_id, pixel, token, fbclid, ip, fingerprint, click_id, created_at`

func scanLead(row interface{ Scan(...any) error }) (*models.LeadRecord, error) {
	var l models.LeadRecord
	var createdAt int64
	err := row.Scan(
		&l.ID, &l.AppID, &l.Sub1, &l.Sub2, &l.Sub3, &l.Sub4, &l.Sub5,
		&l.Sub6, &l.Sub7, &l.Sub8, &l.Sub9, &l.CampID, &l.Pixel, &l.Token,
		&l.Fbclid, &l.IP, &l.Fingerprint, &l.ClickID, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	l.CreatedAt = time.UnixMilli(createdAt)
	return &l, nil
}

type leadView struct{ s *Store }

var _ models.LeadStore = leadView{}

func (v leadView) Insert(ctx context.Context, lead *models.LeadRecord) error {
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}

	res, err := v.s.db.ExecContext(ctx, `
		INSERT INTO leads(
			app_id, sub1, sub2, sub3, sub4, sub5, sub6, sub7, sub8, sub9,
			camp_id, pixel, token, fbclid, ip, fingerprint, click_id, created_at
		)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, lead.AppID, lead.Sub1, lead.Sub2, lead.Sub3, lead.Sub4, lead.Sub5,
		lead.Sub6, lead.Sub7, lead.Sub8, lead.Sub9, lead.CampID, lead.Pixel,
		lead.Token, lead.Fbclid, lead.IP, lead.Fingerprint, lead.ClickID,
		lead.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert lead id: %w", err)
	}
	lead.ID = id
	return nil
}

func (v leadView) FindLatest(ctx context.Context, appID, ip, fingerprint string) (*models.LeadRecord, error) {
	row := v.s.db.QueryRowContext(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE app_id = ? AND ip = ? AND fingerprint = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, appID, ip, fingerprint)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find latest lead: %w", err)
	}
	return lead, nil
}

func (v leadView) List(ctx context.Context, filter models.RecordFilter) ([]*models.LeadRecord, error) {
	query, args := buildListQuery("SELECT "+leadColumns+" FROM leads", filter)
	rows, err := v.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var result []*models.LeadRecord
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		result = append(result, lead)
	}
	return result, rows.Err()
}

func (v leadView) Count(ctx context.Context) (int64, error) {
	var n int64
	err := v.s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return n, nil
}

type checkView struct{ s *Store }

var _ models.CheckStore = checkView{}

func (v checkView) Insert(ctx context.Context, check *models.CheckRecord) error {
	if check.CreatedAt.IsZero() {
		check.CreatedAt = time.Now()
	}

	matched := 0
	if check.Matched {
		matched = 1
	}

	res, err := v.s.db.ExecContext(ctx, `
		INSERT INTO checks(app_id, ip, fingerprint, click_id, matched, lead_id, redirect_url, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, check.AppID, check.IP, check.Fingerprint, check.ClickID, matched,
		check.LeadID, check.RedirectURL, check.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert check: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert check id: %w", err)
	}
	check.ID = id
	return nil
}

func (v checkView) List(ctx context.Context, filter models.RecordFilter) ([]*models.CheckRecord, error) {
	query, args := buildListQuery(
		`SELECT id, app_id, ip, fingerprint, click_id, matched, lead_id, redirect_url, created_at FROM checks`,
		filter,
	)
	rows, err := v.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	defer rows.Close()

	var result []*models.CheckRecord
	for rows.Next() {
		var c models.CheckRecord
		var matched int
		var createdAt int64
		err := rows.Scan(&c.ID, &c.AppID, &c.IP, &c.Fingerprint, &c.ClickID,
			&matched, &c.LeadID, &c.RedirectURL, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		c.Matched = matched != 0
		c.CreatedAt = time.UnixMilli(createdAt)
		result = append(result, &c)
	}
	return result, rows.Err()
}

func (v checkView) Count(ctx context.Context) (int64, error) {
	var n int64
	err := v.s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM checks`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count checks: %w", err)
	}
	return n, nil
}

// buildListQuery appends the filter conditions and keeps insertion order.
func buildListQuery(base string, filter models.RecordFilter) (string, []any) {
	query := base
	var conds []string
	var args []any

	if filter.AppID != "" {
		conds = append(conds, "app_id = ?")
		args = append(args, filter.AppID)
	}
	if filter.Start != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, filter.Start.UnixMilli())
	}
	if filter.End != nil {
		conds = append(conds, "created_at <= ?")
		args = append(args, filter.End.UnixMilli())
	}

	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	return query + " ORDER BY id", args
}

func (s *Store) UpsertAppMapping(ctx context.Context, appID, url string) (*models.AppMapping, error) {
	now := time.Now().UnixMilli()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_mappings(app_id, url, created_at, updated_at)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(app_id) DO UPDATE SET
			url=excluded.url,
			updated_at=excluded.updated_at
	`, appID, url, now, now)
	if err != nil {
		return nil, fmt.Errorf("upsert app mapping: %w", err)
	}
	return s.GetAppMapping(ctx, appID)
}

func (s *Store) GetAppMapping(ctx context.Context, appID string) (*models.AppMapping, error) {
	var m models.AppMapping
	var created, updated int64
	err := s.db.QueryRowContext(ctx, `
		SELECT app_id, url, created_at, updated_at FROM app_mappings WHERE app_id = ?
	`, appID).Scan(&m.AppID, &m.URL, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get app mapping: %w", err)
	}
	m.CreatedAt = time.UnixMilli(created)
	m.UpdatedAt = time.UnixMilli(updated)
	return &m, nil
}

func (s *Store) ListAppMappings(ctx context.Context) ([]*models.AppMapping, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT app_id, url, created_at, updated_at FROM app_mappings ORDER BY app_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list app mappings: %w", err)
	}
	defer rows.Close()

	var result []*models.AppMapping
	for rows.Next() {
		var m models.AppMapping
		var created, updated int64
		if err := rows.Scan(&m.AppID, &m.URL, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan app mapping: %w", err)
		}
		m.CreatedAt = time.UnixMilli(created)
		m.UpdatedAt = time.UnixMilli(updated)
		result = append(result, &m)
	}
	return result, rows.Err()
}

func (s *Store) UpsertPixelToken(ctx context.Context, pixel, token string) (*models.PixelTokenBinding, error) {
	now := time.Now().UnixMilli()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pixel_tokens(pixel, token, created_at, updated_at)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(pixel) DO UPDATE SET
			token=excluded.token,
			updated_at=excluded.updated_at
	`, pixel, token, now, now)
	if err != nil {
		return nil, fmt.Errorf("upsert pixel token: %w", err)
	}
	return s.GetPixelToken(ctx, pixel)
}

func (s *Store) GetPixelToken(ctx context.Context, pixel string) (*models.PixelTokenBinding, error) {
	var b models.PixelTokenBinding
	var created, updated int64
	err := s.db.QueryRowContext(ctx, `
		SELECT pixel, token, created_at, updated_at FROM pixel_tokens WHERE pixel = ?
	`, pixel).Scan(&b.Pixel, &b.Token, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pixel token: %w", err)
	}
	b.CreatedAt = time.UnixMilli(created)
	b.UpdatedAt = time.UnixMilli(updated)
	return &b, nil
}

func (s *Store) ListPixelTokens(ctx context.Context) ([]*models.PixelTokenBinding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pixel, token, created_at, updated_at FROM pixel_tokens ORDER BY pixel
	`)
	if err != nil {
		return nil, fmt.Errorf("list pixel tokens: %w", err)
	}
	defer rows.Close()

	var result []*models.PixelTokenBinding
	for rows.Next() {
		var b models.PixelTokenBinding
		var created, updated int64
		if err := rows.Scan(&b.Pixel, &b.Token, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan pixel token: %w", err)
		}
		b.CreatedAt = time.UnixMilli(created)
		b.UpdatedAt = time.UnixMilli(updated)
		result = append(result, &b)
	}
	return result, rows.Err()
}
