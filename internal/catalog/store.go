package catalog

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/joelkehle/competitor-analysis/internal/analysis"
	"github.com/joelkehle/competitor-analysis/internal/logger"
)

var ErrInvalidRecord = errors.New("competitor record needs an id and a name")

// Store persists canonical competitor records in SQL and serves lookups
// from an in-memory copy loaded on open. Writes go to the database first.
type Store struct {
	db  *sqlx.DB
	mu  sync.RWMutex
	mem *analysis.StaticCatalog
}

const schema = `
CREATE TABLE IF NOT EXISTS competitors (
	id             TEXT PRIMARY KEY,
	position       INTEGER NOT NULL DEFAULT 0,
	name           TEXT NOT NULL,
	url            TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	pricing_model  TEXT NOT NULL DEFAULT '',
	starting_price TEXT NOT NULL DEFAULT '',
	currency       TEXT NOT NULL DEFAULT 'USD',
	founded        TEXT NOT NULL DEFAULT '',
	employees      TEXT NOT NULL DEFAULT '',
	funding        TEXT NOT NULL DEFAULT '',
	headquarters   TEXT NOT NULL DEFAULT '',
	market_share   TEXT NOT NULL DEFAULT '',
	is_custom      INTEGER NOT NULL DEFAULT 0
);
`

type competitorRow struct {
	ID            string `db:"id"`
	Position      int    `db:"position"`
	Name          string `db:"name"`
	URL           string `db:"url"`
	Description   string `db:"description"`
	PricingModel  string `db:"pricing_model"`
	StartingPrice string `db:"starting_price"`
	Currency      string `db:"currency"`
	Founded       string `db:"founded"`
	Employees     string `db:"employees"`
	Funding       string `db:"funding"`
	Headquarters  string `db:"headquarters"`
	MarketShare   string `db:"market_share"`
	IsCustom      int    `db:"is_custom"`
}

// Open connects to driver ("sqlite" or "postgres"), creates the schema and
// loads every record. With seedBuiltins the built-in records are inserted
// unless a row with the same id already exists.
func Open(driver, dsn string, seedBuiltins bool) (*Store, error) {
	if driver == "sqlite" && !strings.Contains(dsn, "?") {
		dsn += "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{db: db}
	if seedBuiltins {
		if err := s.seed(analysis.KnownCompetitors()); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
	}
	if err := s.load(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) seed(records []analysis.Competitor) error {
	query := s.db.Rebind(`INSERT INTO competitors (id, position, name, url, description, pricing_model,
		starting_price, currency, founded, employees, funding, headquarters, market_share, is_custom)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`)
	for i, c := range records {
		if _, err := s.db.Exec(query, rowArgs(toRow(c, i))...); err != nil {
			return fmt.Errorf("insert %s: %w", c.ID, err)
		}
	}
	return nil
}

func (s *Store) load() error {
	var rows []competitorRow
	if err := s.db.Select(&rows, "SELECT * FROM competitors ORDER BY position, id"); err != nil {
		return err
	}
	records := make([]analysis.Competitor, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.competitor())
	}
	s.mu.Lock()
	s.mem = analysis.NewStaticCatalog(records)
	s.mu.Unlock()
	logger.Log.WithField("records", len(records)).Debug("catalog loaded")
	return nil
}

// Lookup resolves a name or id, case-insensitively.
func (s *Store) Lookup(name string) (analysis.Competitor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mem.Lookup(name)
}

func (s *Store) List() []analysis.Competitor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mem.List()
}

// Add inserts or replaces a record.
func (s *Store) Add(c analysis.Competitor) error {
	if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Name) == "" {
		return ErrInvalidRecord
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	position := indexOf(s.mem.List(), c.ID)
	query := s.db.Rebind(`INSERT INTO competitors (id, position, name, url, description, pricing_model,
		starting_price, currency, founded, employees, funding, headquarters, market_share, is_custom)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			url = excluded.url,
			description = excluded.description,
			pricing_model = excluded.pricing_model,
			starting_price = excluded.starting_price,
			currency = excluded.currency,
			founded = excluded.founded,
			employees = excluded.employees,
			funding = excluded.funding,
			headquarters = excluded.headquarters,
			market_share = excluded.market_share,
			is_custom = excluded.is_custom`)
	if _, err := s.db.Exec(query, rowArgs(toRow(c, position))...); err != nil {
		return fmt.Errorf("save %s: %w", c.ID, err)
	}
	s.mem.Add(c)
	return nil
}

// indexOf returns len(list) for an id not in list.
func indexOf(list []analysis.Competitor, id string) int {
	for i, c := range list {
		if c.ID == id {
			return i
		}
	}
	return len(list)
}

func toRow(c analysis.Competitor, position int) competitorRow {
	r := competitorRow{
		ID:            c.ID,
		Position:      position,
		Name:          c.Name,
		URL:           c.URL,
		Description:   c.Description,
		PricingModel:  c.Pricing.Model,
		StartingPrice: c.Pricing.StartingPrice,
		Currency:      c.Pricing.Currency,
		Founded:       c.KeyInfo.Founded,
		Employees:     c.KeyInfo.Employees,
		Funding:       c.KeyInfo.Funding,
		Headquarters:  c.KeyInfo.Headquarters,
		MarketShare:   c.MarketShare,
	}
	if c.IsCustom {
		r.IsCustom = 1
	}
	return r
}

func rowArgs(r competitorRow) []any {
	return []any{
		r.ID, r.Position, r.Name, r.URL, r.Description, r.PricingModel,
		r.StartingPrice, r.Currency, r.Founded, r.Employees, r.Funding,
		r.Headquarters, r.MarketShare, r.IsCustom,
	}
}

func (r competitorRow) competitor() analysis.Competitor {
	return analysis.Competitor{
		ID:          r.ID,
		Name:        r.Name,
		URL:         r.URL,
		Description: r.Description,
		Pricing: analysis.Pricing{
			Model:         r.PricingModel,
			StartingPrice: r.StartingPrice,
			Currency:      r.Currency,
		},
		KeyInfo: analysis.KeyInfo{
			Founded:      r.Founded,
			Employees:    r.Employees,
			Funding:      r.Funding,
			Headquarters: r.Headquarters,
		},
		MarketShare: r.MarketShare,
		IsCustom:    r.IsCustom != 0,
	}
}
