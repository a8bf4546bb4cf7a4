package storage

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var symbolRefPattern = regexp.MustCompile(`^(\w+)\.(\w+)\.(\w+)$`)

// SymbolRef points at a column holding tickers: schema.table.column.
type SymbolRef struct {
	Schema string
	Table  string
	Column string
}

func (r SymbolRef) String() string {
	return r.Schema + "." + r.Table + "." + r.Column
}

// ParseSymbolRef recognises schema.table.column references. Plain tickers,
// including dotted ones such as VOD.L, are not references.
func ParseSymbolRef(s string) (SymbolRef, bool) {
	m := symbolRefPattern.FindStringSubmatch(s)
	if m == nil {
		return SymbolRef{}, false
	}
	return SymbolRef{Schema: m[1], Table: m[2], Column: m[3]}, true
}

// -----------------------------------------------------------------------------

type registeredSymbol struct {
	symbol string
	kind   string
	ref    string
}

// FilterAndRegisterSymbols expands references in raw into the tickers they
// contain, records every resulting symbol in the symbols table and returns
// the plain ticker list.
func (d *PostgresDB) FilterAndRegisterSymbols(sourceName string, raw []string) ([]string, error) {
	var (
		tickers  []string
		register []registeredSymbol
	)

	for _, sym := range raw {
		ref, ok := ParseSymbolRef(sym)
		if !ok {
			tickers = append(tickers, sym)
			register = append(register, registeredSymbol{symbol: sym, kind: "classic"})
			continue
		}

		loaded, err := d.GetSymbolsFromTable(ref)
		if err != nil {
			return tickers, fmt.Errorf("failed to load symbols from %s: %w", sym, err)
		}
		register = append(register, registeredSymbol{symbol: sym, kind: "postgres_ref", ref: ref.String()})
		for _, t := range loaded {
			tickers = append(tickers, t)
			register = append(register, registeredSymbol{symbol: t, kind: "classic", ref: ref.String()})
		}
	}

	if err := d.registerSymbols(sourceName, register); err != nil {
		return tickers, fmt.Errorf("failed to register symbols: %w", err)
	}
	return tickers, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) registerSymbols(sourceName string, symbols []registeredSymbol) error {
	if len(symbols) == 0 {
		return nil
	}

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(fmt.Sprintf(`
		INSERT INTO %s."symbols" (symbol, type, ref, source_name, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (symbol) DO UPDATE SET
			type = EXCLUDED.type,
			ref = EXCLUDED.ref,
			source_name = EXCLUDED.source_name,
			updated_at = EXCLUDED.updated_at
	`, quoteIdent(d.Schema)))
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, s := range symbols {
		if _, err := stmt.Exec(s.symbol, s.kind, s.ref, sourceName, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// -----------------------------------------------------------------------------

// GetSymbolsFromTable reads the non-empty values of the referenced column.
func (d *PostgresDB) GetSymbolsFromTable(ref SymbolRef) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s.%s`, quoteIdent(ref.Column), quoteIdent(ref.Schema), quoteIdent(ref.Table))

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols, rows.Err()
}
