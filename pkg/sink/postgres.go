package sink

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dd0wney/cluso-supplygen/pkg/logging"
	"github.com/dd0wney/cluso-supplygen/pkg/synth"
	"github.com/dd0wney/cluso-supplygen/pkg/tables"
)

// TxBeginner is the subset of *pgxpool.Pool the loader needs.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresLoader replaces the six tables in a schema with a dataset.
type PostgresLoader struct {
	db     TxBeginner
	pool   *pgxpool.Pool
	schema string
	opts   options
}

// NewPostgresLoader connects to databaseURL and verifies the connection.
func NewPostgresLoader(ctx context.Context, databaseURL, schema string, opts ...Option) (*PostgresLoader, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// One load runs at a time; a small pool is enough.
	cfg.MaxConns = 4
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 5 * time.Minute
	cfg.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	l := NewPostgresLoaderWithDB(pool, schema, opts...)
	l.pool = pool
	return l, nil
}

// NewPostgresLoaderWithDB wraps an existing pool or connection.
func NewPostgresLoaderWithDB(db TxBeginner, schema string, opts ...Option) *PostgresLoader {
	if schema == "" {
		schema = "public"
	}
	return &PostgresLoader{db: db, schema: schema, opts: applyOptions(opts)}
}

// Close releases the pool if the loader owns one.
func (l *PostgresLoader) Close() {
	if l.pool != nil {
		l.pool.Close()
	}
}

// Load creates missing tables, truncates them and bulk-copies ds in a
// single transaction. It returns the rows copied per table.
func (l *PostgresLoader) Load(ctx context.Context, ds *synth.Dataset) (map[string]int64, error) {
	start := time.Now()
	counts, err := l.load(ctx, ds)
	elapsed := time.Since(start)

	l.opts.rec.RecordSinkUpload(NamePostgres, err, elapsed)
	if err != nil {
		l.opts.log.Error("postgres load failed", logging.Error(err))
		return nil, err
	}
	l.opts.log.Info("postgres load complete",
		logging.String("schema", l.schema),
		logging.Count(len(counts)),
		logging.Latency(elapsed),
	)
	return counts, nil
}

func (l *PostgresLoader) load(ctx context.Context, ds *synth.Dataset) (map[string]int64, error) {
	tx, err := l.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin load: %w", err)
	}
	defer func() {
		if rerr := tx.Rollback(ctx); rerr != nil && !errors.Is(rerr, pgx.ErrTxClosed) {
			l.opts.log.Warn("rollback failed", logging.Error(rerr))
		}
	}()

	if _, err := tx.Exec(ctx, SchemaDDL(l.schema)); err != nil {
		return nil, fmt.Errorf("migrate schema %s: %w", l.schema, err)
	}

	counts := make(map[string]int64, len(tables.TableOrder))
	for _, table := range tables.TableOrder {
		ident := pgx.Identifier{l.schema, table}
		if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+ident.Sanitize()); err != nil {
			return nil, fmt.Errorf("truncate %s: %w", table, err)
		}

		spec := tableSpecs[table]
		n, err := tx.CopyFrom(ctx, ident, spec.columns, pgx.CopyFromRows(spec.rows(ds)))
		if err != nil {
			return nil, fmt.Errorf("copy %s: %w", table, err)
		}
		counts[table] = n
		l.opts.log.Debug("table copied", logging.Table(table), logging.Rows(int(n)))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit load: %w", err)
	}
	return counts, nil
}

// columnTypes lists every non-text column; anything else is TEXT.
var columnTypes = map[string]string{
	"TIER":                   "INTEGER",
	"FINANCIAL_HEALTH_SCORE": "DOUBLE PRECISION",
	"CRITICALITY_SCORE":      "DOUBLE PRECISION",
	"INVENTORY_DAYS":         "INTEGER",
	"QUANTITY_PER_UNIT":      "DOUBLE PRECISION",
	"QUANTITY":               "INTEGER",
	"UNIT_PRICE":             "DOUBLE PRECISION",
	"ORDER_DATE":             "DATE",
	"DELIVERY_DATE":          "DATE",
	"SHIP_DATE":              "DATE",
	"WEIGHT_KG":              "INTEGER",
	"VALUE_USD":              "DOUBLE PRECISION",
	"BASE_RISK_SCORE":        "DOUBLE PRECISION",
	"GEOPOLITICAL_RISK":      "DOUBLE PRECISION",
	"NATURAL_DISASTER_RISK":  "DOUBLE PRECISION",
	"INFRASTRUCTURE_SCORE":   "DOUBLE PRECISION",
}

type tableSpec struct {
	columns []string
	rows    func(ds *synth.Dataset) [][]any
}

var tableSpecs = map[string]tableSpec{
	synth.TableVendors: {synth.VendorColumns, func(ds *synth.Dataset) [][]any {
		return valuesOf(ds.Vendors, func(v synth.Vendor) []any {
			return []any{v.ID, v.Name, v.CountryCode, v.City, v.Phone, v.Tier, v.FinancialHealth}
		})
	}},
	synth.TableMaterials: {synth.MaterialColumns, func(ds *synth.Dataset) [][]any {
		return valuesOf(ds.Materials, func(m synth.Material) []any {
			return []any{m.ID, m.Description, string(m.Group), m.Unit, m.Criticality, m.InventoryDays}
		})
	}},
	synth.TableBOM: {synth.BOMColumns, func(ds *synth.Dataset) [][]any {
		return valuesOf(ds.BOM, func(e synth.BOMEdge) []any {
			return []any{e.ID, e.ParentID, e.ChildID, e.QuantityPerUnit}
		})
	}},
	synth.TablePurchaseOrders: {synth.OrderColumns, func(ds *synth.Dataset) [][]any {
		return valuesOf(ds.PurchaseOrders, func(p synth.PurchaseOrder) []any {
			return []any{p.ID, p.VendorID, p.MaterialID, p.Quantity, p.UnitPrice, p.OrderDate, p.DeliveryDate, string(p.Status)}
		})
	}},
	synth.TableTradeData: {synth.TradeColumns, func(ds *synth.Dataset) [][]any {
		return valuesOf(ds.TradeFlows, func(t synth.TradeFlow) []any {
			return []any{
				t.ID, t.ShipperName, t.ShipperCountry, t.ConsigneeName, t.ConsigneeCountry,
				t.HSCode, t.HSDescription, t.ShipDate, t.WeightKg, t.ValueUSD,
				t.PortOfOrigin, t.PortOfDestination,
			}
		})
	}},
	synth.TableRegions: {synth.RegionColumns, func(ds *synth.Dataset) [][]any {
		return valuesOf(ds.Regions, func(r synth.RegionRisk) []any {
			return []any{r.Code, r.Name, r.BaseRisk, r.Geopolitical, r.NaturalHazard, r.Infrastructure}
		})
	}},
}

func valuesOf[T any](items []T, values func(T) []any) [][]any {
	out := make([][]any, len(items))
	for i, item := range items {
		out[i] = values(item)
	}
	return out
}

// SchemaDDL returns idempotent CREATE statements for every table. Column
// names are quoted so they keep their upper-case spelling.
func SchemaDDL(schema string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE SCHEMA IF NOT EXISTS %s;\n", pgx.Identifier{schema}.Sanitize())
	for _, table := range tables.TableOrder {
		spec := tableSpecs[table]
		fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", pgx.Identifier{schema, table}.Sanitize())
		for i, col := range spec.columns {
			typ, ok := columnTypes[col]
			if !ok {
				typ = "TEXT"
			}
			sep := ","
			if i == len(spec.columns)-1 {
				sep = ""
			}
			pk := ""
			if i == 0 {
				pk = " PRIMARY KEY"
			}
			fmt.Fprintf(&b, "\t%s %s%s%s\n", pgx.Identifier{col}.Sanitize(), typ, pk, sep)
		}
		b.WriteString(");\n")
	}
	return b.String()
}
