// Package postgres serves explore queries and bulk mutations from a
// PostgreSQL database, behind the same Source contract the in-memory
// store implements.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/lib/pq"

	"terragrip/internal/domain"
	"terragrip/internal/explore"
)

// Adapter is the database-backed data source.
type Adapter struct {
	db  *sql.DB
	log logr.Logger
}

// Open connects to the database and configures the pool.
func Open(dsn string, log logr.Logger) (*Adapter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return &Adapter{db: db, log: log}, nil
}

// AttachDB wraps an existing connection pool.
func AttachDB(db *sql.DB, log logr.Logger) *Adapter {
	return &Adapter{db: db, log: log}
}

// Close closes the connection pool.
func (a *Adapter) Close() error { return a.db.Close() }

// Fetch evaluates one compiled query against the database.
func (a *Adapter) Fetch(ctx context.Context, q explore.Query) (explore.Result, error) {
	spec, ok := entitySpecs[q.Entity]
	if !ok {
		return explore.Result{}, fmt.Errorf("unknown entity %q", q.Entity)
	}

	countSQL, countArgs, err := buildCount(spec, q.Filters)
	if err != nil {
		return explore.Result{}, fmt.Errorf("fetch %s: %w", q.Entity, err)
	}
	var total int
	if err := a.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return explore.Result{}, fmt.Errorf("count %s: %w", q.Entity, err)
	}

	pageSQL, pageArgs, err := buildSelect(spec, q)
	if err != nil {
		return explore.Result{}, fmt.Errorf("fetch %s: %w", q.Entity, err)
	}
	a.log.V(1).Info("fetch page", "entity", string(q.Entity), "sql", pageSQL)

	rows, err := a.db.QueryContext(ctx, pageSQL, pageArgs...)
	if err != nil {
		return explore.Result{}, fmt.Errorf("query %s: %w", q.Entity, err)
	}
	defer rows.Close()

	res := explore.Result{Entity: q.Entity, Version: q.Version, Total: total}
	if q.Entity == domain.EntityPlans {
		res.Rollups = make(map[domain.PlanID]domain.PlanRollup)
	}
	for rows.Next() {
		row, err := scanRow(q.Entity, rows)
		if err != nil {
			return explore.Result{}, fmt.Errorf("scan %s: %w", q.Entity, err)
		}
		res.Rows = append(res.Rows, row)
		if pr, ok := row.(explore.PlanRow); ok {
			res.Rollups[pr.Plan.ID] = pr.Rollup
		}
	}
	if err := rows.Err(); err != nil {
		return explore.Result{}, fmt.Errorf("query %s: %w", q.Entity, err)
	}
	return res, nil
}

// ResolveMatching materializes every matching row id, ignoring pagination.
func (a *Adapter) ResolveMatching(ctx context.Context, entity domain.EntityKind, filters []explore.Filter) ([]string, error) {
	spec, ok := entitySpecs[entity]
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", entity)
	}
	idSQL, args, err := buildIDs(spec, filters)
	if err != nil {
		return nil, fmt.Errorf("resolve matching %s: %w", entity, err)
	}

	rows, err := a.db.QueryContext(ctx, idSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("resolve matching %s: %w", entity, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ApplyTag adds or removes a tag on the given district ids. The WHERE
// guard makes re-applies no-ops, so the affected count reflects rows
// actually changed.
func (a *Adapter) ApplyTag(ctx context.Context, ids []string, tag string, add bool) (int, error) {
	var res sql.Result
	var err error
	if add {
		res, err = a.db.ExecContext(ctx,
			`UPDATE districts SET tags = array_append(tags, $1) WHERE id = ANY($2) AND NOT ($1 = ANY(tags))`,
			tag, pq.Array(ids))
	} else {
		res, err = a.db.ExecContext(ctx,
			`UPDATE districts SET tags = array_remove(tags, $1) WHERE id = ANY($2) AND $1 = ANY(tags)`,
			tag, pq.Array(ids))
	}
	if err != nil {
		return 0, fmt.Errorf("apply tag: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ApplyPlan adds or removes plan membership on the given district ids.
func (a *Adapter) ApplyPlan(ctx context.Context, ids []string, planID domain.PlanID, add bool) (int, error) {
	var exists bool
	if err := a.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM plans WHERE id = $1)`, string(planID)).Scan(&exists); err != nil {
		return 0, fmt.Errorf("apply plan: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("unknown plan %q", planID)
	}

	var res sql.Result
	var err error
	if add {
		res, err = a.db.ExecContext(ctx,
			`INSERT INTO plan_districts (plan_id, district_id)
			 SELECT $1, d.id FROM districts d WHERE d.id = ANY($2)
			 ON CONFLICT (plan_id, district_id) DO NOTHING`,
			string(planID), pq.Array(ids))
	} else {
		res, err = a.db.ExecContext(ctx,
			`DELETE FROM plan_districts WHERE plan_id = $1 AND district_id = ANY($2)`,
			string(planID), pq.Array(ids))
	}
	if err != nil {
		return 0, fmt.Errorf("apply plan: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// CreatePlan inserts a plan and its initial membership.
func (a *Adapter) CreatePlan(ctx context.Context, p *domain.Plan) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO plans (id, name, owner) VALUES ($1, $2, $3)`,
		string(p.ID), p.Name, p.Owner); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	for _, id := range p.Districts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO plan_districts (plan_id, district_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			string(p.ID), string(id)); err != nil {
			return fmt.Errorf("create plan: %w", err)
		}
	}
	return tx.Commit()
}

func scanRow(entity domain.EntityKind, rows *sql.Rows) (explore.Row, error) {
	switch entity {
	case domain.EntityDistricts:
		d := &domain.District{}
		var vendors, tags []string
		if err := rows.Scan(&d.ID, &d.Name, &d.State, &d.County, &d.Enrollment,
			&d.ELLPct, &d.SWDPct, &d.Owner, pq.Array(&vendors), pq.Array(&tags)); err != nil {
			return nil, err
		}
		d.Vendors = vendors
		d.Tags = tags
		return explore.DistrictRow{District: d}, nil
	case domain.EntityActivities:
		a := &domain.Activity{}
		var status string
		if err := rows.Scan(&a.ID, &a.DistrictID, &a.Kind, &a.Subject, &a.Owner, &status, &a.DueDate); err != nil {
			return nil, err
		}
		a.Status = domain.ActivityStatus(status)
		return explore.ActivityRow{Activity: a}, nil
	case domain.EntityTasks:
		t := &domain.Task{}
		if err := rows.Scan(&t.ID, &t.PlanID, &t.Title, &t.Owner, &t.Done, &t.DueDate, &t.Priority); err != nil {
			return nil, err
		}
		return explore.TaskRow{Task: t}, nil
	case domain.EntityContacts:
		c := &domain.Contact{}
		if err := rows.Scan(&c.ID, &c.DistrictID, &c.Name, &c.Title, &c.Email, &c.Primary); err != nil {
			return nil, err
		}
		return explore.ContactRow{Contact: c}, nil
	case domain.EntityPlans:
		p := &domain.Plan{}
		r := domain.PlanRollup{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Owner, &r.DistrictCount, &r.TotalEnrollment); err != nil {
			return nil, err
		}
		r.PlanID = p.ID
		return explore.PlanRow{Plan: p, Rollup: r}, nil
	default:
		return nil, fmt.Errorf("unknown entity %q", entity)
	}
}
