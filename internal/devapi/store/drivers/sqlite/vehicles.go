package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/carhire/internal/devapi/domain"
	"github.com/aussiebroadwan/carhire/internal/devapi/store"
)

type vehiclesRepo struct {
	q dbtx
}

const vehicleColumns = `id, make, model, year, seats, transmission, station, daily_rate_cents, available, created_at`

func scanVehicle(row interface{ Scan(...any) error }) (domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(
		&v.ID,
		&v.Make,
		&v.Model,
		&v.Year,
		&v.Seats,
		&v.Transmission,
		&v.Station,
		&v.DailyRateCents,
		&v.Available,
		&v.CreatedAt,
	)
	return v, err
}

func (r *vehiclesRepo) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles ORDER BY make, model, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *vehiclesRepo) GetVehicleByID(ctx context.Context, id string) (domain.Vehicle, error) {
	v, err := scanVehicle(r.q.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = ?`, id))
	if err != nil {
		return domain.Vehicle{}, mapNotFound(err)
	}
	return v, nil
}

func (r *vehiclesRepo) UpsertVehicle(ctx context.Context, v domain.Vehicle) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO vehicles (`+vehicleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			make = excluded.make,
			model = excluded.model,
			year = excluded.year,
			seats = excluded.seats,
			transmission = excluded.transmission,
			station = excluded.station,
			daily_rate_cents = excluded.daily_rate_cents,
			available = excluded.available`,
		v.ID, v.Make, v.Model, v.Year, v.Seats, v.Transmission, v.Station,
		v.DailyRateCents, v.Available, time.Now().UTC(),
	)
	return err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
