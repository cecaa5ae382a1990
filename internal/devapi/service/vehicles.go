package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/carhire/internal/devapi/domain"
	"github.com/aussiebroadwan/carhire/internal/devapi/store"
)

type VehicleService struct {
	Store store.Store
}

func (s *VehicleService) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return s.Store.Vehicles().ListVehicles(ctx)
}

func (s *VehicleService) GetVehicle(ctx context.Context, id string) (domain.Vehicle, error) {
	v, err := s.Store.Vehicles().GetVehicleByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Vehicle{}, ErrNotFound
	}
	return v, err
}

// SeedCatalogue upserts the demo fleet in one transaction.
func (s *VehicleService) SeedCatalogue(ctx context.Context, fleet []domain.Vehicle) error {
	return s.Store.WithTx(ctx, func(tx store.Store) error {
		for _, v := range fleet {
			if err := tx.Vehicles().UpsertVehicle(ctx, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// DemoFleet is the catalogue a fresh development API starts with.
func DemoFleet() []domain.Vehicle {
	return []domain.Vehicle{
		{ID: "veh-corolla", Make: "Toyota", Model: "Corolla", Year: 2022, Seats: 5, Transmission: "automatic", Station: "SYD-CBD", DailyRateCents: 6500, Available: true},
		{ID: "veh-cx5", Make: "Mazda", Model: "CX-5", Year: 2023, Seats: 5, Transmission: "automatic", Station: "SYD-AIR", DailyRateCents: 8900, Available: true},
		{ID: "veh-hiace", Make: "Toyota", Model: "HiAce", Year: 2021, Seats: 12, Transmission: "manual", Station: "MEL-CBD", DailyRateCents: 14500, Available: false},
		{ID: "veh-model3", Make: "Tesla", Model: "Model 3", Year: 2024, Seats: 5, Transmission: "automatic", Station: "MEL-AIR", DailyRateCents: 12000, Available: true},
	}
}
