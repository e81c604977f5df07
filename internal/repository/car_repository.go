package repository

import (
	"context"

	"gorm.io/gorm"

	"carlot/internal/db"
	"carlot/internal/model"
)

// CarRepository defines car persistence operations.
type CarRepository interface {
	ListActive(ctx context.Context) ([]model.Car, error)
	Create(ctx context.Context, car *model.Car) error
	SoftDelete(ctx context.Context, id uint) (int64, error)
	Update(ctx context.Context, id uint, carMake, carModel string, year int) (int64, error)
}

type carRepository struct {
	db *gorm.DB
}

// NewCarRepository creates a new car repository. Queries run on the request
// session when the context carries one.
func NewCarRepository(gormDB *gorm.DB) CarRepository {
	return &carRepository{db: gormDB}
}

// ListActive lists every car that has not been soft-deleted.
func (r *carRepository) ListActive(ctx context.Context) ([]model.Car, error) {
	cars := make([]model.Car, 0)
	if err := db.Conn(ctx, r.db).Where("deleted_flag IS NULL").Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

// Create inserts a new car.
func (r *carRepository) Create(ctx context.Context, car *model.Car) error {
	return db.Conn(ctx, r.db).Exec(
		"INSERT INTO car (make, model, year) VALUES (@make, @model, @year)",
		map[string]interface{}{
			"make":  car.Make,
			"model": car.Model,
			"year":  car.Year,
		},
	).Error
}

// SoftDelete flags a car as deleted. Missing ids affect zero rows.
func (r *carRepository) SoftDelete(ctx context.Context, id uint) (int64, error) {
	res := db.Conn(ctx, r.db).Exec(
		"UPDATE car SET deleted_flag = 1 WHERE id = @id",
		map[string]interface{}{"id": id},
	)
	return res.RowsAffected, res.Error
}

// Update overwrites make, model and year of a car in one statement.
func (r *carRepository) Update(ctx context.Context, id uint, carMake, carModel string, year int) (int64, error) {
	res := db.Conn(ctx, r.db).Exec(
		"UPDATE car SET make = @make, model = @model, year = @year WHERE id = @id",
		map[string]interface{}{
			"make":  carMake,
			"model": carModel,
			"year":  year,
			"id":    id,
		},
	)
	return res.RowsAffected, res.Error
}
